// Package powergrid maintains the connectivity graph between placed entities.
//
// Edges are derived with placement.IsAdjacent from the entities' own cell
// sets, never from the occupancy index: both subscribe to Phase1, and the
// index may not have recorded the new entity when the graph sees it.
package powergrid

import (
	"sort"

	"github.com/vovakirdan/tilegrid/internal/events"
	"github.com/vovakirdan/tilegrid/internal/placement"
)

// Conducts decides whether an entity takes part in the grid.
type Conducts func(e *placement.Entity) bool

// Network is one connected group of entities.
type Network struct {
	Members []*placement.Entity
}

// Has reports whether e belongs to the network.
func (n Network) Has(e *placement.Entity) bool {
	for _, m := range n.Members {
		if m == e {
			return true
		}
	}
	return false
}

// Tags counts members per tag.
func (n Network) Tags() map[string]int {
	out := make(map[string]int)
	for _, m := range n.Members {
		out[m.Tag()]++
	}
	return out
}

// Graph is an undirected adjacency graph over conducting entities.
type Graph struct {
	conducts Conducts
	nodes    []*placement.Entity // insertion order, for deterministic output
	edges    map[*placement.Entity]map[*placement.Entity]struct{}
}

// New creates an empty graph. A nil filter admits every entity.
func New(conducts Conducts) *Graph {
	if conducts == nil {
		conducts = func(*placement.Entity) bool { return true }
	}
	return &Graph{
		conducts: conducts,
		edges:    make(map[*placement.Entity]map[*placement.Entity]struct{}),
	}
}

// Attach subscribes the graph to Phase1 of bus.
func (g *Graph) Attach(bus *placement.Bus) {
	bus.Subscribe(events.Create, events.Phase1, g.Add)
	bus.Subscribe(events.Destroy, events.Phase1, g.Remove)
}

// Add links e to every existing node it is adjacent to.
func (g *Graph) Add(e *placement.Entity) error {
	if !g.conducts(e) {
		return nil
	}
	if _, ok := g.edges[e]; ok {
		return nil
	}

	links := make(map[*placement.Entity]struct{})
	for _, other := range g.nodes {
		if placement.IsAdjacent(e, other) {
			links[other] = struct{}{}
			g.edges[other][e] = struct{}{}
		}
	}
	g.edges[e] = links
	g.nodes = append(g.nodes, e)
	return nil
}

// Remove drops e and its edges. Unknown entities are ignored.
func (g *Graph) Remove(e *placement.Entity) error {
	links, ok := g.edges[e]
	if !ok {
		return nil
	}
	for other := range links {
		delete(g.edges[other], e)
	}
	delete(g.edges, e)

	for i, n := range g.nodes {
		if n == e {
			g.nodes = append(g.nodes[:i], g.nodes[i+1:]...)
			break
		}
	}
	return nil
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Contains reports whether e is a node.
func (g *Graph) Contains(e *placement.Entity) bool {
	_, ok := g.edges[e]
	return ok
}

// Neighbors returns the nodes adjacent to e in insertion order.
func (g *Graph) Neighbors(e *placement.Entity) []*placement.Entity {
	links := g.edges[e]
	out := make([]*placement.Entity, 0, len(links))
	for _, n := range g.nodes {
		if _, ok := links[n]; ok {
			out = append(out, n)
		}
	}
	return out
}

// Connected reports whether a and b are in the same network.
func (g *Graph) Connected(a, b *placement.Entity) bool {
	if !g.Contains(a) || !g.Contains(b) {
		return false
	}
	return g.NetworkOf(a).Has(b)
}

// NetworkOf returns the network containing e. Unknown entities yield an
// empty network.
func (g *Graph) NetworkOf(e *placement.Entity) Network {
	if !g.Contains(e) {
		return Network{}
	}
	return Network{Members: g.component(e, make(map[*placement.Entity]bool))}
}

// Networks returns every connected component, each ordered by insertion and
// the list ordered by its earliest member.
func (g *Graph) Networks() []Network {
	visited := make(map[*placement.Entity]bool)
	var out []Network
	for _, n := range g.nodes {
		if visited[n] {
			continue
		}
		out = append(out, Network{Members: g.component(n, visited)})
	}
	return out
}

// component collects the nodes reachable from start with a breadth-first walk.
func (g *Graph) component(start *placement.Entity, visited map[*placement.Entity]bool) []*placement.Entity {
	order := make(map[*placement.Entity]int, len(g.nodes))
	for i, n := range g.nodes {
		order[n] = i
	}

	var members []*placement.Entity
	queue := []*placement.Entity{start}
	visited[start] = true
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		members = append(members, cur)
		for next := range g.edges[cur] {
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}

	sort.Slice(members, func(i, j int) bool {
		return order[members[i]] < order[members[j]]
	})
	return members
}
