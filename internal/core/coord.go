package core

import "fmt"

// Coord represents a cell on the integer tile grid.
// X increases to the right, Y increases downward (row order on screen).
// Coord is a comparable value type and can be used directly as a map key.
type Coord struct {
	X int
	Y int
}

// C is a convenience constructor for Coord.
func C(x, y int) Coord {
	return Coord{X: x, Y: y}
}

// Unit offsets for the four grid neighbours.
var (
	Up    = Coord{X: 0, Y: -1}
	Down  = Coord{X: 0, Y: 1}
	Left  = Coord{X: -1, Y: 0}
	Right = Coord{X: 1, Y: 0}
)

// Neighbors4 lists the unit offsets in the order border cells are proposed.
var Neighbors4 = [4]Coord{Up, Right, Down, Left}

// String returns a string representation of the coordinate.
func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Add returns a new Coord offset by (dx, dy).
func (c Coord) Add(dx, dy int) Coord {
	return Coord{X: c.X + dx, Y: c.Y + dy}
}

// AddCoord returns the sum of two coordinates.
func (c Coord) AddCoord(other Coord) Coord {
	return Coord{X: c.X + other.X, Y: c.Y + other.Y}
}

// Sub returns the offset from other to c.
func (c Coord) Sub(other Coord) Coord {
	return Coord{X: c.X - other.X, Y: c.Y - other.Y}
}

// Less orders coordinates row-major (Y first, then X).
func (c Coord) Less(other Coord) bool {
	if c.Y != other.Y {
		return c.Y < other.Y
	}
	return c.X < other.X
}
