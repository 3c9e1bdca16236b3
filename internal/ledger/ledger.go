// Package ledger keeps the colony's resource balances.
package ledger

import (
	"errors"
	"fmt"
	"sort"
)

// ErrInsufficient is returned when a spend exceeds the balance.
var ErrInsufficient = errors.New("ledger: insufficient funds")

// Kind names a resource ("money", "coal", ...).
type Kind string

// Money is the currency structures are bought with.
const Money Kind = "money"

// Ledger is a set of keyed additive counters. Unknown kinds read as zero.
type Ledger struct {
	balances map[Kind]float64
}

// New creates a ledger with the given opening balances.
func New(opening map[Kind]float64) *Ledger {
	l := &Ledger{balances: make(map[Kind]float64, len(opening))}
	for k, v := range opening {
		l.balances[k] = v
	}
	return l
}

// Get returns the balance of kind.
func (l *Ledger) Get(kind Kind) float64 {
	return l.balances[kind]
}

// Add changes the balance of kind by delta. Negative deltas are allowed and
// may take the balance below zero; use Spend for checked withdrawals.
func (l *Ledger) Add(kind Kind, delta float64) {
	l.balances[kind] += delta
}

// Spend withdraws amount if the balance covers it.
func (l *Ledger) Spend(kind Kind, amount float64) error {
	if amount < 0 {
		return fmt.Errorf("ledger: negative spend %v", amount)
	}
	if have := l.balances[kind]; have < amount {
		return fmt.Errorf("%w: %s %.0f < %.0f", ErrInsufficient, kind, have, amount)
	}
	l.balances[kind] -= amount
	return nil
}

// Kinds returns every kind with a recorded balance, sorted.
func (l *Ledger) Kinds() []Kind {
	out := make([]Kind, 0, len(l.balances))
	for k := range l.balances {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
