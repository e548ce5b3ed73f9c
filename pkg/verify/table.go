package verify

import (
	"sort"
	"sync"
)

// Table collects violations from concurrent workers.
type Table struct {
	mu         sync.Mutex
	violations []Violation
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{}
}

// Add inserts violations into the table.
func (t *Table) Add(v ...Violation) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.violations = append(t.violations, v...)
}

// Violations returns a copy of all violations ordered by prefix, opcode,
// vector and round.
func (t *Table) Violations() []Violation {
	t.mu.Lock()
	defer t.mu.Unlock()
	result := make([]Violation, len(t.violations))
	copy(result, t.violations)
	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if a.Op.Prefix != b.Op.Prefix {
			return a.Op.Prefix < b.Op.Prefix
		}
		if a.Op.Code != b.Op.Code {
			return a.Op.Code < b.Op.Code
		}
		if a.Vector != b.Vector {
			return a.Vector < b.Vector
		}
		if a.Round != b.Round {
			return a.Round < b.Round
		}
		return a.Reason < b.Reason
	})
	return result
}

// Len returns the number of violations.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.violations)
}
