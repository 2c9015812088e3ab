// Package catalog holds the fixed menu of ledger analyses and runs them.
package catalog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownAnalysis is returned when a label is not in the catalog.
var ErrUnknownAnalysis = errors.New("unknown analysis")

// Entry is one pre-written analysis. SQL is MySQL dialect and takes no
// parameters; Eval computes the same result in process.
type Entry struct {
	Label string
	SQL   string
	Eval  Evaluator
}

// Entries returns the catalog in display order.
func Entries() []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

// Labels returns the entry labels in display order.
func Labels() []string {
	labels := make([]string, len(entries))
	for i, e := range entries {
		labels[i] = e.Label
	}
	return labels
}

// Len returns the number of entries.
func Len() int {
	return len(entries)
}

// Lookup finds an entry by its exact label.
func Lookup(label string) (Entry, error) {
	for _, e := range entries {
		if e.Label == label {
			return e, nil
		}
	}
	return Entry{}, fmt.Errorf("%w: %q", ErrUnknownAnalysis, label)
}

// Resolve accepts either a label or a 1-based position in the catalog.
func Resolve(arg string) (Entry, error) {
	arg = strings.TrimSpace(arg)
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(entries) {
			return Entry{}, fmt.Errorf("%w: index %d out of range 1-%d", ErrUnknownAnalysis, n, len(entries))
		}
		return entries[n-1], nil
	}
	return Lookup(arg)
}
