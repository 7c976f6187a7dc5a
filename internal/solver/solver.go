// SPDX-License-Identifier: MPL-2.0

// Package solver implements the dependency ordering used by bundle composition
// and session document composition.
//
// The algorithm is positional rather than graph-based: it walks the sequence
// left to right and pulls each item's dependencies in front of it until the
// position is stable. This yields a total order that is fully determined by
// the input order and the dependency sets, not merely *a* valid topological
// order. Callers that need an order-independent starting point sort their
// items by name before solving.
//
// The graphs in this domain are small (dozens to low hundreds of nodes), so
// the quadratic worst case is irrelevant next to the determinism guarantee.
package solver

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
)

type (
	// Item is anything with a name and named dependencies.
	Item interface {
		Name() string
		Deps() []string
	}

	// CycleError indicates a dependency cycle, for which no valid order
	// exists. Names holds the items visited at the position where the cycle
	// closed, enough to identify the problem.
	CycleError struct {
		Names []string
	}

	// options holds solve configuration.
	options struct {
		warnMissing bool
		logger      *log.Logger
	}

	// Option configures a Solve call.
	Option func(*options)
)

func (e *CycleError) Error() string {
	return fmt.Sprintf("circular dependency detected: %s", strings.Join(e.Names, " -> "))
}

// WithWarnMissing enables a warning log for dependencies that name an item
// absent from the input. Missing dependencies are expected whenever a caller
// solves a strict subset of the full graph, so the default is silent.
func WithWarnMissing(warn bool) Option {
	return func(o *options) {
		o.warnMissing = warn
	}
}

// WithLogger sets the logger used for missing-dependency warnings.
// Defaults to log.Default().
func WithLogger(logger *log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Solve returns a permutation of items in which every item appears after all
// of its dependencies that are present in the input. Dependencies naming an
// absent item are skipped (optionally logged, see WithWarnMissing). Returns
// CycleError if the dependency graph contains a cycle.
//
// The result is deterministic: the same input order with the same dependency
// sets always produces the same output order.
func Solve[T Item](items []T, opts ...Option) ([]T, error) {
	o := options{logger: log.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	out := make([]T, len(items))
	copy(out, items)

	present := make(map[string]bool, len(out))
	for _, item := range out {
		present[item.Name()] = true
	}

	for index := range out {
		seen := make(map[string]bool)
		var trail []string
		for {
			name := out[index].Name()
			if seen[name] {
				return nil, &CycleError{Names: append(trail, name)}
			}
			seen[name] = true
			trail = append(trail, name)

			moved := false
			for _, dep := range out[index].Deps() {
				if !present[dep] {
					if o.warnMissing {
						o.logger.Warn("missing dependency", "item", name, "dep", dep)
					}
					continue
				}
				if dep == name {
					return nil, &CycleError{Names: append(trail, name)}
				}
				if j := indexOf(out, dep); j > index {
					// Move the dependency in front of the current item and
					// re-examine this position with the newly placed item.
					moved = true
					pulled := out[j]
					copy(out[index+1:j+1], out[index:j])
					out[index] = pulled
					break
				}
			}
			if !moved {
				break
			}
		}
	}

	return out, nil
}

// indexOf returns the position of the item named name, or -1.
func indexOf[T Item](items []T, name string) int {
	for i, item := range items {
		if item.Name() == name {
			return i
		}
	}
	return -1
}
