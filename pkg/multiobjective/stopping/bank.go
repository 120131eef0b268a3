package stopping

import "fmt"

// Bank polls a list of criteria together.
type Bank struct {
	criteria []Criterion
}

func NewBank(criteria ...Criterion) *Bank {
	return &Bank{criteria: criteria}
}

// Criteria returns the criteria of the bank in polling order.
func (b *Bank) Criteria() []Criterion {
	return b.criteria
}

// Check updates every criterion with s. Every criterion is checked even when
// an earlier one fails; the first error is returned.
func (b *Bank) Check(s State) error {
	var first error
	for _, c := range b.criteria {
		if err := c.Check(s); err != nil && first == nil {
			first = fmt.Errorf("checking %s: %w", c.Name(), err)
		}
	}
	return first
}

// Met returns the names of the criteria that are met.
func (b *Bank) Met() []string {
	var names []string
	for _, c := range b.criteria {
		if c.Met() {
			names = append(names, c.Name())
		}
	}
	return names
}

// Stop reports whether any criterion is met.
func (b *Bank) Stop() bool {
	for _, c := range b.criteria {
		if c.Met() {
			return true
		}
	}
	return false
}

// Requires returns the union of the statistics the criteria consume.
func (b *Bank) Requires() Statistic {
	var stats Statistic
	for _, c := range b.criteria {
		for _, s := range c.Requires() {
			stats |= s
		}
	}
	return stats
}

// Reset clears the met flag of every criterion.
func (b *Bank) Reset() {
	for _, c := range b.criteria {
		c.Reset()
	}
}
