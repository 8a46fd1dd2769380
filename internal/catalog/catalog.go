// Package catalog holds the fixed set of products the bot sells.
// The catalog is built once at startup and never mutated afterwards.
package catalog

import "fmt"

// Entry describes a single purchasable product.
// UnitPrice is expressed in whole currency units.
type Entry struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	UnitPrice int    `yaml:"unit_price"`
}

// Catalog is an immutable, insertion-ordered product set.
type Catalog struct {
	entries []Entry
	byID    map[string]Entry
}

// New validates the provided entries and builds a catalog.
// Duplicate ids, empty ids or names, and non-positive prices are
// configuration errors and abort startup.
func New(entries []Entry) (*Catalog, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("catalog: no products configured")
	}
	c := &Catalog{
		entries: make([]Entry, 0, len(entries)),
		byID:    make(map[string]Entry, len(entries)),
	}
	for i, e := range entries {
		if e.ID == "" {
			return nil, fmt.Errorf("catalog: product %d has empty id", i)
		}
		if e.Name == "" {
			return nil, fmt.Errorf("catalog: product %q has empty name", e.ID)
		}
		if e.UnitPrice <= 0 {
			return nil, fmt.Errorf("catalog: product %q has non-positive price %d", e.ID, e.UnitPrice)
		}
		if _, dup := c.byID[e.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate product id %q", e.ID)
		}
		c.entries = append(c.entries, e)
		c.byID[e.ID] = e
	}
	return c, nil
}

// Lookup returns the entry for the given id.
func (c *Catalog) Lookup(id string) (Entry, bool) {
	e, ok := c.byID[id]
	return e, ok
}

// List returns all entries in insertion order. The returned slice is a copy.
func (c *Catalog) List() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len reports the number of products.
func (c *Catalog) Len() int {
	return len(c.entries)
}
