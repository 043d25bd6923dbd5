package symbol

import (
	"fmt"
	"slices"

	"github.com/cartokit/carto"
)

// Catalog stores symbols with lookup by id, exact name and exact code.
// Catalog order (insertion order) is preserved.
//
// Only ids are unique. Names and codes may repeat; the lookup indexes
// return the earliest symbol in catalog order carrying them. Empty names
// and zero codes are not indexed. The name and code are read once, when
// the symbol is added.
//
// Catalog is not safe for concurrent mutation.
type Catalog struct {
	byID   map[ID]*Symbol
	keys   map[ID]indexKey
	byName map[string]ID
	byCode map[Code]ID
	order  []ID
}

type indexKey struct {
	name string
	code Code
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		byID:   make(map[ID]*Symbol),
		keys:   make(map[ID]indexKey),
		byName: make(map[string]ID),
		byCode: make(map[Code]ID),
	}
}

// Add validates s and inserts it. A taken id returns
// carto.ErrDuplicateIdentifier.
func (c *Catalog) Add(s *Symbol) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if _, ok := c.byID[s.ID]; ok {
		return fmt.Errorf("symbol id %q: %w", s.ID, carto.ErrDuplicateIdentifier)
	}

	c.byID[s.ID] = s
	c.keys[s.ID] = indexKey{name: s.Name, code: s.Code}
	c.order = append(c.order, s.ID)
	c.index(s.ID)
	return nil
}

// index records id under its name and code unless an earlier symbol
// already holds them.
func (c *Catalog) index(id ID) {
	k := c.keys[id]
	if _, ok := c.byName[k.name]; !ok && k.name != "" {
		c.byName[k.name] = id
	}
	if _, ok := c.byCode[k.code]; !ok && k.code != (Code{}) {
		c.byCode[k.code] = id
	}
}

// Remove deletes the symbol with the given id. It reports whether the
// symbol existed. Reference checks belong to the owner of the catalog.
func (c *Catalog) Remove(id ID) bool {
	if _, ok := c.byID[id]; !ok {
		return false
	}
	k := c.keys[id]
	delete(c.byID, id)
	delete(c.keys, id)
	c.order = slices.DeleteFunc(c.order, func(x ID) bool { return x == id })

	if c.byName[k.name] == id {
		delete(c.byName, k.name)
	}
	if c.byCode[k.code] == id {
		delete(c.byCode, k.code)
	}
	// Hand the freed name or code to the next symbol carrying it.
	for _, other := range c.order {
		if o := c.keys[other]; o.name == k.name || o.code == k.code {
			c.index(other)
		}
	}
	return true
}

// Get returns the symbol with the given id.
func (c *Catalog) Get(id ID) (*Symbol, bool) {
	s, ok := c.byID[id]
	return s, ok
}

// ByName looks up a symbol by its exact, case-sensitive name.
func (c *Catalog) ByName(name string) (*Symbol, bool) {
	id, ok := c.byName[name]
	if !ok {
		return nil, false
	}
	return c.byID[id], true
}

// ByCode looks up a symbol by its exact code.
func (c *Catalog) ByCode(code Code) (*Symbol, bool) {
	id, ok := c.byCode[code]
	if !ok {
		return nil, false
	}
	return c.byID[id], true
}

// Len returns the number of symbols.
func (c *Catalog) Len() int {
	return len(c.order)
}

// All returns the symbols in catalog order.
func (c *Catalog) All() []*Symbol {
	out := make([]*Symbol, len(c.order))
	for i, id := range c.order {
		out[i] = c.byID[id]
	}
	return out
}

// SortedByCode returns the symbols ordered by code.
func (c *Catalog) SortedByCode() []*Symbol {
	out := c.All()
	slices.SortFunc(out, func(a, b *Symbol) int { return a.Code.Compare(b.Code) })
	return out
}
