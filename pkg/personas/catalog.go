package personas

import (
	"github.com/pkg/errors"
)

// Catalog is an ordered, read-only set of personas.
type Catalog struct {
	order []string
	byID  map[string]*Persona
}

// NewCatalog validates personas and keeps them in the given order.
func NewCatalog(personas []*Persona) (*Catalog, error) {
	ret := &Catalog{
		order: make([]string, 0, len(personas)),
		byID:  make(map[string]*Persona, len(personas)),
	}
	for _, p := range personas {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		c := p.Clone()
		c.ID = MustID(c.ID)
		if _, ok := ret.byID[c.ID]; ok {
			return nil, &ValidationError{PersonaID: c.ID, Field: "id", Reason: "is defined twice"}
		}
		ret.order = append(ret.order, c.ID)
		ret.byID[c.ID] = c
	}
	return ret, nil
}

// Default returns the catalog of built-in personas.
func Default() *Catalog {
	c, err := NewCatalog(Builtin())
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) Len() int {
	return len(c.order)
}

// Lookup returns a copy of the persona with the given id.
func (c *Catalog) Lookup(id string) (*Persona, bool) {
	p, ok := c.byID[id]
	if !ok {
		return nil, false
	}
	return p.Clone(), true
}

func (c *Catalog) Get(id string) (*Persona, error) {
	p, ok := c.Lookup(id)
	if !ok {
		return nil, errors.Wrapf(ErrPersonaNotFound, "persona %q", id)
	}
	return p, nil
}

// Instruction returns the priming text of a persona.
func (c *Catalog) Instruction(id string) (string, bool) {
	p, ok := c.byID[id]
	if !ok {
		return "", false
	}
	return p.Instruction, true
}

func (c *Catalog) List() []*Persona {
	ret := make([]*Persona, 0, len(c.order))
	for _, id := range c.order {
		ret = append(ret, c.byID[id].Clone())
	}
	return ret
}

func (c *Catalog) IDs() []string {
	return append([]string(nil), c.order...)
}

// First returns the id of the first persona, or "" for an empty catalog.
func (c *Catalog) First() string {
	if len(c.order) == 0 {
		return ""
	}
	return c.order[0]
}

// Cycle returns the id delta positions away from id, wrapping around. An
// unknown id starts from the first persona.
func (c *Catalog) Cycle(id string, delta int) string {
	n := len(c.order)
	if n == 0 {
		return ""
	}
	idx := -1
	for i, candidate := range c.order {
		if candidate == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return c.order[0]
	}
	return c.order[((idx+delta)%n+n)%n]
}

// Merge returns a new catalog where overlay personas replace the fields they
// set on a persona with the same id, and new ids are appended in order.
func (c *Catalog) Merge(overlay []*Persona) (*Catalog, error) {
	merged := c.List()
	index := make(map[string]int, len(merged))
	for i, p := range merged {
		index[p.ID] = i
	}

	for _, o := range overlay {
		if o == nil {
			continue
		}
		id, err := ParseID(o.ID)
		if err != nil {
			return nil, err
		}
		if i, ok := index[id]; ok {
			merged[i] = mergePersona(merged[i], o)
			continue
		}
		p := o.Clone()
		p.ID = id
		p.IsBuiltIn = false
		index[id] = len(merged)
		merged = append(merged, p)
	}

	return NewCatalog(merged)
}

func mergePersona(base *Persona, o *Persona) *Persona {
	ret := base.Clone()
	if o.Name != "" {
		ret.Name = o.Name
	}
	if o.Description != "" {
		ret.Description = o.Description
	}
	if o.Instruction != "" {
		ret.Instruction = o.Instruction
	}
	if o.Color != "" {
		ret.Color = o.Color
	}
	if o.Greeting != "" {
		ret.Greeting = o.Greeting
	}
	return ret
}
