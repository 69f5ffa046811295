package ease

import (
	"fmt"
	"sort"
	"strings"
)

const gweenPrefix = "gween."

// Catalog maps easing names to their Sets.
type Catalog struct {
	sets map[string]Set
}

// NewCatalog returns a catalog holding every built-in entry.
func NewCatalog() *Catalog {
	c := &Catalog{sets: make(map[string]Set)}

	c.Register("linear", LinearSet)
	c.Register("sine", Sine)
	c.Register("quadratic", Quadratic)
	c.Register("cubic", Cubic)
	c.Register("quartic", Quartic)
	c.Register("quintic", Quintic)
	c.Register("exponential", Exponential)
	c.Register("circular", Circular)
	c.Register("elastic", Elastic)
	c.Register("back", BackSet)
	c.Register("bounce", Bounce)
	c.Register("spring", Derive(Spring(DefaultSpringFrequency, DefaultSpringDamping)))

	return c
}

// Default is the catalog used by Lookup.
var Default = NewCatalog()

// Register adds or replaces a named entry.
func (c *Catalog) Register(name string, s Set) {
	c.sets[name] = s
}

// Get returns the Set registered under name.
func (c *Catalog) Get(name string) (Set, bool) {
	s, ok := c.sets[name]
	return s, ok
}

// Names returns the registered names in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.sets))
	for name := range c.sets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup resolves "<name>", "<name>.in", "<name>.out", "<name>.inOut" or
// "gween.<Func>". An empty ref resolves to Linear.
func (c *Catalog) Lookup(ref string) (Func, error) {
	if ref == "" {
		return Linear, nil
	}

	if strings.HasPrefix(ref, gweenPrefix) {
		fn, ok := gweenFuncs[strings.TrimPrefix(ref, gweenPrefix)]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownEase, ref)
		}
		return FromGween(fn), nil
	}

	name, form := ref, "in"
	if i := strings.LastIndexByte(ref, '.'); i >= 0 {
		name, form = ref[:i], ref[i+1:]
	}

	s, ok := c.sets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEase, ref)
	}

	switch strings.ToLower(form) {
	case "in":
		return s.In, nil
	case "out":
		return s.Out, nil
	case "inout", "in-out", "in_out":
		return s.InOut, nil
	}
	return nil, fmt.Errorf("%w: %s (form %q)", ErrUnknownEase, ref, form)
}

// Lookup resolves ref against the Default catalog.
func Lookup(ref string) (Func, error) {
	return Default.Lookup(ref)
}
