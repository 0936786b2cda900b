package codec

import (
	"strconv"

	"github.com/c360studio/semagent/value"
)

// GeneratedPrefix starts every label the Allocator invents.
const GeneratedPrefix = "bn"

// Allocator assigns node labels for one outbound message. A preferred
// label is used as is unless it collides with a reserved variable name, in
// which case a fresh prefix+counter label is generated. Results are
// memoized so a preferred label always resolves the same way.
type Allocator struct {
	prefix   string
	reserved map[string]bool
	memo     map[string]string
	counter  int
}

// NewAllocator returns an allocator that never hands out a reserved name.
func NewAllocator(reserved []string) *Allocator {
	a := &Allocator{
		prefix:   GeneratedPrefix,
		reserved: make(map[string]bool, len(reserved)),
		memo:     make(map[string]string),
	}
	for _, name := range reserved {
		a.reserved[name] = true
	}
	return a
}

// Label resolves a preferred label.
func (a *Allocator) Label(preferred string) string {
	if actual, ok := a.memo[preferred]; ok {
		return actual
	}
	actual := preferred
	if a.reserved[preferred] {
		for {
			a.counter++
			actual = a.prefix + strconv.Itoa(a.counter)
			if !a.reserved[actual] {
				break
			}
		}
	}
	a.memo[preferred] = actual
	return actual
}

// ReservedNames collects the names of every variable used as a constraint
// target, filter variable or binding value.
func ReservedNames(constraints []value.Constraint, filters []value.Filter, bindings ...[]value.Binding) []string {
	seen := make(map[string]bool)
	var names []string
	add := func(v value.Value) {
		if vr, ok := v.(*value.Variable); ok && vr != nil && !seen[vr.Name] {
			seen[vr.Name] = true
			names = append(names, vr.Name)
		}
	}
	for _, f := range filters {
		add(f.Variable)
	}
	for _, c := range constraints {
		add(c.Target)
		for _, b := range c.Bindings {
			add(b.Value)
		}
	}
	for _, bs := range bindings {
		for _, b := range bs {
			add(b.Value)
		}
	}
	return names
}
