package value

// Binding pairs a property URI with a value attached to a node.
type Binding struct {
	Property string `json:"property"`
	Value    Value  `json:"value"`
}

// NewBinding validates property and value.
func NewBinding(property string, v Value) (Binding, error) {
	if _, err := ParseURI(property); err != nil {
		return Binding{}, WithField(err, "property")
	}
	if v == nil {
		return Binding{}, &ValidationError{
			Field:        "value",
			ExpectedType: "value",
			Value:        NilMarker,
			Description:  "binding value must not be nil",
		}
	}
	return Binding{Property: property, Value: v}, nil
}

// Constraint is a named node and the ordered bindings attached to it.
// Bindings is never empty.
type Constraint struct {
	Target   NamedValue `json:"target"`
	Bindings []Binding  `json:"bindings"`
}

// NewConstraint rejects a nil target and an empty bindings list.
func NewConstraint(target NamedValue, bindings []Binding) (Constraint, error) {
	if target == nil || isNilVariable(target) {
		return Constraint{}, &ValidationError{
			Field:        "target",
			ExpectedType: "namedValue",
			Value:        NilMarker,
			Description:  "constraint target must be a resource or variable",
		}
	}
	if len(bindings) == 0 {
		return Constraint{}, &ValidationError{
			Field:        "bindings",
			ExpectedType: "binding",
			Value:        target.String(),
			Description:  "constraint must carry at least one binding",
		}
	}
	return Constraint{Target: target, Bindings: bindings}, nil
}

// Filter declares an entry point into the constraint graph: the target
// resource relates to Variable through Property.
type Filter struct {
	Property string    `json:"property"`
	Variable *Variable `json:"variable"`
}

// NewFilter validates property and variable.
func NewFilter(property string, v *Variable) (Filter, error) {
	if _, err := ParseURI(property); err != nil {
		return Filter{}, WithField(err, "property")
	}
	if v == nil {
		return Filter{}, &ValidationError{
			Field:        "variable",
			ExpectedType: TypeVariable,
			Value:        NilMarker,
			Description:  "filter variable must not be nil",
		}
	}
	return Filter{Property: property, Variable: v}, nil
}

// Variables returns every distinct variable referenced by the constraints,
// as target or binding value, in first-seen order.
func Variables(constraints []Constraint) []*Variable {
	seen := make(map[*Variable]bool)
	var out []*Variable
	add := func(v Value) {
		if vr, ok := v.(*Variable); ok && vr != nil && !seen[vr] {
			seen[vr] = true
			out = append(out, vr)
		}
	}
	for _, c := range constraints {
		add(c.Target)
		for _, b := range c.Bindings {
			add(b.Value)
		}
	}
	return out
}

func isNilVariable(v NamedValue) bool {
	vr, ok := v.(*Variable)
	return ok && vr == nil
}
