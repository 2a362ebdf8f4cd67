package cascade

// Value is a declared property value with the provenance needed to
// resolve conflicts.
type Value struct {
	Value       string
	Specificity Specificity
	Important   bool
	Order       int
}

// Beats reports whether v wins over o: !important first, then
// specificity, then source order.
func (v Value) Beats(o Value) bool {
	if v.Important != o.Important {
		return v.Important
	}
	if v.Specificity != o.Specificity {
		return o.Specificity.Less(v.Specificity)
	}
	return v.Order >= o.Order
}

// Styles maps property names to their winning declared values.
type Styles map[string]Value

// Set stores v for prop unless the current value beats it. It reports
// whether v was stored.
func (s Styles) Set(prop string, v Value) bool {
	if cur, ok := s[prop]; ok && !v.Beats(cur) {
		return false
	}
	s[prop] = v
	return true
}

// Get returns the value stored for prop.
func (s Styles) Get(prop string) (string, bool) {
	v, ok := s[prop]
	return v.Value, ok
}

// ApplyRule stores every declaration of r.
func (s Styles) ApplyRule(r *Rule) {
	for _, d := range r.Declarations {
		s.Set(d.Property, Value{
			Value:       d.Value,
			Specificity: r.Specificity,
			Important:   d.Important,
			Order:       r.Order,
		})
	}
}
