package field

// Snapshot is the read-only view evaluators receive during a pass. Values
// are read live from the inputs; validity is frozen at the moment the
// snapshot was taken, so every field in a pass sees the previous pass's
// validity of its siblings regardless of declaration order.
type Snapshot struct {
	registry *Registry
	validity map[string]bool
}

// Snapshot captures the current validity of every field.
func (r *Registry) Snapshot() *Snapshot {
	validity := make(map[string]bool, len(r.fields))
	for _, f := range r.fields {
		validity[f.Name()] = f.valid
	}
	return &Snapshot{registry: r, validity: validity}
}

// Lookup returns any registered input by name.
func (s *Snapshot) Lookup(name string) (Source, bool) {
	return s.registry.Input(name)
}

// Validity returns the frozen validity of a validation-enabled field. The
// second result is false when name is not such a field.
func (s *Snapshot) Validity(name string) (bool, bool) {
	valid, ok := s.validity[name]
	return valid, ok
}

// Members returns the members of a checkbox or radio group.
func (s *Snapshot) Members(group string) []Source {
	return s.registry.Members(group)
}
