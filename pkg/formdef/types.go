package formdef

// Store keeps the parsed forms. It is safe for concurrent readers when treated
// as immutable after construction.
type Store struct {
	forms map[string]Form
}

// Form is one form definition.
type Form struct {
	ID     string        `json:"-" yaml:"-"`
	Source string        `json:"-" yaml:"-"`
	Title  string        `json:"title" yaml:"title"`
	Submit string        `json:"submit,omitempty" yaml:"submit,omitempty"`
	Fields []FieldConfig `json:"fields" yaml:"fields"`
}

// FieldConfig declares one input, or a whole checkbox/radio group when
// Options is set on a checkbox or radio kind.
type FieldConfig struct {
	Name  string `json:"name" yaml:"name"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
	// Kind is text, checkbox, radio or select. Empty means text.
	Kind string `json:"kind,omitempty" yaml:"kind,omitempty"`
	// Validate is the directive string, e.g. "req len:5-16".
	Validate string `json:"validate,omitempty" yaml:"validate,omitempty"`

	// Value is the initial text, or the initially selected option of a select.
	Value   string `json:"value,omitempty" yaml:"value,omitempty"`
	Checked bool   `json:"checked,omitempty" yaml:"checked,omitempty"`

	// Group attaches a single checkbox or radio member to a group declared
	// elsewhere; Option is the value it submits.
	Group  string `json:"group,omitempty" yaml:"group,omitempty"`
	Option string `json:"option,omitempty" yaml:"option,omitempty"`

	// Options lists select options, or the members of a checkbox/radio group.
	Options []string `json:"options,omitempty" yaml:"options,omitempty"`
	// Selected lists the initially checked members of a group.
	Selected []string `json:"selected,omitempty" yaml:"selected,omitempty"`
}

// IsGroup reports whether cfg declares a checkbox or radio group with inline
// members.
func (cfg FieldConfig) IsGroup() bool {
	return (cfg.Kind == "checkbox" || cfg.Kind == "radio") && len(cfg.Options) > 0
}

// Labels maps field and member names to their labels, falling back to the
// name itself.
func (f Form) Labels() map[string]string {
	out := make(map[string]string, len(f.Fields))
	for _, cfg := range f.Fields {
		label := cfg.Label
		if label == "" {
			label = cfg.Name
		}
		out[cfg.Name] = label
		if cfg.IsGroup() {
			for _, option := range cfg.Options {
				out[MemberName(cfg.Name, option)] = option
			}
		}
	}
	return out
}

// MemberName is the input name given to an inline group member.
func MemberName(group, option string) string {
	return group + "." + option
}
