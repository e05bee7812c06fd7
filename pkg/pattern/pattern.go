package pattern

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
)

// Preset names understood by the registry.
const (
	Letters  = "letters"
	Name     = "name"
	Username = "username"
	Numbers  = "numbers"
	Phone    = "phone"
	Date     = "date"
	Email    = "email"
)

// ErrUnknownPreset is returned when a preset name is not registered.
var ErrUnknownPreset = errors.New("pattern: unknown preset")

// emailPattern is a simplified form of the RFC 5322 address grammar
// (regular-expressions.info/email.html), anchored on both ends.
const emailPattern = `(?i)^[a-z0-9!#$%&'*+/=?^_` + "`" + `{|}~-]+(?:\.[a-z0-9!#$%&'*+/=?^_` + "`" + `{|}~-]+)*` +
	`@(?:[a-z0-9](?:[a-z0-9-]*[a-z0-9])?\.)+[a-z0-9](?:[a-z0-9-]*[a-z0-9])?$`

var presets = map[string]*regexp.Regexp{
	Letters:  regexp.MustCompile(`^[a-zA-Z]*$`),
	Name:     regexp.MustCompile(`^[a-zA-Z \-']*$`),
	Username: regexp.MustCompile(`^[a-zA-Z0-9_.!?-]*$`),
	Numbers:  regexp.MustCompile(`^[0-9]*$`),
	Phone:    regexp.MustCompile(`^[0-9 \-+]*$`),
	Date:     regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})?$`),
	Email:    regexp.MustCompile(emailPattern),
}

// Lookup returns the compiled expression registered under name.
func Lookup(name string) (*regexp.Regexp, error) {
	re, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownPreset, name)
	}
	return re, nil
}

// Has reports whether name is a registered preset.
func Has(name string) bool {
	_, ok := presets[name]
	return ok
}

// Match reports whether value satisfies the named preset.
func Match(name, value string) (bool, error) {
	re, err := Lookup(name)
	if err != nil {
		return false, err
	}
	return re.MatchString(value), nil
}

// Names returns the registered preset names in sorted order.
func Names() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
