package rule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formrules/pkg/pattern"
)

// ErrMalformedDirective is matched by every parse failure.
var ErrMalformedDirective = errors.New("rule: malformed directive")

// MalformedDirectiveError reports the offending token and why it was
// rejected. It matches ErrMalformedDirective via errors.Is and unwraps to the
// underlying cause when there is one (for example pattern.ErrUnknownPreset).
type MalformedDirectiveError struct {
	Directive string
	Token     string
	Reason    string
	Err       error
}

func (e *MalformedDirectiveError) Error() string {
	return fmt.Sprintf("rule: malformed directive %q: token %q: %s", e.Directive, e.Token, e.Reason)
}

func (e *MalformedDirectiveError) Is(target error) bool {
	return target == ErrMalformedDirective
}

func (e *MalformedDirectiveError) Unwrap() error {
	return e.Err
}

// Parse converts a directive into its ordered rule set. An empty directive
// yields an empty set.
func Parse(directive string) (Set, error) {
	var set Set
	for _, token := range strings.Split(directive, " ") {
		if token == "" {
			continue
		}
		d, err := parseToken(token)
		if err != nil {
			err.Directive = directive
			return nil, err
		}
		set = append(set, d)
	}
	return set, nil
}

// MustParse panics when the directive is malformed. Intended for fixtures and
// package level wiring.
func MustParse(directive string) Set {
	set, err := Parse(directive)
	if err != nil {
		panic(err)
	}
	return set
}

func parseToken(token string) (Descriptor, *MalformedDirectiveError) {
	parts := strings.Split(token, ":")
	name, params := parts[0], parts[1:]

	fail := func(format string, args ...any) *MalformedDirectiveError {
		return &MalformedDirectiveError{Token: token, Reason: fmt.Sprintf(format, args...)}
	}

	switch Kind(name) {
	case KindRequired:
		if len(params) != 0 {
			return nil, fail("req takes no parameters")
		}
		return Required{}, nil

	case KindSelectRequired:
		if len(params) != 0 {
			return nil, fail("select-req takes no parameters")
		}
		return SelectRequired{}, nil

	case KindSelect:
		if len(params) != 0 {
			return nil, fail("select takes no parameters")
		}
		return SelectAlwaysValid{}, nil

	case KindLength:
		if len(params) != 1 {
			return nil, fail("expected len:<min>-<max>")
		}
		lo, hi, reason := parseRange(params[0])
		if reason != "" {
			return nil, fail("%s", reason)
		}
		return Length{Min: lo, Max: hi}, nil

	case KindPattern:
		if len(params) != 1 || params[0] == "" {
			return nil, fail("expected regex:<preset>")
		}
		if !pattern.Has(params[0]) {
			err := fail("unknown preset %q", params[0])
			err.Err = pattern.ErrUnknownPreset
			return nil, err
		}
		return Pattern{Preset: params[0]}, nil

	case KindMatch:
		if len(params) != 1 || params[0] == "" {
			return nil, fail("expected match:<field>")
		}
		return MatchField{Other: params[0]}, nil

	case KindRadio:
		if len(params) != 1 || params[0] == "" {
			return nil, fail("expected radio:<group>")
		}
		return RadioGroupRequired{Group: params[0]}, nil

	case KindCheckbox:
		if len(params) != 2 || params[0] == "" {
			return nil, fail("expected checkbox:<group>:<min>-<max>")
		}
		lo, hi, reason := parseRange(params[1])
		if reason != "" {
			return nil, fail("%s", reason)
		}
		return CheckboxGroupCount{Group: params[0], Min: lo, Max: hi}, nil

	case KindEitherOr:
		if len(params) != 2 || params[0] == "" || params[1] == "" {
			return nil, fail("expected or:<field>:<label>")
		}
		return EitherOr{Other: params[0], Label: params[1]}, nil

	default:
		return nil, fail("unknown rule %q", name)
	}
}

// parseRange reads "<min>-<max>". A non-empty reason signals failure.
func parseRange(raw string) (int, int, string) {
	bounds := strings.Split(raw, "-")
	if len(bounds) != 2 {
		return 0, 0, fmt.Sprintf("range %q must be <min>-<max>", raw)
	}
	lo, err := strconv.Atoi(bounds[0])
	if err != nil || lo < 0 {
		return 0, 0, fmt.Sprintf("range %q has an invalid lower bound", raw)
	}
	hi, err := strconv.Atoi(bounds[1])
	if err != nil || hi < 0 {
		return 0, 0, fmt.Sprintf("range %q has an invalid upper bound", raw)
	}
	if lo > hi {
		return 0, 0, fmt.Sprintf("range %q has min greater than max", raw)
	}
	return lo, hi, ""
}
