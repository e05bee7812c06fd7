package rule

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formrules/pkg/pattern"
)

func TestParseAllKinds(t *testing.T) {
	t.Parallel()

	cases := []struct {
		directive string
		want      Set
	}{
		{"req", Set{Required{}}},
		{"req len:5-16 regex:letters", Set{Required{}, Length{Min: 5, Max: 16}, Pattern{Preset: "letters"}}},
		{"match:password", Set{MatchField{Other: "password"}}},
		{"radio:plan", Set{RadioGroupRequired{Group: "plan"}}},
		{"checkbox:topics:1-3", Set{CheckboxGroupCount{Group: "topics", Min: 1, Max: 3}}},
		{"select-req", Set{SelectRequired{}}},
		{"select", Set{SelectAlwaysValid{}}},
		{"or:phone:phone", Set{EitherOr{Other: "phone", Label: "phone"}}},
		{"regex:email or:phone:phone", Set{Pattern{Preset: "email"}, EitherOr{Other: "phone", Label: "phone"}}},
		{"", nil},
		{"req  len:0-4", Set{Required{}, Length{Min: 0, Max: 4}}},
	}

	for _, tc := range cases {
		got, err := Parse(tc.directive)
		if err != nil {
			t.Fatalf("Parse(%q) returned error: %v", tc.directive, err)
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Fatalf("Parse(%q) mismatch (-want +got):\n%s", tc.directive, diff)
		}
	}
}

func TestParsePreservesDeclarationOrder(t *testing.T) {
	t.Parallel()

	set := MustParse("regex:letters req len:2-3")
	kinds := make([]Kind, 0, len(set))
	for _, d := range set {
		kinds = append(kinds, d.Kind())
	}
	want := []Kind{KindPattern, KindRequired, KindLength}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestParseMalformed(t *testing.T) {
	t.Parallel()

	cases := []struct {
		directive string
		token     string
	}{
		{"required", "required"},
		{"req len", "len"},
		{"len:5", "len:5"},
		{"len:a-5", "len:a-5"},
		{"len:5-b", "len:5-b"},
		{"len:9-3", "len:9-3"},
		{"len:1-2-3", "len:1-2-3"},
		{"req:now", "req:now"},
		{"regex", "regex"},
		{"match:", "match:"},
		{"radio", "radio"},
		{"checkbox:topics", "checkbox:topics"},
		{"checkbox::1-2", "checkbox::1-2"},
		{"checkbox:topics:x-2", "checkbox:topics:x-2"},
		{"or:phone", "or:phone"},
		{"select:x", "select:x"},
		{"select-req:1", "select-req:1"},
	}

	for _, tc := range cases {
		_, err := Parse(tc.directive)
		if !errors.Is(err, ErrMalformedDirective) {
			t.Fatalf("Parse(%q): expected ErrMalformedDirective, got %v", tc.directive, err)
		}
		var malformed *MalformedDirectiveError
		if !errors.As(err, &malformed) {
			t.Fatalf("Parse(%q): expected *MalformedDirectiveError, got %T", tc.directive, err)
		}
		if malformed.Token != tc.token {
			t.Fatalf("Parse(%q): token = %q, want %q", tc.directive, malformed.Token, tc.token)
		}
		if malformed.Directive != tc.directive {
			t.Fatalf("Parse(%q): directive = %q", tc.directive, malformed.Directive)
		}
	}
}

func TestParseUnknownPreset(t *testing.T) {
	t.Parallel()

	_, err := Parse("req regex:zipcode")
	if !errors.Is(err, ErrMalformedDirective) {
		t.Fatalf("expected ErrMalformedDirective, got %v", err)
	}
	if !errors.Is(err, pattern.ErrUnknownPreset) {
		t.Fatalf("expected wrapped ErrUnknownPreset, got %v", err)
	}
}

func TestSetStringRoundTrip(t *testing.T) {
	t.Parallel()

	directive := "req len:5-16 regex:username match:other radio:plan checkbox:topics:1-3 select-req select or:phone:Phone"
	set := MustParse(directive)
	if got := set.String(); got != directive {
		t.Fatalf("String() = %q, want %q", got, directive)
	}
	again := MustParse(set.String())
	if diff := cmp.Diff(set, again); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSetReferences(t *testing.T) {
	t.Parallel()

	set := MustParse("req match:password checkbox:topics:0-2 or:phone:phone radio:plan")
	got := set.References()
	want := []Reference{
		{Kind: RefField, Name: "password", Rule: MatchField{Other: "password"}},
		{Kind: RefGroup, Name: "topics", Rule: CheckboxGroupCount{Group: "topics", Min: 0, Max: 2}},
		{Kind: RefField, Name: "phone", Rule: EitherOr{Other: "phone", Label: "phone"}},
		{Kind: RefGroup, Name: "plan", Rule: RadioGroupRequired{Group: "plan"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("references mismatch (-want +got):\n%s", diff)
	}
	if !set.Has(KindRequired) || set.Has(KindSelect) {
		t.Fatalf("Has reported unexpected membership")
	}
}
