package tags_test

import (
	"errors"
	"reflect"
	"testing"

	"bildesk/pkg/tags"
)

func paths(ps ...tags.Path) []tags.Path { return ps }

func TestNormalizeLeafCollision(t *testing.T) {
	raw := tags.RawFields{
		HierarchicalSubject: []any{"Body|Arm|Hand"},
		Subject:             []any{"Hand", "Foot"},
	}
	got, err := tags.Normalize(raw, "|")
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	want := paths(tags.Path{"Body", "Arm", "Hand"}, tags.Path{"Foot"})
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Normalize = %v, want %v", got, want)
	}
}

func TestNormalizeFlatUnionDedup(t *testing.T) {
	raw := tags.RawFields{
		Subject:  []any{"Red", "Blue"},
		Keywords: []any{"Blue", "Green"},
	}
	got, err := tags.Normalize(raw, "|")
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	want := paths(tags.Path{"Red"}, tags.Path{"Blue"}, tags.Path{"Green"})
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Normalize = %v, want %v", got, want)
	}
}

func TestNormalizeScalarHierarchy(t *testing.T) {
	raw := tags.RawFields{HierarchicalSubject: "A|B"}
	got, err := tags.Normalize(raw, "|")
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	want := paths(tags.Path{"A", "B"})
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Normalize = %v, want %v", got, want)
	}
}

func TestNormalizeNumericScalar(t *testing.T) {
	// exiftool hands back numeric-looking tags as numbers.
	raw := tags.RawFields{Keywords: float64(123)}
	got, err := tags.Normalize(raw, "|")
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	want := paths(tags.Path{"123"})
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Normalize = %v, want %v", got, want)
	}
}

func TestNormalizeEmptyFields(t *testing.T) {
	got, err := tags.Normalize(tags.RawFields{}, "|")
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %v", got)
	}
}

func TestNormalizeEmptySeparator(t *testing.T) {
	_, err := tags.Normalize(tags.RawFields{Subject: "x"}, "")
	if !errors.Is(err, tags.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestNormalizeKeepsHierarchicalDuplicates(t *testing.T) {
	// Only cross-field leaf collisions are filtered; repeated entries in
	// the hierarchical field itself pass through untouched.
	raw := tags.RawFields{
		HierarchicalSubject: []any{"A|B", "A|B"},
	}
	got, err := tags.Normalize(raw, "|")
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	want := paths(tags.Path{"A", "B"}, tags.Path{"A", "B"})
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Normalize = %v, want %v", got, want)
	}
}

func TestNormalizeLeafMatchIsExact(t *testing.T) {
	raw := tags.RawFields{
		HierarchicalSubject: []any{"Body|Hand"},
		Subject:             []any{"hand", " Hand"},
	}
	got, err := tags.Normalize(raw, "|")
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	want := paths(tags.Path{"Body", "Hand"}, tags.Path{"hand"}, tags.Path{" Hand"})
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Normalize = %v, want %v", got, want)
	}
}

func TestNormalizeCustomSeparator(t *testing.T) {
	raw := tags.RawFields{HierarchicalSubject: []any{"A/B/C"}}
	got, err := tags.Normalize(raw, "/")
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	want := paths(tags.Path{"A", "B", "C"})
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Normalize = %v, want %v", got, want)
	}
}

func TestSerialize(t *testing.T) {
	fv, err := tags.Serialize(paths(tags.Path{"Body", "Hand"}, tags.Path{"Foot"}), "|")
	if err != nil {
		t.Fatalf("Serialize returned error: %v", err)
	}
	if want := []string{"Body|Hand", "Foot"}; !reflect.DeepEqual(fv.HierarchicalSubject, want) {
		t.Errorf("HierarchicalSubject = %v, want %v", fv.HierarchicalSubject, want)
	}
	if want := []string{"Hand", "Foot"}; !reflect.DeepEqual(fv.Subject, want) {
		t.Errorf("Subject = %v, want %v", fv.Subject, want)
	}
	if !reflect.DeepEqual(fv.Keywords, fv.Subject) {
		t.Errorf("Keywords = %v, want same as Subject %v", fv.Keywords, fv.Subject)
	}
}

func TestSerializeEmptyIsNoWrite(t *testing.T) {
	_, err := tags.Serialize(nil, "|")
	if !errors.Is(err, tags.ErrNoWrite) {
		t.Fatalf("expected ErrNoWrite, got %v", err)
	}
}

func TestSerializeEmptySeparator(t *testing.T) {
	_, err := tags.Serialize(paths(tags.Path{"A"}), "")
	if !errors.Is(err, tags.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSerializeEmptyPath(t *testing.T) {
	_, err := tags.Serialize(paths(tags.Path{}), "|")
	if !errors.Is(err, tags.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRoundTripPreservesPaths(t *testing.T) {
	// Re-normalizing serialized output must reproduce the same paths: the
	// flat fields become redundant with the hierarchy leaves and are
	// filtered back out.
	orig := paths(tags.Path{"Body", "Arm", "Hand"}, tags.Path{"Foot"}, tags.Path{"Red"})
	fv, err := tags.Serialize(orig, "|")
	if err != nil {
		t.Fatalf("Serialize returned error: %v", err)
	}
	got, err := tags.Normalize(tags.RawFields{
		HierarchicalSubject: fv.HierarchicalSubject,
		Subject:             fv.Subject,
		Keywords:            fv.Keywords,
	}, "|")
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if !reflect.DeepEqual(got, orig) {
		t.Fatalf("round trip = %v, want %v", got, orig)
	}
}

func TestValuesCoercion(t *testing.T) {
	for _, tc := range []struct {
		name string
		in   any
		want []string
	}{
		{"absent", nil, nil},
		{"empty string", "", nil},
		{"scalar string", "A|B", []string{"A|B"}},
		{"scalar number", float64(7), []string{"7"}},
		{"string slice", []string{"a", "", "b"}, []string{"a", "b"}},
		{"mixed slice", []any{"a", float64(42), nil}, []string{"a", "42"}},
		{"int", 9, []string{"9"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := tags.Values(tc.in)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Values(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}
