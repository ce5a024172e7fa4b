package validation

import "testing"

func TestInt(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		ok      bool
		errCode string
	}{
		{"5", 5, true, ""},
		{" 12 ", 12, true, ""},
		{"-3", -3, true, ""},
		{"", 0, false, "required"},
		{"abc", 0, false, "invalid_number"},
		{"2.5", 0, false, "invalid_number"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			v := make(Violations)
			got, ok := Int("qty", tt.raw, v)
			if got != tt.want || ok != tt.ok {
				t.Fatalf("Int(%q) = %d, %v; want %d, %v", tt.raw, got, ok, tt.want, tt.ok)
			}
			if v["qty"] != tt.errCode {
				t.Fatalf("violation = %q, want %q", v["qty"], tt.errCode)
			}
		})
	}
}

func TestOptionalID(t *testing.T) {
	v := make(Violations)
	if got := OptionalID("material_id", "", v); got != nil {
		t.Fatalf("empty should be nil, got %v", *got)
	}
	if got := OptionalID("material_id", "7", v); got == nil || *got != 7 {
		t.Fatalf("expected 7, got %v", got)
	}
	if !v.Empty() {
		t.Fatalf("unexpected violations %v", v)
	}
	OptionalID("material_id", "x", v)
	if !v.Has("material_id") {
		t.Fatal("expected invalid_choice")
	}
}

func TestNumberRules(t *testing.T) {
	v := make(Violations)
	NonNegative("a", 0, v)
	Positive("b", 1, v)
	if !v.Empty() {
		t.Fatalf("unexpected violations %v", v)
	}
	NonNegative("a", -1, v)
	Positive("b", 0, v)
	Required("d", "  ", v)
	if len(v) != 3 {
		t.Fatalf("expected 3 violations, got %v", v)
	}
}
