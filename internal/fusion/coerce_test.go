package fusion

import "testing"

func TestCanonicalUserID(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"10042", "10042"},
		{"10042.0", "10042"},
		{" 10042 ", "10042"},
		{"user-abc", "user-abc"},
		{"10042.5", "10042.5"}, // Non-integral stays as-is
		{"", ""},
	}

	for _, tt := range tests {
		if got := CanonicalUserID(tt.raw); got != tt.want {
			t.Errorf("CanonicalUserID(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestCanonicalWeekKey(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		year string
		want string
		ok   bool
	}{
		{"canonical form", "2025-W14", "", "2025-W14", true},
		{"lower case", "2025-w14", "", "2025-W14", true},
		{"unpadded", "2025-W4", "", "2025-W04", true},
		{"year dash week", "2025-14", "", "2025-W14", true},
		{"date derives iso week", "2025-04-07", "", "2025-W15", true},
		{"timestamp derives iso week", "2025-04-07T09:00:00Z", "", "2025-W15", true},
		{"bare week with year", "14", "2025", "2025-W14", true},
		{"bare week without year", "14", "", "", false},
		{"week out of range", "2025-W60", "", "", false},
		{"garbage", "soon", "", "", false},
		{"empty", "", "2025", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CanonicalWeekKey(tt.raw, tt.year)
			if ok != tt.ok || got != tt.want {
				t.Errorf("CanonicalWeekKey(%q, %q) = (%q, %v), want (%q, %v)",
					tt.raw, tt.year, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestCoerceNumeric(t *testing.T) {
	tests := []struct {
		raw   string
		want  float64
		valid bool
	}{
		{"45%", 45.0, true},
		{"45", 45.0, true},
		{"3,5", 3.5, true},
		{" 87.5 % ", 87.5, true},
		{"87.5%", 87.5, true},
		{"often", 4, true},
		{"SEMPRE", 5, true},
		{"mai", 1, true},
		{"N/A", 0, false},
		{"na", 0, false},
		{"-", 0, false},
		{"", 0, false},
		{"not a number", 0, false},
	}

	for _, tt := range tests {
		got := CoerceNumeric(tt.raw)
		if got.Valid != tt.valid {
			t.Errorf("CoerceNumeric(%q).Valid = %v, want %v", tt.raw, got.Valid, tt.valid)
			continue
		}
		if got.Valid && got.Value != tt.want {
			t.Errorf("CoerceNumeric(%q) = %v, want %v", tt.raw, got.Value, tt.want)
		}
	}
}

func TestIsAffirmative(t *testing.T) {
	for _, raw := range []string{"yes", "Yes", "SI", "sì", " true "} {
		if !IsAffirmative(raw) {
			t.Errorf("IsAffirmative(%q) = false, want true", raw)
		}
	}
	for _, raw := range []string{"no", "never", "", "5"} {
		if IsAffirmative(raw) {
			t.Errorf("IsAffirmative(%q) = true, want false", raw)
		}
	}
}
