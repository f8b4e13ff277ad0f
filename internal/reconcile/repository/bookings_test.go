package repository

import "testing"

func TestEscapeLike(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"[msg:a_b@x]", `[msg:a\_b@x]`},
		{"[msg:100%@x]", `[msg:100\%@x]`},
		{`[msg:a\b@x]`, `[msg:a\\b@x]`},
		{"[msg:plain@x]", "[msg:plain@x]"},
	}
	for _, tc := range cases {
		if got := escapeLike(tc.in); got != tc.want {
			t.Errorf("escapeLike(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
