package parser

import "testing"

func TestNormalizeRepairsMojibake(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase letters", "StrzyÅ¼enie mÄ™skie", "Strzyżenie męskie"},
		{"uppercase letters", "Åukasz ÅšwiÄ…tek", "Łukasz Świątek"},
		{"dashes", "14:00 â€“ 14:45", "14:00 - 14:45"},
		{"unicode dash", "14:00 – 14:45", "14:00 - 14:45"},
		{"clean input unchanged", "Strzyżenie damskie", "Strzyżenie damskie"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.in); got != tc.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	in := "OdwoÅ‚ana wizyta â€” Ã³semka\r\n  PaÅºdziernik  "
	once := Normalize(in)
	if twice := Normalize(once); twice != once {
		t.Fatalf("second pass changed output: %q vs %q", twice, once)
	}
}

func TestNormalizeWhitespace(t *testing.T) {
	in := "Klient:   Jan\t Nowak \r\nTelefon: 123  456 789"
	want := "Klient: Jan Nowak\nTelefon: 123 456 789"
	if got := Normalize(in); got != want {
		t.Fatalf("Normalize(%q) = %q, want %q", in, got, want)
	}
}
