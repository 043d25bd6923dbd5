package colour

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Colour
	}{
		{"#ff8000", RGB{R: 255, G: 128}},
		{"rgb(1, 2, 3)", RGB{R: 1, G: 2, B: 3}},
		{"cmyk(0, 0.5, 0, 1)", NewCMYK(0, 0.5, 0, 1)},
		{"cmyk(0%, 50%, 100%, 20%)", NewCMYK(0, 0.5, 1, 0.2)},
		{"cmyk(2, -1, 0, 0)", NewCMYK(1, 0, 0, 0)},
		{`spot("PMS 485", 0.4)`, NewSpot("PMS 485", 0.4)},
		{`spot("Blue", 60%)`, NewSpot("Blue", 0.6)},
		{"transparent", Transparent{}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, in := range []string{
		"",
		"rgb(256, 0, 0)",
		"rgb(1, 2)",
		"cmyk(0, 0, 0)",
		`spot("", 1)`,
		"hsl(1, 2, 3)",
		"#12345",
	} {
		if _, err := Parse(in); err == nil {
			t.Errorf("Parse(%q) error = nil, want error", in)
		}
	}
}

func TestStringRoundTrip(t *testing.T) {
	for _, c := range []Colour{
		RGB{R: 12, G: 200, B: 7},
		NewCMYK(0.1, 0.2, 1.0/3, 0.00001),
		NewSpot(`Quote "x"`, 0.75),
		Transparent{},
	} {
		got, err := Parse(c.String())
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", c.String(), err)
		}
		if got != c {
			t.Errorf("Parse(%q) = %v, want %v", c.String(), got, c)
		}
	}
}
