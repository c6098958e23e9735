package util

import "testing"

func TestNormalizeAddress(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`Name <User@Example.COM>`, "user@example.com"},
		{`"Bob Jones" <bob@acme.com>`, "bob@acme.com"},
		{`bob@acme.com`, "bob@acme.com"},
		{`bad address`, ""},
		{`"A" <not-an-email> , "B" <c@D.com>`, "c@d.com"}, // list fallback picks first valid
		{``, ""},
	}
	for _, tc := range tests {
		if got := NormalizeAddress(tc.in); got != tc.want {
			t.Errorf("NormalizeAddress(%q) = %q; want %q", tc.in, got, tc.want)
		}
	}
}

func TestDomain(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"bob@Acme.com", "acme.com"},
		{"bob@acme.com", "acme.com"},
		{"no-at-sign", ""},
		{"trailing@", ""},
		{"", ""},
	}
	for _, tc := range tests {
		if got := Domain(tc.in); got != tc.want {
			t.Errorf("Domain(%q) = %q; want %q", tc.in, got, tc.want)
		}
	}
}
