package auth

import "testing"

func TestParseRole(t *testing.T) {
	t.Parallel()
	for _, test := range []struct {
		in   string
		want Role
		ok   bool
	}{
		{"user", RoleUser, true},
		{" admin ", RoleAdmin, true},
		{"Admin", "", false},
		{"owner", "", false},
		{"", "", false},
	} {
		got, ok := ParseRole(test.in)
		if got != test.want || ok != test.ok {
			t.Errorf("ParseRole(%q) = %q, %v; want %q, %v", test.in, got, ok, test.want, test.ok)
		}
	}
}
