package authz

import (
	"testing"

	"github.com/24045990CaseyRP/sg-green-plan-server/internal/auth"
)

var (
	alice = auth.Identity{ID: 1, Username: "alice", Role: auth.RoleUser}
	carol = auth.Identity{ID: 3, Username: "carol", Role: auth.RoleUser}
	bob   = auth.Identity{ID: 2, Username: "bob", Role: auth.RoleAdmin}
)

func TestCheckRole(t *testing.T) {
	t.Parallel()
	if err := CheckRole(alice); err != nil {
		t.Fatalf("empty role set should admit everyone: %v", err)
	}
	if err := CheckRole(alice, AdminOnly.Roles...); err != ErrForbidden {
		t.Fatalf("user passed admin check: %v", err)
	}
	if err := CheckRole(bob, AdminOnly.Roles...); err != nil {
		t.Fatalf("admin failed admin check: %v", err)
	}
	if err := CheckRole(auth.Identity{ID: 9}, auth.RoleUser, auth.RoleAdmin); err != ErrForbidden {
		t.Fatalf("identity without role passed: %v", err)
	}
}

func TestCanModifyLog(t *testing.T) {
	t.Parallel()
	const aliceLog = 1
	for _, test := range []struct {
		who  auth.Identity
		want error
	}{
		{alice, nil},
		{bob, nil},
		{carol, ErrForbidden},
	} {
		if got := CanModifyLog(test.who, aliceLog); got != test.want {
			t.Errorf("CanModifyLog(%s) = %v, want %v", test.who.Username, got, test.want)
		}
	}
	if err := CanModifyLog(auth.Identity{Role: auth.RoleUser}, 0); err != ErrForbidden {
		t.Fatal("zero identity must never own anything")
	}
}
