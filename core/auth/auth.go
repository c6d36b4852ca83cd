// Package auth holds what the rest of the app knows about authorization:
// permissions, verified identities and the Gate that produces them.
// Token verification itself lives behind Gate (see services/auth).
package auth

import (
	"context"
	"sort"
	"strings"
)

// Permission is an action a caller may be granted by the identity provider.
type Permission string

// Permissions
const (
	// Coffee Shop
	PermGetDrinksDetail Permission = "get:drinks-detail"
	PermPostDrinks      Permission = "post:drinks"
	PermPatchDrinks     Permission = "patch:drinks"
	PermDeleteDrinks    Permission = "delete:drinks"

	// Trivia
	PermPostQuestions   Permission = "post:questions"
	PermDeleteQuestions Permission = "delete:questions"
)

var AllPermissions = []Permission{
	PermGetDrinksDetail,
	PermPostDrinks,
	PermPatchDrinks,
	PermDeleteDrinks,
	PermPostQuestions,
	PermDeleteQuestions,
}

// ParsePermission returns the known Permission named s.
func ParsePermission(s string) (Permission, bool) {
	s = strings.TrimSpace(s)
	for _, p := range AllPermissions {
		if string(p) == s {
			return p, true
		}
	}
	return "", false
}

// PermissionSet is the set of actions a verified caller may perform.
type PermissionSet map[Permission]struct{}

// NewPermissionSet builds a set from raw permission strings. Unknown permissions are ignored.
func NewPermissionSet(perms ...string) PermissionSet {
	set := make(PermissionSet, len(perms))
	for _, raw := range perms {
		if p, ok := ParsePermission(raw); ok {
			set[p] = struct{}{}
		}
	}
	return set
}

func (ps PermissionSet) Has(p Permission) bool {
	_, ok := ps[p]
	return ok
}

// Strings returns the permissions sorted.
func (ps PermissionSet) Strings() []string {
	out := make([]string, 0, len(ps))
	for p := range ps {
		out = append(out, string(p))
	}
	sort.Strings(out)
	return out
}

// Identity is a caller verified by a Gate.
type Identity struct {
	Subject     string
	Permissions PermissionSet
}

func (id Identity) Can(p Permission) bool {
	return id.Permissions.Has(p)
}

// Gate verifies a bearer credential and returns the caller's identity.
// Failures are reported as *Error.
type Gate interface {
	Verify(ctx context.Context, credential string) (Identity, error)
}
