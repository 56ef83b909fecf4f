package service

import (
	"slices"

	"github.com/iliyamo/scoped-auth/internal/model"
)

// Scopes granted in access tokens.
const (
	ScopeUser  = "user"
	ScopeAdmin = "admin"
)

// ScopesFor returns the scopes a login by a grants: always "user", plus
// "admin" for admin accounts. The result is frozen into the token, so later
// role changes only take effect on the next login.
func ScopesFor(a *model.Account) []string {
	scopes := []string{ScopeUser}
	if a != nil && a.IsAdmin {
		scopes = append(scopes, ScopeAdmin)
	}
	return scopes
}

func hasScope(scopes []string, scope string) bool {
	return slices.Contains(scopes, scope)
}
