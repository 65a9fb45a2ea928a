package session

import "github.com/trezcool/campus/core/user"

// Decision is Allow when Allowed, else a redirect to Redirect.
type Decision struct {
	Allowed  bool
	Redirect string
}

var Allow = Decision{Allowed: true}

func RedirectTo(path string) Decision { return Decision{Redirect: path} }

// Authorize allows iff the state is logged in with exactly the required role.
func Authorize(state State, required user.Role) Decision {
	if state.LoggedIn() && state.Identity.Role == required {
		return Allow
	}
	return RedirectTo(required.LoginPath())
}
