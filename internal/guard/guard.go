// Package guard decides whether a navigation may proceed.
package guard

import (
	"path"

	"github.com/gabrielcapilla/songdash/internal/ports"
)

const (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
)

var protectedPaths = map[string]struct{}{
	DashboardPath: {},
}

type Decision struct {
	Allow      bool
	RedirectTo string
}

// Decide is evaluated on every navigation and never cached, so a logout
// takes effect on the next one.
func Decide(p string, s ports.SessionState) Decision {
	if IsProtected(p) && (s == nil || !s.IsAuthenticated()) {
		return Decision{RedirectTo: LoginPath}
	}
	return Decision{Allow: true}
}

func IsProtected(p string) bool {
	_, ok := protectedPaths[Clean(p)]
	return ok
}

// Clean normalizes a view path: rooted, no trailing slash, no dot segments.
func Clean(p string) string {
	if p == "" {
		return "/"
	}
	return path.Clean("/" + p)
}
