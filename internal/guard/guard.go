// Package guard is the navigation-time access check: every view change
// passes through Check before anything renders. The check is synchronous
// and reads only already-hydrated session state.
package guard

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/minimall/storefront-client/internal/core/domain"
)

// LoginPath is the only view that is always reachable.
const LoginPath = "/login"

// adminPrefix gates the whole back office behind a token check before any
// per-route role rule applies.
const adminPrefix = "/admin"

// Route is the metadata a view declares for access control. A zero Role
// means no role requirement; RequiresAuth alone demands any valid session.
type Route struct {
	Pattern      string
	Title        string
	RequiresAuth bool
	Role         domain.Role
}

// Session is the read-only view of the session the guard consults.
type Session interface {
	Token() string
	Role() domain.Role
}

// Navigator is where denied navigations are redirected. The composition
// root wires it; the guard never performs I/O itself.
type Navigator interface {
	Push(path string)
}

// Reason explains a guard decision. Both deny reasons produce the same
// user-visible outcome (silent redirect to login) but stay distinguishable
// for logging and for callers that want a real "forbidden" state later.
type Reason int

const (
	ReasonAllowed Reason = iota
	ReasonLoginPage
	ReasonNoToken
	ReasonWrongRole
)

func (r Reason) String() string {
	switch r {
	case ReasonAllowed:
		return "allowed"
	case ReasonLoginPage:
		return "login page"
	case ReasonNoToken:
		return "no token"
	case ReasonWrongRole:
		return "wrong role"
	default:
		return "unknown"
	}
}

// Decision is the terminal outcome of one navigation check.
type Decision struct {
	Allow      bool
	RedirectTo string
	Reason     Reason
}

// Guard checks navigations against a route table and the current session.
type Guard struct {
	session Session
	routes  []Route
	log     zerolog.Logger
}

// New builds a Guard. A nil routes slice selects the default table.
func New(session Session, routes []Route, log zerolog.Logger) *Guard {
	if routes == nil {
		routes = Routes()
	}
	return &Guard{session: session, routes: routes, log: log}
}

// Check runs the navigation state machine for a target path:
//
//  1. the login view is always allowed
//  2. the admin prefix demands a token
//  3. a declared role must match the session's role exactly — no
//     hierarchy, an admin does not pass a manager gate
//  4. everything else proceeds
func (g *Guard) Check(path string) Decision {
	if path == LoginPath {
		return Decision{Allow: true, Reason: ReasonLoginPage}
	}

	if strings.HasPrefix(path, adminPrefix) && g.session.Token() == "" {
		return g.deny(path, ReasonNoToken)
	}

	if route, ok := g.match(path); ok {
		if route.RequiresAuth && g.session.Token() == "" {
			return g.deny(path, ReasonNoToken)
		}
		if route.Role != domain.RoleNone && g.session.Role() != route.Role {
			return g.deny(path, ReasonWrongRole)
		}
	}

	return Decision{Allow: true, Reason: ReasonAllowed}
}

func (g *Guard) deny(path string, reason Reason) Decision {
	g.log.Debug().Str("path", path).Stringer("reason", reason).Msg("navigation denied")
	return Decision{RedirectTo: LoginPath, Reason: reason}
}

// match finds the route whose pattern covers path. Patterns are static
// segments with ":name" placeholders matching exactly one segment.
func (g *Guard) match(path string) (Route, bool) {
	segs := splitPath(path)
	for _, r := range g.routes {
		if patternMatches(splitPath(r.Pattern), segs) {
			return r, true
		}
	}
	return Route{}, false
}

func splitPath(p string) []string {
	return strings.Split(strings.Trim(p, "/"), "/")
}

func patternMatches(pattern, segs []string) bool {
	if len(pattern) != len(segs) {
		return false
	}
	for i, p := range pattern {
		if strings.HasPrefix(p, ":") {
			continue
		}
		if p != segs[i] {
			return false
		}
	}
	return true
}
