// Package middleware provides the HTTP middleware stack.
package middleware

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/andrianfauzi/warungku/pkg/auth"
	"github.com/andrianfauzi/warungku/pkg/response"
)

// matcher is one compiled public-route matcher: either an exact path or a
// parameterized pattern compiled to a regexp.
type matcher struct {
	method string
	exact  string
	re     *regexp.Regexp
}

func (m matcher) matches(method, path string) bool {
	if method != m.method {
		return false
	}
	if m.re != nil {
		return m.re.MatchString(path)
	}
	return path == m.exact
}

// Allowlist is the immutable set of public routes, compiled once at startup.
// Entries are checked in declaration order, first match wins.
type Allowlist struct {
	entries []matcher
}

// NewAllowlist compiles an allowlist. Patterns use {param} placeholders,
// which match one non-empty digit segment ("/master-menu/menu/{id}" matches
// "/master-menu/menu/42" but not "/master-menu/menu/abc").
func NewAllowlist() *Allowlist {
	return &Allowlist{}
}

// Exact allows method + the exact path.
func (a *Allowlist) Exact(method, path string) *Allowlist {
	a.entries = append(a.entries, matcher{method: method, exact: path})
	return a
}

// Pattern allows method + a parameterized path.
func (a *Allowlist) Pattern(method, pattern string) *Allowlist {
	escaped := regexp.QuoteMeta(pattern)
	// {param} placeholders were escaped to \{param\}; rewrite to digit groups.
	re := regexp.MustCompile(`\\\{[a-zA-Z_]+\\\}`).
		ReplaceAllString(escaped, `\d+`)
	a.entries = append(a.entries, matcher{
		method: method,
		re:     regexp.MustCompile("^" + re + "$"),
	})
	return a
}

// IsPublic reports whether the request bypasses token verification.
func (a *Allowlist) IsPublic(method, path string) bool {
	for _, m := range a.entries {
		if m.matches(method, path) {
			return true
		}
	}
	return false
}

// AuthGate classifies each request as public or protected. Protected
// requests need a token in the Authorization header: the header carries
// the raw token (a "Bearer " prefix is tolerated and stripped). A missing
// token is a 401; a present but invalid or expired one is a 403. Verified
// claims are attached to the request context for downstream handlers.
func AuthGate(allowlist *Allowlist) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if allowlist.IsPublic(r.Method, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			token := strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))
			if token == "" {
				response.Error(w, http.StatusUnauthorized, "Access denied. No token provided.")
				return
			}

			claims, err := auth.ValidateToken(token)
			if err != nil {
				response.Error(w, http.StatusForbidden, "Invalid or expired token.")
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
		})
	}
}
