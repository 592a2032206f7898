package http

import (
	"net/http"
	"strings"
)

// PolicyKind decides what the admission gate demands of a request before
// the handler runs.
type PolicyKind int

const (
	// PolicyPublic admits the request without looking at its token.
	PolicyPublic PolicyKind = iota
	// PolicyLogin admits the request so the login handler can judge the
	// submitted credentials itself.
	PolicyLogin
	// PolicyProtected requires a live vault entry and a valid token.
	PolicyProtected
)

// Policy describes how a matched route is admitted and how its rejections
// are rendered. API routes get JSON failure bodies, view routes get an
// inline HTML notice.
type Policy struct {
	Name string
	Kind PolicyKind
	API  bool
}

// Rule binds a request matcher to a policy. Rules are evaluated in order
// and the first match wins.
type Rule struct {
	Match  func(r *http.Request) bool
	Policy Policy
}

type PolicyTable []Rule

// Select returns the policy of the first matching rule. Requests no rule
// claims are public.
func (t PolicyTable) Select(r *http.Request) Policy {
	for _, rule := range t {
		if rule.Match(r) {
			return rule.Policy
		}
	}
	return Policy{Name: "public", Kind: PolicyPublic}
}

func matchExact(method, path string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		return r.Method == method && r.URL.Path == path
	}
}

func matchPrefix(methods []string, prefix string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		for _, m := range methods {
			if r.Method == m && strings.HasPrefix(r.URL.Path, prefix) {
				return true
			}
		}
		return false
	}
}

// DefaultPolicyTable lists every route the gate cares about. Anything not
// listed here falls through as public.
func DefaultPolicyTable() PolicyTable {
	return PolicyTable{
		{Match: matchExact(http.MethodPost, "/login"), Policy: Policy{Name: "login", Kind: PolicyLogin}},
		{Match: matchExact(http.MethodGet, "/loginSuccess"), Policy: Policy{Name: "handoff", Kind: PolicyProtected}},
		// Logout is fail-safe: the handler revokes best-effort and clears
		// the cookie no matter what the token looks like, so the gate must
		// not stand in front of it.
		{Match: matchExact(http.MethodPost, "/logout"), Policy: Policy{Name: "logout", Kind: PolicyPublic}},
		{Match: matchPrefix([]string{http.MethodPost, http.MethodPut, http.MethodDelete}, "/boards"), Policy: Policy{Name: "boards", Kind: PolicyProtected, API: true}},
		{Match: matchPrefix([]string{http.MethodPut}, "/members/"), Policy: Policy{Name: "members", Kind: PolicyProtected, API: true}},
	}
}
