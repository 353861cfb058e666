package middleware

import (
	"log/slog"
	"net/http"
	"strings"
)

// Requirement classifies what a route demands from the caller.
type Requirement int

const (
	// Public routes need no credential.
	Public Requirement = iota
	// Authenticated routes need any valid credential.
	Authenticated
	// RequireRole routes need a credential carrying the rule's Role.
	RequireRole
)

// RoleCollaborator is the elevated capability required by management routes.
const RoleCollaborator = "COLABORADOR"

// Rule gates (verb, path) pairs. An empty Method matches every verb. Patterns
// support "{...}" for one path segment and a trailing "/**" for the route and
// any subpath.
type Rule struct {
	Method  string
	Pattern string
	Require Requirement
	Role    string
}

// Policy is an ordered rule table: the first matching rule wins. It is built
// once at startup and shared read-only across request goroutines.
type Policy struct {
	rules []Rule
}

// NewPolicy copies rules into an immutable policy.
func NewPolicy(rules []Rule) *Policy {
	owned := make([]Rule, len(rules))
	copy(owned, rules)
	return &Policy{rules: owned}
}

// DefaultPolicy mirrors the clinic's route classification. Avaliacoes and
// especialidades stay fully public, demo sub-routes included. Anything the
// table does not name falls through to authenticated-only.
func DefaultPolicy() *Policy {
	return NewPolicy([]Rule{
		{Method: http.MethodPost, Pattern: "/auth/login", Require: Public},
		{Pattern: "/metrics", Require: Public},

		{Pattern: "/avaliacoes/**", Require: Public},
		{Pattern: "/especialidades/**", Require: Public},

		{Method: http.MethodGet, Pattern: "/unidades", Require: Authenticated},
		{Method: http.MethodGet, Pattern: "/unidades/{id}", Require: Authenticated},
		{Pattern: "/agendamentos/**", Require: Authenticated},

		{Pattern: "/colaboradores/**", Require: RequireRole, Role: RoleCollaborator},
		{Pattern: "/pacientes/**", Require: RequireRole, Role: RoleCollaborator},
		{Method: http.MethodPost, Pattern: "/unidades/**", Require: RequireRole, Role: RoleCollaborator},
		{Method: http.MethodPut, Pattern: "/unidades/**", Require: RequireRole, Role: RoleCollaborator},
		{Method: http.MethodDelete, Pattern: "/unidades/**", Require: RequireRole, Role: RoleCollaborator},
		{Pattern: "/salas/**", Require: RequireRole, Role: RoleCollaborator},
	})
}

// Classify returns the first rule matching the request. The fallback demands
// authentication, so an unlisted route is never accidentally public.
func (p *Policy) Classify(method, path string) Rule {
	for _, rule := range p.rules {
		if rule.Method != "" && rule.Method != method {
			continue
		}
		if matchPattern(rule.Pattern, path) {
			return rule
		}
	}
	return Rule{Require: Authenticated}
}

func matchPattern(pattern, path string) bool {
	if rest, ok := strings.CutSuffix(pattern, "/**"); ok {
		return path == rest || strings.HasPrefix(path, rest+"/")
	}

	patParts := strings.Split(strings.Trim(pattern, "/"), "/")
	pathParts := strings.Split(strings.Trim(path, "/"), "/")
	if len(patParts) != len(pathParts) {
		return false
	}
	for i, part := range patParts {
		if strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}") {
			continue
		}
		if part != pathParts[i] {
			return false
		}
	}
	return true
}

// RequireAccess enforces the policy on every request before any handler runs.
// Unauthenticated callers on non-public routes get 401; authenticated callers
// missing the required role get 403.
func RequireAccess(policy *Policy, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rule := policy.Classify(r.Method, r.URL.Path)
			if rule.Require == Public {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			userID := GetUserID(ctx)
			if userID == "" {
				logger.WarnContext(ctx, "unauthenticated request rejected",
					"method", r.Method,
					"path", r.URL.Path,
					"request_id", GetRequestID(ctx),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"unauthorized","message":"missing or invalid credential"}`))
				return
			}

			if rule.Require == RequireRole && GetRole(ctx) != rule.Role {
				logger.WarnContext(ctx, "request rejected for missing role",
					"method", r.Method,
					"path", r.URL.Path,
					"required_role", rule.Role,
					"request_id", GetRequestID(ctx),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"error":"forbidden","message":"insufficient role"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
