// Package auth carries the caller identity established by the upstream
// authentication gateway. Sessions are passed explicitly to services.
package auth

import (
	"context"
	"strconv"
	"strings"

	"github.com/assistidads/assist-lead-hub-sub000/internal/domain"
)

// Role is the back-office role of the caller.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleMarketing Role = "marketing"
	RoleCS        Role = "cs"
)

// Header names set by the gateway after it has verified the user.
const (
	HeaderUserID  = "X-User-Id"
	HeaderRole    = "X-User-Role"
	HeaderAgentID = "X-Agent-Id"
)

// Session identifies who is calling. AgentID links the user to the agents
// table and is what lead assignment refers to.
type Session struct {
	UserID  string
	Role    Role
	AgentID int64
}

// ParseRole validates a role header value.
func ParseRole(s string) (Role, bool) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleAdmin, RoleMarketing, RoleCS:
		return r, true
	default:
		return "", false
	}
}

// FromHeaders builds a session from gateway headers.
func FromHeaders(userID, role, agentID string) (Session, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Session{}, domain.ErrUnauthenticated
	}
	r, ok := ParseRole(role)
	if !ok {
		return Session{}, domain.ErrUnauthenticated
	}

	s := Session{UserID: userID, Role: r}
	if agentID = strings.TrimSpace(agentID); agentID != "" {
		id, err := strconv.ParseInt(agentID, 10, 64)
		if err != nil || id <= 0 {
			return Session{}, domain.ErrUnauthenticated
		}
		s.AgentID = id
	}
	if s.Role == RoleCS && s.AgentID == 0 {
		return Session{}, domain.ErrUnauthenticated
	}
	return s, nil
}

// SeesAllLeads reports whether the session is unrestricted by assignment.
func (s Session) SeesAllLeads() bool {
	return s.Role == RoleAdmin || s.Role == RoleMarketing
}

// CanManageBudgets reports whether the session may change ad budgets.
func (s Session) CanManageBudgets() bool {
	return s.Role == RoleAdmin || s.Role == RoleMarketing
}

// CanManageReferences reports whether the session may edit master data.
func (s Session) CanManageReferences() bool {
	return s.Role == RoleAdmin
}

// LeadScope returns the agent ID leads must be assigned to, or 0 for no restriction.
func (s Session) LeadScope() int64 {
	if s.SeesAllLeads() {
		return 0
	}
	return s.AgentID
}

type ctxKey struct{}

// WithSession stores s in ctx.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session stored by WithSession.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(Session)
	return s, ok
}
