package model

import "github.com/google/uuid"

// Principal is the authenticated identity attached to an operation. It is
// passed explicitly into every service call; nothing reads session state from
// a global.
type Principal struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Role     string    `json:"role"`
}

// NewAuditLog builds an audit row attributed to the principal, or an
// anonymous one when p is nil (e.g. a failed login attempt).
func NewAuditLog(p *Principal, action, details string) *AuditLog {
	entry := &AuditLog{
		Username: "anonymous",
		Action:   action,
		Details:  details,
	}
	if p != nil {
		id := p.ID
		entry.UserID = &id
		entry.Username = p.Username
	}
	return entry
}
