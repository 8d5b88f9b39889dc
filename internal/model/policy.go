package model

// Action codes checked at the route boundary, e.g. "product:create"
const (
	ActionProductView   = "product:view"
	ActionProductCreate = "product:create"
	ActionProductUpdate = "product:update"
	ActionProductDelete = "product:delete"
	ActionLedgerView    = "ledger:view"
	ActionLedgerPost    = "ledger:post"
	ActionAuditView     = "audit:view"
	ActionDashboardView = "dashboard:view"
)

// policy maps each action to the minimum role required. Reads are open to any
// authenticated principal; mutations and the audit trail are admin only.
var policy = map[string]string{
	ActionProductView:   RoleUser,
	ActionProductCreate: RoleAdmin,
	ActionProductUpdate: RoleAdmin,
	ActionProductDelete: RoleAdmin,
	ActionLedgerView:    RoleUser,
	ActionLedgerPost:    RoleAdmin,
	ActionAuditView:     RoleAdmin,
	ActionDashboardView: RoleUser,
}

// RoleAllows reports whether the given role may perform the action. Unknown
// actions are denied.
func RoleAllows(role, action string) bool {
	required, ok := policy[action]
	if !ok {
		return false
	}
	if required == RoleUser {
		return role == RoleUser || role == RoleAdmin
	}
	return role == required
}
