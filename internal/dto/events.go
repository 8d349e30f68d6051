package dto

const (
	ReconcileDeleteAccount = "delete_account"
	ReconcileAssignRole    = "assign_role"
)

// ReconcileTask is queued when the signup saga leaves the backend in a
// half-created state it could not repair inline.
type ReconcileTask struct {
	Task      string `json:"task"` // delete_account | assign_role
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
	RoleCode  string `json:"role_code,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// ApplicationReceivedEvent notifies the club inbox pipeline that a new
// application came in. Fire and forget.
type ApplicationReceivedEvent struct {
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
}
