package auth

import "apartment-portal/internal/models"

// Identity is the authenticated caller of an operation. The core trusts
// whatever identity the session provider yields.
type Identity struct {
	ID          string          `json:"id"`
	Email       string          `json:"email"`
	Name        string          `json:"name"`
	Role        models.UserRole `json:"role"`
	ApartmentID *string         `json:"apartment_id,omitempty"`
}

// Capability is a single permission gated by role.
type Capability string

const (
	// CapViewAllRecords grants visibility of every tenant's service
	// requests and payments, not just the caller's own.
	CapViewAllRecords Capability = "view_all_records"
	// CapViewUsers grants enumeration of user accounts.
	CapViewUsers Capability = "view_users"
	// CapManageUsers grants user creation.
	CapManageUsers Capability = "manage_users"
	// CapUpdateRequestStatus grants service request workflow transitions.
	CapUpdateRequestStatus Capability = "update_request_status"
	// CapSubmitRequests grants filing service requests.
	CapSubmitRequests Capability = "submit_requests"
	// CapSubmitPayments grants submitting rent payments.
	CapSubmitPayments Capability = "submit_payments"
)

var roleCapabilities = map[models.UserRole]map[Capability]bool{
	models.RoleTenant: {
		CapSubmitRequests: true,
		CapSubmitPayments: true,
	},
	models.RoleManager: {
		CapViewAllRecords:      true,
		CapViewUsers:           true,
		CapManageUsers:         true,
		CapUpdateRequestStatus: true,
		CapSubmitRequests:      true,
		CapSubmitPayments:      true,
	},
}

// Can reports whether the caller's role grants the capability.
func (i Identity) Can(c Capability) bool {
	return roleCapabilities[i.Role][c]
}

// IdentityFromUser builds the session identity of a user record.
func IdentityFromUser(u *models.User) Identity {
	return Identity{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Role:        u.Role,
		ApartmentID: u.ApartmentID,
	}
}
