package models

// UserRole is the permission class of a portal account.
type UserRole string

const (
	RoleTenant  UserRole = "tenant"
	RoleManager UserRole = "manager"
)

// IsValid reports whether the role is one of the known roles.
func (r UserRole) IsValid() bool {
	return r == RoleTenant || r == RoleManager
}

// User is a portal account, either a tenant or a manager.
// Managers never carry an apartment assignment.
type User struct {
	ID          string   `gorm:"type:varchar(36);primaryKey" json:"id"`
	Email       string   `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	Name        string   `gorm:"type:varchar(255);not null" json:"name"`
	Role        UserRole `gorm:"type:varchar(20);not null;index" json:"role"`
	ApartmentID *string  `gorm:"type:varchar(36)" json:"apartment_id,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// IsManager reports whether the user holds the manager role.
func (u *User) IsManager() bool {
	return u.Role == RoleManager
}
