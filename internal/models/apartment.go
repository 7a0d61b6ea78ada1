package models

// ApartmentStatus is the occupancy state of an apartment.
type ApartmentStatus string

const (
	ApartmentStatusEmpty  ApartmentStatus = "empty"
	ApartmentStatusBooked ApartmentStatus = "booked"
)

// Apartment is a rentable unit. Status and TenantID move together:
// a booked apartment always names its tenant, an empty one never does.
type Apartment struct {
	ID        string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	Number    string          `gorm:"type:varchar(20);not null" json:"number"`
	Floor     int             `gorm:"type:int;not null" json:"floor"`
	Bedrooms  int             `gorm:"type:int;not null" json:"bedrooms"`
	Bathrooms int             `gorm:"type:int;not null" json:"bathrooms"`
	Rent      float64         `gorm:"type:decimal(10,2);not null" json:"rent"`
	Status    ApartmentStatus `gorm:"type:varchar(20);not null;default:'empty';index" json:"status"`
	TenantID  *string         `gorm:"type:varchar(36)" json:"tenant_id,omitempty"`
}

func (Apartment) TableName() string {
	return "apartments"
}

// IsBooked reports whether the apartment currently has a tenant.
func (a *Apartment) IsBooked() bool {
	return a.Status == ApartmentStatusBooked
}

// Book assigns the apartment to a tenant.
func (a *Apartment) Book(tenantID string) {
	a.Status = ApartmentStatusBooked
	a.TenantID = &tenantID
}

// Vacate clears the tenant assignment.
func (a *Apartment) Vacate() {
	a.Status = ApartmentStatusEmpty
	a.TenantID = nil
}
