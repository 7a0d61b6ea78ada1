package models

import "time"

// ServiceType categorizes a service request.
type ServiceType string

const (
	ServiceTypeCleaning    ServiceType = "cleaning"
	ServiceTypeMaintenance ServiceType = "maintenance"
	ServiceTypePlumbing    ServiceType = "plumbing"
	ServiceTypeElectrical  ServiceType = "electrical"
	ServiceTypeOther       ServiceType = "other"
)

// IsValid reports whether the type is one of the known service types.
func (t ServiceType) IsValid() bool {
	switch t {
	case ServiceTypeCleaning, ServiceTypeMaintenance, ServiceTypePlumbing,
		ServiceTypeElectrical, ServiceTypeOther:
		return true
	}
	return false
}

// ServiceRequestStatus is the workflow state of a service request.
type ServiceRequestStatus string

const (
	RequestStatusPending    ServiceRequestStatus = "pending"
	RequestStatusInProgress ServiceRequestStatus = "in-progress"
	RequestStatusCompleted  ServiceRequestStatus = "completed"
)

// IsValid reports whether the status is one of the known states.
func (s ServiceRequestStatus) IsValid() bool {
	switch s {
	case RequestStatusPending, RequestStatusInProgress, RequestStatusCompleted:
		return true
	}
	return false
}

// rank orders the workflow states; transitions must strictly advance.
func (s ServiceRequestStatus) rank() int {
	switch s {
	case RequestStatusPending:
		return 0
	case RequestStatusInProgress:
		return 1
	case RequestStatusCompleted:
		return 2
	}
	return -1
}

// CanTransitionTo reports whether moving to next is a legal transition.
// Completed is terminal; a status never transitions to itself or backward.
func (s ServiceRequestStatus) CanTransitionTo(next ServiceRequestStatus) bool {
	if !s.IsValid() || !next.IsValid() {
		return false
	}
	return next.rank() > s.rank()
}

// ServiceRequest is a tenant-filed work order against an apartment.
// CreatedAt is set once at creation; UpdatedAt only on status transitions.
type ServiceRequest struct {
	ID          string               `gorm:"type:varchar(36);primaryKey" json:"id"`
	ApartmentID string               `gorm:"type:varchar(36);not null;index" json:"apartment_id"`
	TenantID    string               `gorm:"type:varchar(36);not null;index" json:"tenant_id"`
	Type        ServiceType          `gorm:"type:varchar(20);not null" json:"type"`
	Description string               `gorm:"type:text;not null" json:"description"`
	Status      ServiceRequestStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CreatedAt   time.Time            `gorm:"type:timestamp;not null;autoCreateTime:false" json:"created_at"`
	UpdatedAt   *time.Time           `gorm:"type:timestamp;autoUpdateTime:false" json:"updated_at,omitempty"`
}

func (ServiceRequest) TableName() string {
	return "service_requests"
}

// IsCompleted reports whether the request reached its terminal state.
func (r *ServiceRequest) IsCompleted() bool {
	return r.Status == RequestStatusCompleted
}
