// Package portal is the role-scoped data-access and mutation core: reads
// are filtered per caller, mutations validate input, apply a state
// transition, persist through the store, and report their outcome.
package portal

import (
	"context"
	"errors"
	"time"

	"apartment-portal/internal/access"
	"apartment-portal/internal/auth"
	"apartment-portal/internal/database"
	"apartment-portal/internal/models"
	"apartment-portal/internal/notify"
	"apartment-portal/internal/payments"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes the caller-facing operation surface over the entity
// store. All methods are safe for concurrent callers; record-level updates
// go through atomic update-by-id writes.
type Service struct {
	store    *database.Store
	notifier notify.Notifier
	gateway  *payments.Gateway

	now   func() time.Time
	newID func() string
}

// NewService creates the portal service.
func NewService(store *database.Store, notifier notify.Notifier, gateway *payments.Gateway) *Service {
	return &Service{
		store:    store,
		notifier: notifier,
		gateway:  gateway,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

func (s *Service) emit(level notify.Level, format string, args ...interface{}) {
	s.notifier.Notify(notify.Eventf(level, format, args...))
}

// ListApartments returns all apartments; visible to every caller.
func (s *Service) ListApartments(ctx context.Context) ([]models.Apartment, error) {
	apartments, err := s.store.ListApartments()
	if err != nil {
		return nil, backendError(err)
	}
	return apartments, nil
}

// GetApartment returns a single apartment by id.
func (s *Service) GetApartment(ctx context.Context, id string) (*models.Apartment, error) {
	apartment, err := s.store.GetApartmentByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "apartment", ID: id}
		}
		return nil, backendError(err)
	}
	return apartment, nil
}

// ListLocations returns the neighborhood map locations; visible to every caller.
func (s *Service) ListLocations(ctx context.Context) ([]models.Location, error) {
	locations, err := s.store.ListLocations()
	if err != nil {
		return nil, backendError(err)
	}
	return locations, nil
}

// ListServiceRequests returns the service requests visible to the caller.
func (s *Service) ListServiceRequests(ctx context.Context, ident auth.Identity) ([]models.ServiceRequest, error) {
	requests, err := s.store.ListServiceRequests()
	if err != nil {
		return nil, backendError(err)
	}
	return access.ScopeServiceRequests(ident, requests), nil
}

// ListPayments returns the payments visible to the caller.
func (s *Service) ListPayments(ctx context.Context, ident auth.Identity) ([]models.PaymentInfo, error) {
	payments, err := s.store.ListPayments()
	if err != nil {
		return nil, backendError(err)
	}
	return access.ScopePayments(ident, payments), nil
}

// ListUsers returns the user accounts visible to the caller. Tenants get
// an empty list.
func (s *Service) ListUsers(ctx context.Context, ident auth.Identity) ([]models.User, error) {
	if !ident.Can(auth.CapViewUsers) {
		return []models.User{}, nil
	}
	users, err := s.store.ListUsers()
	if err != nil {
		return nil, backendError(err)
	}
	return access.ScopeUsers(ident, users), nil
}

// GetUser returns a single user account; manager only.
func (s *Service) GetUser(ctx context.Context, ident auth.Identity, id string) (*models.User, error) {
	if !ident.Can(auth.CapViewUsers) {
		return nil, ErrForbidden
	}
	user, err := s.store.GetUserByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "user", ID: id}
		}
		return nil, backendError(err)
	}
	return user, nil
}

// CreateServiceRequestInput carries the fields of a new service request.
type CreateServiceRequestInput struct {
	ApartmentID string
	TenantID    string
	Type        models.ServiceType
	Description string
}

// CreateServiceRequest files a new request with status pending. Tenants
// may only file for themselves; managers may file on a tenant's behalf.
func (s *Service) CreateServiceRequest(ctx context.Context, ident auth.Identity, in CreateServiceRequestInput) (*models.ServiceRequest, error) {
	if !ident.Can(auth.CapSubmitRequests) {
		s.emit(notify.LevelError, "Service request rejected: not permitted")
		return nil, ErrForbidden
	}
	if !ident.Can(auth.CapViewAllRecords) && in.TenantID != ident.ID {
		s.emit(notify.LevelError, "Service request rejected: tenants may only file their own requests")
		return nil, ErrForbidden
	}

	if err := s.validateRequestInput(in); err != nil {
		s.emit(notify.LevelError, "Failed to submit service request: %v", err)
		return nil, err
	}

	request := &models.ServiceRequest{
		ID:          s.newID(),
		ApartmentID: in.ApartmentID,
		TenantID:    in.TenantID,
		Type:        in.Type,
		Description: in.Description,
		Status:      models.RequestStatusPending,
		CreatedAt:   s.now(),
	}
	if err := s.store.CreateServiceRequest(request); err != nil {
		s.emit(notify.LevelError, "Failed to submit service request: %v", err)
		return nil, backendError(err)
	}

	s.emit(notify.LevelSuccess, "Service request submitted successfully")
	return request, nil
}

func (s *Service) validateRequestInput(in CreateServiceRequestInput) error {
	if in.Description == "" {
		return &ValidationError{Field: "description", Reason: "must not be empty"}
	}
	if !in.Type.IsValid() {
		return &ValidationError{Field: "type", Reason: "unknown service type"}
	}
	if err := s.checkTenantExists(in.TenantID); err != nil {
		return err
	}
	return s.checkApartmentExists(in.ApartmentID)
}

// UpdateServiceRequestStatus advances a request through its workflow.
// Transitions must strictly advance: completed is terminal, and a status
// never moves to itself or backward.
func (s *Service) UpdateServiceRequestStatus(ctx context.Context, ident auth.Identity, id string, status models.ServiceRequestStatus) (*models.ServiceRequest, error) {
	if !ident.Can(auth.CapUpdateRequestStatus) {
		s.emit(notify.LevelError, "Status update rejected: not permitted")
		return nil, ErrForbidden
	}
	if !status.IsValid() {
		s.emit(notify.LevelError, "Status update rejected: unknown status %q", status)
		return nil, &ValidationError{Field: "status", Reason: "unknown status"}
	}

	request, err := s.store.GetServiceRequestByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.emit(notify.LevelError, "Status update failed: request %s not found", id)
			return nil, &NotFoundError{Entity: "service request", ID: id}
		}
		s.emit(notify.LevelError, "Status update failed: %v", err)
		return nil, backendError(err)
	}

	if !request.Status.CanTransitionTo(status) {
		s.emit(notify.LevelError, "Status update rejected: %s cannot move to %s", request.Status, status)
		return nil, &InvalidTransitionError{From: request.Status, To: status}
	}

	updatedAt := s.now()
	if err := s.store.UpdateServiceRequestStatus(id, status, updatedAt); err != nil {
		s.emit(notify.LevelError, "Status update failed: %v", err)
		return nil, backendError(err)
	}

	request.Status = status
	request.UpdatedAt = &updatedAt
	s.emit(notify.LevelSuccess, "Service request status updated to %s", status)
	return request, nil
}

// CreatePaymentInput carries the fields of a new payment.
type CreatePaymentInput struct {
	TenantID    string
	ApartmentID string
	Amount      float64
	Description string
}

// CreatePayment settles a payment against the simulated gateway and
// persists the outcome either way, so declined attempts stay visible in
// the history. The failed branch returns the record together with a
// PaymentDeclinedError.
func (s *Service) CreatePayment(ctx context.Context, ident auth.Identity, in CreatePaymentInput) (*models.PaymentInfo, error) {
	if !ident.Can(auth.CapSubmitPayments) {
		s.emit(notify.LevelError, "Payment rejected: not permitted")
		return nil, ErrForbidden
	}
	if !ident.Can(auth.CapViewAllRecords) && in.TenantID != ident.ID {
		s.emit(notify.LevelError, "Payment rejected: tenants may only pay for themselves")
		return nil, ErrForbidden
	}

	if err := s.validatePaymentInput(in); err != nil {
		s.emit(notify.LevelError, "Failed to process payment: %v", err)
		return nil, err
	}

	status, err := s.gateway.Settle(ctx)
	if err != nil {
		// Cancelled before the draw: nothing was persisted.
		s.emit(notify.LevelError, "Payment aborted before settlement: %v", err)
		return nil, err
	}

	payment := &models.PaymentInfo{
		ID:          s.newID(),
		TenantID:    in.TenantID,
		ApartmentID: in.ApartmentID,
		Amount:      in.Amount,
		Status:      status,
		Date:        s.now(),
		Description: in.Description,
	}
	if err := s.store.CreatePayment(payment); err != nil {
		s.emit(notify.LevelError, "Failed to record payment: %v", err)
		return nil, backendError(err)
	}

	if status == models.PaymentStatusFailed {
		s.emit(notify.LevelError, "Payment processing failed")
		return payment, &PaymentDeclinedError{Payment: payment}
	}

	s.emit(notify.LevelSuccess, "Payment processed successfully")
	return payment, nil
}

func (s *Service) validatePaymentInput(in CreatePaymentInput) error {
	if in.Amount <= 0 {
		return &ValidationError{Field: "amount", Reason: "must be greater than zero"}
	}
	if err := s.checkTenantExists(in.TenantID); err != nil {
		return err
	}
	return s.checkApartmentExists(in.ApartmentID)
}

// CreateUserInput carries the fields of a new account.
type CreateUserInput struct {
	Email       string
	Name        string
	Role        models.UserRole
	ApartmentID *string
}

// CreateUser registers an account; manager only. Assigning an apartment to
// a new tenant books it in the same transaction, so the account and the
// occupancy never drift apart.
func (s *Service) CreateUser(ctx context.Context, ident auth.Identity, in CreateUserInput) (*models.User, error) {
	if !ident.Can(auth.CapManageUsers) {
		s.emit(notify.LevelError, "User creation rejected: not permitted")
		return nil, ErrForbidden
	}

	if err := s.validateUserInput(in); err != nil {
		s.emit(notify.LevelError, "Failed to create user: %v", err)
		return nil, err
	}

	if _, err := s.store.GetUserByEmail(in.Email); err == nil {
		s.emit(notify.LevelError, "Failed to create user: email %s already registered", in.Email)
		return nil, &DuplicateEmailError{Email: in.Email}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.emit(notify.LevelError, "Failed to create user: %v", err)
		return nil, backendError(err)
	}

	user := &models.User{
		ID:          s.newID(),
		Email:       in.Email,
		Name:        in.Name,
		Role:        in.Role,
		ApartmentID: in.ApartmentID,
	}

	if in.Role == models.RoleTenant && in.ApartmentID != nil {
		if err := s.store.CreateTenantWithApartment(user, *in.ApartmentID); err != nil {
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				s.emit(notify.LevelError, "Failed to create user: apartment %s not found", *in.ApartmentID)
				return nil, &ValidationError{Field: "apartment_id", Reason: "no such apartment"}
			case errors.Is(err, database.ErrApartmentBooked):
				s.emit(notify.LevelError, "Failed to create user: apartment %s already booked", *in.ApartmentID)
				return nil, &ValidationError{Field: "apartment_id", Reason: "apartment is already booked"}
			default:
				s.emit(notify.LevelError, "Failed to create user: %v", err)
				return nil, backendError(err)
			}
		}
	} else if err := s.store.CreateUser(user); err != nil {
		s.emit(notify.LevelError, "Failed to create user: %v", err)
		return nil, backendError(err)
	}

	s.emit(notify.LevelSuccess, "User created successfully")
	return user, nil
}

func (s *Service) validateUserInput(in CreateUserInput) error {
	if in.Email == "" {
		return &ValidationError{Field: "email", Reason: "must not be empty"}
	}
	if in.Name == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if !in.Role.IsValid() {
		return &ValidationError{Field: "role", Reason: "unknown role"}
	}
	if in.Role == models.RoleManager && in.ApartmentID != nil {
		return &ValidationError{Field: "apartment_id", Reason: "managers do not carry an apartment"}
	}
	return nil
}

func (s *Service) checkTenantExists(id string) error {
	if id == "" {
		return &ValidationError{Field: "tenant_id", Reason: "must not be empty"}
	}
	if _, err := s.store.GetUserByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ValidationError{Field: "tenant_id", Reason: "no such user"}
		}
		return backendError(err)
	}
	return nil
}

func (s *Service) checkApartmentExists(id string) error {
	if id == "" {
		return &ValidationError{Field: "apartment_id", Reason: "must not be empty"}
	}
	if _, err := s.store.GetApartmentByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ValidationError{Field: "apartment_id", Reason: "no such apartment"}
		}
		return backendError(err)
	}
	return nil
}
