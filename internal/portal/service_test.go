package portal

import (
	"context"
	"testing"
	"time"

	"apartment-portal/internal/auth"
	"apartment-portal/internal/database"
	"apartment-portal/internal/models"
	"apartment-portal/internal/notify"
	"apartment-portal/internal/payments"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	managerIdent = auth.Identity{ID: "1", Email: "manager@example.com", Role: models.RoleManager}
	tenant1Ident = auth.Identity{ID: "2", Email: "tenant1@example.com", Role: models.RoleTenant}
	tenant2Ident = auth.Identity{ID: "3", Email: "tenant2@example.com", Role: models.RoleTenant}
)

func setupService(t *testing.T, successRate float64) (*Service, *notify.Recorder) {
	store, err := database.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, store.InitSchema())
	require.NoError(t, store.Seed())

	recorder := notify.NewRecorder()
	gateway := payments.NewGatewayWithSeed(0, successRate, 42)
	return NewService(store, recorder, gateway), recorder
}

func TestListServiceRequestsScopedByRole(t *testing.T) {
	svc, _ := setupService(t, 0.8)
	ctx := context.Background()

	all, err := svc.ListServiceRequests(ctx, managerIdent)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := svc.ListServiceRequests(ctx, tenant1Ident)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "2", mine[0].TenantID)
}

func TestListUsersScopedByRole(t *testing.T) {
	svc, _ := setupService(t, 0.8)
	ctx := context.Background()

	users, err := svc.ListUsers(ctx, managerIdent)
	require.NoError(t, err)
	assert.Len(t, users, 3)

	none, err := svc.ListUsers(ctx, tenant1Ident)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGetUserForbiddenForTenant(t *testing.T) {
	svc, _ := setupService(t, 0.8)

	_, err := svc.GetUser(context.Background(), tenant1Ident, "3")
	assert.ErrorIs(t, err, ErrForbidden)

	user, err := svc.GetUser(context.Background(), managerIdent, "3")
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith", user.Name)
}

func TestCreateServiceRequestRoundTrip(t *testing.T) {
	svc, recorder := setupService(t, 0.8)
	ctx := context.Background()

	created, err := svc.CreateServiceRequest(ctx, tenant1Ident, CreateServiceRequestInput{
		ApartmentID: "1",
		TenantID:    "2",
		Type:        models.ServiceTypePlumbing,
		Description: "Bathroom drain is clogged",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusPending, created.Status)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Nil(t, created.UpdatedAt)

	// Immediately fetching it back returns the same record
	mine, err := svc.ListServiceRequests(ctx, tenant1Ident)
	require.NoError(t, err)
	var fetched *models.ServiceRequest
	for i := range mine {
		if mine[i].ID == created.ID {
			fetched = &mine[i]
		}
	}
	require.NotNil(t, fetched)
	assert.Equal(t, created.Description, fetched.Description)
	assert.Equal(t, created.Type, fetched.Type)
	assert.Equal(t, models.RequestStatusPending, fetched.Status)
	assert.Nil(t, fetched.UpdatedAt)

	events := recorder.Events()
	require.Len(t, events, 1)
	assert.Equal(t, notify.LevelSuccess, events[0].Level)
}

func TestCreateServiceRequestValidation(t *testing.T) {
	svc, recorder := setupService(t, 0.8)
	ctx := context.Background()

	cases := []struct {
		name  string
		input CreateServiceRequestInput
	}{
		{"empty description", CreateServiceRequestInput{ApartmentID: "1", TenantID: "2", Type: models.ServiceTypeOther}},
		{"dangling apartment", CreateServiceRequestInput{ApartmentID: "999", TenantID: "2", Type: models.ServiceTypeOther, Description: "x"}},
		{"dangling tenant", CreateServiceRequestInput{ApartmentID: "1", TenantID: "999", Type: models.ServiceTypeOther, Description: "x"}},
		{"bad type", CreateServiceRequestInput{ApartmentID: "1", TenantID: "2", Type: "gardening", Description: "x"}},
	}

	for _, tc := range cases {
		_, err := svc.CreateServiceRequest(ctx, managerIdent, tc.input)
		var validation *ValidationError
		assert.ErrorAs(t, err, &validation, tc.name)
	}

	// Each failed attempt still reported exactly one outcome event
	assert.Len(t, recorder.Events(), len(cases))
}

func TestCreateServiceRequestTenantCannotFileForOthers(t *testing.T) {
	svc, _ := setupService(t, 0.8)

	_, err := svc.CreateServiceRequest(context.Background(), tenant1Ident, CreateServiceRequestInput{
		ApartmentID: "2",
		TenantID:    "3", // tenant2's id
		Type:        models.ServiceTypeCleaning,
		Description: "not mine",
	})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUpdateServiceRequestStatusScenario(t *testing.T) {
	svc, _ := setupService(t, 0.8)
	ctx := context.Background()

	// Seeded request "1" is pending
	updated, err := svc.UpdateServiceRequestStatus(ctx, managerIdent, "1", models.RequestStatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusInProgress, updated.Status)
	assert.NotNil(t, updated.UpdatedAt)

	// Regression back to pending is rejected
	_, err = svc.UpdateServiceRequestStatus(ctx, managerIdent, "1", models.RequestStatusPending)
	var transition *InvalidTransitionError
	require.ErrorAs(t, err, &transition)
	assert.Equal(t, models.RequestStatusInProgress, transition.From)
	assert.Equal(t, models.RequestStatusPending, transition.To)
}

func TestUpdateServiceRequestStatusNoOpAndTerminal(t *testing.T) {
	svc, _ := setupService(t, 0.8)
	ctx := context.Background()

	// Same status -> same status is rejected and the store is unchanged
	_, err := svc.UpdateServiceRequestStatus(ctx, managerIdent, "1", models.RequestStatusPending)
	var transition *InvalidTransitionError
	require.ErrorAs(t, err, &transition)

	all, err := svc.ListServiceRequests(ctx, managerIdent)
	require.NoError(t, err)
	for _, r := range all {
		if r.ID == "1" {
			assert.Equal(t, models.RequestStatusPending, r.Status)
			assert.Nil(t, r.UpdatedAt)
		}
	}

	// Completed is terminal
	_, err = svc.UpdateServiceRequestStatus(ctx, managerIdent, "1", models.RequestStatusCompleted)
	require.NoError(t, err)
	for _, next := range []models.ServiceRequestStatus{
		models.RequestStatusPending, models.RequestStatusInProgress, models.RequestStatusCompleted,
	} {
		_, err = svc.UpdateServiceRequestStatus(ctx, managerIdent, "1", next)
		assert.ErrorAs(t, err, &transition, "transition completed -> %s", next)
	}
}

func TestUpdateServiceRequestStatusErrors(t *testing.T) {
	svc, _ := setupService(t, 0.8)
	ctx := context.Background()

	_, err := svc.UpdateServiceRequestStatus(ctx, managerIdent, "999", models.RequestStatusCompleted)
	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)

	_, err = svc.UpdateServiceRequestStatus(ctx, managerIdent, "1", "archived")
	var validation *ValidationError
	assert.ErrorAs(t, err, &validation)

	// Tenants cannot drive the workflow
	_, err = svc.UpdateServiceRequestStatus(ctx, tenant1Ident, "1", models.RequestStatusInProgress)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCreatePaymentScenario(t *testing.T) {
	svc, _ := setupService(t, 0.8)
	ctx := context.Background()

	payment, err := svc.CreatePayment(ctx, tenant1Ident, CreatePaymentInput{
		TenantID:    "2",
		ApartmentID: "1",
		Amount:      1200,
		Description: "April Rent",
	})
	if err != nil {
		var declined *PaymentDeclinedError
		require.ErrorAs(t, err, &declined)
	}
	require.NotNil(t, payment)
	assert.Equal(t, 1200.0, payment.Amount)
	assert.Equal(t, "1", payment.ApartmentID)
	assert.True(t, payment.Status.IsSettled())
	assert.False(t, payment.Date.IsZero())

	// listPayments for t1 subsequently includes it
	mine, err := svc.ListPayments(ctx, tenant1Ident)
	require.NoError(t, err)
	found := false
	for _, p := range mine {
		if p.ID == payment.ID {
			found = true
			assert.Equal(t, "April Rent", p.Description)
		}
	}
	assert.True(t, found)
}

func TestCreatePaymentPersistsBothOutcomes(t *testing.T) {
	svc, recorder := setupService(t, 0.8)
	ctx := context.Background()

	const n = 50
	declined := 0
	for i := 0; i < n; i++ {
		payment, err := svc.CreatePayment(ctx, tenant1Ident, CreatePaymentInput{
			TenantID:    "2",
			ApartmentID: "1",
			Amount:      1200,
			Description: "Rent",
		})
		require.NotNil(t, payment)
		assert.True(t, payment.Status.IsSettled(), "payment %d has status %s", i, payment.Status)
		if err != nil {
			var declinedErr *PaymentDeclinedError
			require.ErrorAs(t, err, &declinedErr)
			assert.Equal(t, models.PaymentStatusFailed, payment.Status)
			declined++
		} else {
			assert.Equal(t, models.PaymentStatusCompleted, payment.Status)
		}
	}

	// Every attempt persisted exactly one record, declined ones included
	all, err := svc.ListPayments(ctx, managerIdent)
	require.NoError(t, err)
	assert.Len(t, all, n+2) // 2 from seed

	failed := 0
	for _, p := range all {
		assert.True(t, p.Status.IsSettled())
		if p.Status == models.PaymentStatusFailed {
			failed++
		}
	}
	assert.Equal(t, declined, failed)

	// Exactly one notification per attempt
	assert.Len(t, recorder.Events(), n)
}

func TestCreatePaymentValidation(t *testing.T) {
	svc, _ := setupService(t, 0.8)
	ctx := context.Background()

	var validation *ValidationError

	_, err := svc.CreatePayment(ctx, tenant1Ident, CreatePaymentInput{
		TenantID: "2", ApartmentID: "1", Amount: 0, Description: "zero"})
	assert.ErrorAs(t, err, &validation)

	_, err = svc.CreatePayment(ctx, tenant1Ident, CreatePaymentInput{
		TenantID: "2", ApartmentID: "999", Amount: 100, Description: "bad apartment"})
	assert.ErrorAs(t, err, &validation)

	_, err = svc.CreatePayment(ctx, tenant2Ident, CreatePaymentInput{
		TenantID: "2", ApartmentID: "1", Amount: 100, Description: "someone else's rent"})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCreatePaymentAbortsBeforeSettlementOnCancel(t *testing.T) {
	store, err := database.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, store.InitSchema())
	require.NoError(t, store.Seed())

	gateway := payments.NewGatewayWithSeed(5*time.Second, 0.8, 42)
	svc := NewService(store, notify.NewRecorder(), gateway)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = svc.CreatePayment(ctx, tenant1Ident, CreatePaymentInput{
		TenantID: "2", ApartmentID: "1", Amount: 1200, Description: "Rent"})
	assert.ErrorIs(t, err, context.Canceled)

	// Nothing was persisted
	all, err := svc.ListPayments(context.Background(), managerIdent)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	svc, _ := setupService(t, 0.8)

	_, err := svc.CreateUser(context.Background(), managerIdent, CreateUserInput{
		Email: "tenant1@example.com",
		Name:  "Imposter",
		Role:  models.RoleTenant,
	})
	var duplicate *DuplicateEmailError
	require.ErrorAs(t, err, &duplicate)
	assert.Equal(t, "tenant1@example.com", duplicate.Email)
}

func TestCreateUserBooksApartment(t *testing.T) {
	svc, _ := setupService(t, 0.8)
	ctx := context.Background()

	aptID := "4"
	user, err := svc.CreateUser(ctx, managerIdent, CreateUserInput{
		Email:       "tenant3@example.com",
		Name:        "New Tenant",
		Role:        models.RoleTenant,
		ApartmentID: &aptID,
	})
	require.NoError(t, err)

	apartment, err := svc.GetApartment(ctx, "4")
	require.NoError(t, err)
	assert.Equal(t, models.ApartmentStatusBooked, apartment.Status)
	require.NotNil(t, apartment.TenantID)
	assert.Equal(t, user.ID, *apartment.TenantID)
}

func TestCreateUserRejectsBookedApartment(t *testing.T) {
	svc, _ := setupService(t, 0.8)

	aptID := "1" // booked by seed
	_, err := svc.CreateUser(context.Background(), managerIdent, CreateUserInput{
		Email:       "tenant3@example.com",
		Name:        "New Tenant",
		Role:        models.RoleTenant,
		ApartmentID: &aptID,
	})
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)

	// The account did not land either
	users, listErr := svc.ListUsers(context.Background(), managerIdent)
	require.NoError(t, listErr)
	assert.Len(t, users, 3)
}

func TestCreateUserManagerNeverCarriesApartment(t *testing.T) {
	svc, _ := setupService(t, 0.8)

	aptID := "4"
	_, err := svc.CreateUser(context.Background(), managerIdent, CreateUserInput{
		Email:       "manager2@example.com",
		Name:        "Second Manager",
		Role:        models.RoleManager,
		ApartmentID: &aptID,
	})
	var validation *ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestCreateUserForbiddenForTenant(t *testing.T) {
	svc, _ := setupService(t, 0.8)

	_, err := svc.CreateUser(context.Background(), tenant1Ident, CreateUserInput{
		Email: "sneaky@example.com",
		Name:  "Sneaky",
		Role:  models.RoleTenant,
	})
	assert.ErrorIs(t, err, ErrForbidden)
}
