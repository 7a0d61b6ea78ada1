package database

import (
	"log"
	"time"

	"apartment-portal/internal/models"

	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

// Seed inserts the demo fixture set: one manager, two tenants in booked
// apartments, a handful of vacant units, sample requests and payments, and
// the neighborhood map locations. A no-op when users already exist.
func (s *Store) Seed() error {
	var count int64
	if err := s.db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("Seed: users already present, skipping")
		return nil
	}

	users := []models.User{
		{ID: "1", Email: "manager@example.com", Name: "Admin Manager", Role: models.RoleManager},
		{ID: "2", Email: "tenant1@example.com", Name: "John Doe", Role: models.RoleTenant, ApartmentID: strPtr("1")},
		{ID: "3", Email: "tenant2@example.com", Name: "Jane Smith", Role: models.RoleTenant, ApartmentID: strPtr("2")},
	}

	apartments := []models.Apartment{
		{ID: "1", Number: "101", Floor: 1, Bedrooms: 2, Bathrooms: 1, Rent: 1200, Status: models.ApartmentStatusBooked, TenantID: strPtr("2")},
		{ID: "2", Number: "102", Floor: 1, Bedrooms: 1, Bathrooms: 1, Rent: 900, Status: models.ApartmentStatusBooked, TenantID: strPtr("3")},
		{ID: "3", Number: "103", Floor: 1, Bedrooms: 2, Bathrooms: 1, Rent: 1200, Status: models.ApartmentStatusEmpty},
		{ID: "4", Number: "201", Floor: 2, Bedrooms: 3, Bathrooms: 2, Rent: 1800, Status: models.ApartmentStatusEmpty},
		{ID: "5", Number: "202", Floor: 2, Bedrooms: 2, Bathrooms: 1, Rent: 1300, Status: models.ApartmentStatusEmpty},
		{ID: "6", Number: "203", Floor: 2, Bedrooms: 1, Bathrooms: 1, Rent: 950, Status: models.ApartmentStatusEmpty},
		{ID: "7", Number: "301", Floor: 3, Bedrooms: 3, Bathrooms: 2, Rent: 1900, Status: models.ApartmentStatusEmpty},
		{ID: "8", Number: "302", Floor: 3, Bedrooms: 2, Bathrooms: 2, Rent: 1500, Status: models.ApartmentStatusEmpty},
		{ID: "9", Number: "303", Floor: 3, Bedrooms: 2, Bathrooms: 1, Rent: 1250, Status: models.ApartmentStatusEmpty},
		{ID: "10", Number: "304", Floor: 3, Bedrooms: 1, Bathrooms: 1, Rent: 1000, Status: models.ApartmentStatusEmpty},
	}

	requests := []models.ServiceRequest{
		{
			ID:          "1",
			ApartmentID: "1",
			TenantID:    "2",
			Type:        models.ServiceTypeCleaning,
			Description: "Need apartment cleaned",
			Status:      models.RequestStatusPending,
			CreatedAt:   time.Date(2023, 4, 12, 10, 30, 0, 0, time.UTC),
		},
		{
			ID:          "2",
			ApartmentID: "2",
			TenantID:    "3",
			Type:        models.ServiceTypeMaintenance,
			Description: "The sink is leaking",
			Status:      models.RequestStatusInProgress,
			CreatedAt:   time.Date(2023, 4, 10, 8, 15, 0, 0, time.UTC),
			UpdatedAt:   timePtr(time.Date(2023, 4, 11, 14, 20, 0, 0, time.UTC)),
		},
	}

	payments := []models.PaymentInfo{
		{ID: "1", TenantID: "2", ApartmentID: "1", Amount: 1200, Status: models.PaymentStatusCompleted,
			Date: time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC), Description: "April Rent"},
		{ID: "2", TenantID: "3", ApartmentID: "2", Amount: 900, Status: models.PaymentStatusCompleted,
			Date: time.Date(2023, 4, 2, 0, 0, 0, 0, time.UTC), Description: "April Rent"},
	}

	locations := []models.Location{
		{ID: "1", Name: "Central Park", Type: models.LocationTypePark,
			Description: "Beautiful park with walking trails", Coordinates: models.Coordinates{X: 100, Y: 150}},
		{ID: "2", Name: "Lakeside Temple", Type: models.LocationTypeTemple,
			Description: "Peaceful temple by the lake", Coordinates: models.Coordinates{X: 220, Y: 100}},
		{ID: "3", Name: "Fitness Center", Type: models.LocationTypeGym,
			Description: "24/7 fitness center with modern equipment", Coordinates: models.Coordinates{X: 180, Y: 200}},
		{ID: "4", Name: "Community Pool", Type: models.LocationTypePool,
			Description: "Outdoor swimming pool", Coordinates: models.Coordinates{X: 150, Y: 250}},
		{ID: "5", Name: "Mini Mart", Type: models.LocationTypeStore,
			Description: "Convenience store for daily needs", Coordinates: models.Coordinates{X: 80, Y: 120}},
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&users).Error; err != nil {
			return err
		}
		if err := tx.Create(&apartments).Error; err != nil {
			return err
		}
		if err := tx.Create(&requests).Error; err != nil {
			return err
		}
		if err := tx.Create(&payments).Error; err != nil {
			return err
		}
		return tx.Create(&locations).Error
	})
}
