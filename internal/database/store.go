package database

import (
	"fmt"
	"time"

	"apartment-portal/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store owns the five entity collections. All reads return full snapshots;
// all writes either fully land or leave the tables unchanged.
type Store struct {
	db *gorm.DB
}

// NewPostgresStore connects to PostgreSQL.
func NewPostgresStore(host, port, user, password, dbname, sslmode string) (*Store, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	// Test connection
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

// NewSQLiteStore opens a SQLite database at path (":memory:" for tests).
func NewSQLiteStore(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// InitSchema creates tables using GORM AutoMigrate
func (s *Store) InitSchema() error {
	return s.db.AutoMigrate(
		&models.User{},
		&models.Apartment{},
		&models.ServiceRequest{},
		&models.PaymentInfo{},
		&models.Location{},
	)
}

// ListApartments retrieves all apartments ordered by unit number
func (s *Store) ListApartments() ([]models.Apartment, error) {
	var apartments []models.Apartment
	err := s.db.Order("number ASC").Find(&apartments).Error
	return apartments, err
}

// GetApartmentByID retrieves an apartment by ID
func (s *Store) GetApartmentByID(id string) (*models.Apartment, error) {
	var apartment models.Apartment
	if err := s.db.Where("id = ?", id).First(&apartment).Error; err != nil {
		return nil, err
	}
	return &apartment, nil
}

// ListUsers retrieves all users
func (s *Store) ListUsers() ([]models.User, error) {
	var users []models.User
	err := s.db.Order("name ASC").Find(&users).Error
	return users, err
}

// GetUserByID retrieves a user by ID
func (s *Store) GetUserByID(id string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email
func (s *Store) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser inserts a new user
func (s *Store) CreateUser(u *models.User) error {
	return s.db.Create(u).Error
}

// CreateTenantWithApartment inserts a tenant and books their apartment as a
// single transaction. Fails if the apartment is missing or already booked,
// leaving both tables untouched.
func (s *Store) CreateTenantWithApartment(u *models.User, apartmentID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var apartment models.Apartment
		if err := tx.Where("id = ?", apartmentID).First(&apartment).Error; err != nil {
			return err
		}
		if apartment.IsBooked() {
			return ErrApartmentBooked
		}

		if err := tx.Create(u).Error; err != nil {
			return err
		}

		return tx.Model(&models.Apartment{}).
			Where("id = ?", apartmentID).
			Updates(map[string]interface{}{
				"status":    models.ApartmentStatusBooked,
				"tenant_id": u.ID,
			}).Error
	})
}

// ListServiceRequests retrieves all service requests, newest first
func (s *Store) ListServiceRequests() ([]models.ServiceRequest, error) {
	var requests []models.ServiceRequest
	err := s.db.Order("created_at DESC").Find(&requests).Error
	return requests, err
}

// GetServiceRequestByID retrieves a service request by ID
func (s *Store) GetServiceRequestByID(id string) (*models.ServiceRequest, error) {
	var request models.ServiceRequest
	if err := s.db.Where("id = ?", id).First(&request).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

// CreateServiceRequest inserts a new service request
func (s *Store) CreateServiceRequest(r *models.ServiceRequest) error {
	return s.db.Create(r).Error
}

// UpdateServiceRequestStatus applies a status transition by ID. The
// transition has already been validated; this is a per-record atomic update.
func (s *Store) UpdateServiceRequestStatus(id string, status models.ServiceRequestStatus, updatedAt time.Time) error {
	return s.db.Model(&models.ServiceRequest{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": &updatedAt,
		}).Error
}

// ListPayments retrieves all payments, newest first
func (s *Store) ListPayments() ([]models.PaymentInfo, error) {
	var payments []models.PaymentInfo
	err := s.db.Order("date DESC").Find(&payments).Error
	return payments, err
}

// CreatePayment inserts a settled payment record
func (s *Store) CreatePayment(p *models.PaymentInfo) error {
	return s.db.Create(p).Error
}

// ListLocations retrieves all map locations
func (s *Store) ListLocations() ([]models.Location, error) {
	var locations []models.Location
	err := s.db.Order("name ASC").Find(&locations).Error
	return locations, err
}
