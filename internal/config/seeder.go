package config

import (
	"log"

	"quickcred-backend/internal/adapters/persistence/models"
	"quickcred-backend/internal/core/domain"
	"quickcred-backend/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db  *gorm.DB
	cfg *Config
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, cfg *Config) *Seeder {
	return &Seeder{db: db, cfg: cfg}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedSettings(); err != nil {
		return err
	}

	if err := s.seedAdminUser(); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedSettings creates the singleton settings row if missing.
// The workflow reads loan bounds and fee rates from this row.
func (s *Seeder) seedSettings() error {
	var count int64
	s.db.Model(&models.Settings{}).Count(&count)
	if count > 0 {
		return nil
	}

	settings := &models.Settings{
		ID:                   1,
		InterestRateDefault:  s.cfg.Loan.InterestRateDefault,
		ProcessingFeePercent: s.cfg.Loan.ProcessingFeePercent,
		MinLoan:              s.cfg.Loan.MinLoan,
		MaxLoan:              s.cfg.Loan.MaxLoan,
		MaxMonths:            s.cfg.Loan.MaxMonths,
	}

	if err := s.db.Create(settings).Error; err != nil {
		return err
	}

	log.Printf("✅ Settings seeded: loan range %.2f-%.2f, max %d months",
		settings.MinLoan, settings.MaxLoan, settings.MaxMonths)
	return nil
}

// seedAdminUser seeds default admin user
// This is for development/testing only
// In production, create admin through secure process
func (s *Seeder) seedAdminUser() error {
	var count int64
	s.db.Model(&models.User{}).Where("role = ?", domain.RoleAdmin).Count(&count)
	if count > 0 {
		return nil // Admin already exists
	}

	hashedPassword, err := password.Hash("admin123456")
	if err != nil {
		return err
	}

	admin := &models.User{
		FullName:   "System Admin",
		Email:      "admin@quickcred.io",
		Phone:      "+10000000000",
		Password:   hashedPassword,
		Role:       domain.RoleAdmin,
		KYCStatus:  domain.KYCVerified,
		IsVerified: true,
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Admin user created: %s", admin.Email)
	return nil
}
