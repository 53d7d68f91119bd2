package migration

import (
	"github.com/google/uuid"
	"github.com/promptdeck/promptdeck-backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Run executes AutoMigrate for all workflow tables
func Run(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Submission{},
		&domain.TransitionRecord{},
	)
}

// SeedDev inserts a default admin account and sample listings when the
// users table is empty. Development environments only.
func SeedDev(db *gorm.DB) error {
	var count int64
	db.Model(&domain.User{}).Count(&count)
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin1234"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := domain.User{
		ID:       uuid.NewString(),
		Username: "admin",
		Email:    "admin@promptdeck.local",
		Password: string(hash),
		Role:     domain.RoleAdmin,
		Status:   "active",
	}
	creator := domain.User{
		ID:       uuid.NewString(),
		Username: "demo-creator",
		Email:    "creator@promptdeck.local",
		Password: string(hash),
		Role:     domain.RoleCreator,
		Status:   "active",
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	if err := db.Create(&creator).Error; err != nil {
		return err
	}

	samples := []domain.Submission{
		{
			ID:       uuid.NewString(),
			AuthorID: creator.ID,
			Title:    "Cold email opener",
			Body:     "Write a three-sentence cold email opener for {{product}} aimed at {{persona}}.",
			Status:   domain.StatusApproved,
			Public:   true,
			Price:    0,
		},
		{
			ID:       uuid.NewString(),
			AuthorID: creator.ID,
			Title:    "Product photo prompt pack",
			Body:     "Studio lighting, 85mm, seamless white background, {{product}} centered...",
			Status:   domain.StatusApproved,
			Public:   true,
			Price:    4900,
		},
		{
			ID:       uuid.NewString(),
			AuthorID: creator.ID,
			Title:    "Resume bullet rewriter",
			Body:     "Rewrite the following resume bullet to lead with impact: {{bullet}}",
			Status:   domain.StatusPending,
			Public:   true,
			Price:    0,
		},
	}
	return db.Create(&samples).Error
}
