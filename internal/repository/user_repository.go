package repository

import (
	"strings"

	"github.com/tvhoang/workunit-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// List returns every user
func (r *GormUserRepository) List() ([]models.User, error) {
	var users []models.User
	if err := r.db.Order("name").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Count returns the number of users in the store
func (r *GormUserRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Count(&count).Error
	return count, err
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email. Emails are the login key and are
// compared case-insensitively.
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("LOWER(email) = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Upsert inserts the user or updates the existing row with the same ID
func (r *GormUserRepository) Upsert(user *models.User) error {
	return r.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(user).Error
}

// ReplaceAll swaps the full roster for the imported one inside a single
// transaction. Accounts listed in keepIDs (the root admin) survive the swap.
func (r *GormUserRepository) ReplaceAll(users []models.User, keepIDs []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		del := tx.Model(&models.User{})
		if len(keepIDs) > 0 {
			del = del.Where("id NOT IN ?", keepIDs)
		} else {
			del = del.Where("1 = 1")
		}
		if err := del.Delete(&models.User{}).Error; err != nil {
			return err
		}

		if len(users) == 0 {
			return nil
		}
		return tx.
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				UpdateAll: true,
			}).
			Create(&users).Error
	})
}
