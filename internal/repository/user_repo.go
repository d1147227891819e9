package repository

import (
	"go-retail-api/internal/model"

	"gorm.io/gorm"
)

// UserRepository is the auth surface. Creation exists for the seed
// paths; everything else is lookups plus the password update.
type UserRepository interface {
	FindByEmail(email string) (*model.User, error)
	FindByID(id uint) (*model.User, error)
	Create(user *model.User) error
	UpdatePassword(id uint, hash string) error
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db}
}

func (r *userRepo) findOne(cond string, arg interface{}) (*model.User, error) {
	var user model.User
	if err := r.db.Where(cond, arg).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) FindByEmail(email string) (*model.User, error) {
	return r.findOne("email = ?", email)
}

func (r *userRepo) FindByID(id uint) (*model.User, error) {
	return r.findOne("id = ?", id)
}

func (r *userRepo) Create(user *model.User) error {
	return r.db.Create(user).Error
}

// UpdatePassword writes only the password column, leaving the rest of
// the row untouched.
func (r *userRepo) UpdatePassword(id uint, hash string) error {
	return r.db.Model(&model.User{}).Where("id = ?", id).Update("password", hash).Error
}
