package repositories

import (
	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/pkg/orm"
)

type UserRepository struct{}

func NewUserRepository() *UserRepository { return &UserRepository{} }

func (r *UserRepository) FindByID(id uint) (*models.User, error) {
	var user models.User
	if err := orm.DB().Where("id = ?", id).First(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := orm.DB().Where("email = ?", email).First(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) EmailExists(email string) (bool, error) {
	var n int64
	if err := orm.DB().Model(&models.User{}).Where("email = ?", email).Count(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *UserRepository) Create(user *models.User) error {
	return orm.DB().Create(user)
}

func (r *UserRepository) Save(user *models.User) error {
	return orm.DB().Save(user)
}
