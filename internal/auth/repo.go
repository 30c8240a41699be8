package auth

import (
	"context"
	"errors"

	"github.com/rotisserie/eris"
	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("user not found")

type Repo struct {
	DB *gorm.DB
}

func (r *Repo) GetAccount(ctx context.Context, id uint64) (*User, error) {
	var u User
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, eris.Wrapf(err, "load user %d", id)
	}
	return &u, nil
}

var ErrEmailTaken = errors.New("email already used")

func (r *Repo) CreateUser(ctx context.Context, u *User) error {
	if err := r.DB.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrEmailTaken
		}
		return eris.Wrap(err, "create user")
	}
	return nil
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, eris.Wrap(err, "load user by email")
	}
	return &u, nil
}
