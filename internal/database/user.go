package database

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"gorm.io/gorm/clause"
)

// User is a seeded account. Users are immutable once created.
// The digest column is called password to stay compatible with existing recipe databases.
type User struct {
	ID             uint   `gorm:"primaryKey"`
	Username       string `gorm:"uniqueIndex;not null"`
	PasswordDigest string `gorm:"column:password;not null"`
}

func (c *Client) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	var user User
	if err := c.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		err = notFound(err)
		if err != ErrNotFound {
			log.Error("failed to get user by username", "error", err)
		}
		return nil, err
	}
	return &user, nil
}

// CreateUser inserts a user unless the username is already taken, in which case the existing user is returned.
func (c *Client) CreateUser(ctx context.Context, username, passwordDigest string) (*User, error) {
	user := User{
		Username:       username,
		PasswordDigest: passwordDigest,
	}
	result := c.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "username"}},
		DoNothing: true,
	}).Create(&user)
	if result.Error != nil {
		log.Error("failed to create user", "error", result.Error)
		return nil, fmt.Errorf("failed to create user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return c.GetUserByUsername(ctx, username)
	}
	return &user, nil
}

func (c *Client) GetAllUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		log.Error("failed to get all users", "error", err)
		return nil, err
	}
	return users, nil
}
