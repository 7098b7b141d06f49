package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"catchat/db"
	"catchat/models"

	"golang.org/x/crypto/argon2"
	"gorm.io/gorm"
)

type UserService struct{}

func NewUserService() *UserService {
	return &UserService{}
}

func hashPassword(password string) (string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	hash := argon2.IDKey([]byte(password), salt, 1, 64*1024, 4, 32)
	return hex.EncodeToString(salt) + "$" + hex.EncodeToString(hash), nil
}

func verifyPassword(stored, password string) bool {
	parts := strings.Split(stored, "$")
	if len(parts) != 2 {
		return false
	}
	salt, err := hex.DecodeString(parts[0])
	if err != nil {
		return false
	}
	hash := argon2.IDKey([]byte(password), salt, 1, 64*1024, 4, 32)
	return hex.EncodeToString(hash) == parts[1]
}

// Register создает нового пользователя. Email уникален.
func (us *UserService) Register(ctx context.Context, name, email, password string) (int64, error) {
	if name == "" || email == "" || password == "" {
		return 0, fmt.Errorf("%w: name, email and password are required", ErrValidation)
	}

	var alreadyExists int64
	err := db.GetReadOnlyDB(ctx).Model(&models.User{}).Where("email = ?", email).Count(&alreadyExists).Error
	if err != nil {
		return 0, fmt.Errorf("failed to check existing user: %w", err)
	}
	if alreadyExists > 0 {
		return 0, fmt.Errorf("%w: user already exists", ErrValidation)
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Name:      name,
		Email:     email,
		Password:  passwordHash,
		Role:      models.RoleUser,
		CreatedAt: time.Now(),
	}
	if err := db.GetWriteDB(ctx).Create(&user).Error; err != nil {
		return 0, fmt.Errorf("failed to create user: %w", err)
	}
	return user.ID, nil
}

// Login проверяет пароль и выдает новый bearer-токен, старые токены
// пользователя при этом отзываются
func (us *UserService) Login(ctx context.Context, email, password string) (string, error) {
	var user models.User
	err := db.GetReadOnlyDB(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%w: invalid credentials", ErrNotFound)
		}
		return "", err
	}

	if !verifyPassword(user.Password, password) {
		return "", fmt.Errorf("%w: invalid credentials", ErrNotFound)
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	token := hex.EncodeToString(tokenBytes)

	err = db.GetWriteDB(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.UserTokens{}).Error; err != nil {
			return err
		}
		if err := tx.Create(&models.UserTokens{UserID: user.ID, Token: token}).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", user.ID).Update("is_online", true).Error
	})
	if err != nil {
		return "", fmt.Errorf("failed to store token: %w", err)
	}
	return token, nil
}

// Logout отзывает все токены пользователя
func (us *UserService) Logout(ctx context.Context, userID int64) error {
	err := db.GetWriteDB(ctx).Where("user_id = ?", userID).Delete(&models.UserTokens{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete tokens: %w", err)
	}
	return db.GetWriteDB(ctx).Model(&models.User{}).Where("id = ?", userID).Update("is_online", false).Error
}

// UserByToken возвращает владельца bearer-токена, используется middleware
func (us *UserService) UserByToken(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: token is empty", ErrNotFound)
	}
	var userToken models.UserTokens
	err := db.GetReadOnlyDB(ctx).Where("token = ?", token).First(&userToken).Error
	if err != nil {
		return nil, fmt.Errorf("%w: token", ErrNotFound)
	}
	var user models.User
	if err := db.GetReadOnlyDB(ctx).First(&user, userToken.UserID).Error; err != nil {
		return nil, fmt.Errorf("%w: user", ErrNotFound)
	}
	return &user, nil
}

// GetUser возвращает пользователя по идентификатору
func (us *UserService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := db.GetReadOnlyDB(ctx).First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, id)
		}
		return nil, err
	}
	return &user, nil
}

// SearchUsers ищет пользователей по префиксу имени
func (us *UserService) SearchUsers(ctx context.Context, name string, limit, offset int) ([]models.User, error) {
	var users []models.User
	err := db.GetReadOnlyDB(ctx).
		Where("name LIKE ?", name+"%").
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	return users, nil
}

// UpdateProfile обновляет имя, аватар и описание профиля
func (us *UserService) UpdateProfile(ctx context.Context, userID int64, name, avatar, bio string) (*models.User, error) {
	var user models.User
	if err := db.GetWriteDB(ctx).First(&user, userID).Error; err != nil {
		return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
	}
	if name != "" {
		user.Name = name
	}
	user.Avatar = avatar
	user.Bio = bio
	user.UpdatedAt = time.Now()
	if err := db.GetWriteDB(ctx).Save(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return &user, nil
}
