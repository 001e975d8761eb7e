// Package services holds the business logic between controllers and
// repositories. Services return apperr-kinded errors; controllers map them
// to HTTP via response.FromError.
package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/andrianfauzi/warungku/app/models"
	"github.com/andrianfauzi/warungku/app/repositories"
	"github.com/andrianfauzi/warungku/config"
	"github.com/andrianfauzi/warungku/pkg/apperr"
	"github.com/andrianfauzi/warungku/pkg/auth"
	"github.com/andrianfauzi/warungku/pkg/logger"
	"github.com/andrianfauzi/warungku/pkg/storage"
	"github.com/andrianfauzi/warungku/pkg/upload"
)

// AuthService covers registration, login, and profile updates.
type AuthService struct {
	users *repositories.UserRepository
	disk  storage.Disk
}

func NewAuthService(users *repositories.UserRepository, disk storage.Disk) *AuthService {
	return &AuthService{users: users, disk: disk}
}

// RegisterInput carries the validated registration payload.
type RegisterInput struct {
	Nama        string `json:"nama" validate:"required"`
	Alamat      string `json:"alamat"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	PhoneNumber string `json:"phone_number" validate:"required"`
	Username    string `json:"username" validate:"required"`
	UserLevel   int    `json:"user_level" validate:"nullable,gte=1,lte=2"`
}

// Register creates a new account. Email, phone number, and username are
// each unique; a hit on any of them is a Conflict.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (uint, error) {
	taken, err := s.users.IdentityTaken(in.Email, in.PhoneNumber, in.Username)
	if err != nil {
		return 0, apperr.Wrap(apperr.Upstream, "Internal Server Error", err)
	}
	if taken {
		return 0, apperr.New(apperr.Conflict, "Email, Phone Number, or Username already exists")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return 0, apperr.Wrap(apperr.Upstream, "Internal Server Error", err)
	}

	level := in.UserLevel
	if level == 0 {
		level = 2
	}

	user := models.User{
		Nama:        in.Nama,
		Alamat:      in.Alamat,
		Email:       in.Email,
		Password:    hash,
		PhoneNumber: in.PhoneNumber,
		Username:    in.Username,
		UserLevel:   level,
	}
	if err := s.users.Create(&user); err != nil {
		return 0, apperr.Wrap(apperr.Upstream, "Internal Server Error", err)
	}

	logger.WithCtx(ctx).Info("user registered", "user_id", user.ID, "username", user.Username)
	return user.ID, nil
}

// Login verifies credentials and issues a token with a snapshot of the
// user's identity. Wrong email and wrong password are indistinguishable.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, models.User, error) {
	user, err := s.users.FindByEmail(email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", models.User{}, apperr.New(apperr.Unauthenticated, "Invalid email or password")
	}
	if err != nil {
		return "", models.User{}, apperr.Wrap(apperr.Upstream, "Internal Server Error", err)
	}

	if !auth.CheckPassword(user.Password, password) {
		return "", models.User{}, apperr.New(apperr.Unauthenticated, "Invalid email or password")
	}

	token, err := auth.GenerateToken(user.ID, user.Username, user.Email, user.UserLevel)
	if err != nil {
		return "", models.User{}, apperr.Wrap(apperr.Upstream, "Internal Server Error", err)
	}

	logger.WithCtx(ctx).Info("user logged in", "user_id", user.ID)
	return token, user, nil
}

// UpdateProfile changes the address and/or the profile image. A new image
// is uploaded before the row is saved; the previous asset is removed only
// after the save commits, and its failure is a cleanup event, not a
// request failure.
func (s *AuthService) UpdateProfile(ctx context.Context, id uint, alamat *string, image *upload.File) (models.User, error) {
	user, err := s.users.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, apperr.New(apperr.NotFound, "User not found")
	}
	if err != nil {
		return models.User{}, apperr.Wrap(apperr.Upstream, "Internal Server Error", err)
	}

	if alamat != nil {
		user.Alamat = *alamat
	}

	oldLocator := ""
	newPath := ""
	if image != nil {
		newPath = assetPath("profile", image.Ext())

		putCtx, cancel := storage.WithTimeout(ctx, config.StorageTimeout())
		defer cancel()
		if err := s.disk.Put(putCtx, newPath, image.Data, image.ContentType); err != nil {
			return models.User{}, apperr.Wrap(apperr.Upstream, "Internal Server Error", err)
		}

		oldLocator = user.ImageProfile
		user.ImageProfile = s.disk.URL(newPath)
	}

	if err := s.users.Update(&user); err != nil {
		// The freshly uploaded asset has no committed row; remove it.
		if newPath != "" {
			s.cleanupAsset(ctx, newPath)
		}
		return models.User{}, apperr.Wrap(apperr.Upstream, "Internal Server Error", err)
	}

	if oldLocator != "" {
		if path, ok := s.disk.Path(oldLocator); ok {
			s.cleanupAsset(ctx, path)
		}
	}

	return user, nil
}

func (s *AuthService) cleanupAsset(ctx context.Context, path string) {
	delCtx, cancel := storage.WithTimeout(context.WithoutCancel(ctx), config.StorageTimeout())
	defer cancel()
	if err := s.disk.Delete(delCtx, path); err != nil {
		cleanupErr := apperr.Wrap(apperr.AssetCleanup, "profile image cleanup failed", err)
		logger.WithCtx(ctx).Error("asset cleanup failed", "path", path, "error", cleanupErr)
	}
}

// assetPath builds a collision-resistant object path under prefix.
func assetPath(prefix, ext string) string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	return fmt.Sprintf("%s/%d-%s%s", prefix, time.Now().UnixNano(), hex.EncodeToString(b), ext)
}
