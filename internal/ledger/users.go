package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianLagraba/fin-pro/internal/logger"
	"github.com/julianLagraba/fin-pro/internal/models"
	"github.com/julianLagraba/fin-pro/internal/util"

	"gorm.io/gorm"
)

const (
	maxFailedLogins = 5
	lockoutDuration = 10 * time.Minute
)

var (
	// ErrAuth covers bad credentials, inactive and locked users.
	ErrAuth          = errors.New("authentication failed")
	ErrAccountLocked = fmt.Errorf("account locked, try again later: %w", ErrAuth)
)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser registers a user. Emails are unique ignoring case.
func (s *Service) CreateUser(ctx context.Context, email, password string) (*models.User, error) {
	email = normalizeEmail(email)
	if err := util.ValidateEmail(email); err != nil {
		return nil, invalid("%v", err)
	}

	db := s.db.WithContext(ctx)
	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("email %s already registered: %w", email, ErrConflict)
	}

	hash, err := util.HashPassword(password, s.cfg.BcryptCost)
	if err != nil {
		return nil, invalid("%v", err)
	}

	user := models.User{Email: email, PasswordHash: hash, IsActive: true}
	if err := db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("email %s already registered: %w", email, ErrConflict)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

func (s *Service) UserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("user", id)
	}
	if err != nil {
		return nil, fmt.Errorf("load user %d: %w", id, err)
	}
	return &user, nil
}

func (s *Service) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %s: %w", normalizeEmail(email), ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	return &user, nil
}

// Authenticate checks the password and keeps the lockout counters:
// five failures in a row lock the user for ten minutes.
func (s *Service) Authenticate(ctx context.Context, email, password, ip string) (*models.User, error) {
	user, err := s.UserByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrAuth
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrAuth
	}

	now := s.now()
	if user.LockedUntil != nil && now.Before(*user.LockedUntil) {
		return nil, ErrAccountLocked
	}

	db := s.db.WithContext(ctx)
	if !util.CheckPassword(password, user.PasswordHash) {
		user.FailedLoginAttempts++
		if user.FailedLoginAttempts >= maxFailedLogins {
			lockUntil := now.Add(lockoutDuration)
			user.LockedUntil = &lockUntil
			user.FailedLoginAttempts = 0
			s.ctxLogger(ctx).Warn().
				Uint(logger.FieldUserID, user.ID).
				Str("ip", ip).
				Msg("user locked after repeated login failures")
		}
		if err := db.Model(user).Select("failed_login_attempts", "locked_until").Updates(user).Error; err != nil {
			return nil, fmt.Errorf("record failed login: %w", err)
		}
		return nil, ErrAuth
	}

	user.FailedLoginAttempts = 0
	user.LockedUntil = nil
	user.LastLoginAt = &now
	user.LastLoginIP = ip
	if err := db.Model(user).
		Select("failed_login_attempts", "locked_until", "last_login_at", "last_login_ip").
		Updates(user).Error; err != nil {
		return nil, fmt.Errorf("record login: %w", err)
	}
	return user, nil
}

// ChangePassword replaces the password after checking the current one.
func (s *Service) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	user, err := s.UserByID(ctx, userID)
	if err != nil {
		return err
	}
	if !util.CheckPassword(oldPassword, user.PasswordHash) {
		return ErrAuth
	}

	hash, err := util.HashPassword(newPassword, s.cfg.BcryptCost)
	if err != nil {
		return invalid("%v", err)
	}
	if err := s.db.WithContext(ctx).Model(user).Update("password_hash", hash).Error; err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}
