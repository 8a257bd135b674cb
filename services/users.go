package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Kariqs/agronexus-api/models"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Users struct {
	db    *gorm.DB
	creds *Credentials

	// legacyBackfill lets a user whose row has no digest log in once and
	// have the digest written. Off unless LEGACY_DIGEST_BACKFILL is set.
	legacyBackfill bool
}

func NewUsers(db *gorm.DB, creds *Credentials, legacyBackfill bool) *Users {
	return &Users{db: db, creds: creds, legacyBackfill: legacyBackfill}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Users) exists(ctx context.Context, column, value string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.User{}).Where(column+" = ?", value).Count(&count).Error
	return count > 0, err
}

// Register creates an account. The uniqueness checks run before the insert
// without a transaction; the unique indexes catch anything that slips through.
func (s *Users) Register(ctx context.Context, data models.RegisterData) (models.User, error) {
	email := normalizeEmail(data.Email)
	username := strings.TrimSpace(data.Username)

	taken, err := s.exists(ctx, "email", email)
	if err != nil {
		return models.User{}, fmt.Errorf("registration error: %w", err)
	}
	if taken {
		return models.User{}, ErrEmailTaken
	}
	taken, err = s.exists(ctx, "username", username)
	if err != nil {
		return models.User{}, fmt.Errorf("registration error: %w", err)
	}
	if taken {
		return models.User{}, ErrUsernameTaken
	}

	role := data.UserType
	if role == "" {
		role = models.RoleBuyer
	}

	user := models.User{
		Username:        username,
		Email:           email,
		PasswordHash:    s.creds.Hash(data.Password),
		UserType:        role,
		FirstName:       data.FirstName,
		LastName:        data.LastName,
		Phone:           data.Phone,
		Address:         data.Address,
		ProfileImageURL: data.ProfileImageURL,
	}
	if role == models.RoleFarmer {
		user.FarmName = data.FarmName
		user.Location = data.Location
	}

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.User{}, newError(KindConflict, "user already exists")
		}
		return models.User{}, fmt.Errorf("registration error: %w", err)
	}
	user.FullName = user.DisplayName()
	return user, nil
}

func (s *Users) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, fmt.Errorf("login error: %w", err)
	}

	if user.PasswordHash == "" && s.legacyBackfill {
		digest := s.creds.Hash(password)
		if err := s.db.WithContext(ctx).Model(&user).Update("password_hash", digest).Error; err != nil {
			return models.User{}, fmt.Errorf("login error: %w", err)
		}
		log.WithField("user_id", user.ID).Warn("Backfilled missing password digest on login")
		user.PasswordHash = digest
	}

	if !s.creds.Verify(password, user.PasswordHash) {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (s *Users) Get(ctx context.Context, id string) (models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, newError(KindNotFound, "user not found")
	}
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

// Update applies a partial profile update. Only the user themself or an admin
// may change a record.
func (s *Users) Update(ctx context.Context, actor models.User, id string, patch models.UserPatch) (models.User, error) {
	if actor.ID != id && !actor.IsAdmin() {
		return models.User{}, newError(KindForbidden, "not authorized")
	}

	updates := patch.Updates()
	if username, ok := updates["username"].(string); ok {
		username = strings.TrimSpace(username)
		updates["username"] = username
		var count int64
		err := s.db.WithContext(ctx).Model(&models.User{}).
			Where("username = ? AND id <> ?", username, id).
			Count(&count).Error
		if err != nil {
			return models.User{}, err
		}
		if count > 0 {
			return models.User{}, ErrUsernameTaken
		}
	}

	if len(updates) > 0 {
		result := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
				return models.User{}, ErrUsernameTaken
			}
			return models.User{}, result.Error
		}
		if result.RowsAffected == 0 {
			return models.User{}, newError(KindNotFound, "user not found")
		}
	}

	return s.Get(ctx, id)
}

func (s *Users) List(ctx context.Context, page Page) ([]models.User, Pagination, error) {
	users := []models.User{}
	db := s.db.WithContext(ctx)
	if err := db.Order("created_at desc").Limit(page.Limit).Offset(page.Offset()).Find(&users).Error; err != nil {
		return nil, Pagination{}, err
	}

	var total int64
	if err := db.Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, Pagination{}, err
	}
	return users, page.Paginate(total), nil
}

// EnsureAdmin creates a default admin account when none exists yet. It
// reports whether an account was created.
func (s *Users) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	if email == "" || password == "" {
		return false, nil
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("user_type = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	email = normalizeEmail(email)
	admin := models.User{
		Username:     strings.SplitN(email, "@", 2)[0],
		Email:        email,
		PasswordHash: s.creds.Hash(password),
		UserType:     models.RoleAdmin,
	}
	if err := s.db.WithContext(ctx).Create(&admin).Error; err != nil {
		return false, fmt.Errorf("failed to create default admin: %w", err)
	}
	return true, nil
}
