package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"ame_support_backend/internal/models"
	authutil "ame_support_backend/internal/utils/auth"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

const minPasswordLength = 8

type UserPatch struct {
	IsActive *bool            `json:"isActive"`
	Role     *models.UserRole `json:"role"`
}

type UserService struct {
	db     *gorm.DB
	tokens *authutil.TokenManager
	now    func() time.Time
}

func NewUserService(db *gorm.DB, tokens *authutil.TokenManager) *UserService {
	return &UserService{db: db, tokens: tokens, now: time.Now}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Authenticate checks credentials and returns the user with a signed token.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, string, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}
	if !user.IsActive {
		return nil, "", ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	now := s.now()
	if err := s.db.WithContext(ctx).Model(&user).Update("last_login", now).Error; err != nil {
		return nil, "", err
	}
	user.LastLogin = &now

	token, err := s.tokens.Issue(user.ID.String(), user.Email, string(user.Role))
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

// GetActiveUser loads the user behind a verified token.
func (s *UserService) GetActiveUser(ctx context.Context, id string) (*models.User, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	var user models.User
	err = s.db.WithContext(ctx).Where("id = ? AND is_active = ?", userID, true).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// VerifyToken resolves a bearer token to an active user.
func (s *UserService) VerifyToken(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	return s.GetActiveUser(ctx, claims.Subject)
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	err := s.db.WithContext(ctx).Order("created_at desc").Find(&users).Error
	return users, err
}

func (s *UserService) Create(ctx context.Context, email, password string, role models.UserRole) (*models.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, validationErrorf("email and password are required")
	}
	if len(password) < minPasswordLength {
		return nil, validationErrorf("password must be at least %d characters", minPasswordLength)
	}
	if role == "" {
		role = models.UserRoleViewer
	}
	if !role.Valid() {
		return nil, validationErrorf("invalid role %q", role)
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := models.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) Update(ctx context.Context, id string, patch UserPatch) (*models.User, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Role != nil {
		if !patch.Role.Valid() {
			return nil, validationErrorf("invalid role %q", *patch.Role)
		}
		user.Role = *patch.Role
	}
	if patch.IsActive != nil {
		user.IsActive = *patch.IsActive
	}
	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	user, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(user).Error
}

// EnsureAdmin creates an admin account for email unless one already exists.
// The bool reports whether a user was created.
func (s *UserService) EnsureAdmin(ctx context.Context, email, password string) (*models.User, bool, error) {
	var existing models.User
	err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}
	user, err := s.Create(ctx, email, password, models.UserRoleAdmin)
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}

func (s *UserService) find(ctx context.Context, id string) (*models.User, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	var user models.User
	err = s.db.WithContext(ctx).First(&user, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
