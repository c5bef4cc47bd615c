package service

import (
	"context"
	"regexp"
	"time"

	"mobilestore/internal/apperr"
	"mobilestore/internal/auth"
	"mobilestore/internal/models"
	"mobilestore/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var emailPattern = regexp.MustCompile(`^[\w.+-]+@[\w-]+\.[\w.-]+$`)

// Session sentinel outcomes surfaced by the controllers.
var (
	ErrMissingRefreshToken = apperr.Validation("The refresh token is required")
	ErrSelfDelete          = apperr.Conflict("You cannot delete yourself")
)

// UserStore is the account storage surface.
type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByPhone(ctx context.Context, phone string) (*models.User, error)
	GetUserByEmailOrPhone(ctx context.Context, value string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, u *models.User) (*models.User, error)
	DeleteUser(ctx context.Context, id string) (bool, error)
}

// SessionStore tracks the single live refresh token per user.
type SessionStore interface {
	SetRefreshToken(ctx context.Context, userID, token string, ttl time.Duration) error
	CheckRefreshToken(ctx context.Context, userID, token string) (bool, error)
	DeleteRefreshToken(ctx context.Context, userID string) error
}

// UserService handles registration, login and account management.
type UserService struct {
	users    UserStore
	sessions SessionStore
	tokens   *auth.TokenManager
	logger   *zap.Logger

	// bcryptCost is tunable so tests do not pay the default cost.
	bcryptCost int
}

func NewUserService(users UserStore, sessions SessionStore, tokens *auth.TokenManager) *UserService {
	return &UserService{
		users:      users,
		sessions:   sessions,
		tokens:     tokens,
		logger:     util.GetLogger(),
		bcryptCost: bcrypt.DefaultCost,
	}
}

// RegisterRequest is the sign-up payload.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

// Register creates an account. Email and phone are unique; the password must
// be at least 3 characters.
func (s *UserService) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	if req.Name == "" || req.Email == "" || req.Password == "" || req.Phone == "" {
		return nil, apperr.Validation("The input is required")
	}
	if !emailPattern.MatchString(req.Email) {
		return nil, apperr.Validation("The input is email")
	}
	if len(req.Password) < 3 {
		return nil, apperr.WithCode(apperr.CodeShortPassword, "Password must be at least 3 characters long")
	}

	if existing, err := s.users.GetUserByEmail(ctx, req.Email); err != nil {
		return nil, apperr.Internal("Something went wrong in Register", err)
	} else if existing != nil {
		return nil, apperr.Conflict("The email is already")
	}
	if existing, err := s.users.GetUserByPhone(ctx, req.Phone); err != nil {
		return nil, apperr.Internal("Something went wrong in Register", err)
	} else if existing != nil {
		return nil, apperr.Conflict("The phone is already")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, apperr.Internal("Something went wrong in Register", err)
	}

	user := &models.User{
		ID:       uuid.New().String(),
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hash),
		Phone:    req.Phone,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, apperr.Internal("Something went wrong in Register", err)
	}
	s.logger.Info("User registered", zap.String("user_id", user.ID))
	return user, nil
}

// LoginResult carries the tokens issued for a session. The refresh token
// goes out as an httpOnly cookie, not in the response body.
type LoginResult struct {
	User         *models.User
	AccessToken  string
	RefreshToken string
}

// Login authenticates by email or phone and issues a token pair, replacing
// any previous session for the user.
func (s *UserService) Login(ctx context.Context, identifier, password string) (*LoginResult, error) {
	if identifier == "" || password == "" {
		util.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, apperr.Validation("The input is required")
	}

	user, err := s.users.GetUserByEmailOrPhone(ctx, identifier)
	if err != nil {
		return nil, apperr.Internal("Something went wrong in Login", err)
	}
	if user == nil {
		util.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, apperr.Validation("The user is not defined")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		util.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, apperr.Conflict("The password or user is incorrect")
	}

	access, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, apperr.Internal("Something went wrong in Login", err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(user)
	if err != nil {
		return nil, apperr.Internal("Something went wrong in Login", err)
	}

	if s.sessions != nil {
		if err := s.sessions.SetRefreshToken(ctx, user.ID, refresh, s.tokens.RefreshTTL()); err != nil {
			s.logger.Warn("Failed to record session", zap.String("user_id", user.ID), zap.Error(err))
		}
	}

	util.LoginsTotal.WithLabelValues("success").Inc()
	return &LoginResult{User: user, AccessToken: access, RefreshToken: refresh}, nil
}

// Logout drops the user's session from the allowlist.
func (s *UserService) Logout(ctx context.Context, userID string) error {
	if s.sessions == nil || userID == "" {
		return nil
	}
	if err := s.sessions.DeleteRefreshToken(ctx, userID); err != nil {
		return apperr.Internal("Something went wrong in Logout", err)
	}
	return nil
}

// RefreshToken validates a refresh token against the session allowlist and
// issues a fresh access token.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", apperr.Validation("The token is required")
	}

	claims, err := s.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		return "", apperr.NotFound("The authentication failed")
	}

	if s.sessions != nil {
		ok, err := s.sessions.CheckRefreshToken(ctx, claims.UserID, refreshToken)
		if err != nil {
			return "", apperr.Internal("Something went wrong in RefreshToken", err)
		}
		if !ok {
			return "", apperr.NotFound("The authentication failed")
		}
	}

	user, err := s.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return "", apperr.Internal("Something went wrong in RefreshToken", err)
	}
	if user == nil {
		return "", apperr.NotFound("The authentication failed")
	}

	access, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return "", apperr.Internal("Something went wrong in RefreshToken", err)
	}
	return access, nil
}

// GetAllUsers lists every account.
func (s *UserService) GetAllUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, apperr.Internal("Something went wrong in GetAllUsers", err)
	}
	return users, nil
}

// GetDetailUser fetches one account.
func (s *UserService) GetDetailUser(ctx context.Context, id string) (*models.User, error) {
	if id == "" || !isValidID(id) {
		return nil, apperr.Validation("Invalid ID format!")
	}
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal("Something went wrong in GetDetailUser", err)
	}
	if user == nil {
		return nil, apperr.NotFound("The user is not defined")
	}
	return user, nil
}

// UpdateUserRequest carries the mutable profile fields.
type UpdateUserRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	Avatar  string `json:"avatar"`
}

// UpdateUser applies profile changes to one account.
func (s *UserService) UpdateUser(ctx context.Context, id string, req *UpdateUserRequest) (*models.User, error) {
	if id == "" || !isValidID(id) {
		return nil, apperr.Validation("Invalid ID format!")
	}

	current, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal("Something went wrong in UpdateUser", err)
	}
	if current == nil {
		return nil, apperr.NotFound("The user is not defined")
	}

	if req.Name != "" {
		current.Name = req.Name
	}
	if req.Phone != "" {
		current.Phone = req.Phone
	}
	if req.Address != "" {
		current.Address = req.Address
	}
	if req.City != "" {
		current.City = req.City
	}
	if req.Avatar != "" {
		current.Avatar = req.Avatar
	}

	updated, err := s.users.UpdateUser(ctx, current)
	if err != nil {
		return nil, apperr.Internal("Something went wrong in UpdateUser", err)
	}
	if updated == nil {
		return nil, apperr.NotFound("The user is not defined")
	}
	return updated, nil
}

// DeleteUser removes an account and its session.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	if id == "" || !isValidID(id) {
		return apperr.Validation("Invalid ID format!")
	}
	ok, err := s.users.DeleteUser(ctx, id)
	if err != nil {
		return apperr.Internal("Something went wrong in DeleteUser", err)
	}
	if !ok {
		return apperr.NotFound("The user is not defined")
	}
	if s.sessions != nil {
		if err := s.sessions.DeleteRefreshToken(ctx, id); err != nil {
			s.logger.Warn("Failed to drop session for deleted user",
				zap.String("user_id", id), zap.Error(err))
		}
	}
	return nil
}
