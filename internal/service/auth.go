package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"slices"
	"strings"
	"time"

	"github.com/Skotchmaster/retailer_portal/internal/events"
	"github.com/Skotchmaster/retailer_portal/internal/models"
	"github.com/Skotchmaster/retailer_portal/internal/repo"
	"github.com/Skotchmaster/retailer_portal/pkg/hash"
	jwthelp "github.com/Skotchmaster/retailer_portal/pkg/jwt"
	"github.com/Skotchmaster/retailer_portal/pkg/logging"
	"github.com/Skotchmaster/retailer_portal/pkg/tokens"
)

const (
	AccessTTL  = 15 * time.Minute
	RefreshTTL = 7 * 24 * time.Hour
)

type AuthService struct {
	Repo          *repo.GormRepo
	AccessSecret  []byte
	RefreshSecret []byte
	AdminEmails   []string
	Events        events.Publisher
	Now           func() time.Time
}

type SignupInput struct {
	ShopName  string
	OwnerName string
	Location  string
	Phone     string
	Email     string
	Password  string
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
	User         *models.User
}

func (s *AuthService) roleFor(u *models.User) string {
	if slices.Contains(s.AdminEmails, strings.ToLower(u.Email)) {
		return models.RoleAdmin
	}
	if u.Role == "" {
		return models.RoleRetailer
	}
	return u.Role
}

func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.signup")

	email := strings.ToLower(strings.TrimSpace(in.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("invalid email: %w", ErrValidation)
	}
	if in.Password == "" || strings.TrimSpace(in.ShopName) == "" || strings.TrimSpace(in.OwnerName) == "" {
		return nil, fmt.Errorf("shop name, owner name and password are required: %w", ErrValidation)
	}

	pwHash, err := hash.HashPassword(in.Password)
	if err != nil {
		l.Error("signup_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := &models.User{
		ShopName:     strings.TrimSpace(in.ShopName),
		OwnerName:    strings.TrimSpace(in.OwnerName),
		Location:     strings.TrimSpace(in.Location),
		Phone:        strings.TrimSpace(in.Phone),
		Email:        email,
		PasswordHash: pwHash,
		Role:         models.RoleRetailer,
	}
	user.Role = s.roleFor(user)

	if err := s.Repo.CreateUserIfNotExists(ctx, user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExists) {
			l.Warn("signup_error", "status", 409, "reason", "email already registered")
			return nil, fmt.Errorf("email already registered: %w", ErrConflict)
		}
		l.Error("signup_error", "status", 500, "error", err)
		return nil, err
	}

	publish(ctx, s.Events, user.Email, map[string]any{
		"type":      events.TypeUserRegistered,
		"email":     user.Email,
		"shop_name": user.ShopName,
	})
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	if strings.TrimSpace(email) == "" || password == "" {
		return nil, fmt.Errorf("email and password are required: %w", ErrValidation)
	}

	user, err := s.Repo.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("login_failed", "status", 401, "reason", "unknown email")
			return nil, fmt.Errorf("invalid email or password: %w", ErrUnauthorized)
		}
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "status", 401, "reason", "wrong password")
		return nil, fmt.Errorf("invalid email or password: %w", ErrUnauthorized)
	}

	return s.issue(ctx, user, func(rt *models.RefreshToken) error {
		return s.Repo.AddRefreshToken(ctx, rt)
	})
}

// Refresh rotates the refresh token: the presented one is revoked and a new
// pair is issued.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.RefreshSecret)
	if err != nil {
		return nil, fmt.Errorf("refresh token: %w", ErrUnauthorized)
	}

	user, err := s.Repo.UserByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("unknown user: %w", ErrUnauthorized)
		}
		return nil, err
	}

	res, err := s.issue(ctx, user, func(rt *models.RefreshToken) error {
		return s.Repo.RotateRefreshToken(ctx, claims.ID, rt)
	})
	if err != nil {
		if errors.Is(err, repo.ErrTokenRevoked) || errors.Is(err, repo.ErrNotFound) {
			l.Warn("refresh_failed", "status", 401, "reason", "token expired or revoked")
			return nil, fmt.Errorf("refresh token: %w", ErrUnauthorized)
		}
		return nil, err
	}
	return res, nil
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.Repo.RevokeRefreshToken(ctx, jwthelp.Sha256Hex(refreshToken))
}

func (s *AuthService) issue(ctx context.Context, user *models.User, store func(*models.RefreshToken) error) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.issue")
	now := nowOr(s.Now)
	role := s.roleFor(user)

	accessExp := now.Add(AccessTTL)
	access, err := tokens.SignAccessToken(user.Email, role, accessExp, s.AccessSecret)
	if err != nil {
		l.Error("sign_access_failed", "error", err)
		return nil, err
	}

	refreshExp := now.Add(RefreshTTL)
	jti := jwthelp.NewJTI()
	refresh, err := tokens.SignRefreshToken(user.Email, jti, refreshExp, s.RefreshSecret)
	if err != nil {
		l.Error("sign_refresh_failed", "error", err)
		return nil, err
	}

	if err := store(&models.RefreshToken{
		Token:     jwthelp.Sha256Hex(refresh),
		Email:     user.Email,
		JTI:       jti,
		ExpiresAt: refreshExp.Unix(),
	}); err != nil {
		return nil, err
	}

	user.Role = role
	return &LoginResult{
		AccessToken:  access,
		RefreshToken: refresh,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
		User:         user,
	}, nil
}
