package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"gymapi/internal/auth"
	"gymapi/internal/logger"
	"gymapi/internal/model"
	"gymapi/internal/repository"
)

// LoginResult is returned on successful login.
type LoginResult struct {
	AccessToken string         `json:"access_token"`
	TokenType   string         `json:"token_type"`
	ExpiresAt   time.Time      `json:"expires_at"`
	Profile     *model.Profile `json:"profile,omitempty"`
}

// VerifyLoginResult reports whether a credential pair is accepted.
type VerifyLoginResult struct {
	Valid          bool   `json:"valid"`
	UserID         string `json:"user_id,omitempty"`
	EmailConfirmed bool   `json:"email_confirmed"`
	HasProfile     bool   `json:"has_profile"`
	Message        string `json:"message"`
}

// AuthService covers login and bearer token authentication.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	VerifyLogin(ctx context.Context, email, password string) (*VerifyLoginResult, error)

	// Authenticate resolves a bearer token to the caller. ErrUnauthorized for
	// bad tokens, ErrForbidden when the identity has no profile.
	Authenticate(ctx context.Context, token string) (auth.Principal, error)

	Me(ctx context.Context, actor auth.Principal) (*model.Profile, error)
}

type authService struct {
	users    repository.AuthUserRepository
	profiles repository.ProfileRepository
	tokens   *auth.TokenIssuer
	log      *logger.Logger
}

func NewAuthService(users repository.AuthUserRepository, profiles repository.ProfileRepository, tokens *auth.TokenIssuer, log *logger.Logger) AuthService {
	if log == nil {
		log = logger.Nop()
	}
	return &authService{users: users, profiles: profiles, tokens: tokens, log: log.Component("auth")}
}

func (s *authService) checkCredentials(ctx context.Context, email, password string) (*model.AuthUser, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, invalid("email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("find auth user: %w", err)
	}

	ok, err := auth.CheckPassword(user.PasswordHash, password)
	if err != nil {
		return nil, fmt.Errorf("check password: %w", err)
	}
	if !ok {
		return user, ErrUnauthorized
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.checkCredentials(ctx, email, password)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			s.log.Warn("login_failed", logger.Fields{"email": strings.ToLower(strings.TrimSpace(email))})
		}
		return nil, err
	}
	if user.EmailConfirmedAt == nil {
		s.log.Warn("login_unconfirmed_email", logger.Fields{"user_id": user.ID})
		return nil, fmt.Errorf("email not confirmed: %w", ErrUnauthorized)
	}

	var profile *model.Profile
	if p, err := s.profiles.FindByUserID(ctx, user.ID); err == nil {
		profile = p
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find profile: %w", err)
	}

	token, exp, err := s.tokens.Generate(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	s.log.Info("login_success", logger.Fields{"user_id": user.ID})
	return &LoginResult{AccessToken: token, TokenType: "Bearer", ExpiresAt: exp, Profile: profile}, nil
}

func (s *authService) VerifyLogin(ctx context.Context, email, password string) (*VerifyLoginResult, error) {
	user, err := s.checkCredentials(ctx, email, password)
	switch {
	case errors.Is(err, ErrUnauthorized):
		res := &VerifyLoginResult{Message: "invalid credentials"}
		if user != nil {
			res.UserID = user.ID
			res.EmailConfirmed = user.EmailConfirmedAt != nil
		}
		return res, nil
	case err != nil:
		return nil, err
	}

	res := &VerifyLoginResult{
		Valid:          user.EmailConfirmedAt != nil,
		UserID:         user.ID,
		EmailConfirmed: user.EmailConfirmedAt != nil,
		Message:        "credentials are valid",
	}
	if !res.EmailConfirmed {
		res.Message = "email not confirmed"
	}

	if _, err := s.profiles.FindByUserID(ctx, user.ID); err == nil {
		res.HasProfile = true
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return res, nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (auth.Principal, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return auth.Principal{}, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	p, err := s.profiles.FindByUserID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return auth.Principal{UserID: claims.Subject}, fmt.Errorf("no profile for user: %w", ErrForbidden)
		}
		return auth.Principal{}, fmt.Errorf("find profile: %w", err)
	}
	return auth.FromProfile(p), nil
}

func (s *authService) Me(ctx context.Context, actor auth.Principal) (*model.Profile, error) {
	p, err := s.profiles.FindByID(ctx, actor.ProfileID)
	if err != nil {
		return nil, notFound("profile", err)
	}
	return p, nil
}
