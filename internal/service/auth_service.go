package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/skillmatch/skillmatch/internal/auth"
	"github.com/skillmatch/skillmatch/internal/config"
	"github.com/skillmatch/skillmatch/internal/domain"
	"github.com/skillmatch/skillmatch/internal/notify"
	"github.com/skillmatch/skillmatch/internal/repository"
	apperrors "github.com/skillmatch/skillmatch/pkg/util"
)

// AuthService coordinates registration, OTP verification and login flows.
type AuthService struct {
	users      repository.UserRepository
	otps       repository.OTPRepository
	mailer     notify.Mailer
	logger     *zap.Logger
	tokenMgr   *auth.TokenManager
	bcryptCost int
	otpTTL     time.Duration
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	UserRepo repository.UserRepository
	OTPRepo  repository.OTPRepository
	Mailer   notify.Mailer
	Logger   *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		otps:       deps.OTPRepo,
		mailer:     deps.Mailer,
		logger:     deps.Logger,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
		otpTTL:     cfg.Auth.OTPTTL(),
	}
}

// Register creates an unverified account and sends a verification code to
// the given address. Mail failure is logged, not surfaced; the code can be
// re-requested.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	} else if err != pgx.ErrNoRows {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
		Verified:     false,
		Skills:       []string{},
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.sendOTP(ctx, user)
	return user, nil
}

// ResendOTP regenerates the verification code for an unverified account.
func (s *AuthService) ResendOTP(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("user", nil)
		}
		return err
	}
	if user.Verified {
		return apperrors.NewConflict("account already verified", nil)
	}
	s.sendOTP(ctx, user)
	return nil
}

// VerifyOTP consumes the code, marks the account verified and issues a token.
func (s *AuthService) VerifyOTP(ctx context.Context, email, code string) (*domain.User, string, time.Time, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, "", time.Time{}, apperrors.NewNotFound("user", nil)
		}
		return nil, "", time.Time{}, err
	}

	if err := s.otps.Consume(ctx, email, code); err != nil {
		if err == repository.ErrOTPNotFound {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid or expired code")
		}
		return nil, "", time.Time{}, err
	}

	if !user.Verified {
		if err := s.users.MarkVerified(ctx, user.ID); err != nil {
			return nil, "", time.Time{}, err
		}
		user.Verified = true
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// Login authenticates a verified user.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	if !user.Verified {
		return nil, "", time.Time{}, apperrors.NewForbidden("account not verified")
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) sendOTP(ctx context.Context, user *domain.User) {
	code, err := s.otps.Issue(ctx, user.Email, s.otpTTL)
	if err != nil {
		s.logger.Error("issue otp", zap.String("user_id", user.ID), zap.Error(err))
		return
	}

	subject := "Your Skillmatch verification code"
	body := fmt.Sprintf("Hi %s,\n\nYour verification code is %s. It expires in %d minutes.\n",
		user.Name, code, int(s.otpTTL.Minutes()))
	if err := s.mailer.Send(ctx, user.Email, subject, body); err != nil {
		s.logger.Error("send otp mail", zap.String("user_id", user.ID), zap.Error(err))
	}
}
