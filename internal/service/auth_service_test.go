package service_test

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/skillmatch/skillmatch/internal/config"
	"github.com/skillmatch/skillmatch/internal/service"
	apperrors "github.com/skillmatch/skillmatch/pkg/util"
)

func newAuthFixture(t *testing.T) (*service.AuthService, *fakeUserRepo, *fakeOTPRepo, *fakeMailer) {
	t.Helper()
	users := newFakeUserRepo()
	otps := newFakeOTPRepo()
	mailer := newFakeMailer()
	cfg := config.Config{}
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.AccessTokenTTLMinutes = 60
	cfg.Auth.OTPTTLMinutes = 10
	cfg.Auth.BcryptCost = 4
	svc := service.NewAuthService(cfg, service.AuthDependencies{
		UserRepo: users,
		OTPRepo:  otps,
		Mailer:   mailer,
		Logger:   zap.NewNop(),
	})
	return svc, users, otps, mailer
}

func assertDomainCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	domainErr, ok := err.(*apperrors.DomainError)
	if !ok {
		t.Fatalf("expected DomainError, got %T: %v", err, err)
	}
	if domainErr.Code != code {
		t.Fatalf("expected code %s, got %s", code, domainErr.Code)
	}
}

func TestRegisterCreatesUnverifiedAccountAndSendsCode(t *testing.T) {
	svc, _, otps, mailer := newAuthFixture(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Alice", "Alice@Example.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Verified {
		t.Error("new account must start unverified")
	}
	if user.Email != "alice@example.com" {
		t.Errorf("email must be lowercased, got %s", user.Email)
	}
	if otps.lastCode("alice@example.com") == "" {
		t.Error("no verification code issued")
	}
	if got := mailer.recipients(); !contains(got, "alice@example.com") {
		t.Errorf("verification mail not sent, deliveries: %v", got)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Alice", "alice@example.com", "pass-one"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.Register(ctx, "Imposter", "alice@example.com", "pass-two")
	assertDomainCode(t, err, "CONFLICT")
}

func TestVerifyOTPMarksVerifiedAndIssuesToken(t *testing.T) {
	svc, users, otps, _ := newAuthFixture(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Alice", "alice@example.com", "s3cret-pass"); err != nil {
		t.Fatalf("register: %v", err)
	}
	code := otps.lastCode("alice@example.com")

	user, token, _, err := svc.VerifyOTP(ctx, "alice@example.com", code)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !user.Verified {
		t.Error("account not marked verified")
	}
	if token == "" {
		t.Error("no token issued")
	}

	stored, err := users.GetByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if !stored.Verified {
		t.Error("verified flag not persisted")
	}
}

func TestVerifyOTPCodeIsSingleUse(t *testing.T) {
	svc, _, otps, _ := newAuthFixture(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Alice", "alice@example.com", "s3cret-pass"); err != nil {
		t.Fatalf("register: %v", err)
	}
	code := otps.lastCode("alice@example.com")

	if _, _, _, err := svc.VerifyOTP(ctx, "alice@example.com", code); err != nil {
		t.Fatalf("first verify: %v", err)
	}
	_, _, _, err := svc.VerifyOTP(ctx, "alice@example.com", code)
	assertDomainCode(t, err, "UNAUTHORIZED")
}

func TestVerifyOTPRejectsWrongCode(t *testing.T) {
	svc, _, otps, _ := newAuthFixture(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Alice", "alice@example.com", "s3cret-pass"); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, _, _, err := svc.VerifyOTP(ctx, "alice@example.com", "000000")
	assertDomainCode(t, err, "UNAUTHORIZED")

	// a wrong guess must not burn the real code
	code := otps.lastCode("alice@example.com")
	if code == "" {
		t.Fatal("real code was consumed by the wrong guess")
	}
	if _, _, _, err := svc.VerifyOTP(ctx, "alice@example.com", code); err != nil {
		t.Fatalf("verify with real code after wrong guess: %v", err)
	}
}

func TestResendOTPReplacesCode(t *testing.T) {
	svc, _, otps, _ := newAuthFixture(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Alice", "alice@example.com", "s3cret-pass"); err != nil {
		t.Fatalf("register: %v", err)
	}
	first := otps.lastCode("alice@example.com")

	if err := svc.ResendOTP(ctx, "alice@example.com"); err != nil {
		t.Fatalf("resend: %v", err)
	}
	second := otps.lastCode("alice@example.com")
	if second == "" {
		t.Fatal("no replacement code issued")
	}

	if first != second {
		_, _, _, err := svc.VerifyOTP(ctx, "alice@example.com", first)
		assertDomainCode(t, err, "UNAUTHORIZED")
	}
	if _, _, _, err := svc.VerifyOTP(ctx, "alice@example.com", second); err != nil {
		t.Fatalf("verify with replacement code: %v", err)
	}
}

func TestResendOTPRejectsVerifiedAccount(t *testing.T) {
	svc, _, otps, _ := newAuthFixture(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Alice", "alice@example.com", "s3cret-pass"); err != nil {
		t.Fatalf("register: %v", err)
	}
	code := otps.lastCode("alice@example.com")
	if _, _, _, err := svc.VerifyOTP(ctx, "alice@example.com", code); err != nil {
		t.Fatalf("verify: %v", err)
	}

	err := svc.ResendOTP(ctx, "alice@example.com")
	assertDomainCode(t, err, "CONFLICT")
}

func TestLoginRequiresVerifiedAccount(t *testing.T) {
	svc, _, otps, _ := newAuthFixture(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Alice", "alice@example.com", "s3cret-pass"); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, _, _, err := svc.Login(ctx, "alice@example.com", "s3cret-pass")
	assertDomainCode(t, err, "FORBIDDEN")

	code := otps.lastCode("alice@example.com")
	if _, _, _, err := svc.VerifyOTP(ctx, "alice@example.com", code); err != nil {
		t.Fatalf("verify: %v", err)
	}

	user, token, _, err := svc.Login(ctx, "alice@example.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("login after verification: %v", err)
	}
	if user.Email != "alice@example.com" || token == "" {
		t.Errorf("unexpected login result: user=%v token empty=%v", user.Email, token == "")
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	svc, _, otps, _ := newAuthFixture(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Alice", "alice@example.com", "s3cret-pass"); err != nil {
		t.Fatalf("register: %v", err)
	}
	code := otps.lastCode("alice@example.com")
	if _, _, _, err := svc.VerifyOTP(ctx, "alice@example.com", code); err != nil {
		t.Fatalf("verify: %v", err)
	}

	_, _, _, err := svc.Login(ctx, "alice@example.com", "wrong-pass")
	assertDomainCode(t, err, "UNAUTHORIZED")

	_, _, _, err = svc.Login(ctx, "nobody@example.com", "whatever")
	assertDomainCode(t, err, "UNAUTHORIZED")
}
