package repository

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrOTPNotFound indicates the code expired, was consumed, or never existed.
var ErrOTPNotFound = errors.New("otp not found")

// OTPRepository stores one-time verification codes keyed by email. Codes are
// single-use and expire with the configured TTL.
type OTPRepository interface {
	Issue(ctx context.Context, email string, ttl time.Duration) (string, error)
	Consume(ctx context.Context, email, code string) error
}

type otpRepository struct {
	client *redis.Client
}

// NewOTPRepository returns a redis-backed implementation.
func NewOTPRepository(client *redis.Client) OTPRepository {
	return &otpRepository{client: client}
}

func otpKey(email string) string {
	return "otp:" + email
}

// Issue generates and stores a fresh 6-digit code, replacing any previous
// code for the same email.
func (r *otpRepository) Issue(ctx context.Context, email string, ttl time.Duration) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	code := fmt.Sprintf("%06d", n.Int64())

	if err := r.client.Set(ctx, otpKey(email), code, ttl).Err(); err != nil {
		return "", err
	}
	return code, nil
}

// Consume validates the code and deletes it so it cannot be reused. A wrong
// guess leaves the stored code intact until its TTL runs out.
func (r *otpRepository) Consume(ctx context.Context, email, code string) error {
	key := otpKey(email)
	stored, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return ErrOTPNotFound
	}
	if err != nil {
		return err
	}
	if stored != code {
		return ErrOTPNotFound
	}
	return r.client.Del(ctx, key).Err()
}
