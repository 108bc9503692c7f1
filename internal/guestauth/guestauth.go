// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package guestauth issues and checks the one-time codes guests use to
// prove they own a phone number before their RSVP is recorded.
//
// Each challenge gets a fresh random TOTP secret stored in Valkey under
// otp:{weddingID}:{phone}. The code is the TOTP value of that secret, so
// the code itself is never stored.
package guestauth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"github.com/redis/go-redis/v9"
)

const (
	// CodeTTL is how long a challenge stays valid.
	CodeTTL = 10 * time.Minute
	// MaxAttempts bounds verification tries per challenge.
	MaxAttempts = 5

	period = 300
	issuer = "Braun Studio"
)

var (
	// ErrNoChallenge means no code was issued for the phone or it expired.
	ErrNoChallenge = errors.New("no verification code pending")
	// ErrInvalidCode means the code did not match.
	ErrInvalidCode = errors.New("invalid verification code")
	// ErrTooManyAttempts means the challenge was burned by failed tries.
	ErrTooManyAttempts = errors.New("too many verification attempts")
)

var validateOpts = totp.ValidateOpts{
	Period:    period,
	Skew:      1,
	Digits:    otp.DigitsSix,
	Algorithm: otp.AlgorithmSHA1,
}

// countAttempt loads a challenge's secret and counts one try against it in
// a single step, so a challenge that expires mid-verify is never recreated
// without its TTL. It replies nil when no challenge is pending.
var countAttempt = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
	return false
end
local attempts = redis.call("HINCRBY", KEYS[1], "attempts", 1)
return {redis.call("HGET", KEYS[1], "secret"), attempts}
`)

// Verifier issues and verifies guest codes.
type Verifier struct {
	client *redis.Client
	now    func() time.Time
}

// New creates a Verifier backed by Valkey.
func New(client *redis.Client) *Verifier {
	return &Verifier{client: client, now: time.Now}
}

// Key returns the Valkey key of a challenge.
func Key(weddingID uuid.UUID, phone string) string {
	return fmt.Sprintf("otp:%s:%s", weddingID, phone)
}

// Issue starts a new challenge for phone, replacing any pending one, and
// returns the code to deliver.
func (v *Verifier) Issue(ctx context.Context, weddingID uuid.UUID, phone string) (string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: phone,
		Period:      period,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return "", fmt.Errorf("generate secret: %w", err)
	}
	code, err := totp.GenerateCodeCustom(key.Secret(), v.now(), validateOpts)
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}

	k := Key(weddingID, phone)
	_, err = v.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, k)
		pipe.HSet(ctx, k, "secret", key.Secret(), "attempts", 0)
		pipe.Expire(ctx, k, CodeTTL)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("store challenge: %w", err)
	}
	return code, nil
}

// Verify checks code against the pending challenge. A match consumes the
// challenge; the fifth failed try burns it.
func (v *Verifier) Verify(ctx context.Context, weddingID uuid.UUID, phone, code string) error {
	k := Key(weddingID, phone)
	res, err := countAttempt.Run(ctx, v.client, []string{k}).Slice()
	if errors.Is(err, redis.Nil) {
		return ErrNoChallenge
	}
	if err != nil {
		return fmt.Errorf("count attempt: %w", err)
	}
	if len(res) != 2 {
		return ErrNoChallenge
	}
	secret, _ := res[0].(string)
	attempts, _ := res[1].(int64)
	if attempts > MaxAttempts {
		v.client.Del(ctx, k)
		return ErrTooManyAttempts
	}

	ok, err := totp.ValidateCustom(code, secret, v.now(), validateOpts)
	if err != nil || !ok {
		if attempts == MaxAttempts {
			v.client.Del(ctx, k)
		}
		return ErrInvalidCode
	}

	if err := v.client.Del(ctx, k).Err(); err != nil {
		return fmt.Errorf("consume challenge: %w", err)
	}
	return nil
}
