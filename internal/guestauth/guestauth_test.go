package guestauth

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func newVerifier(t *testing.T) (*Verifier, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	v := New(client)
	fixed := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	v.now = func() time.Time { return fixed }
	return v, mr
}

// wrongCode returns a six-digit code different from code.
func wrongCode(code string) string {
	if code == "000000" {
		return "111111"
	}
	return "000000"
}

func TestIssueAndVerify(t *testing.T) {
	v, mr := newVerifier(t)
	ctx := context.Background()
	wedding := uuid.New()

	code, err := v.Issue(ctx, wedding, "+15550001")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if len(code) != 6 {
		t.Fatalf("code %q is not six digits", code)
	}
	key := Key(wedding, "+15550001")
	if ttl := mr.TTL(key); ttl != CodeTTL {
		t.Errorf("challenge TTL = %v, want %v", ttl, CodeTTL)
	}

	if err := v.Verify(ctx, wedding, "+15550001", code); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if mr.Exists(key) {
		t.Error("challenge should be consumed")
	}
	if err := v.Verify(ctx, wedding, "+15550001", code); !errors.Is(err, ErrNoChallenge) {
		t.Errorf("reuse err = %v, want ErrNoChallenge", err)
	}
}

func TestVerify_ScopedByWedding(t *testing.T) {
	v, _ := newVerifier(t)
	ctx := context.Background()

	code, err := v.Issue(ctx, uuid.New(), "+15550001")
	if err != nil {
		t.Fatal(err)
	}
	if err := v.Verify(ctx, uuid.New(), "+15550001", code); !errors.Is(err, ErrNoChallenge) {
		t.Errorf("cross-wedding verify err = %v, want ErrNoChallenge", err)
	}
}

func TestVerify_AttemptLimit(t *testing.T) {
	v, mr := newVerifier(t)
	ctx := context.Background()
	wedding := uuid.New()

	code, err := v.Issue(ctx, wedding, "+15550002")
	if err != nil {
		t.Fatal(err)
	}
	bad := wrongCode(code)
	for i := 1; i < MaxAttempts; i++ {
		if err := v.Verify(ctx, wedding, "+15550002", bad); !errors.Is(err, ErrInvalidCode) {
			t.Fatalf("attempt %d err = %v, want ErrInvalidCode", i, err)
		}
	}
	if got := mr.HGet(Key(wedding, "+15550002"), "attempts"); got != strconv.Itoa(MaxAttempts-1) {
		t.Errorf("attempts = %s, want %d", got, MaxAttempts-1)
	}
	if err := v.Verify(ctx, wedding, "+15550002", bad); !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("last attempt err = %v", err)
	}
	if mr.Exists(Key(wedding, "+15550002")) {
		t.Error("challenge should be burned after the last failed attempt")
	}
	if err := v.Verify(ctx, wedding, "+15550002", code); !errors.Is(err, ErrNoChallenge) {
		t.Errorf("correct code after burn err = %v, want ErrNoChallenge", err)
	}
}

func TestIssue_ReplacesPending(t *testing.T) {
	v, mr := newVerifier(t)
	ctx := context.Background()
	wedding := uuid.New()

	first, _ := v.Issue(ctx, wedding, "+15550003")
	_ = v.Verify(ctx, wedding, "+15550003", wrongCode(first))
	second, err := v.Issue(ctx, wedding, "+15550003")
	if err != nil {
		t.Fatal(err)
	}
	if got := mr.HGet(Key(wedding, "+15550003"), "attempts"); got != "0" {
		t.Errorf("attempts after reissue = %s, want 0", got)
	}
	if err := v.Verify(ctx, wedding, "+15550003", second); err != nil {
		t.Errorf("Verify with new code: %v", err)
	}
}

func TestVerify_Expired(t *testing.T) {
	v, mr := newVerifier(t)
	ctx := context.Background()
	wedding := uuid.New()

	code, _ := v.Issue(ctx, wedding, "+15550004")
	mr.FastForward(CodeTTL + time.Second)
	if err := v.Verify(ctx, wedding, "+15550004", code); !errors.Is(err, ErrNoChallenge) {
		t.Errorf("expired verify err = %v, want ErrNoChallenge", err)
	}
}

func TestVerify_MissingChallengeLeavesNoKey(t *testing.T) {
	v, mr := newVerifier(t)
	ctx := context.Background()
	wedding := uuid.New()
	key := Key(wedding, "+15550005")

	code, _ := v.Issue(ctx, wedding, "+15550005")
	if err := v.Verify(ctx, wedding, "+15550005", wrongCode(code)); !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("err = %v, want ErrInvalidCode", err)
	}
	if ttl := mr.TTL(key); ttl != CodeTTL {
		t.Errorf("TTL after failed attempt = %v, want %v", ttl, CodeTTL)
	}

	mr.FastForward(CodeTTL + time.Second)
	for i := 0; i < 3; i++ {
		if err := v.Verify(ctx, wedding, "+15550005", code); !errors.Is(err, ErrNoChallenge) {
			t.Fatalf("err = %v, want ErrNoChallenge", err)
		}
	}
	if mr.Exists(key) {
		t.Errorf("verify of an expired challenge left %s behind with attempts %q", key, mr.HGet(key, "attempts"))
	}
}
