// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/roblesbraun/braunstudio/internal/theme"
)

func newTestCache(t *testing.T, ttl time.Duration) (*PageCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewPageCache(client, ttl), mr
}

func TestKey(t *testing.T) {
	if got := Key("sarah-and-john", theme.Dark); got != "page:sarah-and-john:dark" {
		t.Errorf("Key = %q", got)
	}
}

func TestPageCache_SetGet(t *testing.T) {
	pc, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	if _, ok := pc.Get(ctx, "ana-luis", theme.Light); ok {
		t.Fatal("expected miss on empty cache")
	}

	pc.Set(ctx, "ana-luis", theme.Light, []byte("<html>light</html>"))
	got, ok := pc.Get(ctx, "ana-luis", theme.Light)
	if !ok || string(got) != "<html>light</html>" {
		t.Errorf("Get = %q, %v", got, ok)
	}
	if _, ok := pc.Get(ctx, "ana-luis", theme.Dark); ok {
		t.Error("dark mode should be cached separately")
	}
	if ttl := mr.TTL("page:ana-luis:light"); ttl != time.Minute {
		t.Errorf("TTL = %v, want 1m", ttl)
	}

	mr.FastForward(2 * time.Minute)
	if _, ok := pc.Get(ctx, "ana-luis", theme.Light); ok {
		t.Error("entry should expire")
	}
}

func TestPageCache_DefaultTTL(t *testing.T) {
	pc, mr := newTestCache(t, 0)
	pc.Set(context.Background(), "x", theme.Light, []byte("x"))
	if ttl := mr.TTL("page:x:light"); ttl != DefaultPageTTL {
		t.Errorf("TTL = %v, want %v", ttl, DefaultPageTTL)
	}
}

func TestPageCache_InvalidateWedding(t *testing.T) {
	pc, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	pc.Set(ctx, "ana-luis", theme.Light, []byte("l"))
	pc.Set(ctx, "ana-luis", theme.Dark, []byte("d"))
	pc.Set(ctx, "other", theme.Light, []byte("o"))

	pc.InvalidateWedding(ctx, "ana-luis")

	if mr.Exists("page:ana-luis:light") || mr.Exists("page:ana-luis:dark") {
		t.Error("wedding keys survived invalidation")
	}
	if !mr.Exists("page:other:light") {
		t.Error("other wedding was invalidated")
	}
}

func TestPageCache_InvalidateAll(t *testing.T) {
	pc, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	for _, slug := range []string{"a", "b", "c"} {
		pc.Set(ctx, slug, theme.Light, []byte(slug))
	}
	mr.Set("session:keep", "1")

	pc.InvalidateAll(ctx)

	if keys := mr.Keys(); len(keys) != 1 || keys[0] != "session:keep" {
		t.Errorf("keys after InvalidateAll = %v", keys)
	}
}
