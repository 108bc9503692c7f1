// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/roblesbraun/braunstudio/internal/session"
)

func okHandler() (http.Handler, *bool) {
	called := false
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}), &called
}

func TestRequireAuth(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		sess     *session.Data
		wantCode int
		wantLoc  string
	}{
		{"page redirects", "/app/couple", nil, http.StatusSeeOther, "/login?next=%2Fapp%2Fcouple"},
		{"api gets 401", "/app/admin/api/weddings", nil, http.StatusUnauthorized, ""},
		{"signed in passes", "/app/couple", &session.Data{UserID: uuid.New()}, http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, called := okHandler()
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.sess != nil {
				req = req.WithContext(WithSession(req.Context(), tt.sess))
			}
			rr := httptest.NewRecorder()
			RequireAuth(next).ServeHTTP(rr, req)
			if rr.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rr.Code, tt.wantCode)
			}
			if tt.wantLoc != "" && rr.Header().Get("Location") != tt.wantLoc {
				t.Errorf("Location = %q, want %q", rr.Header().Get("Location"), tt.wantLoc)
			}
			if *called != (tt.wantCode == http.StatusOK) {
				t.Errorf("next called = %v", *called)
			}
		})
	}
}

func TestRequirePlatformAdmin(t *testing.T) {
	for _, tt := range []struct {
		name string
		sess *session.Data
		want int
	}{
		{"no session", nil, http.StatusForbidden},
		{"couple", &session.Data{Email: "c@example.com"}, http.StatusForbidden},
		{"admin", &session.Data{Email: "a@example.com", PlatformAdmin: true}, http.StatusOK},
	} {
		t.Run(tt.name, func(t *testing.T) {
			next, _ := okHandler()
			req := httptest.NewRequest(http.MethodGet, "/app/admin", nil)
			if tt.sess != nil {
				req = req.WithContext(WithSession(req.Context(), tt.sess))
			}
			rr := httptest.NewRecorder()
			RequirePlatformAdmin(next).ServeHTTP(rr, req)
			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d", rr.Code, tt.want)
			}
		})
	}
}

func TestLoadSession(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	store := session.NewStore(client, false)

	created := httptest.NewRecorder()
	userID := uuid.New()
	if _, err := store.Create(context.Background(), created, &session.Data{UserID: userID}); err != nil {
		t.Fatal(err)
	}

	var got *session.Data
	h := LoadSession(store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = SessionFromCtx(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range created.Result().Cookies() {
		req.AddCookie(c)
	}
	h.ServeHTTP(httptest.NewRecorder(), req)
	if got == nil || got.UserID != userID {
		t.Errorf("session in context = %+v", got)
	}

	got = nil
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if got != nil {
		t.Error("session loaded without cookie")
	}
}
