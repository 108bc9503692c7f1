// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/roblesbraun/braunstudio/internal/middleware"
	"github.com/roblesbraun/braunstudio/internal/models"
	"github.com/roblesbraun/braunstudio/internal/render"
	"github.com/roblesbraun/braunstudio/internal/session"
)

// Auth groups all authentication-related HTTP handlers.
type Auth struct {
	sessions    *session.Store
	users       UserRepo
	adminEmails map[string]bool
}

// NewAuth creates a new Auth handler group. adminEmails are granted platform
// admin rights on sign-in regardless of their role.
func NewAuth(sessions *session.Store, users UserRepo, adminEmails []string) *Auth {
	set := make(map[string]bool, len(adminEmails))
	for _, e := range adminEmails {
		set[strings.ToLower(strings.TrimSpace(e))] = true
	}
	return &Auth{sessions: sessions, users: users, adminEmails: set}
}

// isPlatformAdmin applies both admin rules: the role column and the
// configured email list.
func (a *Auth) isPlatformAdmin(u *models.User) bool {
	return u.IsPlatformAdmin() || a.adminEmails[strings.ToLower(u.Email)]
}

// LoginPage renders the login form.
func (a *Auth) LoginPage(w http.ResponseWriter, r *http.Request) {
	next := safeNext(r.URL.Query().Get("next"))
	if middleware.SessionFromCtx(r.Context()) != nil {
		http.Redirect(w, r, next, http.StatusSeeOther)
		return
	}
	render.Login(w, &render.PageData{CSRFToken: middleware.CSRFTokenFromCtx(r.Context())}, render.LoginData{Next: next})
}

type loginForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,max=200"`
}

// LoginSubmit processes the login form.
func (a *Auth) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	form := loginForm{
		Email:    strings.TrimSpace(r.FormValue("email")),
		Password: r.FormValue("password"),
	}
	next := safeNext(r.FormValue("next"))
	page := &render.PageData{CSRFToken: middleware.CSRFTokenFromCtx(r.Context())}
	fail := func(msg string) {
		render.Login(w, page, render.LoginData{Email: form.Email, Next: next, Error: msg})
	}

	if validateStruct(&form) != "" {
		fail("Invalid email or password.")
		return
	}

	user, err := a.users.FindByEmail(r.Context(), form.Email)
	if err != nil {
		slog.Error("login lookup failed", "error", err)
		render.ServerError(w, r)
		return
	}
	if user == nil || !a.users.CheckPassword(user, form.Password) {
		fail("Invalid email or password.")
		return
	}

	_, err = a.sessions.Create(r.Context(), w, &session.Data{
		UserID:        user.ID,
		Email:         user.Email,
		DisplayName:   user.DisplayName,
		PlatformAdmin: a.isPlatformAdmin(user),
	})
	if err != nil {
		slog.Error("session create failed", "error", err)
		render.ServerError(w, r)
		return
	}

	slog.Info("user signed in", "user_id", user.ID)
	http.Redirect(w, r, next, http.StatusSeeOther)
}

// Logout destroys the session and redirects to the login page.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Warn("session destroy failed", "error", err)
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// App sends signed-in users to their dashboard.
func (a *Auth) App(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess != nil && sess.PlatformAdmin {
		http.Redirect(w, r, "/app/admin", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/app/couple", http.StatusSeeOther)
}

// safeNext keeps post-login redirects on this site.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.ContainsAny(next, "\\\r\n") {
		return "/app"
	}
	return next
}
