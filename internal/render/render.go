// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render draws the platform's own pages: the landing page, the
// sign-in form, the dashboard overview and the status pages shown when a
// wedding cannot be served. Requests that expect JSON get a JSON error body
// instead of a page.
package render

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/roblesbraun/braunstudio/internal/models"
	"github.com/roblesbraun/braunstudio/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

// PageData holds all data passed to platform templates.
type PageData struct {
	Title     string        // Page title for <title> tag
	NoIndex   bool          // Emit a robots noindex meta tag
	Session   *session.Data // Current user session (nil if unauthenticated)
	CSRFToken string        // CSRF token for forms
	Data      any           // Page-specific data
}

// LoginData fills the sign-in form.
type LoginData struct {
	Email string
	Next  string
	Error string
}

// DashboardData lists the weddings a signed-in user can manage.
type DashboardData struct {
	Weddings []*models.Wedding
	APIBase  string
}

// StatusData describes an error or holding page.
type StatusData struct {
	Code    int
	Heading string
	Message string
}

// pageNames lists every page template; each is parsed together with base.html.
var pageNames = []string{"landing", "login", "dashboard", "status"}

var pages = mustParse()

func mustParse() map[string]*template.Template {
	out := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.New("base.html").ParseFS(templateFS, "templates/base.html", "templates/"+name+".html")
		if err != nil {
			panic(fmt.Sprintf("parse template %s: %v", name, err))
		}
		out[name] = tmpl
	}
	return out
}

// Page renders a full platform page with the given status code.
func Page(w http.ResponseWriter, status int, name string, data *PageData) {
	tmpl, ok := pages[name]
	if !ok {
		http.Error(w, fmt.Sprintf("template %q not found", name), http.StatusInternalServerError)
		return
	}

	var buf strings.Builder
	if err := executeTemplate(&buf, tmpl, "base.html", data); err != nil {
		slog.Error("render platform page", "page", name, "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	io.WriteString(w, buf.String())
}

// Landing renders the marketing page served on the base domain.
func Landing(w http.ResponseWriter, data *PageData) {
	if data.Title == "" {
		data.Title = "Wedding websites"
	}
	Page(w, http.StatusOK, "landing", data)
}

// Login renders the sign-in form. A non-empty form.Error answers 401.
func Login(w http.ResponseWriter, data *PageData, form LoginData) {
	data.Title = "Sign In"
	data.NoIndex = true
	data.Data = form
	status := http.StatusOK
	if form.Error != "" {
		status = http.StatusUnauthorized
	}
	Page(w, status, "login", data)
}

// Dashboard renders the signed-in overview.
func Dashboard(w http.ResponseWriter, data *PageData, dash DashboardData) {
	data.Title = "Dashboard"
	data.NoIndex = true
	data.Data = dash
	Page(w, http.StatusOK, "dashboard", data)
}

// Status renders a status page, or a JSON error for API clients.
func Status(w http.ResponseWriter, r *http.Request, status int, heading, message string) {
	if wantsJSON(r) {
		Error(w, status, message)
		return
	}
	Page(w, status, "status", &PageData{
		Title:   heading,
		NoIndex: true,
		Data:    StatusData{Code: status, Heading: heading, Message: message},
	})
}

// NotFound answers 404.
func NotFound(w http.ResponseWriter, r *http.Request) {
	Status(w, r, http.StatusNotFound, "Page not found", "There is no wedding site at this address.")
}

// ComingSoon is shown for weddings that exist but are not published yet.
// It answers 200 so the address keeps working once the site goes live.
func ComingSoon(w http.ResponseWriter, r *http.Request, name string) {
	msg := "This wedding site is being prepared. Please check back soon."
	if name != "" {
		msg = name + " are preparing their wedding site. Please check back soon."
	}
	Status(w, r, http.StatusOK, "Coming soon", msg)
}

// TemplateError is shown when a wedding's template fails to render.
func TemplateError(w http.ResponseWriter, r *http.Request) {
	Status(w, r, http.StatusInternalServerError, "Something went wrong", "This wedding site could not be displayed right now. Please try again later.")
}

// ServerError answers 500 without exposing the cause.
func ServerError(w http.ResponseWriter, r *http.Request) {
	Status(w, r, http.StatusInternalServerError, "Something went wrong", "An unexpected error occurred. Please try again later.")
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode json response", "error", err)
	}
}

// Error writes {"error": msg} with the given status.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"error": msg})
}

// executeTemplate wraps template execution with error handling.
func executeTemplate(w io.Writer, tmpl *template.Template, name string, data any) error {
	return tmpl.ExecuteTemplate(w, name, data)
}

// wantsJSON reports whether the client is an API caller.
func wantsJSON(r *http.Request) bool {
	if strings.Contains(r.URL.Path, "/api/") {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
