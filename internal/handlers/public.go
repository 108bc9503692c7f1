// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/roblesbraun/braunstudio/internal/cache"
	"github.com/roblesbraun/braunstudio/internal/effects"
	"github.com/roblesbraun/braunstudio/internal/engine"
	"github.com/roblesbraun/braunstudio/internal/guestauth"
	"github.com/roblesbraun/braunstudio/internal/middleware"
	"github.com/roblesbraun/braunstudio/internal/models"
	"github.com/roblesbraun/braunstudio/internal/registry"
	"github.com/roblesbraun/braunstudio/internal/render"
	"github.com/roblesbraun/braunstudio/internal/sections"
	"github.com/roblesbraun/braunstudio/internal/templates"
	"github.com/roblesbraun/braunstudio/internal/tenant"
	"github.com/roblesbraun/braunstudio/internal/theme"
)

// modeCookieMaxAge keeps an explicit mode choice for a year.
const modeCookieMaxAge = 365 * 24 * 60 * 60

// Public groups the guest-facing wedding site handlers. Live pages are
// served from the Valkey page cache when possible; previews and form posts
// are always rendered fresh.
type Public struct {
	weddings WeddingRepo
	engine   *engine.Engine
	effects  effects.Gate
	pages    *cache.PageCache
}

// NewPublic creates a new Public handler group.
func NewPublic(weddings WeddingRepo, eng *engine.Engine, gate effects.Gate, pages *cache.PageCache) *Public {
	return &Public{weddings: weddings, engine: eng, effects: gate, pages: pages}
}

type publicKey string

const (
	previewKey publicKey = "preview"
	weddingKey publicKey = "wedding"
)

func isPreview(ctx context.Context) bool {
	v, _ := ctx.Value(previewKey).(bool)
	return v
}

// Landing renders the platform landing page on the base domain.
func (p *Public) Landing(w http.ResponseWriter, r *http.Request) {
	render.Landing(w, &render.PageData{})
}

// PreviewAccess guards the /preview/{slug} routes. The wedding must exist
// and the signed-in user must be allowed to manage it; anything else looks
// like a missing page. Must run after RequireAuth.
func (p *Public) PreviewAccess(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wed, err := p.weddings.FindBySlug(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			slog.Error("preview wedding lookup failed", "error", err)
			render.ServerError(w, r)
			return
		}
		if wed == nil || !canAccess(middleware.SessionFromCtx(r.Context()), wed) {
			render.NotFound(w, r)
			return
		}
		ctx := context.WithValue(r.Context(), previewKey, true)
		ctx = context.WithValue(ctx, weddingKey, wed)
		w.Header().Set("X-Robots-Tag", "noindex, nofollow")
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// wedding returns the wedding of the request, already loaded by
// PreviewAccess or looked up by slug. A nil wedding has been answered.
func (p *Public) wedding(w http.ResponseWriter, r *http.Request) *models.Wedding {
	if wed, ok := r.Context().Value(weddingKey).(*models.Wedding); ok {
		return wed
	}
	slug := chi.URLParam(r, "slug")
	wed, err := p.weddings.FindBySlug(r.Context(), slug)
	if err != nil {
		slog.Error("find wedding by slug failed", "error", err, "slug", slug)
		render.ServerError(w, r)
		return nil
	}
	if wed == nil {
		render.NotFound(w, r)
		return nil
	}
	return wed
}

// basePath is the prefix of the wedding's form endpoints as seen by the
// browser for this request.
func basePath(r *http.Request, slug string) string {
	switch {
	case isPreview(r.Context()):
		return "/preview/" + slug
	case tenant.RouteFromCtx(r.Context()).Kind == tenant.Tenant:
		return ""
	}
	return "/w/" + slug
}

// displayMode picks the color mode and remembers an explicit ?mode= choice.
func displayMode(w http.ResponseWriter, r *http.Request) theme.Mode {
	if m, ok := theme.ParseMode(r.URL.Query().Get("mode")); ok {
		http.SetCookie(w, &http.Cookie{
			Name:     theme.ModeCookie,
			Value:    string(m),
			Path:     "/",
			MaxAge:   modeCookieMaxAge,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		return m
	}
	return theme.ModeFromRequest(r)
}

// Page renders a wedding site.
func (p *Public) Page(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := chi.URLParam(r, "slug")
	mode := displayMode(w, r)

	// Only canonical tenant-host URLs are cached: the local /w/ routes and
	// previews carry different form actions.
	cacheable := !isPreview(ctx) &&
		tenant.RouteFromCtx(ctx).Kind == tenant.Tenant &&
		r.URL.RawQuery == ""

	if cacheable {
		if cached, ok := p.pages.Get(ctx, slug, mode); ok {
			writeHTML(w, http.StatusOK, cached)
			return
		}
	}

	wed := p.wedding(w, r)
	if wed == nil {
		return
	}

	html, ok := p.render(w, r, wed, mode, templates.Notice{})
	if !ok {
		return
	}
	if cacheable && wed.IsLive() {
		p.pages.Set(ctx, slug, mode, html)
	}
	writeHTML(w, http.StatusOK, html)
}

// render runs the engine and answers render failures with the matching
// platform page. ok is false when the response has been written.
func (p *Public) render(w http.ResponseWriter, r *http.Request, wed *models.Wedding, mode theme.Mode, notice templates.Notice) ([]byte, bool) {
	html, err := p.engine.Render(r.Context(), engine.Request{
		Wedding:  wed,
		Mode:     mode,
		Preview:  isPreview(r.Context()),
		BasePath: basePath(r, wed.Slug),
		Notice:   notice,
	})
	if err == nil {
		return html, true
	}

	var (
		renderErr *engine.RenderError
		loadErr   *registry.LoadError
	)
	switch {
	case errors.Is(err, engine.ErrNotPublished):
		w.Header().Set("X-Robots-Tag", "noindex")
		render.ComingSoon(w, r, wed.Name)
	case errors.As(err, &loadErr):
		slog.Error("wedding template failed to load", "error", err, "slug", wed.Slug)
		render.TemplateError(w, r)
	case errors.Is(err, registry.ErrNotRenderable):
		slog.Warn("wedding template not renderable", "error", err, "slug", wed.Slug)
		render.NotFound(w, r)
	case errors.As(err, &renderErr):
		slog.Error("wedding render failed", "error", err, "slug", wed.Slug)
		render.TemplateError(w, r)
	default:
		slog.Error("wedding render failed", "error", err, "slug", wed.Slug)
		render.ServerError(w, r)
	}
	return nil, false
}

// respond renders the page with a form outcome. These responses depend on
// the visitor's input and are never cached.
func (p *Public) respond(w http.ResponseWriter, r *http.Request, wed *models.Wedding, status int, notice templates.Notice) {
	html, ok := p.render(w, r, wed, theme.ModeFromRequest(r), notice)
	if !ok {
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeHTML(w, status, html)
}

func writeHTML(w http.ResponseWriter, status int, html []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(html)
}

// formWedding loads the wedding for a guest form post and makes sure the
// page is servable and the section is on. nil means answered.
func (p *Public) formWedding(w http.ResponseWriter, r *http.Request, k sections.Key) *models.Wedding {
	wed := p.wedding(w, r)
	if wed == nil {
		return nil
	}
	if !isPreview(r.Context()) && wed.IsDraft() {
		render.ComingSoon(w, r, wed.Name)
		return nil
	}
	if !sections.Contains(wed.Sections().Enabled, k) {
		render.NotFound(w, r)
		return nil
	}
	return wed
}

// --- RSVP ---

type rsvpCodeForm struct {
	Phone string `form:"phone" validate:"required,phone"`
}

type rsvpForm struct {
	Phone           string `form:"phone" validate:"required,phone"`
	Code            string `form:"code" validate:"required,len=6,numeric"`
	Name            string `form:"name" validate:"required,max=200"`
	Email           string `form:"email" validate:"omitempty,email,max=254"`
	Attendance      string `form:"attendance" validate:"required,oneof=yes no"`
	PlusOnes        int    `form:"plus_ones" validate:"min=0,max=10"`
	Dietary         string `form:"dietary" validate:"max=500"`
	WhatsappConsent bool   `form:"whatsapp_consent"`
}

func rsvpNotice(kind, msg, phone string, codeSent bool) templates.Notice {
	return templates.Notice{Section: sections.KeyRSVP, Kind: kind, Message: msg, Phone: phone, CodeSent: codeSent}
}

// RSVPCode issues a verification code for the phone number a guest entered
// and sends it. The page comes back with the second RSVP step.
func (p *Public) RSVPCode(w http.ResponseWriter, r *http.Request) {
	wed := p.formWedding(w, r, sections.KeyRSVP)
	if wed == nil {
		return
	}
	form := rsvpCodeForm{Phone: normalizePhone(r.FormValue("phone"))}
	if msg := validateStruct(&form); msg != "" {
		p.respond(w, r, wed, http.StatusUnprocessableEntity, rsvpNotice("error", "Please enter a valid phone number.", "", false))
		return
	}

	fx := p.effects.For(isPreview(r.Context()))
	ctx := r.Context()
	code, err := fx.Codes.Issue(ctx, wed.ID, form.Phone)
	if err == nil {
		err = fx.Messenger.SendCode(ctx, wed.Name, form.Phone, code)
	}
	if err != nil {
		slog.Error("issue rsvp code failed", "error", err, "slug", wed.Slug)
		p.respond(w, r, wed, http.StatusServiceUnavailable, rsvpNotice("error", "We could not send a code right now. Please try again.", "", false))
		return
	}

	msg := "We sent a 6-digit code to your phone. Enter it below to RSVP."
	if fx.Simulated {
		msg = "Preview: no message was sent. Use code " + effects.SimulatedCode + "."
	}
	p.respond(w, r, wed, http.StatusOK, rsvpNotice("info", msg, form.Phone, true))
}

// RSVP checks the guest's code and records the answer.
func (p *Public) RSVP(w http.ResponseWriter, r *http.Request) {
	wed := p.formWedding(w, r, sections.KeyRSVP)
	if wed == nil {
		return
	}
	phone := normalizePhone(r.FormValue("phone"))
	plusOnes := 0
	if raw := strings.TrimSpace(r.FormValue("plus_ones")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			p.respond(w, r, wed, http.StatusUnprocessableEntity, rsvpNotice("error", "Please check your answer: plus_ones must be a whole number.", phone, phone != ""))
			return
		}
		plusOnes = n
	}
	form := rsvpForm{
		Phone:           phone,
		Code:            strings.TrimSpace(r.FormValue("code")),
		Name:            strings.TrimSpace(r.FormValue("name")),
		Email:           strings.TrimSpace(r.FormValue("email")),
		Attendance:      r.FormValue("attendance"),
		PlusOnes:        plusOnes,
		Dietary:         strings.TrimSpace(r.FormValue("dietary")),
		WhatsappConsent: r.FormValue("whatsapp_consent") != "",
	}
	if msg := validateStruct(&form); msg != "" {
		p.respond(w, r, wed, http.StatusUnprocessableEntity, rsvpNotice("error", "Please check your answer: "+msg+".", form.Phone, form.Phone != ""))
		return
	}

	fx := p.effects.For(isPreview(r.Context()))
	ctx := r.Context()
	if err := fx.Codes.Verify(ctx, wed.ID, form.Phone, form.Code); err != nil {
		switch {
		case errors.Is(err, guestauth.ErrInvalidCode):
			p.respond(w, r, wed, http.StatusUnprocessableEntity, rsvpNotice("error", "That code is not correct. Please try again.", form.Phone, true))
		case errors.Is(err, guestauth.ErrNoChallenge):
			p.respond(w, r, wed, http.StatusUnprocessableEntity, rsvpNotice("error", "Your code has expired. Please request a new one.", "", false))
		case errors.Is(err, guestauth.ErrTooManyAttempts):
			p.respond(w, r, wed, http.StatusTooManyRequests, rsvpNotice("error", "Too many attempts. Please request a new code.", "", false))
		default:
			slog.Error("verify rsvp code failed", "error", err, "slug", wed.Slug)
			render.ServerError(w, r)
		}
		return
	}

	res, err := fx.RSVPs.Record(ctx, effects.RSVP{
		WeddingID:       wed.ID,
		Name:            form.Name,
		Phone:           form.Phone,
		Email:           form.Email,
		Attending:       form.Attendance == "yes",
		PlusOnes:        form.PlusOnes,
		Dietary:         form.Dietary,
		WhatsappConsent: form.WhatsappConsent,
	})
	if err != nil {
		slog.Error("record rsvp failed", "error", err, "slug", wed.Slug)
		render.ServerError(w, r)
		return
	}

	msg := fmt.Sprintf("Thank you, %s! We can't wait to celebrate with you.", form.Name)
	if form.Attendance == "no" {
		msg = fmt.Sprintf("Thank you, %s. We'll miss you!", form.Name)
	}
	if res.Simulated {
		msg = "Preview: " + msg + " Nothing was saved."
	}
	p.respond(w, r, wed, http.StatusOK, rsvpNotice("success", msg, "", false))
}

// --- Gifts ---

type contributeForm struct {
	Name        string `form:"name" validate:"required,max=200"`
	Phone       string `form:"phone" validate:"omitempty,phone"`
	AmountCents int64  `form:"amount" validate:"gt=0,lte=10000000"`
}

func giftNotice(kind, msg string) templates.Notice {
	return templates.Notice{Section: sections.KeyGifts, Kind: kind, Message: msg}
}

// Contribute records a guest's pledge towards a gift.
func (p *Public) Contribute(w http.ResponseWriter, r *http.Request) {
	wed := p.formWedding(w, r, sections.KeyGifts)
	if wed == nil {
		return
	}
	gifts := wed.Sections().Content.Gifts()
	if gifts == nil || gifts.Mode != sections.GiftModeGifts {
		render.NotFound(w, r)
		return
	}
	item := gifts.Item(chi.URLParam(r, "giftID"))
	if item == nil {
		render.NotFound(w, r)
		return
	}

	amount, err := parseAmount(r.FormValue("amount"))
	if err != nil {
		p.respond(w, r, wed, http.StatusUnprocessableEntity, giftNotice("error", "Please enter a valid amount."))
		return
	}
	form := contributeForm{
		Name:        strings.TrimSpace(r.FormValue("name")),
		Phone:       normalizePhone(r.FormValue("phone")),
		AmountCents: amount,
	}
	if msg := validateStruct(&form); msg != "" {
		p.respond(w, r, wed, http.StatusUnprocessableEntity, giftNotice("error", "Please check your contribution: "+msg+"."))
		return
	}

	fx := p.effects.For(isPreview(r.Context()))
	res, err := fx.Payments.Contribute(r.Context(), effects.Pledge{
		WeddingID:   wed.ID,
		GiftID:      item.ID,
		GuestName:   form.Name,
		Phone:       form.Phone,
		AmountCents: form.AmountCents,
	})
	if err != nil {
		slog.Error("record contribution failed", "error", err, "slug", wed.Slug, "gift", item.ID)
		render.ServerError(w, r)
		return
	}

	msg := fmt.Sprintf("Thank you, %s! Your contribution of %s towards %s has been noted.", form.Name, templates.Money(form.AmountCents), item.Name)
	if res.Simulated {
		msg = "Preview: " + msg + " No payment was recorded."
	}
	p.respond(w, r, wed, http.StatusOK, giftNotice("success", msg))
}
