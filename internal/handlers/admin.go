// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/roblesbraun/braunstudio/internal/middleware"
	"github.com/roblesbraun/braunstudio/internal/models"
	"github.com/roblesbraun/braunstudio/internal/render"
	"github.com/roblesbraun/braunstudio/internal/sections"
	"github.com/roblesbraun/braunstudio/internal/slug"
	"github.com/roblesbraun/braunstudio/internal/storage"
	"github.com/roblesbraun/braunstudio/internal/theme"
)

// QR code sizes in pixels.
const (
	defaultQRSize = 512
	minQRSize     = 128
	maxQRSize     = 2048
)

// Admin groups the platform admin JSON API.
type Admin struct {
	weddings  WeddingRepo
	guests    GuestRepo
	gifts     GiftRepo
	templates TemplateCatalog
	logos     LogoStore
	pages     PageInvalidator
	siteURL   func(slug string) string
}

// NewAdmin creates a new Admin handler group. logos may be nil when object
// storage is not configured; logo uploads then answer 503.
func NewAdmin(weddings WeddingRepo, guests GuestRepo, gifts GiftRepo, templates TemplateCatalog, logos LogoStore, pages PageInvalidator, siteURL func(string) string) *Admin {
	return &Admin{
		weddings:  weddings,
		guests:    guests,
		gifts:     gifts,
		templates: templates,
		logos:     logos,
		pages:     pages,
		siteURL:   siteURL,
	}
}

// Home renders the admin overview page.
func (a *Admin) Home(w http.ResponseWriter, r *http.Request) {
	list, err := a.weddings.List(r.Context())
	if err != nil {
		slog.Error("list weddings failed", "error", err)
		render.ServerError(w, r)
		return
	}
	render.Dashboard(w, &render.PageData{
		Session:   middleware.SessionFromCtx(r.Context()),
		CSRFToken: middleware.CSRFTokenFromCtx(r.Context()),
	}, render.DashboardData{Weddings: weddingPtrs(list), APIBase: "/app/admin/api"})
}

func weddingPtrs(list []models.Wedding) []*models.Wedding {
	out := make([]*models.Wedding, len(list))
	for i := range list {
		out[i] = &list[i]
	}
	return out
}

func (a *Admin) respond(w http.ResponseWriter, status int, wed *models.Wedding) {
	render.JSON(w, status, newWeddingResponse(wed, a.siteURL, a.logos))
}

// load fetches the {id} wedding. A nil result has been answered.
func (a *Admin) load(w http.ResponseWriter, r *http.Request) *models.Wedding {
	id, ok := weddingIDParam(r)
	if !ok {
		render.Error(w, http.StatusBadRequest, "invalid wedding id")
		return nil
	}
	wed, err := a.weddings.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return nil
	}
	if wed == nil {
		render.Error(w, http.StatusNotFound, "wedding not found")
		return nil
	}
	return wed
}

// invalidate drops the cached public pages after a mutation.
func (a *Admin) invalidate(ctx context.Context, slug string) {
	if a.pages != nil {
		a.pages.InvalidateWedding(ctx, slug)
	}
}

// Templates lists the registered templates and their versions.
func (a *Admin) Templates(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, http.StatusOK, a.templates.List())
}

// Template returns one template's metadata.
func (a *Admin) Template(w http.ResponseWriter, r *http.Request) {
	meta, ok := a.templates.Metadata(chi.URLParam(r, "templateID"))
	if !ok {
		render.Error(w, http.StatusNotFound, "template not found")
		return
	}
	render.JSON(w, http.StatusOK, meta)
}

// ListWeddings returns every wedding.
func (a *Admin) ListWeddings(w http.ResponseWriter, r *http.Request) {
	list, err := a.weddings.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]weddingResponse, len(list))
	for i := range list {
		out[i] = newWeddingResponse(&list[i], a.siteURL, a.logos)
	}
	render.JSON(w, http.StatusOK, out)
}

// GetWedding returns one wedding.
func (a *Admin) GetWedding(w http.ResponseWriter, r *http.Request) {
	if wed := a.load(w, r); wed != nil {
		a.respond(w, http.StatusOK, wed)
	}
}

type createWeddingRequest struct {
	Name            string                     `json:"name" validate:"required,max=200"`
	Slug            string                     `json:"slug" validate:"omitempty,slug"`
	TemplateID      string                     `json:"template_id" validate:"required"`
	TemplateVersion string                     `json:"template_version"`
	EnabledSections []string                   `json:"enabled_sections" validate:"omitempty,dive,section"`
	SectionContent  map[string]json.RawMessage `json:"section_content"`
	PaymentStatus   string                     `json:"payment_status" validate:"omitempty,oneof=unpaid paid na"`
	CoupleEmails    []string                   `json:"couple_emails" validate:"omitempty,dive,email"`
	WeddingDate     *string                    `json:"wedding_date" validate:"omitempty,datetime=2006-01-02"`
}

// CreateWedding provisions a new draft wedding. Without an explicit slug
// one is derived from the name and suffixed until it is free.
func (a *Admin) CreateWedding(w http.ResponseWriter, r *http.Request) {
	var req createWeddingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if msg := validateStruct(&req); msg != "" {
		render.Error(w, http.StatusUnprocessableEntity, msg)
		return
	}

	wed, err := a.newWedding(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	created, err := a.weddings.Create(r.Context(), wed)
	if err != nil {
		writeError(w, r, err)
		return
	}
	slog.Info("wedding created", "id", created.ID, "slug", created.Slug)
	a.respond(w, http.StatusCreated, created)
}

func (a *Admin) newWedding(ctx context.Context, req *createWeddingRequest) (*models.Wedding, error) {
	version := req.TemplateVersion
	if version == "" {
		latest, ok := a.templates.LatestVersion(req.TemplateID)
		if !ok {
			return nil, apiErrorf(http.StatusUnprocessableEntity, "unknown template %q", req.TemplateID)
		}
		version = latest
	}
	if !a.templates.IsValid(req.TemplateID, version) {
		return nil, apiErrorf(http.StatusUnprocessableEntity, "unknown template %s@%s", req.TemplateID, version)
	}

	s := req.Slug
	if s == "" {
		base := slug.Generate(req.Name)
		if !models.ValidSlug(base) {
			return nil, apiErrorf(http.StatusUnprocessableEntity, "cannot derive a slug from the name, please provide one")
		}
		free, err := slug.Unique(ctx, base, func(ctx context.Context, s string) (bool, error) {
			found, err := a.weddings.FindBySlug(ctx, s)
			return found != nil || !models.ValidSlug(s), err
		})
		if err != nil {
			return nil, err
		}
		s = free
	}

	enabled := sections.Strings(sections.DefaultEnabled())
	if req.EnabledSections != nil {
		keys, err := sections.ValidateEnabled(req.EnabledSections)
		if err != nil {
			return nil, apiErrorf(http.StatusUnprocessableEntity, "enabled sections: %v", err)
		}
		enabled = sections.Strings(keys)
	}
	content, err := mergeContent(nil, req.SectionContent)
	if err != nil {
		return nil, err
	}
	payment := models.PaymentStatus(req.PaymentStatus)
	if payment == "" {
		payment = models.PaymentUnpaid
	}

	return &models.Wedding{
		Name:            strings.TrimSpace(req.Name),
		Slug:            s,
		Status:          models.StatusDraft,
		TemplateID:      req.TemplateID,
		TemplateVersion: version,
		EnabledSections: enabled,
		SectionContent:  content,
		Theme:           theme.Theme{Light: theme.Palette{}, Dark: theme.Palette{}},
		PaymentStatus:   payment,
		CoupleEmails:    normalizeEmails(req.CoupleEmails),
		WeddingDate:     req.WeddingDate,
	}, nil
}

type updateWeddingRequest struct {
	coupleFields
	Slug            *string   `json:"slug"`
	TemplateID      *string   `json:"template_id" validate:"omitempty,min=1"`
	TemplateVersion *string   `json:"template_version" validate:"omitempty,min=1"`
	EnabledSections *[]string `json:"enabled_sections" validate:"omitempty,dive,section"`
	PaymentStatus   *string   `json:"payment_status" validate:"omitempty,oneof=unpaid paid na"`
	WeddingDate     *string   `json:"wedding_date" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateWedding applies a partial update. The slug never changes and the
// template is frozen once the wedding is live.
func (a *Admin) UpdateWedding(w http.ResponseWriter, r *http.Request) {
	wed := a.load(w, r)
	if wed == nil {
		return
	}
	var req updateWeddingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Slug != nil && *req.Slug != wed.Slug {
		render.Error(w, http.StatusUnprocessableEntity, "slug cannot be changed")
		return
	}
	if msg := validateStruct(&req); msg != "" {
		render.Error(w, http.StatusUnprocessableEntity, msg)
		return
	}
	if err := a.applyUpdate(wed, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := a.weddings.Update(r.Context(), wed); err != nil {
		writeError(w, r, err)
		return
	}
	a.invalidate(r.Context(), wed.Slug)
	a.respond(w, http.StatusOK, wed)
}

func (a *Admin) applyUpdate(wed *models.Wedding, req *updateWeddingRequest) error {
	if err := req.coupleFields.apply(wed); err != nil {
		return err
	}

	tid, tver := wed.TemplateID, wed.TemplateVersion
	if req.TemplateID != nil {
		tid = *req.TemplateID
		if req.TemplateVersion == nil {
			latest, ok := a.templates.LatestVersion(tid)
			if !ok {
				return apiErrorf(http.StatusUnprocessableEntity, "unknown template %q", tid)
			}
			tver = latest
		}
	}
	if req.TemplateVersion != nil {
		tver = *req.TemplateVersion
	}
	if tid != wed.TemplateID || tver != wed.TemplateVersion {
		if wed.IsLive() {
			return apiErrorf(http.StatusConflict, "the template of a live wedding cannot be changed")
		}
		if !a.templates.IsValid(tid, tver) {
			return apiErrorf(http.StatusUnprocessableEntity, "unknown template %s@%s", tid, tver)
		}
		wed.TemplateID, wed.TemplateVersion = tid, tver
	}

	if req.EnabledSections != nil {
		keys, err := sections.ValidateEnabled(*req.EnabledSections)
		if err != nil {
			return apiErrorf(http.StatusUnprocessableEntity, "enabled sections: %v", err)
		}
		wed.EnabledSections = sections.Strings(keys)
	}
	if req.PaymentStatus != nil {
		wed.PaymentStatus = models.PaymentStatus(*req.PaymentStatus)
	}
	if req.WeddingDate != nil {
		if *req.WeddingDate == "" {
			wed.WeddingDate = nil
		} else {
			d := *req.WeddingDate
			wed.WeddingDate = &d
		}
	}
	return nil
}

// DeleteWedding removes a draft wedding.
func (a *Admin) DeleteWedding(w http.ResponseWriter, r *http.Request) {
	wed := a.load(w, r)
	if wed == nil {
		return
	}
	if !wed.IsDraft() {
		render.Error(w, http.StatusConflict, "only draft weddings can be deleted")
		return
	}
	if err := a.weddings.Delete(r.Context(), wed.ID); err != nil {
		writeError(w, r, err)
		return
	}
	a.invalidate(r.Context(), wed.Slug)
	slog.Info("wedding deleted", "id", wed.ID, "slug", wed.Slug)
	w.WriteHeader(http.StatusNoContent)
}

// UpdateTheme replaces the wedding's color overrides.
func (a *Admin) UpdateTheme(w http.ResponseWriter, r *http.Request) {
	wed := a.load(w, r)
	if wed == nil {
		return
	}
	var t theme.Theme
	if err := decodeJSON(w, r, &t); err != nil {
		writeError(w, r, err)
		return
	}
	if err := theme.Validate(t); err != nil {
		render.Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if t.Light == nil {
		t.Light = theme.Palette{}
	}
	if t.Dark == nil {
		t.Dark = theme.Palette{}
	}
	if err := a.weddings.UpdateTheme(r.Context(), wed.ID, t); err != nil {
		writeError(w, r, err)
		return
	}
	wed.Theme = t
	a.invalidate(r.Context(), wed.Slug)
	a.respond(w, http.StatusOK, wed)
}

type statusRequest struct {
	Status string `json:"status" validate:"required,oneof=draft pending_payment live"`
}

// UpdateStatus moves the wedding through its publication states.
func (a *Admin) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	wed := a.load(w, r)
	if wed == nil {
		return
	}
	var req statusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if msg := validateStruct(&req); msg != "" {
		render.Error(w, http.StatusUnprocessableEntity, msg)
		return
	}
	to := models.WeddingStatus(req.Status)
	if to == wed.Status {
		a.respond(w, http.StatusOK, wed)
		return
	}
	if !wed.Status.CanTransition(to) {
		render.Error(w, http.StatusConflict, fmt.Sprintf("cannot move a %s wedding to %s", wed.Status, to))
		return
	}
	if err := a.weddings.UpdateStatus(r.Context(), wed.ID, wed.Status, to); err != nil {
		writeError(w, r, err)
		return
	}
	slog.Info("wedding status changed", "id", wed.ID, "slug", wed.Slug, "from", wed.Status, "to", to)
	wed.Status = to
	a.invalidate(r.Context(), wed.Slug)
	a.respond(w, http.StatusOK, wed)
}

type toggleRequest struct {
	Section string `json:"section" validate:"required,section"`
}

// ToggleSection enables or disables one section.
func (a *Admin) ToggleSection(w http.ResponseWriter, r *http.Request) {
	wed := a.load(w, r)
	if wed == nil {
		return
	}
	var req toggleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if msg := validateStruct(&req); msg != "" {
		render.Error(w, http.StatusUnprocessableEntity, msg)
		return
	}
	k, _ := sections.ParseKey(req.Section)
	a.saveSections(w, r, wed, sections.Toggle(wed.Sections().Enabled, k))
}

type moveRequest struct {
	Index     *int   `json:"index" validate:"required,min=0"`
	Direction string `json:"direction" validate:"required,oneof=up down"`
}

// MoveSection swaps an enabled section with its neighbour.
func (a *Admin) MoveSection(w http.ResponseWriter, r *http.Request) {
	wed := a.load(w, r)
	if wed == nil {
		return
	}
	var req moveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if msg := validateStruct(&req); msg != "" {
		render.Error(w, http.StatusUnprocessableEntity, msg)
		return
	}
	dir := sections.Up
	if req.Direction == "down" {
		dir = sections.Down
	}
	a.saveSections(w, r, wed, sections.Move(wed.Sections().Enabled, *req.Index, dir))
}

func (a *Admin) saveSections(w http.ResponseWriter, r *http.Request, wed *models.Wedding, enabled []sections.Key) {
	wed.EnabledSections = sections.Strings(enabled)
	if err := a.weddings.Update(r.Context(), wed); err != nil {
		writeError(w, r, err)
		return
	}
	a.invalidate(r.Context(), wed.Slug)
	a.respond(w, http.StatusOK, wed)
}

// UploadLogo stores a logo for one color mode in object storage. Every
// upload gets a fresh key; the previous object is removed afterwards.
func (a *Admin) UploadLogo(w http.ResponseWriter, r *http.Request) {
	if a.logos == nil {
		render.Error(w, http.StatusServiceUnavailable, "object storage is not configured")
		return
	}
	mode, ok := theme.ParseMode(chi.URLParam(r, "mode"))
	if !ok {
		render.Error(w, http.StatusBadRequest, "mode must be light or dark")
		return
	}
	wed := a.load(w, r)
	if wed == nil {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, storage.MaxLogoSize+4096)
	if err := r.ParseMultipartForm(storage.MaxLogoSize); err != nil {
		render.Error(w, http.StatusRequestEntityTooLarge, "logo too large, the maximum is 2 MB")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		render.Error(w, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()
	if header.Size > storage.MaxLogoSize {
		render.Error(w, http.StatusRequestEntityTooLarge, "logo too large, the maximum is 2 MB")
		return
	}

	sniff := make([]byte, 512)
	n, _ := io.ReadFull(file, sniff)
	contentType := detectLogoType(sniff[:n], header.Header.Get("Content-Type"))
	ext, ok := storage.LogoExt(contentType)
	if !ok {
		render.Error(w, http.StatusUnsupportedMediaType, "logo must be PNG, JPEG, WebP or SVG")
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		writeError(w, r, fmt.Errorf("rewind upload: %w", err))
		return
	}

	ctx := r.Context()
	key := storage.LogoKey(wed.ID, string(mode), ext)
	if err := a.logos.Upload(ctx, key, contentType, file, header.Size); err != nil {
		slog.Error("s3 upload failed", "error", err, "key", key)
		render.Error(w, http.StatusBadGateway, "upload failed")
		return
	}
	if err := a.weddings.UpdateLogo(ctx, wed.ID, mode, &key); err != nil {
		if delErr := a.logos.Delete(ctx, key); delErr != nil {
			slog.Warn("s3 cleanup failed", "error", delErr, "key", key)
		}
		writeError(w, r, err)
		return
	}

	old := wed.LogoLightKey
	if mode == theme.Dark {
		old = wed.LogoDarkKey
		wed.LogoDarkKey = &key
	} else {
		wed.LogoLightKey = &key
	}
	if old != nil {
		if err := a.logos.Delete(ctx, *old); err != nil {
			slog.Warn("s3 old logo delete failed", "error", err, "key", *old)
		}
	}
	a.invalidate(ctx, wed.Slug)
	a.respond(w, http.StatusOK, wed)
}

// DeleteLogo removes the logo for one color mode.
func (a *Admin) DeleteLogo(w http.ResponseWriter, r *http.Request) {
	mode, ok := theme.ParseMode(chi.URLParam(r, "mode"))
	if !ok {
		render.Error(w, http.StatusBadRequest, "mode must be light or dark")
		return
	}
	wed := a.load(w, r)
	if wed == nil {
		return
	}
	if err := a.weddings.UpdateLogo(r.Context(), wed.ID, mode, nil); err != nil {
		writeError(w, r, err)
		return
	}
	old := wed.LogoLightKey
	if mode == theme.Dark {
		old = wed.LogoDarkKey
		wed.LogoDarkKey = nil
	} else {
		wed.LogoLightKey = nil
	}
	if old != nil && a.logos != nil {
		if err := a.logos.Delete(r.Context(), *old); err != nil {
			slog.Warn("s3 logo delete failed", "error", err, "key", *old)
		}
	}
	a.invalidate(r.Context(), wed.Slug)
	a.respond(w, http.StatusOK, wed)
}

// detectLogoType sniffs the upload. SVG is text to the sniffer, so it is
// accepted when the client declared it and the bytes contain an <svg tag.
func detectLogoType(head []byte, declared string) string {
	ct := http.DetectContentType(head)
	if strings.HasPrefix(ct, "text/xml") || strings.HasPrefix(ct, "text/plain") {
		if strings.EqualFold(strings.TrimSpace(declared), "image/svg+xml") && bytes.Contains(bytes.ToLower(head), []byte("<svg")) {
			return "image/svg+xml"
		}
	}
	ct, _, _ = strings.Cut(ct, ";")
	return ct
}

type guestsResponse struct {
	Guests []models.Guest     `json:"guests"`
	Stats  models.GuestStats `json:"stats"`
}

// Guests lists the wedding's RSVPs with a summary.
func (a *Admin) Guests(w http.ResponseWriter, r *http.Request) {
	if wed := a.load(w, r); wed != nil {
		writeGuests(w, r, a.guests, wed)
	}
}

func writeGuests(w http.ResponseWriter, r *http.Request, guests GuestRepo, wed *models.Wedding) {
	list, err := guests.ListForWedding(r.Context(), wed.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	stats, err := guests.Stats(r.Context(), wed.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if list == nil {
		list = []models.Guest{}
	}
	render.JSON(w, http.StatusOK, guestsResponse{Guests: list, Stats: stats})
}

type giftsResponse struct {
	Contributions []models.GiftContribution `json:"contributions"`
	Totals        []models.GiftTotal        `json:"totals"`
}

// Gifts lists the contribution ledger with per-gift totals.
func (a *Admin) Gifts(w http.ResponseWriter, r *http.Request) {
	wed := a.load(w, r)
	if wed == nil {
		return
	}
	list, err := a.gifts.ListForWedding(r.Context(), wed.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	totals, err := a.gifts.TotalsByGift(r.Context(), wed.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if list == nil {
		list = []models.GiftContribution{}
	}
	if totals == nil {
		totals = []models.GiftTotal{}
	}
	render.JSON(w, http.StatusOK, giftsResponse{Contributions: list, Totals: totals})
}

// QRCode returns a PNG QR code pointing at the wedding's public address.
func (a *Admin) QRCode(w http.ResponseWriter, r *http.Request) {
	wed := a.load(w, r)
	if wed == nil {
		return
	}
	size := defaultQRSize
	if s := r.URL.Query().Get("size"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < minQRSize || v > maxQRSize {
			render.Error(w, http.StatusBadRequest, fmt.Sprintf("size must be between %d and %d", minQRSize, maxQRSize))
			return
		}
		size = v
	}

	png, err := qrcode.Encode(a.siteURL(wed.Slug), qrcode.Medium, size)
	if err != nil {
		writeError(w, r, fmt.Errorf("encode qr code: %w", err))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="%s-qr.png"`, wed.Slug))
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.Write(png)
}
