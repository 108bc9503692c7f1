// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/roblesbraun/braunstudio/internal/models"
	"github.com/roblesbraun/braunstudio/internal/render"
	"github.com/roblesbraun/braunstudio/internal/store"
)

type guestRequest struct {
	Name            string `json:"name" validate:"required,max=200"`
	Phone           string `json:"phone" validate:"required,phone"`
	Email           string `json:"email" validate:"omitempty,email,max=254"`
	WhatsappConsent bool   `json:"whatsapp_consent"`
}

func (g *guestRequest) normalize() {
	g.Name = strings.TrimSpace(g.Name)
	g.Phone = normalizePhone(g.Phone)
	g.Email = strings.ToLower(strings.TrimSpace(g.Email))
}

func (g *guestRequest) guest(weddingID uuid.UUID) models.Guest {
	return models.Guest{
		WeddingID:       weddingID,
		Name:            g.Name,
		Phone:           g.Phone,
		Email:           g.Email,
		WhatsappConsent: g.WhatsappConsent,
	}
}

// guestImportRequest is one bulk import, at most 500 guests.
type guestImportRequest struct {
	Guests []guestRequest `json:"guests" validate:"required,min=1,max=500,dive"`
}

// guestPatch changes a guest's contact details. Unset fields are kept; an
// empty email clears it.
type guestPatch struct {
	Name            *string `json:"name" validate:"omitempty,max=200"`
	Phone           *string `json:"phone" validate:"omitempty,phone"`
	Email           *string `json:"email" validate:"omitempty,email,max=254"`
	WhatsappConsent *bool   `json:"whatsapp_consent"`
}

func (p *guestPatch) normalize() {
	if p.Name != nil {
		*p.Name = strings.TrimSpace(*p.Name)
	}
	if p.Phone != nil {
		*p.Phone = normalizePhone(*p.Phone)
	}
	if p.Email != nil {
		*p.Email = strings.ToLower(strings.TrimSpace(*p.Email))
	}
}

func (p *guestPatch) apply(g *models.Guest) error {
	if p.Name != nil {
		if *p.Name == "" {
			return apiErrorf(http.StatusUnprocessableEntity, "name is required")
		}
		g.Name = *p.Name
	}
	if p.Phone != nil {
		if *p.Phone == "" {
			return apiErrorf(http.StatusUnprocessableEntity, "phone is required")
		}
		g.Phone = *p.Phone
	}
	if p.Email != nil {
		g.Email = *p.Email
	}
	if p.WhatsappConsent != nil {
		g.WhatsappConsent = *p.WhatsappConsent
	}
	return nil
}

func guestIDParam(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "guestID"))
	return id, err == nil
}

// writeGuestError answers a guest mutation failure. A missing row here is
// the guest, the wedding was loaded before.
func writeGuestError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		render.Error(w, http.StatusNotFound, "guest not found")
	case errors.Is(err, store.ErrPhoneTaken):
		render.Error(w, http.StatusConflict, "a guest with this phone number already exists")
	default:
		writeError(w, r, err)
	}
}

func addGuest(w http.ResponseWriter, r *http.Request, guests GuestRepo, wed *models.Wedding) {
	var req guestRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	req.normalize()
	if msg := validateStruct(&req); msg != "" {
		render.Error(w, http.StatusUnprocessableEntity, msg)
		return
	}
	g := req.guest(wed.ID)
	saved, err := guests.Add(r.Context(), &g)
	if err != nil {
		writeGuestError(w, r, err)
		return
	}
	render.JSON(w, http.StatusCreated, saved)
}

func importGuests(w http.ResponseWriter, r *http.Request, guests GuestRepo, wed *models.Wedding) {
	var req guestImportRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	for i := range req.Guests {
		req.Guests[i].normalize()
	}
	if msg := validateStruct(&req); msg != "" {
		render.Error(w, http.StatusUnprocessableEntity, msg)
		return
	}
	list := make([]models.Guest, len(req.Guests))
	for i := range req.Guests {
		list[i] = req.Guests[i].guest(wed.ID)
	}
	res, err := guests.AddBulk(r.Context(), wed.ID, list)
	if err != nil {
		writeError(w, r, err)
		return
	}
	slog.Info("guests imported", "wedding_id", wed.ID, "added", res.Added, "skipped", res.Skipped)
	render.JSON(w, http.StatusOK, res)
}

func updateGuest(w http.ResponseWriter, r *http.Request, guests GuestRepo, wed *models.Wedding) {
	guestID, ok := guestIDParam(r)
	if !ok {
		render.Error(w, http.StatusBadRequest, "invalid guest id")
		return
	}
	g, err := guests.FindByID(r.Context(), wed.ID, guestID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if g == nil {
		render.Error(w, http.StatusNotFound, "guest not found")
		return
	}
	var req guestPatch
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	req.normalize()
	if msg := validateStruct(&req); msg != "" {
		render.Error(w, http.StatusUnprocessableEntity, msg)
		return
	}
	if err := req.apply(g); err != nil {
		writeError(w, r, err)
		return
	}
	if err := guests.Update(r.Context(), g); err != nil {
		writeGuestError(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, g)
}

func removeGuest(w http.ResponseWriter, r *http.Request, guests GuestRepo, wed *models.Wedding) {
	guestID, ok := guestIDParam(r)
	if !ok {
		render.Error(w, http.StatusBadRequest, "invalid guest id")
		return
	}
	if err := guests.Delete(r.Context(), wed.ID, guestID); err != nil {
		writeGuestError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddGuest puts one guest on the wedding's list.
func (a *Admin) AddGuest(w http.ResponseWriter, r *http.Request) {
	if wed := a.load(w, r); wed != nil {
		addGuest(w, r, a.guests, wed)
	}
}

// ImportGuests adds a batch of guests, skipping phones already listed.
func (a *Admin) ImportGuests(w http.ResponseWriter, r *http.Request) {
	if wed := a.load(w, r); wed != nil {
		importGuests(w, r, a.guests, wed)
	}
}

// UpdateGuest edits a guest's contact details.
func (a *Admin) UpdateGuest(w http.ResponseWriter, r *http.Request) {
	if wed := a.load(w, r); wed != nil {
		updateGuest(w, r, a.guests, wed)
	}
}

// RemoveGuest takes a guest off the list.
func (a *Admin) RemoveGuest(w http.ResponseWriter, r *http.Request) {
	if wed := a.load(w, r); wed != nil {
		removeGuest(w, r, a.guests, wed)
	}
}

func (c *Couple) AddGuest(w http.ResponseWriter, r *http.Request) {
	if wed := c.load(w, r); wed != nil {
		addGuest(w, r, c.guests, wed)
	}
}

func (c *Couple) ImportGuests(w http.ResponseWriter, r *http.Request) {
	if wed := c.load(w, r); wed != nil {
		importGuests(w, r, c.guests, wed)
	}
}

func (c *Couple) UpdateGuest(w http.ResponseWriter, r *http.Request) {
	if wed := c.load(w, r); wed != nil {
		updateGuest(w, r, c.guests, wed)
	}
}

func (c *Couple) RemoveGuest(w http.ResponseWriter, r *http.Request) {
	if wed := c.load(w, r); wed != nil {
		removeGuest(w, r, c.guests, wed)
	}
}
