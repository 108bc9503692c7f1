// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/roblesbraun/braunstudio/internal/middleware"
	"github.com/roblesbraun/braunstudio/internal/models"
	"github.com/roblesbraun/braunstudio/internal/render"
)

// Couple serves the couple dashboard. Couples reach only weddings that list
// their email, and may edit only the name, couple emails and section content.
type Couple struct {
	weddings WeddingRepo
	guests   GuestRepo
	logos    LogoStore
	pages    PageInvalidator
	siteURL  func(slug string) string
}

// NewCouple creates a new Couple handler group.
func NewCouple(weddings WeddingRepo, guests GuestRepo, logos LogoStore, pages PageInvalidator, siteURL func(string) string) *Couple {
	return &Couple{weddings: weddings, guests: guests, logos: logos, pages: pages, siteURL: siteURL}
}

// Home renders the couple's wedding list.
func (c *Couple) Home(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	list, err := c.weddings.ListForEmail(r.Context(), sess.Email)
	if err != nil {
		slog.Error("list couple weddings failed", "error", err, "email", sess.Email)
		render.ServerError(w, r)
		return
	}
	render.Dashboard(w, &render.PageData{
		Session:   sess,
		CSRFToken: middleware.CSRFTokenFromCtx(r.Context()),
	}, render.DashboardData{Weddings: weddingPtrs(list), APIBase: "/app/couple/api"})
}

// ListWeddings returns the weddings the signed-in couple belongs to.
func (c *Couple) ListWeddings(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	list, err := c.weddings.ListForEmail(r.Context(), sess.Email)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]weddingResponse, len(list))
	for i := range list {
		out[i] = newWeddingResponse(&list[i], c.siteURL, c.logos)
	}
	render.JSON(w, http.StatusOK, out)
}

// load fetches the {id} wedding and checks the couple may see it. Weddings
// of other couples answer 404 so their existence is not revealed.
func (c *Couple) load(w http.ResponseWriter, r *http.Request) *models.Wedding {
	id, ok := weddingIDParam(r)
	if !ok {
		render.Error(w, http.StatusBadRequest, "invalid wedding id")
		return nil
	}
	wed, err := c.weddings.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return nil
	}
	if wed == nil || !canAccess(middleware.SessionFromCtx(r.Context()), wed) {
		render.Error(w, http.StatusNotFound, "wedding not found")
		return nil
	}
	return wed
}

// GetWedding returns one of the couple's weddings.
func (c *Couple) GetWedding(w http.ResponseWriter, r *http.Request) {
	if wed := c.load(w, r); wed != nil {
		render.JSON(w, http.StatusOK, newWeddingResponse(wed, c.siteURL, c.logos))
	}
}

// UpdateWedding applies the couple-editable fields.
func (c *Couple) UpdateWedding(w http.ResponseWriter, r *http.Request) {
	wed := c.load(w, r)
	if wed == nil {
		return
	}
	var req coupleFields
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if msg := validateStruct(&req); msg != "" {
		render.Error(w, http.StatusUnprocessableEntity, msg)
		return
	}
	if err := req.apply(wed); err != nil {
		writeError(w, r, err)
		return
	}
	if err := c.weddings.Update(r.Context(), wed); err != nil {
		writeError(w, r, err)
		return
	}
	if c.pages != nil {
		c.pages.InvalidateWedding(r.Context(), wed.Slug)
	}
	render.JSON(w, http.StatusOK, newWeddingResponse(wed, c.siteURL, c.logos))
}

// Guests lists the RSVPs of one of the couple's weddings.
func (c *Couple) Guests(w http.ResponseWriter, r *http.Request) {
	if wed := c.load(w, r); wed != nil {
		writeGuests(w, r, c.guests, wed)
	}
}
