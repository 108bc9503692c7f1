// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for Braun Studio.
// Handlers are grouped by concern (public, auth, admin, couple) and receive
// their dependencies through the handler struct.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/roblesbraun/braunstudio/internal/models"
	"github.com/roblesbraun/braunstudio/internal/registry"
	"github.com/roblesbraun/braunstudio/internal/session"
	"github.com/roblesbraun/braunstudio/internal/theme"
)

// WeddingRepo is the wedding persistence used by the handlers.
// *store.WeddingStore satisfies it.
type WeddingRepo interface {
	FindBySlug(ctx context.Context, slug string) (*models.Wedding, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Wedding, error)
	List(ctx context.Context) ([]models.Wedding, error)
	ListForEmail(ctx context.Context, email string) ([]models.Wedding, error)
	Create(ctx context.Context, w *models.Wedding) (*models.Wedding, error)
	Update(ctx context.Context, w *models.Wedding) error
	UpdateTheme(ctx context.Context, id uuid.UUID, t theme.Theme) error
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.WeddingStatus) error
	UpdateLogo(ctx context.Context, id uuid.UUID, mode theme.Mode, key *string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserRepo looks up dashboard users. *store.UserStore satisfies it.
type UserRepo interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	CheckPassword(user *models.User, password string) bool
}

// GuestRepo manages guest lists and reads RSVPs. *store.GuestStore
// satisfies it.
type GuestRepo interface {
	ListForWedding(ctx context.Context, weddingID uuid.UUID) ([]models.Guest, error)
	Stats(ctx context.Context, weddingID uuid.UUID) (models.GuestStats, error)
	FindByID(ctx context.Context, weddingID, guestID uuid.UUID) (*models.Guest, error)
	Add(ctx context.Context, g *models.Guest) (*models.Guest, error)
	AddBulk(ctx context.Context, weddingID uuid.UUID, guests []models.Guest) (models.GuestImport, error)
	Update(ctx context.Context, g *models.Guest) error
	Delete(ctx context.Context, weddingID, guestID uuid.UUID) error
}

// GiftRepo reads the contribution ledger. *store.GiftStore satisfies it.
type GiftRepo interface {
	ListForWedding(ctx context.Context, weddingID uuid.UUID) ([]models.GiftContribution, error)
	TotalsByGift(ctx context.Context, weddingID uuid.UUID) ([]models.GiftTotal, error)
}

// TemplateCatalog answers template questions. *registry.Registry satisfies it.
type TemplateCatalog interface {
	List() []registry.Metadata
	Metadata(id string) (registry.Metadata, bool)
	IsValid(id, version string) bool
	LatestVersion(id string) (string, bool)
}

// LogoStore keeps uploaded logos. *storage.Client satisfies it.
type LogoStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	Delete(ctx context.Context, key string) error
	FileURL(key string) string
}

// PageInvalidator drops cached public pages of a wedding.
type PageInvalidator interface {
	InvalidateWedding(ctx context.Context, slug string)
}

// maxJSONBody caps API request bodies. Section content is the largest payload.
const maxJSONBody = 1 << 20

// errBadJSON is returned by decodeJSON for malformed or oversized bodies.
var errBadJSON = errors.New("invalid JSON body")

// decodeJSON reads a JSON body into v, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadJSON, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: trailing data", errBadJSON)
	}
	return nil
}

// weddingIDParam parses the {id} URL parameter.
func weddingIDParam(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	return id, err == nil
}

// canAccess reports whether the signed-in user may work on w: platform
// admins see everything, couples only weddings listing their email.
func canAccess(sess *session.Data, w *models.Wedding) bool {
	if sess == nil || w == nil {
		return false
	}
	return sess.PlatformAdmin || w.HasCoupleEmail(sess.Email)
}

// weddingResponse is the API view of a wedding.
type weddingResponse struct {
	*models.Wedding
	URL          string `json:"url"`
	LogoLightURL string `json:"logo_light_url,omitempty"`
	LogoDarkURL  string `json:"logo_dark_url,omitempty"`
}

func newWeddingResponse(w *models.Wedding, siteURL func(string) string, logos LogoStore) weddingResponse {
	resp := weddingResponse{Wedding: w}
	if siteURL != nil {
		resp.URL = siteURL(w.Slug)
	}
	if logos != nil {
		if w.LogoLightKey != nil {
			resp.LogoLightURL = logos.FileURL(*w.LogoLightKey)
		}
		if w.LogoDarkKey != nil {
			resp.LogoDarkURL = logos.FileURL(*w.LogoDarkKey)
		}
	}
	return resp
}
