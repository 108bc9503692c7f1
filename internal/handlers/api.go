// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/roblesbraun/braunstudio/internal/models"
	"github.com/roblesbraun/braunstudio/internal/render"
	"github.com/roblesbraun/braunstudio/internal/sections"
	"github.com/roblesbraun/braunstudio/internal/store"
)

// apiError carries the status an API failure should be answered with.
type apiError struct {
	status int
	msg    string
}

func (e *apiError) Error() string { return e.msg }

func apiErrorf(status int, format string, args ...any) error {
	return &apiError{status: status, msg: fmt.Sprintf(format, args...)}
}

// writeError maps handler and store errors onto JSON error responses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ae *apiError
	switch {
	case errors.As(err, &ae):
		render.Error(w, ae.status, ae.msg)
	case errors.Is(err, errBadJSON):
		render.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrNotFound):
		render.Error(w, http.StatusNotFound, "wedding not found")
	case errors.Is(err, store.ErrSlugTaken):
		render.Error(w, http.StatusConflict, "slug is already taken")
	case errors.Is(err, store.ErrNotDraft):
		render.Error(w, http.StatusConflict, "only draft weddings can be deleted")
	case errors.Is(err, store.ErrPhoneTaken):
		render.Error(w, http.StatusConflict, "a guest with this phone number already exists")
	case errors.Is(err, store.ErrTemplateLocked):
		render.Error(w, http.StatusConflict, "the template of a live wedding cannot be changed")
	case errors.Is(err, store.ErrStatusConflict):
		render.Error(w, http.StatusConflict, "wedding status changed, reload and try again")
	default:
		slog.Error("api request failed", "error", err, "method", r.Method, "path", r.URL.Path)
		render.Error(w, http.StatusInternalServerError, "internal error")
	}
}

// normalizeEmails lowercases, trims and de-duplicates couple emails.
func normalizeEmails(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, e := range in {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" || seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	return out
}

// mergeContent applies a partial section content update: each key replaces
// that section's record and a JSON null removes it. The result is checked
// strictly before it is returned.
func mergeContent(current, patch map[string]json.RawMessage) (map[string]json.RawMessage, error) {
	out := make(map[string]json.RawMessage, len(current)+len(patch))
	for k, v := range current {
		out[k] = v
	}
	for k, v := range patch {
		if bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			delete(out, k)
			continue
		}
		out[k] = v
	}
	if err := sections.ValidateContent(out); err != nil {
		return nil, apiErrorf(http.StatusUnprocessableEntity, "section content: %v", err)
	}
	return out, nil
}

// coupleFields are the wedding fields couples may edit themselves.
type coupleFields struct {
	Name           *string                    `json:"name" validate:"omitempty,min=1,max=200"`
	CoupleEmails   *[]string                  `json:"couple_emails" validate:"omitempty,min=1,dive,email"`
	SectionContent map[string]json.RawMessage `json:"section_content"`
}

// apply copies the set fields onto w.
func (f *coupleFields) apply(w *models.Wedding) error {
	if f.Name != nil {
		name := strings.TrimSpace(*f.Name)
		if name == "" {
			return apiErrorf(http.StatusUnprocessableEntity, "name is required")
		}
		w.Name = name
	}
	if f.CoupleEmails != nil {
		emails := normalizeEmails(*f.CoupleEmails)
		if len(emails) == 0 {
			return apiErrorf(http.StatusUnprocessableEntity, "couple_emails must list at least one address")
		}
		w.CoupleEmails = emails
	}
	if f.SectionContent != nil {
		merged, err := mergeContent(w.SectionContent, f.SectionContent)
		if err != nil {
			return err
		}
		w.SectionContent = merged
	}
	return nil
}
