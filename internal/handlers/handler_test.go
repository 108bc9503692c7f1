// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for the handler tests:
// in-memory repositories, a miniredis-backed Valkey and the real template
// catalog.
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/roblesbraun/braunstudio/internal/cache"
	"github.com/roblesbraun/braunstudio/internal/effects"
	"github.com/roblesbraun/braunstudio/internal/engine"
	"github.com/roblesbraun/braunstudio/internal/guestauth"
	"github.com/roblesbraun/braunstudio/internal/middleware"
	"github.com/roblesbraun/braunstudio/internal/models"
	"github.com/roblesbraun/braunstudio/internal/session"
	"github.com/roblesbraun/braunstudio/internal/store"
	"github.com/roblesbraun/braunstudio/internal/templates/catalog"
	"github.com/roblesbraun/braunstudio/internal/theme"
)

// fakeWeddings is an in-memory WeddingRepo. It hands out copies so handlers
// cannot change stored state without calling an update method.
type fakeWeddings struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*models.Wedding
}

func newFakeWeddings() *fakeWeddings {
	return &fakeWeddings{byID: make(map[uuid.UUID]*models.Wedding)}
}

func (f *fakeWeddings) put(w *models.Wedding) *models.Wedding {
	f.mu.Lock()
	defer f.mu.Unlock()
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	cp := *w
	f.byID[w.ID] = &cp
	return w
}

func (f *fakeWeddings) get(id uuid.UUID) *models.Wedding {
	f.mu.Lock()
	defer f.mu.Unlock()
	if w, ok := f.byID[id]; ok {
		cp := *w
		return &cp
	}
	return nil
}

func (f *fakeWeddings) FindBySlug(_ context.Context, slug string) (*models.Wedding, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, w := range f.byID {
		if w.Slug == slug {
			cp := *w
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeWeddings) FindByID(_ context.Context, id uuid.UUID) (*models.Wedding, error) {
	return f.get(id), nil
}

func (f *fakeWeddings) List(_ context.Context) ([]models.Wedding, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Wedding, 0, len(f.byID))
	for _, w := range f.byID {
		out = append(out, *w)
	}
	return out, nil
}

func (f *fakeWeddings) ListForEmail(_ context.Context, email string) ([]models.Wedding, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Wedding
	for _, w := range f.byID {
		if w.HasCoupleEmail(email) {
			out = append(out, *w)
		}
	}
	return out, nil
}

func (f *fakeWeddings) Create(ctx context.Context, w *models.Wedding) (*models.Wedding, error) {
	if existing, _ := f.FindBySlug(ctx, w.Slug); existing != nil {
		return nil, store.ErrSlugTaken
	}
	cp := *w
	cp.ID = uuid.New()
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	f.put(&cp)
	return &cp, nil
}

func (f *fakeWeddings) modify(id uuid.UUID, fn func(w *models.Wedding) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.byID[id]
	if !ok {
		return store.ErrNotFound
	}
	return fn(w)
}

func (f *fakeWeddings) Update(_ context.Context, w *models.Wedding) error {
	return f.modify(w.ID, func(cur *models.Wedding) error {
		if cur.IsLive() && (cur.TemplateID != w.TemplateID || cur.TemplateVersion != w.TemplateVersion) {
			return store.ErrTemplateLocked
		}
		status, t := cur.Status, cur.Theme
		light, dark := cur.LogoLightKey, cur.LogoDarkKey
		*cur = *w
		cur.Status, cur.Theme = status, t
		cur.LogoLightKey, cur.LogoDarkKey = light, dark
		return nil
	})
}

func (f *fakeWeddings) UpdateTheme(_ context.Context, id uuid.UUID, t theme.Theme) error {
	return f.modify(id, func(w *models.Wedding) error {
		w.Theme = t
		return nil
	})
}

func (f *fakeWeddings) UpdateStatus(_ context.Context, id uuid.UUID, from, to models.WeddingStatus) error {
	return f.modify(id, func(w *models.Wedding) error {
		if w.Status != from {
			return store.ErrStatusConflict
		}
		w.Status = to
		return nil
	})
}

func (f *fakeWeddings) UpdateLogo(_ context.Context, id uuid.UUID, mode theme.Mode, key *string) error {
	return f.modify(id, func(w *models.Wedding) error {
		if mode == theme.Dark {
			w.LogoDarkKey = key
		} else {
			w.LogoLightKey = key
		}
		return nil
	})
}

func (f *fakeWeddings) Delete(_ context.Context, id uuid.UUID) error {
	return f.modify(id, func(w *models.Wedding) error {
		if !w.IsDraft() {
			return store.ErrNotDraft
		}
		delete(f.byID, id)
		return nil
	})
}

// fakeUsers keeps plaintext passwords next to the users.
type fakeUsers struct {
	users     map[string]*models.User
	passwords map[string]string
}

func (f *fakeUsers) add(email, password string, role models.Role) *models.User {
	u := &models.User{ID: uuid.New(), Email: email, DisplayName: "Test User", Role: role}
	f.users[email] = u
	f.passwords[email] = password
	return u
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	return f.users[email], nil
}

func (f *fakeUsers) CheckPassword(u *models.User, password string) bool {
	return f.passwords[u.Email] == password
}

// fakeGuests is both the guest ledger and the RSVP writer.
type fakeGuests struct {
	mu     sync.Mutex
	guests []models.Guest
}

func (f *fakeGuests) RecordRSVP(_ context.Context, g *models.Guest) (*models.Guest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *g
	cp.ID = uuid.New()
	f.guests = append(f.guests, cp)
	return &cp, nil
}

func (f *fakeGuests) ListForWedding(_ context.Context, id uuid.UUID) ([]models.Guest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Guest
	for _, g := range f.guests {
		if g.WeddingID == id {
			out = append(out, g)
		}
	}
	return out, nil
}

// phoneListed reports whether another guest of the wedding has the phone.
// Callers hold f.mu.
func (f *fakeGuests) phoneListed(weddingID, except uuid.UUID, phone string) bool {
	for _, g := range f.guests {
		if g.WeddingID == weddingID && g.ID != except && g.Phone == phone {
			return true
		}
	}
	return false
}

func (f *fakeGuests) FindByID(_ context.Context, weddingID, guestID uuid.UUID) (*models.Guest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, g := range f.guests {
		if g.ID == guestID && g.WeddingID == weddingID {
			cp := g
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeGuests) Add(_ context.Context, g *models.Guest) (*models.Guest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.phoneListed(g.WeddingID, uuid.Nil, g.Phone) {
		return nil, store.ErrPhoneTaken
	}
	cp := *g
	cp.ID = uuid.New()
	cp.RSVPStatus = models.RSVPPending
	f.guests = append(f.guests, cp)
	return &cp, nil
}

func (f *fakeGuests) AddBulk(_ context.Context, weddingID uuid.UUID, guests []models.Guest) (models.GuestImport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	res := models.GuestImport{Errors: []string{}}
	for _, g := range guests {
		if f.phoneListed(weddingID, uuid.Nil, g.Phone) {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("guest with phone %s already exists", g.Phone))
			continue
		}
		g.ID = uuid.New()
		g.WeddingID = weddingID
		g.RSVPStatus = models.RSVPPending
		f.guests = append(f.guests, g)
		res.Added++
	}
	return res, nil
}

func (f *fakeGuests) Update(_ context.Context, g *models.Guest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.phoneListed(g.WeddingID, g.ID, g.Phone) {
		return store.ErrPhoneTaken
	}
	for i := range f.guests {
		if f.guests[i].ID == g.ID && f.guests[i].WeddingID == g.WeddingID {
			f.guests[i] = *g
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeGuests) Delete(_ context.Context, weddingID, guestID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, g := range f.guests {
		if g.ID == guestID && g.WeddingID == weddingID {
			f.guests = append(f.guests[:i], f.guests[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeGuests) Stats(ctx context.Context, id uuid.UUID) (models.GuestStats, error) {
	list, _ := f.ListForWedding(ctx, id)
	var s models.GuestStats
	for _, g := range list {
		s.Total++
		switch g.RSVPStatus {
		case models.RSVPConfirmed:
			s.Confirmed++
			s.Attending += 1 + g.PlusOnes
		case models.RSVPDeclined:
			s.Declined++
		default:
			s.Pending++
		}
	}
	return s, nil
}

// fakeGifts is both the contribution ledger and its writer.
type fakeGifts struct {
	mu   sync.Mutex
	list []models.GiftContribution
}

func (f *fakeGifts) Record(_ context.Context, c *models.GiftContribution) (*models.GiftContribution, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *c
	cp.ID = uuid.New()
	f.list = append(f.list, cp)
	return &cp, nil
}

func (f *fakeGifts) ListForWedding(_ context.Context, id uuid.UUID) ([]models.GiftContribution, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.GiftContribution
	for _, c := range f.list {
		if c.WeddingID == id {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeGifts) TotalsByGift(ctx context.Context, id uuid.UUID) ([]models.GiftTotal, error) {
	list, _ := f.ListForWedding(ctx, id)
	index := map[string]int{}
	var out []models.GiftTotal
	for _, c := range list {
		i, ok := index[c.GiftID]
		if !ok {
			i = len(out)
			index[c.GiftID] = i
			out = append(out, models.GiftTotal{GiftID: c.GiftID})
		}
		out[i].PledgedCents += c.AmountCents
		out[i].Count++
	}
	return out, nil
}

// fakeLogos records uploaded object keys.
type fakeLogos struct {
	mu      sync.Mutex
	objects map[string]string // key -> content type
	deleted []string
}

func (f *fakeLogos) Upload(_ context.Context, key, contentType string, body io.Reader, _ int64) error {
	if _, err := io.Copy(io.Discard, body); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = contentType
	return nil
}

func (f *fakeLogos) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeLogos) FileURL(key string) string { return "https://cdn.test/" + key }

// fakeMessenger captures the last code sent.
type fakeMessenger struct {
	mu    sync.Mutex
	phone string
	code  string
}

func (m *fakeMessenger) SendCode(_ context.Context, _, phone, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.phone, m.code = phone, code
	return nil
}

func (m *fakeMessenger) last() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.code
}

// recordingInvalidator wraps the page cache and notes invalidated slugs.
type recordingInvalidator struct {
	pages *cache.PageCache
	mu    sync.Mutex
	slugs []string
}

func (r *recordingInvalidator) InvalidateWedding(ctx context.Context, slug string) {
	r.mu.Lock()
	r.slugs = append(r.slugs, slug)
	r.mu.Unlock()
	r.pages.InvalidateWedding(ctx, slug)
}

func (r *recordingInvalidator) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.slugs)
}

// testEnv holds all dependencies for handler tests.
type testEnv struct {
	MR        *miniredis.Miniredis
	Valkey    *redis.Client
	Sessions  *session.Store
	Weddings  *fakeWeddings
	Users     *fakeUsers
	Guests    *fakeGuests
	Gifts     *fakeGifts
	Logos     *fakeLogos
	Messenger *fakeMessenger
	PageCache *cache.PageCache
	Pages     *recordingInvalidator
	Admin     *Admin
	Auth      *Auth
	Couple    *Couple
	Public    *Public
}

func siteURL(slug string) string { return "https://" + slug + ".braunstud.io" }

// newTestEnv creates a complete test environment with all handler dependencies.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mr := miniredis.RunT(t)
	vk := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { vk.Close() })

	reg, err := catalog.New()
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}

	env := &testEnv{
		MR:        mr,
		Valkey:    vk,
		Sessions:  session.NewStore(vk, false),
		Weddings:  newFakeWeddings(),
		Users:     &fakeUsers{users: map[string]*models.User{}, passwords: map[string]string{}},
		Guests:    &fakeGuests{},
		Gifts:     &fakeGifts{},
		Logos:     &fakeLogos{objects: map[string]string{}},
		Messenger: &fakeMessenger{},
		PageCache: cache.NewPageCache(vk, time.Minute),
	}
	env.Pages = &recordingInvalidator{pages: env.PageCache}

	gate := effects.Gate{Live: effects.Set{
		RSVPs:     effects.StoreRSVPs{Guests: env.Guests},
		Payments:  effects.LedgerPayments{Gifts: env.Gifts},
		Messenger: env.Messenger,
		Codes:     guestauth.New(vk),
	}}
	eng := engine.New(reg, env.Logos)

	env.Public = NewPublic(env.Weddings, eng, gate, env.PageCache)
	env.Auth = NewAuth(env.Sessions, env.Users, []string{"Owner@BraunStud.io"})
	env.Admin = NewAdmin(env.Weddings, env.Guests, env.Gifts, reg, env.Logos, env.Pages, siteURL)
	env.Couple = NewCouple(env.Weddings, env.Guests, env.Logos, env.Pages, siteURL)
	return env
}

// seedWedding stores a wedding with sensible defaults and returns it.
func (e *testEnv) seedWedding(slug string, status models.WeddingStatus, emails ...string) *models.Wedding {
	date := "2026-06-14"
	return e.Weddings.put(&models.Wedding{
		Name:            "Ana & Luis",
		Slug:            slug,
		Status:          status,
		TemplateID:      "classic",
		TemplateVersion: "v2",
		EnabledSections: []string{"hero", "rsvp", "gifts"},
		SectionContent: map[string]json.RawMessage{
			"gifts": json.RawMessage(`{"title":"Gifts","mode":"gifts","items":[{"id":"honeymoon","name":"Honeymoon","priceInCents":50000}]}`),
		},
		Theme:         theme.Theme{Light: theme.Palette{}, Dark: theme.Palette{}},
		PaymentStatus: models.PaymentUnpaid,
		CoupleEmails:  emails,
		WeddingDate:   &date,
	})
}

func adminSession() *session.Data {
	return &session.Data{UserID: uuid.New(), Email: "owner@braunstud.io", DisplayName: "Owner", PlatformAdmin: true}
}

func coupleSession(email string) *session.Data {
	return &session.Data{UserID: uuid.New(), Email: email, DisplayName: "Couple"}
}

// withURLParams adds chi URL parameters to a request, given as key/value pairs.
func withURLParams(r *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// withSession attaches session data the way LoadSession does.
func withSession(r *http.Request, sess *session.Data) *http.Request {
	return r.WithContext(middleware.WithSession(r.Context(), sess))
}

// decodeBody unmarshals a JSON response body.
func decodeBody(t *testing.T, body io.Reader, v any) {
	t.Helper()
	if err := json.NewDecoder(body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func idPath(id uuid.UUID, suffix string) string {
	return fmt.Sprintf("/app/admin/api/weddings/%s%s", id, suffix)
}
