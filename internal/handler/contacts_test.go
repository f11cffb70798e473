package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contactshub/contacts-api/internal/config"
	"github.com/contactshub/contacts-api/internal/handler"
	"github.com/contactshub/contacts-api/internal/middleware"
	"github.com/contactshub/contacts-api/internal/model"
	"github.com/contactshub/contacts-api/internal/repository"
)

// memContacts is an in-memory ContactStore used in place of MySQL.
type memContacts struct {
	mu   sync.Mutex
	seq  uint64
	byID map[uint64]*model.Contact
}

func newMemContacts() *memContacts {
	return &memContacts{byID: make(map[uint64]*model.Contact)}
}

func (m *memContacts) List(ctx context.Context, ownerID uint64, page, limit int, favorite *bool) ([]model.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	all := make([]model.Contact, 0)
	for _, c := range m.byID {
		if c.OwnerID != ownerID {
			continue
		}
		if favorite != nil && c.Favorite != *favorite {
			continue
		}
		all = append(all, *c)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Name != all[j].Name {
			return all[i].Name < all[j].Name
		}
		return all[i].ID < all[j].ID
	})
	start := (page - 1) * limit
	if start >= len(all) {
		return []model.Contact{}, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

func (m *memContacts) GetByID(ctx context.Context, ownerID, id uint64) (model.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byID[id]
	if !ok || c.OwnerID != ownerID {
		return model.Contact{}, repository.ErrNotFound
	}
	return *c, nil
}

func (m *memContacts) Create(ctx context.Context, ownerID uint64, name, email, phone string) (model.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	c := &model.Contact{
		ID: m.seq, OwnerID: ownerID, Name: name, Email: email, Phone: phone,
		CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC(),
	}
	m.byID[m.seq] = c
	return *c, nil
}

func (m *memContacts) Update(ctx context.Context, ownerID, id uint64, upd repository.ContactUpdate) (model.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byID[id]
	if !ok || c.OwnerID != ownerID {
		return model.Contact{}, repository.ErrNotFound
	}
	if upd.Name != nil {
		c.Name = *upd.Name
	}
	if upd.Email != nil {
		c.Email = *upd.Email
	}
	if upd.Phone != nil {
		c.Phone = *upd.Phone
	}
	return *c, nil
}

func (m *memContacts) Delete(ctx context.Context, ownerID, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byID[id]
	if !ok || c.OwnerID != ownerID {
		return repository.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memContacts) SetFavorite(ctx context.Context, ownerID, id uint64, favorite bool) (model.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byID[id]
	if !ok || c.OwnerID != ownerID {
		return model.Contact{}, repository.ErrNotFound
	}
	c.Favorite = favorite
	return *c, nil
}

var _ repository.ContactStore = (*memContacts)(nil)

// invoke runs a contact handler directly with a pre-bound user.
func invoke(t *testing.T, fn echo.HandlerFunc, user model.User, method, path, body string, params map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	for k, v := range params {
		c.SetParamNames(k)
		c.SetParamValues(v)
	}
	middleware.SetCurrentUser(c, user)
	require.NoError(t, fn(c))
	return rec
}

func newContactHandler() (*handler.ContactHandler, *memContacts) {
	store := newMemContacts()
	return handler.NewContactHandler(store, nil, config.CacheConfig{}), store
}

var owner = model.User{ID: 1, Email: "a@x.com", Subscription: model.SubscriptionStarter}

func TestContactCreate(t *testing.T) {
	h, store := newContactHandler()

	rec := invoke(t, h.Create, owner, http.MethodPost, "/api/contacts",
		`{"name":"Allen Raymond","email":"nulla.ante@vestibul.co.uk","phone":"(992) 914-3792"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	stored, err := store.GetByID(context.Background(), owner.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "Allen Raymond", stored.Name)
	assert.False(t, stored.Favorite)
}

func TestContactCreate_Validation(t *testing.T) {
	h, _ := newContactHandler()

	for name, body := range map[string]string{
		"missing name": `{"email":"a@b.com","phone":"(992) 914-3792"}`,
		"bad email":    `{"name":"X","email":"nope","phone":"(992) 914-3792"}`,
		"bad phone":    `{"name":"X","email":"a@b.com","phone":"992-914-3792"}`,
	} {
		rec := invoke(t, h.Create, owner, http.MethodPost, "/api/contacts", body, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, name)
	}
}

func TestContactGet_OwnerIsolation(t *testing.T) {
	h, store := newContactHandler()
	_, err := store.Create(context.Background(), 2, "Other", "o@x.com", "(111) 222-3333")
	require.NoError(t, err)

	// Contact 1 belongs to user 2; user 1 must see 404, not 403.
	rec := invoke(t, h.GetByID, owner, http.MethodGet, "/api/contacts/1", "", map[string]string{"contactId": "1"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestContactGet_InvalidID(t *testing.T) {
	h, _ := newContactHandler()
	rec := invoke(t, h.GetByID, owner, http.MethodGet, "/api/contacts/abc", "", map[string]string{"contactId": "abc"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestContactList_PaginationAndFilter(t *testing.T) {
	h, store := newContactHandler()
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		c, err := store.Create(ctx, owner.ID, "Contact "+string(rune('A'+i)), "c@x.com", "(111) 222-3333")
		require.NoError(t, err)
		if i%2 == 0 {
			_, err = store.SetFavorite(ctx, owner.ID, c.ID, true)
			require.NoError(t, err)
		}
	}

	rec := invoke(t, h.List, owner, http.MethodGet, "/api/contacts?page=1&limit=2", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody(t, rec)["data"], 2)

	rec = invoke(t, h.List, owner, http.MethodGet, "/api/contacts?page=3&limit=2", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody(t, rec)["data"], 1)

	rec = invoke(t, h.List, owner, http.MethodGet, "/api/contacts?favorite=true", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody(t, rec)["data"], 3)

	rec = invoke(t, h.List, owner, http.MethodGet, "/api/contacts?favorite=maybe", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestContactUpdate(t *testing.T) {
	h, store := newContactHandler()
	_, err := store.Create(context.Background(), owner.ID, "Old Name", "old@x.com", "(111) 222-3333")
	require.NoError(t, err)

	rec := invoke(t, h.Update, owner, http.MethodPut, "/api/contacts/1",
		`{"name":"New Name"}`, map[string]string{"contactId": "1"})
	require.Equal(t, http.StatusOK, rec.Code)

	stored, err := store.GetByID(context.Background(), owner.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "New Name", stored.Name)
	assert.Equal(t, "old@x.com", stored.Email, "untouched fields must survive")

	rec = invoke(t, h.Update, owner, http.MethodPut, "/api/contacts/1", `{}`, map[string]string{"contactId": "1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = invoke(t, h.Update, owner, http.MethodPut, "/api/contacts/99",
		`{"name":"X"}`, map[string]string{"contactId": "99"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestContactDelete(t *testing.T) {
	h, store := newContactHandler()
	_, err := store.Create(context.Background(), owner.ID, "Target", "t@x.com", "(111) 222-3333")
	require.NoError(t, err)

	rec := invoke(t, h.Delete, owner, http.MethodDelete, "/api/contacts/1", "", map[string]string{"contactId": "1"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = invoke(t, h.Delete, owner, http.MethodDelete, "/api/contacts/1", "", map[string]string{"contactId": "1"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestContactFavoriteToggle(t *testing.T) {
	h, store := newContactHandler()
	_, err := store.Create(context.Background(), owner.ID, "Fav", "f@x.com", "(111) 222-3333")
	require.NoError(t, err)

	rec := invoke(t, h.SetFavorite, owner, http.MethodPatch, "/api/contacts/1/favorite",
		`{"favorite":true}`, map[string]string{"contactId": "1"})
	require.Equal(t, http.StatusOK, rec.Code)
	stored, err := store.GetByID(context.Background(), owner.ID, 1)
	require.NoError(t, err)
	assert.True(t, stored.Favorite)

	// Missing or non-boolean favorite is a validation failure.
	rec = invoke(t, h.SetFavorite, owner, http.MethodPatch, "/api/contacts/1/favorite",
		`{}`, map[string]string{"contactId": "1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
