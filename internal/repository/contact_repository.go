package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/contactshub/contacts-api/internal/model"
)

// ContactUpdate carries the optional fields of a partial contact update.
// A nil pointer leaves the column untouched.
type ContactUpdate struct {
	Name  *string
	Email *string
	Phone *string
}

// ContactStore is the persistence contract for the contacts handlers.
type ContactStore interface {
	List(ctx context.Context, ownerID uint64, page, limit int, favorite *bool) ([]model.Contact, error)
	GetByID(ctx context.Context, ownerID, id uint64) (model.Contact, error)
	Create(ctx context.Context, ownerID uint64, name, email, phone string) (model.Contact, error)
	Update(ctx context.Context, ownerID, id uint64, upd ContactUpdate) (model.Contact, error)
	Delete(ctx context.Context, ownerID, id uint64) error
	SetFavorite(ctx context.Context, ownerID, id uint64, favorite bool) (model.Contact, error)
}

type ContactRepo struct{ DB *sql.DB }

func NewContactRepo(db *sql.DB) *ContactRepo { return &ContactRepo{DB: db} }

const contactColumns = "id,owner_id,name,email,phone,favorite,created_at,updated_at"

// List returns one page of the owner's contacts, optionally filtered by
// favorite status. Results are ordered by name for stable pagination.
func (r *ContactRepo) List(ctx context.Context, ownerID uint64, page, limit int, favorite *bool) ([]model.Contact, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	query := "SELECT " + contactColumns + " FROM contacts WHERE owner_id=?"
	args := []any{ownerID}
	if favorite != nil {
		query += " AND favorite=?"
		args = append(args, *favorite)
	}
	query += " ORDER BY name, id LIMIT ? OFFSET ?"
	args = append(args, limit, (page-1)*limit)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contacts := make([]model.Contact, 0, limit)
	for rows.Next() {
		var c model.Contact
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Email, &c.Phone,
			&c.Favorite, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

// GetByID fetches one contact scoped to its owner. Another user's contact
// is indistinguishable from a missing one.
func (r *ContactRepo) GetByID(ctx context.Context, ownerID, id uint64) (model.Contact, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+contactColumns+" FROM contacts WHERE id=? AND owner_id=? LIMIT 1", id, ownerID))
}

// Create inserts a contact for the owner and returns the stored row.
func (r *ContactRepo) Create(ctx context.Context, ownerID uint64, name, email, phone string) (model.Contact, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO contacts (owner_id, name, email, phone) VALUES (?,?,?,?)",
		ownerID, name, email, phone)
	if err != nil {
		return model.Contact{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Contact{}, err
	}
	return r.GetByID(ctx, ownerID, uint64(id))
}

// Update applies a partial update and returns the refreshed row.
func (r *ContactRepo) Update(ctx context.Context, ownerID, id uint64, upd ContactUpdate) (model.Contact, error) {
	sets := make([]string, 0, 3)
	args := make([]any, 0, 5)
	if upd.Name != nil {
		sets = append(sets, "name=?")
		args = append(args, *upd.Name)
	}
	if upd.Email != nil {
		sets = append(sets, "email=?")
		args = append(args, *upd.Email)
	}
	if upd.Phone != nil {
		sets = append(sets, "phone=?")
		args = append(args, *upd.Phone)
	}
	if len(sets) == 0 {
		return r.GetByID(ctx, ownerID, id)
	}
	args = append(args, id, ownerID)
	res, err := r.DB.ExecContext(ctx,
		"UPDATE contacts SET "+strings.Join(sets, ", ")+" WHERE id=? AND owner_id=?", args...)
	if err != nil {
		return model.Contact{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// Could also mean the values did not change; confirm existence.
		if _, err := r.GetByID(ctx, ownerID, id); err != nil {
			return model.Contact{}, err
		}
	}
	return r.GetByID(ctx, ownerID, id)
}

// Delete removes the owner's contact.
func (r *ContactRepo) Delete(ctx context.Context, ownerID, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM contacts WHERE id=? AND owner_id=?", id, ownerID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetFavorite toggles the favorite flag and returns the refreshed row.
func (r *ContactRepo) SetFavorite(ctx context.Context, ownerID, id uint64, favorite bool) (model.Contact, error) {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE contacts SET favorite=? WHERE id=? AND owner_id=?", favorite, id, ownerID)
	if err != nil {
		return model.Contact{}, err
	}
	return r.GetByID(ctx, ownerID, id)
}

func (r *ContactRepo) scanOne(row *sql.Row) (model.Contact, error) {
	var c model.Contact
	err := row.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Email, &c.Phone,
		&c.Favorite, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.Contact{}, ErrNotFound
	}
	if err != nil {
		return model.Contact{}, err
	}
	return c, nil
}

var _ ContactStore = (*ContactRepo)(nil)
