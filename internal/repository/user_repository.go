package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/contactshub/contacts-api/internal/model"
	"github.com/contactshub/contacts-api/internal/utils"
)

// UserStore is the persistence contract the auth handlers and middleware
// depend on. UserRepo is the MySQL implementation; tests substitute stubs.
type UserStore interface {
	Create(ctx context.Context, email, password string, cost int, verificationToken, avatarURL string) (uint64, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	GetByVerificationToken(ctx context.Context, token string) (model.User, error)
	MarkVerified(ctx context.Context, id uint64) error
	SetToken(ctx context.Context, id uint64, token string) error
	ClearToken(ctx context.Context, id uint64) error
	UpdateSubscription(ctx context.Context, id uint64, subscription string) error
	UpdateAvatar(ctx context.Context, id uint64, avatarURL string) error
}

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,email,password_hash,token,verified,verification_token,subscription,avatar_url,created_at,updated_at"

// Create hashes the password, inserts an unverified user and returns its ID.
func (r *UserRepo) Create(ctx context.Context, email, password string, cost int, verificationToken, avatarURL string) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, verification_token, subscription, avatar_url) VALUES (?,?,?,?,?)",
		email, hash, verificationToken, model.SubscriptionStarter, avatarURL)
	if err != nil {
		// MySQL 1062 = duplicate key (unique email index)
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// GetByVerificationToken fetches the user that owns a verification token.
func (r *UserRepo) GetByVerificationToken(ctx context.Context, token string) (model.User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE verification_token=? LIMIT 1", token))
}

// MarkVerified flips verified to true exactly once. The WHERE guard makes
// the transition atomic: a concurrent or repeated redemption sees zero
// affected rows and gets ErrAlreadyVerified.
func (r *UserRepo) MarkVerified(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET verified=1 WHERE id=? AND verified=0", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAlreadyVerified
	}
	return nil
}

// SetToken records the session JWT issued by login. Last write wins under
// concurrent logins for the same account.
func (r *UserRepo) SetToken(ctx context.Context, id uint64, token string) error {
	_, err := r.DB.ExecContext(ctx, "UPDATE users SET token=? WHERE id=?", token, id)
	return err
}

// ClearToken invalidates the current session on logout.
func (r *UserRepo) ClearToken(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx, "UPDATE users SET token=NULL WHERE id=?", id)
	return err
}

// UpdateSubscription changes the user's subscription tier.
func (r *UserRepo) UpdateSubscription(ctx context.Context, id uint64, subscription string) error {
	_, err := r.DB.ExecContext(ctx, "UPDATE users SET subscription=? WHERE id=?", subscription, id)
	return err
}

// UpdateAvatar stores the URL of a freshly processed avatar.
func (r *UserRepo) UpdateAvatar(ctx context.Context, id uint64, avatarURL string) error {
	_, err := r.DB.ExecContext(ctx, "UPDATE users SET avatar_url=? WHERE id=?", avatarURL, id)
	return err
}

func (r *UserRepo) scanOne(row *sql.Row) (model.User, error) {
	var (
		u     model.User
		token sql.NullString
	)
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &token, &u.Verified,
		&u.VerificationToken, &u.Subscription, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	if token.Valid {
		u.Token = &token.String
	}
	return u, nil
}

var _ UserStore = (*UserRepo)(nil)
