package model

import "time"

// Subscription tiers accepted by the API. The zero value of a user's
// subscription is SubscriptionStarter.
const (
	SubscriptionStarter  = "starter"
	SubscriptionPro      = "pro"
	SubscriptionBusiness = "business"
)

// ValidSubscription reports whether s is one of the accepted tiers.
func ValidSubscription(s string) bool {
	switch s {
	case SubscriptionStarter, SubscriptionPro, SubscriptionBusiness:
		return true
	}
	return false
}

// User represents a row in the `users` table.
//
// Token holds the JWT issued by the most recent login; the auth middleware
// rejects any presented token that does not match it, which is what makes
// logout effective before the token's cryptographic expiry. At most one
// session is valid per user at a time.
//
// VerificationToken is generated at signup and mailed to the user. The row
// keeps the value after redemption; Verified acts as the consumed marker,
// so a second redemption of the same token can be distinguished from an
// unknown token.
type User struct {
	ID                uint64    // users.id
	Email             string    // users.email (stored lowercased)
	PasswordHash      string    // users.password_hash (bcrypt)
	Token             *string   // users.token (nullable session JWT)
	Verified          bool      // users.verified
	VerificationToken string    // users.verification_token
	Subscription      string    // users.subscription (starter|pro|business)
	AvatarURL         string    // users.avatar_url
	CreatedAt         time.Time // users.created_at
	UpdatedAt         time.Time // users.updated_at
}
