// Package queue defines message payloads exchanged over the message broker
// and the background consumer that delivers verification mail.
package queue

// VerificationEmailEvent is published when a signup or a resend request
// needs a verification email delivered. Signup never waits for delivery;
// a broker or mail failure leaves the account unverified but created.
type VerificationEmailEvent struct {
	Email       string `json:"email"`
	VerifyLink  string `json:"verify_link"`
	RequestedAt string `json:"requested_at"`
}
