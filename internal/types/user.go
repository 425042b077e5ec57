package types

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered account. Cases created before registration are
// adopted from the anonymous session at claim time.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewsletterSubscription tracks one email's newsletter opt-in state.
type NewsletterSubscription struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	SubscribedAt time.Time  `json:"subscribed_at"`
	Unsubscribed *time.Time `json:"unsubscribed_at,omitempty"`
}
