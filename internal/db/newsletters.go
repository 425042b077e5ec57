package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// SubscribeNewsletter records a newsletter opt-in. Subscribing an
// already-subscribed email is a no-op; a previously unsubscribed email
// is re-activated.
func (db *DB) SubscribeNewsletter(ctx context.Context, email string) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO newsletter_subscriptions (id, email)
		 VALUES ($1, $2)
		 ON CONFLICT (email) DO UPDATE SET unsubscribed_at = NULL`,
		uuid.New(), email)
	if err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}
	return nil
}

// UnsubscribeNewsletter records a newsletter opt-out. Unknown emails
// are ignored so unsubscribe links are always safe to follow.
func (db *DB) UnsubscribeNewsletter(ctx context.Context, email string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE newsletter_subscriptions SET unsubscribed_at = NOW()
		 WHERE email = $1 AND unsubscribed_at IS NULL`,
		email)
	if err != nil {
		return fmt.Errorf("failed to unsubscribe: %w", err)
	}
	return nil
}
