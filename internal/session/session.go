package session

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus" // Logging library
)

// LinkTTL is how long a magic link stays usable before it expires
const LinkTTL = 15 * time.Minute

var (
	ErrNoSession   = errors.New("no active session")
	ErrInvalidLink = errors.New("invalid or expired magic link")
	ErrEmptyEmail  = errors.New("email is required")
)

// LinkRecord is the stored half of an issued magic link: the owning email and
// a bcrypt hash of the one-time secret. The raw secret only ever lives in the
// emailed link.
type LinkRecord struct {
	Email      string `json:"email"`
	SecretHash string `json:"secret_hash"`
}

// SessionRecord marks a user's active session; sign-out deletes it, which
// invalidates the token even before its expiry.
type SessionRecord struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

// TokenStore persists magic links and active sessions.
type TokenStore interface {
	SaveLink(ctx context.Context, id string, rec LinkRecord, ttl time.Duration) error
	// TakeLink returns and deletes the record so each link is single-use;
	// a missing or expired link yields (nil, nil).
	TakeLink(ctx context.Context, id string) (*LinkRecord, error)
	SaveSession(ctx context.Context, userID uint, rec SessionRecord, ttl time.Duration) error
	GetSession(ctx context.Context, userID uint) (*SessionRecord, error)
	DeleteSession(ctx context.Context, userID uint) error
}

// Mailer delivers a magic link to its email address. Actual delivery is
// outside this service; LogMailer is the default.
type Mailer interface {
	SendMagicLink(email, link string) error
}

// LogMailer writes the link to the log instead of sending mail, which is all
// local development needs.
type LogMailer struct{}

func (LogMailer) SendMagicLink(email, link string) error {
	logrus.WithFields(logrus.Fields{
		"email": email, // Recipient
		"link":  link,  // One-time login link
	}).Info("Magic link issued")
	return nil
}
