package session

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"     // One-time link identifiers
	"golang.org/x/crypto/bcrypt" // Secret hashing

	"github.com/GPT-Engineer-App/fin-track/internal/domain"
	"github.com/GPT-Engineer-App/fin-track/internal/storage"
	"github.com/GPT-Engineer-App/fin-track/internal/utils"
)

// Listener receives session changes: the new session on sign-in, nil on
// sign-out. The user id is always the identity the change is about.
type Listener func(userID uint, s *domain.Session)

// Provider issues and validates sessions via the magic-link flow. It is
// constructed once at startup and passed explicitly to everything that needs
// it; there is no package-global session state.
type Provider struct {
	users   storage.UserStore
	tokens  TokenStore
	mailer  Mailer
	secret  string // JWT signing secret
	baseURL string // Public base URL the verify link points at

	mu           sync.Mutex
	listeners    map[int]Listener
	nextListener int
}

// New builds a Provider from its collaborators
func New(users storage.UserStore, tokens TokenStore, mailer Mailer, secret, baseURL string) *Provider {
	return &Provider{
		users:     users,
		tokens:    tokens,
		mailer:    mailer,
		secret:    secret,
		baseURL:   strings.TrimRight(baseURL, "/"),
		listeners: make(map[int]Listener),
	}
}

// RequestMagicLink issues a fresh one-time login link for the email and hands
// it to the mailer. Repeated requests simply issue additional links; nothing
// else changes.
func (p *Provider) RequestMagicLink(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return ErrEmptyEmail
	}
	id := uuid.NewString()     // Public half, keys the stored record
	secret := uuid.NewString() // Private half, only ever in the link
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := p.tokens.SaveLink(ctx, id, LinkRecord{Email: email, SecretHash: string(hash)}, LinkTTL); err != nil {
		return err
	}
	link := p.baseURL + "/auth/verify?token=" + id + "." + secret
	return p.mailer.SendMagicLink(email, link)
}

// VerifyMagicLink consumes a link token, signs the user in and returns the
// new session. The link is deleted on first use whether or not the secret
// matches.
func (p *Provider) VerifyMagicLink(ctx context.Context, token string) (*domain.Session, error) {
	id, secret, ok := strings.Cut(token, ".")
	if !ok {
		return nil, ErrInvalidLink
	}
	rec, err := p.tokens.TakeLink(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrInvalidLink
	}
	if bcrypt.CompareHashAndPassword([]byte(rec.SecretHash), []byte(secret)) != nil {
		return nil, ErrInvalidLink
	}
	user, err := p.users.FindOrCreateByEmail(ctx, rec.Email)
	if err != nil {
		return nil, err
	}
	signed, err := utils.GenerateJWT(user.ID, user.Email, p.secret)
	if err != nil {
		return nil, err
	}
	// A fresh sign-in replaces any previous active session for the user
	if err := p.tokens.SaveSession(ctx, user.ID, SessionRecord{Token: signed, Email: user.Email}, utils.SessionTTL); err != nil {
		return nil, err
	}
	s := &domain.Session{UserID: user.ID, Email: user.Email, Token: signed}
	p.notify(user.ID, s)
	return s, nil
}

// Current resolves a bearer token to its session. Any failure reads as "no
// session"; callers fall through to the entry surface.
func (p *Provider) Current(ctx context.Context, token string) (*domain.Session, error) {
	claims, err := utils.ParseJWT(token, p.secret)
	if err != nil {
		return nil, ErrNoSession
	}
	rec, err := p.tokens.GetSession(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	// The stored token must match so sign-out and re-login both revoke
	// older tokens
	if rec == nil || rec.Token != token {
		return nil, ErrNoSession
	}
	return &domain.Session{UserID: claims.UserID, Email: claims.Email, Token: token}, nil
}

// SignOut invalidates the session behind the token and notifies listeners;
// the notification is what moves downstream state back to the entry surface.
func (p *Provider) SignOut(ctx context.Context, token string) error {
	claims, err := utils.ParseJWT(token, p.secret)
	if err != nil {
		return ErrNoSession
	}
	if err := p.tokens.DeleteSession(ctx, claims.UserID); err != nil {
		return err
	}
	p.notify(claims.UserID, nil)
	return nil
}

// OnChange registers a listener for session changes and returns its
// unsubscribe func
func (p *Provider) OnChange(fn Listener) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextListener
	p.nextListener++
	p.listeners[id] = fn
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.listeners, id)
	}
}

func (p *Provider) notify(userID uint, s *domain.Session) {
	p.mu.Lock()
	fns := make([]Listener, 0, len(p.listeners))
	for _, fn := range p.listeners {
		fns = append(fns, fn)
	}
	p.mu.Unlock()
	// Called outside the lock so a listener may unsubscribe itself
	for _, fn := range fns {
		fn(userID, s)
	}
}
