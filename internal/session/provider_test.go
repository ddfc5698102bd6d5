package session_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GPT-Engineer-App/fin-track/internal/domain"
	"github.com/GPT-Engineer-App/fin-track/internal/session"
	"github.com/GPT-Engineer-App/fin-track/internal/storage/memory"
)

// captureMailer records issued links instead of sending them
type captureMailer struct {
	links []string
}

func (m *captureMailer) SendMagicLink(_, link string) error {
	m.links = append(m.links, link)
	return nil
}

func (m *captureMailer) lastToken(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, m.links)
	_, token, ok := strings.Cut(m.links[len(m.links)-1], "token=")
	require.True(t, ok)
	return token
}

func newProvider() (*session.Provider, *captureMailer) {
	mailer := &captureMailer{}
	p := session.New(memory.New(), session.NewMemoryTokenStore(), mailer, "test-secret", "http://localhost:8080")
	return p, mailer
}

func TestMagicLinkSignIn(t *testing.T) {
	p, mailer := newProvider()
	ctx := context.Background()

	require.NoError(t, p.RequestMagicLink(ctx, "User@Example.com"))
	s, err := p.VerifyMagicLink(ctx, mailer.lastToken(t))
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", s.Email)
	assert.NotZero(t, s.UserID)
	assert.NotEmpty(t, s.Token)

	// The issued token resolves to the same session
	current, err := p.Current(ctx, s.Token)
	require.NoError(t, err)
	assert.Equal(t, s.UserID, current.UserID)
	assert.Equal(t, s.Email, current.Email)
}

func TestMagicLinkIsSingleUse(t *testing.T) {
	p, mailer := newProvider()
	ctx := context.Background()

	require.NoError(t, p.RequestMagicLink(ctx, "a@example.com"))
	token := mailer.lastToken(t)

	_, err := p.VerifyMagicLink(ctx, token)
	require.NoError(t, err)
	_, err = p.VerifyMagicLink(ctx, token)
	assert.ErrorIs(t, err, session.ErrInvalidLink, "a consumed link must not verify again")
}

func TestVerifyRejectsTamperedSecret(t *testing.T) {
	p, mailer := newProvider()
	ctx := context.Background()

	require.NoError(t, p.RequestMagicLink(ctx, "a@example.com"))
	id, _, ok := strings.Cut(mailer.lastToken(t), ".")
	require.True(t, ok)

	_, err := p.VerifyMagicLink(ctx, id+".wrong-secret")
	assert.ErrorIs(t, err, session.ErrInvalidLink)
	// The link was consumed by the failed attempt
	_, err = p.VerifyMagicLink(ctx, mailer.lastToken(t))
	assert.ErrorIs(t, err, session.ErrInvalidLink)
}

func TestVerifyRejectsMalformedToken(t *testing.T) {
	p, _ := newProvider()
	_, err := p.VerifyMagicLink(context.Background(), "no-separator")
	assert.ErrorIs(t, err, session.ErrInvalidLink)
}

func TestRepeatedRequestsIssueIndependentLinks(t *testing.T) {
	p, mailer := newProvider()
	ctx := context.Background()

	// Requesting twice is harmless: two distinct links, the first still valid
	require.NoError(t, p.RequestMagicLink(ctx, "a@example.com"))
	require.NoError(t, p.RequestMagicLink(ctx, "a@example.com"))
	require.Len(t, mailer.links, 2)
	assert.NotEqual(t, mailer.links[0], mailer.links[1])

	_, firstToken, ok := strings.Cut(mailer.links[0], "token=")
	require.True(t, ok)
	s, err := p.VerifyMagicLink(ctx, firstToken)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", s.Email)
}

func TestRequestMagicLinkRequiresEmail(t *testing.T) {
	p, _ := newProvider()
	assert.ErrorIs(t, p.RequestMagicLink(context.Background(), "  "), session.ErrEmptyEmail)
}

func TestSignOutInvalidatesAndNotifies(t *testing.T) {
	p, mailer := newProvider()
	ctx := context.Background()

	var events []*domain.Session
	unsubscribe := p.OnChange(func(_ uint, s *domain.Session) {
		events = append(events, s)
	})

	require.NoError(t, p.RequestMagicLink(ctx, "a@example.com"))
	s, err := p.VerifyMagicLink(ctx, mailer.lastToken(t))
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.NotNil(t, events[0], "sign-in delivers the new session")

	require.NoError(t, p.SignOut(ctx, s.Token))
	require.Len(t, events, 2)
	assert.Nil(t, events[1], "sign-out delivers nil")

	_, err = p.Current(ctx, s.Token)
	assert.ErrorIs(t, err, session.ErrNoSession)

	// After unsubscribing no further events arrive
	unsubscribe()
	require.NoError(t, p.RequestMagicLink(ctx, "a@example.com"))
	_, err = p.VerifyMagicLink(ctx, mailer.lastToken(t))
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestReloginRevokesOlderToken(t *testing.T) {
	p, mailer := newProvider()
	ctx := context.Background()

	require.NoError(t, p.RequestMagicLink(ctx, "a@example.com"))
	first, err := p.VerifyMagicLink(ctx, mailer.lastToken(t))
	require.NoError(t, err)

	require.NoError(t, p.RequestMagicLink(ctx, "a@example.com"))
	second, err := p.VerifyMagicLink(ctx, mailer.lastToken(t))
	require.NoError(t, err)
	assert.Equal(t, first.UserID, second.UserID)

	// Only the newest session token stays valid
	_, err = p.Current(ctx, second.Token)
	require.NoError(t, err)
	_, err = p.Current(ctx, first.Token)
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestCurrentRejectsGarbageToken(t *testing.T) {
	p, _ := newProvider()
	_, err := p.Current(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, session.ErrNoSession)
}
