package auth

import (
	"context"
	"errors"
	"sync"

	"gorm.io/gorm"
)

// ErrUnknownEmail is returned when sign-in targets no existing account.
var ErrUnknownEmail = errors.New("no account for email")

// IdentityChangeFunc observes sign-in (signedIn=true) and sign-out
// (signedIn=false) events.
type IdentityChangeFunc func(ident Identity, signedIn bool)

// SessionProvider issues and resolves session tokens. Credential checking
// is out of scope: sign-in trusts the email and yields that account's
// identity. Revocation is in-memory per process.
type SessionProvider struct {
	tokens *TokenManager
	lookup func(ctx context.Context, email string) (Identity, error)

	mu        sync.Mutex
	revoked   map[string]bool
	listeners []IdentityChangeFunc
}

// NewSessionProvider creates a session provider backed by a token manager
// and an account lookup.
func NewSessionProvider(tokens *TokenManager, lookup func(ctx context.Context, email string) (Identity, error)) *SessionProvider {
	return &SessionProvider{
		tokens:  tokens,
		lookup:  lookup,
		revoked: make(map[string]bool),
	}
}

// SignIn resolves the email to an account and issues a session token.
func (p *SessionProvider) SignIn(ctx context.Context, email string) (string, Identity, error) {
	ident, err := p.lookup(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", Identity{}, ErrUnknownEmail
		}
		return "", Identity{}, err
	}

	token, err := p.tokens.IssueToken(ident)
	if err != nil {
		return "", Identity{}, err
	}

	p.notifyChange(ident, true)
	return token, ident, nil
}

// CurrentIdentity resolves a token to its identity, or reports none for
// invalid, expired, or revoked tokens.
func (p *SessionProvider) CurrentIdentity(token string) (Identity, bool) {
	p.mu.Lock()
	revoked := p.revoked[token]
	p.mu.Unlock()
	if revoked {
		return Identity{}, false
	}

	ident, err := p.tokens.ParseToken(token)
	if err != nil {
		return Identity{}, false
	}
	return *ident, true
}

// SignOut revokes a token. A no-op for tokens that never resolved.
func (p *SessionProvider) SignOut(token string) {
	ident, err := p.tokens.ParseToken(token)

	p.mu.Lock()
	p.revoked[token] = true
	p.mu.Unlock()

	if err == nil {
		p.notifyChange(*ident, false)
	}
}

// OnIdentityChange registers a callback for sign-in/sign-out events.
func (p *SessionProvider) OnIdentityChange(fn IdentityChangeFunc) {
	p.mu.Lock()
	p.listeners = append(p.listeners, fn)
	p.mu.Unlock()
}

func (p *SessionProvider) notifyChange(ident Identity, signedIn bool) {
	p.mu.Lock()
	listeners := make([]IdentityChangeFunc, len(p.listeners))
	copy(listeners, p.listeners)
	p.mu.Unlock()

	for _, fn := range listeners {
		fn(ident, signedIn)
	}
}
