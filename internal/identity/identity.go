// Package identity is the self-hosted identity provider: password accounts
// hashed with bcrypt, HS256 access tokens, and a persisted session row per
// issued token so that sign-out revokes the token.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"todolist/internal/backend"
	"todolist/internal/model"
	"todolist/internal/repository"
)

// ErrInvalidCredentials is returned for unknown emails and wrong passwords
// alike, so sign-in failures don't reveal which one it was.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrEmailTaken is returned when signing up with an email already in use.
var ErrEmailTaken = errors.New("email already registered")

const eventBuffer = 16

type claims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// Provider implements backend.Identity. It keeps at most one current client
// session and pushes auth-state transitions onto a buffered event channel
// consumed by the auth state container.
type Provider struct {
	users    *repository.UserRepository
	sessions *repository.SessionRepository
	secret   []byte
	ttl      time.Duration

	mu      sync.Mutex
	current *backend.Session
	events  chan backend.AuthChange
}

func NewProvider(users *repository.UserRepository, sessions *repository.SessionRepository, secret string, ttl time.Duration) *Provider {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &Provider{
		users:    users,
		sessions: sessions,
		secret:   []byte(secret),
		ttl:      ttl,
		events:   make(chan backend.AuthChange, eventBuffer),
	}
}

// SignUp creates an account and opens a session for it.
func (p *Provider) SignUp(ctx context.Context, email, password string) (*backend.AuthData, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, errors.New("email and password are required")
	}

	count, err := p.users.CountByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := p.users.Create(ctx, email, string(hash))
	if err != nil {
		return nil, err
	}
	return p.openSession(ctx, user)
}

// SignInWithPassword verifies credentials and opens a session.
func (p *Provider) SignInWithPassword(ctx context.Context, email, password string) (*backend.AuthData, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := p.users.FindByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return p.openSession(ctx, user)
}

// SignOut revokes the current session, if any, and announces the sign-out.
func (p *Provider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	current := p.current
	p.mu.Unlock()

	if current != nil {
		if err := p.sessions.DeleteByToken(ctx, current.AccessToken); err != nil {
			return err
		}
	}

	p.mu.Lock()
	p.current = nil
	p.mu.Unlock()

	p.emit(backend.AuthChange{Event: backend.EventSignedOut})
	return nil
}

// GetUser resolves the current session to its account. Without a session it
// returns (nil, nil).
func (p *Provider) GetUser(ctx context.Context) (*backend.AuthUser, error) {
	p.mu.Lock()
	current := p.current
	p.mu.Unlock()

	if current == nil {
		return nil, nil
	}
	return p.UserFromToken(ctx, current.AccessToken)
}

// UserFromToken resolves a bearer token: the JWT must verify and its session
// row must still exist and be unexpired.
func (p *Provider) UserFromToken(ctx context.Context, token string) (*backend.AuthUser, error) {
	c, err := p.parseToken(token)
	if err != nil {
		return nil, err
	}

	session, err := p.sessions.FindByToken(ctx, token)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.New("session revoked")
	}
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}
	if time.Now().After(session.ExpiresAt) {
		return nil, errors.New("session expired")
	}

	user, err := p.users.FindByID(ctx, c.UserID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return toAuthUser(user), nil
}

// RevokeToken deletes the session row backing a bearer token.
func (p *Provider) RevokeToken(ctx context.Context, token string) error {
	if err := p.sessions.DeleteByToken(ctx, token); err != nil {
		return err
	}

	p.mu.Lock()
	if p.current != nil && p.current.AccessToken == token {
		p.current = nil
	}
	p.mu.Unlock()

	p.emit(backend.AuthChange{Event: backend.EventSignedOut})
	return nil
}

// OnAuthStateChange returns the stream of auth-state transitions. A single
// consumer is expected; when it lags, the oldest event is dropped so the
// most recent state always gets through.
func (p *Provider) OnAuthStateChange() <-chan backend.AuthChange {
	return p.events
}

func (p *Provider) openSession(ctx context.Context, user *model.User) (*backend.AuthData, error) {
	expiresAt := time.Now().Add(p.ttl)
	token, err := p.signToken(user.ID, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	if _, err := p.sessions.Create(ctx, user.ID, token, expiresAt); err != nil {
		return nil, err
	}

	authUser := toAuthUser(user)
	session := &backend.Session{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		User:        authUser,
	}

	p.mu.Lock()
	p.current = session
	p.mu.Unlock()

	p.emit(backend.AuthChange{Event: backend.EventSignedIn, Session: session})
	return &backend.AuthData{User: authUser, Session: session}, nil
}

func (p *Provider) signToken(userID string, expiresAt time.Time) (string, error) {
	c := &claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return tok.SignedString(p.secret)
}

func (p *Provider) parseToken(tokenStr string) (*claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &claims{}, func(t *jwt.Token) (interface{}, error) {
		return p.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, err
	}
	if c, ok := token.Claims.(*claims); ok && token.Valid {
		return c, nil
	}
	return nil, errors.New("invalid token")
}

// emit never blocks: if the buffer is full the oldest event is discarded.
func (p *Provider) emit(change backend.AuthChange) {
	for {
		select {
		case p.events <- change:
			return
		default:
			select {
			case <-p.events:
			default:
			}
		}
	}
}

func toAuthUser(user *model.User) *backend.AuthUser {
	return &backend.AuthUser{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}
