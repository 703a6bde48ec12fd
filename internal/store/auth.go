// Package store holds the client-side state containers: AuthStore caches the
// current identity, TodoStore caches the user's todos and categories. Each
// container is constructed explicitly per session and owns its collections;
// consumers read derived views only.
package store

import (
	"context"
	"log"
	"sync"
	"time"

	"todolist/internal/backend"
)

// LoginPath is where SignOut redirects once the session is cleared.
const LoginPath = "/auth/login"

// User is the normalized local record kept for the signed-in account.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthStore tracks the current user and a loading flag. Writes come from two
// places: direct sign-in/sign-up/sign-out calls, and the provider's
// auth-change stream consumed by Initialize. Last write wins.
type AuthStore struct {
	identity backend.Identity
	redirect func(path string)

	mu      sync.Mutex
	user    *User
	loading bool
}

// NewAuthStore builds a container around the identity provider. redirect is
// invoked after a successful sign-out (may be nil).
func NewAuthStore(identity backend.Identity, redirect func(path string)) *AuthStore {
	return &AuthStore{identity: identity, redirect: redirect}
}

// User returns a copy of the current user record, or nil when signed out.
func (s *AuthStore) User() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *AuthStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *AuthStore) IsAuthenticated() bool {
	return s.User() != nil
}

// SignUp registers a new account. On failure the current user is left
// unchanged and the error is returned alongside nil data.
func (s *AuthStore) SignUp(ctx context.Context, email, password string) (*backend.AuthData, error) {
	s.setLoading(true)
	defer s.setLoading(false)

	data, err := s.identity.SignUp(ctx, email, password)
	if err != nil {
		log.Printf("[auth] sign up: %v", err)
		return nil, err
	}
	if data.User != nil {
		s.setUser(localUser(data.User))
	}
	return data, nil
}

// SignIn authenticates with email and password. Same contract as SignUp.
func (s *AuthStore) SignIn(ctx context.Context, email, password string) (*backend.AuthData, error) {
	s.setLoading(true)
	defer s.setLoading(false)

	data, err := s.identity.SignInWithPassword(ctx, email, password)
	if err != nil {
		log.Printf("[auth] sign in: %v", err)
		return nil, err
	}
	if data.User != nil {
		s.setUser(localUser(data.User))
	}
	return data, nil
}

// SignOut ends the session, clears the cached user, and redirects to the
// login view.
func (s *AuthStore) SignOut(ctx context.Context) error {
	s.setLoading(true)
	defer s.setLoading(false)

	if err := s.identity.SignOut(ctx); err != nil {
		log.Printf("[auth] sign out: %v", err)
		return err
	}

	s.setUser(nil)
	if s.redirect != nil {
		s.redirect(LoginPath)
	}
	return nil
}

// GetCurrentUser asks the provider for the session's user and caches it.
// Provider failures degrade to nil rather than propagating.
func (s *AuthStore) GetCurrentUser(ctx context.Context) *backend.AuthUser {
	user, err := s.identity.GetUser(ctx)
	if err != nil {
		log.Printf("[auth] current user: %v", err)
		return nil
	}
	if user != nil {
		s.setUser(localUser(user))
	}
	return user
}

// Initialize fetches the current user once, then consumes the provider's
// auth-change stream until ctx is done. The loading flag covers only the
// initial fetch; the long-lived subscription never toggles it.
func (s *AuthStore) Initialize(ctx context.Context) {
	s.setLoading(true)
	defer s.setLoading(false)

	s.GetCurrentUser(ctx)

	changes := s.identity.OnAuthStateChange()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case change, ok := <-changes:
				if !ok {
					return
				}
				if change.Session != nil && change.Session.User != nil {
					s.setUser(localUser(change.Session.User))
				} else {
					s.setUser(nil)
				}
			}
		}
	}()
}

func (s *AuthStore) setUser(user *User) {
	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
}

func (s *AuthStore) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func localUser(u *backend.AuthUser) *User {
	return &User{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt}
}
