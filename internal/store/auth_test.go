package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todolist/internal/backend"
)

// fakeIdentity scripts provider behavior per test.
type fakeIdentity struct {
	signUpFn  func(email, password string) (*backend.AuthData, error)
	signInFn  func(email, password string) (*backend.AuthData, error)
	signOutFn func() error
	getUserFn func() (*backend.AuthUser, error)
	changes   chan backend.AuthChange
}

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{changes: make(chan backend.AuthChange, 4)}
}

func (f *fakeIdentity) SignUp(_ context.Context, email, password string) (*backend.AuthData, error) {
	return f.signUpFn(email, password)
}

func (f *fakeIdentity) SignInWithPassword(_ context.Context, email, password string) (*backend.AuthData, error) {
	return f.signInFn(email, password)
}

func (f *fakeIdentity) SignOut(context.Context) error {
	if f.signOutFn != nil {
		return f.signOutFn()
	}
	return nil
}

func (f *fakeIdentity) GetUser(context.Context) (*backend.AuthUser, error) {
	if f.getUserFn != nil {
		return f.getUserFn()
	}
	return nil, nil
}

func (f *fakeIdentity) UserFromToken(context.Context, string) (*backend.AuthUser, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeIdentity) RevokeToken(context.Context, string) error { return nil }

func (f *fakeIdentity) OnAuthStateChange() <-chan backend.AuthChange { return f.changes }

func authData(id, email string) *backend.AuthData {
	user := &backend.AuthUser{ID: id, Email: email, CreatedAt: time.Now()}
	return &backend.AuthData{
		User:    user,
		Session: &backend.Session{AccessToken: "tok-" + id, User: user},
	}
}

func TestSignUpStoresUser(t *testing.T) {
	ident := newFakeIdentity()
	ident.signUpFn = func(email, _ string) (*backend.AuthData, error) {
		return authData("u1", email), nil
	}
	auth := NewAuthStore(ident, nil)

	data, err := auth.SignUp(context.Background(), "new@example.com", "secret1")
	require.NoError(t, err)
	require.NotNil(t, data.User)

	user := auth.User()
	require.NotNil(t, user)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "new@example.com", user.Email)
	assert.True(t, auth.IsAuthenticated())
	assert.False(t, auth.Loading(), "loading cleared after the call")
}

func TestSignInFailureLeavesUserUnchanged(t *testing.T) {
	ident := newFakeIdentity()
	ident.signInFn = func(email, _ string) (*backend.AuthData, error) {
		return authData("u1", email), nil
	}
	auth := NewAuthStore(ident, nil)

	_, err := auth.SignIn(context.Background(), "user@example.com", "secret1")
	require.NoError(t, err)

	ident.signInFn = func(string, string) (*backend.AuthData, error) {
		return nil, errors.New("invalid email or password")
	}
	data, err := auth.SignIn(context.Background(), "user@example.com", "wrong")
	assert.Error(t, err)
	assert.Nil(t, data)

	user := auth.User()
	require.NotNil(t, user, "failed sign-in must not clear the session")
	assert.Equal(t, "u1", user.ID)
	assert.False(t, auth.Loading())
}

func TestSignOutClearsUserAndRedirects(t *testing.T) {
	ident := newFakeIdentity()
	ident.signInFn = func(email, _ string) (*backend.AuthData, error) {
		return authData("u1", email), nil
	}

	var redirectedTo string
	auth := NewAuthStore(ident, func(path string) { redirectedTo = path })

	_, err := auth.SignIn(context.Background(), "user@example.com", "secret1")
	require.NoError(t, err)

	require.NoError(t, auth.SignOut(context.Background()))
	assert.Nil(t, auth.User())
	assert.False(t, auth.IsAuthenticated())
	assert.Equal(t, LoginPath, redirectedTo)
}

func TestSignOutFailureKeepsUser(t *testing.T) {
	ident := newFakeIdentity()
	ident.signInFn = func(email, _ string) (*backend.AuthData, error) {
		return authData("u1", email), nil
	}
	ident.signOutFn = func() error { return errors.New("backend down") }
	auth := NewAuthStore(ident, nil)

	_, err := auth.SignIn(context.Background(), "user@example.com", "secret1")
	require.NoError(t, err)

	assert.Error(t, auth.SignOut(context.Background()))
	assert.NotNil(t, auth.User())
	assert.False(t, auth.Loading())
}

func TestGetCurrentUserDegradesToNil(t *testing.T) {
	ident := newFakeIdentity()
	ident.getUserFn = func() (*backend.AuthUser, error) {
		return nil, errors.New("provider unavailable")
	}
	auth := NewAuthStore(ident, nil)

	assert.Nil(t, auth.GetCurrentUser(context.Background()))
	assert.Nil(t, auth.User())
}

func TestInitializeAppliesAuthChanges(t *testing.T) {
	ident := newFakeIdentity()
	auth := NewAuthStore(ident, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	auth.Initialize(ctx)
	assert.False(t, auth.Loading(), "loading covers only the initial fetch")
	assert.Nil(t, auth.User())

	user := &backend.AuthUser{ID: "u9", Email: "late@example.com", CreatedAt: time.Now()}
	ident.changes <- backend.AuthChange{
		Event:   backend.EventSignedIn,
		Session: &backend.Session{AccessToken: "tok", User: user},
	}
	require.Eventually(t, func() bool {
		u := auth.User()
		return u != nil && u.ID == "u9"
	}, time.Second, 5*time.Millisecond)

	ident.changes <- backend.AuthChange{Event: backend.EventSignedOut}
	require.Eventually(t, func() bool {
		return auth.User() == nil
	}, time.Second, 5*time.Millisecond)
}
