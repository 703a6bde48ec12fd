// Package backend defines the contract the application consumes from its
// data and identity backend. State containers and route handlers depend on
// these interfaces only; internal/repository and internal/identity provide
// the concrete implementations.
package backend

import (
	"context"
	"time"

	"todolist/internal/model"
)

// AuthUser is the identity provider's view of an account.
type AuthUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Session carries an issued access token together with the user it belongs to.
type Session struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        *AuthUser `json:"user"`
}

// AuthData is the provider response for sign-up and sign-in.
type AuthData struct {
	User    *AuthUser `json:"user"`
	Session *Session  `json:"session"`
}

// Auth-state change events.
const (
	EventSignedIn  = "SIGNED_IN"
	EventSignedOut = "SIGNED_OUT"
)

// AuthChange is one auth-state transition. Session is nil when the event
// ends the session.
type AuthChange struct {
	Event   string
	Session *Session
}

// Identity is the identity-provider contract: password auth, current-session
// lookup, bearer-token resolution for the HTTP boundary, and a stream of
// auth-state changes consumed by a single reader.
type Identity interface {
	SignUp(ctx context.Context, email, password string) (*AuthData, error)
	SignInWithPassword(ctx context.Context, email, password string) (*AuthData, error)
	SignOut(ctx context.Context) error
	GetUser(ctx context.Context) (*AuthUser, error)
	UserFromToken(ctx context.Context, token string) (*AuthUser, error)
	RevokeToken(ctx context.Context, token string) error
	OnAuthStateChange() <-chan AuthChange
}

// TodoInsert is the payload for creating a todo. UserID is always filled in
// by the caller holding the authenticated session, never taken from client
// input.
type TodoInsert struct {
	Title       string         `json:"title"`
	Description *string        `json:"description"`
	Completed   bool           `json:"completed"`
	Category    *string        `json:"category"`
	Priority    model.Priority `json:"priority"`
	DueDate     *time.Time     `json:"due_date"`
	UserID      string         `json:"-"`
}

// TodoUpdate is a partial update; nil fields are left untouched.
type TodoUpdate struct {
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	Completed   *bool           `json:"completed"`
	Category    *string         `json:"category"`
	Priority    *model.Priority `json:"priority"`
	DueDate     *time.Time      `json:"due_date"`
}

// CategoryInsert is the payload for creating a category.
type CategoryInsert struct {
	Name   string `json:"name"`
	Color  string `json:"color"`
	UserID string `json:"-"`
}

// Store is the table-style data contract over the todos and categories
// tables. List results come back ordered by created_at descending. Every
// mutation is scoped to the owning user: rows belonging to someone else are
// invisible to it.
type Store interface {
	ListTodos(ctx context.Context, userID string) ([]model.Todo, error)
	InsertTodo(ctx context.Context, ins TodoInsert) (*model.Todo, error)
	UpdateTodo(ctx context.Context, userID, id string, patch TodoUpdate) (*model.Todo, error)
	DeleteTodo(ctx context.Context, userID, id string) error
	ListCategories(ctx context.Context, userID string) ([]model.Category, error)
	InsertCategory(ctx context.Context, ins CategoryInsert) (*model.Category, error)
	DeleteCategory(ctx context.Context, userID, id string) error
}
