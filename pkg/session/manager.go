// Package session owns the authenticated session: token, user profile,
// and pinned-favorite restaurants. The Manager is the single source of
// truth shared by every screen; it mirrors state to a durable Store and
// syncs favorite selections to the remote API.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tastepass/tastepass/pkg/client"
	"github.com/tastepass/tastepass/pkg/domain"
)

var (
	// ErrNotAuthenticated is returned by operations that require a
	// logged-in user. No network call is made.
	ErrNotAuthenticated = errors.New("no user is currently logged in")

	// ErrPinLimit is returned by TogglePin when the pinned set is at
	// capacity and the id is not already pinned.
	ErrPinLimit = errors.New("pin limit reached")

	// ErrLoginFailed is returned when the auth endpoint answers without
	// a token.
	ErrLoginFailed = errors.New("login failed")
)

// favoritesSyncTimeout bounds the fire-and-forget favorites sync. The
// sync deliberately does not inherit the caller's context: a screen
// unmounting mid-flight must not cancel it.
const favoritesSyncTimeout = 10 * time.Second

// Manager is the session state manager. In-memory state is
// authoritative; the Store is a best-effort mirror read once at startup.
type Manager struct {
	client *client.Client
	store  Store
	log    *zap.Logger

	// guards state, loading, and subs. Screen actions arrive one at a
	// time from the event loop, but pin syncs run off it.
	mu      sync.Mutex
	state   domain.Session
	loading bool
	subs    []func(domain.Session)
}

// New creates a Manager. Call Restore before serving any screen that
// depends on authentication state.
func New(c *client.Client, store Store, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		client:  c,
		store:   store,
		log:     log,
		loading: true,
	}
}

// Restore adopts a previously persisted session snapshot, if one exists
// and is well-formed. It always clears the loading flag.
func (m *Manager) Restore() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer func() { m.loading = false }()

	stored, err := m.store.Load()
	if err != nil {
		m.log.Warn("session restore failed", zap.Error(err))
		return err
	}
	if stored == nil {
		return nil
	}
	if !stored.Valid() {
		m.log.Warn("discarding malformed session snapshot")
		return nil
	}
	m.state = *stored
	m.client.SetToken(stored.Token)
	m.notifyLocked()
	return nil
}

// Loading reports whether startup restoration is still in progress.
// Protected screens must not render while this is true.
func (m *Manager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// Snapshot returns a copy of the current session.
func (m *Manager) Snapshot() domain.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Clone()
}

// Subscribe registers a callback invoked with a session copy after
// every state change. Callbacks run on the mutating goroutine and must
// not call back into the Manager.
func (m *Manager) Subscribe(fn func(domain.Session)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, fn)
}

func (m *Manager) notifyLocked() {
	snap := m.state.Clone()
	for _, fn := range m.subs {
		fn(snap)
	}
}

// RegisterInput carries the registration form fields.
type RegisterInput struct {
	FirstName  string
	LastName   string
	Email      string
	Company    string
	Invitation string
	Password   string
}

// Register creates a new account. It does not establish a session: the
// account needs email verification before the first login.
func (m *Manager) Register(ctx context.Context, in RegisterInput) (*client.RegisteredUser, error) {
	user, err := m.client.Register(ctx, client.RegisterRequest{
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Email:      in.Email,
		Company:    in.Company,
		Invitation: in.Invitation,
		Password:   in.Password,
	})
	if err != nil {
		m.log.Warn("registration failed", zap.Error(err))
		return nil, err
	}
	return user, nil
}

// Login exchanges credentials for a session, persists it, and replaces
// the in-memory state. On failure the existing session is untouched.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	resp, err := m.client.Authenticate(ctx, email, password)
	if err != nil {
		m.log.Warn("login failed", zap.Error(err))
		return err
	}
	if resp.Token == "" {
		return ErrLoginFailed
	}

	next := domain.Session{
		Token:         resp.Token,
		Authenticated: true,
		User: &domain.User{
			ID:      resp.User.ID,
			Name:    resp.User.FirstName + " " + resp.User.LastName,
			Email:   resp.User.Email,
			Company: resp.User.Company,
		},
		PinnedRestaurants: resp.PinnedRestaurants,
	}
	if next.PinnedRestaurants == nil {
		next.PinnedRestaurants = []string{}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store.Save(next); err != nil {
		// In-memory state stays authoritative; the mirror catches up on
		// the next successful write.
		m.log.Warn("session persist failed", zap.Error(err))
	}
	m.state = next
	m.client.SetToken(next.Token)
	m.notifyLocked()
	return nil
}

// Logout clears the persisted session and resets in-memory state to
// unauthenticated. Pinned favorites survive in memory for the rest of
// the process but are gone after a cold start, since storage is cleared.
func (m *Manager) Logout() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store.Clear(); err != nil {
		m.log.Warn("session clear failed", zap.Error(err))
	}
	m.state = domain.Session{
		PinnedRestaurants: m.state.PinnedRestaurants,
	}
	m.client.SetToken("")
	m.notifyLocked()
}

// UpdatePassword changes the password of the logged-in user. On success
// it logs the session out so the user re-authenticates with the new
// password, and returns the server's confirmation message.
func (m *Manager) UpdatePassword(ctx context.Context, currentPassword, newPassword string) (string, error) {
	m.mu.Lock()
	user := m.state.User
	m.mu.Unlock()
	if user == nil {
		return "", ErrNotAuthenticated
	}

	msg, err := m.client.UpdatePassword(ctx, client.UpdatePasswordRequest{
		UserID:          user.ID,
		Email:           user.Email,
		CurrentPassword: currentPassword,
		NewPassword:     newPassword,
	})
	if err != nil {
		m.log.Warn("password update failed", zap.Error(err))
		return "", err
	}
	m.Logout()
	return msg, nil
}

// TogglePin pins or unpins a restaurant. A pinned id is removed; an
// unpinned id is added while under the cap, otherwise ErrPinLimit is
// returned with state unchanged. Accepted changes are persisted and the
// new set is pushed to the API as a fire-and-forget sync; a sync
// failure is logged and never rolls back the local change.
func (m *Manager) TogglePin(restaurantID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	pinned := append([]string(nil), m.state.PinnedRestaurants...)
	if idx := indexOf(pinned, restaurantID); idx >= 0 {
		pinned = append(pinned[:idx], pinned[idx+1:]...)
		m.log.Info("restaurant unpinned", zap.String("restaurant_id", restaurantID))
	} else if len(pinned) < domain.MaxPinned {
		pinned = append(pinned, restaurantID)
		m.log.Info("restaurant pinned", zap.String("restaurant_id", restaurantID))
	} else {
		return ErrPinLimit
	}

	m.state.PinnedRestaurants = pinned
	if err := m.store.Save(m.state); err != nil {
		m.log.Warn("session persist failed", zap.Error(err))
	}
	m.notifyLocked()

	if m.state.User != nil {
		go m.syncFavorites(m.state.User.ID, append([]string(nil), pinned...))
	}
	return nil
}

func (m *Manager) syncFavorites(userID string, pinned []string) {
	ctx, cancel := context.WithTimeout(context.Background(), favoritesSyncTimeout)
	defer cancel()
	if err := m.client.UpdateFavorites(ctx, userID, pinned); err != nil {
		m.log.Warn("favorites sync failed",
			zap.String("user_id", userID),
			zap.Strings("restaurant_ids", pinned),
			zap.Error(err))
	}
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
