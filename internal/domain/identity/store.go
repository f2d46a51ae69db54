package identity

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agrikart/agrikart/internal/storage"
)

// Reserved bridge partition holding account data shared across identities.
const (
	accountsPartition = "_accounts"
	accountsKey       = "accounts"
	sessionKey        = "current"
)

// Fixed back-office account. Sign-in with these credentials grants the
// admin identity without a stored account record.
const (
	adminEmail    = "admin@gmail.com"
	adminPassword = "admin@123"
)

var adminIdentity = Identity{
	ID:       "admin",
	Username: "admin",
	Email:    adminEmail,
	Admin:    true,
}

// account is a stored user record. Only the password digest is persisted.
type account struct {
	Identity
	PasswordHash string
}

// Listener is notified after the current identity changes. signedIn is false
// on sign-out, in which case id is the zero Identity.
type Listener func(id Identity, signedIn bool)

var _ Provider = (*Store)(nil)

// Store manages accounts and the current session. Accounts and the active
// session persist through the bridge so a restarted process resumes where
// the previous one stopped.
type Store struct {
	bridge storage.Bridge
	lg     *zap.Logger

	// loginDelay simulates network latency on sign-in and sign-up.
	loginDelay time.Duration

	mu        sync.RWMutex
	accounts  []account
	current   *Identity
	listeners []Listener
}

// NewStore creates a Store and restores accounts and any active session
// from the bridge. Corrupt persisted documents are purged and ignored.
func NewStore(ctx context.Context, bridge storage.Bridge, lg *zap.Logger, loginDelay time.Duration) *Store {
	s := &Store{
		bridge:     bridge,
		lg:         lg,
		loginDelay: loginDelay,
	}
	s.restore(ctx)
	return s
}

func (s *Store) restore(ctx context.Context) {
	switch data, err := s.bridge.Load(ctx, accountsPartition, accountsKey); {
	case err == nil:
		accounts, err := decodeAccounts(data)
		if err != nil {
			s.lg.Warn("Discarding corrupt account data", zap.Error(err))
			_ = s.bridge.Clear(ctx, accountsPartition, accountsKey)
		} else {
			s.accounts = accounts
		}
	case !errors.Is(err, storage.ErrNotFound):
		s.lg.Warn("Discarding unreadable account data", zap.Error(err))
		_ = s.bridge.Clear(ctx, accountsPartition, accountsKey)
	}

	switch data, err := s.bridge.Load(ctx, accountsPartition, sessionKey); {
	case err == nil:
		id, err := decodeIdentity(data)
		if err != nil {
			s.lg.Warn("Discarding corrupt session data", zap.Error(err))
			_ = s.bridge.Clear(ctx, accountsPartition, sessionKey)
		} else {
			s.current = &id
		}
	case !errors.Is(err, storage.ErrNotFound):
		s.lg.Warn("Discarding unreadable session data", zap.Error(err))
		_ = s.bridge.Clear(ctx, accountsPartition, sessionKey)
	}
}

// Current implements Provider.
func (s *Store) Current() (Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return Identity{}, false
	}
	return *s.current, true
}

// OnChange registers a listener invoked after every sign-in, sign-up, and
// sign-out. Registration is not safe to call concurrently with sign-in.
func (s *Store) OnChange(l Listener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, l)
	s.mu.Unlock()
}

// Login signs in with email and password. The admin credentials map to the
// fixed admin identity; anything else is matched against stored accounts.
func (s *Store) Login(ctx context.Context, email, password string) (Identity, error) {
	if err := s.simulateLatency(ctx); err != nil {
		return Identity{}, err
	}

	if email == adminEmail && password == adminPassword {
		s.setCurrent(ctx, adminIdentity)
		return adminIdentity, nil
	}

	hash := hashPassword(password)

	s.mu.RLock()
	var found *Identity
	for i := range s.accounts {
		if s.accounts[i].Email == email && s.accounts[i].PasswordHash == hash {
			id := s.accounts[i].Identity
			found = &id
			break
		}
	}
	s.mu.RUnlock()

	if found == nil {
		return Identity{}, ErrInvalidCredentials
	}
	s.setCurrent(ctx, *found)
	return *found, nil
}

// Signup registers a new account and signs it in.
func (s *Store) Signup(ctx context.Context, username, email, password, address, phone string) (Identity, error) {
	if err := s.simulateLatency(ctx); err != nil {
		return Identity{}, err
	}

	s.mu.Lock()
	for i := range s.accounts {
		if s.accounts[i].Email == email {
			s.mu.Unlock()
			return Identity{}, ErrEmailTaken
		}
	}

	id := Identity{
		ID:          uuid.New().String(),
		Username:    username,
		Email:       email,
		Address:     address,
		PhoneNumber: phone,
	}
	s.accounts = append(s.accounts, account{Identity: id, PasswordHash: hashPassword(password)})
	s.mu.Unlock()

	s.persistAccounts(ctx)
	s.setCurrent(ctx, id)
	return id, nil
}

// SignOut clears the current session. Stored accounts and per-identity
// cart/order data remain on disk for the next sign-in.
func (s *Store) SignOut(ctx context.Context) {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return
	}
	s.current = nil
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()

	if err := s.bridge.Clear(ctx, accountsPartition, sessionKey); err != nil {
		s.lg.Warn("Clearing session failed", zap.Error(err))
	}
	for _, l := range listeners {
		l(Identity{}, false)
	}
}

// UpdateProfile applies a partial update to the signed-in identity and its
// stored account. The admin identity has no stored account to update.
func (s *Store) UpdateProfile(ctx context.Context, patch Patch) (Identity, error) {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return Identity{}, ErrNotAuthenticated
	}

	apply := func(id *Identity) {
		if patch.Username != nil {
			id.Username = *patch.Username
		}
		if patch.Address != nil {
			id.Address = *patch.Address
		}
		if patch.PhoneNumber != nil {
			id.PhoneNumber = *patch.PhoneNumber
		}
	}

	apply(s.current)
	updated := *s.current
	if !updated.Admin {
		for i := range s.accounts {
			if s.accounts[i].ID == updated.ID {
				apply(&s.accounts[i].Identity)
				break
			}
		}
	}
	s.mu.Unlock()

	s.persistAccounts(ctx)
	s.persistSession(ctx, updated)
	return updated, nil
}

func (s *Store) setCurrent(ctx context.Context, id Identity) {
	s.mu.Lock()
	s.current = &id
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()

	s.persistSession(ctx, id)
	for _, l := range listeners {
		l(id, true)
	}
}

func (s *Store) persistAccounts(ctx context.Context) {
	s.mu.RLock()
	data := encodeAccounts(s.accounts)
	s.mu.RUnlock()

	if err := s.bridge.Save(ctx, accountsPartition, accountsKey, data); err != nil {
		s.lg.Warn("Persisting accounts failed", zap.Error(err))
	}
}

func (s *Store) persistSession(ctx context.Context, id Identity) {
	if err := s.bridge.Save(ctx, accountsPartition, sessionKey, encodeIdentity(id)); err != nil {
		s.lg.Warn("Persisting session failed", zap.Error(err))
	}
}

func (s *Store) simulateLatency(ctx context.Context) error {
	if s.loginDelay <= 0 {
		return nil
	}
	select {
	case <-time.After(s.loginDelay):
		return nil
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "sign-in interrupted")
	}
}

func hashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
