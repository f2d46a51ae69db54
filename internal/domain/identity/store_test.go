package identity

import (
	"context"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/agrikart/agrikart/internal/storage"
)

func newTestStore(bridge storage.Bridge) *Store {
	return NewStore(context.Background(), bridge, zap.NewNop(), 0)
}

// unreadableBridge fails every Load the way a damaged compressed container
// does, and counts purged entries.
type unreadableBridge struct {
	*storage.Memory
	cleared int
}

func (b *unreadableBridge) Load(context.Context, string, string) ([]byte, error) {
	return nil, errors.New("gzip: invalid header")
}

func (b *unreadableBridge) Clear(ctx context.Context, identityID, key string) error {
	b.cleared++
	return b.Memory.Clear(ctx, identityID, key)
}

func TestSignup_SignsIn(t *testing.T) {
	s := newTestStore(storage.NewMemory())
	ctx := context.Background()

	id, err := s.Signup(ctx, "ravi", "ravi@example.com", "secret", "Farm Road 4", "9876543210")
	require.NoError(t, err)
	assert.NotEmpty(t, id.ID)
	assert.Equal(t, "ravi", id.Username)
	assert.False(t, id.Admin)

	current, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, id, current)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	s := newTestStore(storage.NewMemory())
	ctx := context.Background()

	_, err := s.Signup(ctx, "ravi", "ravi@example.com", "secret", "", "")
	require.NoError(t, err)

	_, err = s.Signup(ctx, "other", "ravi@example.com", "different", "", "")
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	bridge := storage.NewMemory()
	s := newTestStore(bridge)
	ctx := context.Background()

	created, err := s.Signup(ctx, "ravi", "ravi@example.com", "secret", "", "")
	require.NoError(t, err)
	s.SignOut(ctx)

	_, err = s.Login(ctx, "ravi@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, ok := s.Current()
	assert.False(t, ok, "failed login must not establish a session")

	id, err := s.Login(ctx, "ravi@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, created.ID, id.ID)
}

func TestLogin_FixedAdminAccount(t *testing.T) {
	s := newTestStore(storage.NewMemory())

	id, err := s.Login(context.Background(), "admin@gmail.com", "admin@123")
	require.NoError(t, err)
	assert.True(t, id.Admin)
	assert.Equal(t, "admin", id.ID)
}

func TestSignOut_NotifiesListeners(t *testing.T) {
	s := newTestStore(storage.NewMemory())
	ctx := context.Background()

	var events []bool
	s.OnChange(func(_ Identity, signedIn bool) {
		events = append(events, signedIn)
	})

	_, err := s.Signup(ctx, "ravi", "ravi@example.com", "secret", "", "")
	require.NoError(t, err)
	s.SignOut(ctx)
	s.SignOut(ctx) // second sign-out is a no-op

	assert.Equal(t, []bool{true, false}, events)
	_, ok := s.Current()
	assert.False(t, ok)
}

func TestUpdateProfile(t *testing.T) {
	bridge := storage.NewMemory()
	s := newTestStore(bridge)
	ctx := context.Background()

	_, err := s.Signup(ctx, "ravi", "ravi@example.com", "secret", "Old Road", "")
	require.NoError(t, err)

	username := "ravi_k"
	address := "New Road 7"
	updated, err := s.UpdateProfile(ctx, Patch{Username: &username, Address: &address})
	require.NoError(t, err)
	assert.Equal(t, "ravi_k", updated.Username)
	assert.Equal(t, "New Road 7", updated.Address)
	assert.Equal(t, "ravi@example.com", updated.Email, "untouched fields stay")

	// The stored account changed too: a later login sees the new profile.
	s.SignOut(ctx)
	id, err := s.Login(ctx, "ravi@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "ravi_k", id.Username)
}

func TestUpdateProfile_RequiresSession(t *testing.T) {
	s := newTestStore(storage.NewMemory())

	username := "nobody"
	_, err := s.UpdateProfile(context.Background(), Patch{Username: &username})
	require.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestRestore_ResumesSession(t *testing.T) {
	bridge := storage.NewMemory()
	ctx := context.Background()

	s := newTestStore(bridge)
	created, err := s.Signup(ctx, "ravi", "ravi@example.com", "secret", "", "")
	require.NoError(t, err)

	// A fresh store over the same bridge resumes the session and accounts.
	s2 := newTestStore(bridge)
	current, ok := s2.Current()
	require.True(t, ok)
	assert.Equal(t, created, current)

	s2.SignOut(ctx)
	_, err = s2.Login(ctx, "ravi@example.com", "secret")
	require.NoError(t, err)
}

func TestRestore_PurgesCorruptDocuments(t *testing.T) {
	bridge := storage.NewMemory()
	ctx := context.Background()
	require.NoError(t, bridge.Save(ctx, accountsPartition, accountsKey, []byte("???")))
	require.NoError(t, bridge.Save(ctx, accountsPartition, sessionKey, []byte("{oops")))

	s := newTestStore(bridge)

	_, ok := s.Current()
	assert.False(t, ok)
	_, err := bridge.Load(ctx, accountsPartition, accountsKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = bridge.Load(ctx, accountsPartition, sessionKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestRestore_PurgesUnreadableDocuments(t *testing.T) {
	bridge := &unreadableBridge{Memory: storage.NewMemory()}

	s := newTestStore(bridge)

	_, ok := s.Current()
	assert.False(t, ok)
	assert.Equal(t, 2, bridge.cleared, "both unreadable documents must be purged")
}

func TestLogin_HonorsContextDuringDelay(t *testing.T) {
	s := NewStore(context.Background(), storage.NewMemory(), zap.NewNop(), time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Login(ctx, "ravi@example.com", "secret")
	require.ErrorIs(t, err, context.Canceled)
}
