package token

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := Open(context.Background(), "file:tokenstore?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`DELETE FROM metadata`)
	require.NoError(t, err)
	return NewSQLiteStore(db)
}

func TestToken_AbsentIsEmpty(t *testing.T) {
	s := setupStore(t)

	tok, err := s.Token(context.Background())
	require.NoError(t, err)
	require.Empty(t, tok)
}

func TestSetToken_RoundTrip(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetToken(ctx, "T1"))
	tok, err := s.Token(ctx)
	require.NoError(t, err)
	require.Equal(t, "T1", tok)

	// Replace, not append.
	require.NoError(t, s.SetToken(ctx, "T2"))
	tok, err = s.Token(ctx)
	require.NoError(t, err)
	require.Equal(t, "T2", tok)
}

func TestSetToken_StampsSavedAt(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetToken(ctx, "T1"))

	saved, err := s.get(ctx, keyTokenSavedAt)
	require.NoError(t, err)
	require.NotEmpty(t, saved)
}

func TestClear_RemovesCredentialOnly(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetToken(ctx, "T1"))
	id, err := s.DeviceID(ctx)
	require.NoError(t, err)

	require.NoError(t, s.Clear(ctx))

	tok, err := s.Token(ctx)
	require.NoError(t, err)
	require.Empty(t, tok)

	// Device identity survives logout.
	again, err := s.DeviceID(ctx)
	require.NoError(t, err)
	require.Equal(t, id, again)
}

func TestDeviceID_StableAcrossCalls(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	a, err := s.DeviceID(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, a)

	b, err := s.DeviceID(ctx)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestOpen_AppliesMigrations(t *testing.T) {
	db, err := Open(context.Background(), "file:tokenmigrations?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM metadata`).Scan(&n))
	require.Equal(t, 0, n)
}
