package service_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/onbd/internal/onbd/store"
	"github.com/aussiebroadwan/onbd/internal/onbd/store/drivers/sqlite"
	"github.com/aussiebroadwan/onbd/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

const testAESKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

var testSecret = []byte("service-test-secret-at-least-32-bytes!!")

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.NewStore(sqlite.FileDSN(filepath.Join(t.TempDir(), "onbd.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func newTestCipher(t *testing.T) *cryptox.FieldCipher {
	t.Helper()

	c, err := cryptox.NewFieldCipher(testAESKey)
	require.NoError(t, err)
	return c
}

// fixedClock returns a clock whose reading can be moved by the test.
func fixedClock(at time.Time) (func() time.Time, func(time.Time)) {
	now := at
	return func() time.Time { return now }, func(t time.Time) { now = t }
}
