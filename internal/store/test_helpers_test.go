package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/roach88/daftar/internal/sale"
	"github.com/roach88/daftar/internal/testutil"
)

// testEpoch is the fixed clock start for store tests: 1403/01/01 10:00 UTC.
var testEpoch = time.Date(2024, time.March, 20, 10, 0, 0, 0, time.UTC)

// createTestStore creates a store in a temp dir with a fixed clock.
func createTestStore(t *testing.T) (*Store, *testutil.FixedClock) {
	t.Helper()
	clock := testutil.NewFixedClock(testEpoch)
	logger, _ := logtest.NewNullLogger()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, WithClock(clock.Now), WithLogger(logger))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, clock
}

// createLoggedStore is createTestStore with a logger hook for inspecting
// warnings.
func createLoggedStore(t *testing.T) (*Store, *logtest.Hook) {
	t.Helper()
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, WithClock(testutil.NewFixedClock(testEpoch).Now), WithLogger(logger))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, hook
}

// newSale builds valid input for AddSale.
func newSale(name, amount string) sale.NewSale {
	return sale.NewSale{
		CustomerName: name,
		Contact:      "0912" + name,
		Amount:       decimal.RequireFromString(amount),
		Category:     sale.CategoryOther,
	}
}
