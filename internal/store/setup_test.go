package store_test

import (
	"flag"
	"os"
	"testing"

	"github.com/koassets/rights-backend/internal/testutil"
)

var sharedRedis *testutil.TestRedis

// TestMain starts one Redis container shared by every test in the
// package. Skipped entirely in short mode.
func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	sharedRedis = testutil.NewTestRedis(&testing.T{})

	code := m.Run()

	sharedRedis.Close()
	os.Exit(code)
}
