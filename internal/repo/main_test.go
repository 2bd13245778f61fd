package repo_test

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/pkordes/bluetrail/testutil"
)

// TestMain applies all pending migrations once for the repo_test binary so
// individual tests never need to think about schema state. Without
// TEST_DATABASE_URL the integration tests skip themselves.
func TestMain(m *testing.M) {
	if dsn := os.Getenv("TEST_DATABASE_URL"); dsn != "" {
		if err := testutil.MigrateUp(context.Background(), dsn); err != nil {
			log.Fatalf("TestMain: %v", err)
		}
	}
	os.Exit(m.Run())
}
