package journal

import (
	"testing"
)

// OpenTestJournal opens an in-memory journal with all migrations
// applied. It is closed when the test finishes.
func OpenTestJournal(t *testing.T) *Journal {
	t.Helper()

	j, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open test journal: %v", err)
	}
	t.Cleanup(func() { j.Close() })

	return j
}
