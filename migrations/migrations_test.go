package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFS_PairsUpAndDown(t *testing.T) {
	names, err := fs.Glob(FS, "*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, names)

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, n := range names {
		switch {
		case strings.HasSuffix(n, ".up.sql"):
			ups[strings.TrimSuffix(n, ".up.sql")] = true
		case strings.HasSuffix(n, ".down.sql"):
			downs[strings.TrimSuffix(n, ".down.sql")] = true
		default:
			t.Fatalf("unexpected migration file %s", n)
		}
	}
	assert.Equal(t, ups, downs)
}

func TestFS_ScheduledForIsRangeChecked(t *testing.T) {
	body, err := FS.ReadFile("000001_init.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(body), "CHECK (scheduled_for BETWEEN 1 AND 28)")
	assert.Contains(t, string(body), "checkout_session_id VARCHAR(255) NOT NULL UNIQUE")
}
