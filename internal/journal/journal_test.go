package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ainori-ai/mlagent/internal/ctxutil"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestJournal_RecordAndRecent(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Minute)
	entries := []Entry{
		{At: base, Command: "pipeline set", Target: "cam", Outcome: OutcomeOK, Duration: 12 * time.Millisecond},
		{At: base.Add(time.Second), Command: "model register", Target: "mobilenet", Outcome: OutcomeOK, Duration: 40 * time.Millisecond},
		{At: base.Add(2 * time.Second), Command: "model activate", Target: "mobilenet", Outcome: OutcomeError, RemoteCode: -22, Error: "agent status -22"},
	}
	for _, e := range entries {
		require.NoError(t, j.Record(ctx, e))
	}

	got, err := j.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "model activate", got[0].Command)
	assert.Equal(t, OutcomeError, got[0].Outcome)
	assert.Equal(t, int32(-22), got[0].RemoteCode)
	assert.Equal(t, "agent status -22", got[0].Error)
	assert.NotEqual(t, uuid.Nil, got[0].ID)

	assert.Equal(t, "model register", got[1].Command)
	assert.Equal(t, "mobilenet", got[1].Target)
	assert.Equal(t, 40*time.Millisecond, got[1].Duration)
}

func TestJournal_RecordUsesContextInvocationID(t *testing.T) {
	j := openTestJournal(t)
	id := uuid.New()
	ctx := ctxutil.WithInvocationID(context.Background(), id)

	require.NoError(t, j.Record(ctx, Entry{Command: "pipeline set", Target: "cam", Outcome: OutcomeOK}))

	got, err := j.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, id, got[0].ID)
}

func TestJournal_RecentEmpty(t *testing.T) {
	j := openTestJournal(t)

	got, err := j.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestJournal_Prune(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	old := Entry{At: time.Now().Add(-48 * time.Hour), Command: "resource get", Target: "imagenet", Outcome: OutcomeOK}
	fresh := Entry{Command: "pipeline launch", Target: "cam", Outcome: OutcomeOK}
	require.NoError(t, j.Record(ctx, old))
	require.NoError(t, j.Record(ctx, fresh))

	removed, err := j.Prune(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	got, err := j.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "pipeline launch", got[0].Command)
}

func TestJournal_OpenCreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "journal.db")
	j, err := Open(path)
	require.NoError(t, err)
	defer j.Close()

	require.NoError(t, j.Record(context.Background(), Entry{Command: "status", Outcome: OutcomeOK}))
}

func TestJournal_ReopenKeepsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	j, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, j.Record(context.Background(), Entry{Command: "model get", Target: "m", Outcome: OutcomeOK}))
	require.NoError(t, j.Close())

	j, err = Open(path)
	require.NoError(t, err)
	defer j.Close()

	got, err := j.Recent(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "model get", got[0].Command)
}

func TestDefaultPath(t *testing.T) {
	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Contains(t, path, "mlagentctl")
}
