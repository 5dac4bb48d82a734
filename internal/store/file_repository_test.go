package store

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayush-bhatt-07/klix-marketplace/internal/domain"
)

func newTestFileRepository(t *testing.T) (*FileRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "db.json")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewFileRepository(path, logger), path
}

func TestFileRepository_LoadMissingFileReturnsEmptyDocument(t *testing.T) {
	repo, _ := newTestFileRepository(t)

	doc := repo.Load(context.Background())

	require.NotNil(t, doc)
	assert.Empty(t, doc.Tasks)
	assert.NotNil(t, doc.Tasks)
	assert.NotNil(t, doc.Accepted)
	assert.NotNil(t, doc.Wallets)
	assert.NotNil(t, doc.Campaigns)
}

func TestFileRepository_LoadDefaultsMissingCollections(t *testing.T) {
	repo, path := newTestFileRepository(t)
	require.NoError(t, os.WriteFile(path, []byte(`{"tasks":[{"id":1,"title":"Reel","reward":"$50"}]}`), 0o644))

	doc := repo.Load(context.Background())

	require.Len(t, doc.Tasks, 1)
	assert.Equal(t, domain.Amount("$50"), doc.Tasks[0].Reward)
	assert.NotNil(t, doc.Accepted)
	assert.NotNil(t, doc.Wallets)
	assert.NotNil(t, doc.Campaigns)
}

func TestFileRepository_LoadMalformedFileFailsOpenAndPreservesIt(t *testing.T) {
	repo, path := newTestFileRepository(t)
	repo.now = func() time.Time { return time.Unix(1700000000, 0) }
	require.NoError(t, os.WriteFile(path, []byte(`{"tasks": [`), 0o644))

	doc := repo.Load(context.Background())

	assert.Empty(t, doc.Tasks)
	_, err := os.Stat(path)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	preserved, err := os.ReadFile(path + ".corrupt-1700000000")
	require.NoError(t, err)
	assert.Equal(t, `{"tasks": [`, string(preserved))
}

func TestFileRepository_SaveThenLoadRoundTrip(t *testing.T) {
	repo, path := newTestFileRepository(t)
	ctx := context.Background()

	doc := domain.NewDocument()
	doc.Tasks = append(doc.Tasks, domain.Task{ID: 3, Title: "Story", Reward: "120"})
	wallet := doc.WalletFor(domain.Influencer{ID: 1, Name: "Meera"})
	wallet.Credit(40, "task:2", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))

	require.NoError(t, repo.Save(ctx, doc))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(raw), "\n  \"tasks\": ["), "document should be indented")

	loaded := repo.Load(ctx)
	require.Len(t, loaded.Tasks, 1)
	assert.Equal(t, int64(3), loaded.Tasks[0].ID)
	require.Len(t, loaded.Wallets, 1)
	assert.InDelta(t, 40, loaded.Wallets[0].Balance, 1e-9)
	assert.Equal(t, "task:2", loaded.Wallets[0].Transactions[0].Source)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestFileRepository_SaveFailureIsReported(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	repo := NewFileRepository(filepath.Join(blocker, "db.json"), slog.New(slog.NewTextHandler(io.Discard, nil)))
	err := repo.Save(context.Background(), domain.NewDocument())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSaveFailed)
}

func TestMemoryRepository_CopiesOnLoad(t *testing.T) {
	seed := domain.NewDocument()
	seed.Tasks = append(seed.Tasks, domain.Task{ID: 1})
	repo := NewMemoryRepository(seed)
	ctx := context.Background()

	first := repo.Load(ctx)
	first.Tasks = nil

	second := repo.Load(ctx)
	assert.Len(t, second.Tasks, 1)

	repo.SaveErr = errors.New("disk full")
	assert.ErrorIs(t, repo.Save(ctx, second), ErrSaveFailed)
	assert.Equal(t, 0, repo.Saves())
}
