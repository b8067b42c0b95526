package fsstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/chatsmith/internal/entity"
	"github.com/user/chatsmith/internal/repository"
)

func TestStoreAndLookup(t *testing.T) {
	repo, err := NewKnowledgeRepo(t.TempDir())
	require.NoError(t, err)

	record := entity.NewKnowledgeRecord("https://example.com", "Example",
		[]entity.PageRecord{{URL: "https://example.com", Title: "Home", PageType: entity.PageTypeHomepage}},
		[]entity.SearchResult{{Query: "pricing", Snippet: "cheap"}})

	require.NoError(t, repo.Store(context.Background(), "example_com_abc123def456", record))

	got, err := repo.Lookup(context.Background(), "example_com_abc123def456")
	require.NoError(t, err)
	assert.Equal(t, record.Metadata.SourceURL, got.Metadata.SourceURL)
	assert.Equal(t, record.PrimaryContent, got.PrimaryContent)
	assert.Equal(t, record.SecondaryContent, got.SecondaryContent)
}

func TestLookupMissing(t *testing.T) {
	repo, err := NewKnowledgeRepo(t.TempDir())
	require.NoError(t, err)

	_, err = repo.Lookup(context.Background(), "nope_000000000000")
	assert.ErrorIs(t, err, repository.ErrRecordNotFound)
}

func TestStoreOverwrites(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewKnowledgeRepo(dir)
	require.NoError(t, err)

	first := entity.NewKnowledgeRecord("https://example.com", "Old", nil, nil)
	second := entity.NewKnowledgeRecord("https://example.com", "New", nil, nil)

	require.NoError(t, repo.Store(context.Background(), "key_abc", first))
	require.NoError(t, repo.Store(context.Background(), "key_abc", second))

	got, err := repo.Lookup(context.Background(), "key_abc")
	require.NoError(t, err)
	assert.Equal(t, "New", got.Metadata.DisplayName)

	// No temp files are left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "key_abc.json", entries[0].Name())
}

func TestNewKnowledgeRepoCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "cache")
	_, err := NewKnowledgeRepo(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
