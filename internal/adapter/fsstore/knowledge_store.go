package fsstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/user/chatsmith/internal/entity"
	"github.com/user/chatsmith/internal/repository"
)

// KnowledgeRepoImpl persists knowledge records as one JSON file per cache key.
type KnowledgeRepoImpl struct {
	dir string
}

var _ repository.KnowledgeRepository = (*KnowledgeRepoImpl)(nil)

// NewKnowledgeRepo creates the repository, creating the cache directory if needed.
func NewKnowledgeRepo(dir string) (*KnowledgeRepoImpl, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create knowledge dir: %w", err)
	}
	return &KnowledgeRepoImpl{dir: dir}, nil
}

func (r *KnowledgeRepoImpl) Lookup(ctx context.Context, cacheKey string) (*entity.KnowledgeRecord, error) {
	data, err := os.ReadFile(r.path(cacheKey))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", repository.ErrRecordNotFound, cacheKey)
		}
		return nil, fmt.Errorf("read knowledge record %s: %w", cacheKey, err)
	}
	var record entity.KnowledgeRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("decode knowledge record %s: %w", cacheKey, err)
	}
	return &record, nil
}

// Store writes the record to a temp file in the same directory and renames it
// into place, so a concurrent Lookup sees either the old record or the new
// one, never a partial write.
func (r *KnowledgeRepoImpl) Store(ctx context.Context, cacheKey string, record *entity.KnowledgeRecord) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", repository.ErrCacheWrite, cacheKey, err)
	}

	tmp, err := os.CreateTemp(r.dir, cacheKey+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp for %s: %v", repository.ErrCacheWrite, cacheKey, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: write %s: %v", repository.ErrCacheWrite, cacheKey, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: close %s: %v", repository.ErrCacheWrite, cacheKey, err)
	}
	if err := os.Rename(tmpName, r.path(cacheKey)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: rename %s: %v", repository.ErrCacheWrite, cacheKey, err)
	}
	return nil
}

func (r *KnowledgeRepoImpl) path(cacheKey string) string {
	return filepath.Join(r.dir, cacheKey+".json")
}
