package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/chatsmith/internal/entity"
	"github.com/user/chatsmith/internal/repository"
)

const auditSchema = `
CREATE TABLE IF NOT EXISTS crawl_audit (
	id BIGSERIAL PRIMARY KEY,
	acquisition_id TEXT NOT NULL,
	url TEXT NOT NULL,
	outcome TEXT NOT NULL,
	reason TEXT NOT NULL DEFAULT '',
	http_status_code INT NOT NULL DEFAULT 0,
	attempts INT NOT NULL DEFAULT 0,
	occurred_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_crawl_audit_acquisition ON crawl_audit (acquisition_id);
CREATE INDEX IF NOT EXISTS idx_crawl_audit_url ON crawl_audit (url);
`

// AuditRepoImpl persists per-page crawl outcomes to PostgreSQL.
type AuditRepoImpl struct {
	db *pgxpool.Pool
}

var _ repository.AuditRepository = (*AuditRepoImpl)(nil)

func NewAuditRepo(db *pgxpool.Pool) *AuditRepoImpl {
	return &AuditRepoImpl{db: db}
}

// EnsureSchema creates the audit table and indexes if they do not exist.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, auditSchema); err != nil {
		return fmt.Errorf("ensure crawl_audit schema: %w", err)
	}
	return nil
}

func (r *AuditRepoImpl) RecordPageOutcome(ctx context.Context, audit *entity.PageAudit) error {
	query := `
		INSERT INTO crawl_audit (acquisition_id, url, outcome, reason, http_status_code, attempts, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query,
		audit.AcquisitionID,
		audit.URL,
		string(audit.Outcome),
		audit.Reason,
		audit.HTTPStatusCode,
		audit.Attempts,
		audit.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("insert crawl audit for %s: %w", audit.URL, err)
	}
	return nil
}
