package repository

import (
	"context"

	"github.com/user/chatsmith/internal/entity"
)

// AuditRepository defines the interface for the crawl audit log. The audit
// log is observability only; it never influences pipeline decisions, so
// implementations may degrade to logging on failure.
type AuditRepository interface {
	// RecordPageOutcome stores the terminal outcome of one URL within an acquisition.
	RecordPageOutcome(ctx context.Context, audit *entity.PageAudit) error
}

// NoopAudit discards audit records. Wired when no audit backend is configured.
type NoopAudit struct{}

func (NoopAudit) RecordPageOutcome(ctx context.Context, audit *entity.PageAudit) error {
	return nil
}
