package entity

import "time"

type PageOutcome string

const (
	PageOutcomeFetched       PageOutcome = "fetched"
	PageOutcomeOmitted       PageOutcome = "omitted"
	PageOutcomeFatal         PageOutcome = "fatal"
	PageOutcomeRobotsSkipped PageOutcome = "robots_skipped"
	PageOutcomeDiscardedThin PageOutcome = "discarded_thin"
)

// PageAudit records the terminal outcome of one URL within an acquisition.
// Mirrors the `crawl_audit` PostgreSQL table schema.
type PageAudit struct {
	ID             int64
	AcquisitionID  string
	URL            string
	Outcome        PageOutcome
	Reason         string
	HTTPStatusCode int
	Attempts       int
	OccurredAt     time.Time
}
