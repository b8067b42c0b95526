package entity

import "time"

type FetchStatus string

const (
	FetchSuccess          FetchStatus = "success"
	FetchRetryableFailure FetchStatus = "retryable_failure"
	FetchFatalFailure     FetchStatus = "fatal_failure"
)

// FetchOutcome is the discriminated result of one fetch attempt sequence.
// Every fetch yields exactly one outcome; outcomes are never silently dropped.
type FetchOutcome struct {
	URL        string
	Status     FetchStatus
	StatusCode int
	Body       []byte
	Elapsed    time.Duration
	Reason     string
	Attempts   int
}

func (o *FetchOutcome) OK() bool {
	return o.Status == FetchSuccess
}
