package domain

import "errors"

var (
	// ErrEmptyReferenceSet is returned when the reference dataset is empty;
	// the run degrades to all-unmatched rather than aborting
	ErrEmptyReferenceSet = errors.New("reference dataset is empty")

	// ErrNoEligibleRecords is reported as a run warning when no domestic
	// record passes the matching-eligibility filter
	ErrNoEligibleRecords = errors.New("no matching-eligible domestic records")

	// ErrReportNotReady is returned by the results API before a run finished
	ErrReportNotReady = errors.New("cross-validation report not ready")

	// ErrRateLimited is returned when the API rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")
)
