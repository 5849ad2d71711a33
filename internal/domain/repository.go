package domain

import "context"

// DomesticSource loads the national contract dataset
type DomesticSource interface {
	LoadDomestic(ctx context.Context, path string) ([]DomesticContract, error)
}

// ReferenceSource loads the normalized EU-notice dataset
type ReferenceSource interface {
	LoadReference(ctx context.Context, path string) ([]ReferenceRecord, error)
}

// ReportWriter persists the outputs of a run
type ReportWriter interface {
	WriteMatched(path string, matched []EnrichedContract) error
	WriteMissing(path string, missing []MissingContract) error
	WriteSummary(path string, summary RunSummary) error
}
