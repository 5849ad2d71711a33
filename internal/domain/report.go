package domain

import "time"

// RunSummary holds the headline counters of one cross-validation run
type RunSummary struct {
	RunID              string                `json:"runId"`
	StartedAt          time.Time             `json:"startedAt"`
	Duration           time.Duration         `json:"duration"`
	DomesticTotal      int                   `json:"domesticTotal"`
	ReferenceTotal     int                   `json:"referenceTotal"`
	ReferenceIndexed   int                   `json:"referenceIndexed"`
	MatchingEligible   int                   `json:"matchingEligible"`
	ComplianceEligible int                   `json:"complianceEligible"`
	Matched            int                   `json:"matched"`
	Missing            int                   `json:"missing"`
	MatchesByStrategy  map[MatchStrategy]int `json:"matchesByStrategy"`
	MatchedByYear      map[int]int           `json:"matchedByYear"`
	Warnings           []string              `json:"warnings,omitempty"`
}

// GroupStats are per-organization or per-contractor compliance statistics.
// PctMissing is nil when the group has fewer compliance-eligible records
// than the configured minimum: absent, not zero.
type GroupStats struct {
	Key                string   `json:"key"`
	Contracts          int      `json:"contracts"`
	ComplianceEligible int      `json:"complianceEligible"`
	Matched            int      `json:"matched"`
	Missing            int      `json:"missing"`
	PctMissing         *float64 `json:"pctMissing,omitempty"`
	PctValidated       float64  `json:"pctValidated"`
}

// ComplianceReport is the full output of one run
type ComplianceReport struct {
	Summary           RunSummary         `json:"summary"`
	Matched           []EnrichedContract `json:"matched"`
	Missing           []MissingContract  `json:"missing"`
	Verdicts          []Verdict          `json:"-"`
	OrganizationStats []GroupStats       `json:"organizationStats"`
	ContractorStats   []GroupStats       `json:"contractorStats"`
}
