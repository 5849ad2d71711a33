package usecase

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/sergioberino/tedcross/internal/domain"
)

// ctxCheckInterval bounds how often the run loop polls for cancellation
const ctxCheckInterval = 4096

// CrossValConfig holds configuration for the cross-validation service
type CrossValConfig struct {
	Match     MatchConfig
	Selector  SelectorConfig
	Reporting ReportingConfig
}

// CrossValService runs one full cross-validation pass: select candidates,
// index the reference set, run the match cascade, classify, aggregate.
type CrossValService struct {
	selector   *CandidateSelector
	engine     *MatchEngine
	classifier *ComplianceClassifier
	aggregator *Aggregator
	debug      bool
}

// NewCrossValService creates a service with the given configuration
func NewCrossValService(config CrossValConfig) *CrossValService {
	selector := NewCandidateSelector(config.Selector)
	return &CrossValService{
		selector:   selector,
		engine:     NewMatchEngine(config.Match),
		classifier: NewComplianceClassifier(selector),
		aggregator: NewAggregator(config.Reporting),
		debug:      config.Match.EnableDebugLogging,
	}
}

// Run executes one cross-validation over fully materialized inputs. An
// empty reference set degrades to an all-unmatched report with a warning
// instead of failing; the only hard error is context cancellation.
func (s *CrossValService) Run(
	ctx context.Context,
	domestic []domain.DomesticContract,
	reference []domain.ReferenceRecord,
) (*domain.ComplianceReport, error) {
	started := time.Now()

	summary := domain.RunSummary{
		RunID:             uuid.NewString(),
		StartedAt:         started,
		DomesticTotal:     len(domestic),
		ReferenceTotal:    len(reference),
		MatchesByStrategy: make(map[domain.MatchStrategy]int),
		MatchedByYear:     make(map[int]int),
	}

	if len(reference) == 0 {
		summary.Warnings = append(summary.Warnings, domain.ErrEmptyReferenceSet.Error())
		log.Printf("WARNING: %v - every domestic record will be reported unmatched", domain.ErrEmptyReferenceSet)
	}

	index := BuildReferenceIndex(reference)
	summary.ReferenceIndexed = index.Indexed()
	log.Printf("Reference index: %d indexed, %d skipped (cancelled or no amount)", index.Indexed(), index.Skipped())

	// Match loop. Records are processed in input order; together with the
	// strict-minimum candidate selection this makes the run reproducible.
	results := make([]domain.MatchResult, len(domestic))
	for i := range domestic {
		if i%ctxCheckInterval == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}

		c := &domestic[i]
		if !s.selector.MatchingEligible(c) {
			if s.debug {
				log.Printf("[SELECT] skipping %s: not matching-eligible", c.ProcedureID)
			}
			continue
		}
		summary.MatchingEligible++

		results[i] = s.engine.Match(c, index)
		if results[i].Matched {
			summary.Matched++
			summary.MatchesByStrategy[results[i].Strategy]++
			summary.MatchedByYear[fiscalYearOf(c)]++
		}
	}

	if summary.MatchingEligible == 0 {
		summary.Warnings = append(summary.Warnings, domain.ErrNoEligibleRecords.Error())
		log.Printf("WARNING: %v", domain.ErrNoEligibleRecords)
	}

	verdicts, matched, missing := s.classifier.Classify(domestic, results)
	for i := range verdicts {
		if verdicts[i].ComplianceEligible {
			summary.ComplianceEligible++
		}
	}
	summary.Missing = len(missing)
	summary.Duration = time.Since(started)

	log.Printf("Cross-validation done in %s: %d/%d matched, %d missing (%d compliance-eligible)",
		summary.Duration.Round(time.Millisecond), summary.Matched,
		summary.MatchingEligible, summary.Missing, summary.ComplianceEligible)

	return &domain.ComplianceReport{
		Summary:           summary,
		Matched:           matched,
		Missing:           missing,
		Verdicts:          verdicts,
		OrganizationStats: s.aggregator.ByOrganization(verdicts),
		ContractorStats:   s.aggregator.ByContractor(verdicts),
	}, nil
}
