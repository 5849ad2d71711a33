package usecase

import (
	"sort"

	"github.com/sergioberino/tedcross/internal/domain"
)

// defaultMinGroupSize is the minimum number of compliance-eligible records
// a group needs before a missing percentage is reported. Smaller groups
// report no percentage at all.
const defaultMinGroupSize = 3

// ReportingConfig holds aggregation settings
type ReportingConfig struct {
	MinGroupSize int
}

// Aggregator computes per-group compliance statistics from verdicts
type Aggregator struct {
	minGroupSize int
}

// NewAggregator creates an aggregator with the given configuration
func NewAggregator(config ReportingConfig) *Aggregator {
	size := config.MinGroupSize
	if size <= 0 {
		size = defaultMinGroupSize
	}
	return &Aggregator{minGroupSize: size}
}

// ByOrganization groups verdicts by contracting organization name
func (a *Aggregator) ByOrganization(verdicts []domain.Verdict) []domain.GroupStats {
	return a.aggregate(verdicts, func(v *domain.Verdict) string {
		return v.Contract.OrganizationName
	})
}

// ByContractor groups verdicts by contractor tax id
func (a *Aggregator) ByContractor(verdicts []domain.Verdict) []domain.GroupStats {
	return a.aggregate(verdicts, func(v *domain.Verdict) string {
		return v.Contract.ContractorTaxID
	})
}

func (a *Aggregator) aggregate(verdicts []domain.Verdict, keyOf func(*domain.Verdict) string) []domain.GroupStats {
	groups := make(map[string]*domain.GroupStats)
	var order []string

	for i := range verdicts {
		v := &verdicts[i]
		key := keyOf(v)
		if key == "" {
			continue
		}
		stats, ok := groups[key]
		if !ok {
			stats = &domain.GroupStats{Key: key}
			groups[key] = stats
			order = append(order, key)
		}
		stats.Contracts++
		if v.ComplianceEligible {
			stats.ComplianceEligible++
		}
		if v.Matched {
			stats.Matched++
		}
		if v.Missing {
			stats.Missing++
		}
	}

	out := make([]domain.GroupStats, 0, len(groups))
	for _, key := range order {
		stats := groups[key]
		stats.PctValidated = float64(stats.Matched) / float64(stats.Contracts) * 100
		if stats.ComplianceEligible >= a.minGroupSize {
			pct := float64(stats.Missing) / float64(stats.ComplianceEligible) * 100
			stats.PctMissing = &pct
		}
		out = append(out, *stats)
	}

	// Worst offenders first; stable on the input order for equal counts
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Missing > out[j].Missing
	})

	return out
}
