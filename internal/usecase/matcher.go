package usecase

import (
	"log"
	"math"
	"strings"

	"github.com/sergioberino/tedcross/internal/domain"
)

// Fixed matching policy: a candidate pair is within tolerance when the
// amounts differ by at most 10% of the domestic amount or 5000 euros,
// whichever is larger.
const (
	defaultTolerancePct = 0.10
	defaultToleranceAbs = 5_000
	defaultYearWindow   = 1
)

// MatchConfig holds configuration for the match engine
type MatchConfig struct {
	TolerancePct        float64
	ToleranceAbs        float64
	YearWindow          int
	EnableBuyerFallback bool
	EnableDebugLogging  bool
}

// matchStrategy is one step of the cascade. Strategies share a signature so
// they can be reordered and tested independently; each returns the
// closest-amount unconsumed entry within tolerance, or nil.
type matchStrategy struct {
	name domain.MatchStrategy
	find func(c *domain.DomesticContract, idx *ReferenceIndex, tol float64) *ReferenceEntry
}

// MatchEngine runs the tolerance-based matching cascade over the reference
// index, consuming each winning entry so no reference record ever backs two
// domestic contracts.
type MatchEngine struct {
	tolerancePct float64
	toleranceAbs float64
	yearWindow   int
	debug        bool
	strategies   []matchStrategy
}

// NewMatchEngine creates an engine with the given configuration, falling
// back to the fixed policy defaults for unset values.
func NewMatchEngine(config MatchConfig) *MatchEngine {
	pct := config.TolerancePct
	if pct <= 0 {
		pct = defaultTolerancePct
	}
	abs := config.ToleranceAbs
	if abs <= 0 {
		abs = defaultToleranceAbs
	}
	window := config.YearWindow
	if window < 0 {
		window = defaultYearWindow
	}

	e := &MatchEngine{
		tolerancePct: pct,
		toleranceAbs: abs,
		yearWindow:   window,
		debug:        config.EnableDebugLogging,
	}

	e.strategies = []matchStrategy{
		{domain.StrategyWinnerTaxID, e.findByWinnerTaxID},
		{domain.StrategyProcedureID, e.findByProcedureID},
	}
	if config.EnableBuyerFallback {
		e.strategies = append(e.strategies, matchStrategy{domain.StrategyBuyerTaxID, e.findByBuyerTaxID})
	}

	return e
}

// Tolerance returns the acceptable amount difference for a domestic amount
func (e *MatchEngine) Tolerance(amount float64) float64 {
	return math.Max(amount*e.tolerancePct, e.toleranceAbs)
}

// Match tries the cascade for one matching-eligible domestic contract. The
// first strategy that yields a candidate wins; the winning entry is marked
// consumed before returning.
func (e *MatchEngine) Match(c *domain.DomesticContract, idx *ReferenceIndex) domain.MatchResult {
	tol := e.Tolerance(c.AwardAmount)

	for _, strategy := range e.strategies {
		entry := strategy.find(c, idx, tol)
		if entry == nil {
			continue
		}
		entry.consume()
		diff := math.Abs(entry.Record.Amount - c.AwardAmount)
		if e.debug {
			log.Printf("[MATCH] %s %s %.0f -> %s (diff %.0f, %s)",
				c.ContractorTaxID, c.ProcedureID, c.AwardAmount,
				entry.Record.NoticeID, diff, strategy.name)
		}
		return domain.MatchResult{
			Matched:          true,
			Strategy:         strategy.name,
			Reference:        &entry.Record,
			AmountDifference: diff,
		}
	}

	return domain.MatchResult{}
}

// findByWinnerTaxID scans (contractor tax id, year) buckets across the year
// window (offset 0, then +1/-1) and keeps the global minimum difference.
func (e *MatchEngine) findByWinnerTaxID(c *domain.DomesticContract, idx *ReferenceIndex, tol float64) *ReferenceEntry {
	var best *ReferenceEntry
	bestDiff := math.Inf(1)
	fiscalYear := fiscalYearOf(c)

	for offset := 0; offset <= e.yearWindow; offset++ {
		years := []int{fiscalYear + offset}
		if offset > 0 {
			years = append(years, fiscalYear-offset)
		}
		for _, year := range years {
			best, bestDiff = closestInBucket(idx.winnerBucket(c.ContractorTaxID, year), c.AwardAmount, tol, best, bestDiff)
		}
	}

	return best
}

// findByProcedureID matches on the normalized expedient number, ignoring
// the year entirely. Only attempted with a usable procedure id.
func (e *MatchEngine) findByProcedureID(c *domain.DomesticContract, idx *ReferenceIndex, tol float64) *ReferenceEntry {
	procID := strings.ToUpper(strings.TrimSpace(c.ProcedureID))
	if len(procID) < minProcedureIDLen {
		return nil
	}
	best, _ := closestInBucket(idx.procedureBucket(procID), c.AwardAmount, tol, nil, math.Inf(1))
	return best
}

// findByBuyerTaxID is the optional last-resort fallback keyed on the
// contracting organization instead of the winner.
func (e *MatchEngine) findByBuyerTaxID(c *domain.DomesticContract, idx *ReferenceIndex, tol float64) *ReferenceEntry {
	if len(c.OrganizationTaxID) < 5 {
		return nil
	}
	var best *ReferenceEntry
	bestDiff := math.Inf(1)
	fiscalYear := fiscalYearOf(c)

	for offset := 0; offset <= e.yearWindow; offset++ {
		years := []int{fiscalYear + offset}
		if offset > 0 {
			years = append(years, fiscalYear-offset)
		}
		for _, year := range years {
			best, bestDiff = closestInBucket(idx.buyerBucket(c.OrganizationTaxID, year), c.AwardAmount, tol, best, bestDiff)
		}
	}

	return best
}

// closestInBucket scans a bucket for the unconsumed entry with the smallest
// amount difference within tolerance. Strict less-than keeps the first
// encountered entry on ties, which makes results reproducible for a fixed
// input order.
func closestInBucket(entries []*ReferenceEntry, amount, tol float64, best *ReferenceEntry, bestDiff float64) (*ReferenceEntry, float64) {
	for _, entry := range entries {
		if entry.consumed {
			continue
		}
		diff := math.Abs(entry.Record.Amount - amount)
		if diff <= tol && diff < bestDiff {
			best = entry
			bestDiff = diff
		}
	}
	return best, bestDiff
}
