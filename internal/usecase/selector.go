package usecase

import "github.com/sergioberino/tedcross/internal/domain"

// Contract categories never subject to EU-level publication
var excludedCategories = map[domain.ContractCategory]bool{
	domain.CategoryMinor:   true,
	domain.CategoryInHouse: true,
}

// SelectorConfig holds the eligibility knobs
type SelectorConfig struct {
	EUThreshold       float64
	UseSaraThresholds bool
}

// CandidateSelector filters domestic contracts into the matching-eligible
// universe and the (stricter) compliance-check universe.
type CandidateSelector struct {
	euThreshold float64
	useSara     bool
}

// NewCandidateSelector creates a selector with the given configuration
func NewCandidateSelector(config SelectorConfig) *CandidateSelector {
	threshold := config.EUThreshold
	if threshold <= 0 {
		threshold = defaultEUThreshold
	}
	return &CandidateSelector{
		euThreshold: threshold,
		useSara:     config.UseSaraThresholds,
	}
}

// MatchingEligible reports whether a contract can participate in matching:
// usable tax id, positive amount, resolvable fiscal year.
func (s *CandidateSelector) MatchingEligible(c *domain.DomesticContract) bool {
	if len(c.ContractorTaxID) < 5 {
		return false
	}
	if c.AwardAmount <= 0 {
		return false
	}
	return s.fiscalYear(c) != 0
}

// ComplianceEligible reports whether a contract legally belongs in the
// reference publication set: above the applicable threshold, not an excluded
// category, not an emergency procedure.
func (s *CandidateSelector) ComplianceEligible(c *domain.DomesticContract) bool {
	if !s.MatchingEligible(c) {
		return false
	}
	if excludedCategories[c.Category] || c.Emergency {
		return false
	}
	threshold, ok := s.ApplicableThreshold(c)
	return ok && c.AwardAmount >= threshold
}

// ApplicableThreshold returns the EU publication threshold for this
// contract. In the default flat mode every contract gets the single
// configured floor; in SARA mode the per-biennium table applies and
// contracts outside its scope report no threshold at all.
func (s *CandidateSelector) ApplicableThreshold(c *domain.DomesticContract) (float64, bool) {
	if !s.useSara {
		return s.euThreshold, true
	}
	// Private-law and heritage contracts sit outside the harmonized regime
	if c.Category == domain.CategoryPrivate || c.Category == domain.CategoryHeritage {
		return 0, false
	}
	isCentral, isSector := ClassifyBuyer(c.OrganizationName)
	return saraThreshold(s.fiscalYear(c), c.Type, isCentral, isSector)
}

func (s *CandidateSelector) fiscalYear(c *domain.DomesticContract) int {
	return fiscalYearOf(c)
}

// fiscalYearOf resolves a contract's year, falling back to the award date.
// Eligibility checks, bucket lookups and per-year counters all go through
// this so a date-derived year behaves exactly like an explicit one.
func fiscalYearOf(c *domain.DomesticContract) int {
	if c.FiscalYear != 0 {
		return c.FiscalYear
	}
	if !c.AwardDate.IsZero() {
		return c.AwardDate.Year()
	}
	return 0
}
