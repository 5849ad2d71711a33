package usecase

import (
	"sort"

	"github.com/sergioberino/tedcross/internal/domain"
)

// ComplianceClassifier combines match outcomes with compliance eligibility
// into per-record verdicts, the enriched matched set, and the missing set.
type ComplianceClassifier struct {
	selector *CandidateSelector
}

// NewComplianceClassifier creates a classifier sharing the run's selector
func NewComplianceClassifier(selector *CandidateSelector) *ComplianceClassifier {
	return &ComplianceClassifier{selector: selector}
}

// Classify walks contracts and their match results in lockstep. results[i]
// is the match outcome for contracts[i] (the zero MatchResult for records
// that never entered the engine). The missing set comes back sorted by
// amount descending: the highest-value gaps are the most material findings.
func (cc *ComplianceClassifier) Classify(
	contracts []domain.DomesticContract,
	results []domain.MatchResult,
) ([]domain.Verdict, []domain.EnrichedContract, []domain.MissingContract) {
	verdicts := make([]domain.Verdict, 0, len(contracts))
	var matched []domain.EnrichedContract
	var missing []domain.MissingContract

	for i := range contracts {
		c := &contracts[i]
		result := domain.MatchResult{}
		if i < len(results) {
			result = results[i]
		}

		eligible := cc.selector.ComplianceEligible(c)
		verdict := domain.Verdict{
			Contract:           *c,
			MatchingEligible:   cc.selector.MatchingEligible(c),
			ComplianceEligible: eligible,
			Matched:            result.Matched,
			Missing:            eligible && !result.Matched,
			Strategy:           result.Strategy,
		}
		verdicts = append(verdicts, verdict)

		if result.Matched && result.Reference != nil {
			matched = append(matched, enrich(*c, result))
		}
		if verdict.Missing {
			threshold, _ := cc.selector.ApplicableThreshold(c)
			missing = append(missing, domain.MissingContract{
				DomesticContract:    *c,
				ApplicableThreshold: threshold,
				AmountExcess:        c.AwardAmount - threshold,
			})
		}
	}

	sort.SliceStable(missing, func(i, j int) bool {
		return missing[i].AwardAmount > missing[j].AwardAmount
	})

	return verdicts, matched, missing
}

// enrich copies the reference-side fields onto a matched domestic contract
func enrich(c domain.DomesticContract, result domain.MatchResult) domain.EnrichedContract {
	ref := result.Reference
	return domain.EnrichedContract{
		DomesticContract:         c,
		NoticeID:                 ref.NoticeID,
		ReferenceAmount:          ref.Amount,
		AmountDifference:         result.AmountDifference,
		Strategy:                 result.Strategy,
		OffersCount:              ref.OffersCount,
		WinnerSizeClass:          ref.WinnerSizeClass,
		DirectAwardJustification: ref.DirectAwardJustification,
		SMEParticipation:         ref.SMEParticipation,
		BuyerLegalType:           ref.BuyerLegalType,
		ContractDuration:         ref.ContractDuration,
		AwardCriterionType:       ref.AwardCriterionType,
		ReferenceCPV:             ref.CPVCode,
		ReferenceProcedureID:     ref.InternalProcedureID,
	}
}
