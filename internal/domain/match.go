package domain

// MatchStrategy indicates which cascade step produced a match
type MatchStrategy string

const (
	StrategyWinnerTaxID MatchStrategy = "winner_tax_id"
	StrategyProcedureID MatchStrategy = "procedure_id"
	StrategyBuyerTaxID  MatchStrategy = "buyer_tax_id"
)

// MatchResult is the outcome of the match cascade for one domestic contract
type MatchResult struct {
	Matched          bool             `json:"matched"`
	Strategy         MatchStrategy    `json:"strategy,omitempty"`
	Reference        *ReferenceRecord `json:"reference,omitempty"`
	AmountDifference float64          `json:"amountDifference,omitempty"`
}

// EnrichedContract is a matched domestic contract carrying the reference-side
// fields copied from the winning entry.
type EnrichedContract struct {
	DomesticContract
	NoticeID                 string        `json:"noticeId"`
	ReferenceAmount          float64       `json:"referenceAmount"`
	AmountDifference         float64       `json:"amountDifference"`
	Strategy                 MatchStrategy `json:"strategy"`
	OffersCount              int           `json:"offersCount,omitempty"`
	WinnerSizeClass          string        `json:"winnerSizeClass,omitempty"`
	DirectAwardJustification string        `json:"directAwardJustification,omitempty"`
	SMEParticipation         string        `json:"smeParticipation,omitempty"`
	BuyerLegalType           string        `json:"buyerLegalType,omitempty"`
	ContractDuration         float64       `json:"contractDuration,omitempty"`
	AwardCriterionType       string        `json:"awardCriterionType,omitempty"`
	ReferenceCPV             string        `json:"referenceCpv,omitempty"`
	ReferenceProcedureID     string        `json:"referenceProcedureId,omitempty"`
}

// MissingContract is a compliance-eligible domestic contract with no
// reference match: a candidate transparency gap.
type MissingContract struct {
	DomesticContract
	ApplicableThreshold float64 `json:"applicableThreshold"`
	AmountExcess        float64 `json:"amountExcess"`
}

// Verdict is the per-record classification combining eligibility and match
// outcome. Missing implies ComplianceEligible and not Matched.
type Verdict struct {
	Contract           DomesticContract `json:"contract"`
	MatchingEligible   bool             `json:"matchingEligible"`
	ComplianceEligible bool             `json:"complianceEligible"`
	Matched            bool             `json:"matched"`
	Missing            bool             `json:"missing"`
	Strategy           MatchStrategy    `json:"strategy,omitempty"`
}
