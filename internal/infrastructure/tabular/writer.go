package tabular

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/sergioberino/tedcross/internal/domain"
)

// CSVWriter persists the matched set, the missing set, and the key-value
// stats report of a run.
type CSVWriter struct{}

// NewCSVWriter creates a writer
func NewCSVWriter() *CSVWriter {
	return &CSVWriter{}
}

var matchedHeader = []string{
	"procedure_id", "organization_name", "organization_tax_id",
	"contractor_name", "contractor_tax_id", "award_amount", "fiscal_year",
	"contract_category", "cpv_code",
	"notice_id", "reference_amount", "amount_difference", "match_strategy",
	"offers_count", "winner_size", "direct_award_justification",
	"sme_participation", "buyer_legal_type", "contract_duration",
	"award_criterion_type", "reference_cpv", "reference_procedure_id",
}

// WriteMatched writes the enriched matched set
func (w *CSVWriter) WriteMatched(path string, matched []domain.EnrichedContract) error {
	return writeCSV(path, matchedHeader, len(matched), func(i int) []string {
		m := matched[i]
		return []string{
			m.ProcedureID, m.OrganizationName, m.OrganizationTaxID,
			m.ContractorName, m.ContractorTaxID, formatAmount(m.AwardAmount),
			strconv.Itoa(m.FiscalYear), string(m.Category), m.CPVCode,
			m.NoticeID, formatAmount(m.ReferenceAmount), formatAmount(m.AmountDifference),
			string(m.Strategy), strconv.Itoa(m.OffersCount), m.WinnerSizeClass,
			m.DirectAwardJustification, m.SMEParticipation, m.BuyerLegalType,
			formatAmount(m.ContractDuration), m.AwardCriterionType,
			m.ReferenceCPV, m.ReferenceProcedureID,
		}
	})
}

var missingHeader = []string{
	"procedure_id", "organization_name", "organization_tax_id",
	"contractor_name", "contractor_tax_id", "award_amount", "fiscal_year",
	"contract_category", "cpv_code", "applicable_threshold", "amount_excess",
}

// WriteMissing writes the missing set (already sorted by amount descending)
func (w *CSVWriter) WriteMissing(path string, missing []domain.MissingContract) error {
	return writeCSV(path, missingHeader, len(missing), func(i int) []string {
		m := missing[i]
		return []string{
			m.ProcedureID, m.OrganizationName, m.OrganizationTaxID,
			m.ContractorName, m.ContractorTaxID, formatAmount(m.AwardAmount),
			strconv.Itoa(m.FiscalYear), string(m.Category), m.CPVCode,
			formatAmount(m.ApplicableThreshold), formatAmount(m.AmountExcess),
		}
	})
}

// WriteSummary writes the run counters as a plain key-value text report
func (w *CSVWriter) WriteSummary(path string, summary domain.RunSummary) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating stats report: %w", err)
	}
	defer f.Close()

	fmt.Fprintf(f, "run_id: %s\n", summary.RunID)
	fmt.Fprintf(f, "started_at: %s\n", summary.StartedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(f, "duration: %s\n", summary.Duration)
	fmt.Fprintf(f, "domestic_total: %d\n", summary.DomesticTotal)
	fmt.Fprintf(f, "reference_total: %d\n", summary.ReferenceTotal)
	fmt.Fprintf(f, "reference_indexed: %d\n", summary.ReferenceIndexed)
	fmt.Fprintf(f, "matching_eligible: %d\n", summary.MatchingEligible)
	fmt.Fprintf(f, "compliance_eligible: %d\n", summary.ComplianceEligible)
	fmt.Fprintf(f, "matched: %d\n", summary.Matched)
	fmt.Fprintf(f, "missing: %d\n", summary.Missing)

	strategies := make([]string, 0, len(summary.MatchesByStrategy))
	for s := range summary.MatchesByStrategy {
		strategies = append(strategies, string(s))
	}
	sort.Strings(strategies)
	for _, s := range strategies {
		fmt.Fprintf(f, "matched_by_%s: %d\n", s, summary.MatchesByStrategy[domain.MatchStrategy(s)])
	}

	years := make([]int, 0, len(summary.MatchedByYear))
	for y := range summary.MatchedByYear {
		years = append(years, y)
	}
	sort.Ints(years)
	for _, y := range years {
		fmt.Fprintf(f, "matched_year_%d: %d\n", y, summary.MatchedByYear[y])
	}

	for _, warning := range summary.Warnings {
		fmt.Fprintf(f, "warning: %s\n", warning)
	}

	return nil
}

func writeCSV(path string, header []string, rows int, rowAt func(int) []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(header); err != nil {
		return err
	}
	for i := 0; i < rows; i++ {
		if err := writer.Write(rowAt(i)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func formatAmount(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
