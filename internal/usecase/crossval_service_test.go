package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/sergioberino/tedcross/internal/domain"
)

func TestCrossValServiceRun(t *testing.T) {
	service := NewCrossValService(CrossValConfig{
		Selector: SelectorConfig{EUThreshold: 140000},
	})

	t.Run("end to end matched and missing", func(t *testing.T) {
		domestic := []domain.DomesticContract{
			{
				ProcedureID:      "EXP-1",
				OrganizationName: "Org A",
				ContractorTaxID:  "A12345678",
				AwardAmount:      150000,
				FiscalYear:       2022,
				Category:         domain.CategoryStandard,
				Type:             domain.TypeServices,
			},
			{
				ProcedureID:      "EXP-2",
				OrganizationName: "Org A",
				ContractorTaxID:  "B87654321",
				AwardAmount:      500000,
				FiscalYear:       2022,
				Category:         domain.CategoryStandard,
				Type:             domain.TypeServices,
			},
			{
				// Minor contract, compliance-exempt
				ProcedureID:      "EXP-3",
				OrganizationName: "Org A",
				ContractorTaxID:  "C11111111",
				AwardAmount:      200000,
				FiscalYear:       2022,
				Category:         domain.CategoryMinor,
			},
		}
		reference := []domain.ReferenceRecord{
			{NoticeID: "1-2022", WinnerTaxID: "A12345678", FiscalYear: 2022, Amount: 152000},
		}

		report, err := service.Run(context.Background(), domestic, reference)
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}

		s := report.Summary
		if s.DomesticTotal != 3 || s.ReferenceTotal != 1 || s.ReferenceIndexed != 1 {
			t.Errorf("totals = %d/%d/%d, want 3/1/1", s.DomesticTotal, s.ReferenceTotal, s.ReferenceIndexed)
		}
		if s.MatchingEligible != 3 {
			t.Errorf("MatchingEligible = %d, want 3", s.MatchingEligible)
		}
		if s.ComplianceEligible != 2 {
			t.Errorf("ComplianceEligible = %d, want 2 (minor contract exempt)", s.ComplianceEligible)
		}
		if s.Matched != 1 || s.Missing != 1 {
			t.Errorf("matched/missing = %d/%d, want 1/1", s.Matched, s.Missing)
		}
		if s.MatchesByStrategy[domain.StrategyWinnerTaxID] != 1 {
			t.Errorf("MatchesByStrategy = %v, want 1 winner_tax_id", s.MatchesByStrategy)
		}
		if s.MatchedByYear[2022] != 1 {
			t.Errorf("MatchedByYear = %v, want 1 for 2022", s.MatchedByYear)
		}
		if s.RunID == "" {
			t.Error("RunID is empty")
		}

		if len(report.Matched) != 1 || report.Matched[0].NoticeID != "1-2022" {
			t.Errorf("Matched = %v, want EXP-1 against 1-2022", report.Matched)
		}
		if len(report.Missing) != 1 || report.Missing[0].ProcedureID != "EXP-2" {
			t.Errorf("Missing = %v, want EXP-2", report.Missing)
		}
		if len(report.Verdicts) != 3 {
			t.Errorf("len(Verdicts) = %d, want 3", len(report.Verdicts))
		}
		if len(report.OrganizationStats) != 1 || report.OrganizationStats[0].Key != "Org A" {
			t.Errorf("OrganizationStats = %v, want one Org A group", report.OrganizationStats)
		}
	})

	t.Run("empty reference set warns instead of failing", func(t *testing.T) {
		domestic := []domain.DomesticContract{
			{
				ProcedureID:     "EXP-1",
				ContractorTaxID: "A12345678",
				AwardAmount:     150000,
				FiscalYear:      2022,
			},
		}

		report, err := service.Run(context.Background(), domestic, nil)
		if err != nil {
			t.Fatalf("Run() error = %v, want graceful degradation", err)
		}
		if len(report.Summary.Warnings) != 1 {
			t.Fatalf("Warnings = %v, want one entry", report.Summary.Warnings)
		}
		if report.Summary.Matched != 0 || report.Summary.Missing != 1 {
			t.Errorf("matched/missing = %d/%d, want 0/1", report.Summary.Matched, report.Summary.Missing)
		}
	})

	t.Run("date-derived year matches and keys the year counter", func(t *testing.T) {
		domestic := []domain.DomesticContract{
			{
				ProcedureID:     "EXP-1",
				ContractorTaxID: "A12345678",
				AwardAmount:     150000,
				AwardDate:       time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC),
				Category:        domain.CategoryStandard,
				Type:            domain.TypeServices,
			},
		}
		reference := []domain.ReferenceRecord{
			{NoticeID: "1-2022", WinnerTaxID: "A12345678", FiscalYear: 2022, Amount: 150000},
		}

		report, err := service.Run(context.Background(), domestic, reference)
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if report.Summary.Matched != 1 {
			t.Fatalf("Matched = %d, want 1", report.Summary.Matched)
		}
		if report.Summary.MatchedByYear[2022] != 1 {
			t.Errorf("MatchedByYear = %v, want the award-date year 2022", report.Summary.MatchedByYear)
		}
		if _, ok := report.Summary.MatchedByYear[0]; ok {
			t.Error("MatchedByYear has a zero-year bucket")
		}
	})

	t.Run("no eligible records warns", func(t *testing.T) {
		domestic := []domain.DomesticContract{
			{ProcedureID: "EXP-1", ContractorTaxID: "A1", AwardAmount: 150000, FiscalYear: 2022},
		}
		reference := []domain.ReferenceRecord{
			{NoticeID: "1-2022", WinnerTaxID: "A12345678", FiscalYear: 2022, Amount: 150000},
		}

		report, err := service.Run(context.Background(), domestic, reference)
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if report.Summary.MatchingEligible != 0 {
			t.Fatalf("MatchingEligible = %d, want 0", report.Summary.MatchingEligible)
		}
		if len(report.Summary.Warnings) != 1 || report.Summary.Warnings[0] != domain.ErrNoEligibleRecords.Error() {
			t.Errorf("Warnings = %v, want the no-eligible-records warning", report.Summary.Warnings)
		}
	})

	t.Run("cancelled context aborts", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		domestic := []domain.DomesticContract{
			{ProcedureID: "EXP-1", ContractorTaxID: "A12345678", AwardAmount: 150000, FiscalYear: 2022},
		}

		if _, err := service.Run(ctx, domestic, nil); err != context.Canceled {
			t.Errorf("Run() error = %v, want context.Canceled", err)
		}
	})

	t.Run("counters stay consistent across a larger run", func(t *testing.T) {
		var domestic []domain.DomesticContract
		var reference []domain.ReferenceRecord
		for i := 0; i < 50; i++ {
			taxID := "A1234567" + string(rune('0'+i%10))
			domestic = append(domestic, domain.DomesticContract{
				ProcedureID:     "EXP",
				ContractorTaxID: taxID,
				AwardAmount:     150000,
				FiscalYear:      2022,
				Category:        domain.CategoryStandard,
				Type:            domain.TypeServices,
			})
			if i%2 == 0 {
				reference = append(reference, domain.ReferenceRecord{
					NoticeID:    "n",
					WinnerTaxID: taxID,
					FiscalYear:  2022,
					Amount:      150000,
				})
			}
		}

		report, err := service.Run(context.Background(), domestic, reference)
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		s := report.Summary
		if s.Matched != len(report.Matched) {
			t.Errorf("Summary.Matched = %d, len(Matched) = %d", s.Matched, len(report.Matched))
		}
		if s.Missing != len(report.Missing) {
			t.Errorf("Summary.Missing = %d, len(Missing) = %d", s.Missing, len(report.Missing))
		}
		if s.Matched+s.Missing != s.ComplianceEligible {
			t.Errorf("matched %d + missing %d != eligible %d", s.Matched, s.Missing, s.ComplianceEligible)
		}
	})
}
