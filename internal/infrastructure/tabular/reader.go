package tabular

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sergioberino/tedcross/internal/domain"
	"github.com/sergioberino/tedcross/internal/usecase"
)

// CSVReader loads the two tabular inputs of a cross-validation run. Rows
// missing required fields are skipped with a debug log, never fatal.
type CSVReader struct {
	normalizer *usecase.ReferenceNormalizer
	debug      bool
}

// NewCSVReader creates a reader
func NewCSVReader(normalizer *usecase.ReferenceNormalizer, debug bool) *CSVReader {
	return &CSVReader{normalizer: normalizer, debug: debug}
}

// LoadDomestic reads the national contract dataset (one row per award)
func (r *CSVReader) LoadDomestic(ctx context.Context, path string) ([]domain.DomesticContract, error) {
	rows, err := readAll(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("loading domestic dataset: %w", err)
	}

	contracts := make([]domain.DomesticContract, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		c, ok := r.mapDomesticRow(row)
		if !ok {
			skipped++
			continue
		}
		contracts = append(contracts, c)
	}
	if skipped > 0 {
		log.Printf("domestic dataset: skipped %d rows without procedure id", skipped)
	}
	return contracts, nil
}

// LoadReference reads the normalized, lot-expanded reference dataset
func (r *CSVReader) LoadReference(ctx context.Context, path string) ([]domain.ReferenceRecord, error) {
	rows, err := readAll(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("loading reference dataset: %w", err)
	}

	records := make([]domain.ReferenceRecord, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		rec, ok := r.mapReferenceRow(row)
		if !ok {
			skipped++
			continue
		}
		records = append(records, rec)
	}
	if skipped > 0 {
		log.Printf("reference dataset: skipped %d rows without notice id", skipped)
	}
	return records, nil
}

// LoadNotices reads a raw live-notice JSON dump (an array of notice
// objects, or an object with a top-level "notices" array) and runs it
// through the reference normalizer.
func (r *CSVReader) LoadNotices(ctx context.Context, path string) ([]domain.ReferenceRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading notices: %w", err)
	}

	var notices []usecase.RawNotice
	if err := json.Unmarshal(data, &notices); err != nil {
		var wrapper struct {
			Notices []usecase.RawNotice `json:"notices"`
		}
		if err2 := json.Unmarshal(data, &wrapper); err2 != nil {
			return nil, fmt.Errorf("parsing notices file: %w", err)
		}
		notices = wrapper.Notices
	}

	return r.normalizer.ExpandNotices(notices), nil
}

func (r *CSVReader) mapDomesticRow(row map[string]string) (domain.DomesticContract, bool) {
	procedureID := strings.TrimSpace(row["procedure_id"])
	if procedureID == "" {
		if r.debug {
			log.Printf("[LOAD] domestic row without procedure_id, skipping")
		}
		return domain.DomesticContract{}, false
	}

	awardDate := parseDate(row["award_date"])
	year, _ := strconv.Atoi(strings.TrimSpace(row["fiscal_year"]))
	if year == 0 && !awardDate.IsZero() {
		year = awardDate.Year()
	}

	return domain.DomesticContract{
		ProcedureID:       procedureID,
		OrganizationName:  strings.TrimSpace(row["organization_name"]),
		OrganizationTaxID: usecase.NormalizeTaxID(row["organization_tax_id"]),
		ContractorName:    strings.TrimSpace(row["contractor_name"]),
		ContractorTaxID:   usecase.NormalizeTaxID(row["contractor_tax_id"]),
		AwardAmount:       parseFloat(row["award_amount"]),
		AwardDate:         awardDate,
		FiscalYear:        year,
		Category:          parseCategory(row["contract_category"]),
		Type:              parseType(row["contract_type"]),
		CPVCode:           strings.TrimSpace(row["cpv_code"]),
		Emergency:         parseBool(row["is_emergency"]),
	}, true
}

func (r *CSVReader) mapReferenceRow(row map[string]string) (domain.ReferenceRecord, bool) {
	noticeID := strings.TrimSpace(row["notice_id"])
	if noticeID == "" {
		return domain.ReferenceRecord{}, false
	}

	year, _ := strconv.Atoi(strings.TrimSpace(row["fiscal_year"]))

	return domain.ReferenceRecord{
		NoticeID:                 noticeID,
		FiscalYear:               year,
		Country:                  strings.TrimSpace(row["country"]),
		BuyerName:                strings.TrimSpace(row["buyer_name"]),
		BuyerTaxID:               usecase.NormalizeTaxID(row["buyer_tax_id"]),
		WinnerName:               strings.TrimSpace(row["winner_name"]),
		WinnerTaxID:              usecase.NormalizeTaxID(row["winner_tax_id"]),
		Amount:                   parseFloat(row["amount"]),
		Currency:                 strings.TrimSpace(row["currency"]),
		CPVCode:                  strings.TrimSpace(row["cpv_code"]),
		OffersCount:              int(parseFloat(row["offers_count"])),
		InternalProcedureID:      strings.TrimSpace(row["internal_procedure_id"]),
		WinnerSizeClass:          strings.TrimSpace(row["winner_size"]),
		DirectAwardJustification: strings.TrimSpace(row["direct_award_justification"]),
		SMEParticipation:         strings.TrimSpace(row["sme_participation"]),
		BuyerLegalType:           strings.TrimSpace(row["buyer_legal_type"]),
		ContractDuration:         parseFloat(row["contract_duration"]),
		AwardCriterionType:       strings.TrimSpace(row["award_criterion_type"]),
		Cancelled:                parseBool(row["cancelled"]),
		Source:                   domain.SourceKind(strings.TrimSpace(row["source"])),
	}, true
}

// readAll reads a CSV file into header-keyed row maps
func readAll(ctx context.Context, path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows []map[string]string
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", len(rows)+2, err)
		}

		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseFloat(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y", "si", "sí":
		return true
	default:
		return false
	}
}

func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339, "02/01/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func parseCategory(s string) domain.ContractCategory {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "standard", "ordinario":
		return domain.CategoryStandard
	case "minor", "menor", "menores", "simplified":
		return domain.CategoryMinor
	case "in_house", "in-house", "encargo", "encargos":
		return domain.CategoryInHouse
	case "private", "privado":
		return domain.CategoryPrivate
	case "heritage", "patrimonial":
		return domain.CategoryHeritage
	default:
		return domain.CategoryOther
	}
}

func parseType(s string) domain.ContractType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "works", "obras":
		return domain.TypeWorks
	case "services", "servicios":
		return domain.TypeServices
	case "supplies", "suministros":
		return domain.TypeSupplies
	default:
		return domain.TypeOther
	}
}
