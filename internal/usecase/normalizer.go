package usecase

import (
	"log"
	"strconv"
	"strings"

	"github.com/sergioberino/tedcross/internal/domain"
)

// languagePreference is the ordered list of language keys tried when a
// notice field is a language-keyed map
var languagePreference = []string{"spa", "SPA", "eng", "ENG"}

// nonAwardNoticeTypes never expand to multiple lot records
var nonAwardNoticeTypes = map[string]bool{
	"cn-standard":  true,
	"cn-social":    true,
	"pin-buyer":    true,
	"pin-standard": true,
}

// blankTaxIDs are placeholder values that mean "no identifier"
var blankTaxIDs = map[string]bool{"": true, "NONE": true, "NAN": true, "N/A": true}

// RawNotice is one JSON object from the live notice-search feed. Fields are
// scalars, lot-indexed arrays, or language-keyed maps of arrays.
type RawNotice map[string]any

// ReferenceNormalizer converts raw reference payloads of both shapes (legacy
// bulk export rows and live multi-lot notices) into flat ReferenceRecords.
type ReferenceNormalizer struct {
	debug bool
}

// NewReferenceNormalizer creates a normalizer. debug enables per-notice
// skip logging.
func NewReferenceNormalizer(debug bool) *ReferenceNormalizer {
	return &ReferenceNormalizer{debug: debug}
}

// ExpandNotices normalizes a batch of live notices. Malformed notices are
// skipped, never abort the batch.
func (n *ReferenceNormalizer) ExpandNotices(notices []RawNotice) []domain.ReferenceRecord {
	var out []domain.ReferenceRecord
	skipped := 0
	for _, notice := range notices {
		records := n.ExpandNotice(notice)
		if records == nil {
			skipped++
			continue
		}
		out = append(out, records...)
	}
	if skipped > 0 {
		log.Printf("normalizer: skipped %d malformed notices", skipped)
	}
	return out
}

// ExpandNotice converts one live notice into one ReferenceRecord per
// lot/winner. The record count is max(len(winner ids), len(winner names),
// len(tender values), 1); every multi-valued field is read at position i,
// falling back to position 0, then to empty. Returns nil for an unusable
// notice.
func (n *ReferenceNormalizer) ExpandNotice(notice RawNotice) []domain.ReferenceRecord {
	if notice == nil {
		return nil
	}

	noticeID := scalarString(notice["publication-number"])
	if noticeID == "" {
		if n.debug {
			log.Printf("normalizer: notice without publication number, skipping")
		}
		return nil
	}
	noticeType := scalarString(notice["notice-type"])

	buyerName := extractPreferredName(notice["buyer-name"])
	buyerIDs := stringList(notice["buyer-identifier"])
	buyerTaxID := NormalizeTaxID(PickNationalID(buyerIDs))
	country := firstString(notice["buyer-country"], "ES")

	cpvList := stringList(notice["classification-cpv"])
	cpv := ""
	if len(cpvList) > 0 {
		cpv = cpvList[0]
	}

	winnerNames := extractPreferredList(notice["winner-name"])
	winnerIDs := stringList(notice["winner-identifier"])
	winnerSizes := stringList(notice["winner-size"])

	// Amount priority per lot: tender/award value, then lot result value,
	// then notice total, then procedure estimate. First non-null wins.
	tenderValues := stringList(notice["tender-value"])
	resultValues := stringList(notice["result-value-lot"])
	if len(resultValues) == 0 {
		resultValues = stringList(notice["result-value-notice"])
	}
	totalValue := parseAmount(firstString(notice["total-value"], ""))
	estimatedValue := parseAmount(firstString(notice["estimated-value-proc"], ""))
	currency := firstString(notice["tender-value-cur"], "EUR")

	offers := stringList(notice["received-submissions-type-val"])
	internalProcID := firstString(notice["internal-identifier-proc"], "")
	buyerLegalType := firstString(notice["buyer-legal-type"], "")
	directAward := firstString(notice["direct-award-justification-proc"], "")
	smePart := firstString(notice["sme-part"], "")
	durations := stringList(notice["duration-period-value-lot"])
	criterionTypes := stringList(notice["award-criterion-type-lot"])

	year := yearFromNoticeID(noticeID)

	count := 1
	if !nonAwardNoticeTypes[noticeType] {
		count = maxInt(len(winnerIDs), len(winnerNames), len(tenderValues), 1)
	}

	records := make([]domain.ReferenceRecord, 0, count)
	for i := 0; i < count; i++ {
		amount := parseAmount(indexOrFirst(tenderValues, i))
		if amount == 0 {
			amount = parseAmount(indexOrFirst(resultValues, i))
		}
		if amount == 0 {
			amount = totalValue
		}
		if amount == 0 {
			amount = estimatedValue
		}

		records = append(records, domain.ReferenceRecord{
			NoticeID:                 noticeID,
			FiscalYear:               year,
			Country:                  country,
			BuyerName:                buyerName,
			BuyerTaxID:               buyerTaxID,
			WinnerName:               indexOrFirst(winnerNames, i),
			WinnerTaxID:              NormalizeTaxID(indexOrFirst(winnerIDs, i)),
			Amount:                   amount,
			Currency:                 currency,
			CPVCode:                  cpv,
			OffersCount:              parseCount(indexOrFirst(offers, i)),
			InternalProcedureID:      internalProcID,
			WinnerSizeClass:          indexOrFirst(winnerSizes, i),
			DirectAwardJustification: directAward,
			SMEParticipation:         smePart,
			BuyerLegalType:           buyerLegalType,
			ContractDuration:         parseAmount(indexOrFirst(durations, i)),
			AwardCriterionType:       indexOrFirst(criterionTypes, i),
			Source:                   domain.SourceLiveNotice,
			LotIndex:                 i,
		})
	}
	return records
}

// NormalizeBulkRow maps one row of the legacy flat bulk export (already one
// award per row) onto the uniform schema. Returns false when the row has no
// notice id.
func (n *ReferenceNormalizer) NormalizeBulkRow(row map[string]string) (domain.ReferenceRecord, bool) {
	noticeID := strings.TrimSpace(row["ID_NOTICE_CAN"])
	if noticeID == "" {
		return domain.ReferenceRecord{}, false
	}

	// Bulk amount priority: explicit award value, then tender value
	amount := parseAmount(row["AWARD_VALUE_EURO_FIN_1"])
	if amount == 0 {
		amount = parseAmount(row["VALUE_EURO_FIN_1"])
	}

	year, _ := strconv.Atoi(strings.TrimSpace(row["YEAR"]))
	if year == 0 {
		year = yearFromNoticeID(noticeID)
	}

	return domain.ReferenceRecord{
		NoticeID:            noticeID,
		FiscalYear:          year,
		Country:             strings.TrimSpace(row["ISO_COUNTRY_CODE"]),
		BuyerName:           strings.TrimSpace(row["CAE_NAME"]),
		BuyerTaxID:          NormalizeTaxID(row["CAE_NATIONALID"]),
		WinnerName:          strings.TrimSpace(row["WIN_NAME"]),
		WinnerTaxID:         NormalizeTaxID(row["WIN_NATIONALID"]),
		Amount:              amount,
		Currency:            "EUR",
		CPVCode:             strings.TrimSpace(row["CPV"]),
		OffersCount:         parseCount(row["NUMBER_OFFERS"]),
		InternalProcedureID: strings.TrimSpace(row["ID_AWARD"]),
		Cancelled:           strings.TrimSpace(row["CANCELLED"]) == "1",
		Source:              domain.SourceBulkExport,
	}, true
}

// NormalizeTaxID uppercases, trims, and strips a leading country prefix from
// a national tax identifier. Identifiers shorter than 5 chars or placeholder
// values normalize to the empty string (treated as absent).
func NormalizeTaxID(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if strings.HasPrefix(s, "ES") {
		rest := strings.TrimLeft(s[2:], "- \t")
		if rest != "" && isAlnum(rune(rest[0])) {
			s = rest
		}
	}
	if blankTaxIDs[s] || len(s) < 5 {
		return ""
	}
	return s
}

// PickNationalID selects the most plausible national tax identifier from a
// list of candidate identifiers: a 9-char token starting or ending with a
// letter wins; otherwise the last identifier in the list (the empirical
// convention of the source feed).
func PickNationalID(ids []string) string {
	if len(ids) == 0 {
		return ""
	}
	for _, id := range ids {
		s := strings.TrimSpace(id)
		if len(s) == 9 && (isLetter(rune(s[0])) || isLetter(rune(s[len(s)-1]))) {
			return s
		}
	}
	return strings.TrimSpace(ids[len(ids)-1])
}

// extractPreferredName resolves a language-keyed map to a single string,
// trying the preference order first, then any available value.
func extractPreferredName(v any) string {
	names := extractPreferredList(v)
	if len(names) == 0 {
		return ""
	}
	return names[0]
}

// extractPreferredList resolves a language-keyed map to a string list
func extractPreferredList(v any) []string {
	m, ok := v.(map[string]any)
	if !ok {
		return stringList(v)
	}
	for _, lang := range languagePreference {
		if names := stringList(m[lang]); len(names) > 0 {
			return names
		}
	}
	for _, val := range m {
		if names := stringList(val); len(names) > 0 {
			return names
		}
	}
	return nil
}

// stringList coerces a scalar or array value into a list of strings
func stringList(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			out = append(out, scalarString(item))
		}
		return out
	case []string:
		return t
	default:
		s := scalarString(v)
		if s == "" {
			return nil
		}
		return []string{s}
	}
}

// firstString returns the first element of a scalar-or-list value
func firstString(v any, def string) string {
	list := stringList(v)
	if len(list) == 0 {
		return def
	}
	return list[0]
}

// indexOrFirst reads position i, falling back to position 0, then empty
func indexOrFirst(list []string, i int) string {
	if len(list) == 0 {
		return ""
	}
	if i >= 0 && i < len(list) {
		return list[i]
	}
	return list[0]
}

func scalarString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// parseAmount parses a decimal amount, returning 0 for anything unusable
func parseAmount(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	s = strings.ReplaceAll(s, ",", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}

func parseCount(s string) int {
	f := parseAmount(s)
	return int(f)
}

// yearFromNoticeID extracts the year from a publication number of the form
// NNNNNN-YYYY
func yearFromNoticeID(noticeID string) int {
	idx := strings.LastIndex(noticeID, "-")
	if idx < 0 || idx+1 >= len(noticeID) {
		return 0
	}
	year, err := strconv.Atoi(noticeID[idx+1:])
	if err != nil || year < 1900 || year > 2100 {
		return 0
	}
	return year
}

func isLetter(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
}

func isAlnum(r rune) bool {
	return isLetter(r) || (r >= '0' && r <= '9')
}

func maxInt(values ...int) int {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
