package usecase

import (
	"strings"

	"github.com/sergioberino/tedcross/internal/domain"
)

// minProcedureIDLen guards the secondary index against junk keys
const minProcedureIDLen = 4

// ReferenceEntry wraps one indexable reference record with its consumption
// state. The same entry is shared by pointer across every index that keys
// it, so consuming it through one key path disables it in all of them.
type ReferenceEntry struct {
	Record   domain.ReferenceRecord
	consumed bool
}

// Consumed reports whether this entry has already backed a match in the
// current run
func (e *ReferenceEntry) Consumed() bool {
	return e.consumed
}

func (e *ReferenceEntry) consume() {
	e.consumed = true
}

type taxYearKey struct {
	taxID string
	year  int
}

// ReferenceIndex holds the per-run lookup structures over the reference
// set. Buckets keep input order, which makes tie-breaking deterministic.
type ReferenceIndex struct {
	byWinner    map[taxYearKey][]*ReferenceEntry
	byProcedure map[string][]*ReferenceEntry
	byBuyer     map[taxYearKey][]*ReferenceEntry
	entries     []*ReferenceEntry
	skipped     int
}

// BuildReferenceIndex indexes the reference set once per run. Cancelled
// records and records without a resolved amount are skipped; they stay in
// the dataset but never match. Building is idempotent given the same input.
func BuildReferenceIndex(records []domain.ReferenceRecord) *ReferenceIndex {
	idx := &ReferenceIndex{
		byWinner:    make(map[taxYearKey][]*ReferenceEntry),
		byProcedure: make(map[string][]*ReferenceEntry),
		byBuyer:     make(map[taxYearKey][]*ReferenceEntry),
	}

	for _, record := range records {
		if !record.Indexable() {
			idx.skipped++
			continue
		}

		entry := &ReferenceEntry{Record: record}
		idx.entries = append(idx.entries, entry)

		if len(record.WinnerTaxID) >= 5 && record.FiscalYear != 0 {
			key := taxYearKey{record.WinnerTaxID, record.FiscalYear}
			idx.byWinner[key] = append(idx.byWinner[key], entry)
		}

		procID := strings.ToUpper(strings.TrimSpace(record.InternalProcedureID))
		if len(procID) >= minProcedureIDLen {
			idx.byProcedure[procID] = append(idx.byProcedure[procID], entry)
		}

		if len(record.BuyerTaxID) >= 5 && record.FiscalYear != 0 {
			key := taxYearKey{record.BuyerTaxID, record.FiscalYear}
			idx.byBuyer[key] = append(idx.byBuyer[key], entry)
		}
	}

	return idx
}

// Indexed returns the number of reference entries available for matching
func (idx *ReferenceIndex) Indexed() int {
	return len(idx.entries)
}

// Skipped returns the number of records excluded from the index
func (idx *ReferenceIndex) Skipped() int {
	return idx.skipped
}

// ConsumedCount returns how many entries have been matched so far
func (idx *ReferenceIndex) ConsumedCount() int {
	n := 0
	for _, e := range idx.entries {
		if e.consumed {
			n++
		}
	}
	return n
}

func (idx *ReferenceIndex) winnerBucket(taxID string, year int) []*ReferenceEntry {
	return idx.byWinner[taxYearKey{taxID, year}]
}

func (idx *ReferenceIndex) procedureBucket(procedureID string) []*ReferenceEntry {
	return idx.byProcedure[procedureID]
}

func (idx *ReferenceIndex) buyerBucket(taxID string, year int) []*ReferenceEntry {
	return idx.byBuyer[taxYearKey{taxID, year}]
}
