package domain

import "time"

// ContractCategory classifies a domestic contract for compliance purposes.
// Minor and in-house contracts are never subject to EU-level publication.
type ContractCategory string

const (
	CategoryStandard ContractCategory = "standard"
	CategoryMinor    ContractCategory = "minor"
	CategoryInHouse  ContractCategory = "in_house"
	CategoryPrivate  ContractCategory = "private"
	CategoryHeritage ContractCategory = "heritage"
	CategoryOther    ContractCategory = "other"
)

// ContractType is the procurement object type, used for threshold lookup
type ContractType string

const (
	TypeWorks    ContractType = "works"
	TypeServices ContractType = "services"
	TypeSupplies ContractType = "supplies"
	TypeOther    ContractType = "other"
)

// DomesticContract is one award row from the national procurement dataset.
// Tax identifiers are expected to be normalized (uppercased, country prefix
// stripped) before matching; an identifier shorter than 5 chars is treated
// as absent.
type DomesticContract struct {
	ProcedureID       string           `json:"procedureId"`
	OrganizationName  string           `json:"organizationName"`
	OrganizationTaxID string           `json:"organizationTaxId"`
	ContractorName    string           `json:"contractorName"`
	ContractorTaxID   string           `json:"contractorTaxId"`
	AwardAmount       float64          `json:"awardAmount"`
	AwardDate         time.Time        `json:"awardDate,omitempty"`
	FiscalYear        int              `json:"fiscalYear"`
	Category          ContractCategory `json:"category"`
	Type              ContractType     `json:"type,omitempty"`
	CPVCode           string           `json:"cpvCode,omitempty"`
	Emergency         bool             `json:"emergency,omitempty"`
}

// SourceKind records which reference feed a record came from
type SourceKind string

const (
	SourceBulkExport SourceKind = "bulk_export"
	SourceLiveNotice SourceKind = "live_notice"
)

// ReferenceRecord is one lot/award of an EU-level publication notice after
// normalization. A multi-lot notice expands to several ReferenceRecords.
// Amount is the resolved award-or-tender value; 0 means unresolved, which
// keeps the record in the dataset but out of the match index.
type ReferenceRecord struct {
	NoticeID                 string     `json:"noticeId"`
	FiscalYear               int        `json:"fiscalYear"`
	Country                  string     `json:"country,omitempty"`
	BuyerName                string     `json:"buyerName,omitempty"`
	BuyerTaxID               string     `json:"buyerTaxId,omitempty"`
	WinnerName               string     `json:"winnerName,omitempty"`
	WinnerTaxID              string     `json:"winnerTaxId,omitempty"`
	Amount                   float64    `json:"amount"`
	Currency                 string     `json:"currency,omitempty"`
	CPVCode                  string     `json:"cpvCode,omitempty"`
	OffersCount              int        `json:"offersCount,omitempty"`
	InternalProcedureID      string     `json:"internalProcedureId,omitempty"`
	WinnerSizeClass          string     `json:"winnerSizeClass,omitempty"`
	DirectAwardJustification string     `json:"directAwardJustification,omitempty"`
	SMEParticipation         string     `json:"smeParticipation,omitempty"`
	BuyerLegalType           string     `json:"buyerLegalType,omitempty"`
	ContractDuration         float64    `json:"contractDuration,omitempty"`
	AwardCriterionType       string     `json:"awardCriterionType,omitempty"`
	Cancelled                bool       `json:"cancelled,omitempty"`
	Source                   SourceKind `json:"source,omitempty"`
	LotIndex                 int        `json:"lotIndex,omitempty"`
}

// Indexable reports whether the record can participate in matching
func (r *ReferenceRecord) Indexable() bool {
	return !r.Cancelled && r.Amount > 0
}
