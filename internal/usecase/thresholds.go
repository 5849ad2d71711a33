package usecase

import (
	"strings"

	"github.com/sergioberino/tedcross/internal/domain"
)

// defaultEUThreshold is the flat publication floor (2024 biennium,
// supplies/services of the central administration, VAT excluded).
const defaultEUThreshold = 140_000

// saraBand holds the EU publication thresholds of one biennium, VAT excluded
type saraBand struct {
	fromYear, toYear int
	works            float64
	servicesCentral  float64
	servicesOther    float64
	specialSectors   float64
}

// saraBands is the per-biennium threshold table. Bands are tried in order;
// years past the table fall back to the last band.
var saraBands = []saraBand{
	{2010, 2011, 4_845_000, 125_000, 193_000, 387_000},
	{2012, 2013, 5_000_000, 130_000, 200_000, 400_000},
	{2014, 2015, 5_186_000, 134_000, 207_000, 414_000},
	{2016, 2017, 5_225_000, 135_000, 209_000, 418_000},
	{2018, 2019, 5_548_000, 144_000, 221_000, 443_000},
	{2020, 2021, 5_350_000, 139_000, 214_000, 428_000},
	{2022, 2023, 5_382_000, 140_000, 215_000, 431_000},
	{2024, 2025, 5_538_000, 143_000, 221_000, 443_000},
	{2026, 2027, 5_404_000, 140_000, 216_000, 432_000},
}

// centralAdminPatterns detect state-level contracting authorities by name
var centralAdminPatterns = []string{
	"ADMINISTRACION DEL ESTADO", "ADMINISTRACION GENERAL DEL ESTADO",
	"MINISTERIO", "TRAGSA", "SEPI", "AENA", "RENFE", "ADIF",
	"CORREOS", "MUFACE", "INGESA", "TGSS", "TESORERIA GENERAL",
	"AGENCIA ESTATAL", "AGENCIA TRIBUTARIA", "SEGURIDAD SOCIAL",
	"PATRIMONIO NACIONAL", "INSTITUTO NACIONAL", "CSIC",
	"AEMET", "DGT", "GUARDIA CIVIL", "EJERCITO", "ARMADA",
	"BOE", "FNMT", "ICO ", "ICEX", "CDTI",
}

// specialSectorPatterns detect utilities/transport entities whose contracts
// fall under the special-sectors regime
var specialSectorPatterns = []string{
	"AENA", "RENFE", "ADIF", "CORREOS", "PUERTOS DEL ESTADO",
	"AUTORIDAD PORTUARIA", "ENAGAS", "CANAL DE ISABEL II",
	"AGUAS DE", "EMASA", "EMASESA", "ACUAES",
	"METRO DE", "TRANSPORTS DE BARCELONA", "TMB",
	"FGC", "FERROCARRILS",
}

// ClassifyBuyer tags a contracting authority as central administration
// and/or special-sector entity from its name. A special-sector hit takes
// precedence over the central-administration tag.
func ClassifyBuyer(name string) (isCentral, isSector bool) {
	if name == "" {
		return false, false
	}
	upper := strings.ToUpper(name)
	for _, p := range specialSectorPatterns {
		if strings.Contains(upper, p) {
			isSector = true
			break
		}
	}
	if !isSector {
		for _, p := range centralAdminPatterns {
			if strings.Contains(upper, p) {
				isCentral = true
				break
			}
		}
	}
	return isCentral, isSector
}

// saraThreshold returns the applicable threshold, or false for contracts
// outside the harmonized-regulation regime entirely.
func saraThreshold(year int, contractType domain.ContractType, isCentral, isSector bool) (float64, bool) {
	if year == 0 {
		return 0, false
	}

	band := saraBands[len(saraBands)-1]
	for _, b := range saraBands {
		if year >= b.fromYear && year <= b.toYear {
			band = b
			break
		}
	}

	switch contractType {
	case domain.TypeWorks:
		return band.works, true
	case domain.TypeServices, domain.TypeSupplies:
		if isSector {
			return band.specialSectors, true
		}
		if isCentral {
			return band.servicesCentral, true
		}
		return band.servicesOther, true
	default:
		return band.servicesOther, true
	}
}
