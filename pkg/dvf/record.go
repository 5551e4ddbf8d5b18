package dvf

import (
	"fmt"
	"strings"
)

// communeCodeWidth is the normalized width of a French commune code.
// Overseas codes come through shorter and are left-padded with zeros.
const communeCodeWidth = 5

// RawRecord is one normalized row of the gold-layer snapshot: the
// pre-aggregated sales of a (commune, year, property type) bucket.
// Records are immutable once loaded; the slices handed out by the
// snapshot store are shared and must not be modified.
type RawRecord struct {
	CommuneCode    string  `json:"code_commune"`
	DistrictCode   string  `json:"arrondissement"`
	DistrictNumber int     `json:"arrondissement_num"`
	Year           int     `json:"annee"`
	PropertyType   string  `json:"type_local"`
	MedianPriceSqm float64 `json:"prix_m2_med"`
	SaleCount      int     `json:"nb_ventes"`
}

// SummaryRecord is one arrondissement in a cross-sectional summary.
// JSON keys match the wire contract the dashboards consume.
type SummaryRecord struct {
	CommuneCode    string  `json:"code_commune"`
	Year           int     `json:"annee"`
	DistrictCode   string  `json:"arrondissement"`
	DistrictNumber int     `json:"arrondissement_num"`
	MedianPriceSqm float64 `json:"prix_m2_med"`
	TotalSaleCount int     `json:"nb_ventes"`
	Label          string  `json:"label"`
}

// TimeseriesRecord is one year of a single arrondissement's history.
type TimeseriesRecord struct {
	Year           int     `json:"annee"`
	MedianPriceSqm float64 `json:"prix_m2_med"`
	TotalSaleCount int     `json:"nb_ventes"`
}

// NormalizeCommuneCode trims the given code and left-pads it with zeros
// to the canonical 5-character width ("101" -> "00101").
func NormalizeCommuneCode(code string) string {
	code = strings.TrimSpace(code)
	if len(code) < communeCodeWidth {
		code = strings.Repeat("0", communeCodeWidth-len(code)) + code
	}
	return code
}

// districtLabel renders the human-readable arrondissement label,
// e.g. 1 -> "01e arrondissement".
func districtLabel(districtNumber int) string {
	return fmt.Sprintf("%02de arrondissement", districtNumber)
}
