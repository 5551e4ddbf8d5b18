package dvf

import (
	"sort"
	"strings"
)

// Filter narrows the record sequence along the two query dimensions.
// A nil Year or an empty PropertyType leaves that dimension unconstrained.
// PropertyType is matched case-insensitively.
type Filter struct {
	Year         *int
	PropertyType string
}

// Int is a convenience for building a Filter with a year literal.
func Int(v int) *int { return &v }

// Engine answers arrondissement-level queries over the snapshot store's
// current record sequence. All queries are read-only; derived records are
// computed fresh on every call and owned by the caller.
type Engine struct {
	snap *Snapshot
}

// NewEngine creates an engine reading from the given snapshot store.
func NewEngine(snap *Snapshot) *Engine {
	return &Engine{snap: snap}
}

// AvailableYears returns the distinct years present in the snapshot,
// ascending.
func (e *Engine) AvailableYears() ([]int, error) {
	records, err := e.snap.Load()
	if err != nil {
		return nil, err
	}

	seen := make(map[int]struct{})
	for _, rec := range records {
		seen[rec.Year] = struct{}{}
	}

	years := make([]int, 0, len(seen))
	for year := range seen {
		years = append(years, year)
	}
	sort.Ints(years)
	return years, nil
}

// Filter returns the records matching f, in load order.
func (e *Engine) Filter(f Filter) ([]RawRecord, error) {
	records, err := e.snap.Load()
	if err != nil {
		return nil, err
	}

	targetType := strings.ToLower(f.PropertyType)
	var results []RawRecord
	for _, rec := range records {
		if f.Year != nil && rec.Year != *f.Year {
			continue
		}
		if targetType != "" && strings.ToLower(rec.PropertyType) != targetType {
			continue
		}
		results = append(results, rec)
	}
	return results, nil
}

// accumulator collects one group's contributions before reduction.
type accumulator struct {
	prices       []float64
	saleCount    int
	districtCode string
}

// summaryKey is the composite grouping key for Summarize. DistrictNumber is
// derived from CommuneCode but stays part of the key: the upstream contract
// sorts and deduplicates on the full triple.
type summaryKey struct {
	communeCode    string
	year           int
	districtNumber int
}

// Summarize aggregates the filtered records at arrondissement level: one
// SummaryRecord per distinct (commune, year, district) triple, carrying the
// median of the contributing rows' medians and the summed sale count.
// Results are sorted by (year, district number) ascending; consumers rely
// on that ordering for stable chart rendering.
func (e *Engine) Summarize(f Filter) ([]SummaryRecord, error) {
	records, err := e.Filter(f)
	if err != nil {
		return nil, err
	}

	groups := make(map[summaryKey]*accumulator)
	for _, rec := range records {
		key := summaryKey{rec.CommuneCode, rec.Year, rec.DistrictNumber}
		acc, ok := groups[key]
		if !ok {
			acc = &accumulator{districtCode: rec.DistrictCode}
			groups[key] = acc
		}
		acc.prices = append(acc.prices, rec.MedianPriceSqm)
		acc.saleCount += rec.SaleCount
	}

	results := make([]SummaryRecord, 0, len(groups))
	for key, acc := range groups {
		results = append(results, SummaryRecord{
			CommuneCode:    key.communeCode,
			Year:           key.year,
			DistrictCode:   acc.districtCode,
			DistrictNumber: key.districtNumber,
			MedianPriceSqm: round2(median(acc.prices)),
			TotalSaleCount: acc.saleCount,
			Label:          districtLabel(key.districtNumber),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Year != results[j].Year {
			return results[i].Year < results[j].Year
		}
		return results[i].DistrictNumber < results[j].DistrictNumber
	})
	return results, nil
}

// DistrictTimeseries returns the per-year history of a single commune code,
// reduced the same way as Summarize and sorted by year ascending. The code
// is normalized to 5 characters before matching; a code matching nothing
// yields an empty sequence, not an error.
func (e *Engine) DistrictTimeseries(communeCode string, propertyType string) ([]TimeseriesRecord, error) {
	code := NormalizeCommuneCode(communeCode)

	records, err := e.Filter(Filter{PropertyType: propertyType})
	if err != nil {
		return nil, err
	}

	groups := make(map[int]*accumulator)
	for _, rec := range records {
		if rec.CommuneCode != code {
			continue
		}
		acc, ok := groups[rec.Year]
		if !ok {
			acc = &accumulator{}
			groups[rec.Year] = acc
		}
		acc.prices = append(acc.prices, rec.MedianPriceSqm)
		acc.saleCount += rec.SaleCount
	}

	results := make([]TimeseriesRecord, 0, len(groups))
	for year, acc := range groups {
		results = append(results, TimeseriesRecord{
			Year:           year,
			MedianPriceSqm: round2(median(acc.prices)),
			TotalSaleCount: acc.saleCount,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Year < results[j].Year
	})
	return results, nil
}
