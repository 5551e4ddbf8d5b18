package dvf

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Snapshot column names, as written by the upstream ETL.
const (
	colCommuneCode  = "code_commune"
	colYear         = "annee"
	colPropertyType = "type_local"
	colMedianPrice  = "prix_m2_med"
	colSaleCount    = "nb_ventes"
)

// Generation identifies one loaded cache generation of the snapshot.
type Generation struct {
	Fingerprint uint64    `json:"-"`
	Records     int       `json:"records"`
	LoadedAt    time.Time `json:"loaded_at"`
}

// FingerprintHex renders the xxhash fingerprint of the snapshot file bytes.
func (g Generation) FingerprintHex() string {
	return fmt.Sprintf("%016x", g.Fingerprint)
}

// Snapshot is the record store: it lazily reads the ;-delimited snapshot
// file once, keeps the parsed sequence cached for the process lifetime and
// re-reads only after an explicit Invalidate. Safe for concurrent use; the
// mutex guards only the populate/clear transition, readers work on the
// immutable slice they captured.
type Snapshot struct {
	path string

	mu      sync.Mutex
	records []RawRecord
	gen     Generation
	loaded  bool
}

// NewSnapshot creates a store reading from the given snapshot file path.
// No I/O happens until the first Load.
func NewSnapshot(path string) *Snapshot {
	return &Snapshot{path: path}
}

// Load returns the cached record sequence, reading and parsing the snapshot
// file first if no generation is cached. The returned slice is shared
// between callers and must not be modified.
func (s *Snapshot) Load() ([]RawRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded {
		return s.records, nil
	}

	records, gen, err := readSnapshotFile(s.path)
	if err != nil {
		return nil, err
	}

	s.records = records
	s.gen = gen
	s.loaded = true
	return s.records, nil
}

// Invalidate discards the cached generation so the next Load re-reads the
// file. It performs no I/O itself and does not affect callers that already
// hold a record slice from a previous Load.
func (s *Snapshot) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	s.gen = Generation{}
	s.loaded = false
}

// Generation returns metadata about the currently cached generation.
// ok is false when nothing is loaded.
func (s *Snapshot) Generation() (gen Generation, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen, s.loaded
}

// readSnapshotFile reads and parses the whole snapshot file. Any failure
// returns an error and no records: partial datasets are never produced.
func readSnapshotFile(path string) ([]RawRecord, Generation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Generation{}, &DataSourceError{Path: path, Err: err}
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = ';'

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			err = fmt.Errorf("empty file")
		}
		return nil, Generation{}, &DataSourceError{Path: path, Err: fmt.Errorf("read header: %w", err)}
	}

	cols, err := resolveColumns(header)
	if err != nil {
		return nil, Generation{}, &DataSourceError{Path: path, Err: err}
	}

	var records []RawRecord
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, Generation{}, &DataSourceError{Path: path, Err: fmt.Errorf("line %d: %w", line, err)}
		}

		rec, err := parseRow(row, cols, line)
		if err != nil {
			return nil, Generation{}, err
		}
		records = append(records, rec)
	}

	gen := Generation{
		Fingerprint: xxhash.Sum64(data),
		Records:     len(records),
		LoadedAt:    time.Now().UTC(),
	}
	return records, gen, nil
}

// columnIndexes maps the required snapshot columns to their positions in
// the header row. Extra columns are ignored.
type columnIndexes struct {
	communeCode  int
	year         int
	propertyType int
	medianPrice  int
	saleCount    int
}

func resolveColumns(header []string) (columnIndexes, error) {
	byName := make(map[string]int, len(header))
	for i, name := range header {
		byName[strings.TrimSpace(name)] = i
	}

	cols := columnIndexes{}
	for _, want := range []struct {
		name string
		dst  *int
	}{
		{colCommuneCode, &cols.communeCode},
		{colYear, &cols.year},
		{colPropertyType, &cols.propertyType},
		{colMedianPrice, &cols.medianPrice},
		{colSaleCount, &cols.saleCount},
	} {
		idx, ok := byName[want.name]
		if !ok {
			return columnIndexes{}, fmt.Errorf("missing column %q", want.name)
		}
		*want.dst = idx
	}
	return cols, nil
}

func parseRow(row []string, cols columnIndexes, line int) (RawRecord, error) {
	code := NormalizeCommuneCode(row[cols.communeCode])
	district := code[len(code)-2:]

	// The district number is derived from the code's last two digits and
	// must parse; a non-numeric tail means the row is broken.
	districtNumber, err := strconv.Atoi(district)
	if err != nil {
		return RawRecord{}, &MalformedRecordError{Line: line, Field: colCommuneCode, Value: code, Err: err}
	}

	year, err := coerceInt(row[cols.year])
	if err != nil {
		return RawRecord{}, &MalformedRecordError{Line: line, Field: colYear, Value: row[cols.year], Err: err}
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(row[cols.medianPrice]), 64)
	if err != nil {
		return RawRecord{}, &MalformedRecordError{Line: line, Field: colMedianPrice, Value: row[cols.medianPrice], Err: err}
	}

	count, err := coerceInt(row[cols.saleCount])
	if err != nil {
		return RawRecord{}, &MalformedRecordError{Line: line, Field: colSaleCount, Value: row[cols.saleCount], Err: err}
	}

	return RawRecord{
		CommuneCode:    code,
		DistrictCode:   district,
		DistrictNumber: districtNumber,
		Year:           year,
		PropertyType:   strings.TrimSpace(row[cols.propertyType]),
		MedianPriceSqm: price,
		SaleCount:      count,
	}, nil
}

// coerceInt parses a numeric string that may carry a fractional
// representation ("2021.0"), matching the upstream producer's output.
func coerceInt(value string) (int, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}
