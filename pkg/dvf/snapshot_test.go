package dvf

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

const snapshotHeader = "code_commune;annee;type_local;nombre_pieces_principales;prix_m2_med;nb_ventes\n"

func writeSnapshotFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "agg_dvf_data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestSnapshotLoad_ParsesAndNormalizes(t *testing.T) {
	path := writeSnapshotFile(t, snapshotHeader+
		"75101;2021;Appartement;2;10845.50;128\n"+
		" 75120 ;2022.0;Maison;4;12010;3.0\n")

	snap := NewSnapshot(path)
	records, err := snap.Load()
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	require.Equal(t, "75101", first.CommuneCode)
	require.Equal(t, "01", first.DistrictCode)
	require.Equal(t, 1, first.DistrictNumber)
	require.Equal(t, 2021, first.Year)
	require.Equal(t, "Appartement", first.PropertyType)
	require.Equal(t, 10845.50, first.MedianPriceSqm)
	require.Equal(t, 128, first.SaleCount)

	// Whitespace trimmed, float-then-int coercion for annee and nb_ventes.
	second := records[1]
	require.Equal(t, "75120", second.CommuneCode)
	require.Equal(t, 2022, second.Year)
	require.Equal(t, 3, second.SaleCount)
}

func TestSnapshotLoad_DistrictNumberMatchesCodeTail(t *testing.T) {
	path := writeSnapshotFile(t, snapshotHeader+
		"75101;2021;Appartement;2;100;1\n"+
		"75105;2021;Appartement;2;100;1\n"+
		"75120;2021;Appartement;2;100;1\n")

	records, err := NewSnapshot(path).Load()
	require.NoError(t, err)
	for _, rec := range records {
		tail, err := strconv.Atoi(rec.CommuneCode[len(rec.CommuneCode)-2:])
		require.NoError(t, err)
		require.Equal(t, tail, rec.DistrictNumber)
		require.Equal(t, rec.CommuneCode[len(rec.CommuneCode)-2:], rec.DistrictCode)
	}
}

func TestSnapshotLoad_PadsShortCommuneCodes(t *testing.T) {
	path := writeSnapshotFile(t, snapshotHeader+"101;2021;Appartement;2;100;1\n")

	records, err := NewSnapshot(path).Load()
	require.NoError(t, err)
	require.Equal(t, "00101", records[0].CommuneCode)
	require.Equal(t, "01", records[0].DistrictCode)
}

func TestSnapshotLoad_CachesUntilInvalidate(t *testing.T) {
	path := writeSnapshotFile(t, snapshotHeader+"75101;2021;Appartement;2;100;1\n")
	snap := NewSnapshot(path)

	records, err := snap.Load()
	require.NoError(t, err)
	require.Len(t, records, 1)

	gen1, ok := snap.Generation()
	require.True(t, ok)
	require.Equal(t, 1, gen1.Records)

	// Rewrite the file; the cached generation must survive.
	require.NoError(t, os.WriteFile(path, []byte(snapshotHeader+
		"75101;2021;Appartement;2;100;1\n"+
		"75102;2021;Appartement;2;200;2\n"), 0644))

	records, err = snap.Load()
	require.NoError(t, err)
	require.Len(t, records, 1)

	// Invalidate forces a re-read on the next Load.
	snap.Invalidate()
	_, ok = snap.Generation()
	require.False(t, ok)

	records, err = snap.Load()
	require.NoError(t, err)
	require.Len(t, records, 2)

	gen2, ok := snap.Generation()
	require.True(t, ok)
	require.NotEqual(t, gen1.Fingerprint, gen2.Fingerprint)
}

func TestSnapshotLoad_MissingFile(t *testing.T) {
	snap := NewSnapshot(filepath.Join(t.TempDir(), "nope.csv"))

	_, err := snap.Load()
	require.Error(t, err)
	var dsErr *DataSourceError
	require.ErrorAs(t, err, &dsErr)
}

func TestSnapshotLoad_MissingColumn(t *testing.T) {
	path := writeSnapshotFile(t, "code_commune;annee;type_local\n75101;2021;Appartement\n")

	_, err := NewSnapshot(path).Load()
	var dsErr *DataSourceError
	require.ErrorAs(t, err, &dsErr)
	require.Contains(t, dsErr.Error(), "prix_m2_med")
}

func TestSnapshotLoad_MalformedNumericFailsWholeLoad(t *testing.T) {
	path := writeSnapshotFile(t, snapshotHeader+
		"75101;2021;Appartement;2;100;1\n"+
		"75102;not-a-year;Appartement;2;100;1\n")

	snap := NewSnapshot(path)
	_, err := snap.Load()
	var malErr *MalformedRecordError
	require.ErrorAs(t, err, &malErr)
	require.Equal(t, "annee", malErr.Field)
	require.Equal(t, 3, malErr.Line)

	// Nothing was cached.
	_, ok := snap.Generation()
	require.False(t, ok)
}

func TestSnapshotLoad_IgnoresExtraColumns(t *testing.T) {
	path := writeSnapshotFile(t,
		"annee;code_commune;extra;type_local;prix_m2_med;nb_ventes\n"+
			"2021;75101;whatever;Appartement;100;1\n")

	records, err := NewSnapshot(path).Load()
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, 2021, records[0].Year)
	require.Equal(t, "75101", records[0].CommuneCode)
}
