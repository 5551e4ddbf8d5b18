/*
Package dvf loads the aggregated DVF (Demandes de valeurs foncières) gold-layer
snapshot and answers arrondissement-level queries over it.

# Data Flow

The upstream ETL produces a single ;-delimited snapshot file with one row per
(commune, year, property type, room count) aggregate:

	code_commune;annee;type_local;nombre_pieces_principales;prix_m2_med;nb_ventes
	75101;2021;Appartement;2;10845.50;128
	75101;2021;Maison;4;12010.00;3

The Snapshot store reads that file once, normalizes every row into a RawRecord
and keeps the whole sequence in memory for the process lifetime. The Engine
answers three queries over the cached sequence:

	snap := dvf.NewSnapshot("./data/gold_layer/agg_dvf_data.csv")
	engine := dvf.NewEngine(snap)

	years, err := engine.AvailableYears()
	summary, err := engine.Summarize(dvf.Filter{Year: dvf.Int(2021)})
	series, err := engine.DistrictTimeseries("75101", "Appartement")

Queries never mutate the cached sequence. Picking up a regenerated snapshot
file requires an explicit Invalidate; the next load re-reads from disk.

# Median of Medians

The snapshot rows already carry a median price per m2, computed by the ETL
over the individual sales of each (commune, year, type, rooms) bucket.
Summarize and DistrictTimeseries aggregate those rows by taking the median of
the per-row medians again. This is NOT the median of the underlying individual
sale prices, and it is not meant to be: the two-stage reduction is the
contract the upstream producer and the dashboards agreed on, so it is
preserved exactly (ascending sort, middle value for odd counts, mean of the
two middle values for even counts, rounded to 2 decimals).

# Failure Model

A load fails as a whole: a missing file or header column is a DataSourceError,
a row whose numeric field cannot be coerced is a MalformedRecordError, and in
both cases no partial dataset is ever cached. Query-side absence is not an
error: an unknown commune code or a filter matching nothing yields an empty
result.
*/
package dvf
