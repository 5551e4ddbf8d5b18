package server

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/dvfviz/dvfserve/pkg/dvf"
	"github.com/dvfviz/dvfserve/pkg/httpx"
	"github.com/dvfviz/dvfserve/pkg/live"
)

var startTime = time.Now()

// Handler serves the DVF query API over the snapshot store and engine.
type Handler struct {
	snap   *dvf.Snapshot
	engine *dvf.Engine
	hub    *live.Hub
}

// NewHandler creates the API handler.
func NewHandler(snap *dvf.Snapshot, engine *dvf.Engine, hub *live.Hub) *Handler {
	return &Handler{snap: snap, engine: engine, hub: hub}
}

// SnapshotInfo describes the currently cached snapshot generation.
type SnapshotInfo struct {
	Loaded      bool   `json:"loaded"`
	Records     int    `json:"records,omitempty"`
	Fingerprint string `json:"fingerprint,omitempty"`
	LoadedAt    string `json:"loaded_at,omitempty"`
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status   string       `json:"status"`
	Version  string       `json:"version"`
	Uptime   string       `json:"uptime"`
	Snapshot SnapshotInfo `json:"snapshot"`
}

// HandleHealth returns service health status.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:   "ok",
		Version:  "1.0.0",
		Uptime:   time.Since(startTime).String(),
		Snapshot: h.snapshotInfo(),
	}
	httpx.RespondJSON(w, http.StatusOK, response)
}

func (h *Handler) snapshotInfo() SnapshotInfo {
	gen, ok := h.snap.Generation()
	if !ok {
		return SnapshotInfo{Loaded: false}
	}
	return SnapshotInfo{
		Loaded:      true,
		Records:     gen.Records,
		Fingerprint: gen.FingerprintHex(),
		LoadedAt:    gen.LoadedAt.Format(time.RFC3339),
	}
}

// HandleYears returns the distinct years available in the snapshot.
func (h *Handler) HandleYears(w http.ResponseWriter, r *http.Request) {
	years, err := h.engine.AvailableYears()
	if err != nil {
		respondDataError(w, err)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, years)
}

// SummaryResponse wraps the arrondissement summary with the echoed year.
type SummaryResponse struct {
	Items []dvf.SummaryRecord `json:"items"`
	Year  *int                `json:"year"`
}

// HandleSummary returns the arrondissement-level summary for an optional
// year and property type.
func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		httpx.RespondError(w, http.StatusBadRequest, err)
		return
	}

	items, err := h.engine.Summarize(filter)
	if err != nil {
		respondDataError(w, err)
		return
	}

	httpx.RespondJSON(w, http.StatusOK, SummaryResponse{Items: items, Year: filter.Year})
}

// TimeseriesResponse wraps a district's history with the echoed code.
type TimeseriesResponse struct {
	Items       []dvf.TimeseriesRecord `json:"items"`
	CommuneCode string                 `json:"code_commune"`
}

// HandleTimeseries returns the yearly history of a single commune code.
// An unknown code yields an empty items list, not an error.
func (h *Handler) HandleTimeseries(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code_commune"]
	propertyType := r.URL.Query().Get("type_local")

	items, err := h.engine.DistrictTimeseries(code, propertyType)
	if err != nil {
		respondDataError(w, err)
		return
	}

	httpx.RespondJSON(w, http.StatusOK, TimeseriesResponse{Items: items, CommuneCode: code})
}

// ReloadResponse acknowledges a cache reload.
type ReloadResponse struct {
	Status      string `json:"status"`
	Records     int    `json:"records"`
	Fingerprint string `json:"fingerprint"`
}

// HandleReload discards the cached snapshot and eagerly loads the file
// again, so a broken snapshot surfaces here instead of on the next query.
// Connected WebSocket clients are notified of the new generation.
func (h *Handler) HandleReload(w http.ResponseWriter, r *http.Request) {
	h.snap.Invalidate()
	if _, err := h.snap.Load(); err != nil {
		respondDataError(w, err)
		return
	}

	gen, _ := h.snap.Generation()
	if h.hub != nil {
		event := live.SnapshotEvent{
			Type:        "snapshot_reloaded",
			Fingerprint: gen.FingerprintHex(),
			Records:     gen.Records,
			Timestamp:   time.Now().Unix(),
		}
		// Reload succeeded either way; a failed notification is not fatal.
		if err := h.hub.Broadcast(event); err != nil {
			log.Printf("Failed to broadcast snapshot reload: %v", err)
		}
	}

	httpx.RespondJSON(w, http.StatusOK, ReloadResponse{
		Status:      "reloaded",
		Records:     gen.Records,
		Fingerprint: gen.FingerprintHex(),
	})
}

// StatsResponse summarizes the loaded dataset.
type StatsResponse struct {
	Records     int    `json:"records"`
	Years       []int  `json:"years"`
	Communes    int    `json:"communes"`
	Fingerprint string `json:"fingerprint"`
	LoadedAt    string `json:"loaded_at"`
}

// HandleStats returns dataset-level statistics.
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	records, err := h.snap.Load()
	if err != nil {
		respondDataError(w, err)
		return
	}

	years, err := h.engine.AvailableYears()
	if err != nil {
		respondDataError(w, err)
		return
	}

	communes := make(map[string]struct{})
	for _, rec := range records {
		communes[rec.CommuneCode] = struct{}{}
	}

	gen, _ := h.snap.Generation()
	httpx.RespondJSON(w, http.StatusOK, StatsResponse{
		Records:     len(records),
		Years:       years,
		Communes:    len(communes),
		Fingerprint: gen.FingerprintHex(),
		LoadedAt:    gen.LoadedAt.Format(time.RFC3339),
	})
}

// filterFromQuery parses the optional year and type_local query params.
func filterFromQuery(r *http.Request) (dvf.Filter, error) {
	filter := dvf.Filter{PropertyType: r.URL.Query().Get("type_local")}

	if raw := r.URL.Query().Get("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return dvf.Filter{}, errors.New("year must be an integer")
		}
		filter.Year = &year
	}
	return filter, nil
}

// respondDataError maps snapshot failures to 503: the data source is
// broken and the operation is unavailable until the file is fixed and
// reloaded. Anything else is a plain 500.
func respondDataError(w http.ResponseWriter, err error) {
	var dsErr *dvf.DataSourceError
	var malErr *dvf.MalformedRecordError
	if errors.As(err, &dsErr) || errors.As(err, &malErr) {
		httpx.RespondError(w, http.StatusServiceUnavailable, err)
		return
	}
	httpx.RespondError(w, http.StatusInternalServerError, err)
}
