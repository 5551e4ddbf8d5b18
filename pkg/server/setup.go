package server

import (
	"log"

	"github.com/dvfviz/dvfserve/pkg/config"
	"github.com/dvfviz/dvfserve/pkg/dvf"
	"github.com/dvfviz/dvfserve/pkg/live"
)

// Initialize wires the snapshot store, engine, hub and API handler from
// the given configuration. No snapshot I/O happens here; the store loads
// lazily on the first query.
func Initialize(cfg config.Config) (*Handler, *live.Hub) {
	snap := dvf.NewSnapshot(cfg.SnapshotFile)
	log.Printf("Snapshot store created (file: %s, lazy load)", cfg.SnapshotFile)

	engine := dvf.NewEngine(snap)
	log.Println("Aggregation engine created")

	hub := live.NewHub()
	log.Println("WebSocket hub created for snapshot reload notifications")

	return NewHandler(snap, engine, hub), hub
}
