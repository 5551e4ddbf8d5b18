package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Server defaults
const (
	DefaultPort         = "8080"
	DefaultSnapshotFile = "./data/gold_layer/agg_dvf_data.csv"
)

// Server timeouts
const (
	ServerReadTimeout  = 10 * time.Second
	ServerWriteTimeout = 10 * time.Second
	ShutdownTimeout    = 30 * time.Second
	ShutdownDrainWait  = 5 * time.Second
)

// WebSocket configuration
const (
	WSReadBufferSize  = 1024
	WSWriteBufferSize = 1024
	WSBroadcastBuffer = 256
	WSChannelBuffer   = 10
	WSWriteDeadline   = 10 * time.Second
	WSReadDeadline    = 60 * time.Second
	WSPingInterval    = 30 * time.Second
)

// Config holds the runtime configuration loaded from the environment.
type Config struct {
	SnapshotFile string
	Port         string
}

// Load reads an optional .env file and returns the populated Config.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, falling back to system env vars")
	}

	return Config{
		SnapshotFile: getEnv("DVF_SNAPSHOT_FILE", DefaultSnapshotFile),
		Port:         getEnv("DVF_PORT", DefaultPort),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
