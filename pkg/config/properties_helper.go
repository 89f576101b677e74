package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/downfa11-org/burstfifo/pkg/types"
	"github.com/downfa11-org/burstfifo/util"
)

// ErrInvalidGeometry is returned when the burst/width settings cannot describe a store.
var ErrInvalidGeometry = errors.New("invalid buffer geometry")

const defaultSyncStages = 2

func (cfg *Config) Normalize() {
	// geometry
	if cfg.MaxBurstBytes <= 0 {
		cfg.MaxBurstBytes = 256
	}
	if cfg.IDWidth <= 0 {
		cfg.IDWidth = 3
	}
	if cfg.DataWidth <= 0 {
		cfg.DataWidth = 64
	}

	// publication
	if cfg.SyncStages < 0 {
		cfg.SyncStages = 0
	}
	if cfg.AsyncDomains && cfg.SyncStages == 0 {
		util.Warn("async_domains set with sync_stages=0, defaulting to %d stages", defaultSyncStages)
		cfg.SyncStages = defaultSyncStages
	}

	// storage
	cfg.StoreBackend = strings.ToLower(strings.TrimSpace(cfg.StoreBackend))
	switch cfg.StoreBackend {
	case BackendMemory, BackendMmap:
	case "":
		cfg.StoreBackend = BackendMemory
	default:
		util.Warn("Invalid store_backend '%s', defaulting to '%s'", cfg.StoreBackend, BackendMemory)
		cfg.StoreBackend = BackendMemory
	}
	if strings.TrimSpace(cfg.StoreDir) == "" {
		cfg.StoreDir = "burst-store"
	}

	if cfg.ExporterPort <= 0 {
		cfg.ExporterPort = 9100
	}

	// bench
	if cfg.BenchBursts <= 0 {
		cfg.BenchBursts = 100000
	}
	if cfg.BenchSeed == 0 {
		cfg.BenchSeed = 1
	}
	if cfg.BenchProducerPace < 0 {
		cfg.BenchProducerPace = 0
	}
	if cfg.BenchConsumerPace < 0 {
		cfg.BenchConsumerPace = 0
	}
	if cfg.BenchSinkStallRate < 0 {
		cfg.BenchSinkStallRate = 0
	}
	if cfg.BenchSinkStallRate > 0.95 {
		cfg.BenchSinkStallRate = 0.95
	}
}

// EffectiveSyncStages is the synchronizer depth the links are built with.
// Domains sharing one rate need no synchronizer.
func (cfg *Config) EffectiveSyncStages() int {
	if !cfg.AsyncDomains {
		return 0
	}
	return cfg.SyncStages
}

// Geometry derives the store shape: L = max_burst_bytes / (data_width/8) beats
// per segment and 2^(id_width-1) segments.
func (cfg *Config) Geometry() (types.Geometry, error) {
	if cfg.DataWidth <= 0 || cfg.DataWidth%8 != 0 {
		return types.Geometry{}, fmt.Errorf("%w: data_width %d is not a positive multiple of 8", ErrInvalidGeometry, cfg.DataWidth)
	}
	beatBytes := cfg.DataWidth / 8
	if cfg.MaxBurstBytes < beatBytes || cfg.MaxBurstBytes%beatBytes != 0 {
		return types.Geometry{}, fmt.Errorf("%w: max_burst_bytes %d is not a multiple of the %d-byte beat", ErrInvalidGeometry, cfg.MaxBurstBytes, beatBytes)
	}
	if cfg.IDWidth < 1 || cfg.IDWidth > types.MaxIDWidth {
		return types.Geometry{}, fmt.Errorf("%w: id_width %d out of range [1,%d]", ErrInvalidGeometry, cfg.IDWidth, types.MaxIDWidth)
	}

	g := types.Geometry{
		IDWidth:         cfg.IDWidth,
		Segments:        1 << (cfg.IDWidth - 1),
		BeatsPerSegment: cfg.MaxBurstBytes / beatBytes,
		BeatBytes:       beatBytes,
	}
	if err := g.Validate(); err != nil {
		return types.Geometry{}, fmt.Errorf("%w: %v", ErrInvalidGeometry, err)
	}
	return g, nil
}

func overrideEnvInt(target *int, key string) {
	if v := os.Getenv(key); v != "" {
		*target = util.ParseInt(v, *target)
	}
}

func overrideEnvInt64(target *int64, key string) {
	if v := os.Getenv(key); v != "" {
		*target = util.ParseInt64(v, *target)
	}
}

func overrideEnvBool(target *bool, key string) {
	if v := os.Getenv(key); v != "" {
		*target = util.ParseBool(v, *target)
	}
}

func overrideEnvString(target *string, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}
