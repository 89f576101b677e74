package store

import (
	"github.com/downfa11-org/burstfifo/pkg/config"
	"github.com/downfa11-org/burstfifo/pkg/types"
	"github.com/downfa11-org/burstfifo/util"
)

// Open builds the store backend selected by cfg. name distinguishes the files
// of several buffers sharing one store directory.
func Open(cfg *config.Config, geo types.Geometry, name string) (types.SegmentedStore, error) {
	switch cfg.StoreBackend {
	case config.BackendMmap:
		s, err := NewMmapStore(cfg.StoreDir, name, geo)
		if err != nil {
			return nil, err
		}
		util.Info("opened mmap store %s (%s)", s.Path(), geo)
		return s, nil
	default:
		s, err := NewMemoryStore(geo)
		if err != nil {
			return nil, err
		}
		util.Debug("opened memory store (%s)", geo)
		return s, nil
	}
}
