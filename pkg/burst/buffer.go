package burst

import (
	"fmt"
	"sync"

	"github.com/downfa11-org/burstfifo/pkg/cdc"
	"github.com/downfa11-org/burstfifo/pkg/config"
	"github.com/downfa11-org/burstfifo/pkg/store"
	"github.com/downfa11-org/burstfifo/pkg/types"
	"github.com/downfa11-org/burstfifo/util"
	"github.com/google/uuid"
)

// Buffer wires one store, one length table, both sequencers and the two
// counter links between them.
type Buffer struct {
	id      string
	geo     types.Geometry
	store   types.SegmentedStore
	lengths *LengthTable
	writer  *WriteSequencer
	reader  *ReadSequencer
	rec     Recorder
	stats   *counters
	stages  int

	prodPub *cdc.Publisher
	consPub *cdc.Publisher

	ownStore  bool
	closeOnce sync.Once
}

type Option func(*options)

type options struct {
	store  types.SegmentedStore
	stages int
	rec    Recorder
	id     string
}

// WithStore backs the buffer with st instead of a fresh memory store. The
// caller keeps ownership of st.
func WithStore(st types.SegmentedStore) Option {
	return func(o *options) { o.store = st }
}

// WithSyncStages sets the synchronizer depth of both counter links.
func WithSyncStages(n int) Option {
	return func(o *options) {
		if n < 0 {
			n = 0
		}
		o.stages = n
	}
}

func WithRecorder(r Recorder) Option {
	return func(o *options) {
		if r != nil {
			o.rec = r
		}
	}
}

func WithID(id string) Option {
	return func(o *options) { o.id = id }
}

// NewBuffer builds an empty buffer of the given geometry. Without options it
// uses a memory store and publishes counters with no synchronizer delay.
func NewBuffer(geo types.Geometry, opts ...Option) (*Buffer, error) {
	if err := geo.Validate(); err != nil {
		return nil, err
	}
	o := options{rec: nopRecorder{}}
	for _, opt := range opts {
		opt(&o)
	}
	if o.id == "" {
		o.id = uuid.NewString()
	}

	b := &Buffer{
		id:      o.id,
		geo:     geo,
		store:   o.store,
		lengths: NewLengthTable(geo.Segments),
		rec:     o.rec,
		stats:   &counters{},
		stages:  o.stages,
	}
	if b.store == nil {
		ms, err := store.NewMemoryStore(geo)
		if err != nil {
			return nil, err
		}
		b.store = ms
		b.ownStore = true
	} else if got := b.store.Geometry(); got != geo {
		return nil, fmt.Errorf("%w: store is %s, buffer wants %s", ErrStoreGeometry, got, geo)
	}

	prodPub, prodObs := cdc.NewLink(o.stages)
	consPub, consObs := cdc.NewLink(o.stages)
	b.prodPub, b.consPub = prodPub, consPub
	b.writer = newWriteSequencer(geo, b.store, b.lengths, prodPub, consObs, b.rec, b.stats)
	b.reader = newReadSequencer(geo, b.store, b.lengths, consPub, prodObs, b.rec, b.stats)

	util.Info("buffer %s created (%s, sync stages %d)", b.id, geo, o.stages)
	return b, nil
}

// NewFromConfig derives the geometry and the store backend from cfg. The
// buffer owns the store it opens and closes it on Close.
func NewFromConfig(cfg *config.Config, opts ...Option) (*Buffer, error) {
	geo, err := cfg.Geometry()
	if err != nil {
		return nil, err
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	id := o.id
	if id == "" {
		id = uuid.NewString()
	}

	st, err := store.Open(cfg, geo, id)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	all := append([]Option{WithSyncStages(cfg.EffectiveSyncStages())}, opts...)
	all = append(all, WithStore(st), WithID(id))
	b, err := NewBuffer(geo, all...)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	b.ownStore = true
	return b, nil
}

func (b *Buffer) ID() string {
	return b.id
}

func (b *Buffer) Geometry() types.Geometry {
	return b.geo
}

// SyncStages returns the synchronizer depth of the counter links.
func (b *Buffer) SyncStages() int {
	return b.stages
}

// Published returns the counters each domain has made visible to the other.
func (b *Buffer) Published() (producer, consumer uint64) {
	return b.prodPub.Value(), b.consPub.Value()
}

// Lengths returns the shared length table, for inspection only.
func (b *Buffer) Lengths() *LengthTable {
	return b.lengths
}

// Writer returns the producer-domain end.
func (b *Buffer) Writer() *WriteSequencer {
	return b.writer
}

// Reader returns the consumer-domain end.
func (b *Buffer) Reader() *ReadSequencer {
	return b.reader
}

// Reset empties the buffer. Neither domain may be stepping while it runs.
func (b *Buffer) Reset() {
	b.writer.Reset()
	b.reader.Reset()
	b.lengths.reset()
	b.stats.inFlight.Store(0)
	b.rec.Reset()
	util.Info("buffer %s reset", b.id)
}

// Stats may be called from any goroutine.
func (b *Buffer) Stats() Stats {
	return b.stats.snapshot()
}

// Close releases the store if the buffer opened it.
func (b *Buffer) Close() error {
	var err error
	b.closeOnce.Do(func() {
		if b.ownStore {
			err = b.store.Close()
		}
		s := b.stats.snapshot()
		util.Info("buffer %s closed (bursts in %d, out %d, stalls %d)", b.id, s.BurstsIn, s.BurstsOut, s.Stalls)
	})
	return err
}
