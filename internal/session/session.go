// Package session is the operator's unit of work: one batch, the reference
// data cache, and the store the batch is saved to.
//
// Every batch mutation is mirrored to the draft store, so a batch survives
// process restarts until it is saved or cleared.
package session

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/roach88/balanca/internal/batch"
	"github.com/roach88/balanca/internal/catalog"
	"github.com/roach88/balanca/internal/model"
	"github.com/roach88/balanca/internal/report"
)

// Store is the persistence the session needs.
type Store interface {
	catalog.Source
	CreateBuyer(ctx context.Context, b model.Buyer) (model.Buyer, error)
	SaveWeighing(ctx context.Context, w model.Weighing, entries []model.WeighingEntry) (model.Weighing, error)
}

// Drafts persists the unsaved batch between runs.
type Drafts interface {
	Save(session string, snap batch.Snapshot) error
	Load(session string) (batch.Snapshot, error)
	Delete(session string) error
}

// Config holds the session policy.
type Config struct {
	// BoneCategory is the item type that requires a product.
	BoneCategory string

	// DefaultTabName labels saved weighings when settings carry none.
	DefaultTabName string

	// StoreName appears in report titles.
	StoreName string

	// RequireBuyer refuses saves without a buyer.
	RequireBuyer bool

	// DraftKey identifies this session in the draft store.
	DraftKey string
}

func (c Config) withDefaults() Config {
	if c.BoneCategory == "" {
		c.BoneCategory = report.DefaultBoneCategory
	}
	if c.DefaultTabName == "" {
		c.DefaultTabName = "Pesagem"
	}
	if c.DraftKey == "" {
		c.DraftKey = "default"
	}
	return c
}

// Session owns one batch. It is not safe for concurrent use except that a
// second Save while one is running is refused rather than interleaved.
type Session struct {
	cfg    Config
	store  Store
	drafts Drafts
	cache  *catalog.Cache
	batch  *batch.Batch
	clock  batch.Clock
	logger *slog.Logger
	saving atomic.Bool
}

// Option configures a Session.
type Option func(*sessionOptions)

type sessionOptions struct {
	clock  batch.Clock
	ids    batch.IDGenerator
	drafts Drafts
	logger *slog.Logger
	cache  *catalog.Cache
}

// WithClock sets the clock for entry timestamps, save times and report dates.
func WithClock(c batch.Clock) Option {
	return func(o *sessionOptions) { o.clock = c }
}

// WithIDGenerator sets the entry id generator.
func WithIDGenerator(g batch.IDGenerator) Option {
	return func(o *sessionOptions) { o.ids = g }
}

// WithDrafts enables draft persistence.
func WithDrafts(d Drafts) Option {
	return func(o *sessionOptions) { o.drafts = d }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *sessionOptions) { o.logger = l }
}

// WithCache shares an existing reference data cache.
func WithCache(c *catalog.Cache) Option {
	return func(o *sessionOptions) { o.cache = c }
}

// New creates a session with an empty batch. Call Load before use.
func New(store Store, cfg Config, opts ...Option) *Session {
	o := sessionOptions{
		clock: batch.SystemClock{},
		ids:   batch.UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.cache == nil {
		o.cache = catalog.NewCache()
	}

	return &Session{
		cfg:    cfg.withDefaults(),
		store:  store,
		drafts: o.drafts,
		cache:  o.cache,
		batch:  batch.New(batch.WithClock(o.clock), batch.WithIDGenerator(o.ids)),
		clock:  o.clock,
		logger: o.logger,
	}
}

// Load restores the draft batch and loads reference data.
//
// A damaged draft is logged and discarded. A reference data failure is
// returned as an IO error, but the session stays usable: the batch works and
// price and tare defaults read as zero until Reload succeeds.
func (s *Session) Load(ctx context.Context) error {
	s.restoreDraft()
	return s.Reload(ctx)
}

// Reload re-reads reference data from the store.
func (s *Session) Reload(ctx context.Context) error {
	if err := s.cache.Load(ctx, s.store); err != nil {
		s.logger.Error("reference data load failed", "error", err)
		return ioError("Erro ao carregar dados de referência", err)
	}
	s.logger.Debug("reference data loaded",
		"item_types", len(s.cache.ItemTypes()),
		"products", len(s.cache.Products()),
		"buyers", len(s.cache.Buyers()))
	return nil
}

func (s *Session) restoreDraft() {
	if s.drafts == nil {
		return
	}
	snap, err := s.drafts.Load(s.cfg.DraftKey)
	if err != nil {
		s.logger.Warn("discarding unreadable draft", "session", s.cfg.DraftKey, "error", err)
		if err := s.drafts.Delete(s.cfg.DraftKey); err != nil {
			s.logger.Warn("delete draft failed", "session", s.cfg.DraftKey, "error", err)
		}
		return
	}
	if discarded := s.batch.Restore(snap); discarded > 0 {
		s.logger.Warn("discarded invalid draft entries", "session", s.cfg.DraftKey, "discarded", discarded)
	}
	if !s.batch.IsEmpty() {
		s.logger.Info("draft restored", "session", s.cfg.DraftKey, "entries", s.batch.Len())
	}
}

func (s *Session) persistDraft() error {
	if s.drafts == nil {
		return nil
	}
	var err error
	if s.batch.IsEmpty() && s.batch.SortOrder() == batch.Newest {
		err = s.drafts.Delete(s.cfg.DraftKey)
	} else {
		err = s.drafts.Save(s.cfg.DraftKey, s.batch.Snapshot())
	}
	if err != nil {
		s.logger.Error("draft write failed", "session", s.cfg.DraftKey, "error", err)
		return ioError("Erro ao salvar rascunho", err)
	}
	return nil
}

// Cache exposes the reference data.
func (s *Session) Cache() *catalog.Cache {
	return s.cache
}

// Config returns the effective configuration.
func (s *Session) Config() Config {
	return s.cfg
}
