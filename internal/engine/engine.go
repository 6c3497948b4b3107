// Package engine owns the pending/confirmed asset lifecycle: ingestion
// of raw signals through the quality gate and deduplicator, the
// approve/reject state machine, retention sweeps, and the alert flow.
// All store mutations are serialized through one engine-level mutex so a
// sweep can never interleave with a create-then-evaluate step.
package engine

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/citizenmundane/valker-app-sub000/internal/config"
	"github.com/citizenmundane/valker-app-sub000/internal/core"
	"github.com/citizenmundane/valker-app-sub000/internal/dedup"
	"github.com/citizenmundane/valker-app-sub000/internal/filter"
	"github.com/citizenmundane/valker-app-sub000/internal/history"
	"github.com/citizenmundane/valker-app-sub000/internal/metrics"
	"github.com/citizenmundane/valker-app-sub000/internal/retention"
	"github.com/citizenmundane/valker-app-sub000/internal/source"
	"github.com/citizenmundane/valker-app-sub000/internal/storage/archive"
	"github.com/citizenmundane/valker-app-sub000/internal/store"
	"github.com/citizenmundane/valker-app-sub000/internal/validator"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// alertScoreFloor is the total score at which a confirmed asset becomes
// an active alert.
const alertScoreFloor = 6

// historyCapacity bounds the raw-signal window against misbehaving
// sources.
const historyCapacity = 10000

// IngestResult summarizes one ingestion batch.
type IngestResult struct {
	Added        int
	Skipped      int
	AutoRejected int
}

// SweepResult summarizes one retention sweep.
type SweepResult struct {
	EvictedPending   int
	EvictedConfirmed int
}

// ApproveOverrides carries the approver-supplied sub-scores merged into
// the confirmed asset. The meme score always comes from discovery.
type ApproveOverrides struct {
	PoliticalScore int
	EarningsScore  int
}

// Engine is the public facade over the signal pipeline and entity
// lifecycle.
type Engine struct {
	cfg       *config.Config
	logger    *zap.Logger
	store     store.Store
	history   *history.Window
	filter    *filter.Filter
	validator *validator.Validator
	retention *retention.Engine
	adapters  *source.Registry
	audit     *archive.Writer
	metrics   *metrics.Registry

	// mu serializes sweeps against every mutation path.
	mu sync.Mutex

	// For testing: allow time control
	now func() time.Time
}

// New creates an engine over the given store and runs the initial
// retention sweep.
func New(cfg *config.Config, st store.Store, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg = config.Defaults()
	}

	floors := make(map[string]filter.SourceFloor, len(cfg.Sources))
	profiles := make(map[string]validator.Profile, len(cfg.Sources))
	for name, src := range cfg.Sources {
		floors[name] = filter.SourceFloor{
			HighNoise:          src.HighNoise,
			MentionFloorEquity: src.MentionFloorEquity,
			MentionFloorCrypto: src.MentionFloorCrypto,
		}
		profiles[name] = validator.Profile{
			BaseWeight:  src.BaseWeight,
			Reliability: src.Reliability,
			TimeDecay:   src.TimeDecay,
			Social:      src.Social,
			Insider:     src.Insider,
			MarketData:  src.MarketData,
		}
	}

	e := &Engine{
		cfg:    cfg,
		logger: logger,
		store:  st,
		history: history.NewWindow(cfg.Retention.SignalWindow, historyCapacity),
		filter: filter.New(filter.Config{
			MinTypes:        cfg.Filter.MinTypes,
			StrongMemeScore: cfg.Filter.StrongMemeScore,
			HighConfidence:  cfg.Filter.HighConfidence,
			MinConfidence:   cfg.Filter.MinConfidence,
		}, floors),
		validator: validator.New(validator.Config{
			SentimentVarianceMax:    cfg.Validator.SentimentVarianceMax,
			TemporalWindow:          cfg.Validator.TemporalWindow,
			ConflictSentimentGap:    cfg.Validator.ConflictSentimentGap,
			ConflictConfidenceFloor: cfg.Validator.ConflictConfidenceFloor,
		}, profiles),
		retention: retention.New(retention.DefaultCriteria(), logger),
		adapters:  source.NewRegistry(),
		now:       time.Now,
	}

	// Initial sweep so the store never starts with unqualified entities.
	if _, err := e.Sweep(context.Background()); err != nil {
		logger.Warn("initial retention sweep failed", zap.Error(err))
	}

	return e
}

// SetAudit wires an audit archive for evicted and rejected entities.
func (e *Engine) SetAudit(w *archive.Writer) {
	e.audit = w
}

// SetMetrics wires a metrics registry. A nil registry is a no-op.
func (e *Engine) SetMetrics(m *metrics.Registry) {
	e.metrics = m
}

// RegisterAdapter adds a source adapter used by Scan.
func (e *Engine) RegisterAdapter(a source.Adapter) {
	e.adapters.Register(a)
}

// Scan runs one full scatter/gather cycle over all registered adapters
// and ingests whatever subset completed. Per-source failures are logged
// and counted, never returned.
func (e *Engine) Scan(ctx context.Context) IngestResult {
	start := e.now()

	results := source.Gather(ctx, e.adapters.GetAll(), e.cfg.Scan.AdapterTimeout, e.logger)
	for _, r := range results {
		if r.Err != nil {
			e.metrics.RecordScanFailure(r.Source)
		}
	}

	res := e.Ingest(ctx, source.Signals(results))
	e.metrics.RecordScan(e.now().Sub(start).Seconds())

	e.logger.Info("scan cycle complete",
		zap.Int("sources", len(results)),
		zap.Int("added", res.Added),
		zap.Int("skipped", res.Skipped),
		zap.Int("auto_rejected", res.AutoRejected),
	)
	return res
}

// Ingest runs a batch of raw signals through the pipeline: retention
// sweep, validity check, quality filter, dedup, and entity creation.
// Malformed signals are dropped at the boundary; nothing here is fatal.
func (e *Engine) Ingest(ctx context.Context, raws []core.RawSignal) IngestResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	var res IngestResult

	// Sweep before every ingestion batch.
	if _, err := e.sweepLocked(ctx); err != nil {
		e.logger.Warn("pre-ingest sweep failed", zap.Error(err))
	}

	var candidates []core.CandidateSignal
	for _, raw := range raws {
		if !raw.IsValid() {
			res.Skipped++
			e.metrics.RecordSkipped("invalid")
			e.logger.Debug("dropping malformed signal",
				zap.String("source", raw.Source),
				zap.String("symbol", raw.Symbol),
				zap.Error(core.ErrInvalidSignal),
			)
			continue
		}
		raw = raw.Clamped()

		// History keeps every well-formed signal; the quality gate only
		// controls entity creation.
		e.history.Append(raw)

		c := filter.Derive(raw)
		if !e.filter.Accept(c) {
			res.Skipped++
			e.metrics.RecordSkipped("quality")
			continue
		}
		candidates = append(candidates, c)
	}

	deduped := dedup.Dedupe(candidates)
	res.Skipped += len(candidates) - len(deduped)
	for i := len(deduped); i < len(candidates); i++ {
		e.metrics.RecordSkipped("duplicate_signal")
	}

	for _, group := range groupBySymbol(deduped) {
		p := mergeCandidates(group)
		switch err := e.addPendingLocked(ctx, &p); {
		case err == nil:
			res.Added++
			e.metrics.RecordIngested(group[0].Source)
		case errors.Is(err, core.ErrDuplicateSymbol):
			res.Skipped++
			e.metrics.RecordSkipped("duplicate_symbol")
		case errors.Is(err, core.ErrRetentionRejected):
			res.AutoRejected++
			e.metrics.RecordAutoRejected()
		default:
			e.logger.Warn("storing pending asset failed",
				zap.String("symbol", p.Symbol), zap.Error(err))
			res.Skipped++
		}
	}

	e.updateGauges(ctx)
	return res
}

// AddPending inserts a manually discovered pending asset, subject to the
// same uniqueness and retention rules as ingestion. The ID, discovery
// time, status, and derived fields are assigned here.
func (e *Engine) AddPending(ctx context.Context, p core.PendingAsset) (*core.PendingAsset, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.addPendingLocked(ctx, &p); err != nil {
		return nil, err
	}
	e.updateGauges(ctx)
	return &p, nil
}

// addPendingLocked applies the uniqueness check and the inline retention
// check, then stores the entity. One live entity per symbol, ever.
func (e *Engine) addPendingLocked(ctx context.Context, p *core.PendingAsset) error {
	live, err := e.liveSymbolLocked(ctx, p.Symbol)
	if err != nil {
		return err
	}
	if live {
		return core.ErrDuplicateSymbol
	}

	p.ID = uuid.NewString()
	p.DiscoveredAt = e.now()
	p.Status = core.StatusPending
	p.Recompute()

	// Inline retention: an entity born on watch without qualifying
	// criteria is refused, not stored.
	if e.retention.ShouldEvict(p.Scorecard()) {
		e.archivePending(ctx, *p, archive.ReasonEvicted)
		e.logger.Debug("candidate refused by retention",
			zap.String("symbol", p.Symbol),
			zap.Int("total_score", p.TotalScore),
		)
		return core.ErrRetentionRejected
	}

	return e.store.PutPending(ctx, *p)
}

// Validate computes the cross-source view for a symbol from the signal
// history. Returns nil when no signal is inside the retention window.
func (e *Engine) Validate(ctx context.Context, symbol string) *core.ValidatedSignal {
	vs := e.validator.Validate(symbol, e.history.BySymbol(symbol))
	if vs != nil && len(vs.ConflictingSignals) > 0 {
		e.metrics.RecordConflict()
	}
	return vs
}

// Approve transitions a pending asset to approved and creates the
// confirmed asset. The merged scores are recomputed first; a result that
// lands on watch without retention criteria is refused with
// ErrRetentionRejected and the pending row stays pending.
func (e *Engine) Approve(ctx context.Context, pendingID string, ov ApproveOverrides) (*core.Asset, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.store.PendingByID(ctx, pendingID)
	if err != nil {
		return nil, err
	}
	if !p.Live() {
		return nil, core.ErrPendingNotFound
	}

	now := e.now()
	a := core.Asset{
		ID:             uuid.NewString(),
		Symbol:         p.Symbol,
		Kind:           p.Kind,
		MemeScore:      p.MemeScore,
		PoliticalScore: ov.PoliticalScore,
		EarningsScore:  ov.EarningsScore,
		Sources:        append([]string(nil), p.Sources...),
		UnusualVolume:  p.UnusualVolume,
		PoliticalTrade: p.PoliticalTrade || ov.PoliticalScore > 0,
		EarningsBased:  p.EarningsBased || ov.EarningsScore > 0,
		Confidence:     p.Confidence,
		Visibility:     core.VisibilityVisible,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	a.Recompute()

	if e.retention.ShouldEvict(a.Scorecard()) {
		return nil, core.ErrRetentionRejected
	}

	if err := e.store.PutAsset(ctx, a); err != nil {
		return nil, err
	}

	p.Status = core.StatusApproved
	if err := e.store.PutPending(ctx, *p); err != nil {
		return nil, err
	}

	e.logger.Info("pending asset approved",
		zap.String("symbol", a.Symbol),
		zap.Int("total_score", a.TotalScore),
		zap.String("recommendation", string(a.Recommendation)),
	)
	e.updateGauges(ctx)
	return &a, nil
}

// Reject marks a pending asset rejected. The row is kept for audit but
// leaves every listing.
func (e *Engine) Reject(ctx context.Context, pendingID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.store.PendingByID(ctx, pendingID)
	if err != nil {
		return err
	}
	if !p.Live() {
		return core.ErrPendingNotFound
	}

	p.Status = core.StatusRejected
	if err := e.store.PutPending(ctx, *p); err != nil {
		return err
	}

	e.archivePending(ctx, *p, archive.ReasonRejected)
	e.logger.Info("pending asset rejected", zap.String("symbol", p.Symbol))
	e.updateGauges(ctx)
	return nil
}

// UpdateAssetScores mutates a confirmed asset's sub-scores and
// recomputes its tier. An asset that degrades to an unqualified on-watch
// tier is deleted rather than updated, surfaced as ErrRetentionRejected.
func (e *Engine) UpdateAssetScores(ctx context.Context, assetID string, memeScore, politicalScore, earningsScore int) (*core.Asset, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	a, err := e.store.AssetByID(ctx, assetID)
	if err != nil {
		return nil, err
	}

	a.MemeScore = memeScore
	a.PoliticalScore = politicalScore
	a.EarningsScore = earningsScore
	a.UpdatedAt = e.now()
	a.Recompute()

	if e.retention.ShouldEvict(a.Scorecard()) {
		if err := e.store.DeleteAsset(ctx, a.ID); err != nil {
			return nil, err
		}
		e.archiveAsset(ctx, *a, archive.ReasonEvicted)
		e.metrics.RecordEviction("asset")
		e.updateGauges(ctx)
		return nil, core.ErrRetentionRejected
	}

	if err := e.store.PutAsset(ctx, *a); err != nil {
		return nil, err
	}
	return a, nil
}

// Sweep runs a retention sweep over the whole store.
func (e *Engine) Sweep(ctx context.Context) (SweepResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sweepLocked(ctx)
}

func (e *Engine) sweepLocked(ctx context.Context) (SweepResult, error) {
	swept, err := e.retention.Sweep(ctx, e.store)
	if err != nil {
		return SweepResult{}, err
	}

	for _, p := range swept.EvictedPending {
		e.archivePending(ctx, p, archive.ReasonEvicted)
		e.metrics.RecordEviction("pending")
	}
	for _, a := range swept.EvictedConfirmed {
		e.archiveAsset(ctx, a, archive.ReasonEvicted)
		e.metrics.RecordEviction("asset")
	}

	return SweepResult{
		EvictedPending:   len(swept.EvictedPending),
		EvictedConfirmed: len(swept.EvictedConfirmed),
	}, nil
}

// ListPending returns live pending assets sorted by total score, then
// symbol. Rejected and approved rows are audit history and excluded.
func (e *Engine) ListPending(ctx context.Context) ([]core.PendingAsset, error) {
	all, err := e.store.ListPending(ctx)
	if err != nil {
		return nil, err
	}

	live := all[:0]
	for _, p := range all {
		if p.Live() {
			live = append(live, p)
		}
	}
	sort.Slice(live, func(i, j int) bool {
		if live[i].TotalScore != live[j].TotalScore {
			return live[i].TotalScore > live[j].TotalScore
		}
		return live[i].Symbol < live[j].Symbol
	})
	return live, nil
}

// ListAssets returns confirmed assets sorted by total score, then
// symbol.
func (e *Engine) ListAssets(ctx context.Context) ([]core.Asset, error) {
	assets, err := e.store.ListAssets(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(assets, func(i, j int) bool {
		if assets[i].TotalScore != assets[j].TotalScore {
			return assets[i].TotalScore > assets[j].TotalScore
		}
		return assets[i].Symbol < assets[j].Symbol
	})
	return assets, nil
}

// UnreadAlerts returns visible confirmed assets at or above the alert
// floor whose alert has not been read.
func (e *Engine) UnreadAlerts(ctx context.Context) ([]core.Asset, error) {
	assets, err := e.ListAssets(ctx)
	if err != nil {
		return nil, err
	}

	var alerts []core.Asset
	for _, a := range assets {
		if a.TotalScore >= alertScoreFloor && !a.AlertSent && a.Visibility != core.VisibilityHidden {
			alerts = append(alerts, a)
		}
	}
	return alerts, nil
}

// MarkAlertRead marks an asset's alert as read. Idempotent: marking an
// already-read alert is not an error.
func (e *Engine) MarkAlertRead(ctx context.Context, assetID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	a, err := e.store.AssetByID(ctx, assetID)
	if err != nil {
		return err
	}
	if a.AlertSent {
		return nil
	}

	a.AlertSent = true
	a.UpdatedAt = e.now()
	return e.store.PutAsset(ctx, *a)
}

// SetVisibility toggles whether an asset appears in listings and alerts.
func (e *Engine) SetVisibility(ctx context.Context, assetID string, v core.Visibility) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	a, err := e.store.AssetByID(ctx, assetID)
	if err != nil {
		return err
	}

	a.Visibility = v
	a.UpdatedAt = e.now()
	return e.store.PutAsset(ctx, *a)
}

// DeleteAsset removes a confirmed asset explicitly.
func (e *Engine) DeleteAsset(ctx context.Context, assetID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.store.DeleteAsset(ctx, assetID); err != nil {
		return err
	}
	e.updateGauges(ctx)
	return nil
}

// liveSymbolLocked reports whether a live pending or confirmed entity
// already occupies the symbol.
func (e *Engine) liveSymbolLocked(ctx context.Context, symbol string) (bool, error) {
	pending, err := e.store.ListPending(ctx)
	if err != nil {
		return false, err
	}
	for _, p := range pending {
		if p.Symbol == symbol && p.Live() {
			return true, nil
		}
	}

	assets, err := e.store.ListAssets(ctx)
	if err != nil {
		return false, err
	}
	for _, a := range assets {
		if a.Symbol == symbol {
			return true, nil
		}
	}
	return false, nil
}

func (e *Engine) archivePending(ctx context.Context, p core.PendingAsset, reason archive.Reason) {
	if e.audit == nil {
		return
	}
	if err := e.audit.Archive(ctx, archive.PendingRecord(p, reason)); err != nil {
		e.logger.Warn("audit archive failed",
			zap.String("symbol", p.Symbol), zap.Error(err))
	}
}

func (e *Engine) archiveAsset(ctx context.Context, a core.Asset, reason archive.Reason) {
	if e.audit == nil {
		return
	}
	if err := e.audit.Archive(ctx, archive.AssetRecord(a, reason)); err != nil {
		e.logger.Warn("audit archive failed",
			zap.String("symbol", a.Symbol), zap.Error(err))
	}
}

func (e *Engine) updateGauges(ctx context.Context) {
	if e.metrics == nil {
		return
	}
	if pending, err := e.store.ListPending(ctx); err == nil {
		live := 0
		for _, p := range pending {
			if p.Live() {
				live++
			}
		}
		e.metrics.SetTracked("pending", live)
	}
	if assets, err := e.store.ListAssets(ctx); err == nil {
		e.metrics.SetTracked("asset", len(assets))
	}
}

// groupBySymbol partitions deduped candidates by symbol, preserving the
// deterministic dedup order inside each group and ordering groups by
// symbol.
func groupBySymbol(candidates []core.CandidateSignal) [][]core.CandidateSignal {
	bySymbol := make(map[string][]core.CandidateSignal)
	var symbols []string
	for _, c := range candidates {
		if _, ok := bySymbol[c.Symbol]; !ok {
			symbols = append(symbols, c.Symbol)
		}
		bySymbol[c.Symbol] = append(bySymbol[c.Symbol], c)
	}
	sort.Strings(symbols)

	groups := make([][]core.CandidateSignal, 0, len(symbols))
	for _, s := range symbols {
		groups = append(groups, bySymbol[s])
	}
	return groups
}

// mergeCandidates folds one symbol's candidates (one per source after
// dedup) into a single pending asset: best sub-scores, union of flags,
// highest provenance confidence.
func mergeCandidates(group []core.CandidateSignal) core.PendingAsset {
	first := group[0]
	p := core.PendingAsset{
		Symbol:  first.Symbol,
		Kind:    first.Kind,
		Summary: first.Summary,
	}

	seen := make(map[string]struct{})
	for _, c := range group {
		if c.MemeScore > p.MemeScore {
			p.MemeScore = c.MemeScore
		}
		if c.PoliticalScore > p.PoliticalScore {
			p.PoliticalScore = c.PoliticalScore
		}
		if c.EarningsScore > p.EarningsScore {
			p.EarningsScore = c.EarningsScore
		}
		if c.Confidence > p.Confidence {
			p.Confidence = c.Confidence
		}
		p.UnusualVolume = p.UnusualVolume || c.UnusualVolume
		p.PoliticalTrade = p.PoliticalTrade || c.PoliticalTrade
		p.EarningsBased = p.EarningsBased || c.EarningsBased

		if _, ok := seen[c.Source]; !ok {
			seen[c.Source] = struct{}{}
			p.Sources = append(p.Sources, c.Source)
		}
	}
	sort.Strings(p.Sources)
	return p
}
