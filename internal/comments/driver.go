package comments

import (
	"context"
	"log/slog"
	"time"

	"igcomments/internal/config"
	"igcomments/internal/models"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// State is a phase of the scroll driver
type State int

const (
	StateInitializing State = iota
	StateExtracting
	StateScrolling
	StateWaitingForGrowth
	StateDone
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateExtracting:
		return "extracting"
	case StateScrolling:
		return "scrolling"
	case StateWaitingForGrowth:
		return "waiting-for-growth"
	case StateDone:
		return "done"
	}
	return "unknown"
}

// StopReason explains why a run ended
type StopReason string

const (
	StopBudgetExhausted StopReason = "budget-exhausted"
	StopNoGrowth        StopReason = "no-growth"
	StopBottomReached   StopReason = "bottom-reached"
	StopNoScrollRegion  StopReason = "no-scroll-region"
	StopCancelled       StopReason = "cancelled"
)

// ScrollState is reset at the start of every iteration, except ConsecutiveNoGrowth
// which carries over.
type ScrollState struct {
	ContainerHeight       int
	RecordCountBeforePass int
	ConsecutiveNoGrowth   int
}

// Result is the outcome of one run
type Result struct {
	Records      []models.CommentRecord
	Stop         StopReason
	Iterations   int
	Passes       int
	FailedPasses int
}

// WaitFunc blocks for d or until ctx is done.
type WaitFunc func(ctx context.Context, d time.Duration) error

// Sleep is the default WaitFunc
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Driver repeatedly scrolls a comment region and extracts what it renders. It owns the
// accumulated records and the dedup set for the lifetime of one run.
type Driver struct {
	page      Page
	extractor *Extractor
	cfg       config.ScrollConfig

	// Wait is swapped in tests to skip the render delays.
	Wait   WaitFunc
	Logger *slog.Logger

	state   State
	scroll  ScrollState
	seen    *Deduplicator
	records []models.CommentRecord
	result  Result
	// heightKnown is false until ContainerHeight holds a real measurement for this iteration.
	heightKnown bool
}

// growth is the verdict of one wait-for-growth phase.
type growth int

const (
	growthUnknown growth = iota // no usable measurement
	growthNone
	growthSeen
)

func NewDriver(page Page, extractor *Extractor, cfg config.ScrollConfig) *Driver {
	return &Driver{
		page:      page,
		extractor: extractor,
		cfg:       cfg,
		Wait:      Sleep,
		Logger:    slog.Default(),
		seen:      NewDeduplicator(),
	}
}

// State returns the phase the driver is in
func (d *Driver) State() State {
	return d.state
}

// Run performs one full extraction run. Every call starts from an empty record and key
// set. On cancellation the records committed so far are returned together with the
// context error.
func (d *Driver) Run(ctx context.Context) (*Result, error) {
	ctx, span := tracer.Start(ctx, "Driver.Run")
	defer span.End()

	d.state = StateInitializing
	d.scroll = ScrollState{}
	d.seen = NewDeduplicator()
	d.records = nil
	d.result = Result{}
	d.heightKnown = false
	hasRegion := d.page.HasRegion(ctx)
	d.Logger.Info("starting comment extraction", "iterations", d.cfg.Iterations, "scroll_region", hasRegion)

	d.extractPass(ctx, -1)

	var stop StopReason
	var err error
	if hasRegion {
		stop, err = d.scrollRegion(ctx)
	} else {
		d.Logger.Warn("no scrollable comment region found, scrolling page blindly")
		stop, err = d.scrollBlind(ctx)
	}

	d.state = StateDone
	d.result.Records = d.records
	d.result.Stop = stop

	span.SetAttributes(
		attribute.String("stop", string(stop)),
		attribute.Int("records", len(d.records)),
		attribute.Int("iterations", d.result.Iterations),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "run cancelled")
	}
	d.Logger.Info("comment extraction finished", "records", len(d.records), "stop", stop, "iterations", d.result.Iterations)

	res := d.result
	return &res, err
}

func (d *Driver) scrollRegion(ctx context.Context) (StopReason, error) {
	n := d.cfg.Iterations
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return StopCancelled, err
		}
		d.result.Iterations++

		stop, err := d.iterate(ctx, i, n)
		if err != nil {
			return StopCancelled, err
		}
		if stop != "" {
			return stop, nil
		}
	}
	return StopBudgetExhausted, nil
}

func (d *Driver) iterate(ctx context.Context, i, n int) (StopReason, error) {
	ctx, span := tracer.Start(ctx, "Driver.iterate")
	defer span.End()
	span.SetAttributes(attribute.Int("iteration", i))

	log := d.Logger.With("iteration", i+1, "of", n)

	before, ok := d.measure(ctx, log)
	d.scroll.ContainerHeight = before.ScrollHeight
	d.heightKnown = ok
	d.scroll.RecordCountBeforePass = len(d.records)

	d.state = StateScrolling
	if err := d.page.ScrollToEnd(ctx); err != nil {
		log.Warn("scroll command failed", "error", err)
	}

	d.state = StateWaitingForGrowth
	g, err := d.waitForGrowth(ctx, log)
	if err != nil {
		return "", err
	}

	switch g {
	case growthSeen:
		d.scroll.ConsecutiveNoGrowth = 0
	case growthNone:
		d.scroll.ConsecutiveNoGrowth++
		log.Info("content did not grow", "consecutive", d.scroll.ConsecutiveNoGrowth)
		if float64(i) > float64(n)*d.cfg.EarlyStopAfter {
			return StopNoGrowth, nil
		}
	default:
		log.Info("growth unknown, region could not be measured")
	}

	if !d.extractPass(ctx, i) {
		return "", nil
	}
	log.Info("scroll pass complete",
		"new_records", len(d.records)-d.scroll.RecordCountBeforePass,
		"total", len(d.records))

	after, ok := d.measure(ctx, log)
	if ok && after.AtBottom(d.cfg.BottomTolerance) && float64(i) > float64(n)*d.cfg.BottomStopAfter {
		log.Info("reached bottom of comments")
		return StopBottomReached, nil
	}
	return "", nil
}

// waitForGrowth settles, then retries once, then scrolls once more before giving up.
// It reports growthUnknown only when no measurement could be compared.
func (d *Driver) waitForGrowth(ctx context.Context, log *slog.Logger) (growth, error) {
	verdict := growthUnknown
	check := func() bool {
		switch d.checkGrowth(ctx, log) {
		case growthSeen:
			verdict = growthSeen
			return true
		case growthNone:
			verdict = growthNone
		}
		return false
	}

	if err := d.Wait(ctx, d.cfg.SettleDelay); err != nil {
		return growthUnknown, err
	}
	if check() {
		return verdict, nil
	}

	log.Debug("no growth yet, retrying")
	if err := d.Wait(ctx, d.cfg.RetryDelay); err != nil {
		return growthUnknown, err
	}
	if check() {
		return verdict, nil
	}

	if err := d.page.ScrollToEnd(ctx); err != nil {
		log.Warn("extra scroll command failed", "error", err)
	}
	if err := d.Wait(ctx, d.cfg.ExtraScrollDelay); err != nil {
		return growthUnknown, err
	}
	check()
	return verdict, nil
}

// checkGrowth compares the region height with ContainerHeight. When the pre-scroll
// measurement failed, the first successful one becomes the reference instead.
func (d *Driver) checkGrowth(ctx context.Context, log *slog.Logger) growth {
	ext, ok := d.measure(ctx, log)
	if !ok {
		return growthUnknown
	}
	if !d.heightKnown {
		d.scroll.ContainerHeight = ext.ScrollHeight
		d.heightKnown = true
		return growthUnknown
	}
	if ext.ScrollHeight != d.scroll.ContainerHeight {
		return growthSeen
	}
	return growthNone
}

func (d *Driver) scrollBlind(ctx context.Context) (StopReason, error) {
	d.state = StateScrolling
	for i := 0; i < d.cfg.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			return StopCancelled, err
		}
		d.result.Iterations++

		if err := d.page.ScrollPageBy(ctx, d.cfg.BlindScrollStep); err != nil {
			d.Logger.Warn("page scroll failed", "iteration", i+1, "error", err)
		}
		if err := d.Wait(ctx, d.cfg.BlindScrollDelay); err != nil {
			return StopCancelled, err
		}
	}
	return StopNoScrollRegion, nil
}

// extractPass runs one atomic pass. Its records and keys are committed only when the
// whole pass succeeds, which it reports.
func (d *Driver) extractPass(ctx context.Context, i int) bool {
	d.state = StateExtracting
	d.result.Passes++

	snap, err := d.page.Snapshot(ctx)
	if err == nil {
		var res *PassResult
		res, err = d.extractor.Extract(ctx, snap, d.seen)
		if err == nil {
			d.seen.Merge(res.Keys)
			d.records = append(d.records, res.Records...)
			d.Logger.Debug("extraction pass", "iteration", i+1, "strategy", res.Strategy,
				"accepted", len(res.Records), "skipped", res.Skipped)
			return true
		}
	}

	d.result.FailedPasses++
	d.Logger.Warn("extraction pass failed", "iteration", i+1, "error", err)
	return false
}

// measure reads the region extent. ok is false when the page could not be measured;
// the zero Extent returned then carries no information.
func (d *Driver) measure(ctx context.Context, log *slog.Logger) (Extent, bool) {
	ext, err := d.page.Measure(ctx)
	if err != nil {
		log.Warn("could not measure comment region", "error", err)
		return Extent{}, false
	}
	return ext, true
}
