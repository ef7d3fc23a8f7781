package config

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// State is the position of a Resolver in its state machine.
type State int

const (
	StateUnresolved State = iota
	StateModeSelected
	StateWindowResolved
	StateComplete
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUnresolved:
		return "unresolved"
	case StateModeSelected:
		return "mode_selected"
	case StateWindowResolved:
		return "window_resolved"
	case StateComplete:
		return "complete"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ResolverConfig wires the collaborators of a Resolver. Zero values are
// replaced with defaults by NewResolver.
type ResolverConfig struct {
	// Now returns the wall-clock time. It is called once per resolution.
	Now func() time.Time

	// Lookback computes the realtime window.
	Lookback LookbackFunc

	// Logger receives progress and the resolved summary.
	Logger *slog.Logger

	// Tracer records one span per resolution stage.
	Tracer trace.Tracer
}

// Resolver turns a configuration Source into a frozen *Config. A Resolver
// may be reused; concurrent calls to Resolve are serialized.
type Resolver struct {
	now      func() time.Time
	lookback LookbackFunc
	logger   *slog.Logger
	tracer   trace.Tracer

	mu    sync.Mutex
	state State
}

// NewResolver creates a Resolver.
func NewResolver(cfg ResolverConfig) *Resolver {
	r := &Resolver{
		now:      cfg.Now,
		lookback: cfg.Lookback,
		logger:   cfg.Logger,
		tracer:   cfg.Tracer,
	}
	if r.now == nil {
		r.now = time.Now
	}
	if r.lookback == nil {
		r.lookback = CalculateLookbackWindow
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.tracer == nil {
		r.tracer = noop.NewTracerProvider().Tracer("forcing")
	}
	return r
}

// State returns the state reached by the most recent resolution.
func (r *Resolver) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// builder is the mutable working state of one resolution.
type builder struct {
	ctx      context.Context
	r        reader
	logger   *slog.Logger
	lookback LookbackFunc

	reference         time.Time
	mode              RunMode
	inputs            []ForcingInput
	outputFrequency   int
	outputDir         string
	lookBack          int
	forecastFrequency int
	forecastShift     int
	window            ProcessingWindow
	geogrid           string
}

// stage is one named step of the resolution pass.
type stage struct {
	name string
	run  func() error
	// next is the state entered once the stage succeeds, or -1 to stay.
	next State
}

// Resolve reads, validates and resolves every field of src. It returns a
// frozen *Config only when every stage succeeds; the first failure is
// returned as a *FieldError and the resolver enters StateFailed.
func (r *Resolver) Resolve(ctx context.Context, src Source) (*Config, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = StateUnresolved

	ctx, span := r.tracer.Start(ctx, "config.resolve", trace.WithAttributes(attribute.String("config.source", src.Name())))
	defer span.End()

	b := &builder{
		ctx:       ctx,
		r:         reader{src: src},
		logger:    r.logger.With("source", src.Name()),
		lookback:  r.lookback,
		reference: r.now().UTC(),
	}

	stages := []stage{
		{name: SectionInput, run: b.readInput, next: -1},
		{name: SectionOutput, run: b.readOutput, next: -1},
		{name: "mode", run: b.selectMode, next: StateModeSelected},
		{name: "window", run: b.resolveWindow, next: -1},
		{name: "forecast", run: b.resolveForecast, next: StateWindowResolved},
		{name: SectionGeospatial, run: b.readGeospatial, next: -1},
		{name: SectionRegridding, run: b.readRegridding, next: -1},
		{name: SectionInterpolation, run: b.readInterpolation, next: -1},
		{name: "lookback", run: b.confirmLookback, next: -1},
	}

	for _, st := range stages {
		if err := r.runStage(ctx, b, st); err != nil {
			r.state = StateFailed
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			span.SetAttributes(attribute.String("config.error_kind", KindOf(err).String()))
			b.logger.ErrorContext(ctx, "configuration resolution failed", "error", err, "kind", KindOf(err).String())
			return nil, err
		}
		if st.next >= 0 {
			r.state = st.next
		}
	}

	cfg := b.freeze()
	r.state = StateComplete
	span.SetAttributes(
		attribute.String("config.mode", cfg.mode.String()),
		attribute.Int("config.num_inputs", len(cfg.inputs)),
		attribute.Int("config.num_output_steps", cfg.window.NumOutputSteps),
	)
	span.SetStatus(codes.Ok, "")
	b.logSummary()
	return cfg, nil
}

func (r *Resolver) runStage(ctx context.Context, b *builder, st stage) error {
	_, span := r.tracer.Start(ctx, "config.stage."+st.name)
	defer span.End()

	if err := st.run(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	b.logger.DebugContext(ctx, "resolved configuration stage", "stage", st.name)
	return nil
}

// selectMode derives the run mode from RetroFlag and, if needed, LookBack.
func (b *builder) selectMode() error {
	retro, err := b.r.intValue(keyRetroFlag, flag01)
	if err != nil {
		return err
	}
	switch {
	case retro == 1:
		b.mode = ModeRetrospective
	default:
		minutes, ok, err := b.readLookBack()
		if err != nil {
			return err
		}
		if ok {
			b.mode = ModeRealtime
			b.lookBack = minutes
		} else {
			b.mode = ModeReforecast
		}
	}
	b.window.OutputStepMinutes = b.outputFrequency
	b.logger.InfoContext(b.ctx, "selected run mode", "mode", b.mode.String())
	return nil
}

// resolveWindow fixes the processing window bounds for the selected mode.
func (b *builder) resolveWindow() error {
	switch b.mode {
	case ModeRetrospective:
		return b.retrospectiveWindow()
	case ModeReforecast:
		return b.reforecastWindow()
	case ModeRealtime:
		return b.realtimeWindow()
	default:
		return newFieldError(KindCrossField, keyRetroFlag.String(), "run mode was not selected")
	}
}

func (b *builder) retrospectiveWindow() error {
	begin, err := b.r.date(keyBDateProc)
	if err != nil {
		return err
	}
	end, err := b.r.date(keyEDateProc)
	if err != nil {
		return err
	}

	switch {
	case !begin.Valid && !end.Valid:
		// Open window: nothing to count.
		b.window.NumOutputSteps = 0
		return nil
	case !begin.Valid:
		return newFieldError(KindCrossField, keyBDateProc.String(), "BDateProc is unset while EDateProc is %s", end)
	case !end.Valid:
		return newFieldError(KindCrossField, keyEDateProc.String(), "EDateProc is unset while BDateProc is %s", begin)
	}
	if !end.Time.After(begin.Time) {
		return newFieldError(KindCrossField, keyEDateProc.String(), "EDateProc %s must be after BDateProc %s", end, begin)
	}

	b.window.Begin, b.window.End = begin, end
	b.window.NumOutputSteps = b.window.Minutes() / b.outputFrequency
	return nil
}

func (b *builder) reforecastWindow() error {
	begin, err := b.r.date(keyRefcstBDateProc)
	if err != nil {
		return err
	}
	if !begin.Valid {
		return newFieldError(KindCrossField, keyRefcstBDateProc.String(), "RefcstBDateProc must be a date when LookBack is %s", Sentinel)
	}
	end, err := b.r.date(keyRefcstEDateProc)
	if err != nil {
		return err
	}
	if !end.Valid {
		return newFieldError(KindCrossField, keyRefcstEDateProc.String(), "RefcstEDateProc must be a date when LookBack is %s", Sentinel)
	}
	if !end.Time.After(begin.Time) {
		return newFieldError(KindCrossField, keyRefcstEDateProc.String(), "RefcstEDateProc %s must be after RefcstBDateProc %s", end, begin)
	}
	b.window.Begin, b.window.End = begin, end

	if err := b.readForecastFrequency(); err != nil {
		return err
	}
	minutes := b.window.Minutes()
	if minutes%b.forecastFrequency != 0 {
		return newFieldError(KindCrossField, keyForecastFrequency.String(), "reforecast window of %d minutes is not an equal multiple of ForecastFrequency %d", minutes, b.forecastFrequency)
	}
	b.window.NumForecasts = minutes / b.forecastFrequency
	return nil
}

func (b *builder) realtimeWindow() error {
	if err := b.readForecastFrequency(); err != nil {
		return err
	}
	shift, err := b.r.intValue(keyForecastShift, nonNegative)
	if err != nil {
		return err
	}
	b.forecastShift = shift
	b.window.Begin, b.window.End = b.computeLookback()
	return nil
}

func (b *builder) computeLookback() (Date, Date) {
	begin, end := b.lookback(LookbackRequest{
		Reference: b.reference,
		LookBack:  b.lookBack,
		Shift:     b.forecastShift,
		Frequency: b.forecastFrequency,
	})
	return NewDate(begin), NewDate(end)
}

// resolveForecast reads the per-source forecast arrays in forecast modes.
func (b *builder) resolveForecast() error {
	if !b.mode.IsForecast() {
		return nil
	}
	return b.readForecastArrays()
}

// confirmLookback recomputes the realtime window as a final check. The
// lookback function is pure and sees the same reference time, so the window
// is unchanged unless a custom LookbackFunc misbehaves.
func (b *builder) confirmLookback() error {
	if b.mode != ModeRealtime {
		return nil
	}
	begin, end := b.computeLookback()
	if begin != b.window.Begin || end != b.window.End {
		b.logger.WarnContext(b.ctx, "lookback window changed on confirmation",
			"begin", begin.String(), "end", end.String(),
			"previous_begin", b.window.Begin.String(), "previous_end", b.window.End.String())
	}
	b.window.Begin, b.window.End = begin, end
	return nil
}

func (b *builder) freeze() *Config {
	inputs := make([]ForcingInput, len(b.inputs))
	copy(inputs, b.inputs)
	return &Config{
		source:            b.r.src.Name(),
		mode:              b.mode,
		inputs:            inputs,
		outputFrequency:   b.outputFrequency,
		outputDir:         b.outputDir,
		lookBack:          b.lookBack,
		hasLookBack:       b.mode == ModeRealtime,
		forecastFrequency: b.forecastFrequency,
		forecastShift:     b.forecastShift,
		window:            b.window,
		geogrid:           b.geogrid,
		reference:         b.reference,
	}
}

func (b *builder) logSummary() {
	attrs := []any{
		"mode", b.mode.String(),
		"begin", b.window.Begin.String(),
		"end", b.window.End.String(),
		"num_output_steps", b.window.NumOutputSteps,
		"num_inputs", len(b.inputs),
	}
	if b.mode == ModeReforecast {
		attrs = append(attrs, "num_forecasts", b.window.NumForecasts)
	}
	b.logger.InfoContext(b.ctx, "resolved processing window", attrs...)
}
