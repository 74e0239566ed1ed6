// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"agent-insights-go/internal/actionable"
	"agent-insights-go/internal/aggregator"
	"agent-insights-go/internal/config"
	"agent-insights-go/internal/impact"
	"agent-insights-go/internal/logger"
	"agent-insights-go/internal/metrics"
	"agent-insights-go/internal/series"
	"agent-insights-go/internal/source"
	"agent-insights-go/internal/types"
	"agent-insights-go/internal/window"
)

var ErrUnknownChannel = errors.New("unknown channel")

// Input is everything one dashboard is computed from.
type Input struct {
	Channel   types.Channel
	Window    window.Window
	Now       time.Time
	Metric    series.Metric
	Baseline  impact.Baseline
	Constants config.Constants
}

// Build computes a dashboard from raw records. It is a pure function of its
// arguments: malformed records are dropped and counted, an unknown window
// yields an empty dashboard.
func Build[R types.Record](records []R, in Input) types.Dashboard {
	valid, dropped := types.Partition(records)
	inWindow := window.Filter(valid, in.Window, in.Now)

	c := in.Constants
	kpis := aggregator.Aggregate(inWindow, aggregator.Options{
		QualifyingOutcomes: c.QualifyingOutcomes,
		ResponseTime:       c.ResponseTime(in.Channel),
	})
	dist := aggregator.Distribute(inWindow, aggregator.FieldOutcome, c.CanonicalOrder(in.Channel), c.Palette)
	snapshot := impact.Estimate(kpis, dist, in.Baseline, c.Impact)

	metric := in.Metric
	if metric == "" {
		metric = series.MetricCount
	}

	return types.Dashboard{
		Channel:      in.Channel,
		Window:       string(in.Window),
		GeneratedAt:  in.Now,
		KPIs:         kpis,
		Series:       series.Bucketize(inWindow, in.Window, in.Now, metric),
		Distribution: dist,
		Impact:       snapshot,
		Insights:     actionable.Evaluate(kpis, snapshot, c.Thresholds),
		Dropped:      dropped,
	}
}

// unknownWindowLabel stands in for caller-supplied window names on metrics so
// label cardinality stays bounded.
const unknownWindowLabel = "unknown"

// Request asks for one client's dashboard.
type Request struct {
	ClientID string
	Channel  types.Channel
	Window   window.Window
	Metric   series.Metric
	Baseline impact.Baseline
}

// Service fetches records from a source and builds dashboards. Calendar
// windows and buckets follow the configured viewer time zone.
type Service struct {
	src       source.Source
	constants config.Constants
	log       *logger.Logger
	metrics   *metrics.Metrics
	timeout   time.Duration
	loc       *time.Location

	// Now is the clock; tests replace it.
	Now func() time.Time
}

type Option func(*Service)

func WithLogger(l *logger.Logger) Option     { return func(s *Service) { s.log = l } }
func WithMetrics(m *metrics.Metrics) Option  { return func(s *Service) { s.metrics = m } }
func WithTimeout(d time.Duration) Option     { return func(s *Service) { s.timeout = d } }
func WithLocation(loc *time.Location) Option { return func(s *Service) { s.loc = loc } }
func WithClock(now func() time.Time) Option  { return func(s *Service) { s.Now = now } }

func NewService(src source.Source, constants config.Constants, opts ...Option) *Service {
	s := &Service{
		src:       src,
		constants: constants,
		log:       logger.Discard(),
		loc:       time.Local,
		Now:       time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Constants returns the business assumptions dashboards are computed with.
func (s *Service) Constants() config.Constants {
	return s.constants
}

// Dashboard fetches the client's records for the channel and builds its dashboard.
func (s *Service) Dashboard(ctx context.Context, req Request) (types.Dashboard, error) {
	if _, ok := types.ParseChannel(string(req.Channel)); !ok {
		return types.Dashboard{}, fmt.Errorf("%w: %q", ErrUnknownChannel, req.Channel)
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	now := s.Now().In(s.loc)
	in := Input{
		Channel:   req.Channel,
		Window:    req.Window,
		Now:       now,
		Metric:    req.Metric,
		Baseline:  req.Baseline,
		Constants: s.constants,
	}
	since := req.Window.Since(now)

	log := s.log.WithField("component", "pipeline").
		WithField("client_id", req.ClientID).
		WithField("channel", req.Channel).
		WithField("window", req.Window)

	var d types.Dashboard
	switch req.Channel {
	case types.ChannelVoice:
		calls, err := fetch(s, ctx, req, since, s.src.FetchCalls)
		if err != nil {
			log.WithError(err).Error("fetch records failed")
			return types.Dashboard{}, err
		}
		d = Build(calls, in)
	case types.ChannelEmail:
		emails, err := fetch(s, ctx, req, since, s.src.FetchEmails)
		if err != nil {
			log.WithError(err).Error("fetch records failed")
			return types.Dashboard{}, err
		}
		d = Build(emails, in)
	}

	d.ClientID = req.ClientID
	if d.Dropped > 0 {
		log.WithField("dropped", d.Dropped).Warn("malformed records excluded")
	}
	windowLabel := string(req.Window)
	if !req.Window.Known() {
		log.Warn("unknown window, returning empty dashboard")
		windowLabel = unknownWindowLabel
	}
	s.metrics.ObserveDashboard(string(req.Channel), windowLabel, d.Dropped)
	log.WithField("total", d.KPIs.Total).Debug("dashboard built")
	return d, nil
}

func fetch[R types.Record](s *Service, ctx context.Context, req Request, since time.Time,
	get func(context.Context, string, time.Time) ([]R, error)) ([]R, error) {
	start := time.Now()
	records, err := get(ctx, req.ClientID, since)
	s.metrics.ObserveFetch(string(req.Channel), start, err)
	if err != nil {
		return nil, fmt.Errorf("fetch %s records: %w", req.Channel, err)
	}
	return records, nil
}
