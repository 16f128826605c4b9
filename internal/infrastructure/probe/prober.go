package probe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/GriffinCanCode/microshell/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/microshell/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/microshell/internal/shared/types"
)

// Status is the outcome of one probe
type Status string

const (
	StatusUp      Status = "up"
	StatusDown    Status = "down"
	StatusSkipped Status = "skipped"
)

// ErrBadStatus is returned for 4xx/5xx entry responses
var ErrBadStatus = errors.New("entry returned error status")

// Result describes one sub-application entry
type Result struct {
	App        string           `json:"app"`
	Entry      string           `json:"entry"`
	Status     Status           `json:"status"`
	StatusCode int              `json:"status_code,omitempty"`
	Title      string           `json:"title,omitempty"`
	Scripts    int              `json:"scripts"`
	Styles     int              `json:"styles"`
	LatencyMS  int64            `json:"latency_ms"`
	Breaker    resilience.State `json:"breaker"`
	Error      string           `json:"error,omitempty"`
	CheckedAt  time.Time        `json:"checked_at"`
}

// Options configures the prober
type Options struct {
	Timeout     time.Duration
	Retries     int
	Concurrency int
	Breaker     resilience.Settings
	Logger      *zap.Logger
	// OnResult observes every result, e.g. for metrics
	OnResult func(r Result, elapsed time.Duration)
}

// Prober fetches sub-application entries
type Prober struct {
	client   *resty.Client
	breakers *resilience.Group
	opts     Options
}

// New creates a prober
func New(opts Options) *Prober {
	if opts.Timeout <= 0 {
		opts.Timeout = 3 * time.Second
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Breaker.ReadyToTrip == nil {
		opts.Breaker.ReadyToTrip = func(counts resilience.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		}
	}
	if opts.Breaker.Timeout == 0 {
		opts.Breaker.Timeout = 30 * time.Second
	}
	if opts.Breaker.IsSuccessful == nil {
		// the caller giving up says nothing about the entry
		opts.Breaker.IsSuccessful = func(err error) bool {
			return errors.Is(err, context.Canceled)
		}
	}
	if opts.Breaker.OnStateChange == nil {
		logger := opts.Logger
		opts.Breaker.OnStateChange = func(app string, from, to resilience.State) {
			logger.Warn("Entry breaker state changed",
				zap.String("app", app), zap.Stringer("from", from), zap.Stringer("to", to))
		}
	}

	client := resty.New().
		SetTimeout(opts.Timeout).
		SetRetryCount(opts.Retries).
		SetRetryWaitTime(50*time.Millisecond).
		SetRetryMaxWaitTime(time.Second).
		SetHeader("User-Agent", "microshell-probe/1.0").
		SetHeader("Accept", "text/html,*/*").
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= 500
		})

	return &Prober{
		client:   client,
		breakers: resilience.NewGroup(opts.Breaker),
		opts:     opts,
	}
}

// Probe checks every sub-application concurrently. Results keep the order
// of apps; the main application has no entry and is skipped.
func (p *Prober) Probe(ctx context.Context, apps []types.AppDescriptor) []Result {
	subs := make([]types.AppDescriptor, 0, len(apps))
	for _, app := range apps {
		if !app.IsMain() && app.Entry != "" {
			subs = append(subs, app)
		}
	}

	results := make([]Result, len(subs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Concurrency)

	for i, app := range subs {
		g.Go(func() error {
			results[i] = p.ProbeOne(gctx, app)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// ProbeOne checks a single sub-application
func (p *Prober) ProbeOne(ctx context.Context, app types.AppDescriptor) Result {
	start := time.Now()
	breaker := p.breakers.Get(app.ID)
	res := Result{App: app.ID, Entry: app.Entry, CheckedAt: start}

	page, err := resilience.Execute(breaker, func() (entryPage, error) {
		return p.fetch(ctx, app.Entry)
	})
	elapsed := time.Since(start)
	res.LatencyMS = elapsed.Milliseconds()
	res.StatusCode = page.statusCode
	res.Breaker = breaker.State()

	switch {
	case errors.Is(err, resilience.ErrCircuitOpen), errors.Is(err, resilience.ErrTooManyRequests):
		res.Status = StatusSkipped
		res.Error = err.Error()
	case err != nil:
		res.Status = StatusDown
		res.Error = err.Error()
		p.opts.Logger.Warn("Entry probe failed",
			zap.String("app", app.ID), zap.String("entry", app.Entry), zap.Error(err))
	default:
		res.Status = StatusUp
		res.Title = page.title
		res.Scripts = page.scripts
		res.Styles = page.styles
	}

	if p.opts.OnResult != nil {
		p.opts.OnResult(res, elapsed)
	}
	return res
}

// Breakers returns the breaker state per application
func (p *Prober) Breakers() map[string]resilience.State {
	return p.breakers.States()
}

type entryPage struct {
	statusCode int
	title      string
	scripts    int
	styles     int
}

func (p *Prober) fetch(ctx context.Context, entry string) (entryPage, error) {
	req := p.client.R().SetContext(ctx)
	tracing.Inject(ctx, req.Header)
	resp, err := req.Get(entry)
	if err != nil {
		return entryPage{}, fmt.Errorf("failed to fetch entry: %w", err)
	}

	page := entryPage{statusCode: resp.StatusCode()}
	if resp.StatusCode() >= 400 {
		return page, fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		return page, fmt.Errorf("failed to parse entry: %w", err)
	}

	page.title = strings.TrimSpace(doc.Find("title").First().Text())
	page.scripts = doc.Find("script[src]").Length()
	page.styles = doc.Find(`link[rel="stylesheet"]`).Length()
	return page, nil
}
