package gateway

import (
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-intake/pkg/catalog"
	"github.com/goliatone/go-intake/pkg/contract"
)

// CatalogProvider supplies the current catalog for label mapping. It is
// satisfied by *catalog.Watcher, so a hot-reloading catalog plugs in without
// extra wiring.
type CatalogProvider interface {
	Catalog() *catalog.Catalog
}

type staticCatalog struct {
	cat *catalog.Catalog
}

func (s staticCatalog) Catalog() *catalog.Catalog { return s.cat }

// Options configures the submission gateway handler.
type Options struct {
	RoutePath      string
	SuccessMessage string
	UnavailableMsg string

	RateLimit  int
	RateWindow time.Duration
	MinDwell   time.Duration

	SpamPhrases []string

	Catalog  CatalogProvider
	Contract *contract.Contract
	Notifier Notifier
	Logger   *zap.Logger
	Now      func() time.Time
}

// OptionFn mutates Options during construction.
type OptionFn func(*Options)

// DefaultOptions returns the gateway defaults: 3 requests per minute per
// client, a 3 second minimum dwell time, the embedded catalog, and the stock
// spam phrase list.
func DefaultOptions() Options {
	return Options{
		RoutePath:      contract.SubmitPath,
		SuccessMessage: "Thanks for reaching out. We'll get back to you within one business day.",
		UnavailableMsg: "We couldn't send your request right now. Please reach out to us by email instead.",
		RateLimit:      3,
		RateWindow:     time.Minute,
		MinDwell:       3 * time.Second,
		SpamPhrases:    DefaultSpamPhrases(),
	}
}

// NewOptions applies option functions over the defaults and normalises the
// result.
func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.RoutePath == "" {
		opts.RoutePath = contract.SubmitPath
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 3
	}
	if opts.RateWindow <= 0 {
		opts.RateWindow = time.Minute
	}
	if opts.MinDwell < 0 {
		opts.MinDwell = 0
	}
	if opts.SpamPhrases == nil {
		opts.SpamPhrases = DefaultSpamPhrases()
	} else {
		opts.SpamPhrases = append([]string(nil), opts.SpamPhrases...)
	}
	if opts.Catalog == nil {
		opts.Catalog = staticCatalog{cat: catalog.Default()}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return opts
}

// WithRoutePath overrides the mount path for RegisterRoutes.
func WithRoutePath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.RoutePath = path
	}
}

// WithSuccessMessage overrides the acknowledgement text returned on accepted
// submissions. Silent accepts return the same text.
func WithSuccessMessage(msg string) OptionFn {
	return func(o *Options) {
		if o == nil || msg == "" {
			return
		}
		o.SuccessMessage = msg
	}
}

// WithUnavailableMessage overrides the fallback text returned when
// notification delivery is not possible.
func WithUnavailableMessage(msg string) OptionFn {
	return func(o *Options) {
		if o == nil || msg == "" {
			return
		}
		o.UnavailableMsg = msg
	}
}

// WithRateLimit sets the per-client request cap and window.
func WithRateLimit(limit int, window time.Duration) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.RateLimit = limit
		o.RateWindow = window
	}
}

// WithMinDwell sets the minimum time a human is assumed to need between
// loading the form and submitting it.
func WithMinDwell(d time.Duration) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.MinDwell = d
	}
}

// WithSpamPhrases replaces the spam phrase denylist.
func WithSpamPhrases(phrases []string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.SpamPhrases = phrases
	}
}

// WithCatalog uses a fixed catalog for label mapping.
func WithCatalog(cat *catalog.Catalog) OptionFn {
	return func(o *Options) {
		if o == nil || cat == nil {
			return
		}
		o.Catalog = staticCatalog{cat: cat}
	}
}

// WithCatalogProvider uses a dynamic catalog source, such as a
// catalog.Watcher.
func WithCatalogProvider(provider CatalogProvider) OptionFn {
	return func(o *Options) {
		if o == nil || provider == nil {
			return
		}
		o.Catalog = provider
	}
}

// WithContract injects a pre-loaded API contract.
func WithContract(c *contract.Contract) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Contract = c
	}
}

// WithNotifier injects the notification collaborator.
func WithNotifier(n Notifier) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Notifier = n
	}
}

// WithLogger injects a structured logger. Defaults to a nop logger.
func WithLogger(logger *zap.Logger) OptionFn {
	return func(o *Options) {
		if o == nil || logger == nil {
			return
		}
		o.Logger = logger
	}
}

// WithClock overrides the time source for the rate limiter and dwell check.
func WithClock(now func() time.Time) OptionFn {
	return func(o *Options) {
		if o == nil || now == nil {
			return
		}
		o.Now = now
	}
}
