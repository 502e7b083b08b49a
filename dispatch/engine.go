package dispatch

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jayfeihe/jooby/body"
	"github.com/jayfeihe/jooby/media"
	"github.com/jayfeihe/jooby/metrics"
)

// Config tunes an Engine. The zero value is usable: it dispatches with the
// default charset, verbs, converters and the standard logger.
type Config struct {
	// Charset is the default request charset, "utf-8" when empty. The
	// value is canonicalized through the WHATWG encoding index.
	Charset string

	// Verbs is the verb set probed by the 405 diagnostic, DefaultVerbs
	// when empty.
	Verbs []string

	// Logger receives dispatch logs, logrus.StandardLogger when nil.
	Logger *logrus.Logger

	// Selector converts message bodies, body.DefaultSelector when nil.
	Selector *body.Selector

	// Types resolves media types for file extensions; a shared provider
	// is built when nil.
	Types *media.TypeProvider

	// AcceptCache memoizes accept header parsing; a default sized cache
	// is built when nil.
	AcceptCache *media.ParseCache

	// Modules populate each request scope.
	Modules []Module

	// ErrorMapper optionally maps handler errors to statuses before the
	// built in rules run. Returning false falls through to them.
	ErrorMapper func(err error) (status int, ok bool)

	// DisableStackTraces omits stack traces from error models.
	DisableStackTraces bool
}

// Engine resolves and executes route chains. It snapshots its Table at
// construction and is safe for concurrent use afterwards.
type Engine struct {
	defs        []*Definition
	verbs       []string
	charset     string
	log         *logrus.Logger
	selector    *body.Selector
	types       *media.TypeProvider
	acceptCache *media.ParseCache
	modules     []Module
	errorMapper func(error) (int, bool)
	stackTraces bool
}

// New builds an Engine over a route table. Registration errors recorded in
// the table surface here rather than at match time.
func New(table *Table, cfg Config) (*Engine, error) {
	if table == nil {
		return nil, fmt.Errorf("dispatch: nil route table")
	}
	if err := table.Err(); err != nil {
		return nil, err
	}

	charset, err := resolveCharset(cfg.Charset)
	if err != nil {
		return nil, err
	}

	verbs := cfg.Verbs
	if len(verbs) == 0 {
		verbs = DefaultVerbs
	}
	normalized := make([]string, len(verbs))
	for i, v := range verbs {
		normalized[i] = strings.ToUpper(strings.TrimSpace(v))
	}

	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	selector := cfg.Selector
	if selector == nil {
		selector = body.DefaultSelector()
	}

	types := cfg.Types
	if types == nil {
		types, err = media.NewTypeProvider()
		if err != nil {
			return nil, err
		}
	}

	acceptCache := cfg.AcceptCache
	if acceptCache == nil {
		acceptCache = media.NewParseCache(media.DefaultCacheSize, media.DefaultCacheTTL)
	}

	return &Engine{
		defs:        table.Definitions(),
		verbs:       normalized,
		charset:     charset,
		log:         log,
		selector:    selector,
		types:       types,
		acceptCache: acceptCache,
		modules:     cfg.Modules,
		errorMapper: cfg.ErrorMapper,
		stackTraces: !cfg.DisableStackTraces,
	}, nil
}

// Routes renders the engine's route table as aligned columns, one
// definition per line.
func (e *Engine) Routes() string {
	return formatDefinitions(e.defs)
}

// Handle runs one transaction through the pipeline: normalize the inputs,
// resolve the chain, execute it and convert any failure into an error
// response. The returned error is transport level only; handler failures
// are already rendered by the time Handle returns.
//
// Header values arrive raw: contentType defaults to the wildcard, accept
// to the full wildcard list and charset to the engine default. Malformed
// header values fall back to those defaults rather than failing the
// transaction.
func (e *Engine) Handle(verb, uri, contentType, accept, charset string, params url.Values, headers http.Header, requests RequestFactory, responses ResponseFactory) error {
	switch {
	case strings.TrimSpace(verb) == "":
		return fmt.Errorf("dispatch: empty verb")
	case uri == "":
		return fmt.Errorf("dispatch: empty uri")
	case params == nil:
		return fmt.Errorf("dispatch: nil parameters")
	case headers == nil:
		return fmt.Errorf("dispatch: nil response headers")
	case requests == nil:
		return fmt.Errorf("dispatch: nil request factory")
	case responses == nil:
		return fmt.Errorf("dispatch: nil response factory")
	}

	ctype := media.All
	if contentType != "" {
		if parsed, err := media.ParseType(contentType); err == nil {
			ctype = parsed
		}
	}

	cs := e.charset
	if charset != "" {
		resolved, err := resolveCharset(charset)
		if err != nil {
			e.log.WithField("charset", charset).Warn("unknown request charset, using default")
		} else {
			cs = resolved
		}
	}

	return e.dispatch(strings.ToUpper(verb), normalizePath(uri), ctype,
		e.acceptCache.Parse(accept), cs, params, headers, requests, responses)
}

func (e *Engine) dispatch(verb, uri string, contentType media.Type, accept []media.Type, charset string, params url.Values, headers http.Header, requests RequestFactory, responses ResponseFactory) error {
	start := time.Now()

	requestID := uuid.New().String()
	log := e.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"verb":       verb,
		"path":       uri,
	})
	log.WithField("content_type", contentType.String()).Debug("dispatching")

	scope := NewScope(e.modules...)
	scope.Set(ScopeRequestID, requestID)

	routes := e.Resolve(verb, uri, contentType, accept)
	primary := NotFound(verb, uri)
	if len(routes) > 0 {
		primary = routes[0]
	}

	req := requests.NewRequest(scope, primary, e.selector, charset, contentType, accept)
	res := responses.NewResponse(scope, e.selector, e.types, req.Charset(), accept)

	defer func() {
		status := res.Status()
		metrics.DispatchedRequests.WithLabelValues(verb, strconv.Itoa(status)).Inc()
		metrics.DispatchDuration.Observe(time.Since(start).Seconds())
		log.WithFields(logrus.Fields{
			"status":      status,
			"duration_ms": time.Since(start).Milliseconds(),
		}).Info("dispatched")
		scope.Destroy()
	}()

	if cause := e.run(routes, req, res); cause != nil {
		return e.fail(log, req, res, cause)
	}
	return nil
}

// run drives the chain, converting handler panics into errors so they
// flow through the same failure pipeline as returned errors.
func (e *Engine) run(routes []*Route, req Request, res Response) (err error) {
	defer func() {
		if rv := recover(); rv != nil {
			metrics.PanicRecoveries.Inc()
			err = &panicError{value: rv, stack: stackTrace()}
		}
	}()
	return NewChain(routes).Next(req, res)
}
