package dispatch

import (
	"errors"
	"fmt"
	"html"
	"net/http"
	"runtime"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/jayfeihe/jooby/body"
	"github.com/jayfeihe/jooby/media"
)

// noCache is set on every error response so intermediaries do not store
// failure pages.
const noCache = "must-revalidate,no-cache,no-store"

// panicError carries a recovered panic value together with the stack
// captured at the recovery site.
type panicError struct {
	value any
	stack []string
}

func (p *panicError) Error() string {
	return fmt.Sprintf("dispatch: recovered panic: %v", p.value)
}

func (p *panicError) Unwrap() error {
	if err, ok := p.value.(error); ok {
		return err
	}
	return nil
}

// fail renders cause as an error response: reset partial state, apply the
// no-cache policy, send the negotiated error model, and fall back to the
// hand built page when even that rendering fails.
func (e *Engine) fail(log *logrus.Entry, req Request, res Response, cause error) error {
	status := e.statusFor(cause)
	log.WithError(cause).WithField("status", status).Error("route chain failed")

	if res.Committed() {
		// Bytes are on the wire; the transport can only drop the
		// connection.
		return cause
	}
	if err := res.Reset(); err != nil {
		return cause
	}

	model := e.errorModel(cause, status)
	res.Header().Set("Cache-Control", noCache)
	res.SetStatus(status)

	renderErr := res.Format().
		When(media.HTML, func() (any, error) {
			return body.View{Name: "/status/" + strconv.Itoa(status), Model: model}, nil
		}).
		When(media.All, func() (any, error) {
			return model, nil
		}).
		Send()
	if renderErr == nil {
		return nil
	}

	log.WithError(renderErr).Trace("error render failed, sending fallback page")
	if err := res.Reset(); err != nil {
		return renderErr
	}
	res.Header().Set("Cache-Control", noCache)
	res.SetStatus(status)
	return res.SendWith(errorPage(req, status, model), body.ToHTML)
}

// statusFor maps a failure to its response status: an explicit HTTPError
// wins, then the configured mapper, then the argument sentinels, then 500.
func (e *Engine) statusFor(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Status
	}
	if e.errorMapper != nil {
		if status, ok := e.errorMapper(err); ok {
			return status
		}
	}
	if errors.Is(err, ErrInvalidArgument) || errors.Is(err, ErrNoSuchElement) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// errorModel builds the wire model for a failure. Its keys are stable
// contract: message, stackTrace, status and reason.
func (e *Engine) errorModel(cause error, status int) map[string]any {
	message := cause.Error()
	var httpErr *HTTPError
	if errors.As(cause, &httpErr) {
		message = httpErr.Message
	}
	if message == "" {
		message = Reason(status)
	}

	model := map[string]any{
		"message": message,
		"status":  status,
		"reason":  Reason(status),
	}
	if e.stackTraces {
		var pe *panicError
		if errors.As(cause, &pe) {
			model["stackTrace"] = pe.stack
		} else {
			model["stackTrace"] = stackTrace()
		}
	}
	return model
}

// stackTrace captures the current goroutine's stack as lines, carriage
// returns stripped.
func stackTrace() []string {
	buf := make([]byte, 64<<10)
	n := runtime.Stack(buf, false)
	s := strings.ReplaceAll(string(buf[:n]), "\r", "")
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

// errorPage builds the hand written HTML page used when negotiated error
// rendering itself fails. It depends on nothing that can fail.
func errorPage(req Request, status int, model map[string]any) string {
	reason := Reason(status)
	title := strconv.Itoa(status) + " " + reason

	var b strings.Builder
	b.WriteString("<!doctype html>\n<html>\n<head>\n")
	b.WriteString("<meta charset=\"" + req.Charset() + "\">\n")
	b.WriteString("<style>\n")
	b.WriteString("body {font-family: \"open sans\", sans-serif; margin-left: 20px;}\n")
	b.WriteString("h1 {font-weight: 300; line-height: 44px; margin: 25px 0 0 0;}\n")
	b.WriteString("h2 {font-size: 16px; font-weight: 300; line-height: 44px; margin: 0;}\n")
	b.WriteString("footer {font-weight: 300; line-height: 44px; margin-top: 10px;}\n")
	b.WriteString("hr {background-color: #f7f7f9;}\n")
	b.WriteString("div.trace {border: 1px solid #e1e1e8; background-color: #f7f7f9;}\n")
	b.WriteString("p {padding-left: 20px;}\n")
	b.WriteString("p.tab {padding-left: 40px;}\n")
	b.WriteString("</style>\n")
	b.WriteString("<title>" + title + "</title>\n")
	b.WriteString("</head>\n<body>\n")
	b.WriteString("<h1>" + reason + "</h1>\n<hr>\n")

	if message, ok := model["message"].(string); ok && message != reason {
		b.WriteString("<h2>message: " + html.EscapeString(message) + "</h2>\n")
	}
	b.WriteString("<h2>status: " + strconv.Itoa(status) + "</h2>\n")

	if trace, ok := model["stackTrace"].([]string); ok && len(trace) > 0 {
		b.WriteString("<h2>stack:</h2>\n<div class=\"trace\">\n")
		for _, line := range trace {
			css := "line"
			if strings.HasPrefix(line, "\t") {
				css = "line tab"
			}
			b.WriteString("<p class=\"" + css + "\"><code>" + html.EscapeString(line) + "</code></p>\n")
		}
		b.WriteString("</div>\n")
	}

	b.WriteString("<footer>powered by Jooby</footer>\n")
	b.WriteString("</body>\n</html>\n")
	return b.String()
}
