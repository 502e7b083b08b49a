package serving

import (
	"fmt"
	"html/template"
	"io"
	"strconv"
	"strings"

	"github.com/jayfeihe/jooby/body"
	"github.com/jayfeihe/jooby/dispatch"
)

// ViewRenderer renders a named view with its model. The default renderer
// only knows the built in status pages; applications plug a template
// engine here to serve their own views.
type ViewRenderer func(w io.Writer, view body.View, charset string) error

const statusViewPrefix = "/status/"

var statusPage = template.Must(template.New("status").Parse(`<!doctype html>
<html>
<head>
<meta charset="{{.Charset}}">
<style>
body {font-family: "open sans", sans-serif; margin-left: 20px;}
h1 {font-weight: 300; line-height: 44px; margin: 25px 0 0 0;}
h2 {font-size: 16px; font-weight: 300; line-height: 44px; margin: 0;}
footer {font-weight: 300; line-height: 44px; margin-top: 10px;}
hr {background-color: #f7f7f9;}
div.trace {border: 1px solid #e1e1e8; background-color: #f7f7f9;}
p {padding-left: 20px;}
p.tab {padding-left: 40px;}
</style>
<title>{{.Status}} {{.Reason}}</title>
</head>
<body>
<h1>{{.Reason}}</h1>
<hr>
{{if .Message}}<h2>message: {{.Message}}</h2>
{{end}}<h2>status: {{.Status}}</h2>
{{if .Stack}}<h2>stack:</h2>
<div class="trace">
{{range .Stack}}<p class="{{if .Tab}}line tab{{else}}line{{end}}"><code>{{.Text}}</code></p>
{{end}}</div>
{{end}}<footer>powered by Jooby</footer>
</body>
</html>
`))

type statusPageData struct {
	Charset string
	Status  int
	Reason  string
	Message string
	Stack   []stackLine
}

type stackLine struct {
	Text string
	Tab  bool
}

// DefaultViewRenderer renders the built in "/status/<code>" pages and
// rejects every other view name, which pushes the engine onto its hand
// built fallback page.
func DefaultViewRenderer(w io.Writer, view body.View, charset string) error {
	status, ok := statusViewCode(view.Name)
	if !ok {
		return fmt.Errorf("serving: no template for view %q", view.Name)
	}

	data := statusPageData{
		Charset: charset,
		Status:  status,
		Reason:  dispatch.Reason(status),
	}
	if model, ok := view.Model.(map[string]any); ok {
		if message, ok := model["message"].(string); ok && message != data.Reason {
			data.Message = message
		}
		if trace, ok := model["stackTrace"].([]string); ok {
			for _, line := range trace {
				data.Stack = append(data.Stack, stackLine{
					Text: line,
					Tab:  strings.HasPrefix(line, "\t"),
				})
			}
		}
	}
	return statusPage.Execute(w, data)
}

// statusViewCode extracts the status code from a "/status/<code>" view
// name.
func statusViewCode(name string) (int, bool) {
	if !strings.HasPrefix(name, statusViewPrefix) {
		return 0, false
	}
	code, err := strconv.Atoi(name[len(statusViewPrefix):])
	if err != nil {
		return 0, false
	}
	return code, true
}
