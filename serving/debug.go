package serving

import (
	"fmt"
	"net/http"

	"github.com/jayfeihe/jooby/dispatch"
)

// DebugRoutes serves the engine's route table as plain text, one
// definition per line with aligned path, consumes and produces columns.
func DebugRoutes(engine *dispatch.Engine) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprint(w, engine.Routes())
	})
}
