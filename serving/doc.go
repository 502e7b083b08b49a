// Package serving bridges the dispatch engine onto net/http.
//
// It provides the default Request and Response implementations over an
// http.ResponseWriter pair, an http.Handler adapter that feeds requests
// into an Engine, an HTTP server helper with optional h2c (RFC 7540
// cleartext HTTP/2) support, and a plain text diagnostic endpoint that
// dumps the route table.
//
// # Handler
//
// Wrap an engine and mount it like any other http.Handler:
//
//	table := dispatch.NewTable()
//	table.Get("/users/{id:int}", getUser)
//
//	engine, err := dispatch.New(table, dispatch.Config{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	http.Handle("/", serving.NewHandler(engine, serving.HandlerConfig{}))
//
// The handler derives the dispatch inputs from the raw request: the verb
// from the method, the path from the URL, content type and accept from
// their headers and the request charset from the Content-Type charset
// parameter. Query and form parameters are merged into one value set.
//
// # Server
//
// ListenAndServe builds an http.Server around a handler with timeouts,
// an identifying X-Server-Hostname header and optional h2c:
//
//	err := serving.ListenAndServe(handler, serving.ServerConfig{
//	    Addr: ":8080",
//	    H2C:  true,
//	})
//
// # Diagnostics
//
// DebugRoutes serves the engine's route table as text/plain:
//
//	http.Handle("/debug/routes", serving.DebugRoutes(engine))
package serving
