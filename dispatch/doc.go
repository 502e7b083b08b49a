// Package dispatch routes HTTP style requests through prioritized chains
// of handlers.
//
// A Table collects route definitions: a verb, a path template and optional
// media type constraints. An Engine snapshots the table and, per request,
// resolves the chain of matching routes in registration order. Three
// synthetic fallback routes always terminate the chain, so an uncommitted
// response degrades in a fixed order: a content negotiation diagnostic
// (406 Not Acceptable or 415 Unsupported Media Type), a verb diagnostic
// (405 Method Not Allowed) and finally 404 Not Found.
//
// Handlers receive the chain and decide whether to complete the response
// or delegate:
//
//	table := dispatch.NewTable()
//	table.Get("/users/{id:int}", func(req dispatch.Request, res dispatch.Response, chain *dispatch.Chain) error {
//		id, _ := req.Route().Var("id")
//		return res.Send(map[string]string{"id": id})
//	}).Produces(media.JSON)
//
// Failures never escape the engine: handler errors and panics are mapped
// to a status, rendered through content negotiation and, should that
// rendering itself fail, answered with a minimal hand built HTML page.
//
// The package is transport agnostic. It never opens sockets or reads
// request bodies itself; the serving package bridges net/http to it.
package dispatch
