package dispatch

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jayfeihe/jooby/media"
)

func chainKinds(routes []*Route) []Kind {
	kinds := make([]Kind, len(routes))
	for i, r := range routes {
		kinds[i] = r.Kind()
	}
	return kinds
}

func TestEngineResolve(t *testing.T) {
	t.Run("fallbacks terminate every chain", func(t *testing.T) {
		e := newTestEngine(t, NewTable(), Config{})

		routes := e.Resolve("GET", "/missing", media.All, []media.Type{media.All})
		require.Len(t, routes, 3)
		assert.Equal(t, []Kind{KindNotAcceptable, KindMethodNotAllowed, KindNotFound}, chainKinds(routes))
	})

	t.Run("registration order is priority order", func(t *testing.T) {
		table := NewTable()
		table.Get("/users/{id}", noopHandler)
		table.Get("/users/*", noopHandler)

		e := newTestEngine(t, table, Config{})
		routes := e.Resolve("GET", "/users/42", media.All, []media.Type{media.All})
		require.Len(t, routes, 5)

		assert.Equal(t, "GET /users/{id}", routes[0].Pattern())
		assert.Equal(t, "GET /users/*", routes[1].Pattern())
		assert.Equal(t,
			[]Kind{KindUser, KindUser, KindNotAcceptable, KindMethodNotAllowed, KindNotFound},
			chainKinds(routes))
	})

	t.Run("path variables are bound", func(t *testing.T) {
		table := NewTable()
		table.Get("/users/{id:int}", noopHandler)

		e := newTestEngine(t, table, Config{})
		routes := e.Resolve("GET", "/users/42", media.All, []media.Type{media.All})

		id, ok := routes[0].Var("id")
		require.True(t, ok)
		assert.Equal(t, "42", id)
	})

	t.Run("content type filters user routes", func(t *testing.T) {
		table := NewTable()
		table.Post("/users", noopHandler).Consumes(media.JSON)

		e := newTestEngine(t, table, Config{})

		routes := e.Resolve("POST", "/users", media.JSON, []media.Type{media.All})
		assert.Equal(t, KindUser, routes[0].Kind())

		routes = e.Resolve("POST", "/users", media.Plain, []media.Type{media.All})
		assert.Equal(t, KindNotAcceptable, routes[0].Kind())
	})

	t.Run("accept filters user routes", func(t *testing.T) {
		table := NewTable()
		table.Get("/data", noopHandler).Produces(media.JSON)

		e := newTestEngine(t, table, Config{})

		routes := e.Resolve("GET", "/data", media.All, media.Parse("application/json"))
		assert.Equal(t, KindUser, routes[0].Kind())

		routes = e.Resolve("GET", "/data", media.All, media.Parse("text/html"))
		assert.Equal(t, KindNotAcceptable, routes[0].Kind())
	})

	t.Run("wildcard accept admits constrained producers", func(t *testing.T) {
		table := NewTable()
		table.Get("/data", noopHandler).Produces(media.JSON)

		e := newTestEngine(t, table, Config{})
		routes := e.Resolve("GET", "/data", media.All, []media.Type{media.All})
		assert.Equal(t, KindUser, routes[0].Kind())
	})

	t.Run("resolution is repeatable", func(t *testing.T) {
		table := NewTable()
		table.Get("/users/{id}", noopHandler)

		e := newTestEngine(t, table, Config{})

		first := e.Resolve("GET", "/users/1", media.All, []media.Type{media.All})
		second := e.Resolve("GET", "/users/1", media.All, []media.Type{media.All})

		require.Equal(t, len(first), len(second))
		for i := range first {
			assert.Equal(t, first[i].Pattern(), second[i].Pattern())
			assert.Equal(t, first[i].Kind(), second[i].Kind())
		}
	})

	t.Run("verb and trailing slash are normalized", func(t *testing.T) {
		table := NewTable()
		table.Get("/users", noopHandler)

		e := newTestEngine(t, table, Config{})
		routes := e.Resolve("get", "/users/", media.All, []media.Type{media.All})
		assert.Equal(t, KindUser, routes[0].Kind())
	})
}

func TestFallbackRoutes(t *testing.T) {
	runChain := func(t *testing.T, e *Engine, verb, uri string, contentType media.Type, accept []media.Type) error {
		t.Helper()
		routes := e.Resolve(verb, uri, contentType, accept)
		res := newFakeResponse()
		res.accept = accept
		req := &fakeRequest{
			scope:       NewScope(),
			charset:     "utf-8",
			contentType: contentType,
			accept:      accept,
			params:      url.Values{},
		}
		return NewChain(routes).Next(req, res)
	}

	t.Run("unmatched path raises 404 with the composite key", func(t *testing.T) {
		e := newTestEngine(t, NewTable(), Config{})

		err := runChain(t, e, "GET", "/missing", media.All, []media.Type{media.All})

		var httpErr *HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusNotFound, httpErr.Status)
		assert.Equal(t, "GET/missing", httpErr.Message)
	})

	t.Run("wrong verb raises 405", func(t *testing.T) {
		table := NewTable()
		table.Post("/things", noopHandler)

		e := newTestEngine(t, table, Config{})
		err := runChain(t, e, "GET", "/things", media.All, []media.Type{media.All})

		var httpErr *HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusMethodNotAllowed, httpErr.Status)
		assert.Equal(t, "GET/things", httpErr.Message)
	})

	t.Run("verb probe skips wildcard patterns", func(t *testing.T) {
		table := NewTable()
		table.Post("/things/**", noopHandler)

		e := newTestEngine(t, table, Config{})
		err := runChain(t, e, "GET", "/things/1", media.All, []media.Type{media.All})

		var httpErr *HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusNotFound, httpErr.Status)
	})

	t.Run("unsatisfiable accept raises 406 naming the accept list", func(t *testing.T) {
		table := NewTable()
		table.Get("/data", noopHandler).Produces(media.JSON)

		e := newTestEngine(t, table, Config{})
		err := runChain(t, e, "GET", "/data", media.All, media.Parse("text/html, text/plain"))

		var httpErr *HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusNotAcceptable, httpErr.Status)
		assert.Equal(t, "text/html, text/plain", httpErr.Message)
	})

	t.Run("unsupported content type raises 415 naming the type", func(t *testing.T) {
		table := NewTable()
		table.Post("/users", noopHandler).Consumes(media.JSON)

		e := newTestEngine(t, table, Config{})
		err := runChain(t, e, "POST", "/users", media.Plain, []media.Type{media.All})

		var httpErr *HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusUnsupportedMediaType, httpErr.Status)
		assert.Equal(t, "text/plain", httpErr.Message)
	})

	t.Run("negotiation diagnostic ignores variable patterns", func(t *testing.T) {
		table := NewTable()
		table.Get("/users/{id}", noopHandler).Produces(media.JSON)

		e := newTestEngine(t, table, Config{})
		err := runChain(t, e, "GET", "/users/42", media.All, media.Parse("text/html"))

		// not a literal pattern, so the verdict falls through to 404
		var httpErr *HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusNotFound, httpErr.Status)
	})

	t.Run("committed response passes through untouched", func(t *testing.T) {
		e := newTestEngine(t, NewTable(), Config{})

		routes := e.Resolve("GET", "/missing", media.All, []media.Type{media.All})
		res := newFakeResponse()
		res.committed = true
		res.status = http.StatusOK
		req := &fakeRequest{scope: NewScope(), charset: "utf-8", params: url.Values{}}

		require.NoError(t, NewChain(routes).Next(req, res))
	})
}
