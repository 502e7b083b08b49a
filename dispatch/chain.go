package dispatch

// Chain executes resolved routes in priority order. Each handler decides
// whether to complete the response or hand off to the next route.
//
// A Chain belongs to a single dispatch and is driven by one goroutine.
type Chain struct {
	routes []*Route
	pos    int
}

// NewChain builds a chain over routes, which must be in priority order.
func NewChain(routes []*Route) *Chain {
	return &Chain{routes: routes}
}

// Next runs the next route. While its handler executes, the request
// reports that route as current. Calling Next with no routes left returns
// ErrChainExhausted.
func (c *Chain) Next(req Request, res Response) error {
	if c.pos >= len(c.routes) {
		return ErrChainExhausted
	}
	route := c.routes[c.pos]
	c.pos++
	return route.handler(routeView{Request: req, route: route}, res, c)
}
