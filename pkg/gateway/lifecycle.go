package gateway

// Close gracefully shuts down the gateway and its dependencies. It stops the
// rate limiter cleanup loop and closes the redis and database connections in
// sequence.
func (g *Gateway) Close() {
	if g.rateLimiter != nil {
		g.rateLimiter.StopCleanup()
	}

	if g.rdb != nil {
		_ = g.rdb.Close()
	}

	if g.db != nil {
		_ = g.db.Close()
	}
}
