// Package server provides the HTTP server for memoscribe using Gin with
// HTTP/2 cleartext (h2c) support.
//
// The server follows the component pattern with lifecycle management,
// health endpoints and configurable middleware.
//
// # Middleware
//
// Server-level middleware (server/middleware) wraps every route:
//
//   - Recovery: panic recovery with structured logging
//   - RequestID: request ID generation and propagation into the logger context
//   - CORS: cross-origin resource sharing
//   - BodySizeLimit: request body size limits
//   - RequestLogger: request logging by status class
//
// Route-group middleware for /api:
//
//   - RateLimit: per-key sliding-window rate limiting
//   - Auth: bearer token authentication
//
// # Endpoints
//
// Built-in endpoints (server/endpoint):
//
//   - /health: health check aggregation
//   - /ready: readiness probe, 503 until every component is healthy
//   - /alive: liveness probe
//   - /info: service and build information
package server
