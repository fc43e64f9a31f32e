// Package server provides the HTTP front of the gateway: health and
// readiness probes, the metrics endpoint, and the live console stream.
//
// The front runs a plain HTTP listener and, when HTTPS is enabled, a
// second TLS listener serving the same handler. The middleware chain
// is recovery, request ID, logging, then CORS, applied outermost first.
package server
