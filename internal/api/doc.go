// Package api provides the HTTP REST API for the device catalogue.
//
// It exposes CRUD operations on /devices with brand and state filtering,
// plus /healthz and an optional Prometheus /metrics endpoint.
//
// The server follows the same lifecycle pattern as the infrastructure
// components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Error responses carry a {message, details} body where message is one of
// five fixed categories (validation, constraint violation, not found,
// blocked, internal) and details names the specific cause.
package api
