// Package server exposes the analysis pipeline over HTTP.
//
// The API is a thin layer: one endpoint to run an analysis, one to
// retrieve a stored record, and a health check. All domain logic lives
// in the pipeline package.
package server
