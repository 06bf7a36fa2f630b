// Package server exposes rendered data and on-demand curve profiles over
// HTTP.
//
// Routes:
//
//	GET /plots/*                 rendered SVG plots, with directory listing
//	GET /points/*                exported CSV points, with directory listing
//	GET /api/tracks              track summaries
//	GET /api/tracks/:id/:kind    profile of one curve, as JSON or CSV
//	GET /healthz                 liveness
//	GET /metrics                 Prometheus metrics
package server
