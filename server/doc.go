// Package server exposes the resolution engine over HTTP: POST
// /api/resolve turns a message into a validated request or a typed
// failure payload, GET /api/health reports the loaded dataset. The
// server drains in-flight resolutions on shutdown.
package server
