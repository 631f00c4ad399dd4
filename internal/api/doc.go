// Package api defines the JSON payloads shared by the HTTP API and the
// unix-socket IPC surface.
package api
