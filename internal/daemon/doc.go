// Package daemon coordinates the queue store, intake gateway, and sweep
// scheduler behind a single-instance facade, and serves the HTTP API.
package daemon
