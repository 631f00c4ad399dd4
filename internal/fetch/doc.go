// Package fetch downloads queued URLs through an external tool.
package fetch
