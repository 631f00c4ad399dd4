// Package intake validates submitted URLs and enqueues them for download.
package intake
