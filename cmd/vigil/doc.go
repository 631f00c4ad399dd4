// Command vigil is the command-line front end for the vigil download
// daemon: it runs the daemon, submits URLs, and manages the queue.
package main
