package fetch

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
)

var commandContext = exec.CommandContext

const stderrTailLimit = 512

// Option configures the CLI fetcher.
type Option func(*CLI)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// CLI wraps the yt-dlp command-line downloader.
type CLI struct {
	binary      string
	format      string
	archivePath string
}

// NewCLI constructs a CLI fetcher. format selects the yt-dlp format
// expression; archivePath is passed as the download archive so
// already-fetched URLs are skipped by the tool itself.
func NewCLI(format, archivePath string, opts ...Option) *CLI {
	cli := &CLI{binary: "yt-dlp", format: format, archivePath: archivePath}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Fetch downloads url with output paths driven by outputTemplate.
func (c *CLI) Fetch(ctx context.Context, url, outputTemplate string) error {
	if url == "" {
		return errors.New("url required")
	}
	if outputTemplate == "" {
		return errors.New("output template required")
	}

	args := []string{
		"-f", c.format,
		"--merge-output-format", "mp4",
		"--download-archive", c.archivePath,
		"-o", outputTemplate,
		"--no-warnings",
		"--quiet",
		url,
	}
	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return &Error{URL: url, Detail: ctx.Err().Error()}
		}
		return &Error{URL: url, Detail: detail(err, stderr.String())}
	}
	return nil
}

func detail(err error, stderr string) string {
	tail := strings.TrimSpace(stderr)
	if len(tail) > stderrTailLimit {
		tail = tail[len(tail)-stderrTailLimit:]
	}
	if tail == "" {
		return err.Error()
	}
	return tail
}

var _ Fetcher = (*CLI)(nil)
