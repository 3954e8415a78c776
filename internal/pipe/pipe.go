// Package pipe runs the line-by-line transcoding loop between a reader and a writer.
package pipe

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"go.uber.org/zap"

	"streamfmt/internal/format"
	"streamfmt/internal/stream"
)

// DefaultMaxStalledReads is the number of consecutive reader errors that
// consumed no input after which Run treats the input as dead.
const DefaultMaxStalledReads = 64

var errInvalidUTF8 = errors.New("line is not valid UTF-8")

// Options controls a Run.
type Options struct {
	Formatter *format.Formatter
	Logger    *zap.Logger

	// MaxStalledReads overrides DefaultMaxStalledReads when positive.
	MaxStalledReads int
}

// Run reads in line by line, writes the rendering of every line that has one
// to out, and flushes after each write. Undecodable lines, read failures and
// write failures are skipped. Run returns at end of input with a nil error.
// The only input failure that stops it is a reader that keeps failing
// without yielding a byte; bad lines never do.
func Run(ctx context.Context, in io.Reader, out io.Writer, opts Options) (Stats, error) {
	if opts.Formatter == nil {
		opts.Formatter = format.New()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	maxStalled := opts.MaxStalledReads
	if maxStalled <= 0 {
		maxStalled = DefaultMaxStalledReads
	}

	stats := newStats()
	reader := bufio.NewReader(in)
	log := opts.Logger

	lineNo := 0
	stalled := 0
	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		line, consumed, err := readLine(reader)
		if errors.Is(err, io.EOF) {
			return stats, nil
		}
		if err != nil && consumed == 0 && !errors.Is(err, errInvalidUTF8) {
			stats.ReadErrors++
			stalled++
			log.Debug("read failed", zap.Int("attempt", stalled), zap.Error(err))
			if stalled >= maxStalled {
				return stats, fmt.Errorf("read input: %d consecutive failures: %w", stalled, err)
			}
			continue
		}
		stalled = 0
		lineNo++
		if err != nil {
			stats.ReadErrors++
			log.Debug("skipping unreadable line", zap.Int("line", lineNo), zap.Error(err))
			continue
		}
		stats.Lines++

		rendered, ok := processLine(line, opts.Formatter, &stats, log.With(zap.Int("line", lineNo)))
		if !ok {
			continue
		}

		if err := writeLine(out, rendered); err != nil {
			stats.WriteErrors++
			log.Debug("write failed", zap.Int("line", lineNo), zap.Error(err))
			continue
		}
		stats.Emitted++
	}
}

func processLine(line []byte, f *format.Formatter, stats *Stats, log *zap.Logger) (string, bool) {
	msg, err := stream.Decode(line)
	if err != nil {
		stats.DecodeErrors++
		log.Debug("skipping undecodable line", zap.Error(err))
		return "", false
	}
	stats.observe(msg)

	return f.Format(msg)
}

// readLine returns the next line without its terminator and the number of
// bytes taken from r. A final line without a newline is returned as-is;
// io.EOF is only returned when nothing is left.
func readLine(r *bufio.Reader) ([]byte, int, error) {
	line, err := r.ReadBytes('\n')
	consumed := len(line)
	if err != nil {
		if errors.Is(err, io.EOF) && consumed > 0 {
			err = nil
		} else {
			return nil, consumed, err
		}
	}

	line = bytes.TrimSuffix(line, []byte("\n"))
	line = bytes.TrimSuffix(line, []byte("\r"))
	if !utf8.Valid(line) {
		return nil, consumed, errInvalidUTF8
	}
	return line, consumed, nil
}

type flusher interface {
	Flush() error
}

// writeLine writes text and a newline in a single call, then flushes w if it
// buffers.
func writeLine(w io.Writer, text string) error {
	if _, err := io.WriteString(w, text+"\n"); err != nil {
		return err
	}
	if f, ok := w.(flusher); ok {
		return f.Flush()
	}
	return nil
}
