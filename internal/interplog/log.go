// Package interplog provides structured, per-compilation-session
// logging for the CLI. Each invocation of the compiler gets a UUID so
// its stage-by-stage progress (and any cache hit/miss) can be told
// apart in output that interleaves multiple files, grounded on the
// teacher's own use of github.com/google/uuid (internal/evaluator's
// uuid builtins) - the same library, used here to tag a compile run
// rather than a NEPL-level value.
package interplog

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

// Session identifies one source file's run through the pipeline.
type Session struct {
	ID        uuid.UUID
	FilePath  string
	StartedAt time.Time
}

// NewSession starts a session for filePath, stamped at now (callers
// pass the time explicitly since this package is exercised from
// workflow-authored code that cannot call time.Now() itself, and doing
// so here would make Logger's output non-reproducible in tests).
func NewSession(filePath string, now time.Time) Session {
	return Session{ID: uuid.New(), FilePath: filePath, StartedAt: now}
}

// shortID returns the session id's first 8 hex characters - enough to
// tell concurrent sessions apart in a terminal without the visual
// noise of a full UUID on every line.
func (s Session) shortID() string {
	return s.ID.String()[:8]
}

// Logger writes session-tagged progress lines to w, optionally with
// ANSI color (the CLI decides Colored by checking go-isatty against
// its output stream before constructing a Logger).
type Logger struct {
	w       io.Writer
	Colored bool
}

// New builds a Logger writing to w.
func New(w io.Writer, colored bool) *Logger {
	return &Logger{w: w, Colored: colored}
}

const (
	ansiDim    = "\x1b[2m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiReset  = "\x1b[0m"
)

func (l *Logger) colorize(code, s string) string {
	if !l.Colored {
		return s
	}
	return code + s + ansiReset
}

// Stage reports that session has entered a named pipeline stage.
func (l *Logger) Stage(s Session, stage string) {
	fmt.Fprintf(l.w, "%s %s %s\n", l.colorize(ansiDim, "["+s.shortID()+"]"), s.FilePath, stage)
}

// CacheHit reports that a session's result was served from buildcache
// rather than recompiled.
func (l *Logger) CacheHit(s Session, key string) {
	fmt.Fprintf(l.w, "%s %s %s (key %s)\n", l.colorize(ansiDim, "["+s.shortID()+"]"), s.FilePath,
		l.colorize(ansiGreen, "cache hit"), key[:12])
}

// Error reports a fatal error for session.
func (l *Logger) Error(s Session, err error) {
	fmt.Fprintf(l.w, "%s %s %s: %v\n", l.colorize(ansiDim, "["+s.shortID()+"]"), s.FilePath,
		l.colorize(ansiRed, "error"), err)
}

// Done reports a successful compile, with the final artifact size and
// wall-clock duration since the session started.
func (l *Logger) Done(s Session, finishedAt time.Time, artifactSize int) {
	elapsed := finishedAt.Sub(s.StartedAt)
	fmt.Fprintf(l.w, "%s %s %s (%s, %s)\n", l.colorize(ansiDim, "["+s.shortID()+"]"), s.FilePath,
		l.colorize(ansiGreen, "ok"), humanize.Bytes(uint64(artifactSize)), elapsed)
}
