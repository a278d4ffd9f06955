package trace

import (
	"io"
	"slices"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewZap builds a zap logger writing to w. Text uses the console encoder,
// NDJSON the JSON encoder. debug lowers the threshold to Debug.
func NewZap(w io.Writer, format Format, debug bool) *zap.Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeDuration = zapcore.StringDurationEncoder

	var enc zapcore.Encoder
	if format == FormatNDJSON {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}
	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), level))
}

// ZapTracer writes every event as one zap entry.
type ZapTracer struct {
	log    *zap.Logger
	level  Level
	closer io.Closer
}

// NewZapTracer wraps log. closer, when set, is closed by Close.
func NewZapTracer(log *zap.Logger, level Level, closer io.Closer) *ZapTracer {
	return &ZapTracer{log: log, level: level, closer: closer}
}

// Emit logs ev at Debug level.
func (t *ZapTracer) Emit(ev *Event) {
	if !t.level.ShouldEmit(ev.Scope) {
		return
	}
	ev.Seq = NextSeq()
	t.log.Debug(ev.Name, eventFields(ev)...)
}

func eventFields(ev *Event) []zap.Field {
	fields := make([]zap.Field, 0, 6+len(ev.Extra))
	fields = append(fields,
		zap.String("kind", ev.Kind.String()),
		zap.String("scope", ev.Scope.String()),
		zap.Uint64("seq", ev.Seq),
		zap.Uint64("span", ev.SpanID),
	)
	if ev.ParentID != 0 {
		fields = append(fields, zap.Uint64("parent", ev.ParentID))
	}
	if ev.Detail != "" {
		fields = append(fields, zap.String("detail", ev.Detail))
	}
	if ev.Kind == KindSpanEnd {
		fields = append(fields, zap.Duration("dur", ev.Duration))
	}
	keys := make([]string, 0, len(ev.Extra))
	for k := range ev.Extra {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		fields = append(fields, zap.String(k, ev.Extra[k]))
	}
	return fields
}

// Flush syncs the logger. Sync on a terminal may fail with EINVAL, which
// is not worth reporting.
func (t *ZapTracer) Flush() error {
	_ = t.log.Sync()
	return nil
}

// Close flushes and closes the owned output.
func (t *ZapTracer) Close() error {
	_ = t.Flush()
	if t.closer != nil {
		return t.closer.Close()
	}
	return nil
}

// Level returns the current tracing level.
func (t *ZapTracer) Level() Level {
	return t.level
}

// Enabled returns true if tracing is active.
func (t *ZapTracer) Enabled() bool {
	return t.level > LevelOff
}

var logger atomic.Pointer[zap.Logger]

// Logger returns the package-wide structured logger. It is a no-op
// logger until SetLogger is called.
func Logger() *zap.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return zap.NewNop()
}

// SetLogger replaces the package-wide logger; nil restores the no-op one.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger.Store(l)
}
