package lgr

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mdobak/go-xerrors"
	"github.com/natefinch/lumberjack"
	"go.opentelemetry.io/otel/trace"
)

// Logger is the process-wide logger. Pretty colored output in dev, rotated
// JSON in every other environment.
var Logger *slog.Logger

func init() {
	env := os.Getenv("RUN_TIME_ENV")
	if env == "dev" || env == "" {
		Logger = slog.New(tracingHandler{newPrettyHandler(os.Stdout, &slog.HandlerOptions{
			Level:       level(),
			ReplaceAttr: replaceAttr,
		})})
		return
	}

	sink := &lumberjack.Logger{
		Filename:   "laundry-watch.log",
		MaxSize:    10, // MB
		MaxBackups: 5,
		MaxAge:     7,    // days
		Compress:   true, // compress old logs
	}

	Logger = slog.New(tracingHandler{slog.NewJSONHandler(sink, &slog.HandlerOptions{
		Level:       level(),
		ReplaceAttr: replaceAttr,
	})})
}

func level() slog.Level {
	if os.Getenv("LOG_LEVEL") == "debug" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// tracingHandler stamps records with the trace and span ids of the span in
// the calling context, if any.
type tracingHandler struct {
	slog.Handler
}

func (h tracingHandler) Handle(ctx context.Context, r slog.Record) error {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		r.AddAttrs(
			slog.String("traceId", sc.TraceID().String()),
			slog.String("spanId", sc.SpanID().String()),
		)
	}
	return h.Handler.Handle(ctx, r)
}

func (h tracingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return tracingHandler{h.Handler.WithAttrs(attrs)}
}

func (h tracingHandler) WithGroup(name string) slog.Handler {
	return tracingHandler{h.Handler.WithGroup(name)}
}

type stackFrame struct {
	Func   string `json:"func"`
	Source string `json:"source"`
	Line   int    `json:"line"`
}

// replaceAttr expands error attributes into a group carrying the message and,
// when the error was created by go-xerrors, its stack trace.
func replaceAttr(_ []string, attr slog.Attr) slog.Attr {
	switch attr.Value.Kind() {
	case slog.KindAny:
		if err, ok := attr.Value.Any().(error); ok {
			attr.Value = errValue(err)
		}
	}
	return attr
}

func errValue(err error) slog.Value {
	attrs := []slog.Attr{slog.String("msg", err.Error())}
	if frames := marshalStack(err); frames != nil {
		attrs = append(attrs, slog.Any("trace", frames))
	}
	return slog.GroupValue(attrs...)
}

func marshalStack(err error) []stackFrame {
	trace := xerrors.StackTrace(err)
	if len(trace) == 0 {
		return nil
	}

	frames := trace.Frames()
	s := make([]stackFrame, len(frames))
	for i, f := range frames {
		s[i] = stackFrame{
			Source: filepath.Join(filepath.Base(filepath.Dir(f.File)), filepath.Base(f.File)),
			Func:   filepath.Base(f.Function),
			Line:   f.Line,
		}
	}
	return s
}
