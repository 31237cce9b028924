package lgr

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"log/slog"
	"sync"

	"github.com/fatih/color"
)

// prettyHandler renders records as a colored one-liner with indented JSON
// attributes. Meant for a dev terminal, not for machine consumption.
type prettyHandler struct {
	h slog.Handler
	r func(groups []string, attr slog.Attr) slog.Attr
	b *jsonBuffer
	l *log.Logger
}

type jsonBuffer struct {
	mu    sync.Mutex
	attrs map[string]interface{}
}

func newPrettyHandler(out io.Writer, opts *slog.HandlerOptions) *prettyHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}

	b := &jsonBuffer{attrs: map[string]interface{}{}}
	return &prettyHandler{
		h: slog.NewJSONHandler(collectWriter{b}, &slog.HandlerOptions{
			Level:       opts.Level,
			AddSource:   opts.AddSource,
			ReplaceAttr: suppressDefaults(opts.ReplaceAttr),
		}),
		r: opts.ReplaceAttr,
		b: b,
		l: log.New(out, "", 0),
	}
}

func (h *prettyHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.h.Enabled(ctx, level)
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyHandler{h: h.h.WithAttrs(attrs), r: h.r, b: h.b, l: h.l}
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	return &prettyHandler{h: h.h.WithGroup(name), r: h.r, b: h.b, l: h.l}
}

func (h *prettyHandler) Handle(ctx context.Context, r slog.Record) error {
	level := r.Level.String() + ":"
	switch r.Level {
	case slog.LevelDebug:
		level = color.MagentaString(level)
	case slog.LevelInfo:
		level = color.BlueString(level)
	case slog.LevelWarn:
		level = color.YellowString(level)
	case slog.LevelError:
		level = color.RedString(level)
	}

	attrs, err := h.computeAttrs(ctx, r)
	if err != nil {
		return err
	}

	var fields string
	if len(attrs) > 0 {
		data, err := json.MarshalIndent(attrs, "", "  ")
		if err != nil {
			return err
		}
		fields = color.WhiteString(string(data))
	}

	h.l.Println(
		r.Time.Format("[15:04:05.000]"),
		level,
		color.CyanString(r.Message),
		fields,
	)

	return nil
}

// computeAttrs runs the record through the inner JSON handler so that groups,
// WithAttrs state and ReplaceAttr all apply, then decodes the result.
func (h *prettyHandler) computeAttrs(ctx context.Context, r slog.Record) (map[string]interface{}, error) {
	h.b.mu.Lock()
	defer h.b.mu.Unlock()

	h.b.attrs = map[string]interface{}{}
	if err := h.h.Handle(ctx, r); err != nil {
		return nil, err
	}
	return h.b.attrs, nil
}

type collectWriter struct {
	b *jsonBuffer
}

func (w collectWriter) Write(p []byte) (int, error) {
	attrs := map[string]interface{}{}
	if err := json.Unmarshal(p, &attrs); err != nil {
		return 0, err
	}
	w.b.attrs = attrs
	return len(p), nil
}

// suppressDefaults drops time, level and msg from the inner handler: the
// pretty handler prints those itself.
func suppressDefaults(next func([]string, slog.Attr) slog.Attr) func([]string, slog.Attr) slog.Attr {
	return func(groups []string, attr slog.Attr) slog.Attr {
		if attr.Key == slog.TimeKey || attr.Key == slog.LevelKey || attr.Key == slog.MessageKey {
			return slog.Attr{}
		}
		if next != nil {
			return next(groups, attr)
		}
		return attr
	}
}
