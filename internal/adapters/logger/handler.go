package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/muesli/termenv"
	"go.trai.ch/kiln/internal/ui/output"
	"go.trai.ch/kiln/internal/ui/style"
)

// scopeKeys are attribute keys rendered as a bracketed tag in front of the
// message instead of as key=value pairs, in this order.
var scopeKeys = []string{"platform", "module"}

// detailIndent aligns error detail lines under the text following "Error: ".
const detailIndent = "       "

// PrettyHandler is a slog.Handler that produces human-readable, colored output.
//
// Attributes named by scopeKeys become a "[value]" tag before the message.
// On error records the remaining attributes are listed one per line under the
// first message line, so zerr metadata such as dependency or package lands
// next to the error it annotates. Other records append them as key=value.
type PrettyHandler struct {
	out    *termenv.Output
	level  slog.Leveler
	attrs  []slog.Attr
	groups []string
}

// NewPrettyHandler creates a new PrettyHandler writing to the provided writer.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if w == nil {
		w = os.Stderr
	}

	level := slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level.Level()
	}

	levelVar := &slog.LevelVar{}
	levelVar.Set(level)

	return &PrettyHandler{
		out:   output.New(w),
		level: levelVar,
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats and outputs the log record.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	var prefix string
	var color termenv.Color

	switch {
	case r.Level >= slog.LevelError:
		prefix = style.Cross + " "
		color = termenv.RGBColor(string(style.Red))
	case r.Level >= slog.LevelWarn:
		prefix = style.Warning + " "
		color = termenv.RGBColor(string(style.Amber))
	case r.Level < slog.LevelInfo:
		prefix = style.Dot + " "
		color = termenv.RGBColor(string(style.Slate))
	default:
		color = termenv.RGBColor(string(style.Slate))
	}

	scope := make(map[string]string, len(scopeKeys))
	var rest []slog.Attr
	add := func(attrs []slog.Attr) {
		for _, a := range attrs {
			if isScopeKey(a.Key) {
				scope[a.Key] = a.Value.String()
				continue
			}
			rest = append(rest, a)
		}
	}
	// Handler attrs were qualified by WithAttrs.
	for _, attr := range h.attrs {
		add(flatten(nil, attr))
	}
	r.Attrs(func(attr slog.Attr) bool {
		add(flatten(h.groups, attr))
		return true
	})

	var tags []string
	for _, k := range scopeKeys {
		if v, ok := scope[k]; ok && v != "" {
			tags = append(tags, "["+v+"]")
		}
	}
	if len(tags) > 0 {
		prefix += strings.Join(tags, " ") + " "
	}

	var msg string
	if r.Level >= slog.LevelError {
		msg = prefix + withDetails(r.Message, rest)
	} else {
		msg = prefix + r.Message
		for _, a := range rest {
			msg += " " + a.Key + "=" + quote(a.Value.String())
		}
	}

	styled := h.out.String(msg).Foreground(color)
	_, err := h.out.WriteString(styled.String() + "\n")

	return err
}

// WithAttrs returns a new Handler with the given attributes appended. The
// attributes are qualified by the groups open at this point.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	newAttrs = append(newAttrs, h.attrs...)
	for _, attr := range attrs {
		newAttrs = append(newAttrs, flatten(h.groups, attr)...)
	}

	return &PrettyHandler{
		out:    h.out,
		level:  h.level,
		attrs:  newAttrs,
		groups: h.groups,
	}
}

// WithGroup returns a new Handler that nests subsequent attributes under name.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	groups := make([]string, len(h.groups), len(h.groups)+1)
	copy(groups, h.groups)

	return &PrettyHandler{
		out:    h.out,
		level:  h.level,
		attrs:  h.attrs,
		groups: append(groups, name),
	}
}

// flatten expands group-valued attributes into dotted keys qualified by
// groups.
func flatten(groups []string, attr slog.Attr) []slog.Attr {
	attr.Value = attr.Value.Resolve()
	if attr.Value.Kind() == slog.KindGroup {
		inner := groups
		if attr.Key != "" {
			inner = append(groups[:len(groups):len(groups)], attr.Key)
		}
		var out []slog.Attr
		for _, a := range attr.Value.Group() {
			out = append(out, flatten(inner, a)...)
		}
		return out
	}

	if attr.Key == "" {
		return nil
	}
	if len(groups) > 0 {
		attr.Key = strings.Join(groups, ".") + "." + attr.Key
	}
	return []slog.Attr{attr}
}

func isScopeKey(key string) bool {
	for _, k := range scopeKeys {
		if k == key {
			return true
		}
	}
	return false
}

// withDetails inserts one "key: value" line per attribute after the first
// line of msg.
func withDetails(msg string, attrs []slog.Attr) string {
	if len(attrs) == 0 {
		return msg
	}

	head, tail, multi := strings.Cut(msg, "\n")
	lines := []string{head}
	for _, a := range attrs {
		lines = append(lines, detailIndent+a.Key+": "+a.Value.String())
	}
	if multi {
		lines = append(lines, tail)
	}

	return strings.Join(lines, "\n")
}

func quote(v string) string {
	if v == "" || strings.ContainsAny(v, " \t\n\"=") {
		return strconv.Quote(v)
	}
	return v
}
