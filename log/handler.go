// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/holiman/uint256"
)

const (
	timeFormat     = "2006-01-02T15:04:05-0700"
	termTimeFormat = "01-02|15:04:05.000"
	termMsgJust    = 40
)

// TerminalHandler formats records for humans:
//
//	LVL [TIME] MESSAGE key=value key=value ...
//
// The level is read from lvl on every record, so changing a *slog.LevelVar
// takes effect immediately.
type TerminalHandler struct {
	mu       *sync.Mutex
	wr       io.Writer
	lvl      slog.Leveler
	useColor bool
	attrs    []slog.Attr
}

func NewTerminalHandlerWithLevel(wr io.Writer, lvl slog.Leveler, useColor bool) *TerminalHandler {
	return &TerminalHandler{
		mu:       &sync.Mutex{},
		wr:       wr,
		lvl:      lvl,
		useColor: useColor,
	}
}

func (h *TerminalHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.lvl.Level()
}

func (h *TerminalHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	lvl := levelAlignedString(r.Level)
	if h.useColor {
		lvl = fmt.Sprintf("\x1b[%dm%s\x1b[0m", levelColor(r.Level), lvl)
	}
	buf.WriteString(lvl)
	buf.WriteString(" [")
	buf.WriteString(r.Time.Format(termTimeFormat))
	buf.WriteString("] ")
	buf.WriteString(r.Message)

	if n := len(h.attrs) + r.NumAttrs(); n > 0 && len(r.Message) < termMsgJust {
		buf.WriteString(strings.Repeat(" ", termMsgJust-len(r.Message)))
	}
	for _, attr := range h.attrs {
		writeTermAttr(&buf, attr, h.useColor)
	}
	r.Attrs(func(attr slog.Attr) bool {
		writeTermAttr(&buf, attr, h.useColor)
		return true
	})
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.wr.Write(buf.Bytes())
	return err
}

func (h *TerminalHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &TerminalHandler{
		mu:       h.mu,
		wr:       h.wr,
		lvl:      h.lvl,
		useColor: h.useColor,
		attrs:    append(append([]slog.Attr{}, h.attrs...), attrs...),
	}
}

// WithGroup is not supported, attributes stay flat.
func (h *TerminalHandler) WithGroup(_ string) slog.Handler {
	return h
}

func writeTermAttr(buf *bytes.Buffer, attr slog.Attr, useColor bool) {
	attr = builtinReplace(attr, true)
	buf.WriteByte(' ')
	if useColor {
		fmt.Fprintf(buf, "\x1b[%dm%s\x1b[0m=", levelColor(LevelInfo), attr.Key)
	} else {
		buf.WriteString(attr.Key)
		buf.WriteByte('=')
	}
	buf.WriteString(termValue(attr.Value))
}

func termValue(v slog.Value) string {
	var s string
	switch v.Kind() {
	case slog.KindString:
		s = v.String()
	case slog.KindTime:
		return v.Time().Format(timeFormat)
	default:
		s = fmt.Sprint(v.Any())
	}
	if s == "" || strings.ContainsAny(s, " =\"\t\n") {
		return strconv.Quote(s)
	}
	return s
}

// JSONHandlerWithLevel prints records in JSON format at or above level.
func JSONHandlerWithLevel(wr io.Writer, level slog.Leveler) slog.Handler {
	return slog.NewJSONHandler(wr, &slog.HandlerOptions{
		ReplaceAttr: func(_ []string, attr slog.Attr) slog.Attr { return builtinReplace(attr, false) },
		Level:       level,
	})
}

// LogfmtHandlerWithLevel prints records in logfmt format at or above level.
func LogfmtHandlerWithLevel(wr io.Writer, level slog.Leveler) slog.Handler {
	return slog.NewTextHandler(wr, &slog.HandlerOptions{
		ReplaceAttr: func(_ []string, attr slog.Attr) slog.Attr { return builtinReplace(attr, true) },
		Level:       level,
	})
}

func builtinReplace(attr slog.Attr, logfmt bool) slog.Attr {
	switch attr.Key {
	case slog.TimeKey:
		if attr.Value.Kind() == slog.KindTime {
			if logfmt {
				return slog.String("t", attr.Value.Time().Format(timeFormat))
			}
			return slog.Attr{Key: "t", Value: attr.Value}
		}
	case slog.LevelKey:
		if l, ok := attr.Value.Any().(slog.Level); ok {
			return slog.String("lvl", levelString(l))
		}
	}

	switch v := attr.Value.Any().(type) {
	case time.Time:
		if logfmt {
			attr = slog.String(attr.Key, v.Format(timeFormat))
		}
	case *big.Int:
		if v == nil {
			attr.Value = slog.StringValue("<nil>")
		} else {
			attr.Value = slog.StringValue(v.String())
		}
	case *uint256.Int:
		if v == nil {
			attr.Value = slog.StringValue("<nil>")
		} else {
			attr.Value = slog.StringValue(v.Dec())
		}
	case error:
		if v != nil {
			attr.Value = slog.StringValue(v.Error())
		}
	case fmt.Stringer:
		if v == nil || (reflect.ValueOf(v).Kind() == reflect.Pointer && reflect.ValueOf(v).IsNil()) {
			attr.Value = slog.StringValue("<nil>")
		} else {
			attr.Value = slog.StringValue(v.String())
		}
	}
	return attr
}

func levelString(l slog.Level) string {
	switch {
	case l < LevelDebug:
		return "trace"
	case l < LevelInfo:
		return "debug"
	case l < LevelWarn:
		return "info"
	case l < LevelError:
		return "warn"
	case l < LevelCrit:
		return "error"
	default:
		return "crit"
	}
}

func levelAlignedString(l slog.Level) string {
	switch {
	case l < LevelDebug:
		return "TRACE"
	case l < LevelInfo:
		return "DEBUG"
	case l < LevelWarn:
		return "INFO "
	case l < LevelError:
		return "WARN "
	case l < LevelCrit:
		return "ERROR"
	default:
		return "CRIT "
	}
}

func levelColor(l slog.Level) int {
	switch {
	case l < LevelDebug:
		return 34
	case l < LevelInfo:
		return 36
	case l < LevelWarn:
		return 32
	case l < LevelError:
		return 33
	default:
		return 31
	}
}
