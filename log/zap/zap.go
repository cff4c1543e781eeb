// Package zap adapts a *zap.Logger to geocache.Logger.
package zap

import (
	"sort"

	"github.com/unkn0wn-root/geocache"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	_ geocache.Logger       = ZapLogger{}
	_ geocache.DebugEnabler = ZapLogger{}
)

type ZapLogger struct{ L *zap.Logger }

func New(l *zap.Logger) ZapLogger { return ZapLogger{L: l} }

func (z ZapLogger) Debug(msg string, f geocache.Fields) { z.log(zapcore.DebugLevel, msg, f) }
func (z ZapLogger) Info(msg string, f geocache.Fields)  { z.log(zapcore.InfoLevel, msg, f) }
func (z ZapLogger) Warn(msg string, f geocache.Fields)  { z.log(zapcore.WarnLevel, msg, f) }
func (z ZapLogger) Error(msg string, f geocache.Fields) { z.log(zapcore.ErrorLevel, msg, f) }

func (z ZapLogger) DebugEnabled() bool { return z.L.Core().Enabled(zapcore.DebugLevel) }

func (z ZapLogger) log(lvl zapcore.Level, msg string, f geocache.Fields) {
	if ce := z.L.Check(lvl, msg); ce != nil {
		ce.Write(zf(f)...)
	}
}

// zf converts fields in key order; error values keep their zap error encoding.
func zf(f geocache.Fields) []zap.Field {
	if len(f) == 0 {
		return nil
	}
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]zap.Field, 0, len(f))
	for _, k := range keys {
		if err, ok := f[k].(error); ok {
			out = append(out, zap.NamedError(k, err))
			continue
		}
		out = append(out, zap.Any(k, f[k]))
	}
	return out
}
