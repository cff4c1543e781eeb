// Package logrus adapts a *logrus.Entry to geocache.Logger.
package logrus

import (
	"github.com/sirupsen/logrus"
	"github.com/unkn0wn-root/geocache"
)

var (
	_ geocache.Logger       = LogrusLogger{}
	_ geocache.DebugEnabler = LogrusLogger{}
)

type LogrusLogger struct{ E *logrus.Entry }

// New wraps l; a nil l uses logrus.StandardLogger.
func New(l *logrus.Logger) LogrusLogger {
	if l == nil {
		l = logrus.StandardLogger()
	}
	return LogrusLogger{E: logrus.NewEntry(l)}
}

func (l LogrusLogger) Debug(msg string, f geocache.Fields) { l.with(f).Debug(msg) }
func (l LogrusLogger) Info(msg string, f geocache.Fields)  { l.with(f).Info(msg) }
func (l LogrusLogger) Warn(msg string, f geocache.Fields)  { l.with(f).Warn(msg) }
func (l LogrusLogger) Error(msg string, f geocache.Fields) { l.with(f).Error(msg) }

func (l LogrusLogger) DebugEnabled() bool { return l.E.Logger.IsLevelEnabled(logrus.DebugLevel) }

// with maps an "err" field onto logrus' error key so formatters render it.
func (l LogrusLogger) with(f geocache.Fields) *logrus.Entry {
	if len(f) == 0 {
		return l.E
	}
	lf := make(logrus.Fields, len(f))
	for k, v := range f {
		if err, ok := v.(error); ok && k == "err" {
			lf[logrus.ErrorKey] = err
			continue
		}
		lf[k] = v
	}
	return l.E.WithFields(lf)
}
