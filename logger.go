package geocache

// Fields is a minimal structured field map for logs.
type Fields map[string]any

// Logger is a tiny leveled logger. Provide an adapter around your logging stack
// (see log/zap, log/logrus, log/slog). A nil Logger in Options disables logging.
type Logger interface {
	Debug(msg string, f Fields)
	Info(msg string, f Fields)
	Warn(msg string, f Fields)
	Error(msg string, f Fields)
}

// DebugEnabler is implemented by loggers that can tell whether a Debug record
// would be written. The cache skips building debug fields when it reports false.
type DebugEnabler interface {
	DebugEnabled() bool
}

func debugEnabled(l Logger) bool {
	switch l := l.(type) {
	case NopLogger:
		return false
	case DebugEnabler:
		return l.DebugEnabled()
	}
	return true
}

type NopLogger struct{}

func (NopLogger) Debug(string, Fields) {}
func (NopLogger) Info(string, Fields)  {}
func (NopLogger) Warn(string, Fields)  {}
func (NopLogger) Error(string, Fields) {}

// cacheLogger stamps every record with the owning cache's name.
type cacheLogger struct {
	name  string
	inner Logger
}

func withCache(l Logger, name string) Logger {
	if _, ok := l.(NopLogger); ok {
		return l
	}
	return cacheLogger{name: name, inner: l}
}

func (l cacheLogger) DebugEnabled() bool { return debugEnabled(l.inner) }

func (l cacheLogger) fields(f Fields) Fields {
	out := make(Fields, len(f)+1)
	for k, v := range f {
		out[k] = v
	}
	out["cache"] = l.name
	return out
}

func (l cacheLogger) Debug(msg string, f Fields) { l.inner.Debug(msg, l.fields(f)) }
func (l cacheLogger) Info(msg string, f Fields)  { l.inner.Info(msg, l.fields(f)) }
func (l cacheLogger) Warn(msg string, f Fields)  { l.inner.Warn(msg, l.fields(f)) }
func (l cacheLogger) Error(msg string, f Fields) { l.inner.Error(msg, l.fields(f)) }
