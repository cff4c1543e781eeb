package main

import (
	"fmt"
	"io"
	stdslog "log/slog"

	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/unkn0wn-root/geocache"
	lrs "github.com/unkn0wn-root/geocache/log/logrus"
	slogadapter "github.com/unkn0wn-root/geocache/log/slog"
	zapadapter "github.com/unkn0wn-root/geocache/log/zap"
)

// newLogger builds the configured backend writing JSON to w. The returned
// func flushes buffered output.
func newLogger(backend, level string, w io.Writer) (geocache.Logger, func(), error) {
	switch backend {
	case "zap":
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, nil, err
		}
		enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
		l := zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), lvl))
		return zapadapter.New(l), func() { _ = l.Sync() }, nil

	case "logrus":
		lvl, err := logrus.ParseLevel(level)
		if err != nil {
			return nil, nil, err
		}
		l := logrus.New()
		l.SetOutput(w)
		l.SetLevel(lvl)
		l.SetFormatter(&logrus.JSONFormatter{})
		return lrs.New(l), func() {}, nil

	case "slog":
		var lvl stdslog.Level
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, nil, err
		}
		h := stdslog.NewJSONHandler(w, &stdslog.HandlerOptions{Level: lvl})
		return slogadapter.New(stdslog.New(h)), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown log backend %q", backend)
}
