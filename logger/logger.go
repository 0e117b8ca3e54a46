package logger

import (
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log configures the process logger.
type Log struct {
	LogLevel zapcore.Level `envconfig:"LEVEL"`
	// Sink is a file path; empty means stderr.
	Sink string `envconfig:"SINK"`
}

// NewLogger builds a console logger named after the component. The returned
// close func flushes the logger and closes the sink file, if any.
func NewLogger(cfg Log, name string) (*zap.Logger, func() error, error) {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	var (
		ws   zapcore.WriteSyncer = zapcore.Lock(os.Stderr)
		sink *os.File
	)
	if cfg.Sink != "" {
		f, err := os.OpenFile(cfg.Sink, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "open log sink %s", cfg.Sink)
		}
		sink = f
		ws = zapcore.Lock(f)
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), ws, zap.NewAtomicLevelAt(cfg.LogLevel))
	log := zap.New(core, zap.AddCaller()).Named(name)

	closeFn := func() error {
		_ = log.Sync() // stderr sync fails on terminals
		if sink != nil {
			return sink.Close()
		}
		return nil
	}
	return log, closeFn, nil
}
