package logger

import (
	"io"
	"log"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type FileRotate struct {
	Enable     bool
	Filename   string // e.g. logs/roombooking.log
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type Options struct {
	Level       string // debug / info / warn / error
	JSON        bool
	AddCaller   bool
	Development bool
	Rotate      FileRotate
	// Out defaults to stdout.
	Out zapcore.WriteSyncer
}

func New(level string, json bool) (*zap.Logger, func()) {
	return Build(Options{
		Level:       level,
		JSON:        json,
		AddCaller:   true,
		Development: !json,
	})
}

func NewWithRotate(level string, json bool, rotate FileRotate) (*zap.Logger, func()) {
	rotate.Enable = true
	return Build(Options{
		Level:       level,
		JSON:        json,
		AddCaller:   true,
		Development: !json,
		Rotate:      rotate,
	})
}

func Build(opt Options) (*zap.Logger, func()) {
	var lvl zapcore.Level
	if err := lvl.Set(opt.Level); err != nil {
		lvl = zapcore.InfoLevel
	}

	var enc zapcore.Encoder
	if opt.JSON {
		cfg := zap.NewProductionEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.TimeKey = "ts"
		cfg.EncodeCaller = zapcore.ShortCallerEncoder
		enc = zapcore.NewJSONEncoder(cfg)
	} else {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.EncodeCaller = zapcore.ShortCallerEncoder
		enc = zapcore.NewConsoleEncoder(cfg)
	}

	out := opt.Out
	if out == nil {
		out = zapcore.AddSync(os.Stdout)
	}
	cores := []zapcore.Core{zapcore.NewCore(enc, out, lvl)}

	var rotator *lumberjack.Logger
	if opt.Rotate.Enable && opt.Rotate.Filename != "" {
		rotator = &lumberjack.Logger{
			Filename:   opt.Rotate.Filename,
			MaxSize:    max(1, opt.Rotate.MaxSizeMB),
			MaxBackups: max(0, opt.Rotate.MaxBackups),
			MaxAge:     max(0, opt.Rotate.MaxAgeDays),
			Compress:   opt.Rotate.Compress,
		}
		cores = append(cores, zapcore.NewCore(enc, zapcore.AddSync(rotWriter{rotator}), lvl))
	}

	sampled := zapcore.NewSamplerWithOptions(zapcore.NewTee(cores...), time.Second, 100, 100)

	var opts []zap.Option
	if opt.AddCaller {
		opts = append(opts, zap.AddCaller())
	}
	if opt.Development {
		opts = append(opts, zap.Development())
	}
	l := zap.New(sampled, opts...)
	cleanup := func() {
		_ = l.Sync()
		if rotator != nil {
			_ = rotator.Close()
		}
	}
	return l, cleanup
}

type rotWriter struct{ *lumberjack.Logger }

func (w rotWriter) Write(p []byte) (n int, err error) { return w.Logger.Write(p) }
func (w rotWriter) Sync() error                       { return nil }

type zapIOWriter struct {
	l     *zap.Logger
	level zapcore.Level
}

func (w *zapIOWriter) Write(p []byte) (int, error) {
	msg := strings.TrimRight(string(p), "\r\n")
	if ce := w.l.Check(w.level, msg); ce != nil {
		ce.Write()
	}
	return len(p), nil
}

// ToWriter adapts l to an io.Writer, one entry per Write.
func ToWriter(l *zap.Logger, level zapcore.Level) io.Writer {
	return &zapIOWriter{l: l, level: level}
}

func ToStdLogger(l *zap.Logger, level zapcore.Level) (*log.Logger, error) {
	return zap.NewStdLogAt(l, level)
}

func RedirectStdLog(l *zap.Logger, level zapcore.Level) func() {
	undo, err := zap.RedirectStdLogAt(l, level)
	if err != nil {
		return func() {}
	}
	return undo
}
