// Package voltlog is a thin structured-logging shim over
// go.uber.org/zap, grounded on packetd's logger package. The engine
// and client packages depend on the small Logger interface below, not
// on zap directly, so a caller can supply any compatible logger.
package voltlog

import "go.uber.org/zap"

// Logger is the logging surface the rest of this module depends on.
type Logger interface {
	Debugw(msg string, keysAndValues ...any)
	Infow(msg string, keysAndValues ...any)
	Warnw(msg string, keysAndValues ...any)
	Errorw(msg string, keysAndValues ...any)
}

// Nop discards everything. It's the default when a caller doesn't
// supply a Logger.
var Nop Logger = nopLogger{}

type nopLogger struct{}

func (nopLogger) Debugw(string, ...any) {}
func (nopLogger) Infow(string, ...any)  {}
func (nopLogger) Warnw(string, ...any)  {}
func (nopLogger) Errorw(string, ...any) {}

// Zap adapts a *zap.SugaredLogger to Logger.
func Zap(l *zap.SugaredLogger) Logger {
	return zapLogger{l}
}

type zapLogger struct {
	s *zap.SugaredLogger
}

func (z zapLogger) Debugw(msg string, kv ...any) { z.s.Debugw(msg, kv...) }
func (z zapLogger) Infow(msg string, kv ...any)  { z.s.Infow(msg, kv...) }
func (z zapLogger) Warnw(msg string, kv ...any)  { z.s.Warnw(msg, kv...) }
func (z zapLogger) Errorw(msg string, kv ...any) { z.s.Errorw(msg, kv...) }

// NewProduction builds a ready-to-use Logger backed by zap's
// production configuration (JSON encoding, info level).
func NewProduction() (Logger, error) {
	base, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return Zap(base.Sugar()), nil
}
