package logging

import (
	"fmt"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type impl struct {
	name  string
	level AtomicLevel

	mu    sync.RWMutex
	cores []zapcore.Core
	sugar *zap.SugaredLogger
}

func newImpl(name string, level Level, cores ...zapcore.Core) *impl {
	imp := &impl{name: name, level: NewAtomicLevelAt(level), cores: cores}
	imp.sugar = imp.build(zap.AddCallerSkip(1))
	return imp
}

// build must be called with mu held or before the logger is shared.
func (imp *impl) build(opts ...zap.Option) *zap.SugaredLogger {
	opts = append([]zap.Option{zap.AddCaller()}, opts...)
	return zap.New(zapcore.NewTee(imp.cores...), opts...).Named(imp.name).Sugar()
}

func (imp *impl) AddAppender(appender zapcore.Core) {
	imp.mu.Lock()
	defer imp.mu.Unlock()
	imp.cores = append(imp.cores, appender)
	imp.sugar = imp.build(zap.AddCallerSkip(1))
}

func (imp *impl) SetLevel(level Level) {
	imp.level.Set(level)
}

func (imp *impl) GetLevel() Level {
	return imp.level.Get()
}

func (imp *impl) Sublogger(subname string) Logger {
	newName := subname
	if imp.name != "" {
		newName = fmt.Sprintf("%s.%s", imp.name, subname)
	}

	imp.mu.RLock()
	cores := append([]zapcore.Core(nil), imp.cores...)
	imp.mu.RUnlock()
	return newImpl(newName, imp.level.Get(), cores...)
}

// AsZap returns a zap logger fixed at the current level of this logger.
func (imp *impl) AsZap() *zap.SugaredLogger {
	imp.mu.RLock()
	defer imp.mu.RUnlock()
	return imp.build(zap.IncreaseLevel(imp.level.Get().AsZap()))
}

func (imp *impl) Sync() error {
	imp.mu.RLock()
	defer imp.mu.RUnlock()
	var errs []error
	for _, core := range imp.cores {
		if err := core.Sync(); err != nil {
			errs = append(errs, err)
		}
	}

	return multierr.Combine(errs...)
}

func (imp *impl) logger(logLevel Level) *zap.SugaredLogger {
	if logLevel < imp.level.Get() {
		return nil
	}
	imp.mu.RLock()
	defer imp.mu.RUnlock()
	return imp.sugar
}

func (imp *impl) Debug(args ...interface{}) {
	if l := imp.logger(DEBUG); l != nil {
		l.Debug(args...)
	}
}

func (imp *impl) Debugf(template string, args ...interface{}) {
	if l := imp.logger(DEBUG); l != nil {
		l.Debugf(template, args...)
	}
}

func (imp *impl) Debugw(msg string, keysAndValues ...interface{}) {
	if l := imp.logger(DEBUG); l != nil {
		l.Debugw(msg, keysAndValues...)
	}
}

func (imp *impl) Info(args ...interface{}) {
	if l := imp.logger(INFO); l != nil {
		l.Info(args...)
	}
}

func (imp *impl) Infof(template string, args ...interface{}) {
	if l := imp.logger(INFO); l != nil {
		l.Infof(template, args...)
	}
}

func (imp *impl) Infow(msg string, keysAndValues ...interface{}) {
	if l := imp.logger(INFO); l != nil {
		l.Infow(msg, keysAndValues...)
	}
}

func (imp *impl) Warn(args ...interface{}) {
	if l := imp.logger(WARN); l != nil {
		l.Warn(args...)
	}
}

func (imp *impl) Warnf(template string, args ...interface{}) {
	if l := imp.logger(WARN); l != nil {
		l.Warnf(template, args...)
	}
}

func (imp *impl) Warnw(msg string, keysAndValues ...interface{}) {
	if l := imp.logger(WARN); l != nil {
		l.Warnw(msg, keysAndValues...)
	}
}

func (imp *impl) Error(args ...interface{}) {
	if l := imp.logger(ERROR); l != nil {
		l.Error(args...)
	}
}

func (imp *impl) Errorf(template string, args ...interface{}) {
	if l := imp.logger(ERROR); l != nil {
		l.Errorf(template, args...)
	}
}

func (imp *impl) Errorw(msg string, keysAndValues ...interface{}) {
	if l := imp.logger(ERROR); l != nil {
		l.Errorw(msg, keysAndValues...)
	}
}

// These Fatal* methods log as errors then exit the process.
func (imp *impl) Fatal(args ...interface{}) {
	imp.logger(ERROR).Fatal(args...)
}

func (imp *impl) Fatalf(template string, args ...interface{}) {
	imp.logger(ERROR).Fatalf(template, args...)
}

func (imp *impl) Fatalw(msg string, keysAndValues ...interface{}) {
	imp.logger(ERROR).Fatalw(msg, keysAndValues...)
}
