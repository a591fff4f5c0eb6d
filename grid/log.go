package grid

import (
	"sync/atomic"
	"time"
)

// ModeFlag is a log severity.  Messages below the current mode are dropped.
type ModeFlag uint32

const (
	DebugMode ModeFlag = iota
	InfoMode
	WarningMode
	ErrorMode
	CriticalMode
	SilentMode
)

var mode atomic.Uint32

func init() {
	mode.Store(uint32(InfoMode))
}

// Logger receives formatted messages, one method per severity.  Shutdown flushes and
// closes whatever the logger writes to.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warningf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Criticalf(format string, args ...interface{})
	Shutdown()
}

// SetLogMode sets the lowest severity that is logged.  SilentMode drops everything.
func SetLogMode(newMode ModeFlag) {
	mode.Store(uint32(newMode))
}

// LogMode returns the lowest severity that is logged.
func LogMode() ModeFlag {
	return ModeFlag(mode.Load())
}

func enabled(severity ModeFlag) bool {
	return LogMode() <= severity
}

func Debugf(format string, args ...interface{}) {
	if enabled(DebugMode) {
		logger.Debugf(format, args...)
	}
}

func Infof(format string, args ...interface{}) {
	if enabled(InfoMode) {
		logger.Infof(format, args...)
	}
}

func Warningf(format string, args ...interface{}) {
	if enabled(WarningMode) {
		logger.Warningf(format, args...)
	}
}

func Errorf(format string, args ...interface{}) {
	if enabled(ErrorMode) {
		logger.Errorf(format, args...)
	}
}

func Criticalf(format string, args ...interface{}) {
	if enabled(CriticalMode) {
		logger.Criticalf(format, args...)
	}
}

// Shutdown closes any log file.
func Shutdown() {
	logger.Shutdown()
}

// TimeLog appends the time elapsed since NewTimeLog to each message, e.g.,
//
//	tlog := grid.NewTimeLog()
//	...
//	tlog.Infof("Built %d blocks", n) // "Built 12 blocks: 3.2ms"
type TimeLog struct {
	logger Logger
	start  time.Time
}

func NewTimeLog() TimeLog {
	return TimeLog{logger, time.Now()}
}

func (t TimeLog) timed(args []interface{}) []interface{} {
	return append(args, time.Since(t.start))
}

func (t TimeLog) Debugf(format string, args ...interface{}) {
	if enabled(DebugMode) {
		t.logger.Debugf(format+": %s\n", t.timed(args)...)
	}
}

func (t TimeLog) Infof(format string, args ...interface{}) {
	if enabled(InfoMode) {
		t.logger.Infof(format+": %s\n", t.timed(args)...)
	}
}

func (t TimeLog) Warningf(format string, args ...interface{}) {
	if enabled(WarningMode) {
		t.logger.Warningf(format+": %s\n", t.timed(args)...)
	}
}

func (t TimeLog) Errorf(format string, args ...interface{}) {
	if enabled(ErrorMode) {
		t.logger.Errorf(format+": %s\n", t.timed(args)...)
	}
}
