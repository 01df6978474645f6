package log

import (
	"errors"
	"io"
	"strings"
)

var errNilSubLogger = errors.New("sub logger is nil")

// Name returns the upper case name of the sub logger
func (sl *SubLogger) Name() string {
	if sl == nil {
		return ""
	}
	return sl.name
}

// SetLevels overrides the enabled levels of the sub logger
func (sl *SubLogger) SetLevels(levels string) error {
	if sl == nil {
		return errNilSubLogger
	}
	mu.Lock()
	sl.levels = splitLevel(levels)
	mu.Unlock()
	return nil
}

// SetOutput redirects the sub logger to the supplied writer
func (sl *SubLogger) SetOutput(w io.Writer) error {
	if sl == nil {
		return errNilSubLogger
	}
	mu.Lock()
	sl.output = w
	mu.Unlock()
	return nil
}

// getFields snapshots the sub logger state, must be called under the read lock
func (sl *SubLogger) getFields() *logFields {
	if sl == nil || !logger.Enabled || sl.output == nil {
		return nil
	}
	return &logFields{
		info:   sl.levels.Info,
		warn:   sl.levels.Warn,
		debug:  sl.levels.Debug,
		error:  sl.levels.Error,
		name:   sl.name,
		output: sl.output,
		logger: logger,
	}
}

// FindSubLogger looks up a registered sub logger by name
func FindSubLogger(name string) (*SubLogger, bool) {
	mu.RLock()
	defer mu.RUnlock()
	sl, ok := subLoggers[strings.ToUpper(name)]
	return sl, ok
}
