package log

import (
	"fmt"
	"log"
	"strings"
	"time"
)

// Info takes a pointer subLogger struct and string and writes it at info level
func Info(sl *SubLogger, data string) {
	mu.RLock()
	defer mu.RUnlock()
	fields := sl.getFields()
	fields.stage(fields.header(levelInfo), data)
}

// Infoln takes a pointer subLogger struct and interface and writes it at info level
func Infoln(sl *SubLogger, v ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	fields := sl.getFields()
	fields.stage(fields.header(levelInfo), fmt.Sprintln(v...))
}

// Infof takes a pointer subLogger struct, string and interface and writes the
// formatted result at info level
func Infof(sl *SubLogger, data string, v ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	fields := sl.getFields()
	fields.stage(fields.header(levelInfo), fmt.Sprintf(data, v...))
}

// Debug takes a pointer subLogger struct and string and writes it at debug level
func Debug(sl *SubLogger, data string) {
	mu.RLock()
	defer mu.RUnlock()
	fields := sl.getFields()
	fields.stage(fields.header(levelDebug), data)
}

// Debugln takes a pointer subLogger struct and interface and writes it at debug level
func Debugln(sl *SubLogger, v ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	fields := sl.getFields()
	fields.stage(fields.header(levelDebug), fmt.Sprintln(v...))
}

// Debugf takes a pointer subLogger struct, string and interface and writes the
// formatted result at debug level
func Debugf(sl *SubLogger, data string, v ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	fields := sl.getFields()
	fields.stage(fields.header(levelDebug), fmt.Sprintf(data, v...))
}

// Warn takes a pointer subLogger struct and string and writes it at warn level
func Warn(sl *SubLogger, data string) {
	mu.RLock()
	defer mu.RUnlock()
	fields := sl.getFields()
	fields.stage(fields.header(levelWarn), data)
}

// Warnln takes a pointer subLogger struct and interface and writes it at warn level
func Warnln(sl *SubLogger, v ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	fields := sl.getFields()
	fields.stage(fields.header(levelWarn), fmt.Sprintln(v...))
}

// Warnf takes a pointer subLogger struct, string and interface and writes the
// formatted result at warn level
func Warnf(sl *SubLogger, data string, v ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	fields := sl.getFields()
	fields.stage(fields.header(levelWarn), fmt.Sprintf(data, v...))
}

// Error takes a pointer subLogger struct and string and writes it at error level
func Error(sl *SubLogger, data string) {
	mu.RLock()
	defer mu.RUnlock()
	fields := sl.getFields()
	fields.stage(fields.header(levelError), data)
}

// Errorln takes a pointer subLogger struct and interface and writes it at error level
func Errorln(sl *SubLogger, v ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	fields := sl.getFields()
	fields.stage(fields.header(levelError), fmt.Sprintln(v...))
}

// Errorf takes a pointer subLogger struct, string and interface and writes the
// formatted result at error level
func Errorf(sl *SubLogger, data string, v ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	fields := sl.getFields()
	fields.stage(fields.header(levelError), fmt.Sprintf(data, v...))
}

type level uint8

const (
	levelInfo level = iota
	levelDebug
	levelWarn
	levelError
)

func displayError(err error) {
	if err != nil {
		log.Printf("Logger write error: %v\n", err)
	}
}

// header returns the configured header for the level or an empty string when
// the level is disabled for this sub logger
func (l *logFields) header(lvl level) string {
	if l == nil {
		return ""
	}
	switch lvl {
	case levelInfo:
		if l.info {
			return l.logger.InfoHeader
		}
	case levelDebug:
		if l.debug {
			return l.logger.DebugHeader
		}
	case levelWarn:
		if l.warn {
			return l.logger.WarnHeader
		}
	case levelError:
		if l.error {
			return l.logger.ErrorHeader
		}
	}
	return ""
}

func (l *logFields) stage(header, data string) {
	if l == nil || header == "" {
		return
	}
	var b strings.Builder
	b.WriteString(header)
	b.WriteString(time.Now().Format(l.logger.TimestampFormat))
	if l.logger.ShowLogSystemName {
		b.WriteString(l.name)
		b.WriteString(l.logger.Spacer)
	}
	b.WriteString(data)
	if !strings.HasSuffix(data, "\n") {
		b.WriteByte('\n')
	}
	_, err := l.output.Write([]byte(b.String()))
	displayError(err)
}
