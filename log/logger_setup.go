package log

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	errSubloggerConfigIsNil  = errors.New("sublogger config is nil")
	errUnhandledOutputWriter = errors.New("unhandled output writer")
	errSubLoggerNotFound     = errors.New("sub logger not found")
)

func boolPtr(b bool) *bool {
	return &b
}

func getWriters(s *SubLoggerConfig) (io.Writer, error) {
	if s == nil {
		return nil, errSubloggerConfigIsNil
	}
	mw, err := MultiWriter()
	if err != nil {
		return nil, err
	}
	outputWriters := strings.Split(s.Output, "|")
	for x := range outputWriters {
		var writer io.Writer
		switch strings.ToLower(strings.TrimSpace(outputWriters[x])) {
		case "stdout", "console", "":
			writer = os.Stdout
		case "stderr":
			writer = os.Stderr
		default:
			return nil, fmt.Errorf("%w: %s", errUnhandledOutputWriter, outputWriters[x])
		}
		err = mw.Add(writer)
		if err != nil {
			return nil, err
		}
	}
	return mw, nil
}

// GenDefaultSettings return struct with known sane/working logger settings
func GenDefaultSettings() Config {
	return Config{
		Enabled: boolPtr(true),
		SubLoggerConfig: SubLoggerConfig{
			Level:  defaultLevels,
			Output: "console",
		},
		AdvancedSettings: advancedSettings{
			ShowLogSystemName: boolPtr(true),
			Spacer:            spacer,
			TimeStampFormat:   timestampFormat,
			Headers: headers{
				Info:  "[INFO]",
				Warn:  "[WARN]",
				Debug: "[DEBUG]",
				Error: "[ERROR]",
			},
		},
	}
}

func newLogger(c *Config) Logger {
	l := Logger{
		Enabled:         c.Enabled == nil || *c.Enabled,
		TimestampFormat: c.AdvancedSettings.TimeStampFormat,
		Spacer:          c.AdvancedSettings.Spacer,
		InfoHeader:      c.AdvancedSettings.Headers.Info,
		ErrorHeader:     c.AdvancedSettings.Headers.Error,
		DebugHeader:     c.AdvancedSettings.Headers.Debug,
		WarnHeader:      c.AdvancedSettings.Headers.Warn,
	}
	if c.AdvancedSettings.ShowLogSystemName != nil {
		l.ShowLogSystemName = *c.AdvancedSettings.ShowLogSystemName
	}
	return l
}

// fillDefaults replaces zero values in the advanced settings so a partially
// specified config still produces readable output
func (c *Config) fillDefaults() {
	def := GenDefaultSettings()
	if c.Level == "" {
		c.Level = def.Level
	}
	if c.Output == "" {
		c.Output = def.Output
	}
	if c.AdvancedSettings.ShowLogSystemName == nil {
		c.AdvancedSettings.ShowLogSystemName = def.AdvancedSettings.ShowLogSystemName
	}
	if c.AdvancedSettings.Spacer == "" {
		c.AdvancedSettings.Spacer = def.AdvancedSettings.Spacer
	}
	if c.AdvancedSettings.TimeStampFormat == "" {
		c.AdvancedSettings.TimeStampFormat = def.AdvancedSettings.TimeStampFormat
	}
	h := &c.AdvancedSettings.Headers
	if h.Info == "" {
		h.Info = def.AdvancedSettings.Headers.Info
	}
	if h.Warn == "" {
		h.Warn = def.AdvancedSettings.Headers.Warn
	}
	if h.Debug == "" {
		h.Debug = def.AdvancedSettings.Headers.Debug
	}
	if h.Error == "" {
		h.Error = def.AdvancedSettings.Headers.Error
	}
}

func configureSubLogger(subLogger, levels string, output io.Writer) error {
	logPtr, found := subLoggers[subLogger]
	if !found {
		return fmt.Errorf("%w: %v", errSubLoggerNotFound, subLogger)
	}
	logPtr.output = output
	logPtr.levels = splitLevel(levels)
	return nil
}

// SetupSubLoggers configure all sub loggers with provided configuration values
func SetupSubLoggers(s []SubLoggerConfig) error {
	mu.Lock()
	defer mu.Unlock()
	var errs error
	for x := range s {
		output, err := getWriters(&s[x])
		if err != nil {
			errs = errors.Join(errs, err)
			continue
		}
		err = configureSubLogger(strings.ToUpper(s[x].Name), s[x].Level, output)
		if err != nil {
			errs = errors.Join(errs, err)
		}
	}
	return errs
}

// SetupGlobalLogger applies the config to every sub logger and then applies
// any per sub logger overrides
func SetupGlobalLogger(c *Config) error {
	if c == nil {
		def := GenDefaultSettings()
		c = &def
	}
	c.fillDefaults()
	output, err := getWriters(&c.SubLoggerConfig)
	if err != nil {
		return err
	}
	mu.Lock()
	globalLogConfig = *c
	for _, sl := range subLoggers {
		sl.levels = splitLevel(c.Level)
		sl.output = output
	}
	logger = newLogger(c)
	mu.Unlock()
	return SetupSubLoggers(c.SubLoggers)
}

func splitLevel(level string) (l Levels) {
	enabledLevels := strings.Split(level, "|")
	for x := range enabledLevels {
		switch strings.ToUpper(strings.TrimSpace(enabledLevels[x])) {
		case "DEBUG":
			l.Debug = true
		case "INFO":
			l.Info = true
		case "WARN":
			l.Warn = true
		case "ERROR":
			l.Error = true
		}
	}
	return
}

func registerNewSubLogger(subLogger string) *SubLogger {
	temp := SubLogger{
		name:   strings.ToUpper(subLogger),
		output: os.Stdout,
		levels: splitLevel(defaultLevels),
	}
	subLoggers[temp.name] = &temp
	return &temp
}

// register all loggers at package init()
func init() {
	Global = registerNewSubLogger("LOG")
	BackTester = registerNewSubLogger("BACKTESTER")
	Signals = registerNewSubLogger("SIGNALS")
	Trading = registerNewSubLogger("TRADING")
	DataSource = registerNewSubLogger("DATASOURCE")
	Database = registerNewSubLogger("DATABASE")
	ConfigMgr = registerNewSubLogger("CONFIG")
	Engine = registerNewSubLogger("ENGINE")

	logger = newLogger(&globalLogConfig)
}
