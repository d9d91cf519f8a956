package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// ZerologAdapter implements Logger on top of a zerolog.Logger.
type ZerologAdapter struct {
	logger zerolog.Logger
}

func NewZerolog(writer io.Writer, level LogLevel) *ZerologAdapter {
	return &ZerologAdapter{
		logger: zerolog.New(writer).Level(toZerolog(level)).With().Timestamp().Logger(),
	}
}

func NewConsoleLogger(level LogLevel) *ZerologAdapter {
	return NewZerolog(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}, level)
}

// New picks the console writer for "console" and JSON lines otherwise.
func New(format string, level LogLevel) *ZerologAdapter {
	if format == "json" {
		return NewZerolog(os.Stderr, level)
	}
	return NewConsoleLogger(level)
}

func toZerolog(level LogLevel) zerolog.Level {
	switch level {
	case DebugLevel:
		return zerolog.DebugLevel
	case WarnLevel:
		return zerolog.WarnLevel
	case ErrorLevel:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func emit(event *zerolog.Event, component, message string, fields map[string]interface{}) {
	if event == nil {
		return
	}
	event.Str("component", component).Fields(fields).Msg(message)
}

func (z *ZerologAdapter) Debug(component, message string, fields map[string]interface{}) {
	emit(z.logger.Debug(), component, message, fields)
}

func (z *ZerologAdapter) Info(component, message string, fields map[string]interface{}) {
	emit(z.logger.Info(), component, message, fields)
}

func (z *ZerologAdapter) Warning(component, message string, fields map[string]interface{}) {
	emit(z.logger.Warn(), component, message, fields)
}

func (z *ZerologAdapter) Error(component string, err error, fields map[string]interface{}) {
	emit(z.logger.Error().Err(err), component, "operation failed", fields)
}
