// Package logger provides structured, component-scoped logging for the
// orchestrator, built on pterm the same way the upstream build tool logs.
package logger

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
)

// argsToLoggerArgs converts a flat key/value variadic list into pterm logger
// arguments.
func argsToLoggerArgs(args ...any) []pterm.LoggerArgument {
	if len(args) == 0 {
		return nil
	}

	var loggerArgs []pterm.LoggerArgument

	for i := 0; i < len(args)-1; i += 2 {
		key := fmt.Sprintf("%v", args[i])
		value := args[i+1]
		loggerArgs = append(loggerArgs, pterm.LoggerArgument{
			Key:   key,
			Value: value,
		})
	}

	return loggerArgs
}

var (
	// MultiPrinter is the shared multiprinter the logger writes through.
	MultiPrinter = pterm.DefaultMultiPrinter
	ptermLogger  = pterm.DefaultLogger.
			WithLevel(pterm.LogLevelInfo).
			WithWriter(MultiPrinter.Writer).
			WithCaller(false).
			WithTime(true).
			WithKeyStyles(map[string]pterm.Style{
			// Package identity - Green
			"name":         *pterm.NewStyle(pterm.FgGreen),
			"version":      *pterm.NewStyle(pterm.FgGreen),
			"arch":         *pterm.NewStyle(pterm.FgGreen),
			"distribution": *pterm.NewStyle(pterm.FgGreen),
			"base":         *pterm.NewStyle(pterm.FgGreen),
			// Counts and timing - Blue
			"count":    *pterm.NewStyle(pterm.FgBlue),
			"duration": *pterm.NewStyle(pterm.FgBlue),
			"exitCode": *pterm.NewStyle(pterm.FgBlue),
			// Paths and invocations - Light blue
			"path":       *pterm.NewStyle(pterm.FgLightBlue),
			"file":       *pterm.NewStyle(pterm.FgLightBlue),
			"repository": *pterm.NewStyle(pterm.FgLightBlue),
			"tool":       *pterm.NewStyle(pterm.FgLightBlue),
			"args":       *pterm.NewStyle(pterm.FgLightBlue),
			// Status - Cyan
			"operation": *pterm.NewStyle(pterm.FgCyan),
			"hash":      *pterm.NewStyle(pterm.FgCyan),
		})
	// Logger is the global logger instance.
	Logger         = &WpkgLogger{ptermLogger: ptermLogger}
	colorDisabled  = false
	verboseEnabled = false
)

// WpkgLogger is the orchestrator-wide logger.
type WpkgLogger struct {
	ptermLogger *pterm.Logger
}

// Info logs an informational message.
func (l *WpkgLogger) Info(msg string, args ...any) {
	l.ptermLogger.Info(msg, argsToLoggerArgs(args...))
}

// Debug logs a debug message. A no-op unless verbose logging is enabled.
func (l *WpkgLogger) Debug(msg string, args ...any) {
	if !verboseEnabled {
		return
	}

	l.ptermLogger.Debug(msg, argsToLoggerArgs(args...))
}

// Warn logs a warning message.
func (l *WpkgLogger) Warn(msg string, args ...any) {
	l.ptermLogger.Warn(msg, argsToLoggerArgs(args...))
}

// Error logs an error message.
func (l *WpkgLogger) Error(msg string, args ...any) {
	l.ptermLogger.Error(msg, argsToLoggerArgs(args...))
}

// Args converts arguments to pterm logger arguments, for callers that build
// an argument slice once and reuse it.
func (l *WpkgLogger) Args(args ...any) []pterm.LoggerArgument {
	return argsToLoggerArgs(args...)
}

// SetVerbose configures logger verbosity; Debug is silent unless this is set.
func SetVerbose(verbose bool) {
	verboseEnabled = verbose
	if verbose {
		ptermLogger = ptermLogger.WithLevel(pterm.LogLevelTrace)
	} else {
		ptermLogger = ptermLogger.WithLevel(pterm.LogLevelInfo)
	}

	Logger.ptermLogger = ptermLogger
}

// ComponentLogger prefixes every message with a subsystem name, e.g.
// "archive", "resolver", "sync".
type ComponentLogger struct {
	Component   string
	ptermLogger *pterm.Logger
}

// WithComponent creates a ComponentLogger for the named subsystem.
func WithComponent(component string) *ComponentLogger {
	return &ComponentLogger{
		Component:   component,
		ptermLogger: ptermLogger,
	}
}

// Info logs an informational message with the component prefix.
func (cl *ComponentLogger) Info(msg string, args ...any) {
	cl.ptermLogger.Info(fmt.Sprintf("[%s] %s", cl.Component, msg), argsToLoggerArgs(args...))
}

// Debug logs a debug message with the component prefix. It goes through the
// package logger so the level set by SetVerbose applies.
func (cl *ComponentLogger) Debug(msg string, args ...any) {
	if !verboseEnabled {
		return
	}

	ptermLogger.Debug(fmt.Sprintf("[%s] %s", cl.Component, msg), argsToLoggerArgs(args...))
}

// Warn logs a warning message with the component prefix.
func (cl *ComponentLogger) Warn(msg string, args ...any) {
	cl.ptermLogger.Warn(fmt.Sprintf("[%s] %s", cl.Component, msg), argsToLoggerArgs(args...))
}

// Error logs an error message with the component prefix.
func (cl *ComponentLogger) Error(msg string, args ...any) {
	cl.ptermLogger.Error(fmt.Sprintf("[%s] %s", cl.Component, msg), argsToLoggerArgs(args...))
}

// IsColorDisabled reports whether color output should be suppressed.
func IsColorDisabled() bool {
	if colorDisabled {
		return true
	}

	if os.Getenv("NO_COLOR") != "" {
		return true
	}

	return os.Getenv("COLORTERM") == "" && os.Getenv("TERM") == ""
}

// SetColorDisabled enables or disables color output.
func SetColorDisabled(disabled bool) {
	colorDisabled = disabled

	if disabled {
		pterm.DisableColor()
	} else {
		pterm.EnableColor()
	}
}

// Info logs an informational message using the global logger.
func Info(msg string, args ...any) { Logger.Info(msg, args...) }

// Debug logs a debug message using the global logger.
func Debug(msg string, args ...any) { Logger.Debug(msg, args...) }

// Warn logs a warning message using the global logger.
func Warn(msg string, args ...any) { Logger.Warn(msg, args...) }

// Error logs an error message using the global logger.
func Error(msg string, args ...any) { Logger.Error(msg, args...) }
