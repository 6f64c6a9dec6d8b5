// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🕐 TimeFormat is the timestamp layout of every log line
const TimeFormat = "2006-01-02 15:04:05"

// 🎯 Logger writes the run log. Every entry becomes exactly one line of the
// form "<timestamp> [<LEVEL>] <message>" appended to the sink, and is
// mirrored to the console with a level-appropriate presentation. The mutex
// plus the single buffered write per entry keep concurrent workers from
// interleaving partial lines.
type Logger struct {
	zlog    zerolog.Logger
	file    *os.File  // owned when created via Open, nil otherwise
	console io.Writer // nil disables console mirroring
	mu      sync.Mutex
}

// 🏭 New creates a logger writing formatted lines to sink. A nil console
// disables terminal mirroring, which is what tests usually want.
func New(sink io.Writer, console io.Writer, level zerolog.Level) *Logger {
	cw := zerolog.ConsoleWriter{
		Out:        sink,
		NoColor:    true,
		TimeFormat: TimeFormat,
		FormatLevel: func(i interface{}) string {
			if s, ok := i.(string); ok {
				return "[" + strings.ToUpper(s) + "]"
			}
			return "[INFO]"
		},
	}
	zlog := zerolog.New(cw).With().Timestamp().Logger().Level(level)
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// 🏭 Open creates a logger appending to the file at path, creating parent
// directories as needed. The returned logger owns the file handle.
func Open(path string, console io.Writer, level zerolog.Level) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, errors.Errorf("opening log file: %w", err)
	}
	l := New(f, console, level)
	l.file = f
	return l, nil
}

// 🚪 Close closes the underlying log file if this logger owns one
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	if err := l.file.Close(); err != nil {
		return errors.Errorf("closing log file: %w", err)
	}
	return nil
}

// 📝 log writes one entry to the file sink and mirrors it to the console
func (l *Logger) log(level zerolog.Level, printer pterm.PrefixPrinter, msg string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	l.zlog.WithLevel(level).Msg(msg)

	if l.console != nil {
		printer.WithWriter(l.console).Println(msg)
	}
}

// 📝 Debug logs a debug message
func (l *Logger) Debug(msg string) {
	l.log(zerolog.DebugLevel, pterm.Debug, msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.log(zerolog.InfoLevel, pterm.Info, msg)
}

// 📝 Warn logs a warning message
func (l *Logger) Warn(msg string) {
	l.log(zerolog.WarnLevel, pterm.Warning, msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.log(zerolog.ErrorLevel, pterm.Error, msg)
}

// 📝 Success logs a success message. The file line is plain INFO, the
// console gets the success presentation.
func (l *Logger) Success(msg string) {
	l.log(zerolog.InfoLevel, pterm.Success, msg)
}

// 📝 Debugf logs a formatted debug message
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.Debug(fmt.Sprintf(format, args...))
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warnf logs a formatted warning message
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.Warn(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
