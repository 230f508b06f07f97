// Copyright © 2025 jackelyj <dreamerlyj@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
//

package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	// Logger is the global logger for the application.
	Logger *zap.Logger
	// mu protects Logger from concurrent access
	mu sync.RWMutex
	// initialized tracks whether logger has been initialized
	initialized bool
	// level is shared by every core so SetLevel applies at runtime.
	level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

// DefaultFilename is the name of the active log file inside Options.Dir.
const DefaultFilename = "app.log"

// Options configures Setup.
type Options struct {
	// Level is the minimum level, e.g. "INFO", "warning", "debug".
	Level string
	// Dir enables file logging into Dir/Filename when set.
	Dir string
	// Filename overrides DefaultFilename.
	Filename string
	// RetentionDays is how long rotated files are kept; 0 keeps them forever.
	RetentionDays int
	// Development switches the console output to zap's development encoder.
	Development bool
}

// InitLogger initializes the global logger safely to prevent race conditions.
func InitLogger() {
	mu.Lock()
	defer mu.Unlock()

	// Only initialize if not already done
	if !initialized || Logger == nil {
		cfg := zap.NewProductionConfig()
		cfg.Level = level
		l, err := cfg.Build()
		if err != nil {
			panic(err)
		}
		Logger = l
		initialized = true
	}
}

// Setup replaces the global logger with one writing to the console and,
// when opts.Dir is set, to a file rotated at local midnight. Rotated files
// are gzip-compressed and removed after opts.RetentionDays days.
// The returned function flushes and releases the outputs.
func Setup(opts Options) (func() error, error) {
	lvl, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	level.SetLevel(lvl)

	encoderConfig := zap.NewProductionEncoderConfig()
	if opts.Development {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("[2006-01-02 15:04:05]")
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.ConsoleSeparator = " "

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.Lock(os.Stderr), level),
	}

	var (
		file    *lumberjack.Logger
		rotator *dailyRotator
	)
	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		name := opts.Filename
		if name == "" {
			name = DefaultFilename
		}
		file = &lumberjack.Logger{
			Filename:  filepath.Join(opts.Dir, name),
			MaxAge:    opts.RetentionDays,
			Compress:  true,
			LocalTime: true,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(file), level))
		rotator = startDailyRotation(file, time.Now)
	}

	l := zap.New(zapcore.NewTee(cores...), zap.AddCaller())

	mu.Lock()
	Logger = l
	initialized = true
	mu.Unlock()

	closer := func() error {
		if rotator != nil {
			rotator.stop()
		}
		// stderr sync errors are expected on some platforms
		_ = l.Sync()
		if file != nil {
			return file.Close()
		}
		return nil
	}
	return closer, nil
}

// GetLogger returns the global logger, initializing it if necessary.
func GetLogger() *zap.Logger {
	mu.RLock()
	if initialized && Logger != nil {
		defer mu.RUnlock()
		return Logger
	}
	mu.RUnlock()

	// Initialize logger if not done yet
	InitLogger()

	mu.RLock()
	defer mu.RUnlock()
	return Logger
}

// ResetLogger resets the logger for testing purposes.
// This should only be used in tests.
func ResetLogger() {
	mu.Lock()
	defer mu.Unlock()

	if Logger != nil {
		_ = Logger.Sync() // Flush any pending log entries
	}
	Logger = nil
	initialized = false
	level.SetLevel(zapcore.InfoLevel)
}

// SetLevel changes the level of the global logger at runtime.
func SetLevel(name string) error {
	lvl, err := ParseLevel(name)
	if err != nil {
		return err
	}
	level.SetLevel(lvl)
	return nil
}

// GetLevel returns the current level name in lower case.
func GetLevel() string {
	return level.Level().String()
}

// ParseLevel parses a level name. Besides zap's names it accepts WARNING and
// CRITICAL; an empty name means info.
func ParseLevel(name string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return zapcore.InfoLevel, nil
	case "warning":
		return zapcore.WarnLevel, nil
	case "critical":
		return zapcore.FatalLevel, nil
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(name)))); err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid log level %q: %w", name, err)
	}
	return lvl, nil
}

// dailyRotator rotates a lumberjack file every local midnight.
type dailyRotator struct {
	file   *lumberjack.Logger
	now    func() time.Time
	stopCh chan struct{}
	done   chan struct{}
	once   sync.Once
}

func startDailyRotation(file *lumberjack.Logger, now func() time.Time) *dailyRotator {
	r := &dailyRotator{
		file:   file,
		now:    now,
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
	go r.run()
	return r
}

func (r *dailyRotator) run() {
	defer close(r.done)
	for {
		timer := time.NewTimer(nextMidnight(r.now()).Sub(r.now()))
		select {
		case <-timer.C:
			if err := r.file.Rotate(); err != nil {
				fmt.Fprintf(os.Stderr, "log rotation failed: %v\n", err)
			}
		case <-r.stopCh:
			timer.Stop()
			return
		}
	}
}

func (r *dailyRotator) stop() {
	r.once.Do(func() {
		close(r.stopCh)
		<-r.done
	})
}

// nextMidnight returns the start of the day after t in t's location.
func nextMidnight(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day+1, 0, 0, 0, 0, t.Location())
}
