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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestInitLogger(t *testing.T) {
	originalLogger := Logger

	defer func() {
		Logger = originalLogger
	}()

	Logger = nil

	InitLogger()

	if Logger == nil {
		t.Error("InitLogger() failed: Logger is nil after initialization")
	}

	if Logger.Core() == nil {
		t.Error("InitLogger() failed: Logger core is nil")
	}
}

func TestInitLoggerMultipleCalls(t *testing.T) {
	originalLogger := Logger

	defer func() {
		Logger = originalLogger
	}()

	ResetLogger()

	InitLogger()
	firstLogger := Logger

	InitLogger()
	secondLogger := Logger

	if firstLogger == nil || secondLogger == nil {
		t.Error("InitLogger() failed: Logger is nil after multiple calls")
	}

	if firstLogger != secondLogger {
		t.Error("InitLogger() should return the same logger instance on multiple calls")
	}
}

func TestGetLoggerInitializes(t *testing.T) {
	originalLogger := Logger
	defer func() {
		Logger = originalLogger
	}()

	ResetLogger()
	assert.Nil(t, Logger)

	got := GetLogger()
	assert.NotNil(t, got)
	assert.Same(t, got, Logger)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    zapcore.Level
		wantErr bool
	}{
		{"empty defaults to info", "", zapcore.InfoLevel, false},
		{"upper case info", "INFO", zapcore.InfoLevel, false},
		{"debug", "debug", zapcore.DebugLevel, false},
		{"warning alias", "WARNING", zapcore.WarnLevel, false},
		{"warn", "warn", zapcore.WarnLevel, false},
		{"error", "ERROR", zapcore.ErrorLevel, false},
		{"critical alias", "CRITICAL", zapcore.FatalLevel, false},
		{"padded", "  error ", zapcore.ErrorLevel, false},
		{"unknown", "verbose", zapcore.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSetLevel(t *testing.T) {
	defer ResetLogger()

	require.NoError(t, SetLevel("WARNING"))
	assert.Equal(t, "warn", GetLevel())

	require.NoError(t, SetLevel("debug"))
	assert.Equal(t, "debug", GetLevel())

	assert.Error(t, SetLevel("loud"))
	assert.Equal(t, "debug", GetLevel())
}

func TestSetupWritesLogFile(t *testing.T) {
	originalLogger := Logger
	defer func() {
		ResetLogger()
		Logger = originalLogger
	}()

	dir := filepath.Join(t.TempDir(), "logs")
	closeLogger, err := Setup(Options{Level: "INFO", Dir: dir, RetentionDays: 7})
	require.NoError(t, err)

	Logger.Info("application started")
	Logger.Debug("filtered out")
	require.NoError(t, closeLogger())

	content, err := os.ReadFile(filepath.Join(dir, DefaultFilename))
	require.NoError(t, err)
	assert.Contains(t, string(content), "INFO")
	assert.Contains(t, string(content), "application started")
	assert.NotContains(t, string(content), "filtered out")
}

func TestSetupConsoleOnly(t *testing.T) {
	originalLogger := Logger
	defer func() {
		ResetLogger()
		Logger = originalLogger
	}()

	closeLogger, err := Setup(Options{Level: "debug", Development: true})
	require.NoError(t, err)
	assert.NotNil(t, Logger)
	assert.Equal(t, "debug", GetLevel())
	assert.NoError(t, closeLogger())
}

func TestSetupRejectsInvalidLevel(t *testing.T) {
	_, err := Setup(Options{Level: "chatty"})
	assert.Error(t, err)
}

func TestNextMidnight(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*60*60)
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			"mid day",
			time.Date(2024, 3, 10, 15, 4, 5, 0, loc),
			time.Date(2024, 3, 11, 0, 0, 0, 0, loc),
		},
		{
			"exactly midnight",
			time.Date(2024, 3, 10, 0, 0, 0, 0, loc),
			time.Date(2024, 3, 11, 0, 0, 0, 0, loc),
		},
		{
			"end of year",
			time.Date(2024, 12, 31, 23, 59, 59, 0, loc),
			time.Date(2025, 1, 1, 0, 0, 0, 0, loc),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(nextMidnight(tt.now)))
		})
	}
}
