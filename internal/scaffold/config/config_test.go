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

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnvFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestEnvFile(t *testing.T) {
	tests := []struct {
		environment string
		want        string
	}{
		{"development", ".env.development"},
		{"production", ".env.production"},
		{"test", ".env.test"},
		{"staging", ".env.development"},
		{"", ".env.development"},
	}

	for _, tt := range tests {
		t.Run(tt.environment, func(t *testing.T) {
			assert.Equal(t, tt.want, EnvFile(tt.environment))
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv(EnvironmentVariable, "")
	dir := t.TempDir()

	settings, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "development", settings.Environment)
	assert.Equal(t, "Scaffold Application", settings.AppName)
	assert.Equal(t, "1.0.0", settings.AppVersion)
	assert.Equal(t, "/api/v1", settings.APIPrefix)
	assert.Equal(t, 8000, settings.Port)
	assert.Equal(t, 30*time.Second, settings.Timeout())
	assert.Equal(t, []string{"*"}, settings.AllowOrigins)
	assert.Equal(t, "INFO", settings.LogLevel)
	assert.Equal(t, 30, settings.LogRetentionDays)
	assert.Equal(t, filepath.Join(dir, "storage", "logs"), settings.LogsDir)
	assert.Equal(t, filepath.Join(dir, ".env.development"), settings.EnvFilePath)
	assert.Empty(t, settings.DatabaseURL)
}

func TestLoadReadsEnvironmentFile(t *testing.T) {
	t.Setenv(EnvironmentVariable, "test")
	dir := t.TempDir()
	writeEnvFile(t, dir, ".env.test", `
APP_NAME="Inventory"
PORT=9100
DEBUG=true
LOG_LEVEL=DEBUG
ALLOW_ORIGINS=http://a.example,http://b.example
ALLOW_METHODS=["GET","POST"]
`)
	writeEnvFile(t, dir, ".env.development", "APP_NAME=Wrong\n")

	settings, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "test", settings.Environment)
	assert.Equal(t, "Inventory", settings.AppName)
	assert.Equal(t, 9100, settings.Port)
	assert.True(t, settings.Debug)
	assert.Equal(t, "DEBUG", settings.LogLevel)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, settings.AllowOrigins)
	assert.Equal(t, []string{"GET", "POST"}, settings.AllowMethods)
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	t.Setenv(EnvironmentVariable, "production")
	t.Setenv("PORT", "9300")
	dir := t.TempDir()
	writeEnvFile(t, dir, ".env.production", "PORT=9200\nAPP_NAME=Prod\n")

	settings, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 9300, settings.Port)
	assert.Equal(t, "Prod", settings.AppName)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv(EnvironmentVariable, "test")
	dir := t.TempDir()
	writeEnvFile(t, dir, ".env.test", "API_PREFIX=api\n")

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestSettingsStringMasksSecrets(t *testing.T) {
	s := &Settings{Host: "127.0.0.1", Port: 8000, JWTSecret: "top-secret", DatabaseURL: "mysql://root:pw@db/app"}

	out := s.String()
	assert.NotContains(t, out, "top-secret")
	assert.NotContains(t, out, "pw@db")
	assert.Contains(t, out, "addr=127.0.0.1:8000")
	assert.Contains(t, out, "sentry=(empty)")
}

func TestNormalizeList(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{"single", []string{"*"}, []string{"*"}},
		{"comma separated", []string{"a, b ,c"}, []string{"a", "b", "c"}},
		{"split json array", []string{`["a"`, `"b"]`}, []string{"a", "b"}},
		{"drops empty", []string{"a,,b,"}, []string{"a", "b"}},
		{"empty", nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeList(tt.input))
		})
	}
}

func TestWatchReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := writeEnvFile(t, dir, ".env.test", "LOG_LEVEL=INFO\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan *Settings, 1)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path,
			func() (*Settings, error) { return &Settings{LogLevel: "DEBUG"}, nil },
			func(s *Settings) {
				select {
				case changed <- s:
				default:
				}
			})
	}()

	// give the watcher time to register
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("LOG_LEVEL=DEBUG\n"), 0o600))

	select {
	case s := <-changed:
		assert.Equal(t, "DEBUG", s.LogLevel)
	case <-time.After(5 * time.Second):
		t.Fatal("settings were not reloaded")
	}

	cancel()
	assert.NoError(t, <-done)
}
