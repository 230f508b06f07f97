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
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvironmentVariable selects which env file Load reads.
const EnvironmentVariable = "ENVIRONMENT"

// Supported environments.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

var envFiles = map[string]string{
	EnvDevelopment: ".env.development",
	EnvProduction:  ".env.production",
	EnvTest:        ".env.test",
}

// EnvFile returns the env file name for environment; unknown environments
// fall back to the development file.
func EnvFile(environment string) string {
	if name, ok := envFiles[environment]; ok {
		return name
	}
	return envFiles[EnvDevelopment]
}

// Settings is the application configuration.
type Settings struct {
	Environment string `mapstructure:"ENVIRONMENT"`

	AppName    string `mapstructure:"APP_NAME"`
	AppVersion string `mapstructure:"APP_VERSION"`
	APIPrefix  string `mapstructure:"API_PREFIX"`
	Debug      bool   `mapstructure:"DEBUG"`

	Host        string `mapstructure:"HOST"`
	Port        int    `mapstructure:"PORT"`
	HTTPTimeout int    `mapstructure:"HTTP_TIMEOUT"`

	AllowOrigins     []string `mapstructure:"ALLOW_ORIGINS"`
	AllowCredentials bool     `mapstructure:"ALLOW_CREDENTIALS"`
	AllowMethods     []string `mapstructure:"ALLOW_METHODS"`
	AllowHeaders     []string `mapstructure:"ALLOW_HEADERS"`

	LogLevel         string `mapstructure:"LOG_LEVEL"`
	StorageDir       string `mapstructure:"STORAGE_DIR"`
	LogsDir          string `mapstructure:"LOGS_DIR"`
	LogRetentionDays int    `mapstructure:"LOG_RETENTION_DAYS"`

	DatabaseURL string `mapstructure:"DATABASE_URL"`

	JWTSecret      string `mapstructure:"JWT_SECRET"`
	SentryDSN      string `mapstructure:"SENTRY_DSN"`
	MetricsEnabled bool   `mapstructure:"METRICS_ENABLED"`

	// EnvFilePath is the env file Load resolved, whether or not it exists.
	EnvFilePath string `mapstructure:"-"`
}

// Addr returns the listen address.
func (s *Settings) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// Timeout returns HTTPTimeout as a duration.
func (s *Settings) Timeout() time.Duration {
	return time.Duration(s.HTTPTimeout) * time.Second
}

// String masks secrets.
func (s *Settings) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "environment=%s app=%s version=%s addr=%s prefix=%s debug=%t",
		s.Environment, s.AppName, s.AppVersion, s.Addr(), s.APIPrefix, s.Debug)
	fmt.Fprintf(&sb, " log_level=%s logs_dir=%s", s.LogLevel, s.LogsDir)
	fmt.Fprintf(&sb, " database=%s jwt_secret=%s sentry=%s", mask(s.DatabaseURL), mask(s.JWTSecret), mask(s.SentryDSN))
	return sb.String()
}

func mask(v string) string {
	if v == "" {
		return "(empty)"
	}
	return "********"
}

func setDefaults(v *viper.Viper, workDir string) {
	storage := filepath.Join(workDir, "storage")

	v.SetDefault("ENVIRONMENT", EnvDevelopment)
	v.SetDefault("APP_NAME", "Scaffold Application")
	v.SetDefault("APP_VERSION", "1.0.0")
	v.SetDefault("API_PREFIX", "/api/v1")
	v.SetDefault("DEBUG", false)
	v.SetDefault("HOST", "0.0.0.0")
	v.SetDefault("PORT", 8000)
	v.SetDefault("HTTP_TIMEOUT", 30)
	v.SetDefault("ALLOW_ORIGINS", []string{"*"})
	v.SetDefault("ALLOW_CREDENTIALS", true)
	v.SetDefault("ALLOW_METHODS", []string{"*"})
	v.SetDefault("ALLOW_HEADERS", []string{"*"})
	v.SetDefault("LOG_LEVEL", "INFO")
	v.SetDefault("STORAGE_DIR", storage)
	v.SetDefault("LOGS_DIR", filepath.Join(storage, "logs"))
	v.SetDefault("LOG_RETENTION_DAYS", 30)
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("SENTRY_DSN", "")
	v.SetDefault("METRICS_ENABLED", true)
}

// Load reads the settings. The env file is chosen from the ENVIRONMENT
// variable and resolved against workDir; process environment variables take
// precedence over the file, which takes precedence over the defaults.
// A missing env file is not an error.
func Load(workDir string) (*Settings, error) {
	if workDir == "" {
		workDir = "."
	}

	environment := os.Getenv(EnvironmentVariable)
	if environment == "" {
		environment = EnvDevelopment
	}
	envFilePath := filepath.Join(workDir, EnvFile(environment))

	v := viper.New()
	setDefaults(v, workDir)
	v.AutomaticEnv()

	values, err := readEnvFile(envFilePath)
	if err != nil {
		return nil, err
	}
	if len(values) > 0 {
		if err := v.MergeConfigMap(values); err != nil {
			return nil, fmt.Errorf("merge %s: %w", envFilePath, err)
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("unable to decode settings: %w", err)
	}
	settings.AllowOrigins = normalizeList(settings.AllowOrigins)
	settings.AllowMethods = normalizeList(settings.AllowMethods)
	settings.AllowHeaders = normalizeList(settings.AllowHeaders)
	settings.EnvFilePath = envFilePath

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &settings, nil
}

// Validate checks values Load cannot coerce.
func (s *Settings) Validate() error {
	if s.Port <= 0 || s.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", s.Port)
	}
	if s.HTTPTimeout < 0 {
		return fmt.Errorf("invalid HTTP_TIMEOUT %d", s.HTTPTimeout)
	}
	if s.LogRetentionDays < 0 {
		return fmt.Errorf("invalid LOG_RETENTION_DAYS %d", s.LogRetentionDays)
	}
	if s.APIPrefix != "" && !strings.HasPrefix(s.APIPrefix, "/") {
		return fmt.Errorf("API_PREFIX must start with '/': %q", s.APIPrefix)
	}
	return nil
}

func readEnvFile(path string) (map[string]interface{}, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	env, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	values := make(map[string]interface{}, len(env))
	for key, value := range env {
		values[key] = value
	}
	return values, nil
}

// normalizeList accepts comma separated values and JSON arrays such as
// ["http://a","http://b"].
func normalizeList(values []string) []string {
	joined := strings.TrimSpace(strings.Join(values, ","))
	if strings.HasPrefix(joined, "[") {
		var decoded []string
		if err := json.Unmarshal([]byte(joined), &decoded); err == nil {
			return decoded
		}
	}

	out := make([]string, 0, len(values))
	for _, value := range strings.Split(joined, ",") {
		if value = strings.TrimSpace(value); value != "" {
			out = append(out, value)
		}
	}
	return out
}
