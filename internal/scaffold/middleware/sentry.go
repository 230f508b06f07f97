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

package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/getsentry/sentry-go"
)

// SentryOptions configures InitSentry.
type SentryOptions struct {
	DSN         string
	Environment string
	Release     string
	Debug       bool
}

// InitSentry initializes the global Sentry client. An empty DSN leaves
// reporting disabled and returns false.
func InitSentry(opts SentryOptions) (bool, error) {
	if opts.DSN == "" {
		return false, nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              opts.DSN,
		Environment:      opts.Environment,
		Release:          opts.Release,
		Debug:            opts.Debug,
		AttachStacktrace: true,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// SentryReporter sends err to Sentry. It is meant for WithReporter and is a
// no-op until sentry.Init has been called with a DSN.
func SentryReporter(ctx context.Context, err error) {
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	if hub.Client() == nil {
		return
	}

	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("component", "http")
		var panicErr *PanicError
		if errors.As(err, &panicErr) {
			scope.SetLevel(sentry.LevelFatal)
			scope.SetTag("panic", "true")
			scope.SetExtra("stack_trace", string(panicErr.Stack))
		} else {
			scope.SetLevel(sentry.LevelError)
		}
		hub.CaptureException(err)
	})
}

// FlushSentry waits for buffered events, e.g. before shutdown.
func FlushSentry() bool {
	return sentry.Flush(2 * time.Second)
}
