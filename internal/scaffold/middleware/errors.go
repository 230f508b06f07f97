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
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/innovationmech/scaffold/internal/scaffold/types"
	"github.com/innovationmech/scaffold/pkg/logger"
)

// Outcome is what the boundary does for one mapped error.
type Outcome struct {
	Status int
	Body   types.Response[any]
	Level  zapcore.Level
	// Stack requests a stack trace in the log record.
	Stack bool
}

// KindHandler maps an error of one kind to an Outcome.
type KindHandler func(err error) Outcome

// ValidationHandler answers 400 and logs at WARN.
func ValidationHandler(err error) Outcome {
	return Outcome{
		Status: http.StatusBadRequest,
		Body:   types.Fail(types.CodeBadRequest, messageOr(err, types.DefaultValidationMessage)),
		Level:  zapcore.WarnLevel,
	}
}

// NotFoundHandler answers 404 and logs at WARN.
func NotFoundHandler(err error) Outcome {
	return Outcome{
		Status: http.StatusNotFound,
		Body:   types.Fail(types.CodeNotFound, messageOr(err, types.DefaultNotFoundMessage)),
		Level:  zapcore.WarnLevel,
	}
}

// InternalHandler answers 500 and logs at ERROR with a stack trace.
func InternalHandler(err error) Outcome {
	return Outcome{
		Status: http.StatusInternalServerError,
		Body:   types.Fail(types.CodeInternalError, messageOr(err, types.DefaultInternalMessage)),
		Level:  zapcore.ErrorLevel,
		Stack:  true,
	}
}

func messageOr(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	if serviceErr := types.AsServiceError(err); serviceErr != nil {
		if serviceErr.Message != "" {
			return serviceErr.Message
		}
		return fallback
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}

// ErrorMapper converts errors into outcomes. Its table is fixed once built.
type ErrorMapper struct {
	handlers map[types.ErrorKind]KindHandler
}

// MapperOption customizes NewErrorMapper.
type MapperOption func(map[types.ErrorKind]KindHandler)

// WithKindHandler replaces the handler registered for kind.
func WithKindHandler(kind types.ErrorKind, handler KindHandler) MapperOption {
	return func(table map[types.ErrorKind]KindHandler) {
		if handler != nil {
			table[kind] = handler
		}
	}
}

// NewErrorMapper builds a mapper with handlers for validation, not-found
// and internal errors.
func NewErrorMapper(opts ...MapperOption) *ErrorMapper {
	table := map[types.ErrorKind]KindHandler{
		types.KindValidation: ValidationHandler,
		types.KindNotFound:   NotFoundHandler,
		types.KindInternal:   InternalHandler,
	}
	for _, opt := range opts {
		opt(table)
	}
	return &ErrorMapper{handlers: table}
}

// Map returns the outcome for err. Kinds without a handler are internal.
func (m *ErrorMapper) Map(err error) Outcome {
	kind := types.KindOf(err)
	if handler, ok := m.handlers[kind]; ok {
		return handler(err)
	}
	if handler, ok := m.handlers[types.KindInternal]; ok {
		return handler(err)
	}
	return InternalHandler(err)
}

// PanicError wraps a value recovered from a handler panic.
type PanicError struct {
	Value interface{}
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("%v", e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// HandlerOption customizes ErrorHandler.
type HandlerOption func(*errorHandler)

// WithMetrics counts mapped errors by kind.
func WithMetrics(metrics *Metrics) HandlerOption {
	return func(h *errorHandler) {
		h.metrics = metrics
	}
}

// WithReporter forwards errors mapped to 5xx, e.g. to Sentry.
func WithReporter(report func(context.Context, error)) HandlerOption {
	return func(h *errorHandler) {
		h.report = report
	}
}

type errorHandler struct {
	mapper  *ErrorMapper
	log     *zap.Logger
	metrics *Metrics
	report  func(context.Context, error)
}

// ErrorHandler is the single place errors become responses. Handlers report
// failures with c.Error and return; ErrorHandler maps the last error, writes
// one log record and one envelope. Panics are recovered as *PanicError.
// A nil log uses the global logger at the time of each request.
func ErrorHandler(mapper *ErrorMapper, log *zap.Logger, opts ...HandlerOption) gin.HandlerFunc {
	if mapper == nil {
		mapper = NewErrorMapper()
	}
	h := &errorHandler{mapper: mapper, log: log}
	for _, opt := range opts {
		opt(h)
	}

	return func(c *gin.Context) {
		defer func() {
			if rval := recover(); rval != nil {
				panicErr := &PanicError{Value: rval, Stack: debug.Stack()}
				_ = c.Error(panicErr)
				h.handle(c, panicErr)
			}
		}()

		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		h.handle(c, c.Errors.Last().Err)
	}
}

func (h *errorHandler) logger() *zap.Logger {
	if h.log != nil {
		return h.log
	}
	return logger.GetLogger()
}

func (h *errorHandler) handle(c *gin.Context, err error) {
	outcome := h.mapper.Map(err)
	kind := types.KindOf(err)

	line := RequestContextFrom(c).LogLine(err)
	if ce := h.logger().Check(outcome.Level, line); ce != nil {
		fields := []zap.Field{
			zap.String("kind", kind.String()),
			zap.Int("status", outcome.Status),
		}
		if requestID := c.GetString(RequestIDContextKey); requestID != "" {
			fields = append(fields, zap.String("request_id", requestID))
		}
		if userID, ok := CurrentUserID(c); ok {
			fields = append(fields, zap.String("user_id", userID))
		}
		if serviceErr := types.AsServiceError(err); serviceErr != nil && serviceErr.Code != 0 {
			fields = append(fields, zap.Int("code", serviceErr.Code))
		}
		if outcome.Stack {
			if panicErr, ok := err.(*PanicError); ok {
				fields = append(fields, zap.ByteString("stack", panicErr.Stack))
			} else {
				fields = append(fields, zap.Stack("stack"))
			}
		}
		ce.Write(fields...)
	}

	if h.metrics != nil {
		h.metrics.ObserveError(kind)
	}
	if h.report != nil && outcome.Status >= http.StatusInternalServerError {
		h.report(c.Request.Context(), err)
	}

	if c.Writer.Written() {
		c.Abort()
		return
	}
	c.AbortWithStatusJSON(outcome.Status, outcome.Body)
}
