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

package types

import (
	"errors"
)

// ErrorKind discriminates the errors business logic may signal.
type ErrorKind int

const (
	// KindInternal is any error that is not a *ServiceError.
	KindInternal ErrorKind = iota
	// KindValidation is a caller-input or business-rule violation.
	KindValidation
	// KindNotFound is a failed lookup.
	KindNotFound
)

// Default messages used when an error carries none.
const (
	DefaultValidationMessage = "处理请求参数验证异常"
	DefaultNotFoundMessage   = "资源不存在"
	DefaultInternalMessage   = "服务器内部错误"
)

// String returns the error class name used in log lines.
func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindNotFound:
		return "NotFoundError"
	default:
		return "UnclassifiedError"
	}
}

// ServiceError is an error signalled by the service layer.
type ServiceError struct {
	Kind    ErrorKind
	Code    int
	Message string
	Cause   error
}

// Error implements the error interface
func (e *ServiceError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause
func (e *ServiceError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a validation error
func NewValidationError(message string) *ServiceError {
	return &ServiceError{Kind: KindValidation, Message: message}
}

// NewValidationErrorWithCode creates a validation error carrying a business code
func NewValidationErrorWithCode(message string, code int) *ServiceError {
	return &ServiceError{Kind: KindValidation, Code: code, Message: message}
}

// NewValidationErrorWithCause creates a validation error with underlying cause
func NewValidationErrorWithCause(message string, cause error) *ServiceError {
	return &ServiceError{Kind: KindValidation, Message: message, Cause: cause}
}

// NewNotFoundError creates a not found error
func NewNotFoundError(message string) *ServiceError {
	if message == "" {
		message = DefaultNotFoundMessage
	}
	return &ServiceError{Kind: KindNotFound, Message: message}
}

// AsServiceError extracts a *ServiceError from err's chain.
func AsServiceError(err error) *ServiceError {
	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) {
		return serviceErr
	}
	return nil
}

// KindOf returns the kind of err; errors outside the taxonomy are KindInternal.
func KindOf(err error) ErrorKind {
	if serviceErr := AsServiceError(err); serviceErr != nil {
		return serviceErr.Kind
	}
	return KindInternal
}
