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

// ResponseCode is the code carried in every response envelope.
type ResponseCode int

// Response codes. The error mapper only ever answers with these values;
// callers may still pass their own business codes to Fail.
const (
	CodeSuccess ResponseCode = 200
	CodeCreated ResponseCode = 201

	CodeBadRequest   ResponseCode = 400
	CodeUnauthorized ResponseCode = 401
	CodeForbidden    ResponseCode = 403
	CodeNotFound     ResponseCode = 404
	CodeConflict     ResponseCode = 409

	CodeInternalError      ResponseCode = 500
	CodeServiceUnavailable ResponseCode = 503
)

// DefaultSuccessMessage is the message of a success envelope built without one.
const DefaultSuccessMessage = "success"

// Response is the unified API response envelope.
//
// Field order is part of the wire contract: code, message, data.
type Response[T any] struct {
	Code    ResponseCode `json:"code"`
	Message string       `json:"message"`
	Data    T            `json:"data"`
}

// Success builds a success envelope carrying data.
func Success[T any](data T, message string) Response[T] {
	if message == "" {
		message = DefaultSuccessMessage
	}
	return Response[T]{
		Code:    CodeSuccess,
		Message: message,
		Data:    data,
	}
}

// OK builds a success envelope with the default message.
func OK[T any](data T) Response[T] {
	return Success(data, DefaultSuccessMessage)
}

// Ack builds a success envelope without payload, e.g. for deletions.
func Ack(message string) Response[any] {
	return Success[any](nil, message)
}

// Fail builds an error envelope without payload.
func Fail(code ResponseCode, message string) Response[any] {
	return FailWithData[any](code, message, nil)
}

// FailWithData builds an error envelope carrying data.
func FailWithData[T any](code ResponseCode, message string, data T) Response[T] {
	return Response[T]{
		Code:    code,
		Message: message,
		Data:    data,
	}
}
