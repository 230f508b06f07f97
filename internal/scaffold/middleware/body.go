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
	"bytes"
	"io"
	"net/http"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
)

// BodyContextKey holds the captured request body as a string.
const BodyContextKey = "scaffold.request_body"

// MaxCapturedBody is the largest body CaptureBody keeps in memory. Larger
// bodies pass through to the handler uncaptured.
const MaxCapturedBody = 64 << 10

// CaptureBody keeps a copy of POST, PUT and PATCH bodies for error logging
// and restores the body for binding.
func CaptureBody() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
		default:
			c.Next()
			return
		}
		if c.Request.Body == nil || c.Request.Body == http.NoBody {
			c.Next()
			return
		}

		// a failed read leaves whatever was read for binding to reject
		body, _ := io.ReadAll(io.LimitReader(c.Request.Body, MaxCapturedBody+1))
		if len(body) > MaxCapturedBody {
			c.Request.Body = &replayBody{
				Reader: io.MultiReader(bytes.NewReader(body), c.Request.Body),
				Closer: c.Request.Body,
			}
			c.Next()
			return
		}
		_ = c.Request.Body.Close()
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		if len(body) > 0 && utf8.Valid(body) {
			c.Set(BodyContextKey, string(body))
		}
		c.Next()
	}
}

// replayBody serves the bytes already read followed by the unread remainder.
type replayBody struct {
	io.Reader
	io.Closer
}
