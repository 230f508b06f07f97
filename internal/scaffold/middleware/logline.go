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
	"errors"
	"net/url"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/innovationmech/scaffold/internal/scaffold/types"
)

// UnknownClientIP is logged when the peer address cannot be determined.
const UnknownClientIP = "unknown"

// KV is an ordered key/value pair.
type KV struct {
	Key   string
	Value string
}

// RequestContext is the request information written next to a mapped error.
type RequestContext struct {
	ClientIP   string
	Method     string
	Path       string
	Query      []KV
	PathParams []KV
	Body       string
}

// RequestContextFrom collects the log context of c. The body is only present
// when CaptureBody ran earlier in the chain.
func RequestContextFrom(c *gin.Context) RequestContext {
	rc := RequestContext{
		ClientIP: c.ClientIP(),
		Method:   c.Request.Method,
		Path:     c.Request.URL.Path,
		Query:    parseQuery(c.Request.URL.RawQuery),
	}
	if rc.ClientIP == "" {
		rc.ClientIP = UnknownClientIP
	}
	for _, p := range c.Params {
		rc.PathParams = append(rc.PathParams, KV{Key: p.Key, Value: p.Value})
	}
	if body, ok := c.Get(BodyContextKey); ok {
		rc.Body, _ = body.(string)
	}
	return rc
}

// LogLine renders
//
//	[ip] [METHOD] [path] | Query: {...} | Body: ... | Path: {...} - Name: message
//
// where the Query, Body and Path segments only appear when non-empty.
func (r RequestContext) LogLine(err error) string {
	ip := r.ClientIP
	if ip == "" {
		ip = UnknownClientIP
	}

	parts := []string{"[" + ip + "]", "[" + r.Method + "]", "[" + r.Path + "]"}
	if len(r.Query) > 0 {
		parts = append(parts, "| Query: "+formatPairs(r.Query))
	}
	if r.Body != "" {
		parts = append(parts, "| Body: "+r.Body)
	}
	if len(r.PathParams) > 0 {
		parts = append(parts, "| Path: "+formatPairs(r.PathParams))
	}

	message := ""
	if err != nil {
		message = err.Error()
	}
	parts = append(parts, "- "+ErrorName(err)+": "+message)
	return strings.Join(parts, " ")
}

// ErrorName returns the class name logged for err.
func ErrorName(err error) string {
	if err == nil {
		return types.KindInternal.String()
	}
	if serviceErr := types.AsServiceError(err); serviceErr != nil {
		return serviceErr.Kind.String()
	}
	var panicErr *PanicError
	if errors.As(err, &panicErr) {
		return "PanicError"
	}

	t := reflect.TypeOf(err)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" {
		return types.KindInternal.String()
	}
	return t.Name()
}

// parseQuery keeps keys in first-seen order; a repeated key keeps its
// position and takes the last value.
func parseQuery(raw string) []KV {
	if raw == "" {
		return nil
	}

	var (
		out   []KV
		index = map[string]int{}
	)
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		if k, err := url.QueryUnescape(key); err == nil {
			key = k
		}
		if v, err := url.QueryUnescape(value); err == nil {
			value = v
		}
		if i, ok := index[key]; ok {
			out[i].Value = value
			continue
		}
		index[key] = len(out)
		out = append(out, KV{Key: key, Value: value})
	}
	return out
}

func formatPairs(pairs []KV) string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, kv := range pairs {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(quotePair(kv.Key))
		sb.WriteString(": ")
		sb.WriteString(quotePair(kv.Value))
	}
	sb.WriteByte('}')
	return sb.String()
}

// quotePair quotes s with single quotes unless it contains one and no double
// quote.
func quotePair(s string) string {
	quote := byte('\'')
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		quote = '"'
	}

	var sb strings.Builder
	sb.WriteByte(quote)
	for _, r := range s {
		switch {
		case r == '\\':
			sb.WriteString(`\\`)
		case r == rune(quote):
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case r == '\n':
			sb.WriteString(`\n`)
		case r == '\r':
			sb.WriteString(`\r`)
		case r == '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte(quote)
	return sb.String()
}
