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

// Package types provides the shared wire types of the scaffold API.
//
// Every HTTP response produced by the API is a Response envelope. List
// endpoints nest a Page inside a success envelope. Business logic signals
// failures with *ServiceError values whose Kind selects the HTTP status the
// boundary error mapper answers with.
//
// Usage:
//
//	import "github.com/innovationmech/scaffold/internal/scaffold/types"
//
//	// Success envelopes
//	c.JSON(http.StatusOK, types.Success(item, "创建成功"))
//
//	// Paginated data
//	page := types.NewPage(items, total, req.Page, req.PageSize)
//	c.JSON(http.StatusOK, types.OK(page))
//
//	// Service errors
//	return nil, types.NewValidationError("价格必须大于 0")
package types
