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

package interfaces

import (
	"context"

	"github.com/innovationmech/scaffold/internal/scaffold/model"
	"github.com/innovationmech/scaffold/internal/scaffold/types"
)

// ItemService defines the business operations on items.
// This interface abstracts the item business logic from the transport layer.
//
// Failures are reported as *types.ServiceError: validation errors for
// business-rule violations and repository failures, not-found errors for
// unknown ids.
type ItemService interface {
	// CreateItem validates and stores a new item.
	CreateItem(ctx context.Context, req *model.ItemCreateRequest) (*model.ItemResponse, error)

	// GetItem returns one item.
	GetItem(ctx context.Context, id int64) (*model.ItemResponse, error)

	// ListItems returns one page of items.
	ListItems(ctx context.Context, pagination types.PaginationRequest) (types.Page[model.ItemResponse], error)

	// UpdateItem applies the set fields of req to an existing item.
	UpdateItem(ctx context.Context, id int64, req *model.ItemUpdateRequest) (*model.ItemResponse, error)

	// DeleteItem removes an item.
	DeleteItem(ctx context.Context, id int64) error
}
