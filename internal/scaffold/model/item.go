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

package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item is the item model.
//
//	@Description	Item managed by the example API
type Item struct {
	ID          uint            `gorm:"primaryKey;autoIncrement" json:"id" example:"1"`
	Name        string          `gorm:"size:100;not null" json:"name" example:"物品1"`
	Description string          `gorm:"size:500;not null" json:"description" example:""`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price" swaggertype:"number" example:"99.99"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// TableName pins the table name.
func (Item) TableName() string {
	return "items"
}

// ItemCreateRequest represents the request body for creating an item
//
//	@Description	Request body for creating an item
type ItemCreateRequest struct {
	Name        string           `json:"name" binding:"required,min=1,max=100" example:"物品1"`
	Description string           `json:"description" binding:"max=500" example:""`
	Price       *decimal.Decimal `json:"price" binding:"required" swaggertype:"number" example:"99.99"`
}

// ItemUpdateRequest represents the request body for updating an item.
// Absent fields are left unchanged.
//
//	@Description	Request body for updating an item
type ItemUpdateRequest struct {
	Name        *string          `json:"name" binding:"omitempty,min=1,max=100" example:"物品1"`
	Description *string          `json:"description" binding:"omitempty,max=500" example:""`
	Price       *decimal.Decimal `json:"price" swaggertype:"number" example:"99.99"`
}

// ItemResponse is the item payload of the response envelope
//
//	@Description	Item details
type ItemResponse struct {
	ID          uint    `json:"id" example:"1"`
	Name        string  `json:"name" example:"物品1"`
	Description string  `json:"description" example:""`
	Price       float64 `json:"price" example:"99.99"`
}

// NewItemResponse converts an Item for output.
func NewItemResponse(item *Item) ItemResponse {
	return ItemResponse{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Price:       item.Price.InexactFloat64(),
	}
}

// NewItemResponses converts a slice of items for output.
func NewItemResponses(items []Item) []ItemResponse {
	out := make([]ItemResponse, 0, len(items))
	for i := range items {
		out = append(out, NewItemResponse(&items[i]))
	}
	return out
}

// Apply copies the set fields of req onto item.
func (req *ItemUpdateRequest) Apply(item *Item) {
	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Price != nil {
		item.Price = *req.Price
	}
}
