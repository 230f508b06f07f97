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

package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/innovationmech/scaffold/internal/scaffold/model"
)

// memoryItemRepository keeps items in process memory. It backs the server
// when no DATABASE_URL is configured.
type memoryItemRepository struct {
	mu     sync.RWMutex
	items  map[uint]model.Item
	nextID uint
	now    func() time.Time
}

// NewMemoryItemRepository creates an in-memory repository holding items.
func NewMemoryItemRepository(items ...model.Item) ItemRepository {
	r := &memoryItemRepository{
		items:  make(map[uint]model.Item, len(items)),
		nextID: 1,
		now:    time.Now,
	}
	for _, item := range items {
		_ = r.Create(context.Background(), &item)
	}
	return r
}

// SampleItems are the items a fresh in-memory repository is seeded with.
func SampleItems() []model.Item {
	return []model.Item{
		{Name: "物品1", Price: decimal.RequireFromString("99.99")},
		{Name: "物品2", Price: decimal.RequireFromString("199.99")},
	}
}

func (r *memoryItemRepository) Create(ctx context.Context, item *model.Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if item.ID == 0 {
		item.ID = r.nextID
	}
	if item.ID >= r.nextID {
		r.nextID = item.ID + 1
	}
	now := r.now()
	item.CreatedAt, item.UpdatedAt = now, now
	r.items[item.ID] = *item
	return nil
}

func (r *memoryItemRepository) GetByID(ctx context.Context, id uint) (*model.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &item, nil
}

func (r *memoryItemRepository) List(ctx context.Context, offset, limit int) ([]model.Item, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]uint, 0, len(r.items))
	for id := range r.items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	if offset < 0 {
		offset = 0
	}
	if offset > len(ids) {
		offset = len(ids)
	}
	end := len(ids)
	if limit >= 0 && limit < end-offset {
		end = offset + limit
	}

	items := make([]model.Item, 0, end-offset)
	for _, id := range ids[offset:end] {
		items = append(items, r.items[id])
	}
	return items, int64(len(ids)), nil
}

func (r *memoryItemRepository) Update(ctx context.Context, item *model.Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.items[item.ID]
	if !ok {
		return ErrNotFound
	}
	item.CreatedAt = existing.CreatedAt
	item.UpdatedAt = r.now()
	r.items[item.ID] = *item
	return nil
}

func (r *memoryItemRepository) Delete(ctx context.Context, id uint) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return ErrNotFound
	}
	delete(r.items, id)
	return nil
}
