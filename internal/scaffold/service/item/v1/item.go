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

package v1

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/innovationmech/scaffold/internal/scaffold/interfaces"
	"github.com/innovationmech/scaffold/internal/scaffold/model"
	"github.com/innovationmech/scaffold/internal/scaffold/repository"
	"github.com/innovationmech/scaffold/internal/scaffold/types"
	"github.com/innovationmech/scaffold/pkg/logger"
)

// Business error messages.
const (
	MsgInvalidPrice = "价格必须大于 0"
	MsgCreateFailed = "创建物品失败"
	MsgGetFailed    = "获取物品失败"
	MsgListFailed   = "获取物品列表失败"
	MsgUpdateFailed = "更新物品失败"
	MsgDeleteFailed = "删除物品失败"
)

// ItemServiceConfig item service config
type ItemServiceConfig struct {
	ItemRepo repository.ItemRepository
	Logger   *zap.Logger
}

// ItemServiceOption item service option function type
type ItemServiceOption func(*ItemServiceConfig)

// WithItemRepository set the item repository dependency
func WithItemRepository(repo repository.ItemRepository) ItemServiceOption {
	return func(config *ItemServiceConfig) {
		config.ItemRepo = repo
	}
}

// WithLogger sets the logger; the global logger is used otherwise.
func WithLogger(l *zap.Logger) ItemServiceOption {
	return func(config *ItemServiceConfig) {
		config.Logger = l
	}
}

// itemService is the implementation of the interfaces.ItemService interface
type itemService struct {
	config *ItemServiceConfig
}

// NewItemSrv creates a new item service using options pattern.
func NewItemSrv(opts ...ItemServiceOption) (interfaces.ItemService, error) {
	config := &ItemServiceConfig{}

	for _, opt := range opts {
		opt(config)
	}

	return NewItemSrvWithConfig(config)
}

// NewItemSrvWithConfig creates a new item service using config struct
func NewItemSrvWithConfig(config *ItemServiceConfig) (interfaces.ItemService, error) {
	if config == nil || config.ItemRepo == nil {
		return nil, errors.New("item repository is required")
	}

	return &itemService{
		config: config,
	}, nil
}

func (s *itemService) logger() *zap.Logger {
	if s.config.Logger != nil {
		return s.config.Logger
	}
	return logger.GetLogger()
}

// fail logs an unexpected failure and converts it into a validation error
// carrying message.
func (s *itemService) fail(message string, err error, fields ...zap.Field) error {
	s.logger().Error(fmt.Sprintf("%s: %v", message, err), append(fields, zap.Error(err))...)
	return types.NewValidationErrorWithCause(message, err)
}

func notFound(id int64) error {
	return types.NewNotFoundError(fmt.Sprintf("物品 %d 不存在", id))
}

// lookup resolves id to a stored item; ids below 1 never exist.
func (s *itemService) lookup(ctx context.Context, id int64) (*model.Item, error) {
	if id <= 0 {
		return nil, notFound(id)
	}
	item, err := s.config.ItemRepo.GetByID(ctx, uint(id))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound(id)
	}
	return item, err
}

// CreateItem creates a new item
func (s *itemService) CreateItem(ctx context.Context, req *model.ItemCreateRequest) (*model.ItemResponse, error) {
	if req == nil || req.Price == nil || !req.Price.IsPositive() {
		return nil, types.NewValidationError(MsgInvalidPrice)
	}

	item := &model.Item{
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
	}
	if err := s.config.ItemRepo.Create(ctx, item); err != nil {
		return nil, s.fail(MsgCreateFailed, err)
	}

	s.logger().Info("item created", zap.Uint("item_id", item.ID))
	resp := model.NewItemResponse(item)
	return &resp, nil
}

// GetItem gets an item by id
func (s *itemService) GetItem(ctx context.Context, id int64) (*model.ItemResponse, error) {
	item, err := s.lookup(ctx, id)
	if err != nil {
		if types.KindOf(err) == types.KindNotFound {
			return nil, err
		}
		return nil, s.fail(MsgGetFailed, err, zap.Int64("item_id", id))
	}

	resp := model.NewItemResponse(item)
	return &resp, nil
}

// ListItems lists one page of items
func (s *itemService) ListItems(ctx context.Context, pagination types.PaginationRequest) (types.Page[model.ItemResponse], error) {
	p := types.NewPaginationRequest(pagination.Page, pagination.PageSize)

	items, total, err := s.config.ItemRepo.List(ctx, p.Offset(), p.Limit())
	if err != nil {
		return types.Page[model.ItemResponse]{}, s.fail(MsgListFailed, err,
			zap.Int("page", p.Page), zap.Int("page_size", p.PageSize))
	}

	return types.NewPage(model.NewItemResponses(items), total, p.Page, p.PageSize), nil
}

// UpdateItem updates an item
func (s *itemService) UpdateItem(ctx context.Context, id int64, req *model.ItemUpdateRequest) (*model.ItemResponse, error) {
	item, err := s.lookup(ctx, id)
	if err != nil {
		if types.KindOf(err) == types.KindNotFound {
			return nil, err
		}
		return nil, s.fail(MsgUpdateFailed, err, zap.Int64("item_id", id))
	}

	if req != nil {
		if req.Price != nil && !req.Price.IsPositive() {
			return nil, types.NewValidationError(MsgInvalidPrice)
		}
		req.Apply(item)
	}

	if err := s.config.ItemRepo.Update(ctx, item); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound(id)
		}
		return nil, s.fail(MsgUpdateFailed, err, zap.Int64("item_id", id))
	}

	s.logger().Info("item updated", zap.Int64("item_id", id))
	resp := model.NewItemResponse(item)
	return &resp, nil
}

// DeleteItem deletes an item by id
func (s *itemService) DeleteItem(ctx context.Context, id int64) error {
	if id <= 0 {
		return notFound(id)
	}

	if err := s.config.ItemRepo.Delete(ctx, uint(id)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(id)
		}
		return s.fail(MsgDeleteFailed, err, zap.Int64("item_id", id))
	}

	s.logger().Info("item deleted", zap.Int64("item_id", id))
	return nil
}
