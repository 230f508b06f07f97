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
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/innovationmech/scaffold/internal/scaffold/interfaces"
	"github.com/innovationmech/scaffold/internal/scaffold/model"
	"github.com/innovationmech/scaffold/internal/scaffold/repository"
	"github.com/innovationmech/scaffold/internal/scaffold/types"
)

// MockItemRepository is a mock implementation of repository.ItemRepository
type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) Create(ctx context.Context, item *model.Item) error {
	args := m.Called(ctx, item)
	if args.Error(0) == nil {
		item.ID = 1
	}
	return args.Error(0)
}

func (m *MockItemRepository) GetByID(ctx context.Context, id uint) (*model.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Item), args.Error(1)
}

func (m *MockItemRepository) List(ctx context.Context, offset, limit int) ([]model.Item, int64, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.Item), args.Get(1).(int64), args.Error(2)
}

func (m *MockItemRepository) Update(ctx context.Context, item *model.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func strPtr(s string) *string {
	return &s
}

func newTestService(t *testing.T, repo repository.ItemRepository) (interfaces.ItemService, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	srv, err := NewItemSrv(WithItemRepository(repo), WithLogger(zap.New(core)))
	require.NoError(t, err)
	return srv, logs
}

func assertServiceError(t *testing.T, err error, kind types.ErrorKind, message string) {
	t.Helper()
	serviceErr := types.AsServiceError(err)
	require.NotNil(t, serviceErr, "expected *types.ServiceError, got %v", err)
	assert.Equal(t, kind, serviceErr.Kind)
	assert.Equal(t, message, serviceErr.Message)
}

func TestNewItemSrv(t *testing.T) {
	_, err := NewItemSrv()
	assert.Error(t, err)

	_, err = NewItemSrvWithConfig(nil)
	assert.Error(t, err)

	srv, err := NewItemSrv(WithItemRepository(repository.NewMemoryItemRepository()))
	require.NoError(t, err)
	assert.Implements(t, (*interfaces.ItemService)(nil), srv)
}

func TestItemService_CreateItem(t *testing.T) {
	tests := []struct {
		name      string
		req       *model.ItemCreateRequest
		setupMock func(*MockItemRepository)
		wantKind  types.ErrorKind
		wantMsg   string
		wantErr   bool
	}{
		{
			name: "success",
			req:  &model.ItemCreateRequest{Name: "物品1", Price: price("99.99")},
			setupMock: func(m *MockItemRepository) {
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.Item")).Return(nil)
			},
		},
		{
			name:     "zero price",
			req:      &model.ItemCreateRequest{Name: "物品1", Price: price("0")},
			wantErr:  true,
			wantKind: types.KindValidation,
			wantMsg:  "价格必须大于 0",
		},
		{
			name:     "negative price",
			req:      &model.ItemCreateRequest{Name: "物品1", Price: price("-1")},
			wantErr:  true,
			wantKind: types.KindValidation,
			wantMsg:  "价格必须大于 0",
		},
		{
			name:     "missing price",
			req:      &model.ItemCreateRequest{Name: "物品1"},
			wantErr:  true,
			wantKind: types.KindValidation,
			wantMsg:  "价格必须大于 0",
		},
		{
			name: "repository failure",
			req:  &model.ItemCreateRequest{Name: "物品1", Price: price("1")},
			setupMock: func(m *MockItemRepository) {
				m.On("Create", mock.Anything, mock.Anything).Return(errors.New("disk full"))
			},
			wantErr:  true,
			wantKind: types.KindValidation,
			wantMsg:  "创建物品失败",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockItemRepository)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}
			srv, _ := newTestService(t, repo)

			got, err := srv.CreateItem(context.Background(), tt.req)
			if tt.wantErr {
				assertServiceError(t, err, tt.wantKind, tt.wantMsg)
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				assert.Equal(t, &model.ItemResponse{ID: 1, Name: "物品1", Price: 99.99}, got)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestItemService_RepositoryFailureIsLogged(t *testing.T) {
	repo := new(MockItemRepository)
	cause := errors.New("connection refused")
	repo.On("List", mock.Anything, 0, 10).Return(nil, int64(0), cause)
	srv, logs := newTestService(t, repo)

	_, err := srv.ListItems(context.Background(), types.PaginationRequest{Page: 1, PageSize: 10})

	assertServiceError(t, err, types.KindValidation, "获取物品列表失败")
	assert.ErrorIs(t, err, cause)
	require.Equal(t, 1, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
	assert.Equal(t, "获取物品列表失败: connection refused", logs.All()[0].Message)
}

func TestItemService_GetItem(t *testing.T) {
	tests := []struct {
		name      string
		id        int64
		setupMock func(*MockItemRepository)
		wantKind  types.ErrorKind
		wantMsg   string
		wantErr   bool
	}{
		{
			name: "found",
			id:   1,
			setupMock: func(m *MockItemRepository) {
				m.On("GetByID", mock.Anything, uint(1)).
					Return(&model.Item{ID: 1, Name: "示例物品", Price: decimal.RequireFromString("99.99")}, nil)
			},
		},
		{
			name:     "zero id",
			id:       0,
			wantErr:  true,
			wantKind: types.KindNotFound,
			wantMsg:  "物品 0 不存在",
		},
		{
			name:     "negative id",
			id:       -3,
			wantErr:  true,
			wantKind: types.KindNotFound,
			wantMsg:  "物品 -3 不存在",
		},
		{
			name: "missing row",
			id:   7,
			setupMock: func(m *MockItemRepository) {
				m.On("GetByID", mock.Anything, uint(7)).Return(nil, repository.ErrNotFound)
			},
			wantErr:  true,
			wantKind: types.KindNotFound,
			wantMsg:  "物品 7 不存在",
		},
		{
			name: "repository failure",
			id:   2,
			setupMock: func(m *MockItemRepository) {
				m.On("GetByID", mock.Anything, uint(2)).Return(nil, errors.New("timeout"))
			},
			wantErr:  true,
			wantKind: types.KindValidation,
			wantMsg:  "获取物品失败",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockItemRepository)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}
			srv, _ := newTestService(t, repo)

			got, err := srv.GetItem(context.Background(), tt.id)
			if tt.wantErr {
				assertServiceError(t, err, tt.wantKind, tt.wantMsg)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "示例物品", got.Name)
				assert.Equal(t, 99.99, got.Price)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestItemService_ListItems(t *testing.T) {
	srv, _ := newTestService(t, repository.NewMemoryItemRepository(repository.SampleItems()...))

	page, err := srv.ListItems(context.Background(), types.PaginationRequest{Page: 1, PageSize: 10})
	require.NoError(t, err)

	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, []model.ItemResponse{
		{ID: 1, Name: "物品1", Price: 99.99},
		{ID: 2, Name: "物品2", Price: 199.99},
	}, page.Items)
}

func TestItemService_ListItemsPastTheEnd(t *testing.T) {
	srv, _ := newTestService(t, repository.NewMemoryItemRepository(repository.SampleItems()...))

	page, err := srv.ListItems(context.Background(), types.PaginationRequest{Page: 5, PageSize: 10})
	require.NoError(t, err)

	assert.Equal(t, 5, page.Page)
	assert.Equal(t, int64(2), page.Total)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
}

func TestItemService_UpdateItem(t *testing.T) {
	ctx := context.Background()
	srv, _ := newTestService(t, repository.NewMemoryItemRepository(repository.SampleItems()...))

	got, err := srv.UpdateItem(ctx, 1, &model.ItemUpdateRequest{Name: strPtr("新名称")})
	require.NoError(t, err)
	assert.Equal(t, &model.ItemResponse{ID: 1, Name: "新名称", Price: 99.99}, got)

	got, err = srv.UpdateItem(ctx, 1, &model.ItemUpdateRequest{Price: price("12.5"), Description: strPtr("desc")})
	require.NoError(t, err)
	assert.Equal(t, &model.ItemResponse{ID: 1, Name: "新名称", Description: "desc", Price: 12.5}, got)

	_, err = srv.UpdateItem(ctx, 1, &model.ItemUpdateRequest{Price: price("0")})
	assertServiceError(t, err, types.KindValidation, "价格必须大于 0")

	_, err = srv.UpdateItem(ctx, 0, &model.ItemUpdateRequest{})
	assertServiceError(t, err, types.KindNotFound, "物品 0 不存在")

	_, err = srv.UpdateItem(ctx, 99, &model.ItemUpdateRequest{})
	assertServiceError(t, err, types.KindNotFound, "物品 99 不存在")
}

func TestItemService_UpdateItemRepositoryFailure(t *testing.T) {
	repo := new(MockItemRepository)
	repo.On("GetByID", mock.Anything, uint(1)).Return(&model.Item{ID: 1, Name: "a", Price: decimal.NewFromInt(1)}, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(errors.New("deadlock"))
	srv, _ := newTestService(t, repo)

	_, err := srv.UpdateItem(context.Background(), 1, &model.ItemUpdateRequest{Name: strPtr("b")})
	assertServiceError(t, err, types.KindValidation, "更新物品失败")
	repo.AssertExpectations(t)
}

func TestItemService_DeleteItem(t *testing.T) {
	ctx := context.Background()
	srv, _ := newTestService(t, repository.NewMemoryItemRepository(repository.SampleItems()...))

	require.NoError(t, srv.DeleteItem(ctx, 2))

	err := srv.DeleteItem(ctx, 2)
	assertServiceError(t, err, types.KindNotFound, "物品 2 不存在")

	err = srv.DeleteItem(ctx, -1)
	assertServiceError(t, err, types.KindNotFound, "物品 -1 不存在")
}

func TestItemService_DeleteItemRepositoryFailure(t *testing.T) {
	repo := new(MockItemRepository)
	repo.On("Delete", mock.Anything, uint(4)).Return(errors.New("locked"))
	srv, _ := newTestService(t, repo)

	err := srv.DeleteItem(context.Background(), 4)
	assertServiceError(t, err, types.KindValidation, "删除物品失败")
	repo.AssertExpectations(t)
}
