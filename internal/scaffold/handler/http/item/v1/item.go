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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/innovationmech/scaffold/internal/scaffold/interfaces"
	"github.com/innovationmech/scaffold/internal/scaffold/model"
	"github.com/innovationmech/scaffold/internal/scaffold/types"
)

// Success messages.
const (
	MsgCreated = "创建成功"
	MsgUpdated = "更新成功"
	MsgDeleted = "删除成功"
)

// ItemHandler handles item HTTP requests. Errors are passed to the error
// handler middleware with c.Error; the handler only writes success envelopes.
type ItemHandler struct {
	itemSrv interfaces.ItemService
}

// NewItemHandler creates a new item handler with dependency injection.
func NewItemHandler(itemSrv interfaces.ItemService) *ItemHandler {
	return &ItemHandler{itemSrv: itemSrv}
}

// RegisterRoutes mounts the item routes under router.
func (h *ItemHandler) RegisterRoutes(router gin.IRouter) {
	items := router.Group("/items")
	items.POST("", h.CreateItem)
	items.GET("", h.ListItems)
	items.GET("/:item_id", h.GetItem)
	items.PUT("/:item_id", h.UpdateItem)
	items.DELETE("/:item_id", h.DeleteItem)
}

// CreateItem creates a new item.
//
//	@Summary		Create an item
//	@Tags			items
//	@Accept			json
//	@Produce		json
//	@Param			item	body		model.ItemCreateRequest	true	"Item information"
//	@Success		200		{object}	types.Response[model.ItemResponse]
//	@Failure		400		{object}	types.Response[any]
//	@Router			/items [post]
func (h *ItemHandler) CreateItem(c *gin.Context) {
	var req model.ItemCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(bindError(err))
		return
	}

	item, err := h.itemSrv.CreateItem(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, types.Success(item, MsgCreated))
}

// GetItem gets an item by id.
//
//	@Summary		Get an item
//	@Tags			items
//	@Produce		json
//	@Param			item_id	path		int	true	"Item ID"
//	@Success		200		{object}	types.Response[model.ItemResponse]
//	@Failure		404		{object}	types.Response[any]
//	@Router			/items/{item_id} [get]
func (h *ItemHandler) GetItem(c *gin.Context) {
	id, err := itemID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	item, err := h.itemSrv.GetItem(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, types.OK(item))
}

// ListItems lists items page by page.
//
//	@Summary		List items
//	@Tags			items
//	@Produce		json
//	@Param			page		query		int	false	"Page number"	default(1)	minimum(1)
//	@Param			page_size	query		int	false	"Page size"		default(10)	minimum(1)	maximum(100)
//	@Success		200			{object}	types.Response[types.Page[model.ItemResponse]]
//	@Failure		400			{object}	types.Response[any]
//	@Router			/items [get]
func (h *ItemHandler) ListItems(c *gin.Context) {
	var pagination types.PaginationRequest
	if err := c.ShouldBindQuery(&pagination); err != nil {
		_ = c.Error(bindError(err))
		return
	}

	page, err := h.itemSrv.ListItems(c.Request.Context(), pagination)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, types.OK(page))
}

// UpdateItem updates an item.
//
//	@Summary		Update an item
//	@Tags			items
//	@Accept			json
//	@Produce		json
//	@Param			item_id	path		int						true	"Item ID"
//	@Param			item	body		model.ItemUpdateRequest	true	"Fields to change"
//	@Success		200		{object}	types.Response[model.ItemResponse]
//	@Failure		400		{object}	types.Response[any]
//	@Failure		404		{object}	types.Response[any]
//	@Router			/items/{item_id} [put]
func (h *ItemHandler) UpdateItem(c *gin.Context) {
	id, err := itemID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var req model.ItemUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(bindError(err))
		return
	}

	item, err := h.itemSrv.UpdateItem(c.Request.Context(), id, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, types.Success(item, MsgUpdated))
}

// DeleteItem deletes an item.
//
//	@Summary		Delete an item
//	@Tags			items
//	@Produce		json
//	@Param			item_id	path		int	true	"Item ID"
//	@Success		200		{object}	types.Response[any]
//	@Failure		404		{object}	types.Response[any]
//	@Router			/items/{item_id} [delete]
func (h *ItemHandler) DeleteItem(c *gin.Context) {
	id, err := itemID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.itemSrv.DeleteItem(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, types.Ack(MsgDeleted))
}

func itemID(c *gin.Context) (int64, error) {
	raw := c.Param("item_id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, types.NewValidationErrorWithCause(fmt.Sprintf("无效的物品 ID: %s", raw), err)
	}
	return id, nil
}

// bindError converts a binding failure into a validation error naming the
// offending fields.
func bindError(err error) error {
	var (
		validationErrs validator.ValidationErrors
		syntaxErr      *json.SyntaxError
		typeErr        *json.UnmarshalTypeError
		numErr         *strconv.NumError
	)

	switch {
	case errors.As(err, &validationErrs):
		msgs := make([]string, 0, len(validationErrs))
		for _, fe := range validationErrs {
			msgs = append(msgs, fieldMessage(fe))
		}
		return types.NewValidationErrorWithCause(strings.Join(msgs, "; "), err)
	case errors.As(err, &typeErr):
		return types.NewValidationErrorWithCause(fmt.Sprintf("参数 %s 类型错误", typeErr.Field), err)
	case errors.As(err, &syntaxErr), errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return types.NewValidationErrorWithCause("请求体不是合法的 JSON", err)
	case errors.As(err, &numErr):
		return types.NewValidationErrorWithCause(fmt.Sprintf("参数类型错误: %s", numErr.Num), err)
	default:
		return types.NewValidationErrorWithCause(types.DefaultValidationMessage, err)
	}
}

func fieldMessage(fe validator.FieldError) string {
	field := snakeCase(fe.Field())
	subject := ""
	if fe.Kind() == reflect.String {
		subject = "长度"
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("参数 %s 不能为空", field)
	case "min":
		return fmt.Sprintf("参数 %s %s不能小于 %s", field, subject, fe.Param())
	case "max":
		return fmt.Sprintf("参数 %s %s不能大于 %s", field, subject, fe.Param())
	default:
		return fmt.Sprintf("参数 %s 校验失败: %s", field, fe.Tag())
	}
}

// snakeCase turns a Go field name such as PageSize into page_size.
func snakeCase(name string) string {
	var (
		sb        strings.Builder
		prevLower bool
	)
	for _, r := range name {
		if r >= 'A' && r <= 'Z' {
			if prevLower {
				sb.WriteByte('_')
			}
			r += 'a' - 'A'
			prevLower = false
		} else {
			prevLower = true
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
