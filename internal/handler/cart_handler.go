package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"cartapp/internal/config"
	"cartapp/internal/domain/model"
	"cartapp/internal/middleware"
	repo "cartapp/internal/repository"
	"cartapp/internal/usecase"
)

// /cartのHTTP。カートのロジックは持たず、usecaseへの入出力変換だけ。
type CartHandler struct {
	uc *usecase.CartUsecase
}

// DI
func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

type AddItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

type CartResponse struct {
	Items []model.CartLine `json:"items"`
	Total int64            `json:"total"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// /cart 以下を登録。ゲストも通すのでIdentity（任意認証）を使う
func (h *CartHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/cart")
	g.Use(middleware.Identity(cfg))

	g.GET("", h.getCart)
	g.POST("/items", h.addItem)
	g.DELETE("/items/:product_id", h.removeItem)
	g.DELETE("", h.clearCart)
	g.POST("/merge", h.merge)
}

func (h *CartHandler) getCart(c echo.Context) error {
	id := identityFromContext(c)

	lines, err := h.uc.GetItems(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, buildCartResponse(lines))
}

func (h *CartHandler) addItem(c echo.Context) error {
	id := identityFromContext(c)

	var req AddItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	if err := h.uc.AddItem(c.Request().Context(), id, req.ProductID, req.Quantity); err != nil {
		return writeError(c, err)
	}

	lines, err := h.uc.GetItems(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, buildCartResponse(lines))
}

func (h *CartHandler) removeItem(c echo.Context) error {
	id := identityFromContext(c)

	productID, err := strconv.ParseInt(c.Param("product_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid product_id"})
	}

	if err := h.uc.RemoveItem(c.Request().Context(), id, productID); err != nil {
		return writeError(c, err)
	}

	lines, err := h.uc.GetItems(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, buildCartResponse(lines))
}

func (h *CartHandler) clearCart(c echo.Context) error {
	id := identityFromContext(c)

	if err := h.uc.ClearCart(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, buildCartResponse(nil))
}

// ログイン直後にフロントから叩く想定
func (h *CartHandler) merge(c echo.Context) error {
	id := identityFromContext(c)

	if err := h.uc.MergeCartsOnLogin(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}

	lines, err := h.uc.GetItems(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, buildCartResponse(lines))
}

func identityFromContext(c echo.Context) usecase.Identity {
	id := usecase.Identity{}
	if v, ok := c.Get(middleware.CtxUserIDKey).(int64); ok {
		id.UserID = v
	}
	if v, ok := c.Get(middleware.CtxSessionIDKey).(string); ok {
		id.SessionID = v
	}
	return id
}

func buildCartResponse(lines []model.CartLine) CartResponse {
	if lines == nil {
		lines = []model.CartLine{}
	}

	var total int64 = 0
	for _, l := range lines {
		total += l.Price * l.Quantity
	}

	return CartResponse{Items: lines, Total: total}
}

// usecaseのエラー種別をHTTPステータスへ割り付ける
func writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	case errors.Is(err, usecase.ErrUnauthenticated):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	case usecase.IsValidationError(err):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
