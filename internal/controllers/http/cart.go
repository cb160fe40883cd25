package http

import (
	"net/http"

	"storefront/internal/domain"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ViewCart(c *gin.Context) {
	view, err := h.cart.View(c.Request.Context(), principal(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, "", newCartView(view))
}

func (h *Handler) AddToCart(c *gin.Context) {
	productID, valid := uintParam(c, "productId")
	if !valid {
		return
	}
	ctx, p := c.Request.Context(), principal(c)

	line, created, err := h.cart.AddLine(ctx, p, productID)
	if err != nil {
		h.fail(c, err)
		return
	}
	totals, err := h.cart.Totals(ctx, p)
	if err != nil {
		h.fail(c, err)
		return
	}

	data := CartLineResponse{Line: newCartLineView(line), Totals: totals}
	if !created {
		respond(c, http.StatusOK, LevelInfo, "this item is already in your cart", "/cart", data)
		return
	}
	respond(c, http.StatusOK, LevelSuccess, "added to cart", "/cart", data)
}

func (h *Handler) UpdateCartLine(c *gin.Context) {
	lineID, valid := uintParam(c, "lineId")
	if !valid {
		return
	}
	dir, err := domain.ParseAdjustDirection(c.Param("action"))
	if err != nil {
		respond(c, http.StatusBadRequest, LevelError, "action must be increase or decrease", "", nil)
		return
	}
	ctx, p := c.Request.Context(), principal(c)

	line, removed, err := h.cart.AdjustLine(ctx, p, lineID, dir)
	if err != nil {
		h.fail(c, err)
		return
	}
	totals, err := h.cart.Totals(ctx, p)
	if err != nil {
		h.fail(c, err)
		return
	}

	msg := "cart updated"
	if removed {
		msg = "item removed from cart"
	}
	respond(c, http.StatusOK, LevelSuccess, msg, "/cart", CartLineResponse{Line: newCartLineView(line), Removed: removed, Totals: totals})
}

func (h *Handler) RemoveCartLine(c *gin.Context) {
	lineID, valid := uintParam(c, "lineId")
	if !valid {
		return
	}
	ctx, p := c.Request.Context(), principal(c)

	if err := h.cart.RemoveLine(ctx, p, lineID); err != nil {
		h.fail(c, err)
		return
	}
	totals, err := h.cart.Totals(ctx, p)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, LevelSuccess, "item removed from cart", "/cart", CartLineResponse{Removed: true, Totals: totals})
}
