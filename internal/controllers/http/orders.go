package http

import (
	"net/http"

	"storefront/internal/domain"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CheckoutPreview(c *gin.Context) {
	view, err := h.cart.View(c.Request.Context(), principal(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	if len(view.Lines) == 0 {
		h.fail(c, domain.ErrEmptyCart)
		return
	}
	ok(c, "", newCartView(view))
}

func (h *Handler) Checkout(c *gin.Context) {
	p := principal(c)
	if _, err := p.Customer(); err != nil {
		h.fail(c, err)
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	order, err := h.checkout.Checkout(c.Request.Context(), p, req.toDomain())
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusCreated, LevelSuccess, "order placed", "/orders", newOrderView(order))
}

func (h *Handler) ListOrders(c *gin.Context) {
	orders, err := h.orders.ListForCustomer(c.Request.Context(), principal(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, "", newOrderViews(orders))
}

func (h *Handler) GetOrder(c *gin.Context) {
	id, valid := uintParam(c, "id")
	if !valid {
		return
	}
	order, err := h.orders.Detail(c.Request.Context(), principal(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, "", newOrderView(order))
}

func (h *Handler) AddFeedback(c *gin.Context) {
	orderID, valid := uintParam(c, "id")
	if !valid {
		return
	}
	productID, valid := uintParam(c, "productId")
	if !valid {
		return
	}
	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	fb, err := h.feedback.Add(c.Request.Context(), principal(c), orderID, productID, req.Text)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusCreated, LevelSuccess, "thank you for your feedback", "/orders", fb)
}
