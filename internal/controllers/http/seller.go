package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) SellerDashboard(c *gin.Context) {
	ctx, p := c.Request.Context(), principal(c)

	products, err := h.catalog.ListOwn(ctx, p)
	if err != nil {
		h.fail(c, err)
		return
	}
	orders, err := h.orders.ListForSeller(ctx, p)
	if err != nil {
		h.fail(c, err)
		return
	}
	feedback, err := h.feedback.ListForSeller(ctx, p)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, "", SellerDashboard{Products: products, Orders: newOrderViews(orders), Feedback: feedback})
}

func (h *Handler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	product, err := h.catalog.CreateProduct(c.Request.Context(), principal(c), req.toInput())
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusCreated, LevelSuccess, "product added", "/seller/dashboard", product)
}

func (h *Handler) UpdateProduct(c *gin.Context) {
	id, valid := uintParam(c, "id")
	if !valid {
		return
	}
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	product, err := h.catalog.UpdateProduct(c.Request.Context(), principal(c), id, req.toInput())
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, LevelSuccess, "product updated", "/seller/dashboard", product)
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	id, valid := uintParam(c, "id")
	if !valid {
		return
	}
	if err := h.catalog.DeleteProduct(c.Request.Context(), principal(c), id); err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, LevelSuccess, "product deleted", "/seller/dashboard", nil)
}

func (h *Handler) ConfirmOrder(c *gin.Context) {
	id, valid := uintParam(c, "id")
	if !valid {
		return
	}
	order, err := h.orders.Confirm(c.Request.Context(), principal(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, LevelSuccess, "order confirmed", "/seller/dashboard", newOrderView(order))
}

func (h *Handler) CancelOrder(c *gin.Context) {
	id, valid := uintParam(c, "id")
	if !valid {
		return
	}
	order, err := h.orders.Cancel(c.Request.Context(), principal(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, LevelSuccess, "order cancelled", "/seller/dashboard", newOrderView(order))
}

func (h *Handler) DeleteFeedback(c *gin.Context) {
	id, valid := uintParam(c, "id")
	if !valid {
		return
	}
	if err := h.feedback.Delete(c.Request.Context(), principal(c), id); err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, LevelSuccess, "feedback deleted", "/seller/dashboard", nil)
}
