package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) AdminDashboard(c *gin.Context) {
	var q SalesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	ctx, p := c.Request.Context(), principal(c)

	report, err := h.sales.Report(ctx, p, q.Year, q.Month)
	if err != nil {
		h.fail(c, err)
		return
	}
	customers, err := h.accounts.ListCustomers(ctx, p)
	if err != nil {
		h.fail(c, err)
		return
	}
	approved, err := h.accounts.ListSellers(ctx, p, true)
	if err != nil {
		h.fail(c, err)
		return
	}
	pending, err := h.accounts.ListSellers(ctx, p, false)
	if err != nil {
		h.fail(c, err)
		return
	}

	ok(c, "", AdminDashboard{
		Sales:           report,
		Customers:       customers,
		ApprovedSellers: approved,
		PendingSellers:  pending,
	})
}

func (h *Handler) ApproveSeller(c *gin.Context) {
	id, valid := uintParam(c, "id")
	if !valid {
		return
	}
	if err := h.accounts.ApproveSeller(c.Request.Context(), principal(c), id); err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, LevelSuccess, "seller approved", "/admin/dashboard", nil)
}

func (h *Handler) RejectSeller(c *gin.Context) {
	id, valid := uintParam(c, "id")
	if !valid {
		return
	}
	if err := h.accounts.RejectSeller(c.Request.Context(), principal(c), id); err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, LevelSuccess, "seller rejected", "/admin/dashboard", nil)
}

func (h *Handler) DeleteSeller(c *gin.Context) {
	id, valid := uintParam(c, "id")
	if !valid {
		return
	}
	if err := h.accounts.DeleteSeller(c.Request.Context(), principal(c), id); err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, LevelSuccess, "seller deleted", "/admin/dashboard", nil)
}

func (h *Handler) DeleteCustomer(c *gin.Context) {
	id, valid := uintParam(c, "id")
	if !valid {
		return
	}
	if err := h.accounts.DeleteCustomer(c.Request.Context(), principal(c), id); err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, LevelSuccess, "customer deleted", "/admin/dashboard", nil)
}
