package http

import (
	"net/http"
	"time"

	"storefront/internal/auth"

	"github.com/gin-gonic/gin"
)

func (h *Handler) RegisterCustomer(c *gin.Context) {
	var req RegisterCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	customer, err := h.accounts.RegisterCustomer(c.Request.Context(), principal(c), req.toInput())
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusCreated, LevelSuccess, "account created, please log in", "/login", customer)
}

func (h *Handler) RegisterSeller(c *gin.Context) {
	var req RegisterSellerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	seller, err := h.accounts.RegisterSeller(c.Request.Context(), principal(c), req.toInput())
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusCreated, LevelSuccess, "registration received, an admin will review it", "/", seller)
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	token, sess, err := h.accounts.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}

	maxAge := int(time.Until(sess.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, token, maxAge, "/", "", h.secureCookie, true)

	next := "/products"
	switch sess.Principal.Role {
	case auth.RoleSeller:
		next = "/seller/dashboard"
	case auth.RoleAdmin:
		next = "/admin/dashboard"
	}
	respond(c, http.StatusOK, LevelSuccess, "welcome back", next, LoginResponse{
		Token:     token,
		Role:      sess.Principal.Role.String(),
		ExpiresAt: sess.ExpiresAt,
	})
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.accounts.Logout(c.Request.Context(), session(c)); err != nil {
		h.fail(c, err)
		return
	}
	c.SetCookie(sessionCookie, "", -1, "/", "", h.secureCookie, true)
	respond(c, http.StatusOK, LevelSuccess, "logged out", "/", nil)
}

func (h *Handler) Profile(c *gin.Context) {
	customer, err := h.accounts.Profile(c.Request.Context(), principal(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, "", customer)
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	customer, err := h.accounts.UpdateProfile(c.Request.Context(), principal(c), req.toInput())
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, LevelSuccess, "profile updated", "/profile", customer)
}
