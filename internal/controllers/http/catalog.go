package http

import (
	"fmt"

	"storefront/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func (h *Handler) ListProducts(c *gin.Context) {
	var q ProductQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}

	filter := domain.ProductFilter{Query: q.Query, Category: q.Category, Page: q.Page}
	if q.MaxPrice != "" {
		maxPrice, err := decimal.NewFromString(q.MaxPrice)
		if err != nil {
			badRequest(c, fmt.Errorf("max_price: %w", err))
			return
		}
		filter.MaxPrice = &maxPrice
	}

	page, err := h.catalog.List(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, "", ProductPageView{
		Products:   newProductViews(page.Products),
		Page:       page.Page,
		TotalPages: page.TotalPages,
		Total:      page.Total,
	})
}

func (h *Handler) LatestProducts(c *gin.Context) {
	products, err := h.catalog.Latest(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, "", newProductViews(products))
}

func (h *Handler) Categories(c *gin.Context) {
	cats, err := h.catalog.Categories(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, "", cats)
}

func (h *Handler) GetProduct(c *gin.Context) {
	id, valid := uintParam(c, "id")
	if !valid {
		return
	}
	p, err := h.catalog.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, "", newProductView(*p))
}
