package http

import (
	"net/http"
	"strconv"

	"storefront/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Services struct {
	Accounts *services.AccountService
	Catalog  *services.CatalogService
	Cart     *services.CartService
	Checkout *services.CheckoutService
	Orders   *services.OrderService
	Sales    *services.SalesService
	Feedback *services.FeedbackService
}

type Handler struct {
	accounts *services.AccountService
	catalog  *services.CatalogService
	cart     *services.CartService
	checkout *services.CheckoutService
	orders   *services.OrderService
	sales    *services.SalesService
	feedback *services.FeedbackService
	log      *zap.Logger
	// secureCookie marks the session cookie Secure; off for plain-http local runs.
	secureCookie bool
}

func NewHandler(s Services, log *zap.Logger, secureCookie bool) *Handler {
	return &Handler{
		accounts:     s.Accounts,
		catalog:      s.Catalog,
		cart:         s.Cart,
		checkout:     s.Checkout,
		orders:       s.Orders,
		sales:        s.Sales,
		feedback:     s.Feedback,
		log:          log,
		secureCookie: secureCookie,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)

	api := r.Group("/", h.resolveSession())

	api.POST("/register/customer", h.RegisterCustomer)
	api.POST("/register/seller", h.RegisterSeller)
	api.POST("/login", h.Login)
	api.POST("/logout", h.Logout)
	api.GET("/profile", h.Profile)
	api.PUT("/profile", h.UpdateProfile)

	api.GET("/products", h.ListProducts)
	api.GET("/products/latest", h.LatestProducts)
	api.GET("/products/categories", h.Categories)
	api.GET("/products/:id", h.GetProduct)

	api.GET("/cart", h.ViewCart)
	api.POST("/cart/add/:productId", h.AddToCart)
	api.POST("/cart/update/:lineId/:action", h.UpdateCartLine)
	api.POST("/cart/remove/:lineId", h.RemoveCartLine)

	api.GET("/checkout", h.CheckoutPreview)
	api.POST("/checkout", h.Checkout)

	api.GET("/orders", h.ListOrders)
	api.GET("/orders/:id", h.GetOrder)
	api.POST("/orders/:id/feedback/:productId", h.AddFeedback)

	seller := api.Group("/seller")
	seller.GET("/dashboard", h.SellerDashboard)
	seller.POST("/products", h.CreateProduct)
	seller.PUT("/products/:id", h.UpdateProduct)
	seller.DELETE("/products/:id", h.DeleteProduct)
	seller.POST("/orders/:id/confirm", h.ConfirmOrder)
	seller.POST("/orders/:id/cancel", h.CancelOrder)
	seller.DELETE("/feedback/:id", h.DeleteFeedback)

	admin := api.Group("/admin")
	admin.GET("/dashboard", h.AdminDashboard)
	admin.POST("/sellers/:id/approve", h.ApproveSeller)
	admin.POST("/sellers/:id/reject", h.RejectSeller)
	admin.DELETE("/sellers/:id", h.DeleteSeller)
	admin.DELETE("/customers/:id", h.DeleteCustomer)
}

func (h *Handler) Health(c *gin.Context) {
	respond(c, http.StatusOK, LevelSuccess, "ok", "", nil)
}

// uintParam parses a numeric path parameter, answering 400 when it is not one.
func uintParam(c *gin.Context, name string) (uint64, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		respond(c, http.StatusBadRequest, LevelError, name+" must be a positive integer", "", nil)
		return 0, false
	}
	return v, true
}
