package http

import (
	"time"

	"storefront/internal/domain"
	"storefront/internal/services"

	"github.com/shopspring/decimal"
)

type RegisterCustomerRequest struct {
	Name     string `json:"name" binding:"required,max=30"`
	Username string `json:"username" binding:"required,max=25"`
	Password string `json:"password" binding:"required,min=6"`
	Email    string `json:"email" binding:"required,email"`
	Address  string `json:"address" binding:"max=60"`
	Phone    string `json:"phone" binding:"max=20"`
	Age      int    `json:"age" binding:"min=0,max=150"`
	PhotoRef string `json:"photoRef"`
}

func (r RegisterCustomerRequest) toInput() services.CustomerRegistration {
	return services.CustomerRegistration{
		Name:     r.Name,
		Username: r.Username,
		Password: r.Password,
		Email:    r.Email,
		Address:  r.Address,
		Phone:    r.Phone,
		Age:      r.Age,
		PhotoRef: r.PhotoRef,
	}
}

type RegisterSellerRequest struct {
	Name              string `json:"name" binding:"required,max=30"`
	Username          string `json:"username" binding:"required,max=25"`
	Password          string `json:"password" binding:"required,min=6"`
	Email             string `json:"email" binding:"required,email"`
	Address           string `json:"address" binding:"max=60"`
	Phone             string `json:"phone" binding:"max=20"`
	CollectiveDetails string `json:"collectiveDetails" binding:"max=90"`
	PassbookRef       string `json:"passbookRef"`
}

func (r RegisterSellerRequest) toInput() services.SellerRegistration {
	return services.SellerRegistration{
		Name:              r.Name,
		Username:          r.Username,
		Password:          r.Password,
		Email:             r.Email,
		Address:           r.Address,
		Phone:             r.Phone,
		CollectiveDetails: r.CollectiveDetails,
		PassbookRef:       r.PassbookRef,
	}
}

type ProfileRequest struct {
	Name     string `json:"name" binding:"required,max=30"`
	Address  string `json:"address" binding:"max=60"`
	Phone    string `json:"phone" binding:"max=20"`
	PhotoRef string `json:"photoRef"`
}

func (r ProfileRequest) toInput() services.ProfileUpdate {
	return services.ProfileUpdate{Name: r.Name, Address: r.Address, Phone: r.Phone, PhotoRef: r.PhotoRef}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type CheckoutRequest struct {
	FirstName  string `json:"firstName" binding:"required,max=50"`
	LastName   string `json:"lastName" binding:"required,max=50"`
	Address    string `json:"address" binding:"required,max=255"`
	City       string `json:"city" binding:"required,max=100"`
	State      string `json:"state" binding:"required,max=100"`
	ZipCode    string `json:"zipCode" binding:"required,max=10"`
	Email      string `json:"email" binding:"required,email"`
	Phone      string `json:"phone" binding:"required,max=20"`
	PaymentRef string `json:"paymentRef" binding:"max=100"`
}

func (r CheckoutRequest) toDomain() domain.CheckoutRequest {
	return domain.CheckoutRequest{
		Shipping: domain.ShippingAddress{
			FirstName: r.FirstName,
			LastName:  r.LastName,
			Address:   r.Address,
			City:      r.City,
			State:     r.State,
			ZipCode:   r.ZipCode,
			Email:     r.Email,
			Phone:     r.Phone,
		},
		PaymentRef: r.PaymentRef,
	}
}

type FeedbackRequest struct {
	Text string `json:"text"`
}

type ProductRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	UnitCost    decimal.Decimal `json:"unitCost"`
	Stock       int64           `json:"stock"`
	Category    string          `json:"category"`
	PhotoRef    string          `json:"photoRef"`
}

func (r ProductRequest) toInput() services.ProductInput {
	return services.ProductInput{
		Name:        r.Name,
		Description: r.Description,
		UnitPrice:   r.UnitPrice,
		UnitCost:    r.UnitCost,
		Stock:       r.Stock,
		Category:    r.Category,
		PhotoRef:    r.PhotoRef,
	}
}

type ProductQuery struct {
	Query    string `form:"q"`
	Category string `form:"category"`
	MaxPrice string `form:"max_price"`
	Page     int    `form:"page"`
}

type SalesQuery struct {
	Year  int `form:"year"`
	Month int `form:"month"`
}

// ProductView is a product as shoppers see it. Unit cost is left out; only the
// owning seller and the sales report see it.
type ProductView struct {
	ID          uint64          `json:"id"`
	SellerID    uint64          `json:"sellerId"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Stock       int64           `json:"stock"`
	Category    string          `json:"category"`
	PhotoRef    string          `json:"photoRef"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func newProductView(p domain.Product) ProductView {
	return ProductView{
		ID:          p.ID,
		SellerID:    p.SellerID,
		Name:        p.Name,
		Description: p.Description,
		UnitPrice:   p.UnitPrice,
		Stock:       p.Stock,
		Category:    p.Category,
		PhotoRef:    p.PhotoRef,
		CreatedAt:   p.CreatedAt,
	}
}

func newProductViews(products []domain.Product) []ProductView {
	out := make([]ProductView, len(products))
	for i, p := range products {
		out[i] = newProductView(p)
	}
	return out
}

type ProductPageView struct {
	Products   []ProductView `json:"products"`
	Page       int           `json:"page"`
	TotalPages int           `json:"totalPages"`
	Total      int64         `json:"total"`
}

type CartLineView struct {
	ID        uint64          `json:"id"`
	ProductID uint64          `json:"productId"`
	Product   *ProductView    `json:"product,omitempty"`
	Quantity  int64           `json:"quantity"`
	LineTotal decimal.Decimal `json:"lineTotal"`
	AddedAt   time.Time       `json:"addedAt"`
}

func newCartLineView(l *domain.CartLine) *CartLineView {
	if l == nil {
		return nil
	}
	v := &CartLineView{
		ID:        l.ID,
		ProductID: l.ProductID,
		Quantity:  l.Quantity,
		LineTotal: l.LineTotal(),
		AddedAt:   l.AddedAt,
	}
	if l.Product != nil {
		p := newProductView(*l.Product)
		v.Product = &p
	}
	return v
}

type CartView struct {
	Lines  []CartLineView    `json:"lines"`
	Totals domain.CartTotals `json:"totals"`
}

func newCartView(v domain.CartView) CartView {
	out := CartView{Lines: make([]CartLineView, len(v.Lines)), Totals: v.Totals}
	for i := range v.Lines {
		out.Lines[i] = *newCartLineView(&v.Lines[i])
	}
	return out
}

// OrderItemView shows the price a customer paid, never the seller's cost.
type OrderItemView struct {
	ID          uint64          `json:"id"`
	ProductID   uint64          `json:"productId"`
	ProductName string          `json:"productName"`
	SellerID    uint64          `json:"sellerId"`
	SellerName  string          `json:"sellerName"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

type OrderView struct {
	ID         uint64                 `json:"id"`
	CustomerID uint64                 `json:"customerId"`
	TotalPrice decimal.Decimal        `json:"totalPrice"`
	Status     domain.OrderStatus     `json:"status"`
	Shipping   domain.ShippingAddress `json:"shipping"`
	Items      []OrderItemView        `json:"items,omitempty"`
	Payment    *domain.Payment        `json:"payment,omitempty"`
	CreatedAt  time.Time              `json:"createdAt"`
}

func newOrderView(o *domain.Order) OrderView {
	v := OrderView{
		ID:         o.ID,
		CustomerID: o.CustomerID,
		TotalPrice: o.TotalPrice,
		Status:     o.Status,
		Shipping:   o.Shipping,
		Payment:    o.Payment,
		CreatedAt:  o.CreatedAt,
	}
	for _, it := range o.Items {
		v.Items = append(v.Items, OrderItemView{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			SellerID:    it.SellerID,
			SellerName:  it.SellerName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPriceSnapshot,
		})
	}
	return v
}

func newOrderViews(orders []domain.Order) []OrderView {
	out := make([]OrderView, len(orders))
	for i := range orders {
		out[i] = newOrderView(&orders[i])
	}
	return out
}

type CartLineResponse struct {
	Line    *CartLineView     `json:"line,omitempty"`
	Removed bool              `json:"removed"`
	Totals  domain.CartTotals `json:"totals"`
}

type SellerDashboard struct {
	Products []domain.Product  `json:"products"`
	Orders   []OrderView       `json:"orders"`
	Feedback []domain.Feedback `json:"feedback"`
}

type AdminDashboard struct {
	Sales           *domain.SalesReport `json:"sales"`
	Customers       []domain.Customer   `json:"customers"`
	ApprovedSellers []domain.Seller     `json:"approvedSellers"`
	PendingSellers  []domain.Seller     `json:"pendingSellers"`
}
