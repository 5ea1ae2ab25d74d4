package transport

import (
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/retailer_portal/internal/cart"
)

type SignupRequest struct {
	ShopName  string `json:"shop_name" form:"shop_name" validate:"required,max=120"`
	OwnerName string `json:"owner_name" form:"owner_name" validate:"required,max=120"`
	Location  string `json:"location" form:"location" validate:"max=120"`
	Phone     string `json:"phone" form:"phone" validate:"max=32"`
	Email     string `json:"email" form:"email" validate:"required,email"`
	Password  string `json:"password" form:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

type UserResponse struct {
	Email    string `json:"email"`
	ShopName string `json:"shop_name"`
	Role     string `json:"role"`
}

// CartAddRequest: a missing quantity means one unit.
type CartAddRequest struct {
	ProductID string `json:"product_id" form:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" form:"quantity" validate:"gte=0,lte=10000"`
}

// CartUpdateRequest: quantity zero or below removes the line.
type CartUpdateRequest struct {
	ProductID string `param:"product_id" json:"product_id" form:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" form:"quantity" validate:"lte=10000"`
}

type CartResponse struct {
	Lines []cart.Line     `json:"lines"`
	Total decimal.Decimal `json:"total"`
	Size  int             `json:"cart_size"`
}

func NewCartResponse(c *cart.Cart) CartResponse {
	return CartResponse{Lines: c.Lines, Total: c.Total(), Size: c.Size()}
}

type AssistantRequest struct {
	Query string `json:"query" form:"query" validate:"required,max=500"`
}

type AssistantResponse struct {
	Query    string `json:"query"`
	Response string `json:"response"`
}

type ImportResponse struct {
	Imported int `json:"imported"`
}
