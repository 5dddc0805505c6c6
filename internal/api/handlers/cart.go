package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ekoelbar/barclient/internal/cart"
	"github.com/ekoelbar/barclient/internal/domain"
)

// CartStore is the cart as the cart endpoints use it
type CartStore interface {
	Add(ctx context.Context, item domain.Beer, quantity int)
	UpdateQuantity(ctx context.Context, beerID int64, quantity int)
	Remove(ctx context.Context, beerID int64)
	Clear(ctx context.Context)
	Lines() []cart.Line
	Subscribe() (<-chan []cart.Line, func())
}

// BeerLookup resolves a beer id to the catalog entry stored in the cart
type BeerLookup interface {
	GetBeer(ctx context.Context, id int64) (*domain.Beer, error)
}

// AddToCartRequest represents an add-to-cart request. Quantity defaults to 1.
type AddToCartRequest struct {
	BeerID   int64 `json:"beerId" binding:"required"`
	Quantity *int  `json:"quantity"`
}

// UpdateCartLineRequest sets a line's quantity; zero or less removes it
type UpdateCartLineRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// CartResponse is the cart with its derived figures
type CartResponse struct {
	Lines []cart.Line     `json:"lines"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

func newCartResponse(lines []cart.Line) CartResponse {
	resp := CartResponse{Lines: lines, Total: decimal.Zero}
	if resp.Lines == nil {
		resp.Lines = []cart.Line{}
	}
	for _, l := range lines {
		resp.Count += l.Quantity
		resp.Total = resp.Total.Add(l.Subtotal())
	}
	return resp
}

// HandleGetCart handles GET /api/cart
func HandleGetCart(store CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, newCartResponse(store.Lines()))
	}
}

// HandleAddToCart handles POST /api/cart/items
func HandleAddToCart(store CartStore, beers BeerLookup, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AddToCartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}

		quantity := 1
		if req.Quantity != nil {
			quantity = *req.Quantity
		}

		beer, err := beers.GetBeer(c.Request.Context(), req.BeerID)
		if err != nil {
			respondError(c, logger, err, "Kunne ikke hente øl")
			return
		}

		store.Add(c.Request.Context(), *beer, quantity)
		c.JSON(http.StatusOK, newCartResponse(store.Lines()))
	}
}

// HandleUpdateCartLine handles PUT /api/cart/items/:beerId
func HandleUpdateCartLine(store CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		beerID, ok := parseID(c, "beerId")
		if !ok {
			return
		}

		var req UpdateCartLineRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}

		store.UpdateQuantity(c.Request.Context(), beerID, *req.Quantity)
		c.JSON(http.StatusOK, newCartResponse(store.Lines()))
	}
}

// HandleRemoveCartLine handles DELETE /api/cart/items/:beerId
func HandleRemoveCartLine(store CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		beerID, ok := parseID(c, "beerId")
		if !ok {
			return
		}

		store.Remove(c.Request.Context(), beerID)
		c.JSON(http.StatusOK, newCartResponse(store.Lines()))
	}
}

// HandleClearCart handles DELETE /api/cart
func HandleClearCart(store CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		store.Clear(c.Request.Context())
		c.JSON(http.StatusOK, newCartResponse(nil))
	}
}

// HandleCartStream handles GET /api/cart/stream. The current cart is sent
// first, then every change until the client goes away.
func HandleCartStream(store CartStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		updates, unsubscribe := store.Subscribe()
		defer unsubscribe()

		c.Header("Cache-Control", "no-cache")
		c.Header("X-Accel-Buffering", "no")

		done := c.Request.Context().Done()
		c.Stream(func(w io.Writer) bool {
			select {
			case lines, ok := <-updates:
				if !ok {
					return false
				}
				c.SSEvent("cart", newCartResponse(lines))
				return true
			case <-done:
				logger.Debug("Cart stream closed", zap.String("client_ip", c.ClientIP()))
				return false
			}
		})
	}
}
