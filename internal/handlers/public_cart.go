package handlers

import (
	"context"
	"log"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurantportal/internal/cart"
	"restaurantportal/internal/models"
	"restaurantportal/internal/orders"
)

// Server-side carts for embed clients that cannot keep browser storage. A
// cart is addressed by restaurant and an opaque session chosen by the
// client.

type addCartItemRequest struct {
	ID         string           `json:"id" binding:"required"`
	Name       string           `json:"name" binding:"required"`
	FinalPrice models.FlexFloat `json:"finalPrice"`
	Quantity   int              `json:"quantity"`
}

type updateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

type checkoutRequest struct {
	Customer      models.OrderCustomer `json:"customer"`
	PickupTime    string               `json:"pickupTime"`
	OrderType     string               `json:"orderType"`
	PaymentMethod string               `json:"paymentMethod"`
	Total         *models.FlexFloat    `json:"total"`
}

func loadCart(ctx context.Context, c *gin.Context, storage cart.Storage) (*cart.Cart, error) {
	return cart.New(ctx, c.Param("restaurantId"), c.Param("session"), storage)
}

func GetCart(storage cart.Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /carts"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		current, err := loadCart(ctx, c, storage)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, current.View())
	}
}

func AddCartItem(storage cart.Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /carts/items"
		defer handlePanic(c, route)

		var req addCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		if price := req.FinalPrice.Float64(); math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
			respondWithError(c, http.StatusBadRequest, route, "finalPrice must be a non-negative number")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		current, err := loadCart(ctx, c, storage)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		snapshot := cart.Snapshot{ID: req.ID, Name: req.Name, FinalPrice: req.FinalPrice.Float64()}
		if err := current.AddItem(ctx, snapshot, req.Quantity); err != nil {
			respondServiceError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, current.View())
	}
}

func UpdateCartItem(storage cart.Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /carts/items/:itemId"
		defer handlePanic(c, route)

		var req updateCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		current, err := loadCart(ctx, c, storage)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}
		if err := current.UpdateQuantity(ctx, c.Param("itemId"), *req.Quantity); err != nil {
			respondServiceError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, current.View())
	}
}

func RemoveCartItem(storage cart.Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /carts/items/:itemId"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		current, err := loadCart(ctx, c, storage)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}
		if err := current.RemoveItem(ctx, c.Param("itemId")); err != nil {
			respondServiceError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, current.View())
	}
}

func ClearCart(storage cart.Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /carts"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		current, err := loadCart(ctx, c, storage)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}
		if err := current.Clear(ctx); err != nil {
			respondServiceError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, current.View())
	}
}

// CheckoutCart submits the cart as an order. The cart is emptied only after
// the order is recorded in both indices.
func CheckoutCart(storage cart.Storage, service *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /carts/checkout"
		defer handlePanic(c, route)

		var req checkoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*requestTimeout)
		defer cancel()

		current, err := loadCart(ctx, c, storage)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		var placed models.Order
		err = current.Checkout(ctx, func(ctx context.Context, lines []cart.Line, total float64) error {
			items := make([]orders.SubmitItem, 0, len(lines))
			for _, line := range lines {
				items = append(items, orders.SubmitItem{
					ID:         line.ID,
					Name:       line.Name,
					FinalPrice: line.FinalPrice,
					Quantity:   line.Quantity,
				})
			}
			if req.Total != nil {
				total = req.Total.Float64()
			}

			order, err := service.Submit(ctx, orders.SubmitRequest{
				RestaurantID:  current.RestaurantID(),
				Customer:      req.Customer,
				Items:         items,
				PickupTime:    req.PickupTime,
				OrderType:     req.OrderType,
				PaymentMethod: req.PaymentMethod,
				Total:         &total,
			})
			if err != nil {
				return err
			}
			placed = order
			return nil
		})
		if err != nil && placed.OrderNumber == "" {
			respondServiceError(c, route, err)
			return
		}
		if err != nil {
			log.Printf("[%s] [WARN] order %s placed but cart not cleared: %v", route, placed.OrderNumber, err)
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"orderId": placed.OrderNumber,
			"message": "Order submitted successfully",
		})
	}
}
