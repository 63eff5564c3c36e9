package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"restaurantportal/internal/models"
	"restaurantportal/internal/orders"
)

/* =========================
   REQUEST DTOs
========================= */

// Prices arrive as numbers or numeric strings depending on the widget
// revision, hence FlexFloat.
type submitOrderItemRequest struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	FinalPrice models.FlexFloat `json:"finalPrice"`
	Quantity   int              `json:"quantity"`
}

type submitOrderRequest struct {
	RestaurantID  string                   `json:"restaurantId"`
	Customer      models.OrderCustomer     `json:"customer"`
	Items         []submitOrderItemRequest `json:"items"`
	PickupTime    string                   `json:"pickupTime"`
	OrderType     string                   `json:"orderType"`
	PaymentMethod string                   `json:"paymentMethod"`
	Total         *models.FlexFloat        `json:"total"`
}

func (r submitOrderRequest) toSubmit() orders.SubmitRequest {
	items := make([]orders.SubmitItem, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, orders.SubmitItem{
			ID:         item.ID,
			Name:       item.Name,
			FinalPrice: item.FinalPrice.Float64(),
			Quantity:   item.Quantity,
		})
	}

	req := orders.SubmitRequest{
		RestaurantID:  r.RestaurantID,
		Customer:      r.Customer,
		Items:         items,
		PickupTime:    r.PickupTime,
		OrderType:     r.OrderType,
		PaymentMethod: r.PaymentMethod,
	}
	if r.Total != nil {
		total := r.Total.Float64()
		req.Total = &total
	}
	return req
}

/* =========================
   SUBMIT ORDER
========================= */

// SubmitOrder is mounted for every method; only POST is accepted.
func SubmitOrder(service *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "/submitOrder"
		defer handlePanic(c, route)

		if c.Request.Method != http.MethodPost {
			respondWithError(c, http.StatusBadRequest, route, "Method not allowed")
			return
		}

		var req submitOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*requestTimeout)
		defer cancel()

		order, err := service.Submit(ctx, req.toSubmit())
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		log.Printf("[ORDER] [INFO] order %s accepted for restaurant %s", order.OrderNumber, order.RestaurantID)
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"orderId": order.OrderNumber,
			"message": "Order submitted successfully",
		})
	}
}

/* =========================
   PICKUP TIMES
========================= */

func PickupTimes(now func() time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"slots": orders.PickupSlots(now())})
	}
}
