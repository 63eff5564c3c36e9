package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurantportal/internal/middleware"
	"restaurantportal/internal/orders"
)

type OrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

/*
GET /api/orders?status=&page=&limit=
- Newest first, from the restaurant's own index
- status=all or no status means every order
*/
func ListOrders(service *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/orders"
		defer handlePanic(c, route)

		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		result, err := service.ListOrders(ctx, middleware.RestaurantID(c), c.Query("status"), page, limit)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func UpdateOrderStatus(service *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /api/orders/:orderNumber/status"
		defer handlePanic(c, route)

		var req OrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*requestTimeout)
		defer cancel()

		order, err := service.SetStatus(ctx, middleware.RestaurantID(c), c.Param("orderNumber"), req.Status)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}
