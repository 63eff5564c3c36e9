package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"restaurantportal/internal/apperr"
	"restaurantportal/internal/middleware"
)

type RestaurantUpdateRequest struct {
	Name       *string `json:"name"`
	WebsiteURL *string `json:"websiteUrl" binding:"omitempty,url"`
}

func GetRestaurant(restaurants RestaurantStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/restaurant"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		restaurant, err := restaurants.FindByID(ctx, middleware.RestaurantID(c))
		if err != nil {
			respondServiceError(c, route, wrapStoreErr("find restaurant", err))
			return
		}
		c.JSON(http.StatusOK, restaurant)
	}
}

func UpdateRestaurant(restaurants RestaurantStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/restaurant"
		defer handlePanic(c, route)

		var req RestaurantUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if req.Name == nil && req.WebsiteURL == nil {
			respondWithError(c, http.StatusBadRequest, route, "no fields to update")
			return
		}
		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				respondWithError(c, http.StatusBadRequest, route, "name cannot be empty")
				return
			}
			req.Name = &name
		}
		if req.WebsiteURL != nil {
			website := strings.TrimSpace(*req.WebsiteURL)
			req.WebsiteURL = &website
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		restaurant, err := restaurants.UpdateProfile(ctx, middleware.RestaurantID(c), req.Name, req.WebsiteURL, time.Now().UTC())
		if err != nil {
			respondServiceError(c, route, wrapStoreErr("update restaurant", err))
			return
		}
		c.JSON(http.StatusOK, restaurant)
	}
}

// wrapStoreErr keeps typed store errors and marks the rest as dependency
// failures.
func wrapStoreErr(op string, err error) error {
	if apperr.IsNotFound(err) || apperr.IsValidation(err) || apperr.IsConflict(err) {
		return err
	}
	return apperr.Dependency(op, err)
}
