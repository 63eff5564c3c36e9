package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"restaurantportal/internal/integration"
	"restaurantportal/internal/middleware"
)

// GetIntegration returns the embed snippet the owner pastes into their site.
func GetIntegration(restaurants RestaurantStore, publicBaseURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/integration"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		restaurant, err := restaurants.FindByID(ctx, middleware.RestaurantID(c))
		if err != nil {
			respondServiceError(c, route, wrapStoreErr("find restaurant", err))
			return
		}

		embed := integration.BuildEmbed(publicBaseURL, restaurant.ID)
		c.JSON(http.StatusOK, gin.H{
			"embed":    embed,
			"qrTarget": integration.QRTarget(publicBaseURL, restaurant.ID, restaurant.WebsiteURL),
		})
	}
}

// GetQRCode renders a PNG pointing at the restaurant's site, or at its
// public menu when no site is configured.
func GetQRCode(restaurants RestaurantStore, publicBaseURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/integration/qrcode"
		defer handlePanic(c, route)

		size := 0
		if raw := c.Query("size"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 64 || parsed > 1024 {
				respondWithError(c, http.StatusBadRequest, route, "size must be between 64 and 1024")
				return
			}
			size = parsed
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		restaurant, err := restaurants.FindByID(ctx, middleware.RestaurantID(c))
		if err != nil {
			respondServiceError(c, route, wrapStoreErr("find restaurant", err))
			return
		}

		png, err := integration.QRCode(integration.QRTarget(publicBaseURL, restaurant.ID, restaurant.WebsiteURL), size)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "qr generation failed")
			return
		}
		c.Data(http.StatusOK, "image/png", png)
	}
}
