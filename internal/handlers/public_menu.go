package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurantportal/internal/menu"
)

/*
GET /getMenu?restaurantId=
- Anonymous, read-only
- Every category is returned with its items, unavailable ones included
*/
func GetMenu(queries *menu.QueryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /getMenu"
		defer handlePanic(c, route)

		restaurantID := c.Query("restaurantId")
		log.Printf("[%s] hit restaurantId=%q", route, restaurantID)

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		publicMenu, err := queries.GetMenu(ctx, restaurantID)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, publicMenu)
	}
}
