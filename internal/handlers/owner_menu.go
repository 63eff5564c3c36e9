package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"restaurantportal/internal/apperr"
	"restaurantportal/internal/menu"
	"restaurantportal/internal/middleware"
	"restaurantportal/internal/models"
	"restaurantportal/internal/pricing"
)

type CategoryCreateRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type CategoryUpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

/*
GET /api/menu/categories
- Categories by name, each with its items by name
*/
func ListMenu(service *menu.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/menu/categories"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		categories, err := service.ListCategoriesWithItems(ctx, middleware.RestaurantID(c))
		if err != nil {
			respondServiceError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": categories})
	}
}

func CreateCategory(service *menu.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/menu/categories"
		defer handlePanic(c, route)

		var req CategoryCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		category, err := service.CreateCategory(ctx, middleware.RestaurantID(c), menu.CategoryInput{
			Name:        req.Name,
			Description: req.Description,
		})
		if err != nil {
			respondServiceError(c, route, err)
			return
		}
		c.JSON(http.StatusCreated, category)
	}
}

func UpdateCategory(service *menu.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/menu/categories/:categoryId"
		defer handlePanic(c, route)

		categoryID, ok := categoryParam(c, route)
		if !ok {
			return
		}

		var req CategoryUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid body")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		category, err := service.UpdateCategory(ctx, middleware.RestaurantID(c), categoryID, menu.CategoryPatch{
			Name:        req.Name,
			Description: req.Description,
		})
		if err != nil {
			respondServiceError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, category)
	}
}

/*
DELETE /api/menu/categories/:categoryId
- Items and their images go first, then the category
- The report is returned on failure too, so the editor can show what is left
*/
func DeleteCategory(service *menu.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/menu/categories/:categoryId"
		defer handlePanic(c, route)

		categoryID, ok := categoryParam(c, route)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*requestTimeout)
		defer cancel()

		report, err := service.DeleteCategory(ctx, middleware.RestaurantID(c), categoryID)
		if err != nil {
			status := apperr.HTTPStatus(err)
			if status >= http.StatusInternalServerError {
				log.Printf("[%s] [ERROR] %v", route, err)
			}
			c.AbortWithStatusJSON(status, gin.H{"error": apperr.PublicMessage(err), "report": report})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "category deleted", "report": report})
	}
}

/* =======================
   ITEMS
======================= */

func CreateItem(service *menu.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/menu/categories/:categoryId/items"
		defer handlePanic(c, route)

		categoryID, ok := categoryParam(c, route)
		if !ok {
			return
		}

		submission, err := parseItemRequest(c)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}
		defer submission.Close()

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*requestTimeout)
		defer cancel()

		item, err := service.CreateItem(ctx, middleware.RestaurantID(c), categoryID, submission.Input(), submission.Image)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}
		c.JSON(http.StatusCreated, item)
	}
}

func UpdateItem(service *menu.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/menu/categories/:categoryId/items/:itemId"
		defer handlePanic(c, route)

		categoryID, ok := categoryParam(c, route)
		if !ok {
			return
		}
		itemID, ok := itemParam(c, route)
		if !ok {
			return
		}

		submission, err := parseItemRequest(c)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}
		defer submission.Close()

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*requestTimeout)
		defer cancel()

		item, err := service.UpdateItem(ctx, middleware.RestaurantID(c), categoryID, itemID, submission.Patch, submission.Image)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

func DeleteItem(service *menu.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/menu/categories/:categoryId/items/:itemId"
		defer handlePanic(c, route)

		categoryID, ok := categoryParam(c, route)
		if !ok {
			return
		}
		itemID, ok := itemParam(c, route)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		if err := service.DeleteItem(ctx, middleware.RestaurantID(c), categoryID, itemID); err != nil {
			respondServiceError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "item deleted"})
	}
}

/*
GET /api/menu/price-preview?price=&discountType=&discountValue=
- Live final price shown by the item form
*/
func PricePreview() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/menu/price-preview"

		price, err := strconv.ParseFloat(strings.TrimSpace(c.Query("price")), 64)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "price must be a number")
			return
		}

		discountType, ok := models.ParseDiscountType(c.Query("discountType"))
		if !ok {
			respondWithError(c, http.StatusBadRequest, route, "discountType must be one of none, amount, percentage")
			return
		}

		discountValue := 0.0
		if raw := strings.TrimSpace(c.Query("discountValue")); raw != "" {
			discountValue, err = strconv.ParseFloat(raw, 64)
			if err != nil {
				respondWithError(c, http.StatusBadRequest, route, "discountValue must be a number")
				return
			}
		}

		breakdown := pricing.Describe(price, discountType, discountValue)
		c.JSON(http.StatusOK, gin.H{
			"breakdown": breakdown,
			"formatted": pricing.FormatPrice(breakdown.FinalPrice),
		})
	}
}

func categoryParam(c *gin.Context, route string) (primitive.ObjectID, bool) {
	id, err := menu.ParseID("categoryId", c.Param("categoryId"))
	if err != nil {
		respondServiceError(c, route, err)
		return primitive.NilObjectID, false
	}
	return id, true
}

func itemParam(c *gin.Context, route string) (primitive.ObjectID, bool) {
	id, err := menu.ParseID("itemId", c.Param("itemId"))
	if err != nil {
		respondServiceError(c, route, err)
		return primitive.NilObjectID, false
	}
	return id, true
}
