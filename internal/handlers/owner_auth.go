package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"restaurantportal/internal/apperr"
	"restaurantportal/internal/middleware"
	"restaurantportal/internal/models"
)

// RestaurantStore holds one restaurant record per owner account.
type RestaurantStore interface {
	Create(ctx context.Context, restaurant models.Restaurant) error
	FindByEmail(ctx context.Context, email string) (models.Restaurant, error)
	FindByID(ctx context.Context, id string) (models.Restaurant, error)
	UpdateProfile(ctx context.Context, id string, name, websiteURL *string, now time.Time) (models.Restaurant, error)
}

type SignupRequest struct {
	RestaurantName string `json:"restaurantName" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func Signup(restaurants RestaurantStore, jwtSecret string, accessTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/signup"
		defer handlePanic(c, route)

		var req SignupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		name := strings.TrimSpace(req.RestaurantName)
		if name == "" {
			respondWithError(c, http.StatusBadRequest, route, "restaurantName is required")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Println("[AUTH] [ERROR] password hash failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "internal server error")
			return
		}

		now := time.Now().UTC()
		restaurant := models.Restaurant{
			ID:           uuid.NewString(),
			Name:         name,
			OwnerEmail:   strings.ToLower(strings.TrimSpace(req.Email)),
			PasswordHash: string(hash),
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		if err := restaurants.Create(ctx, restaurant); err != nil {
			respondServiceError(c, route, wrapStoreErr("create restaurant", err))
			return
		}

		token, err := middleware.IssueToken(jwtSecret, restaurant.ID, restaurant.OwnerEmail, accessTTL, now)
		if err != nil {
			log.Println("[AUTH] [ERROR] token generation failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "token generation failed")
			return
		}

		log.Println("[AUTH] [INFO] restaurant registered:", restaurant.ID)
		c.JSON(http.StatusCreated, gin.H{
			"token":      token,
			"restaurant": restaurant,
		})
	}
}

func Login(restaurants RestaurantStore, jwtSecret string, accessTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/login"
		defer handlePanic(c, route)

		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		restaurant, err := restaurants.FindByEmail(ctx, req.Email)
		if apperr.IsNotFound(err) {
			respondWithError(c, http.StatusUnauthorized, route, "invalid credentials")
			return
		}
		if err != nil {
			respondServiceError(c, route, apperr.Dependency("find restaurant", err))
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(restaurant.PasswordHash), []byte(req.Password)); err != nil {
			log.Println("[AUTH] [ERROR] login invalid credentials")
			respondWithError(c, http.StatusUnauthorized, route, "invalid credentials")
			return
		}

		token, err := middleware.IssueToken(jwtSecret, restaurant.ID, restaurant.OwnerEmail, accessTTL, time.Now())
		if err != nil {
			log.Println("[AUTH] [ERROR] token generation failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "token generation failed")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"token":      token,
			"restaurant": restaurant,
		})
	}
}
