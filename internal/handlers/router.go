package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"restaurantportal/internal/cart"
	"restaurantportal/internal/menu"
	"restaurantportal/internal/middleware"
	"restaurantportal/internal/orders"
)

// Dependencies is everything the HTTP surface needs. The serve command
// builds it from Mongo or from the in-memory stores.
type Dependencies struct {
	Menus          *menu.Service
	MenuQueries    *menu.QueryService
	Orders         *orders.Service
	Carts          cart.Storage
	Restaurants    RestaurantStore
	JWTSecret      string
	AccessTokenTTL time.Duration
	PublicBaseURL  string
	AllowedOrigins []string
	UploadDir      string
	UploadBaseURL  string
	Ping           func(ctx context.Context) error
	Now            func() time.Time
}

func NewRouter(deps Dependencies) *gin.Engine {
	if deps.Now == nil {
		deps.Now = time.Now
	}

	r := gin.Default()
	r.Use(middleware.CORS(deps.AllowedOrigins))

	if deps.UploadDir != "" && deps.UploadBaseURL != "" {
		r.Static(deps.UploadBaseURL, deps.UploadDir)
	}

	r.GET("/health", Health(deps.Ping))

	// storefront
	r.GET("/getMenu", GetMenu(deps.MenuQueries))
	r.Any("/submitOrder", SubmitOrder(deps.Orders))
	r.GET("/pickupTimes", PickupTimes(deps.Now))

	carts := r.Group("/carts/:restaurantId/:session")
	{
		carts.GET("", GetCart(deps.Carts))
		carts.DELETE("", ClearCart(deps.Carts))
		carts.POST("/items", AddCartItem(deps.Carts))
		carts.PATCH("/items/:itemId", UpdateCartItem(deps.Carts))
		carts.DELETE("/items/:itemId", RemoveCartItem(deps.Carts))
		carts.POST("/checkout", CheckoutCart(deps.Carts, deps.Orders))
	}

	r.POST("/auth/signup", Signup(deps.Restaurants, deps.JWTSecret, deps.AccessTokenTTL))
	r.POST("/auth/login", Login(deps.Restaurants, deps.JWTSecret, deps.AccessTokenTTL))

	owner := r.Group("/api")
	owner.Use(middleware.OwnerAuth(deps.JWTSecret))
	{
		owner.GET("/restaurant", GetRestaurant(deps.Restaurants))
		owner.PUT("/restaurant", UpdateRestaurant(deps.Restaurants))

		owner.GET("/menu/categories", ListMenu(deps.Menus))
		owner.POST("/menu/categories", CreateCategory(deps.Menus))
		owner.PUT("/menu/categories/:categoryId", UpdateCategory(deps.Menus))
		owner.DELETE("/menu/categories/:categoryId", DeleteCategory(deps.Menus))
		owner.POST("/menu/categories/:categoryId/items", CreateItem(deps.Menus))
		owner.PUT("/menu/categories/:categoryId/items/:itemId", UpdateItem(deps.Menus))
		owner.DELETE("/menu/categories/:categoryId/items/:itemId", DeleteItem(deps.Menus))
		owner.GET("/menu/price-preview", PricePreview())

		owner.GET("/orders", ListOrders(deps.Orders))
		owner.PATCH("/orders/:orderNumber/status", UpdateOrderStatus(deps.Orders))

		owner.GET("/integration", GetIntegration(deps.Restaurants, deps.PublicBaseURL))
		owner.GET("/integration/qrcode", GetQRCode(deps.Restaurants, deps.PublicBaseURL))
	}

	return r
}
