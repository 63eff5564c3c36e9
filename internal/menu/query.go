package menu

import (
	"context"
	"strings"

	"restaurantportal/internal/apperr"
	"restaurantportal/internal/models"
	"restaurantportal/internal/pricing"
)

// PublicItem is the storefront shape of a menu item. Every field is always
// present so embedding pages never branch on missing values.
type PublicItem struct {
	ID            string              `json:"id"`
	Name          string              `json:"name"`
	Description   string              `json:"description"`
	Price         float64             `json:"price"`
	Discount      float64             `json:"discount"`
	DiscountType  models.DiscountType `json:"discountType"`
	DiscountValue float64             `json:"discountValue"`
	FinalPrice    float64             `json:"finalPrice"`
	Available     bool                `json:"available"`
	ImageURL      string              `json:"imageUrl"`
}

type PublicCategory struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Items       []PublicItem `json:"items"`
}

type PublicMenu struct {
	RestaurantID string           `json:"restaurantId"`
	Categories   []PublicCategory `json:"categories"`
}

// QueryService is the anonymous read path behind the embeddable widget.
type QueryService struct {
	reader Reader
}

func NewQueryService(reader Reader) *QueryService {
	return &QueryService{reader: reader}
}

// GetMenu returns every category of the restaurant with its items.
// Unavailable items are included with available=false; the widget greys
// them out. An unknown restaurant yields an empty menu.
func (q *QueryService) GetMenu(ctx context.Context, restaurantID string) (PublicMenu, error) {
	restaurantID = strings.TrimSpace(restaurantID)
	if restaurantID == "" {
		return PublicMenu{}, apperr.Validation("restaurantId", "restaurantId is required")
	}

	categories, err := q.reader.ListCategories(ctx, restaurantID)
	if err != nil {
		return PublicMenu{}, wrapRepoErr("list categories", err)
	}

	menu := PublicMenu{RestaurantID: restaurantID, Categories: make([]PublicCategory, 0, len(categories))}
	for _, category := range categories {
		items, err := q.reader.ListItems(ctx, restaurantID, category.ID)
		if err != nil {
			return PublicMenu{}, wrapRepoErr("list items", err)
		}

		publicItems := make([]PublicItem, 0, len(items))
		for _, item := range items {
			publicItems = append(publicItems, publicItem(item))
		}

		menu.Categories = append(menu.Categories, PublicCategory{
			ID:          category.ID.Hex(),
			Name:        category.Name,
			Description: category.Description,
			Items:       publicItems,
		})
	}
	return menu, nil
}

func publicItem(item models.MenuItem) PublicItem {
	discountType := item.DiscountType
	if parsed, ok := models.ParseDiscountType(string(discountType)); ok {
		discountType = parsed
	} else {
		discountType = models.DiscountNone
	}

	discountValue := item.DiscountValue
	if discountType == models.DiscountNone {
		discountValue = 0
	}

	return PublicItem{
		ID:            item.ID.Hex(),
		Name:          item.Name,
		Description:   item.Description,
		Price:         pricing.Round2(item.Price),
		Discount:      discountValue,
		DiscountType:  discountType,
		DiscountValue: discountValue,
		FinalPrice:    pricing.StoredFinalPrice(item.Price, discountType, discountValue),
		Available:     item.Available,
		ImageURL:      item.ImageURL,
	}
}
