// Package menu owns menu categories and items: the owner-side editor
// (Service) and the anonymous storefront read path (QueryService).
package menu

import (
	"context"
	"log"
	"math"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"restaurantportal/internal/apperr"
	"restaurantportal/internal/blobstore"
	"restaurantportal/internal/models"
	"restaurantportal/internal/pricing"
)

type CategoryInput struct {
	Name        string
	Description string
}

type CategoryPatch struct {
	Name        *string
	Description *string
}

type ItemInput struct {
	Name          string
	Description   string
	Price         float64
	DiscountType  string
	DiscountValue float64
	Available     *bool
}

type ItemPatch struct {
	Name          *string
	Description   *string
	Price         *float64
	DiscountType  *string
	DiscountValue *float64
	Available     *bool
	RemoveImage   bool
}

func (p ItemPatch) empty() bool {
	return p.Name == nil && p.Description == nil && p.Price == nil && p.DiscountType == nil &&
		p.DiscountValue == nil && p.Available == nil && !p.RemoveImage
}

type Service struct {
	repo  Repository
	blobs blobstore.Store
	now   func() time.Time
}

func NewService(repo Repository, blobs blobstore.Store) *Service {
	return &Service{repo: repo, blobs: blobs, now: time.Now}
}

/* =======================
   CATEGORIES
======================= */

func (s *Service) CreateCategory(ctx context.Context, restaurantID string, input CategoryInput) (models.MenuCategory, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return models.MenuCategory{}, apperr.Validation("name", "name required")
	}

	now := s.now()
	category := models.MenuCategory{
		RestaurantID: restaurantID,
		Name:         name,
		Description:  strings.TrimSpace(input.Description),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.InsertCategory(ctx, &category); err != nil {
		return models.MenuCategory{}, wrapRepoErr("insert category", err)
	}

	log.Printf("[MENU] [INFO] category %s created for restaurant %s", category.ID.Hex(), restaurantID)
	return category, nil
}

func (s *Service) UpdateCategory(ctx context.Context, restaurantID string, categoryID primitive.ObjectID, patch CategoryPatch) (models.MenuCategory, error) {
	if patch.Name == nil && patch.Description == nil {
		return models.MenuCategory{}, apperr.Validation("", "no fields to update")
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return models.MenuCategory{}, apperr.Validation("name", "name cannot be empty")
	}

	category, err := s.repo.GetCategory(ctx, restaurantID, categoryID)
	if err != nil {
		return models.MenuCategory{}, wrapRepoErr("find category", err)
	}

	if patch.Name != nil {
		category.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		category.Description = strings.TrimSpace(*patch.Description)
	}
	category.UpdatedAt = s.now()

	if err := s.repo.SaveCategory(ctx, category); err != nil {
		return models.MenuCategory{}, wrapRepoErr("update category", err)
	}
	return category, nil
}

// ItemFailure names an item whose cleanup step failed during a cascade.
type ItemFailure struct {
	ItemID string `json:"itemId"`
	Error  string `json:"error"`
}

// DeleteReport enumerates what a category cascade did. Image failures are
// informational; item failures keep the category in place.
type DeleteReport struct {
	CategoryID      string        `json:"categoryId"`
	DeletedItems    []string      `json:"deletedItems"`
	ImageFailures   []ItemFailure `json:"imageFailures"`
	ItemFailures    []ItemFailure `json:"itemFailures"`
	CategoryDeleted bool          `json:"categoryDeleted"`
}

// DeleteCategory removes every item (image first, best-effort) and then the
// category. When an item record cannot be removed the category stays so the
// cascade can be retried; the report lists what happened to each item.
func (s *Service) DeleteCategory(ctx context.Context, restaurantID string, categoryID primitive.ObjectID) (DeleteReport, error) {
	report := DeleteReport{
		CategoryID:    categoryID.Hex(),
		DeletedItems:  []string{},
		ImageFailures: []ItemFailure{},
		ItemFailures:  []ItemFailure{},
	}

	if _, err := s.repo.GetCategory(ctx, restaurantID, categoryID); err != nil {
		return report, wrapRepoErr("find category", err)
	}

	items, err := s.repo.ListItems(ctx, restaurantID, categoryID)
	if err != nil {
		return report, wrapRepoErr("list items", err)
	}

	for _, item := range items {
		if err := s.deleteImage(ctx, item.ImageStoragePath); err != nil {
			log.Printf("[MENU] [WARN] cascade image delete failed item=%s: %v", item.ID.Hex(), err)
			report.ImageFailures = append(report.ImageFailures, ItemFailure{ItemID: item.ID.Hex(), Error: err.Error()})
		}
		if err := s.repo.DeleteItem(ctx, restaurantID, categoryID, item.ID); err != nil && !apperr.IsNotFound(err) {
			log.Printf("[MENU] [ERROR] cascade item delete failed item=%s: %v", item.ID.Hex(), err)
			report.ItemFailures = append(report.ItemFailures, ItemFailure{ItemID: item.ID.Hex(), Error: err.Error()})
			continue
		}
		report.DeletedItems = append(report.DeletedItems, item.ID.Hex())
	}

	if len(report.ItemFailures) > 0 {
		return report, apperr.Dependency("delete category items", errCascadeIncomplete{failed: len(report.ItemFailures)})
	}

	if err := s.repo.DeleteCategory(ctx, restaurantID, categoryID); err != nil {
		return report, wrapRepoErr("delete category", err)
	}
	report.CategoryDeleted = true

	log.Printf("[MENU] [INFO] category %s deleted with %d items (%d image failures)",
		categoryID.Hex(), len(report.DeletedItems), len(report.ImageFailures))
	return report, nil
}

type errCascadeIncomplete struct{ failed int }

func (e errCascadeIncomplete) Error() string {
	return "cascade incomplete: " + strconv.Itoa(e.failed) + " item(s) could not be deleted"
}

/* =======================
   ITEMS
======================= */

func (s *Service) CreateItem(ctx context.Context, restaurantID string, categoryID primitive.ObjectID, input ItemInput, image *blobstore.Upload) (models.MenuItem, error) {
	discountType, err := parseDiscountType(input.DiscountType)
	if err != nil {
		return models.MenuItem{}, err
	}

	available := true
	if input.Available != nil {
		available = *input.Available
	}

	now := s.now()
	item := models.MenuItem{
		RestaurantID:  restaurantID,
		CategoryID:    categoryID,
		Name:          strings.TrimSpace(input.Name),
		Description:   strings.TrimSpace(input.Description),
		Price:         input.Price,
		DiscountType:  discountType,
		DiscountValue: input.DiscountValue,
		Available:     available,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := prepareItem(&item); err != nil {
		return models.MenuItem{}, err
	}
	if image != nil {
		if err := blobstore.ValidateImage(*image); err != nil {
			return models.MenuItem{}, apperr.Validation("image", err.Error())
		}
	}

	if _, err := s.repo.GetCategory(ctx, restaurantID, categoryID); err != nil {
		return models.MenuItem{}, wrapRepoErr("find category", err)
	}

	if image != nil {
		storagePath := blobstore.ItemImagePath(restaurantID, categoryID.Hex(), image.Filename, now)
		url, err := s.blobs.Upload(ctx, storagePath, image.Body)
		if err != nil {
			return models.MenuItem{}, apperr.Dependency("upload image", err)
		}
		item.ImageURL = url
		item.ImageStoragePath = storagePath
	}

	if err := s.repo.InsertItem(ctx, &item); err != nil {
		s.discardUpload(ctx, item.ImageStoragePath)
		return models.MenuItem{}, wrapRepoErr("insert item", err)
	}

	log.Printf("[MENU] [INFO] item %s created in category %s", item.ID.Hex(), categoryID.Hex())
	return item, nil
}

// UpdateItem merges the patch, recomputes the final price and swaps the
// image. The old image is deleted only after the record points at the new
// one, so a failure never leaves an item without any image.
func (s *Service) UpdateItem(ctx context.Context, restaurantID string, categoryID, itemID primitive.ObjectID, patch ItemPatch, image *blobstore.Upload) (models.MenuItem, error) {
	if patch.empty() && image == nil {
		return models.MenuItem{}, apperr.Validation("", "no fields to update")
	}

	existing, err := s.repo.GetItem(ctx, restaurantID, categoryID, itemID)
	if err != nil {
		return models.MenuItem{}, wrapRepoErr("find item", err)
	}

	updated := existing
	if patch.Name != nil {
		updated.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		updated.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Price != nil {
		updated.Price = *patch.Price
	}
	if patch.DiscountType != nil {
		discountType, err := parseDiscountType(*patch.DiscountType)
		if err != nil {
			return models.MenuItem{}, err
		}
		updated.DiscountType = discountType
	}
	if patch.DiscountValue != nil {
		updated.DiscountValue = *patch.DiscountValue
	}
	if patch.Available != nil {
		updated.Available = *patch.Available
	}
	if err := prepareItem(&updated); err != nil {
		return models.MenuItem{}, err
	}
	if image != nil {
		if err := blobstore.ValidateImage(*image); err != nil {
			return models.MenuItem{}, apperr.Validation("image", err.Error())
		}
	}

	now := s.now()
	updated.UpdatedAt = now

	oldPath := strings.TrimSpace(existing.ImageStoragePath)
	newPath := ""
	switch {
	case image != nil:
		newPath = blobstore.ItemImagePath(restaurantID, categoryID.Hex(), image.Filename, now)
		url, err := s.blobs.Upload(ctx, newPath, image.Body)
		if err != nil {
			return models.MenuItem{}, apperr.Dependency("upload image", err)
		}
		updated.ImageURL = url
		updated.ImageStoragePath = newPath
	case patch.RemoveImage:
		updated.ImageURL = ""
		updated.ImageStoragePath = ""
	}

	if err := s.repo.SaveItem(ctx, updated); err != nil {
		s.discardUpload(ctx, newPath)
		return models.MenuItem{}, wrapRepoErr("update item", err)
	}

	replaced := image != nil && oldPath != "" && oldPath != newPath
	removed := image == nil && patch.RemoveImage && oldPath != ""
	if replaced || removed {
		if err := s.deleteImage(ctx, oldPath); err != nil {
			log.Printf("[MENU] [WARN] old image delete failed item=%s path=%s: %v", itemID.Hex(), oldPath, err)
		}
	}

	return updated, nil
}

// DeleteItem removes the stored image best-effort and then the record. An
// orphaned blob is acceptable; it is logged.
func (s *Service) DeleteItem(ctx context.Context, restaurantID string, categoryID, itemID primitive.ObjectID) error {
	existing, err := s.repo.GetItem(ctx, restaurantID, categoryID, itemID)
	if err != nil {
		return wrapRepoErr("find item", err)
	}

	if err := s.deleteImage(ctx, existing.ImageStoragePath); err != nil {
		log.Printf("[MENU] [WARN] image delete failed item=%s path=%s: %v", itemID.Hex(), existing.ImageStoragePath, err)
	}

	if err := s.repo.DeleteItem(ctx, restaurantID, categoryID, itemID); err != nil {
		return wrapRepoErr("delete item", err)
	}
	return nil
}

// ListCategoriesWithItems reads categories, then the items of each. A
// concurrent edit between the two reads may show a slightly stale item list.
func (s *Service) ListCategoriesWithItems(ctx context.Context, restaurantID string) ([]models.CategoryWithItems, error) {
	categories, err := s.repo.ListCategories(ctx, restaurantID)
	if err != nil {
		return nil, wrapRepoErr("list categories", err)
	}

	out := make([]models.CategoryWithItems, 0, len(categories))
	for _, category := range categories {
		items, err := s.repo.ListItems(ctx, restaurantID, category.ID)
		if err != nil {
			return nil, wrapRepoErr("list items", err)
		}
		if items == nil {
			items = []models.MenuItem{}
		}
		out = append(out, models.CategoryWithItems{MenuCategory: category, Items: items})
	}
	return out, nil
}

/* =======================
   HELPERS
======================= */

func parseDiscountType(raw string) (models.DiscountType, error) {
	discountType, ok := models.ParseDiscountType(raw)
	if !ok {
		return "", apperr.Validation("discountType", "must be one of none, amount, percentage")
	}
	return discountType, nil
}

// prepareItem validates the merged fields and derives FinalPrice.
func prepareItem(item *models.MenuItem) error {
	if item.Name == "" {
		return apperr.Validation("name", "name required")
	}
	if math.IsNaN(item.Price) || math.IsInf(item.Price, 0) || item.Price < 0 {
		return apperr.Validation("price", "price must be a non-negative number")
	}
	if item.DiscountType == models.DiscountNone {
		item.DiscountValue = 0
	}
	if math.IsNaN(item.DiscountValue) || math.IsInf(item.DiscountValue, 0) || item.DiscountValue < 0 {
		return apperr.Validation("discountValue", "discountValue must be a non-negative number")
	}
	item.FinalPrice = pricing.StoredFinalPrice(item.Price, item.DiscountType, item.DiscountValue)
	return nil
}

func (s *Service) deleteImage(ctx context.Context, storagePath string) error {
	if strings.TrimSpace(storagePath) == "" {
		return nil
	}
	return s.blobs.Delete(ctx, storagePath)
}

func (s *Service) discardUpload(ctx context.Context, storagePath string) {
	if storagePath == "" {
		return
	}
	if err := s.blobs.Delete(ctx, storagePath); err != nil {
		log.Printf("[MENU] [WARN] could not discard upload %s: %v", storagePath, err)
	}
}
