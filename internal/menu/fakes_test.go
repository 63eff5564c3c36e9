package menu

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"restaurantportal/internal/apperr"
	"restaurantportal/internal/models"
)

type memoryRepo struct {
	mu         sync.Mutex
	categories map[primitive.ObjectID]models.MenuCategory
	items      map[primitive.ObjectID]models.MenuItem

	failItemDelete map[primitive.ObjectID]bool
	failSaveItem   bool
	failList       bool
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		categories:     map[primitive.ObjectID]models.MenuCategory{},
		items:          map[primitive.ObjectID]models.MenuItem{},
		failItemDelete: map[primitive.ObjectID]bool{},
	}
}

func (r *memoryRepo) ListCategories(_ context.Context, restaurantID string) ([]models.MenuCategory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failList {
		return nil, errors.New("connection reset")
	}
	out := []models.MenuCategory{}
	for _, category := range r.categories {
		if category.RestaurantID == restaurantID {
			out = append(out, category)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memoryRepo) ListItems(_ context.Context, restaurantID string, categoryID primitive.ObjectID) ([]models.MenuItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.MenuItem{}
	for _, item := range r.items {
		if item.RestaurantID == restaurantID && item.CategoryID == categoryID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memoryRepo) InsertCategory(_ context.Context, category *models.MenuCategory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	category.ID = primitive.NewObjectID()
	r.categories[category.ID] = *category
	return nil
}

func (r *memoryRepo) GetCategory(_ context.Context, restaurantID string, categoryID primitive.ObjectID) (models.MenuCategory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	category, ok := r.categories[categoryID]
	if !ok || category.RestaurantID != restaurantID {
		return models.MenuCategory{}, apperr.NotFound("category", categoryID.Hex())
	}
	return category, nil
}

func (r *memoryRepo) SaveCategory(_ context.Context, category models.MenuCategory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.categories[category.ID] = category
	return nil
}

func (r *memoryRepo) DeleteCategory(_ context.Context, restaurantID string, categoryID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.categories, categoryID)
	return nil
}

func (r *memoryRepo) InsertItem(_ context.Context, item *models.MenuItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item.ID = primitive.NewObjectID()
	r.items[item.ID] = *item
	return nil
}

func (r *memoryRepo) GetItem(_ context.Context, restaurantID string, categoryID, itemID primitive.ObjectID) (models.MenuItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[itemID]
	if !ok || item.RestaurantID != restaurantID || item.CategoryID != categoryID {
		return models.MenuItem{}, apperr.NotFound("item", itemID.Hex())
	}
	return item, nil
}

func (r *memoryRepo) SaveItem(_ context.Context, item models.MenuItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failSaveItem {
		return errors.New("write conflict")
	}
	r.items[item.ID] = item
	return nil
}

func (r *memoryRepo) DeleteItem(_ context.Context, restaurantID string, categoryID, itemID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failItemDelete[itemID] {
		return errors.New("delete timed out")
	}
	delete(r.items, itemID)
	return nil
}

type memoryBlobs struct {
	mu         sync.Mutex
	objects    map[string][]byte
	deleted    []string
	failDelete map[string]bool
	failUpload bool
}

func newMemoryBlobs() *memoryBlobs {
	return &memoryBlobs{objects: map[string][]byte{}, failDelete: map[string]bool{}}
}

func (b *memoryBlobs) Upload(_ context.Context, storagePath string, body io.Reader) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failUpload {
		return "", errors.New("bucket unavailable")
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	b.objects[storagePath] = data
	return "/uploads/" + storagePath, nil
}

func (b *memoryBlobs) Delete(_ context.Context, storagePath string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failDelete[storagePath] {
		return errors.New("permission denied")
	}
	delete(b.objects, storagePath)
	b.deleted = append(b.deleted, storagePath)
	return nil
}

func (b *memoryBlobs) has(storagePath string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.objects[storagePath]
	return ok
}
