package menu

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"restaurantportal/internal/apperr"
	"restaurantportal/internal/blobstore"
	"restaurantportal/internal/models"
)

const testRestaurant = "rest-1"

func newTestService() (*Service, *memoryRepo, *memoryBlobs) {
	repo := newMemoryRepo()
	blobs := newMemoryBlobs()
	svc := NewService(repo, blobs)
	tick := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		tick = tick.Add(time.Millisecond)
		return tick
	}
	return svc, repo, blobs
}

func pngUpload(name string) *blobstore.Upload {
	return &blobstore.Upload{Filename: name, Size: 4, Body: strings.NewReader("\x89PNG")}
}

func ptr[T any](v T) *T { return &v }

func TestCreateCategoryRequiresName(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.CreateCategory(context.Background(), testRestaurant, CategoryInput{Name: "   "})
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
}

func TestUpdateCategoryOnlyTouchesGivenFields(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	created, err := svc.CreateCategory(ctx, testRestaurant, CategoryInput{Name: "Mains", Description: "Hot food"})
	require.NoError(t, err)

	updated, err := svc.UpdateCategory(ctx, testRestaurant, created.ID, CategoryPatch{Name: ptr("Main courses")})
	require.NoError(t, err)
	assert.Equal(t, "Main courses", updated.Name)
	assert.Equal(t, "Hot food", updated.Description)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

	_, err = svc.UpdateCategory(ctx, "someone-else", created.ID, CategoryPatch{Name: ptr("x")})
	assert.True(t, apperr.IsNotFound(err))
}

func TestCreateItemComputesFinalPriceAndDefaults(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	category, err := svc.CreateCategory(ctx, testRestaurant, CategoryInput{Name: "Pizza"})
	require.NoError(t, err)

	item, err := svc.CreateItem(ctx, testRestaurant, category.ID, ItemInput{
		Name:          "Margherita",
		Price:         12.5,
		DiscountType:  "percentage",
		DiscountValue: 20,
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, 10.0, item.FinalPrice)
	assert.True(t, item.Available)
	assert.Equal(t, models.DiscountPercentage, item.DiscountType)
}

func TestCreateItemValidation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	category, _ := svc.CreateCategory(ctx, testRestaurant, CategoryInput{Name: "Pizza"})

	tests := []struct {
		name  string
		input ItemInput
		field string
	}{
		{"missing name", ItemInput{Price: 3}, "name"},
		{"negative price", ItemInput{Name: "x", Price: -1}, "price"},
		{"unknown discount", ItemInput{Name: "x", Price: 3, DiscountType: "bogo"}, "discountType"},
		{"negative discount", ItemInput{Name: "x", Price: 3, DiscountType: "amount", DiscountValue: -2}, "discountValue"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateItem(ctx, testRestaurant, category.ID, tt.input, nil)
			var validation apperr.ValidationError
			require.ErrorAs(t, err, &validation)
			assert.Equal(t, tt.field, validation.Field)
		})
	}
}

func TestCreateItemUnknownCategory(t *testing.T) {
	svc, _, blobs := newTestService()

	_, err := svc.CreateItem(context.Background(), testRestaurant, primitive.NewObjectID(),
		ItemInput{Name: "Soup", Price: 4}, pngUpload("soup.png"))
	assert.True(t, apperr.IsNotFound(err))
	assert.Empty(t, blobs.objects, "nothing uploaded for a missing category")
}

func TestCreateItemWithImage(t *testing.T) {
	svc, _, blobs := newTestService()
	ctx := context.Background()
	category, _ := svc.CreateCategory(ctx, testRestaurant, CategoryInput{Name: "Pizza"})

	item, err := svc.CreateItem(ctx, testRestaurant, category.ID, ItemInput{Name: "Funghi", Price: 11}, pngUpload("fun ghi.png"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(item.ImageStoragePath, "restaurants/rest-1/menuItems/"+category.ID.Hex()+"/"))
	assert.True(t, strings.HasSuffix(item.ImageStoragePath, "-fun-ghi.png"))
	assert.Equal(t, "/uploads/"+item.ImageStoragePath, item.ImageURL)
	assert.True(t, blobs.has(item.ImageStoragePath))
}

func TestCreateItemRejectsBadImage(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	category, _ := svc.CreateCategory(ctx, testRestaurant, CategoryInput{Name: "Pizza"})

	_, err := svc.CreateItem(ctx, testRestaurant, category.ID, ItemInput{Name: "Funghi", Price: 11},
		&blobstore.Upload{Filename: "menu.pdf", Size: 10, Body: strings.NewReader("pdf")})
	assert.True(t, apperr.IsValidation(err))
}

func TestUpdateItemReplacesImageAfterSave(t *testing.T) {
	svc, _, blobs := newTestService()
	ctx := context.Background()
	category, _ := svc.CreateCategory(ctx, testRestaurant, CategoryInput{Name: "Pizza"})
	item, err := svc.CreateItem(ctx, testRestaurant, category.ID, ItemInput{Name: "Funghi", Price: 11}, pngUpload("a.png"))
	require.NoError(t, err)
	oldPath := item.ImageStoragePath

	updated, err := svc.UpdateItem(ctx, testRestaurant, category.ID, item.ID, ItemPatch{}, pngUpload("b.png"))
	require.NoError(t, err)

	assert.NotEqual(t, oldPath, updated.ImageStoragePath)
	assert.True(t, blobs.has(updated.ImageStoragePath))
	assert.False(t, blobs.has(oldPath))
}

func TestUpdateItemKeepsOldImageWhenSaveFails(t *testing.T) {
	svc, repo, blobs := newTestService()
	ctx := context.Background()
	category, _ := svc.CreateCategory(ctx, testRestaurant, CategoryInput{Name: "Pizza"})
	item, _ := svc.CreateItem(ctx, testRestaurant, category.ID, ItemInput{Name: "Funghi", Price: 11}, pngUpload("a.png"))

	repo.failSaveItem = true
	_, err := svc.UpdateItem(ctx, testRestaurant, category.ID, item.ID, ItemPatch{}, pngUpload("b.png"))

	var dependency apperr.DependencyError
	require.ErrorAs(t, err, &dependency)
	assert.True(t, blobs.has(item.ImageStoragePath), "old image survives a failed update")
	assert.Len(t, blobs.objects, 1, "new upload is discarded")
}

func TestUpdateItemRecomputesFinalPrice(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	category, _ := svc.CreateCategory(ctx, testRestaurant, CategoryInput{Name: "Drinks"})
	item, _ := svc.CreateItem(ctx, testRestaurant, category.ID, ItemInput{Name: "Lemonade", Price: 4}, nil)

	updated, err := svc.UpdateItem(ctx, testRestaurant, category.ID, item.ID, ItemPatch{
		DiscountType:  ptr("amount"),
		DiscountValue: ptr(5.0),
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, updated.FinalPrice)

	updated, err = svc.UpdateItem(ctx, testRestaurant, category.ID, item.ID, ItemPatch{DiscountType: ptr("none")}, nil)
	require.NoError(t, err)
	assert.Equal(t, 4.0, updated.FinalPrice)
	assert.Equal(t, 0.0, updated.DiscountValue)
}

func TestUpdateItemRemoveImage(t *testing.T) {
	svc, _, blobs := newTestService()
	ctx := context.Background()
	category, _ := svc.CreateCategory(ctx, testRestaurant, CategoryInput{Name: "Pizza"})
	item, _ := svc.CreateItem(ctx, testRestaurant, category.ID, ItemInput{Name: "Funghi", Price: 11}, pngUpload("a.png"))

	updated, err := svc.UpdateItem(ctx, testRestaurant, category.ID, item.ID, ItemPatch{RemoveImage: true}, nil)
	require.NoError(t, err)
	assert.Empty(t, updated.ImageURL)
	assert.Empty(t, updated.ImageStoragePath)
	assert.False(t, blobs.has(item.ImageStoragePath))
}

func TestUpdateItemRequiresChanges(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	category, _ := svc.CreateCategory(ctx, testRestaurant, CategoryInput{Name: "Pizza"})
	item, _ := svc.CreateItem(ctx, testRestaurant, category.ID, ItemInput{Name: "Funghi", Price: 11}, nil)

	_, err := svc.UpdateItem(ctx, testRestaurant, category.ID, item.ID, ItemPatch{}, nil)
	assert.True(t, apperr.IsValidation(err))
}

func TestDeleteItemToleratesImageFailure(t *testing.T) {
	svc, repo, blobs := newTestService()
	ctx := context.Background()
	category, _ := svc.CreateCategory(ctx, testRestaurant, CategoryInput{Name: "Pizza"})
	item, _ := svc.CreateItem(ctx, testRestaurant, category.ID, ItemInput{Name: "Funghi", Price: 11}, pngUpload("a.png"))
	blobs.failDelete[item.ImageStoragePath] = true

	require.NoError(t, svc.DeleteItem(ctx, testRestaurant, category.ID, item.ID))
	assert.NotContains(t, repo.items, item.ID)

	err := svc.DeleteItem(ctx, testRestaurant, category.ID, item.ID)
	assert.True(t, apperr.IsNotFound(err))
}

func TestDeleteCategoryCascades(t *testing.T) {
	svc, repo, blobs := newTestService()
	ctx := context.Background()
	category, _ := svc.CreateCategory(ctx, testRestaurant, CategoryInput{Name: "Pizza"})
	a, _ := svc.CreateItem(ctx, testRestaurant, category.ID, ItemInput{Name: "A", Price: 1}, pngUpload("a.png"))
	b, _ := svc.CreateItem(ctx, testRestaurant, category.ID, ItemInput{Name: "B", Price: 2}, pngUpload("b.png"))
	blobs.failDelete[b.ImageStoragePath] = true

	report, err := svc.DeleteCategory(ctx, testRestaurant, category.ID)
	require.NoError(t, err)

	assert.True(t, report.CategoryDeleted)
	assert.ElementsMatch(t, []string{a.ID.Hex(), b.ID.Hex()}, report.DeletedItems)
	require.Len(t, report.ImageFailures, 1)
	assert.Equal(t, b.ID.Hex(), report.ImageFailures[0].ItemID)
	assert.Empty(t, repo.items)
	assert.Empty(t, repo.categories)
}

func TestDeleteCategoryKeepsCategoryWhenItemDeleteFails(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()
	category, _ := svc.CreateCategory(ctx, testRestaurant, CategoryInput{Name: "Pizza"})
	a, _ := svc.CreateItem(ctx, testRestaurant, category.ID, ItemInput{Name: "A", Price: 1}, nil)
	b, _ := svc.CreateItem(ctx, testRestaurant, category.ID, ItemInput{Name: "B", Price: 2}, nil)
	repo.failItemDelete[b.ID] = true

	report, err := svc.DeleteCategory(ctx, testRestaurant, category.ID)

	var dependency apperr.DependencyError
	require.ErrorAs(t, err, &dependency)
	assert.False(t, report.CategoryDeleted)
	assert.Equal(t, []string{a.ID.Hex()}, report.DeletedItems)
	require.Len(t, report.ItemFailures, 1)
	assert.Equal(t, b.ID.Hex(), report.ItemFailures[0].ItemID)
	assert.Contains(t, repo.categories, category.ID)
}

func TestListCategoriesWithItems(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	pizza, _ := svc.CreateCategory(ctx, testRestaurant, CategoryInput{Name: "Pizza"})
	_, _ = svc.CreateCategory(ctx, testRestaurant, CategoryInput{Name: "Drinks"})
	_, _ = svc.CreateItem(ctx, testRestaurant, pizza.ID, ItemInput{Name: "Margherita", Price: 9}, nil)

	menu, err := svc.ListCategoriesWithItems(ctx, testRestaurant)
	require.NoError(t, err)
	require.Len(t, menu, 2)
	assert.Equal(t, "Drinks", menu[0].Name)
	assert.NotNil(t, menu[0].Items)
	assert.Empty(t, menu[0].Items)
	assert.Len(t, menu[1].Items, 1)
}

func TestParseID(t *testing.T) {
	id := primitive.NewObjectID()
	parsed, err := ParseID("itemId", " "+id.Hex()+" ")
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	_, err = ParseID("itemId", "nope")
	assert.True(t, apperr.IsValidation(err))
}
