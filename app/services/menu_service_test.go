package services_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/andrianfauzi/warungku/app/models"
	"github.com/andrianfauzi/warungku/app/repositories"
	"github.com/andrianfauzi/warungku/app/services"
	"github.com/andrianfauzi/warungku/pkg/apperr"
	"github.com/andrianfauzi/warungku/pkg/paginate"
	"github.com/andrianfauzi/warungku/pkg/storage"
	"github.com/andrianfauzi/warungku/pkg/upload"
)

func newMenuService(t *testing.T) (*services.MenuService, *repositories.MenuRepository, *storage.MemDisk, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	repo := repositories.NewMenuRepository(db)
	disk := storage.NewMemDisk()
	return services.NewMenuService(repo, disk), repo, disk, db
}

func testImages(n int) []upload.File {
	files := make([]upload.File, n)
	for i := range files {
		files[i] = upload.File{
			Name:        fmt.Sprintf("photo-%d.jpg", i+1),
			ContentType: "image/jpeg",
			Data:        []byte{0xFF, 0xD8, 0xFF, byte(i)},
		}
	}
	return files
}

func sampleInput() services.MenuInput {
	return services.MenuInput{
		Name:        "Nasi Goreng",
		Price:       25000,
		Description: "Nasi goreng spesial",
		Quantity:    10,
	}
}

func TestMenuCreateWithImagesKeepsRowsAndAssetsInSync(t *testing.T) {
	ctx := context.Background()
	svc, repo, disk, _ := newMenuService(t)

	item, err := svc.Create(ctx, sampleInput(), testImages(3))
	require.NoError(t, err)
	require.NotZero(t, item.ID)

	rows, err := repo.ImagesFor(item.ID)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// Every row's locator must resolve to a retrievable object.
	for _, row := range rows {
		path, ok := disk.Path(row.ImageURL)
		require.True(t, ok, "locator %q should belong to the disk", row.ImageURL)
		assert.True(t, disk.Exists(ctx, path))
	}

	stored, err := disk.AllFiles(ctx, "menu")
	require.NoError(t, err)
	assert.Len(t, stored, 3, "no extra objects may exist")
}

func TestMenuCreateIsAllOrNothingWhenUploadFails(t *testing.T) {
	ctx := context.Background()
	svc, repo, disk, db := newMenuService(t)
	disk.FailPutOn = 2 // second of three uploads fails

	_, err := svc.Create(ctx, sampleInput(), testImages(3))
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.Upstream))

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Zero(t, count, "no menu row may persist")

	var imageRows int64
	require.NoError(t, db.Model(&models.MenuImage{}).Count(&imageRows).Error)
	assert.Zero(t, imageRows, "no image rows may persist")

	stored, err := disk.AllFiles(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, stored, "the first uploaded asset must be cleaned up")
}

func TestMenuDeleteRemovesAssetsAndRows(t *testing.T) {
	ctx := context.Background()
	svc, repo, disk, _ := newMenuService(t)

	item, err := svc.Create(ctx, sampleInput(), testImages(3))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, item.ID))

	stored, err := disk.AllFiles(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, stored)

	rows, err := repo.ImagesFor(item.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)

	_, err = svc.Get(ctx, item.ID)
	assert.True(t, apperr.IsKind(err, apperr.NotFound))
}

func TestMenuDeleteSurvivesAssetFailure(t *testing.T) {
	ctx := context.Background()
	svc, repo, disk, _ := newMenuService(t)

	item, err := svc.Create(ctx, sampleInput(), testImages(2))
	require.NoError(t, err)
	disk.FailDelete = "menu/" // every asset delete fails

	// Rows still go; the stranded objects are an operator concern.
	require.NoError(t, svc.Delete(ctx, item.ID))

	rows, err := repo.ImagesFor(item.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestMenuUpdateNotFoundBeforeTouchingImages(t *testing.T) {
	ctx := context.Background()
	svc, _, disk, _ := newMenuService(t)

	_, err := svc.Update(ctx, 999, sampleInput(), nil, testImages(1))
	assert.True(t, apperr.IsKind(err, apperr.NotFound))

	stored, err := disk.AllFiles(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, stored, "no upload may happen for a missing item")
}

func TestMenuUpdateDeletesMarkedImagesAssetFirst(t *testing.T) {
	ctx := context.Background()
	svc, repo, disk, _ := newMenuService(t)

	item, err := svc.Create(ctx, sampleInput(), testImages(2))
	require.NoError(t, err)
	rows, err := repo.ImagesFor(item.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	in := sampleInput()
	in.Price = 27000
	updated, err := svc.Update(ctx, item.ID, in, []uint{rows[0].ID}, nil)
	require.NoError(t, err)

	assert.Equal(t, 27000.0, updated.Price)
	assert.Len(t, updated.Images, 1)

	stored, err := disk.AllFiles(ctx, "")
	require.NoError(t, err)
	assert.Len(t, stored, 1, "the marked image's asset must be gone")
}

func TestMenuUpdateKeepsRowWhenAssetDeleteFails(t *testing.T) {
	ctx := context.Background()
	svc, repo, disk, _ := newMenuService(t)

	item, err := svc.Create(ctx, sampleInput(), testImages(1))
	require.NoError(t, err)
	rows, err := repo.ImagesFor(item.ID)
	require.NoError(t, err)

	disk.FailDelete = "menu/"
	_, err = svc.Update(ctx, item.ID, sampleInput(), []uint{rows[0].ID}, nil)
	require.Error(t, err)

	// Row survives so the object stays reachable for a retry.
	after, err := repo.ImagesFor(item.ID)
	require.NoError(t, err)
	assert.Len(t, after, 1)
}

func TestMenuListPagination(t *testing.T) {
	ctx := context.Background()
	svc, repo, _, _ := newMenuService(t)

	for i := 1; i <= 25; i++ {
		item := models.MenuItem{
			Name:        fmt.Sprintf("Menu %02d", i),
			Price:       float64(1000 * i),
			Description: "test",
			Quantity:    5,
		}
		require.NoError(t, repo.CreateItem(&item))
	}

	page, err := svc.List(ctx, paginate.Params{Page: 2, Limit: 10})
	require.NoError(t, err)

	require.Len(t, page.Items, 10)
	assert.Equal(t, "Menu 11", page.Items[0].Name)
	assert.Equal(t, "Menu 20", page.Items[9].Name)
	assert.Equal(t, int64(25), page.Meta.TotalItems)
	assert.Equal(t, int64(3), page.Meta.TotalPages)

	// Images are never null, even for items without any.
	for _, item := range page.Items {
		assert.NotNil(t, item.Images)
	}
}

