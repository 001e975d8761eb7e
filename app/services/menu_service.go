package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/andrianfauzi/warungku/app/models"
	"github.com/andrianfauzi/warungku/app/repositories"
	"github.com/andrianfauzi/warungku/config"
	"github.com/andrianfauzi/warungku/pkg/apperr"
	"github.com/andrianfauzi/warungku/pkg/cache"
	"github.com/andrianfauzi/warungku/pkg/logger"
	"github.com/andrianfauzi/warungku/pkg/metrics"
	"github.com/andrianfauzi/warungku/pkg/paginate"
	"github.com/andrianfauzi/warungku/pkg/storage"
	"github.com/andrianfauzi/warungku/pkg/upload"
	"github.com/andrianfauzi/warungku/pkg/workerpool"
)

const (
	menuCacheTTL     = 5 * time.Minute
	menuItemKeyFmt   = "menu:item:%d"
	menuListKeyFmt   = "menu:list:%d:%d"
	menuListPattern  = "menu:list:*"
	cleanupWorkers   = 4
)

// MenuInput carries the validated menu item payload shared by create and
// update.
type MenuInput struct {
	Name        string  `json:"name" validate:"required"`
	Price       float64 `json:"price" validate:"required,gte=0"`
	Description string  `json:"description" validate:"required"`
	Quantity    int     `json:"quantity" validate:"required,gte=1"`
}

// MenuPage is one page of menu items plus pagination metadata. It is also
// the cached shape for list reads.
type MenuPage struct {
	Items []models.MenuItem `json:"items"`
	Meta  paginate.Meta     `json:"meta"`
}

// MenuService keeps menu rows and their stored image assets consistent
// across create, update, and delete.
type MenuService struct {
	repo *repositories.MenuRepository
	disk storage.Disk
}

func NewMenuService(repo *repositories.MenuRepository, disk storage.Disk) *MenuService {
	return &MenuService{repo: repo, disk: disk}
}

// Create inserts the item and its image rows in one transaction. Each file
// is uploaded to the asset store before its row is inserted; if any step
// fails, the transaction rolls back and every already-uploaded asset is
// removed, so a failed create leaves no rows and no objects behind.
func (s *MenuService) Create(ctx context.Context, in MenuInput, images []upload.File) (models.MenuItem, error) {
	item := models.MenuItem{
		Name:        in.Name,
		Price:       in.Price,
		Description: in.Description,
		Quantity:    in.Quantity,
		Images:      []models.MenuImage{},
	}

	var uploaded []string // object paths with no committed row yet

	err := s.repo.Transaction(func(tx *repositories.MenuRepository) error {
		if err := tx.CreateItem(&item); err != nil {
			return apperr.Wrap(apperr.Upstream, "Internal Server Error", err)
		}

		for _, file := range images {
			path := assetPath("menu", file.Ext())
			if err := s.put(ctx, path, file); err != nil {
				return err
			}
			uploaded = append(uploaded, path)

			img := models.MenuImage{MenuID: item.ID, ImageURL: s.disk.URL(path)}
			if err := tx.CreateImage(&img); err != nil {
				return apperr.Wrap(apperr.Upstream, "Internal Server Error", err)
			}
			item.Images = append(item.Images, img)
		}
		return nil
	})
	if err != nil {
		s.removeAssets(ctx, uploaded)
		return models.MenuItem{}, err
	}

	s.invalidate(item.ID)
	logger.WithCtx(ctx).Info("menu item created", "menu_id", item.ID, "images", len(images))
	return item, nil
}

// Get returns one item with its images, read through the cache.
func (s *MenuService) Get(ctx context.Context, id uint) (models.MenuItem, error) {
	key := fmt.Sprintf(menuItemKeyFmt, id)

	var cached models.MenuItem
	if cache.Get(key, &cached) {
		return cached, nil
	}

	item, err := s.repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.MenuItem{}, apperr.New(apperr.NotFound, "Menu item not found")
	}
	if err != nil {
		return models.MenuItem{}, apperr.Wrap(apperr.Upstream, "Internal Server Error", err)
	}
	if item.Images == nil {
		item.Images = []models.MenuImage{}
	}

	_ = cache.Set(key, item, menuCacheTTL)
	return item, nil
}

// List returns one page of items plus metadata, read through the cache.
func (s *MenuService) List(ctx context.Context, p paginate.Params) (MenuPage, error) {
	key := fmt.Sprintf(menuListKeyFmt, p.Page, p.Limit)

	var cached MenuPage
	if cache.Get(key, &cached) {
		return cached, nil
	}

	items, err := s.repo.List(p.Offset(), p.Limit)
	if err != nil {
		return MenuPage{}, apperr.Wrap(apperr.Upstream, "Internal Server Error", err)
	}
	total, err := s.repo.Count()
	if err != nil {
		return MenuPage{}, apperr.Wrap(apperr.Upstream, "Internal Server Error", err)
	}

	for i := range items {
		if items[i].Images == nil {
			items[i].Images = []models.MenuImage{}
		}
	}

	page := MenuPage{Items: items, Meta: p.MetaFor(total)}
	_ = cache.Set(key, page, menuCacheTTL)
	return page, nil
}

// Update applies field changes first — a missing id fails before any image
// is touched. Marked images are then removed asset-before-row, and new
// uploads follow the same upload-then-insert ordering as Create, with the
// same cleanup when a later step fails.
func (s *MenuService) Update(ctx context.Context, id uint, in MenuInput, deleteImages []uint, newImages []upload.File) (models.MenuItem, error) {
	item, err := s.repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.MenuItem{}, apperr.New(apperr.NotFound, "Menu item not found")
	}
	if err != nil {
		return models.MenuItem{}, apperr.Wrap(apperr.Upstream, "Internal Server Error", err)
	}

	item.Name = in.Name
	item.Price = in.Price
	item.Description = in.Description
	item.Quantity = in.Quantity
	if err := s.repo.UpdateItem(&item); err != nil {
		return models.MenuItem{}, apperr.Wrap(apperr.Upstream, "Internal Server Error", err)
	}

	// Asset first, row second: a failed asset deletion keeps the row so the
	// object stays reachable for a retry.
	for _, imgID := range deleteImages {
		img, err := s.repo.FindImage(imgID, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return models.MenuItem{}, apperr.Wrap(apperr.Upstream, "Internal Server Error", err)
		}

		if path, ok := s.disk.Path(img.ImageURL); ok {
			if err := s.delete(ctx, path); err != nil {
				return models.MenuItem{}, apperr.Wrap(apperr.Upstream, "Internal Server Error", err)
			}
		}
		if err := s.repo.DeleteImage(img.ID); err != nil {
			return models.MenuItem{}, apperr.Wrap(apperr.Upstream, "Internal Server Error", err)
		}
	}

	var uploaded []string
	err = s.repo.Transaction(func(tx *repositories.MenuRepository) error {
		for _, file := range newImages {
			path := assetPath("menu", file.Ext())
			if err := s.put(ctx, path, file); err != nil {
				return err
			}
			uploaded = append(uploaded, path)

			img := models.MenuImage{MenuID: id, ImageURL: s.disk.URL(path)}
			if err := tx.CreateImage(&img); err != nil {
				return apperr.Wrap(apperr.Upstream, "Internal Server Error", err)
			}
		}
		return nil
	})
	if err != nil {
		s.removeAssets(ctx, uploaded)
		return models.MenuItem{}, err
	}

	s.invalidate(id)

	updated, err := s.repo.FindByID(id)
	if err != nil {
		return models.MenuItem{}, apperr.Wrap(apperr.Upstream, "Internal Server Error", err)
	}
	if updated.Images == nil {
		updated.Images = []models.MenuImage{}
	}
	return updated, nil
}

// Delete removes the item, its image rows, and their backing assets.
// Asset deletions fan out concurrently and are all attempted even when
// some fail; failures are cleanup events surfaced to operators, never a
// reason to keep the rows.
func (s *MenuService) Delete(ctx context.Context, id uint) error {
	item, err := s.repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.New(apperr.NotFound, "Menu item not found")
	}
	if err != nil {
		return apperr.Wrap(apperr.Upstream, "Internal Server Error", err)
	}

	g := workerpool.NewGroup(cleanupWorkers)
	for _, img := range item.Images {
		img := img
		g.Go(func() error {
			path, ok := s.disk.Path(img.ImageURL)
			if !ok {
				return nil
			}
			if err := s.delete(ctx, path); err != nil {
				return apperr.Wrap(apperr.AssetCleanup,
					fmt.Sprintf("menu image %d cleanup failed", img.ID), err)
			}
			return nil
		})
	}
	for _, err := range g.Wait() {
		logger.WithCtx(ctx).Error("asset cleanup failed", "menu_id", id, "error", err)
	}

	err = s.repo.Transaction(func(tx *repositories.MenuRepository) error {
		if err := tx.DeleteImagesFor(id); err != nil {
			return err
		}
		return tx.DeleteItem(id)
	})
	if err != nil {
		return apperr.Wrap(apperr.Upstream, "Internal Server Error", err)
	}

	s.invalidate(id)
	logger.WithCtx(ctx).Info("menu item deleted", "menu_id", id, "images", len(item.Images))
	return nil
}

func (s *MenuService) put(ctx context.Context, path string, file upload.File) error {
	putCtx, cancel := storage.WithTimeout(ctx, config.StorageTimeout())
	defer cancel()

	if err := s.disk.Put(putCtx, path, file.Data, file.ContentType); err != nil {
		metrics.StorageOps.WithLabelValues("put", "failed").Inc()
		return apperr.Wrap(apperr.Upstream, "Internal Server Error", err)
	}
	metrics.StorageOps.WithLabelValues("put", "ok").Inc()
	return nil
}

func (s *MenuService) delete(ctx context.Context, path string) error {
	delCtx, cancel := storage.WithTimeout(context.WithoutCancel(ctx), config.StorageTimeout())
	defer cancel()

	if err := s.disk.Delete(delCtx, path); err != nil {
		metrics.StorageOps.WithLabelValues("delete", "failed").Inc()
		return err
	}
	metrics.StorageOps.WithLabelValues("delete", "ok").Inc()
	return nil
}

// removeAssets deletes uploaded-but-uncommitted objects after a failed
// write. Failures here are cleanup events: logged, never returned.
func (s *MenuService) removeAssets(ctx context.Context, paths []string) {
	if len(paths) == 0 {
		return
	}

	g := workerpool.NewGroup(cleanupWorkers)
	for _, path := range paths {
		path := path
		g.Go(func() error {
			if err := s.delete(ctx, path); err != nil {
				return apperr.Wrap(apperr.AssetCleanup,
					fmt.Sprintf("orphaned asset %s cleanup failed", path), err)
			}
			return nil
		})
	}
	for _, err := range g.Wait() {
		logger.WithCtx(ctx).Error("asset cleanup failed", "error", err)
	}
}

func (s *MenuService) invalidate(id uint) {
	_ = cache.Del(fmt.Sprintf(menuItemKeyFmt, id))
	_ = cache.DelPattern(menuListPattern)
}
