package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"campustech-backend/internal/apperr"
	"campustech-backend/internal/auth"
	"campustech-backend/internal/models"
	"campustech-backend/internal/models/dto"
	"campustech-backend/internal/storage"
	"campustech-backend/internal/upload"
)

// ImageSaver stores an uploaded image and returns the reference kept on the item.
type ImageSaver interface {
	Save(ctx context.Context, img dto.Image) (string, error)
}

// CatalogService owns item listing, self-service creation and admin edits.
type CatalogService struct {
	items  storage.ItemStore
	images ImageSaver
}

func NewCatalogService(items storage.ItemStore, images ImageSaver) *CatalogService {
	return &CatalogService{items: items, images: images}
}

// List applies every supplied filter; search matches name or description case-insensitively.
func (s *CatalogService) List(ctx context.Context, q dto.ItemQuery) ([]models.Item, error) {
	filter := models.ItemFilter{
		Category: allToEmpty(q.Category),
		Brand:    allToEmpty(q.Brand),
		Search:   strings.TrimSpace(q.Search),
	}
	filter.SortBy, filter.Desc = parseSort(q)

	items, err := s.items.ListItems(ctx, filter)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return items, nil
}

func (s *CatalogService) Get(ctx context.Context, rawID string) (models.Item, error) {
	id, err := parseID(rawID, "item")
	if err != nil {
		return models.Item{}, err
	}
	item, err := s.items.FindItem(ctx, id)
	if err != nil {
		return models.Item{}, storeErr(err, "item")
	}
	return item, nil
}

// ListMine returns the caller's own listings, newest first.
func (s *CatalogService) ListMine(ctx context.Context, id auth.Identity) ([]models.Item, error) {
	owner := id.UserID
	items, err := s.items.ListItems(ctx, models.ItemFilter{Owner: &owner, SortBy: models.SortByCreated, Desc: true})
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return items, nil
}

// Create lets any authenticated user list an item; the caller becomes its owner.
func (s *CatalogService) Create(ctx context.Context, id auth.Identity, in dto.ItemInput) (models.Item, error) {
	if blank(in.Name) || blank(in.Category) || in.Price == nil {
		return models.Item{}, apperr.Validation("name, category and price are required")
	}
	if err := validateNumbers(in); err != nil {
		return models.Item{}, err
	}

	owner := id.UserID
	item := models.Item{
		Name:     strings.TrimSpace(*in.Name),
		Category: strings.TrimSpace(*in.Category),
		Price:    *in.Price,
		Owner:    &owner,
	}
	if in.Description != nil {
		item.Description = *in.Description
	}
	if in.Brand != nil {
		item.Brand = *in.Brand
	}
	if in.Quantity != nil {
		item.Quantity = *in.Quantity
	}
	if in.ImageURL != nil {
		item.ImageURL = *in.ImageURL
	}
	if in.Image != nil {
		url, err := s.saveImage(ctx, *in.Image)
		if err != nil {
			return models.Item{}, err
		}
		item.ImageURL = url
	}

	created, err := s.items.CreateItem(ctx, item)
	if err != nil {
		return models.Item{}, apperr.Internal(err)
	}
	return created, nil
}

// Update is admin-only; fields left nil keep their current value.
func (s *CatalogService) Update(ctx context.Context, id auth.Identity, rawID string, in dto.ItemInput) (models.Item, error) {
	if err := requireAdmin(id); err != nil {
		return models.Item{}, err
	}
	itemID, err := parseID(rawID, "item")
	if err != nil {
		return models.Item{}, err
	}
	if (in.Name != nil && blank(in.Name)) || (in.Category != nil && blank(in.Category)) {
		return models.Item{}, apperr.Validation("name and category cannot be empty")
	}
	if err := validateNumbers(in); err != nil {
		return models.Item{}, err
	}
	if _, err := s.items.FindItem(ctx, itemID); err != nil {
		return models.Item{}, storeErr(err, "item")
	}

	patch := in.Patch()
	if in.Image != nil {
		url, err := s.saveImage(ctx, *in.Image)
		if err != nil {
			return models.Item{}, err
		}
		patch.ImageURL = &url
	}
	item, err := s.items.UpdateItem(ctx, itemID, patch)
	if err != nil {
		return models.Item{}, storeErr(err, "item")
	}
	return item, nil
}

// Delete is admin-only and idempotent. Cart and order references are left in place.
func (s *CatalogService) Delete(ctx context.Context, id auth.Identity, rawID string) error {
	if err := requireAdmin(id); err != nil {
		return err
	}
	itemID, err := parseID(rawID, "item")
	if err != nil {
		return err
	}
	if err := s.items.DeleteItem(ctx, itemID); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// AdjustInventory sets the on-hand quantity to an absolute value.
func (s *CatalogService) AdjustInventory(ctx context.Context, id auth.Identity, rawID string, quantity *int) (models.Item, error) {
	if err := requireAdmin(id); err != nil {
		return models.Item{}, err
	}
	itemID, err := parseID(rawID, "item")
	if err != nil {
		return models.Item{}, err
	}
	if quantity == nil || *quantity < 0 {
		return models.Item{}, apperr.Validation("quantity must be a non-negative number")
	}
	item, err := s.items.UpdateItem(ctx, itemID, models.ItemPatch{Quantity: quantity})
	if err != nil {
		return models.Item{}, storeErr(err, "item")
	}
	return item, nil
}

// SeedSamples inserts the sample catalog when no items exist yet.
func (s *CatalogService) SeedSamples(ctx context.Context) error {
	n, err := s.items.CountItems(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		log.Printf("catalog: %d items present, skipping sample data", n)
		return nil
	}
	if err := s.items.InsertItems(ctx, sampleItems()); err != nil {
		return err
	}
	log.Printf("catalog: inserted %d sample items", len(sampleItems()))
	return nil
}

func (s *CatalogService) saveImage(ctx context.Context, img dto.Image) (string, error) {
	if s.images == nil {
		return "", apperr.Validation("image uploads are disabled")
	}
	url, err := s.images.Save(ctx, img)
	switch {
	case err == nil:
		return url, nil
	case errors.Is(err, upload.ErrUnsupportedType), errors.Is(err, upload.ErrTooLarge):
		return "", apperr.Validation("%s", err.Error())
	default:
		return "", apperr.Internal(err)
	}
}

func validateNumbers(in dto.ItemInput) error {
	if in.Price != nil && *in.Price < 0 {
		return apperr.Validation("price must not be negative")
	}
	if in.Quantity != nil && *in.Quantity < 0 {
		return apperr.Validation("quantity must not be negative")
	}
	return nil
}

// parseSort reads the short sort form first, then sortBy/sortOrder. Default is name ascending.
func parseSort(q dto.ItemQuery) (models.ItemSort, bool) {
	switch q.Sort {
	case "priceAsc":
		return models.SortByPrice, false
	case "priceDesc":
		return models.SortByPrice, true
	case "nameAsc":
		return models.SortByName, false
	case "nameDesc":
		return models.SortByName, true
	}
	desc := strings.EqualFold(q.SortOrder, "desc")
	switch strings.ToLower(q.SortBy) {
	case "price":
		return models.SortByPrice, desc
	case "createdat", "newest":
		return models.SortByCreated, desc
	default:
		return models.SortByName, desc
	}
}

func allToEmpty(v string) string {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, "all") {
		return ""
	}
	return v
}

func blank(v *string) bool {
	return v == nil || strings.TrimSpace(*v) == ""
}
