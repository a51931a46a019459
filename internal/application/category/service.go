package category

import (
	"context"
	"fmt"

	"github.com/fintrack/backend/internal/domain/category"
	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CategoryService handles category operations
type CategoryService struct {
	categoryRepo   category.CategoryRepository
	eventPublisher shared.EventPublisher
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo category.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// SetEventPublisher sets the publisher for category events
func (s *CategoryService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create adds a category; names are unique per owner and type, ignoring case
func (s *CategoryService) Create(ctx context.Context, ownerID uuid.UUID, req CategoryRequest) (*CategoryResponse, error) {
	if err := shared.RequireOwner(ownerID); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueName(ctx, ownerID, req, nil); err != nil {
		return nil, err
	}
	c, err := category.NewCategory(ownerID, req.Name, category.CategoryType(req.Type), req.Icon, req.Color)
	if err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	shared.PublishEvents(ctx, s.eventPublisher, c)

	resp := ToCategoryResponse(c)
	return &resp, nil
}

// GetByID returns one category
func (s *CategoryService) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*CategoryResponse, error) {
	if err := shared.RequireOwner(ownerID); err != nil {
		return nil, err
	}
	c, err := s.categoryRepo.FindByIDForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(c)
	return &resp, nil
}

// List returns a page of categories and the total count
func (s *CategoryService) List(ctx context.Context, ownerID uuid.UUID, filter CategoryListFilter) ([]CategoryResponse, int64, error) {
	if err := shared.RequireOwner(ownerID); err != nil {
		return nil, 0, err
	}
	f := category.CategoryFilter{Filter: shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
	}.Normalize()}
	if f.OrderBy == "" {
		f.OrderBy, f.OrderDir = "name", "asc"
	}
	if filter.Type != "" {
		t := category.CategoryType(filter.Type)
		f.Type = &t
	}

	items, err := s.categoryRepo.FindAllForOwner(ctx, ownerID, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.categoryRepo.CountForOwner(ctx, ownerID, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]CategoryResponse, len(items))
	for i := range items {
		out[i] = ToCategoryResponse(&items[i])
	}
	return out, total, nil
}

// All returns every category of the owner, used for import matching
func (s *CategoryService) All(ctx context.Context, ownerID uuid.UUID) ([]category.Category, error) {
	if err := shared.RequireOwner(ownerID); err != nil {
		return nil, err
	}
	return shared.CollectPages(shared.Filter{OrderBy: "name", OrderDir: "asc"}, func(f shared.Filter) ([]category.Category, error) {
		return s.categoryRepo.FindAllForOwner(ctx, ownerID, category.CategoryFilter{Filter: f})
	})
}

// Update replaces a category's attributes
func (s *CategoryService) Update(ctx context.Context, ownerID, id uuid.UUID, req CategoryRequest) (*CategoryResponse, error) {
	if err := shared.RequireOwner(ownerID); err != nil {
		return nil, err
	}
	c, err := s.categoryRepo.FindByIDForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUniqueName(ctx, ownerID, req, &id); err != nil {
		return nil, err
	}
	if err := c.Update(req.Name, category.CategoryType(req.Type), req.Icon, req.Color); err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	shared.PublishEvents(ctx, s.eventPublisher, c)

	resp := ToCategoryResponse(c)
	return &resp, nil
}

// Delete removes a category; its transactions and subscriptions become uncategorized
func (s *CategoryService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := shared.RequireOwner(ownerID); err != nil {
		return err
	}
	c, err := s.categoryRepo.FindByIDForOwner(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if err := s.categoryRepo.DeleteForOwner(ctx, ownerID, id); err != nil {
		return err
	}
	c.AddDomainEvent(category.NewCategoryEvent(category.EventTypeCategoryDeleted, c))
	shared.PublishEvents(ctx, s.eventPublisher, c)
	return nil
}

// SeedDefaults stores the starter categories of a new user
func (s *CategoryService) SeedDefaults(ctx context.Context, ownerID uuid.UUID) error {
	if err := shared.RequireOwner(ownerID); err != nil {
		return err
	}
	if err := s.categoryRepo.SaveAll(ctx, category.Defaults(ownerID)); err != nil {
		return fmt.Errorf("seed default categories: %w", err)
	}
	return nil
}

func (s *CategoryService) ensureUniqueName(ctx context.Context, ownerID uuid.UUID, req CategoryRequest, excludeID *uuid.UUID) error {
	exists, err := s.categoryRepo.ExistsByName(ctx, ownerID, req.Name, category.CategoryType(req.Type), excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", fmt.Sprintf("A %s category named %q already exists", req.Type, req.Name))
	}
	return nil
}
