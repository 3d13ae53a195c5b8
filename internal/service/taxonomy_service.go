package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/deskforge/support-service/internal/domain"
	"github.com/deskforge/support-service/internal/repository"
	"github.com/deskforge/support-service/pkg/util"
)

// TaxonomyService validates ticket classification against the outlet's
// issue/category/sub-category tree and serves taxonomy listings.
type TaxonomyService struct {
	taxonomy repository.TaxonomyRepository
}

// NewTaxonomyService creates the service.
func NewTaxonomyService(taxonomy repository.TaxonomyRepository) *TaxonomyService {
	return &TaxonomyService{taxonomy: taxonomy}
}

// Validate checks that the three outlet taxonomy rows exist, are active and
// are linked level to level, returning the display names to snapshot onto
// the ticket.
func (s *TaxonomyService) Validate(ctx context.Context, outletID, issueID, categoryID, subCategoryID int64) (*domain.TaxonomyNames, error) {
	issue, err := s.taxonomy.GetOutletIssue(ctx, outletID, issueID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, util.NewValidationError("invalid issue for this outlet", map[string]any{"outlet_issue_id": issueID})
	}
	if err != nil {
		return nil, util.MapError(err)
	}
	if !issue.IsActive || issue.IsTrash {
		return nil, util.NewValidationError("issue is not active", map[string]any{"outlet_issue_id": issueID})
	}

	category, err := s.taxonomy.GetOutletCategory(ctx, outletID, categoryID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, util.NewValidationError("invalid category for this outlet", map[string]any{"outlet_category_id": categoryID})
	}
	if err != nil {
		return nil, util.MapError(err)
	}
	if !category.IsActive || category.IsTrash {
		return nil, util.NewValidationError("category is not active", map[string]any{"outlet_category_id": categoryID})
	}

	subCategory, err := s.taxonomy.GetOutletSubCategory(ctx, outletID, subCategoryID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, util.NewValidationError("invalid sub-category for this outlet", map[string]any{"outlet_sub_category_id": subCategoryID})
	}
	if err != nil {
		return nil, util.MapError(err)
	}
	if !subCategory.IsActive || subCategory.IsTrash {
		return nil, util.NewValidationError("sub-category is not active", map[string]any{"outlet_sub_category_id": subCategoryID})
	}

	linked, err := s.taxonomy.IssueCategoryLinked(ctx, issueID, categoryID)
	if err != nil {
		return nil, util.MapError(err)
	}
	if !linked {
		return nil, util.NewValidationError("category does not belong to the selected issue", map[string]any{
			"outlet_issue_id":    issueID,
			"outlet_category_id": categoryID,
		})
	}

	linked, err = s.taxonomy.CategorySubCategoryLinked(ctx, categoryID, subCategoryID)
	if err != nil {
		return nil, util.MapError(err)
	}
	if !linked {
		return nil, util.NewValidationError("sub-category does not belong to the selected category", map[string]any{
			"outlet_category_id":     categoryID,
			"outlet_sub_category_id": subCategoryID,
		})
	}

	return &domain.TaxonomyNames{
		IssueName:       issue.Name,
		CategoryName:    category.Name,
		SubCategoryName: subCategory.Name,
	}, nil
}

// ListIssues returns the outlet's active issues.
func (s *TaxonomyService) ListIssues(ctx context.Context, outletID int64) ([]domain.OutletIssue, error) {
	issues, err := s.taxonomy.ListOutletIssues(ctx, outletID)
	if err != nil {
		return nil, util.MapError(err)
	}
	return issues, nil
}

// ListCategories returns the active categories linked to an issue.
func (s *TaxonomyService) ListCategories(ctx context.Context, outletID, outletIssueID int64) ([]domain.OutletCategory, error) {
	categories, err := s.taxonomy.ListOutletCategories(ctx, outletID, outletIssueID)
	if err != nil {
		return nil, util.MapError(err)
	}
	return categories, nil
}

// ListSubCategories returns the active sub-categories linked to a category.
func (s *TaxonomyService) ListSubCategories(ctx context.Context, outletID, outletCategoryID int64) ([]domain.OutletSubCategory, error) {
	subCategories, err := s.taxonomy.ListOutletSubCategories(ctx, outletID, outletCategoryID)
	if err != nil {
		return nil, util.MapError(err)
	}
	return subCategories, nil
}
