package dto

import (
	"github.com/deskforge/support-service/internal/domain"
)

// TaxonomyEntry is the common shape for outlet issues, categories and
// sub-categories in listings.
type TaxonomyEntry struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	IsCustom bool   `json:"is_custom"`
}

// NewIssueEntries maps outlet issues.
func NewIssueEntries(issues []domain.OutletIssue) []TaxonomyEntry {
	items := make([]TaxonomyEntry, 0, len(issues))
	for _, issue := range issues {
		items = append(items, TaxonomyEntry{ID: issue.ID, Name: issue.Name, Slug: issue.Slug, IsCustom: issue.IsCustom})
	}
	return items
}

// NewCategoryEntries maps outlet categories.
func NewCategoryEntries(categories []domain.OutletCategory) []TaxonomyEntry {
	items := make([]TaxonomyEntry, 0, len(categories))
	for _, category := range categories {
		items = append(items, TaxonomyEntry{ID: category.ID, Name: category.Name, Slug: category.Slug, IsCustom: category.IsCustom})
	}
	return items
}

// NewSubCategoryEntries maps outlet sub-categories.
func NewSubCategoryEntries(subCategories []domain.OutletSubCategory) []TaxonomyEntry {
	items := make([]TaxonomyEntry, 0, len(subCategories))
	for _, subCategory := range subCategories {
		items = append(items, TaxonomyEntry{ID: subCategory.ID, Name: subCategory.Name, Slug: subCategory.Slug, IsCustom: subCategory.IsCustom})
	}
	return items
}
