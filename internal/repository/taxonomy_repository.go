package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deskforge/support-service/internal/domain"
)

// TaxonomyRepository reads the outlet-scoped issue/category/sub-category
// tree and the mapping rows that tie its levels together.
type TaxonomyRepository interface {
	GetOutletIssue(ctx context.Context, outletID, id int64) (*domain.OutletIssue, error)
	GetOutletCategory(ctx context.Context, outletID, id int64) (*domain.OutletCategory, error)
	GetOutletSubCategory(ctx context.Context, outletID, id int64) (*domain.OutletSubCategory, error)
	IssueCategoryLinked(ctx context.Context, outletIssueID, outletCategoryID int64) (bool, error)
	CategorySubCategoryLinked(ctx context.Context, outletCategoryID, outletSubCategoryID int64) (bool, error)
	ListOutletIssues(ctx context.Context, outletID int64) ([]domain.OutletIssue, error)
	ListOutletCategories(ctx context.Context, outletID, outletIssueID int64) ([]domain.OutletCategory, error)
	ListOutletSubCategories(ctx context.Context, outletID, outletCategoryID int64) ([]domain.OutletSubCategory, error)
}

type taxonomyRepository struct {
	pool *pgxpool.Pool
}

// NewTaxonomyRepository builds a postgres-backed TaxonomyRepository.
func NewTaxonomyRepository(pool *pgxpool.Pool) TaxonomyRepository {
	return &taxonomyRepository{pool: pool}
}

func (r *taxonomyRepository) GetOutletIssue(ctx context.Context, outletID, id int64) (*domain.OutletIssue, error) {
	query := `SELECT id, outlet_id, issue_id, name, slug, is_custom, is_active, is_trash, created_at, updated_at
		FROM outlet_issues WHERE id=$1 AND outlet_id=$2`

	var out domain.OutletIssue
	err := r.pool.QueryRow(ctx, query, id, outletID).Scan(
		&out.ID, &out.OutletID, &out.IssueID, &out.Name, &out.Slug,
		&out.IsCustom, &out.IsActive, &out.IsTrash, &out.CreatedAt, &out.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *taxonomyRepository) GetOutletCategory(ctx context.Context, outletID, id int64) (*domain.OutletCategory, error) {
	query := `SELECT id, outlet_id, category_id, name, slug, is_custom, is_active, is_trash, created_at, updated_at
		FROM outlet_categories WHERE id=$1 AND outlet_id=$2`

	var out domain.OutletCategory
	err := r.pool.QueryRow(ctx, query, id, outletID).Scan(
		&out.ID, &out.OutletID, &out.CategoryID, &out.Name, &out.Slug,
		&out.IsCustom, &out.IsActive, &out.IsTrash, &out.CreatedAt, &out.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *taxonomyRepository) GetOutletSubCategory(ctx context.Context, outletID, id int64) (*domain.OutletSubCategory, error) {
	query := `SELECT id, outlet_id, sub_category_id, name, slug, is_custom, is_active, is_trash, created_at, updated_at
		FROM outlet_sub_categories WHERE id=$1 AND outlet_id=$2`

	var out domain.OutletSubCategory
	err := r.pool.QueryRow(ctx, query, id, outletID).Scan(
		&out.ID, &out.OutletID, &out.SubCategoryID, &out.Name, &out.Slug,
		&out.IsCustom, &out.IsActive, &out.IsTrash, &out.CreatedAt, &out.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// IssueCategoryLinked checks for an active mapping row between an outlet
// issue and an outlet category.
func (r *taxonomyRepository) IssueCategoryLinked(ctx context.Context, outletIssueID, outletCategoryID int64) (bool, error) {
	query := `SELECT 1 FROM outlet_issue_categories
		WHERE outlet_issue_id=$1 AND outlet_category_id=$2 AND is_active=TRUE LIMIT 1`

	var one int
	err := r.pool.QueryRow(ctx, query, outletIssueID, outletCategoryID).Scan(&one)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CategorySubCategoryLinked checks for an active mapping row between an
// outlet category and an outlet sub-category.
func (r *taxonomyRepository) CategorySubCategoryLinked(ctx context.Context, outletCategoryID, outletSubCategoryID int64) (bool, error) {
	query := `SELECT 1 FROM outlet_category_sub_categories
		WHERE outlet_category_id=$1 AND outlet_sub_category_id=$2 AND is_active=TRUE LIMIT 1`

	var one int
	err := r.pool.QueryRow(ctx, query, outletCategoryID, outletSubCategoryID).Scan(&one)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *taxonomyRepository) ListOutletIssues(ctx context.Context, outletID int64) ([]domain.OutletIssue, error) {
	query := `SELECT id, outlet_id, issue_id, name, slug, is_custom, is_active, is_trash, created_at, updated_at
		FROM outlet_issues WHERE outlet_id=$1 AND is_active=TRUE AND is_trash=FALSE ORDER BY name`

	rows, err := r.pool.Query(ctx, query, outletID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	issues := make([]domain.OutletIssue, 0)
	for rows.Next() {
		var out domain.OutletIssue
		if err := rows.Scan(
			&out.ID, &out.OutletID, &out.IssueID, &out.Name, &out.Slug,
			&out.IsCustom, &out.IsActive, &out.IsTrash, &out.CreatedAt, &out.UpdatedAt,
		); err != nil {
			return nil, err
		}
		issues = append(issues, out)
	}
	return issues, rows.Err()
}

func (r *taxonomyRepository) ListOutletCategories(ctx context.Context, outletID, outletIssueID int64) ([]domain.OutletCategory, error) {
	query := `SELECT c.id, c.outlet_id, c.category_id, c.name, c.slug, c.is_custom, c.is_active, c.is_trash, c.created_at, c.updated_at
		FROM outlet_categories c
		JOIN outlet_issue_categories m ON m.outlet_category_id=c.id AND m.is_active=TRUE
		WHERE c.outlet_id=$1 AND m.outlet_issue_id=$2 AND c.is_active=TRUE AND c.is_trash=FALSE
		ORDER BY c.name`

	rows, err := r.pool.Query(ctx, query, outletID, outletIssueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]domain.OutletCategory, 0)
	for rows.Next() {
		var out domain.OutletCategory
		if err := rows.Scan(
			&out.ID, &out.OutletID, &out.CategoryID, &out.Name, &out.Slug,
			&out.IsCustom, &out.IsActive, &out.IsTrash, &out.CreatedAt, &out.UpdatedAt,
		); err != nil {
			return nil, err
		}
		categories = append(categories, out)
	}
	return categories, rows.Err()
}

func (r *taxonomyRepository) ListOutletSubCategories(ctx context.Context, outletID, outletCategoryID int64) ([]domain.OutletSubCategory, error) {
	query := `SELECT s.id, s.outlet_id, s.sub_category_id, s.name, s.slug, s.is_custom, s.is_active, s.is_trash, s.created_at, s.updated_at
		FROM outlet_sub_categories s
		JOIN outlet_category_sub_categories m ON m.outlet_sub_category_id=s.id AND m.is_active=TRUE
		WHERE s.outlet_id=$1 AND m.outlet_category_id=$2 AND s.is_active=TRUE AND s.is_trash=FALSE
		ORDER BY s.name`

	rows, err := r.pool.Query(ctx, query, outletID, outletCategoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subCategories := make([]domain.OutletSubCategory, 0)
	for rows.Next() {
		var out domain.OutletSubCategory
		if err := rows.Scan(
			&out.ID, &out.OutletID, &out.SubCategoryID, &out.Name, &out.Slug,
			&out.IsCustom, &out.IsActive, &out.IsTrash, &out.CreatedAt, &out.UpdatedAt,
		); err != nil {
			return nil, err
		}
		subCategories = append(subCategories, out)
	}
	return subCategories, rows.Err()
}
