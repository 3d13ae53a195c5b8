package domain

import "time"

// Issue is a platform-wide master taxonomy entry. Category and SubCategory
// share the same shape.
type Issue struct {
	ID        int64
	Name      string
	Slug      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Category struct {
	ID        int64
	Name      string
	Slug      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type SubCategory struct {
	ID        int64
	Name      string
	Slug      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OutletIssue is an outlet-scoped issue. It either references a global
// master row or is fully custom (IssueID nil, IsCustom true).
type OutletIssue struct {
	ID        int64
	OutletID  int64
	IssueID   *int64
	Name      string
	Slug      string
	IsCustom  bool
	IsActive  bool
	IsTrash   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type OutletCategory struct {
	ID         int64
	OutletID   int64
	CategoryID *int64
	Name       string
	Slug       string
	IsCustom   bool
	IsActive   bool
	IsTrash    bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type OutletSubCategory struct {
	ID            int64
	OutletID      int64
	SubCategoryID *int64
	Name          string
	Slug          string
	IsCustom      bool
	IsActive      bool
	IsTrash       bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TaxonomyNames carries the display names resolved for a validated
// (issue, category, sub-category) combination. They are stored on the
// ticket as immutable snapshots.
type TaxonomyNames struct {
	IssueName       string
	CategoryName    string
	SubCategoryName string
}
