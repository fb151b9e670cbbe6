package ledger

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

type Category struct {
	ID   uuid.UUID
	Name string
}

// Subcategory always belongs to exactly one Category.
type Subcategory struct {
	ID         uuid.UUID
	CategoryID uuid.UUID
	Name       string
}

// CategoryRule maps a description keyword to a category and subcategory.
// SubcategoryID must belong to CategoryID.
type CategoryRule struct {
	ID            uuid.UUID
	Keyword       string
	CategoryID    uuid.UUID
	SubcategoryID uuid.UUID
	IsActive      bool
	CreatedAt     time.Time
}

// AccountRule maps an account-label keyword to an account. Keywords are
// unique case-insensitively.
type AccountRule struct {
	ID        uuid.UUID
	Keyword   string
	AccountID uuid.UUID
	IsActive  bool
	CreatedAt time.Time
}
