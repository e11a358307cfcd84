package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	CategoryFood           Category = "food"
	CategoryShopping       Category = "shopping"
	CategoryTransportation Category = "transportation"
	CategoryEntertainment  Category = "entertainment"
	CategoryBills          Category = "bills"
	CategoryIncome         Category = "income"
	CategoryOther          Category = "other"
)

type (
	// Category identifies the display bucket of a transaction. It has no
	// effect on aggregation; income vs expense is decided by the amount sign.
	Category string

	// Transaction is one signed financial event owned by a single user.
	Transaction struct {
		ID          string    `json:"id"`
		UserID      string    `json:"userId"`
		Title       string    `json:"title"`
		Description string    `json:"description,omitempty"`
		Category    Category  `json:"category"`
		Amount      Money     `json:"amount"`
		Date        time.Time `json:"date"`
		CreatedAt   time.Time `json:"createdAt"`
		UpdatedAt   time.Time `json:"updatedAt"`
	}

	// Draft carries caller-supplied fields for a transaction that has not
	// been persisted yet. The store assigns ID and timestamps on create.
	Draft struct {
		UserID      string
		Title       string
		Description string
		Category    Category
		Amount      Money
		Date        time.Time
	}

	// CategoryInfo pairs a category with its display name and icon key.
	CategoryInfo struct {
		ID   Category `json:"id"`
		Name string   `json:"name"`
		Icon string   `json:"icon"`
	}
)

var (
	// ErrValidation is the base error every input validation failure wraps.
	ErrValidation = errors.New("invalid transaction")

	ErrEmptyUserID      = fmt.Errorf("%w: empty user id", ErrValidation)
	ErrEmptyTitle       = fmt.Errorf("%w: empty title", ErrValidation)
	ErrTitleTooLong     = fmt.Errorf("%w: title too long (max 100 characters)", ErrValidation)
	ErrZeroAmount       = fmt.Errorf("%w: amount cannot be zero", ErrValidation)
	ErrAmountOutOfRange = fmt.Errorf("%w: amount exceeds ±%d", ErrValidation, MaxAmountUnits)
	ErrInvalidCategory  = fmt.Errorf("%w: unknown category", ErrValidation)
	ErrZeroDate         = fmt.Errorf("%w: date is required", ErrValidation)

	// ErrNotFound is returned when no transaction matches both id and user.
	ErrNotFound = errors.New("transaction not found")
)

var categories = []CategoryInfo{
	{ID: CategoryFood, Name: "Food & Drinks", Icon: "fast-food"},
	{ID: CategoryShopping, Name: "Shopping", Icon: "cart"},
	{ID: CategoryTransportation, Name: "Transportation", Icon: "car"},
	{ID: CategoryEntertainment, Name: "Entertainment", Icon: "film"},
	{ID: CategoryBills, Name: "Bills", Icon: "receipt"},
	{ID: CategoryIncome, Name: "Income", Icon: "cash"},
	{ID: CategoryOther, Name: "Other", Icon: "ellipsis-horizontal"},
}

// Categories returns the fixed category set in display order.
func Categories() []CategoryInfo {
	out := make([]CategoryInfo, len(categories))
	copy(out, categories)
	return out
}

func (c Category) Valid() bool {
	for _, info := range categories {
		if info.ID == c {
			return true
		}
	}
	return false
}

func (c Category) String() string {
	return string(c)
}

func (d Draft) Validate() error {
	if strings.TrimSpace(d.UserID) == "" {
		return ErrEmptyUserID
	}
	if strings.TrimSpace(d.Title) == "" {
		return ErrEmptyTitle
	}
	if len(d.Title) > 100 {
		return ErrTitleTooLong
	}
	if err := d.Amount.Validate(); err != nil {
		return err
	}
	if !d.Category.Valid() {
		return ErrInvalidCategory
	}
	if d.Date.IsZero() {
		return ErrZeroDate
	}
	return nil
}

// Validate checks a persisted transaction before it leaves the system.
func (t Transaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("%w: empty id", ErrValidation)
	}
	d := Draft{
		UserID:      t.UserID,
		Title:       t.Title,
		Description: t.Description,
		Category:    t.Category,
		Amount:      t.Amount,
		Date:        t.Date,
	}
	return d.Validate()
}

// Income reports whether the transaction adds to the balance.
func (t Transaction) Income() bool {
	return t.Amount.Cents > 0
}
