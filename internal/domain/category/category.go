package category

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CategoryType tells whether a category classifies spending or earnings
type CategoryType string

const (
	CategoryTypeExpense CategoryType = "expense"
	CategoryTypeIncome  CategoryType = "income"
)

// IsValid checks if the type is a valid CategoryType
func (t CategoryType) IsValid() bool {
	return t == CategoryTypeExpense || t == CategoryTypeIncome
}

// String returns the string representation of CategoryType
func (t CategoryType) String() string {
	return string(t)
}

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// DefaultColor is used when no color is given
const DefaultColor = "#6B7280"

// Category classifies transactions and subscriptions
type Category struct {
	shared.OwnedAggregateRoot
	Name      string       `json:"name"`
	Type      CategoryType `json:"type"`
	Icon      string       `json:"icon"`
	Color     string       `json:"color"`
	IsDefault bool         `json:"is_default"`
}

// NewCategory creates a new category
func NewCategory(ownerID uuid.UUID, name string, categoryType CategoryType, icon, color string) (*Category, error) {
	if ownerID == uuid.Nil {
		return nil, shared.ErrForbidden
	}
	c := &Category{OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID)}
	if err := c.apply(name, categoryType, icon, color); err != nil {
		return nil, err
	}
	c.AddDomainEvent(NewCategoryEvent(EventTypeCategoryCreated, c))
	return c, nil
}

// Update changes name, type, icon and color
func (c *Category) Update(name string, categoryType CategoryType, icon, color string) error {
	if err := c.apply(name, categoryType, icon, color); err != nil {
		return err
	}
	c.Touch()
	c.AddDomainEvent(NewCategoryEvent(EventTypeCategoryUpdated, c))
	return nil
}

func (c *Category) apply(name string, categoryType CategoryType, icon, color string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	if len(name) > 50 {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot exceed 50 characters")
	}
	if !categoryType.IsValid() {
		return shared.NewDomainError("INVALID_CATEGORY_TYPE", fmt.Sprintf("Category type %q is not valid", categoryType))
	}
	if color == "" {
		color = DefaultColor
	}
	if !colorPattern.MatchString(color) {
		return shared.NewDomainError("INVALID_COLOR", "Color must be a hex value like #1A2B3C")
	}
	c.Name = name
	c.Type = categoryType
	c.Icon = strings.TrimSpace(icon)
	c.Color = strings.ToUpper(color)
	return nil
}

// Defaults returns the categories seeded for a new user
func Defaults(ownerID uuid.UUID) []*Category {
	seed := []struct {
		name  string
		typ   CategoryType
		icon  string
		color string
	}{
		{"Groceries", CategoryTypeExpense, "shopping-cart", "#16A34A"},
		{"Dining", CategoryTypeExpense, "utensils", "#F97316"},
		{"Housing", CategoryTypeExpense, "home", "#0EA5E9"},
		{"Transport", CategoryTypeExpense, "car", "#6366F1"},
		{"Utilities", CategoryTypeExpense, "bolt", "#EAB308"},
		{"Entertainment", CategoryTypeExpense, "film", "#EC4899"},
		{"Subscriptions", CategoryTypeExpense, "repeat", "#8B5CF6"},
		{"Health", CategoryTypeExpense, "heart", "#EF4444"},
		{"Shopping", CategoryTypeExpense, "bag", "#14B8A6"},
		{"Other", CategoryTypeExpense, "dots", DefaultColor},
		{"Salary", CategoryTypeIncome, "briefcase", "#22C55E"},
		{"Freelance", CategoryTypeIncome, "laptop", "#10B981"},
		{"Investments", CategoryTypeIncome, "chart", "#3B82F6"},
		{"Gifts", CategoryTypeIncome, "gift", "#F43F5E"},
	}
	out := make([]*Category, 0, len(seed))
	for _, s := range seed {
		c := &Category{
			OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
			Name:               s.name,
			Type:               s.typ,
			Icon:               s.icon,
			Color:              s.color,
			IsDefault:          true,
		}
		out = append(out, c)
	}
	return out
}
