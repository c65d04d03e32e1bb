package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// CategoryOther - вариант, несущий собственную текстовую метку.
const CategoryOther = "other"

// Category - известная категория либо "other" с пользовательской меткой.
// Метка хранится только у варианта other.
type Category struct {
	Kind  string `json:"kind"`
	Label string `json:"label,omitempty"`
}

func KnownCategory(kind string) Category {
	return Category{Kind: kind}
}

func CustomCategory(label string) Category {
	return Category{Kind: CategoryOther, Label: strings.TrimSpace(label)}
}

func (c Category) IsCustom() bool {
	return c.Kind == CategoryOther
}

func (c Category) String() string {
	if c.IsCustom() && c.Label != "" {
		return c.Label
	}
	return c.Kind
}

// ParseCategory раскладывает строку по списку известных категорий,
// всё остальное превращается в other с меткой.
func ParseCategory(s string, known []string) Category {
	s = strings.TrimSpace(s)
	for _, k := range known {
		if strings.EqualFold(s, k) {
			return KnownCategory(k)
		}
	}
	if s == "" {
		return KnownCategory(CategoryOther)
	}
	return CustomCategory(s)
}

func (c *Category) normalize() {
	if c.Kind == "" {
		c.Kind = CategoryOther
	}
	if !c.IsCustom() {
		c.Label = ""
	}
}

func (c *Category) UnmarshalJSON(data []byte) error {
	// старый формат: просто строка
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		c.Kind, c.Label = s, ""
		return nil
	}
	type plain Category
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("category: %w", err)
	}
	*c = Category(p)
	return nil
}

var ProjectCategories = []string{"web", "mobile", "desktop", "ai-ml", "data", "devops", "game", "research"}

var ResourceCategories = []string{"study", "work", "personal", "reference", "tutorial", "tools"}
