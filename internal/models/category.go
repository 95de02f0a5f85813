package models

import (
	"auction-site/internal/auctionerrors"
	"fmt"
	"strings"
)

// Category is the three-letter product category code stored on a Product
type Category string

const (
	CategoryLaptop  Category = "LAP"
	CategoryConsole Category = "CON"
	CategoryGadget  Category = "GAD"
	CategoryGame    Category = "GAM"
	CategoryTV      Category = "TEL"
)

// Categories lists every accepted code in display order
var Categories = []Category{CategoryLaptop, CategoryConsole, CategoryGadget, CategoryGame, CategoryTV}

var categoryLabels = map[Category]string{
	CategoryLaptop:  "Laptop",
	CategoryConsole: "Console",
	CategoryGadget:  "Gadget",
	CategoryGame:    "Game",
	CategoryTV:      "TV",
}

// Valid reports whether c is one of the accepted codes. Codes are case sensitive.
func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label returns the human readable name, or the raw code when unknown
func (c Category) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return string(c)
}

// ParseCategory accepts either a code ("LAP") or a label ("laptop")
func ParseCategory(s string) (Category, error) {
	if c := Category(s); c.Valid() {
		return c, nil
	}
	for code, label := range categoryLabels {
		if strings.EqualFold(label, s) {
			return code, nil
		}
	}
	return "", fmt.Errorf("parse category %q: %w", s, auctionerrors.ErrInvalidCategory)
}
