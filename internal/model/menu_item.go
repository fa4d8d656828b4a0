package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MenuItemCategory classifies a menu item for browsing and
// filtering. Stored as an uppercase string in menu_items.category.
type MenuItemCategory string

const (
	CategoryBurger  MenuItemCategory = "BURGER"
	CategoryPizza   MenuItemCategory = "PIZZA"
	CategorySalad   MenuItemCategory = "SALAD"
	CategoryDessert MenuItemCategory = "DESSERT"
	CategoryDrink   MenuItemCategory = "DRINK"
	CategoryOther   MenuItemCategory = "OTHER"
)

// ParseCategory converts a category name case-insensitively. An
// empty string maps to OTHER; anything unrecognized is an error.
func ParseCategory(s string) (MenuItemCategory, error) {
	switch MenuItemCategory(strings.ToUpper(strings.TrimSpace(s))) {
	case "":
		return CategoryOther, nil
	case CategoryBurger:
		return CategoryBurger, nil
	case CategoryPizza:
		return CategoryPizza, nil
	case CategorySalad:
		return CategorySalad, nil
	case CategoryDessert:
		return CategoryDessert, nil
	case CategoryDrink:
		return CategoryDrink, nil
	case CategoryOther:
		return CategoryOther, nil
	}
	return CategoryOther, fmt.Errorf("unknown category %q", s)
}

// MenuItem mirrors the `menu_items` table. Items are created and
// owned by a user; orders reference them through order_items rows
// and reviews reference them directly. Removing an item therefore
// requires clearing the order_items references first.
//
// Fields:
//  ID          – auto-increment primary key.
//  UserID      – owner of the item (users.id).
//  Title       – short display title.
//  Description – longer free-form description.
//  ImageURL    – picture of the item; defaulted when absent.
//  DefaultItem – whether the item is part of the stock menu.
//  Price       – current unit price. Orders snapshot this value at
//                creation time; later changes never reprice past orders.
//  Category    – browsing category.
//  CreatedAt   – timestamp of creation.
type MenuItem struct {
	ID          int64            // menu_items.id
	UserID      uuid.UUID        // menu_items.user_id
	Title       string           // menu_items.title
	Description string           // menu_items.description
	ImageURL    string           // menu_items.image_url
	DefaultItem bool             // menu_items.default_item
	Price       float64          // menu_items.price
	Category    MenuItemCategory // menu_items.category
	CreatedAt   time.Time        // menu_items.created_at
}
