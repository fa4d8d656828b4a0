package model

import (
	"time"

	"github.com/google/uuid"
)

// Review mirrors the `reviews` table. A review is written by a user
// about a menu item.
//
// Fields:
//  ID         – auto-increment primary key.
//  UserID     – author of the review.
//  MenuItemID – reviewed menu item.
//  Comment    – free-form text, at most 1000 characters.
//  Rating     – star rating between 1 and 5 inclusive.
//  CreatedAt  – timestamp of creation.
type Review struct {
	ID         int64     // reviews.id
	UserID     uuid.UUID // reviews.user_id
	MenuItemID int64     // reviews.menu_item_id
	Comment    string    // reviews.comment
	Rating     int       // reviews.rating
	CreatedAt  time.Time // reviews.created_at
}
