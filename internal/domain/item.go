// Package domain contains core business types and interfaces.
//
// This file defines the Item catalogue entry served by the demo list pages.
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// Item Domain Type
// =============================================================================

// Item is one catalogue entry. Position gives items a total order, so pages
// stay stable across requests.
type Item struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey" bson:"_id"`
	Position   int       `json:"position" gorm:"uniqueIndex" bson:"position"`
	Name       string    `json:"name" bson:"name"`
	Category   string    `json:"category" bson:"category"`
	PriceCents int       `json:"price_cents" bson:"price_cents"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}

// TableName maps Item to the items table for GORM.
func (Item) TableName() string {
	return "items"
}

// Price formats PriceCents as dollars.
func (i Item) Price() string {
	return fmt.Sprintf("$%d.%02d", i.PriceCents/100, i.PriceCents%100)
}

// ItemColumns is the column order used when scanning items from SQL.
var ItemColumns = []string{"id", "position", "name", "category", "price_cents", "created_at"}

// ItemCategories are the categories GenerateItems cycles through.
var ItemCategories = []string{"hardware", "garden", "kitchen", "tools"}

// itemNamespace seeds the deterministic item IDs.
var itemNamespace = uuid.MustParse("6f1c1a52-6c1e-4a53-9d1e-6a0f4c3b2a10")

// GenerateItems returns n items numbered from 1, matching the rows seeded by
// the SQL migrations apart from the IDs and timestamps. The same n always
// produces the same items.
func GenerateItems(n int) []Item {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	items := make([]Item, n)
	for i := range items {
		pos := i + 1
		items[i] = Item{
			ID:         uuid.NewSHA1(itemNamespace, []byte(fmt.Sprintf("item-%d", pos))),
			Position:   pos,
			Name:       fmt.Sprintf("Item %04d", pos),
			Category:   ItemCategories[pos%len(ItemCategories)],
			PriceCents: 100 + (pos*37)%9900,
			CreatedAt:  base.Add(time.Duration(pos) * time.Hour),
		}
	}
	return items
}
