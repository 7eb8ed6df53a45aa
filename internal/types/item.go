package types

import (
	"time"
)

type Category string

const (
	CategoryConsumables Category = "consumables"
	CategorySupply      Category = "supply"
	CategoryEquipment   Category = "equipment"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryConsumables, CategorySupply, CategoryEquipment:
		return true
	}
	return false
}

// Item identity is the (sku, name) pair when sku is present, or the name
// alone among null-sku rows. The same sku may exist under different names.
type Item struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"column:name;not null;index" json:"name"`
	SKU       *string   `gorm:"column:sku;index" json:"sku"`
	Category  Category  `gorm:"column:category" json:"category"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Item) TableName() string { return "app_items" }
