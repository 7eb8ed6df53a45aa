package types

// SiteItem carries per-site attributes of an item. ImagePath and Par are
// only touched by explicit updates, never by the link upsert.
type SiteItem struct {
	SiteID    int64   `gorm:"column:site_id;primaryKey" json:"site_id"`
	ItemID    int64   `gorm:"column:item_id;primaryKey" json:"item_id"`
	ImagePath *string `gorm:"column:image_path" json:"image_path"`
	Par       *int    `gorm:"column:par" json:"par"`
}

func (SiteItem) TableName() string { return "app_site_items" }
