// Package news manages the short dated announcements on the landing page.
// Unlike the document-store collections, news items are relational rows:
// they are tiny, row-addressable, and benefit from real ordering in SQL.
package news

import "time"

// Item is one announcement. SortOrder lets the admin pin items above the
// chronological order.
type Item struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Date        string    `json:"date"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	SortOrder   int       `json:"sortOrder" gorm:"column:sort_order"`
	CreatedAt   time.Time `json:"createdAt" gorm:"column:created_at;autoCreateTime"`
}

func (Item) TableName() string {
	return "news_items"
}
