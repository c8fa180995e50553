package model

import "time"

// PrintRun records one label sheet generation.
type PrintRun struct {
	ID        string    `json:"id"`
	StoreID   string    `json:"store_id"`
	File      string    `json:"file"`
	Labels    int       `json:"labels"`
	Pages     int       `json:"pages"`
	CreatedAt time.Time `json:"created_at"`
}

// CatalogSave records one successful catalog write.
type CatalogSave struct {
	ID           int64     `json:"id"`
	StoreID      string    `json:"store_id"`
	Products     int       `json:"products"`
	PriceChanges int       `json:"price_changes"`
	Backup       string    `json:"backup,omitempty"`
	SavedAt      time.Time `json:"saved_at"`
}

// Setting keys.
const (
	SettingLastStore = "last_store_id"
)
