package models

import "time"

type CheckoutRequest struct {
	AssetID    int       `json:"asset_id" binding:"required"`
	CheckoutAt time.Time `json:"checkout_at"`
	Location   string    `json:"location" binding:"required"`
}

// CheckinRequest targets either an explicit transaction or the open
// transaction of an asset; exactly one of the two ids must be set.
type CheckinRequest struct {
	TransactionID int       `json:"transaction_id"`
	AssetID       int       `json:"asset_id"`
	CheckinAt     time.Time `json:"checkin_at"`
	Location      string    `json:"location" binding:"required"`
	UsageMinutes  *int      `json:"usage_minutes"`
	Comments      string    `json:"comments"`
}
