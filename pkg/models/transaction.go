package models

import (
	"encoding/json"
	"fmt"
	"time"

	"hangar/pkg/metadata"
)

// Transaction is one checkout/checkin cycle for an asset. While open the
// checkin fields are absent; closing fills them all in one write and the
// record is immutable afterwards.
type Transaction struct {
	ID               int              `json:"id"`
	AssetID          int              `json:"asset_id"`
	AssetName        string           `json:"asset_name,omitempty"`
	CheckoutAt       time.Time        `json:"checkout_at"`
	CheckoutLocation string           `json:"checkout_location"`
	CheckinAt        *time.Time       `json:"checkin_at,omitempty"`
	CheckinLocation  string           `json:"checkin_location,omitempty"`
	UsageMinutes     *int             `json:"usage_minutes,omitempty"`
	Comments         string           `json:"comments,omitempty"`
	Weather          *WeatherSnapshot `json:"weather,omitempty"`
	Verdict          metadata.Verdict `json:"verdict,omitempty"`
	VerdictReason    string           `json:"verdict_reason,omitempty"`
}

func (t *Transaction) Open() bool {
	return t.CheckinAt == nil
}

func (t *Transaction) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   t.ID,
		ResourceType: "transaction",
	}
}

type FlatTransactionRecord struct {
	ID               int        `db:"id"`
	AssetID          int        `db:"asset_id"`
	AssetName        string     `db:"asset_name"`
	CheckoutAt       time.Time  `db:"checkout_at"`
	CheckoutLocation string     `db:"checkout_location"`
	CheckinAt        *time.Time `db:"checkin_at"`
	CheckinLocation  *string    `db:"checkin_location"`
	UsageMinutes     *int       `db:"usage_minutes"`
	Comments         *string    `db:"comments"`
	Weather          []byte     `db:"weather"`
	Verdict          *string    `db:"verdict"`
	VerdictReason    *string    `db:"verdict_reason"`
}

func (ft *FlatTransactionRecord) TransformToTransaction() (Transaction, error) {
	tx := Transaction{
		ID:               ft.ID,
		AssetID:          ft.AssetID,
		AssetName:        ft.AssetName,
		CheckoutAt:       ft.CheckoutAt,
		CheckoutLocation: ft.CheckoutLocation,
		CheckinAt:        ft.CheckinAt,
		UsageMinutes:     ft.UsageMinutes,
	}

	if ft.CheckinLocation != nil {
		tx.CheckinLocation = *ft.CheckinLocation
	}
	if ft.Comments != nil {
		tx.Comments = *ft.Comments
	}
	if ft.Verdict != nil {
		tx.Verdict = metadata.Verdict(*ft.Verdict)
	}
	if ft.VerdictReason != nil {
		tx.VerdictReason = *ft.VerdictReason
	}
	if len(ft.Weather) > 0 {
		var snapshot WeatherSnapshot
		if err := json.Unmarshal(ft.Weather, &snapshot); err != nil {
			return Transaction{}, fmt.Errorf("failed to unmarshal weather snapshot: %w", err)
		}
		tx.Weather = &snapshot
	}

	return tx, nil
}
