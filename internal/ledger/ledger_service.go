package ledger

import (
	"context"
	"time"

	"hangar/internal/suitability"
	"hangar/internal/weather"
	"hangar/pkg/auditlog"
	custom_error "hangar/pkg/errors"
	"hangar/pkg/models"
)

type TransactionStore interface {
	InsertCheckout(req models.CheckoutRequest) (*models.Transaction, error)
	GetTransaction(id int) (*models.Transaction, error)
	GetOpenTransactionByAsset(assetID int) (*models.Transaction, error)
	CloseTransaction(id int, assetID int, req models.CheckinRequest, snapshot *models.WeatherSnapshot, verdict string, reason string, usageMinutes int) error
	GetOpenTransactions() (*[]models.Transaction, error)
	GetHistory() (*[]models.Transaction, error)
}

type AssetReader interface {
	GetAsset(id int) (*models.Asset, error)
}

type AuditLogger interface {
	Log(action string, data interface{}, item auditlog.Auditable)
}

// LedgerService drives the checkout/checkin lifecycle. Assets have no state
// column of their own: an asset is checked out exactly when an open
// transaction references it, so every transition is a single guarded write
// against the transactions table.
type LedgerService struct {
	store    TransactionStore
	assets   AssetReader
	gateway  weather.Gateway
	auditLog AuditLogger
}

func NewLedgerService(store TransactionStore, assets AssetReader, gateway weather.Gateway, auditLog AuditLogger) *LedgerService {
	return &LedgerService{
		store:    store,
		assets:   assets,
		gateway:  gateway,
		auditLog: auditLog,
	}
}

func (s *LedgerService) Checkout(req models.CheckoutRequest) (*models.Transaction, error) {
	if req.Location == "" {
		return nil, custom_error.NewValidationError("checkout location is required")
	}
	if req.CheckoutAt.IsZero() {
		req.CheckoutAt = time.Now().UTC()
	}

	asset, err := s.assets.GetAsset(req.AssetID)
	if err != nil {
		return nil, err
	}

	tx, err := s.store.InsertCheckout(req)
	if err != nil {
		return nil, err
	}
	tx.AssetName = asset.Name

	go s.auditLog.Log(
		"checkout",
		map[string]interface{}{
			"asset_id": asset.ID,
			"location": req.Location,
			"msg":      "Asset checked out",
		},
		tx,
	)

	return tx, nil
}

// Checkin closes the open transaction of an asset. The weather snapshot is
// fetched first; if the gateway fails nothing has been written and the
// transaction stays open, so the caller may simply resubmit. Suitability is
// evaluated from the asset's envelope; an incomplete envelope yields the
// unevaluable verdict, which still closes the transaction.
func (s *LedgerService) Checkin(ctx context.Context, req models.CheckinRequest) (*models.Transaction, error) {
	if req.Location == "" {
		return nil, custom_error.NewValidationError("checkin location is required")
	}
	if req.TransactionID == 0 && req.AssetID == 0 {
		return nil, custom_error.NewValidationError("checkin requires a transaction_id or asset_id")
	}
	if req.UsageMinutes != nil && *req.UsageMinutes < 0 {
		return nil, custom_error.NewValidationError("usage_minutes must not be negative")
	}
	if req.CheckinAt.IsZero() {
		req.CheckinAt = time.Now().UTC()
	}

	tx, err := s.resolveOpenTransaction(req)
	if err != nil {
		return nil, err
	}

	asset, err := s.assets.GetAsset(tx.AssetID)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.gateway.FetchSnapshot(ctx, req.Location)
	if err != nil {
		return nil, err
	}

	result := suitability.Evaluate(asset.Envelope(), &snapshot)
	usageMinutes := resolveUsageMinutes(req, tx)

	if err := s.store.CloseTransaction(tx.ID, tx.AssetID, req, &snapshot, result.Verdict.String(), result.Reason, usageMinutes); err != nil {
		return nil, err
	}

	tx.AssetName = asset.Name
	tx.CheckinAt = &req.CheckinAt
	tx.CheckinLocation = req.Location
	tx.UsageMinutes = &usageMinutes
	tx.Comments = req.Comments
	tx.Weather = &snapshot
	tx.Verdict = result.Verdict
	tx.VerdictReason = result.Reason

	go s.auditLog.Log(
		"checkin",
		map[string]interface{}{
			"asset_id": tx.AssetID,
			"location": req.Location,
			"verdict":  result.Verdict.String(),
			"msg":      "Asset checked in",
		},
		tx,
	)

	return tx, nil
}

func (s *LedgerService) ListOpen() (*[]models.Transaction, error) {
	return s.store.GetOpenTransactions()
}

func (s *LedgerService) ListHistory() (*[]models.Transaction, error) {
	return s.store.GetHistory()
}

func (s *LedgerService) resolveOpenTransaction(req models.CheckinRequest) (*models.Transaction, error) {
	if req.TransactionID != 0 {
		tx, err := s.store.GetTransaction(req.TransactionID)
		if err != nil {
			return nil, err
		}
		if !tx.Open() {
			return nil, &custom_error.NotCheckedOutError{AssetID: tx.AssetID}
		}
		return tx, nil
	}

	return s.store.GetOpenTransactionByAsset(req.AssetID)
}

// resolveUsageMinutes prefers the duration supplied by the caller and falls
// back to the interval between checkout and checkin.
func resolveUsageMinutes(req models.CheckinRequest, tx *models.Transaction) int {
	if req.UsageMinutes != nil {
		return *req.UsageMinutes
	}

	minutes := int(req.CheckinAt.Sub(tx.CheckoutAt).Minutes())
	if minutes < 0 {
		minutes = 0
	}
	return minutes
}
