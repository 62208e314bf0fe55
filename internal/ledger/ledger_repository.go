package ledger

import (
	"encoding/json"
	"errors"
	"fmt"

	"hangar/internal/repository"
	custom_error "hangar/pkg/errors"
	"hangar/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

// openAssetIndex is the partial unique index guarding the one-open-
// transaction-per-asset invariant at the storage layer. Two racing checkouts
// both reach the insert; exactly one commits, the loser hits 23505.
const openAssetIndex = "transactions_open_asset_idx"

type LedgerRepository struct {
	r *repository.Repository
}

func NewLedgerRepository(r *repository.Repository) *LedgerRepository {
	return &LedgerRepository{r: r}
}

func (lr *LedgerRepository) InsertCheckout(req models.CheckoutRequest) (*models.Transaction, error) {
	query := lr.r.GoquDBWrapper.Insert("transactions").
		Rows(goqu.Record{
			"asset_id":          req.AssetID,
			"checkout_at":       req.CheckoutAt,
			"checkout_location": req.Location,
		}).
		Returning("id")

	tx := models.Transaction{
		AssetID:          req.AssetID,
		CheckoutAt:       req.CheckoutAt,
		CheckoutLocation: req.Location,
	}

	if _, err := query.Executor().ScanVal(&tx.ID); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			if pqErr.Code == "23505" && pqErr.Constraint == openAssetIndex {
				return nil, &custom_error.AlreadyCheckedOutError{AssetID: req.AssetID}
			}
			// Foreign key on asset_id: the asset was deleted under us.
			if pqErr.Code == "23503" {
				return nil, &custom_error.NotFoundError{Resource: "asset", ID: req.AssetID}
			}
		}
		return nil, fmt.Errorf("failed to insert checkout record: %w", err)
	}

	return &tx, nil
}

func (lr *LedgerRepository) GetTransaction(id int) (*models.Transaction, error) {
	query := lr.r.GoquDBWrapper.
		Select(transactionColumns()...).
		From("transactions").
		Where(goqu.Ex{"id": id})

	var record models.FlatTransactionRecord
	found, err := query.Executor().ScanStruct(&record)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transaction: %w", err)
	}
	if !found {
		return nil, &custom_error.NotFoundError{Resource: "transaction", ID: id}
	}

	tx, err := record.TransformToTransaction()
	if err != nil {
		return nil, err
	}

	return &tx, nil
}

func (lr *LedgerRepository) GetOpenTransactionByAsset(assetID int) (*models.Transaction, error) {
	query := lr.r.GoquDBWrapper.
		Select(transactionColumns()...).
		From("transactions").
		Where(goqu.Ex{
			"asset_id":   assetID,
			"checkin_at": nil,
		})

	var record models.FlatTransactionRecord
	found, err := query.Executor().ScanStruct(&record)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch open transaction: %w", err)
	}
	if !found {
		return nil, &custom_error.NotCheckedOutError{AssetID: assetID}
	}

	tx, err := record.TransformToTransaction()
	if err != nil {
		return nil, err
	}

	return &tx, nil
}

// CloseTransaction writes every checkin field in a single UPDATE guarded by
// `checkin_at IS NULL`, so the snapshot, verdict, timestamps and the state
// flip land atomically or not at all. Zero affected rows means the
// transaction was already closed by a racing checkin.
func (lr *LedgerRepository) CloseTransaction(id int, assetID int, req models.CheckinRequest, snapshot *models.WeatherSnapshot, verdict string, reason string, usageMinutes int) error {
	weatherJSON, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal weather snapshot: %w", err)
	}

	query := lr.r.GoquDBWrapper.
		Update("transactions").
		Set(goqu.Record{
			"checkin_at":       req.CheckinAt,
			"checkin_location": req.Location,
			"usage_minutes":    usageMinutes,
			"comments":         req.Comments,
			"weather":          weatherJSON,
			"verdict":          verdict,
			"verdict_reason":   reason,
		}).
		Where(goqu.Ex{
			"id":         id,
			"checkin_at": nil,
		})

	result, err := query.Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to close transaction: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read close result: %w", err)
	}
	if affected == 0 {
		return &custom_error.NotCheckedOutError{AssetID: assetID}
	}

	return nil
}

// GetOpenTransactions lists every open transaction joined with the asset
// display name, for operational dashboards.
func (lr *LedgerRepository) GetOpenTransactions() (*[]models.Transaction, error) {
	query := lr.r.GoquDBWrapper.
		Select(joinedTransactionColumns()...).
		From("transactions").
		Join(goqu.T("assets"), goqu.On(goqu.Ex{"transactions.asset_id": goqu.I("assets.id")})).
		Where(goqu.Ex{"transactions.checkin_at": nil}).
		Order(goqu.I("transactions.checkout_at").Desc())

	return lr.scanTransactions(query)
}

// GetHistory lists closed transactions most-recent-first, each carrying the
// stored weather snapshot verbatim.
func (lr *LedgerRepository) GetHistory() (*[]models.Transaction, error) {
	query := lr.r.GoquDBWrapper.
		Select(joinedTransactionColumns()...).
		From("transactions").
		Join(goqu.T("assets"), goqu.On(goqu.Ex{"transactions.asset_id": goqu.I("assets.id")})).
		Where(goqu.I("transactions.checkin_at").IsNotNull()).
		Order(goqu.I("transactions.checkin_at").Desc())

	return lr.scanTransactions(query)
}

func (lr *LedgerRepository) scanTransactions(query *goqu.SelectDataset) (*[]models.Transaction, error) {
	var records []models.FlatTransactionRecord
	if err := query.Executor().ScanStructs(&records); err != nil {
		return nil, fmt.Errorf("failed to fetch transactions: %w", err)
	}

	transactions := make([]models.Transaction, 0, len(records))
	for i := range records {
		tx, err := records[i].TransformToTransaction()
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}

	return &transactions, nil
}

func transactionColumns() []interface{} {
	return []interface{}{
		"id", "asset_id", "checkout_at", "checkout_location",
		"checkin_at", "checkin_location", "usage_minutes", "comments",
		"weather", "verdict", "verdict_reason",
	}
}

func joinedTransactionColumns() []interface{} {
	return []interface{}{
		goqu.I("transactions.id").As("id"),
		goqu.I("transactions.asset_id").As("asset_id"),
		goqu.I("assets.name").As("asset_name"),
		goqu.I("transactions.checkout_at").As("checkout_at"),
		goqu.I("transactions.checkout_location").As("checkout_location"),
		goqu.I("transactions.checkin_at").As("checkin_at"),
		goqu.I("transactions.checkin_location").As("checkin_location"),
		goqu.I("transactions.usage_minutes").As("usage_minutes"),
		goqu.I("transactions.comments").As("comments"),
		goqu.I("transactions.weather").As("weather"),
		goqu.I("transactions.verdict").As("verdict"),
		goqu.I("transactions.verdict_reason").As("verdict_reason"),
	}
}
