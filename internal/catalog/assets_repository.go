package catalog

import (
	"errors"
	"fmt"

	"hangar/internal/repository"
	custom_error "hangar/pkg/errors"
	"hangar/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

type AssetsRepository struct {
	r *repository.Repository
}

func NewAssetsRepository(r *repository.Repository) *AssetsRepository {
	return &AssetsRepository{r: r}
}

func (ar *AssetsRepository) PersistAsset(asset models.Asset) (*models.Asset, error) {
	details, err := asset.DetailsJSON()
	if err != nil {
		return nil, err
	}

	query := ar.r.GoquDBWrapper.Insert("assets").
		Rows(goqu.Record{
			"variant":     asset.Variant.String(),
			"name":        asset.Name,
			"description": asset.Description,
			"use_case":    asset.UseCase,
			"details":     details,
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&asset.ID); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			return nil, custom_error.WrapDBError("failed to insert asset", string(pqErr.Code))
		}
		return nil, fmt.Errorf("failed to insert asset record: %w", err)
	}

	return &asset, nil
}

func (ar *AssetsRepository) GetAsset(id int) (*models.Asset, error) {
	query := ar.r.GoquDBWrapper.
		Select("id", "variant", "name", "description", "use_case", "details").
		From("assets").
		Where(goqu.Ex{"id": id})

	var record models.FlatAssetRecord
	found, err := query.Executor().ScanStruct(&record)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch asset: %w", err)
	}
	if !found {
		return nil, &custom_error.NotFoundError{Resource: "asset", ID: id}
	}

	asset, err := record.TransformToAsset()
	if err != nil {
		return nil, err
	}

	return &asset, nil
}

// GetAssetList returns the catalog in insertion order; the ordering carries
// no meaning beyond stable pagination.
func (ar *AssetsRepository) GetAssetList() (*[]models.Asset, error) {
	query := ar.r.GoquDBWrapper.
		Select("id", "variant", "name", "description", "use_case", "details").
		From("assets").
		Order(goqu.I("id").Asc())

	var records []models.FlatAssetRecord
	if err := query.Executor().ScanStructs(&records); err != nil {
		return nil, fmt.Errorf("failed to fetch assets: %w", err)
	}

	assets := make([]models.Asset, 0, len(records))
	for i := range records {
		asset, err := records[i].TransformToAsset()
		if err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}

	return &assets, nil
}

func (ar *AssetsRepository) UpdateAsset(id int, asset models.Asset) error {
	details, err := asset.DetailsJSON()
	if err != nil {
		return err
	}

	query := ar.r.GoquDBWrapper.
		Update("assets").
		Set(goqu.Record{
			"variant":     asset.Variant.String(),
			"name":        asset.Name,
			"description": asset.Description,
			"use_case":    asset.UseCase,
			"details":     details,
		}).
		Where(goqu.Ex{"id": id})

	result, err := query.Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to update asset: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return &custom_error.NotFoundError{Resource: "asset", ID: id}
	}

	return nil
}

// RemoveAsset deletes a catalog entry. The open-transaction count gives the
// caller a precise error; the race against a concurrent checkout is settled
// by the foreign key on transactions.asset_id, which serializes the insert's
// row lock against the delete so the loser surfaces as 23503 here or in
// InsertCheckout.
func (ar *AssetsRepository) RemoveAsset(id int) error {
	return repository.WithTransaction(ar.r.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		var openCount int
		query := tx.From("transactions").
			Select(goqu.COUNT("id")).
			Where(goqu.Ex{
				"asset_id":   id,
				"checkin_at": nil,
			})

		if _, err := query.Executor().ScanVal(&openCount); err != nil {
			return fmt.Errorf("failed to check open transactions: %w", err)
		}
		if openCount > 0 {
			return custom_error.NewConflictError("asset %d has an open transaction and cannot be removed", id)
		}

		result, err := tx.Delete("assets").
			Where(goqu.Ex{"id": id}).
			Executor().
			Exec()
		if err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == "23503" {
				return custom_error.NewConflictError("asset %d is referenced by transactions and cannot be removed", id)
			}
			return fmt.Errorf("failed to delete asset: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read delete result: %w", err)
		}
		if affected == 0 {
			return &custom_error.NotFoundError{Resource: "asset", ID: id}
		}

		return nil
	})
}
