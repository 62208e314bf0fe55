package catalog

import (
	"hangar/pkg/auditlog"
	"hangar/pkg/models"
)

// AssetStore is the persistence contract of the catalog; the ledger reuses
// the read side to resolve asset envelopes at checkin.
type AssetStore interface {
	PersistAsset(asset models.Asset) (*models.Asset, error)
	GetAsset(id int) (*models.Asset, error)
	GetAssetList() (*[]models.Asset, error)
	UpdateAsset(id int, asset models.Asset) error
	RemoveAsset(id int) error
}

type AuditLogger interface {
	Log(action string, data interface{}, item auditlog.Auditable)
}

type AssetService struct {
	store    AssetStore
	auditLog AuditLogger
}

func NewAssetService(store AssetStore, auditLog AuditLogger) *AssetService {
	return &AssetService{
		store:    store,
		auditLog: auditLog,
	}
}

func (s *AssetService) CreateAsset(req models.AssetRequest) (*models.Asset, error) {
	asset, err := req.ToAsset()
	if err != nil {
		return nil, err
	}

	created, err := s.store.PersistAsset(asset)
	if err != nil {
		return nil, err
	}

	go s.auditLog.Log(
		"create",
		map[string]interface{}{
			"variant": created.Variant.String(),
			"name":    created.Name,
			"msg":     "Asset cataloged successfully",
		},
		created,
	)

	return created, nil
}

func (s *AssetService) GetAsset(id int) (*models.Asset, error) {
	return s.store.GetAsset(id)
}

func (s *AssetService) ListAssets() (*[]models.Asset, error) {
	return s.store.GetAssetList()
}

// UpdateAsset replaces the mutable fields of a catalog entry. The variant may
// change, but the new variant's required detail set is validated before any
// write happens.
func (s *AssetService) UpdateAsset(id int, req models.AssetRequest) (*models.Asset, error) {
	asset, err := req.ToAsset()
	if err != nil {
		return nil, err
	}

	if err := s.store.UpdateAsset(id, asset); err != nil {
		return nil, err
	}

	asset.ID = id
	go s.auditLog.Log(
		"update",
		map[string]interface{}{
			"variant": asset.Variant.String(),
			"name":    asset.Name,
			"msg":     "Asset updated",
		},
		&asset,
	)

	return &asset, nil
}

func (s *AssetService) RemoveAsset(id int) error {
	if err := s.store.RemoveAsset(id); err != nil {
		return err
	}

	removed := models.Asset{ID: id}
	go s.auditLog.Log(
		"remove",
		map[string]interface{}{
			"msg": "Asset removed from catalog",
		},
		&removed,
	)

	return nil
}
