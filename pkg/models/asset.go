package models

import (
	"encoding/json"
	"fmt"

	custom_error "hangar/pkg/errors"
	"hangar/pkg/metadata"
)

// OperatingEnvelope holds the weather limits a physical asset is rated for.
// Numeric fields are pointers so an absent limit is distinguishable from zero;
// the suitability evaluator treats absent limits as unevaluable.
type OperatingEnvelope struct {
	MinTemp           *float64 `json:"min_temp"`
	MaxTemp           *float64 `json:"max_temp"`
	MaxWindResistance *float64 `json:"max_wind_resistance"`
	MinLightingClass  string   `json:"min_lighting_class"`
}

func (e *OperatingEnvelope) Complete() bool {
	return e != nil && e.MinTemp != nil && e.MaxTemp != nil && e.MaxWindResistance != nil
}

// PhysicalDetails are carried by the equipment and drone variants.
type PhysicalDetails struct {
	Location          string            `json:"location"`
	Specification     string            `json:"specification"`
	StorageDimensions string            `json:"storage_dimensions"`
	Envelope          OperatingEnvelope `json:"operating_envelope"`
}

type DroneDetails struct {
	WeightWithBatteries    float64 `json:"weight_with_batteries"`
	WeightWithoutBatteries float64 `json:"weight_without_batteries"`
	MaxTakeoffWeight       float64 `json:"max_takeoff_weight"`
	MaxPayloadWeight       float64 `json:"max_payload_weight"`
	IPRating               string  `json:"ip_rating"`
}

type SoftwareDetails struct {
	PurchaseDate string   `json:"purchase_date"`
	RenewalDate  string   `json:"renewal_date"`
	Price        *float64 `json:"price"`
	Category     string   `json:"category"`
	AccountCode  string   `json:"account_code"`
}

// Asset is a catalog entry. The variant discriminator decides which detail
// block must be present; Validate enforces it at create and update time so a
// row can never hold a half-filled variant.
type Asset struct {
	ID          int              `json:"id" db:"id"`
	Variant     metadata.Variant `json:"variant" db:"variant"`
	Name        string           `json:"name" db:"name"`
	Description string           `json:"description" db:"description"`
	UseCase     string           `json:"use_case" db:"use_case"`
	Physical    *PhysicalDetails `json:"physical,omitempty"`
	Drone       *DroneDetails    `json:"drone,omitempty"`
	Software    *SoftwareDetails `json:"software,omitempty"`
}

// Envelope returns the operating envelope for physical assets, nil otherwise.
func (a *Asset) Envelope() *OperatingEnvelope {
	if a.Physical == nil {
		return nil
	}
	return &a.Physical.Envelope
}

// Validate checks that exactly the detail blocks required by the variant are
// present and filled in.
func (a *Asset) Validate() error {
	if !a.Variant.IsValid() {
		return custom_error.NewValidationError("invalid asset variant: %s", a.Variant)
	}
	if a.Name == "" {
		return custom_error.NewValidationError("asset name is required")
	}

	switch a.Variant {
	case metadata.VariantEquipment:
		if a.Drone != nil || a.Software != nil {
			return custom_error.NewValidationError("equipment asset must carry only physical details")
		}
		return a.validatePhysical()
	case metadata.VariantDrone:
		if a.Software != nil {
			return custom_error.NewValidationError("drone asset must not carry software details")
		}
		if err := a.validatePhysical(); err != nil {
			return err
		}
		return a.validateDrone()
	case metadata.VariantSoftware:
		if a.Physical != nil || a.Drone != nil {
			return custom_error.NewValidationError("software asset must carry only software details")
		}
		return a.validateSoftware()
	}

	return nil
}

func (a *Asset) validatePhysical() error {
	p := a.Physical
	if p == nil {
		return custom_error.NewValidationError("%s asset requires physical details", a.Variant)
	}
	if p.Location == "" {
		return custom_error.NewValidationError("physical asset requires a location")
	}
	if p.Specification == "" {
		return custom_error.NewValidationError("physical asset requires a specification")
	}
	if p.StorageDimensions == "" {
		return custom_error.NewValidationError("physical asset requires storage dimensions")
	}
	env := p.Envelope
	if env.MinTemp == nil || env.MaxTemp == nil || env.MaxWindResistance == nil {
		return custom_error.NewValidationError("physical asset requires a complete operating envelope (min_temp, max_temp, max_wind_resistance)")
	}
	if *env.MinTemp > *env.MaxTemp {
		return custom_error.NewValidationError("operating envelope min_temp exceeds max_temp")
	}
	if env.MinLightingClass == "" {
		return custom_error.NewValidationError("physical asset requires a minimum lighting class")
	}
	return nil
}

func (a *Asset) validateDrone() error {
	d := a.Drone
	if d == nil {
		return custom_error.NewValidationError("drone asset requires drone details")
	}
	if d.WeightWithBatteries <= 0 || d.WeightWithoutBatteries <= 0 {
		return custom_error.NewValidationError("drone asset requires weights with and without batteries")
	}
	if d.MaxTakeoffWeight <= 0 || d.MaxPayloadWeight <= 0 {
		return custom_error.NewValidationError("drone asset requires max takeoff and payload weights")
	}
	if d.IPRating == "" {
		return custom_error.NewValidationError("drone asset requires an ingress protection rating")
	}
	return nil
}

func (a *Asset) validateSoftware() error {
	s := a.Software
	if s == nil {
		return custom_error.NewValidationError("software asset requires software details")
	}
	if s.PurchaseDate == "" || s.RenewalDate == "" {
		return custom_error.NewValidationError("software asset requires purchase and renewal dates")
	}
	if s.Price == nil {
		return custom_error.NewValidationError("software asset requires a price")
	}
	if s.Category == "" {
		return custom_error.NewValidationError("software asset requires a category")
	}
	if s.AccountCode == "" {
		return custom_error.NewValidationError("software asset requires a purchasing account code")
	}
	return nil
}

func (a *Asset) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   a.ID,
		ResourceType: "asset",
	}
}

// assetDetails is the shape persisted in the assets.details jsonb column.
type assetDetails struct {
	Physical *PhysicalDetails `json:"physical,omitempty"`
	Drone    *DroneDetails    `json:"drone,omitempty"`
	Software *SoftwareDetails `json:"software,omitempty"`
}

// DetailsJSON serializes the variant-specific detail blocks for storage.
func (a *Asset) DetailsJSON() ([]byte, error) {
	raw, err := json.Marshal(assetDetails{
		Physical: a.Physical,
		Drone:    a.Drone,
		Software: a.Software,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal asset details: %w", err)
	}
	return raw, nil
}

type FlatAssetRecord struct {
	ID          int    `db:"id"`
	Variant     string `db:"variant"`
	Name        string `db:"name"`
	Description string `db:"description"`
	UseCase     string `db:"use_case"`
	Details     []byte `db:"details"`
}

func (fa *FlatAssetRecord) TransformToAsset() (Asset, error) {
	var details assetDetails
	if len(fa.Details) > 0 {
		if err := json.Unmarshal(fa.Details, &details); err != nil {
			return Asset{}, fmt.Errorf("failed to unmarshal asset details: %w", err)
		}
	}

	return Asset{
		ID:          fa.ID,
		Variant:     metadata.Variant(fa.Variant),
		Name:        fa.Name,
		Description: fa.Description,
		UseCase:     fa.UseCase,
		Physical:    details.Physical,
		Drone:       details.Drone,
		Software:    details.Software,
	}, nil
}
