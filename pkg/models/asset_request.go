package models

import (
	custom_error "hangar/pkg/errors"
	"hangar/pkg/metadata"
)

type AssetRequest struct {
	Variant     string           `json:"variant" binding:"required"`
	Name        string           `json:"name" binding:"required"`
	Description string           `json:"description"`
	UseCase     string           `json:"use_case"`
	Physical    *PhysicalDetails `json:"physical"`
	Drone       *DroneDetails    `json:"drone"`
	Software    *SoftwareDetails `json:"software"`
}

// ToAsset builds and validates a catalog entry from the request payload.
func (r AssetRequest) ToAsset() (Asset, error) {
	variant, err := metadata.NewVariant(r.Variant)
	if err != nil {
		return Asset{}, custom_error.NewValidationError("invalid variant: %v", err)
	}

	asset := Asset{
		Variant:     variant,
		Name:        r.Name,
		Description: r.Description,
		UseCase:     r.UseCase,
		Physical:    r.Physical,
		Drone:       r.Drone,
		Software:    r.Software,
	}

	if err := asset.Validate(); err != nil {
		return Asset{}, err
	}

	return asset, nil
}
