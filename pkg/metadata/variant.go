package metadata

import (
	"fmt"
	"strings"
)

type Variant string

const (
	VariantEquipment Variant = "equipment"
	VariantDrone     Variant = "drone"
	VariantSoftware  Variant = "software"
)

func (v Variant) IsValid() bool {
	switch v {
	case VariantEquipment, VariantDrone, VariantSoftware:
		return true
	default:
		return false
	}
}

// IsPhysical reports whether assets of this variant carry an operating envelope.
func (v Variant) IsPhysical() bool {
	return v == VariantEquipment || v == VariantDrone
}

func NewVariant(value string) (Variant, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	variant := Variant(normalized)
	if !variant.IsValid() {
		return variant, fmt.Errorf(
			"value not valid, only valid values are: %s, %s, %s",
			VariantEquipment, VariantDrone, VariantSoftware,
		)
	}

	return variant, nil
}

func (v Variant) String() string {
	return string(v)
}
