// Package weapon builds domain weapons and exposes them to scripts.
package weapon

import "github.com/osse101/armory/internal/domain"

// NewWand returns a wand with no optional attributes
func NewWand(id uint32) domain.Weapon {
	return domain.Weapon{ID: id, Variant: domain.VariantWand}
}

// NewMelee returns a melee weapon with no optional attributes
func NewMelee(id uint32) domain.Weapon {
	return domain.Weapon{ID: id, Variant: domain.VariantMelee}
}

// NewDistance returns a distance weapon with no optional attributes
func NewDistance(id uint32) domain.Weapon {
	return domain.Weapon{ID: id, Variant: domain.VariantDistance}
}
