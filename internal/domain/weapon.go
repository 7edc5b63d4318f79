package domain

import "fmt"

// Variant is the mutually exclusive weapon category.
type Variant uint8

const (
	VariantWand Variant = iota + 1
	VariantMelee
	VariantDistance
)

// String returns the stable lowercase name of the variant
func (v Variant) String() string {
	switch v {
	case VariantWand:
		return VariantNameWand
	case VariantMelee:
		return VariantNameMelee
	case VariantDistance:
		return VariantNameDistance
	default:
		return fmt.Sprintf("variant(%d)", uint8(v))
	}
}

// Valid reports whether v is one of the known variants
func (v Variant) Valid() bool {
	return v >= VariantWand && v <= VariantDistance
}

// Weapon is a variant-tagged record with optional attribute slots.
// Optional attributes are nil when absent. Attribute presence is independent of
// the variant: a script may attach any attribute to any variant.
type Weapon struct {
	ID          uint32
	Variant     Variant
	Level       *Level       `validate:"omitempty"`
	MagicLevel  *MagicLevel  `validate:"omitempty"`
	Mana        *Mana        `validate:"omitempty"`
	DamageRange *DamageRange `validate:"omitempty"`
	BreakChance *BreakChance `validate:"omitempty"`
}

// String renders a compact description, used in logs and by the script bridge's tostring
func (w Weapon) String() string {
	return fmt.Sprintf("Weapon(%s#%d)", w.Variant, w.ID)
}

// Attribute records. Each one is attached to an entity as its own component type.

// WeaponID identifies the weapon an entity was materialized from
type WeaponID struct {
	ID uint32
}

// Level is the character level required to wield the weapon
type Level struct {
	Value uint32
}

// MagicLevel is the magic level required to wield the weapon
type MagicLevel struct {
	Value uint32
}

// Mana is the mana cost per use
type Mana struct {
	Value uint32
}

// DamageRange is the rolled damage interval. Min and Max are not ordered by construction.
type DamageRange struct {
	Min uint32
	Max uint32 `validate:"gtefield=Min"`
}

// BreakChance is the chance, in percent, that a projectile breaks on use
type BreakChance struct {
	Value uint32 `validate:"lte=100"`
}

// Variant markers. Zero-size records attached once per entity.

// WandWeapon marks a wand entity
type WandWeapon struct{}

// MeleeWeapon marks a melee entity
type MeleeWeapon struct{}

// DistanceWeapon marks a distance entity
type DistanceWeapon struct{}

// WithLevel returns a copy of w with the level attribute set
func (w Weapon) WithLevel(v uint32) Weapon {
	w.Level = &Level{Value: v}
	return w
}

// WithMagicLevel returns a copy of w with the magic level attribute set
func (w Weapon) WithMagicLevel(v uint32) Weapon {
	w.MagicLevel = &MagicLevel{Value: v}
	return w
}

// WithMana returns a copy of w with the mana attribute set
func (w Weapon) WithMana(v uint32) Weapon {
	w.Mana = &Mana{Value: v}
	return w
}

// WithDamageRange returns a copy of w with the damage range attribute set.
// The bounds are stored as given.
func (w Weapon) WithDamageRange(minDamage, maxDamage uint32) Weapon {
	w.DamageRange = &DamageRange{Min: minDamage, Max: maxDamage}
	return w
}

// WithBreakChance returns a copy of w with the break chance attribute set
func (w Weapon) WithBreakChance(v uint32) Weapon {
	w.BreakChance = &BreakChance{Value: v}
	return w
}

// Attributes lists the names of the optional attributes present on w, in declaration order
func (w Weapon) Attributes() []string {
	var out []string
	if w.Level != nil {
		out = append(out, AttributeLevel)
	}
	if w.MagicLevel != nil {
		out = append(out, AttributeMagicLevel)
	}
	if w.Mana != nil {
		out = append(out, AttributeMana)
	}
	if w.DamageRange != nil {
		out = append(out, AttributeDamageRange)
	}
	if w.BreakChance != nil {
		out = append(out, AttributeBreakChance)
	}
	return out
}
