package domain

// Variant names as used in scripts, logs and metric labels
const (
	VariantNameWand     = "wand"
	VariantNameMelee    = "melee"
	VariantNameDistance = "distance"
)

// Attribute names as used in logs, metric labels and the script bridge
const (
	AttributeWeaponID    = "id"
	AttributeLevel       = "level"
	AttributeMagicLevel  = "magic_level"
	AttributeMana        = "mana"
	AttributeDamageRange = "damage_range"
	AttributeBreakChance = "break_chance"
)

// DefaultEntryPoint is the script function invoked when none is configured
const DefaultEntryPoint = "main"

// MaxBreakChance is the upper bound of a sensible break chance, in percent
const MaxBreakChance = 100
