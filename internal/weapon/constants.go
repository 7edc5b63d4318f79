package weapon

// Script-facing names
const (
	ModuleName = "Weapon"
	TypeName   = "armory.weapon"

	FuncNewWand     = "new_wand"
	FuncNewMelee    = "new_melee"
	FuncNewDistance = "new_distance"

	MethodLevel       = "level"
	MethodMagicLevel  = "magic_level"
	MethodMana        = "mana"
	MethodDamageRange = "damage_range"
	MethodBreakChance = "break_chance"
)

// Error message constants
const (
	ErrMsgMoved          = "weapon value has been moved"
	ErrMsgWeaponExpected = "Weapon expected"
	ErrMsgUint32Expected = "non-negative 32-bit integer expected"
	ErrMsgNotSequence    = "expected a sequence of weapons"
	ErrMsgSequenceKey    = "sequence has non-consecutive key"
	ErrMsgNotWeapon      = "element is not a Weapon"
	ErrMsgInvalidVariant = "weapon has an unknown variant"
)
