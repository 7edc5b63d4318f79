package materialize

import (
	"fmt"

	"github.com/osse101/armory/internal/domain"
	"github.com/osse101/armory/internal/ecs"
)

// spawn creates one entity for w. The entity always carries the weapon id and
// its variant marker; each optional attribute is attached only when present.
// A failed attachment despawns the entity so no partial weapon remains.
func spawn(world *ecs.World, w domain.Weapon) (ecs.Entity, error) {
	e := world.Spawn()
	if err := attachAll(world, e, w); err != nil {
		world.Despawn(e)
		return ecs.Entity{}, fmt.Errorf(ErrMsgSpawnFailed, w.ID, err)
	}
	return e, nil
}

func attachAll(world *ecs.World, e ecs.Entity, w domain.Weapon) error {
	if err := ecs.Attach(world, e, domain.WeaponID{ID: w.ID}); err != nil {
		return err
	}
	if err := attachVariant(world, e, w.Variant); err != nil {
		return err
	}

	steps := []func() error{
		func() error { return attachIfSome(world, e, w.Level) },
		func() error { return attachIfSome(world, e, w.MagicLevel) },
		func() error { return attachIfSome(world, e, w.Mana) },
		func() error { return attachIfSome(world, e, w.DamageRange) },
		func() error { return attachIfSome(world, e, w.BreakChance) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

// attachIfSome attaches *v when v is non-nil and does nothing otherwise
func attachIfSome[T any](world *ecs.World, e ecs.Entity, v *T) error {
	if v == nil {
		return nil
	}
	return ecs.Attach(world, e, *v)
}

func attachVariant(world *ecs.World, e ecs.Entity, v domain.Variant) error {
	switch v {
	case domain.VariantWand:
		return ecs.Attach(world, e, domain.WandWeapon{})
	case domain.VariantMelee:
		return ecs.Attach(world, e, domain.MeleeWeapon{})
	case domain.VariantDistance:
		return ecs.Attach(world, e, domain.DistanceWeapon{})
	default:
		return fmt.Errorf("%w: %s %s", domain.ErrDecode, ErrMsgUnknownVariant, v)
	}
}
