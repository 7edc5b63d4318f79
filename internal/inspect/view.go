package inspect

import (
	"github.com/osse101/armory/internal/domain"
	"github.com/osse101/armory/internal/ecs"
)

// View is one read-only query: a variant marker plus the attributes an entity
// must carry to be listed.
type View struct {
	Name  string
	Match func(w *ecs.World) []ecs.Entity
}

// DefaultViews lists the views reported every tick
func DefaultViews() []View {
	return []View{
		{Name: ViewWand, Match: with[domain.WandWeapon]},
		{Name: ViewWandDamage, Match: withBoth[domain.WandWeapon, domain.DamageRange]},
		{Name: ViewMelee, Match: withBoth[domain.MeleeWeapon, domain.WeaponID]},
		{Name: ViewDistance, Match: with[domain.DistanceWeapon]},
		{Name: ViewDistanceBreak, Match: withBoth[domain.DistanceWeapon, domain.BreakChance]},
	}
}

func with[A any](w *ecs.World) []ecs.Entity {
	var out []ecs.Entity
	for e := range ecs.Each[A](w) {
		out = append(out, e)
	}
	return out
}

func withBoth[A, B any](w *ecs.World) []ecs.Entity {
	var out []ecs.Entity
	for e := range ecs.Each2[A, B](w) {
		out = append(out, e)
	}
	return out
}
