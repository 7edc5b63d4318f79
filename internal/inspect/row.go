package inspect

import (
	"fmt"
	"log/slog"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/text/cases"

	"github.com/osse101/armory/internal/domain"
	"github.com/osse101/armory/internal/ecs"
)

// Row is the rendered state of one entity
type Row struct {
	Entity     string     `json:"entity"`
	Weapon     string     `json:"weapon"`
	Variant    string     `json:"variant"`
	Attributes Attributes `json:"attributes"`
}

// Attributes holds the attribute values attached to an entity. Absent
// attributes are nil.
type Attributes struct {
	ID          uint32  `json:"id"`
	Level       *uint32 `json:"level,omitempty"`
	MagicLevel  *uint32 `json:"magic_level,omitempty"`
	Mana        *uint32 `json:"mana,omitempty"`
	DamageRange *Range  `json:"damage_range,omitempty"`
	BreakChance *uint32 `json:"break_chance,omitempty"`
}

// Range is a damage interval as reported
type Range struct {
	Min uint32 `json:"min"`
	Max uint32 `json:"max"`
}

func slogGroup(a Attributes) slog.Attr {
	return slog.Group("attributes", a.logAttrs()...)
}

// logAttrs renders the present attributes as slog attributes
func (a Attributes) logAttrs() []any {
	out := []any{slog.Any(domain.AttributeWeaponID, a.ID)}
	if a.Level != nil {
		out = append(out, slog.Any(domain.AttributeLevel, *a.Level))
	}
	if a.MagicLevel != nil {
		out = append(out, slog.Any(domain.AttributeMagicLevel, *a.MagicLevel))
	}
	if a.Mana != nil {
		out = append(out, slog.Any(domain.AttributeMana, *a.Mana))
	}
	if a.DamageRange != nil {
		out = append(out, slog.Group(domain.AttributeDamageRange,
			"min", a.DamageRange.Min, "max", a.DamageRange.Max))
	}
	if a.BreakChance != nil {
		out = append(out, slog.Any(domain.AttributeBreakChance, *a.BreakChance))
	}
	return out
}

// rowCache keeps rendered rows per entity. Materialized entities never change,
// and a respawned slot gets a new version, so a hit is always current.
type rowCache struct {
	lru *expirable.LRU[ecs.Entity, Row]
}

func newRowCache(size int) *rowCache {
	return &rowCache{lru: expirable.NewLRU[ecs.Entity, Row](size, nil, DefaultCacheTTL)}
}

func (c *rowCache) get(e ecs.Entity) (Row, bool) {
	return c.lru.Get(e)
}

func (c *rowCache) add(e ecs.Entity, r Row) {
	c.lru.Add(e, r)
}

func (c *rowCache) len() int {
	return c.lru.Len()
}

// render reads every weapon attribute of e from the world
func render(w *ecs.World, e ecs.Entity, caser cases.Caser) Row {
	variant := VariantUnknown
	switch {
	case ecs.Has[domain.WandWeapon](w, e):
		variant = domain.VariantNameWand
	case ecs.Has[domain.MeleeWeapon](w, e):
		variant = domain.VariantNameMelee
	case ecs.Has[domain.DistanceWeapon](w, e):
		variant = domain.VariantNameDistance
	}

	var attrs Attributes
	if id, ok := ecs.Get[domain.WeaponID](w, e); ok {
		attrs.ID = id.ID
	}
	if v, ok := ecs.Get[domain.Level](w, e); ok {
		attrs.Level = &v.Value
	}
	if v, ok := ecs.Get[domain.MagicLevel](w, e); ok {
		attrs.MagicLevel = &v.Value
	}
	if v, ok := ecs.Get[domain.Mana](w, e); ok {
		attrs.Mana = &v.Value
	}
	if v, ok := ecs.Get[domain.DamageRange](w, e); ok {
		attrs.DamageRange = &Range{Min: v.Min, Max: v.Max}
	}
	if v, ok := ecs.Get[domain.BreakChance](w, e); ok {
		attrs.BreakChance = &v.Value
	}

	return Row{
		Entity:     e.String(),
		Weapon:     fmt.Sprintf("%s #%d", caser.String(variant), attrs.ID),
		Variant:    variant,
		Attributes: attrs,
	}
}
