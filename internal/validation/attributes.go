package validation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/osse101/armory/internal/domain"
	"github.com/osse101/armory/internal/logger"
)

// attributeNames maps Weapon field names to their script-facing names
var attributeNames = map[string]string{
	"Level":       domain.AttributeLevel,
	"MagicLevel":  domain.AttributeMagicLevel,
	"Mana":        domain.AttributeMana,
	"DamageRange": domain.AttributeDamageRange,
	"BreakChance": domain.AttributeBreakChance,
}

// Violation is one suspicious attribute value
type Violation struct {
	WeaponID  uint32
	Variant   domain.Variant
	Attribute string
	Message   string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s#%d %s: %s", v.Variant, v.WeaponID, v.Attribute, v.Message)
}

// AttributePolicy checks attribute values before weapons are materialized.
// Lenient policies only log violations; strict policies reject the batch.
type AttributePolicy struct {
	validate *validator.Validate
	strict   bool
}

// NewAttributePolicy creates a policy. strict turns violations into errors.
func NewAttributePolicy(strict bool) *AttributePolicy {
	return &AttributePolicy{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		strict:   strict,
	}
}

// Strict reports whether violations are rejected
func (p *AttributePolicy) Strict() bool {
	return p.strict
}

// Check returns every violation in weapons, in weapon order
func (p *AttributePolicy) Check(weapons []domain.Weapon) []Violation {
	var out []Violation
	for _, w := range weapons {
		err := p.validate.Struct(w)
		if err == nil {
			continue
		}
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			out = append(out, Violation{WeaponID: w.ID, Variant: w.Variant, Message: err.Error()})
			continue
		}
		for _, fe := range validationErrors {
			out = append(out, Violation{
				WeaponID:  w.ID,
				Variant:   w.Variant,
				Attribute: attributeOf(fe),
				Message:   formatFieldError(fe),
			})
		}
	}
	return out
}

// Enforce logs every violation found by Check as a warning. In strict mode it
// then fails with an error wrapping both domain.ErrDecode and
// domain.ErrInvalidAttribute.
func (p *AttributePolicy) Enforce(ctx context.Context, violations []Violation) error {
	if len(violations) == 0 {
		return nil
	}

	log := logger.FromContext(ctx)
	for _, v := range violations {
		log.Warn(LogMsgAttributeViolation,
			"weapon_id", v.WeaponID,
			"variant", v.Variant.String(),
			"attribute", v.Attribute,
			"reason", v.Message,
			"strict", p.strict)
	}
	if !p.strict {
		return nil
	}

	msgs := make([]string, len(violations))
	for i, v := range violations {
		msgs[i] = v.String()
	}
	return fmt.Errorf("%w: %w: %s", domain.ErrDecode, domain.ErrInvalidAttribute, strings.Join(msgs, "; "))
}

// attributeOf derives the attribute name from a namespace like Weapon.DamageRange.Max
func attributeOf(fe validator.FieldError) string {
	parts := strings.Split(fe.StructNamespace(), ".")
	if len(parts) >= 2 {
		if name, ok := attributeNames[parts[1]]; ok {
			return name
		}
	}
	return strings.ToLower(fe.Field())
}

func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gtefield":
		return fmt.Sprintf("%s %v is below %s", strings.ToLower(fe.Field()), fe.Value(), strings.ToLower(fe.Param()))
	case "lte":
		return fmt.Sprintf("%v exceeds %s", fe.Value(), fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
