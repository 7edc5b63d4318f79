package weapon

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/osse101/armory/internal/domain"
)

// Decode converts an entry point's return value into weapons.
// The value must be a sequence table (keys 1..n, no holes, no other keys)
// whose elements are live weapon handles, each appearing once.
// Decoding is all-or-nothing: on success every handle is consumed, on failure none is.
func Decode(lv lua.LValue) ([]domain.Weapon, error) {
	tbl, ok := lv.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("%w: %s, got %s", domain.ErrDecode, ErrMsgNotSequence, typeName(lv))
	}

	n := tbl.Len()
	var badKey lua.LValue
	count := 0
	tbl.ForEach(func(k, _ lua.LValue) {
		count++
		if badKey != nil {
			return
		}
		idx, ok := k.(lua.LNumber)
		if !ok || float64(idx) != float64(int(idx)) || int(idx) < 1 || int(idx) > n {
			badKey = k
		}
	})
	if badKey != nil {
		return nil, fmt.Errorf("%w: %s %s", domain.ErrDecode, ErrMsgSequenceKey, badKey.String())
	}
	if count != n {
		return nil, fmt.Errorf("%w: %s (length %d, %d entries)", domain.ErrDecode, ErrMsgSequenceKey, n, count)
	}

	handles := make([]*handle, 0, n)
	seen := make(map[*handle]int, n)
	for i := 1; i <= n; i++ {
		v := tbl.RawGetInt(i)
		ud, ok := v.(*lua.LUserData)
		if !ok {
			return nil, fmt.Errorf("%w: element %d: %s, got %s", domain.ErrDecode, i, ErrMsgNotWeapon, typeName(v))
		}
		h, ok := ud.Value.(*handle)
		if !ok {
			return nil, fmt.Errorf("%w: element %d: %s", domain.ErrDecode, i, ErrMsgNotWeapon)
		}
		if h.moved {
			return nil, fmt.Errorf("%w: element %d: %s", domain.ErrDecode, i, ErrMsgMoved)
		}
		if first, dup := seen[h]; dup {
			return nil, fmt.Errorf("%w: element %d: %s (already returned as element %d)", domain.ErrDecode, i, ErrMsgMoved, first)
		}
		if !h.weapon.Variant.Valid() {
			return nil, fmt.Errorf("%w: element %d: %s", domain.ErrDecode, i, ErrMsgInvalidVariant)
		}
		seen[h] = i
		handles = append(handles, h)
	}

	out := make([]domain.Weapon, len(handles))
	for i, h := range handles {
		out[i] = h.take()
	}
	return out, nil
}

func typeName(lv lua.LValue) string {
	if lv == nil {
		return lua.LTNil.String()
	}
	return lv.Type().String()
}
