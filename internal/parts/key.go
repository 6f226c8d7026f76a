package parts

import (
	"strings"

	pkgerrors "github.com/angelmondragon/autoshop-backend/pkg/errors"
)

// KeySeparator joins part and brand names in external part references.
const KeySeparator = "|"

// Key identifies a part by its composite (part name, brand name) pair.
type Key struct {
	PartName  string
	BrandName string
}

// ParseKey splits "partName|brandName". Exactly one separator with two non-empty sides is accepted.
func ParseKey(raw string) (Key, error) {
	pieces := strings.Split(raw, KeySeparator)
	if len(pieces) != 2 {
		return Key{}, malformedKey(raw, "expected exactly one '|' separator")
	}
	key := Key{
		PartName:  strings.TrimSpace(pieces[0]),
		BrandName: strings.TrimSpace(pieces[1]),
	}
	if key.PartName == "" || key.BrandName == "" {
		return Key{}, malformedKey(raw, "part and brand names are required")
	}
	return key, nil
}

func (k Key) String() string {
	return k.PartName + KeySeparator + k.BrandName
}

func malformedKey(raw, reason string) error {
	return pkgerrors.New(pkgerrors.CodeMalformedCompositeKey, "malformed part key "+quote(raw)).
		WithDetails(map[string]any{"partKey": raw, "reason": reason})
}

func quote(value string) string {
	return "\"" + value + "\""
}
