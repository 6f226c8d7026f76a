package parts

import (
	"testing"

	"github.com/stretchr/testify/require"

	pkgerrors "github.com/angelmondragon/autoshop-backend/pkg/errors"
)

func TestParseKey(t *testing.T) {
	key, err := ParseKey("  Brake Pad | Brembo ")
	require.NoError(t, err)
	require.Equal(t, Key{PartName: "Brake Pad", BrandName: "Brembo"}, key)
	require.Equal(t, "Brake Pad|Brembo", key.String())

	for _, raw := range []string{"", "Brake Pad", "Brake Pad|", "|Brembo", " | ", "a|b|c"} {
		_, err := ParseKey(raw)
		require.True(t, pkgerrors.Is(err, pkgerrors.CodeMalformedCompositeKey), "%q: got %v", raw, err)
	}
}
