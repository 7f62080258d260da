package rollcode

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeKnownCodes(t *testing.T) {
	cb := Default()

	college, branch := cb.Decode("22JN1A0501")
	require.Equal(t, "KIEW", college)
	require.Equal(t, "CSE", branch)

	college, branch = cb.Decode("22B21A0402")
	require.Equal(t, "KIET", college)
	require.Equal(t, "ECE", branch)
}

func TestDecodeIsCaseInsensitive(t *testing.T) {
	cb := Default()
	college, branch := cb.Decode("  22jn1a0501 ")
	require.Equal(t, "KIEW", college)
	require.Equal(t, "CSE", branch)
}

func TestDecodeShortRollNo(t *testing.T) {
	cb := Default()
	college, branch := cb.Decode("22JN1A0")
	require.Empty(t, college)
	require.Empty(t, branch)

	college, branch = cb.Decode("")
	require.Empty(t, college)
	require.Empty(t, branch)
}

func TestDecodeUnknownCodes(t *testing.T) {
	cb := Default()
	college, branch := cb.Decode("22ZZ1A9901")
	require.Empty(t, college)
	require.Empty(t, branch)
}

// Only the two coded segments matter; every other character is noise.
func TestDecodeIgnoresOtherCharacters(t *testing.T) {
	cb := Default()
	c1, b1 := cb.Decode("22JN1A0501")
	c2, b2 := cb.Decode("99JN9Z05XX")
	require.Equal(t, c1, c2)
	require.Equal(t, b1, b2)
}

func TestLoadEmptyPathUsesDefault(t *testing.T) {
	cb, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default().Colleges, cb.Colleges)
}
