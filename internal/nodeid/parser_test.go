package nodeid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		expectErr bool
		expected  Address
	}{
		{name: "empty is root", raw: "", expected: Address{}},
		{name: "simple path", raw: "a.b.c", expected: New("a", "b", "c")},
		{name: "underscores and digits", raw: "sub_1.in_to_out", expected: New("sub_1", "in_to_out")},
		{name: "error - empty path segment", raw: "a..b", expectErr: true},
		{name: "error - trailing dot", raw: "a.", expectErr: true},
		{name: "error - leading digit", raw: "a.1b", expectErr: true},
		{name: "error - hyphen", raw: "a.b-c", expectErr: true},
		{name: "error - just dot", raw: ".", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			addr, err := Parse(tc.raw)

			if tc.expectErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.True(t, tc.expected.Equal(addr), "parsed address %q does not match", addr.String())
		})
	}
}

func TestMustParse_Panics(t *testing.T) {
	assert.Panics(t, func() { MustParse("a..b") })
}
