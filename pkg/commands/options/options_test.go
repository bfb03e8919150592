package options

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/finder/pkg/folder"
)

func TestParsePosition(t *testing.T) {
	testCases := []struct {
		in   string
		want folder.Position
		ok   bool
	}{
		{"0,0", folder.Position{}, true},
		{"120,40", folder.Position{X: 120, Y: 40}, true},
		{" -20 , 15.5 ", folder.Position{X: -20, Y: 15.5}, true},
		{"1", folder.Position{}, false},
		{"1,2,3", folder.Position{}, false},
		{"a,b", folder.Position{}, false},
		{"NaN,1", folder.Position{}, false},
		{"1,Inf", folder.Position{}, false},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParsePosition(tc.in)
			if !tc.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseOptional(t *testing.T) {
	p, err := ParseOptional("  ")
	require.NoError(t, err)
	assert.Nil(t, p)

	p, err = ParseOptional("3,4")
	require.NoError(t, err)
	assert.Equal(t, &folder.Position{X: 3, Y: 4}, p)
}

func TestParseBool(t *testing.T) {
	for _, s := range []string{"y", "Yes", "true", "1"} {
		v, err := ParseBool(s)
		require.NoError(t, err)
		assert.True(t, v, s)
	}
	for _, s := range []string{"n", "no", "false", "0"} {
		v, err := ParseBool(s)
		require.NoError(t, err)
		assert.False(t, v, s)
	}
	_, err := ParseBool("maybe")
	assert.Error(t, err)
}
