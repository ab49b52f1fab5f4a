package debversion

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFake_GreaterThan(t *testing.T) {
	t.Parallel()

	fake := Fake{}

	cases := []struct {
		a, b    string
		greater bool
	}{
		{"1.0-2", "1.0-1", true},
		{"1.0-1", "1.0-2", false},
		{"0.9", "1.0-1", false},
		{"1.0-1", "0.9", true},
		{"1.0", "1.0", false},
	}

	for _, tc := range cases {
		got, err := fake.GreaterThan(context.Background(), tc.a, tc.b)
		require.NoError(t, err)
		assert.Equalf(t, tc.greater, got, "%s > %s", tc.a, tc.b)
	}
}

func TestMax(t *testing.T) {
	t.Parallel()

	greatest, err := Max(context.Background(), Fake{}, []string{"1.0-1", "1.0-2", "0.9"})
	require.NoError(t, err)
	assert.Equal(t, "1.0-2", greatest)
}

func TestMax_SingleElement(t *testing.T) {
	t.Parallel()

	greatest, err := Max(context.Background(), Fake{}, []string{"1.0-1"})
	require.NoError(t, err)
	assert.Equal(t, "1.0-1", greatest)
}
