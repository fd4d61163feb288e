package sdk

import (
	"testing"

	"github.com/filecoin-project/go-address"
	"github.com/stretchr/testify/require"
)

func mustAddr(t *testing.T, id uint64) address.Address {
	a, err := address.NewIDAddress(id)
	require.NoError(t, err)
	return a
}

func TestSubnetIDParentAndActor(t *testing.T) {
	root := NewRootID(314)
	require.True(t, root.IsRoot())

	sub := NewSubnetID(root, mustAddr(t, 100))
	require.Equal(t, "/root/"+mustAddr(t, 100).String(), sub.String())

	actor, err := sub.Actor()
	require.NoError(t, err)
	require.Equal(t, mustAddr(t, 100), actor)

	parent, err := sub.Parent()
	require.NoError(t, err)
	require.Equal(t, root, parent)

	_, err = root.Parent()
	require.Error(t, err)
}

func TestCommonParentAndDown(t *testing.T) {
	root := NewRootID(314)
	a := NewSubnetID(root, mustAddr(t, 100))
	aa := NewSubnetID(a, mustAddr(t, 101))
	b := NewSubnetID(root, mustAddr(t, 200))

	require.Equal(t, root, CommonParent(aa, b))
	require.Equal(t, a, CommonParent(aa, a))

	down, err := root.Down(aa)
	require.NoError(t, err)
	require.Equal(t, a, down)

	_, err = aa.Down(root)
	require.Error(t, err)

	require.True(t, aa.IsDescendantOf(root))
	require.True(t, aa.IsDescendantOf(a))
	require.False(t, a.IsDescendantOf(aa))
	require.False(t, root.IsDescendantOf(root))
}

func TestSubnetIDRoundTrip(t *testing.T) {
	root := NewRootID(314)
	sub := NewSubnetID(root, mustAddr(t, 100))
	parsed, err := NewSubnetIDFromString(sub.String())
	require.NoError(t, err)
	require.Equal(t, sub, parsed)

	_, err = NewSubnetIDFromString("not-a-path")
	require.Error(t, err)
}
