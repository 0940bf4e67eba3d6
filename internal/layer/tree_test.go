package layer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTree_NewTreeHasOnlyRoot(t *testing.T) {
	tree := NewTree(Size{W: 800, H: 500})

	assert.Equal(t, 0, tree.Len())
	root, ok := tree.Get(tree.Root())
	require.True(t, ok)
	assert.Equal(t, Size{W: 800, H: 500}, root.Frame.Size)
	assert.True(t, root.Transform.IsIdentity())
	assert.True(t, root.SublayerTransform.IsIdentity())
}

func TestTree_SequentialIDs(t *testing.T) {
	tree := NewTree(Size{W: 10, H: 10})
	a := tree.NewLayer(Props{Content: "a"})
	b := tree.NewLayer(Props{Content: "b"})

	assert.Equal(t, tree.Root()+1, a)
	assert.Equal(t, a+1, b)
}

func TestTree_AddSublayerReparents(t *testing.T) {
	tree := NewTree(Size{W: 10, H: 10})
	wrapper := tree.NewLayer(Props{})
	tile := tree.NewLayer(Props{Content: "a.jpg"})

	tree.AddSublayer(tree.Root(), wrapper)
	tree.AddSublayer(wrapper, tile)
	assert.Equal(t, []ID{tile}, tree.Children(wrapper))

	tree.AddSublayer(tree.Root(), tile)
	assert.Empty(t, tree.Children(wrapper))
	assert.Equal(t, []ID{wrapper, tile}, tree.Children(tree.Root()))

	l, ok := tree.Get(tile)
	require.True(t, ok)
	assert.Equal(t, tree.Root(), l.Parent)
}

func TestTree_RemoveDestroysSubtree(t *testing.T) {
	tree := NewTree(Size{W: 10, H: 10})
	wrapper := tree.NewLayer(Props{})
	front := tree.NewLayer(Props{Content: "a.jpg"})
	back := tree.NewLayer(Props{Content: "b.jpg"})
	tree.AddSublayer(tree.Root(), wrapper)
	tree.AddSublayer(wrapper, front)
	tree.AddSublayer(wrapper, back)
	require.Equal(t, 3, tree.Len())
	require.Equal(t, 2, tree.CountContent())

	tree.Remove(front)
	assert.Equal(t, []ID{back}, tree.Children(wrapper))
	assert.Equal(t, 2, tree.Len())

	tree.Remove(wrapper)
	assert.Equal(t, 0, tree.Len())
	assert.Empty(t, tree.Children(tree.Root()))

	_, ok := tree.Get(back)
	assert.False(t, ok)

	assert.NotPanics(t, func() { tree.Remove(back) }, "removing a destroyed layer is a no-op")
	assert.Panics(t, func() { tree.Remove(tree.Root()) })
}

func TestTree_Setters(t *testing.T) {
	tree := NewTree(Size{W: 10, H: 10})
	id := tree.NewLayer(Props{Content: "a.jpg", Frame: Rect{Origin: Point{X: 3, Y: 4}}})
	tree.AddSublayer(tree.Root(), id)

	tree.SetTransform(id, Translation(0, 0, 42))
	tree.SetSublayerTransform(id, Perspective(2000))
	tree.SetDoubleSided(id, true)
	tree.SetAnchor(id, Point{X: 0.5, Y: 0.5})
	tree.SetPosition(id, Point{X: 5, Y: 5})

	l, ok := tree.Get(id)
	require.True(t, ok)
	assert.Equal(t, 42.0, l.Transform.TranslationZ())
	assert.Equal(t, -1.0/2000, l.SublayerTransform.M34())
	assert.True(t, l.DoubleSided)
	assert.Equal(t, Point{X: 0.5, Y: 0.5}, l.Anchor)
	assert.Equal(t, Point{X: 5, Y: 5}, l.Position)

	assert.Panics(t, func() { tree.SetTransform(999, Identity()) })
}

func TestTree_AddSublayerToSelfPanics(t *testing.T) {
	tree := NewTree(Size{W: 10, H: 10})
	id := tree.NewLayer(Props{})
	assert.Panics(t, func() { tree.AddSublayer(id, id) })
}
