package layer

import "fmt"

// Layer is a snapshot of a node in a Tree.
type Layer struct {
	ID                ID
	Parent            ID
	Children          []ID
	Content           string
	Frame             Rect
	DoubleSided       bool
	Transform         Transform
	SublayerTransform Transform
	Anchor            Point
	Position          Point
}

type node struct {
	Layer
}

// Tree is an in-memory Surface.
//
// IDs are assigned sequentially starting after the root, so a given sequence
// of calls always produces the same IDs.
//
// Thread-safety: Tree is not safe for concurrent use.
type Tree struct {
	nodes  map[ID]*node
	root   ID
	nextID ID
}

var _ Surface = (*Tree)(nil)

// NewTree creates a tree holding only a root layer of the given size.
func NewTree(size Size) *Tree {
	t := &Tree{nodes: make(map[ID]*node)}
	t.root = t.NewLayer(Props{Frame: Rect{Size: size}})
	return t
}

// Root implements Surface.
func (t *Tree) Root() ID {
	return t.root
}

// NewLayer implements Surface.
func (t *Tree) NewLayer(p Props) ID {
	t.nextID++
	id := t.nextID

	if p.Transform.IsZero() {
		p.Transform = Identity()
	}
	if p.SublayerTransform.IsZero() {
		p.SublayerTransform = Identity()
	}

	t.nodes[id] = &node{Layer: Layer{
		ID:                id,
		Content:           p.Content,
		Frame:             p.Frame,
		DoubleSided:       p.DoubleSided,
		Transform:         p.Transform,
		SublayerTransform: p.SublayerTransform,
		Position:          p.Frame.Origin,
	}}
	return id
}

// AddSublayer implements Surface.
func (t *Tree) AddSublayer(parent, child ID) {
	if parent == child {
		panic(fmt.Sprintf("layer: cannot add layer %d to itself", child))
	}
	p := t.mustGet(parent)
	c := t.mustGet(child)

	t.detach(c)
	c.Parent = parent
	p.Children = append(p.Children, child)
}

// Remove implements Surface.
func (t *Tree) Remove(id ID) {
	if id == t.root {
		panic("layer: the root layer cannot be removed")
	}
	n, ok := t.nodes[id]
	if !ok {
		return
	}
	t.detach(n)
	t.destroy(n)
}

// SetTransform implements Surface.
func (t *Tree) SetTransform(id ID, tr Transform) {
	t.mustGet(id).Transform = tr
}

// SetSublayerTransform implements Surface.
func (t *Tree) SetSublayerTransform(id ID, tr Transform) {
	t.mustGet(id).SublayerTransform = tr
}

// SetDoubleSided implements Surface.
func (t *Tree) SetDoubleSided(id ID, v bool) {
	t.mustGet(id).DoubleSided = v
}

// SetAnchor implements Surface.
func (t *Tree) SetAnchor(id ID, anchor Point) {
	t.mustGet(id).Anchor = anchor
}

// SetPosition implements Surface.
func (t *Tree) SetPosition(id ID, p Point) {
	t.mustGet(id).Position = p
}

// Get returns a snapshot of a layer.
func (t *Tree) Get(id ID) (Layer, bool) {
	n, ok := t.nodes[id]
	if !ok {
		return Layer{}, false
	}
	l := n.Layer
	l.Children = append([]ID(nil), n.Children...)
	return l, true
}

// Children returns the sublayers of id in attachment order.
func (t *Tree) Children(id ID) []ID {
	n, ok := t.nodes[id]
	if !ok {
		return nil
	}
	return append([]ID(nil), n.Children...)
}

// Len returns the number of live layers, excluding the root.
func (t *Tree) Len() int {
	return len(t.nodes) - 1
}

// CountContent returns the number of live layers displaying an album.
func (t *Tree) CountContent() int {
	count := 0
	for _, n := range t.nodes {
		if n.Content != "" {
			count++
		}
	}
	return count
}

func (t *Tree) mustGet(id ID) *node {
	n, ok := t.nodes[id]
	if !ok {
		panic(fmt.Sprintf("layer: unknown layer %d", id))
	}
	return n
}

func (t *Tree) detach(n *node) {
	if n.Parent == NoLayer {
		return
	}
	if p, ok := t.nodes[n.Parent]; ok {
		for i, c := range p.Children {
			if c == n.ID {
				p.Children = append(p.Children[:i], p.Children[i+1:]...)
				break
			}
		}
	}
	n.Parent = NoLayer
}

func (t *Tree) destroy(n *node) {
	for _, c := range n.Children {
		if child, ok := t.nodes[c]; ok {
			t.destroy(child)
		}
	}
	delete(t.nodes, n.ID)
}
