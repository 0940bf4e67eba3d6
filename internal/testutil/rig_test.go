package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/saurabhsharan/wwdc-2006-core-animation/internal/anim"
	"github.com/saurabhsharan/wwdc-2006-core-animation/internal/layer"
)

func TestFixedSessionGenerator_ReturnsSameID(t *testing.T) {
	gen := NewFixedSessionGenerator("session-123")

	assert.Equal(t, "session-123", gen.Generate())
	assert.Equal(t, "session-123", gen.Generate())
}

func TestFixedSessionGenerator_EmptyIDDefault(t *testing.T) {
	assert.Equal(t, "test-session", NewFixedSessionGenerator("").Generate())
}

func TestNewRig_Defaults(t *testing.T) {
	r := NewRig(layer.Size{W: 300, H: 500})

	assert.Equal(t, layer.Size{W: 300, H: 500}, r.Viewport)
	assert.Equal(t, 0, r.Tree.Len())
	assert.Equal(t, 8, r.Albums.Len())
	assert.Equal(t, [4]uint32{DefaultSeed, DefaultSeed, DefaultSeed, DefaultSeed}, r.Random.State())
	assert.Equal(t, 0, r.Sched.Pending())
}

func TestNewRig_Options(t *testing.T) {
	r := NewRig(layer.Size{W: 300, H: 500},
		WithSeed(9),
		WithAlbums([]string{"a.jpg", "b.jpg"}),
		WithCommitLog(),
	)

	assert.Equal(t, [4]uint32{9, 9, 9, 9}, r.Random.State())
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, r.Albums.Names())

	r.Sched.Commit(anim.Transaction{Silent: true})
	assert.Len(t, r.Sched.Commits(), 1)
}
