package anim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/saurabhsharan/wwdc-2006-core-animation/internal/layer"
)

func TestAnimation_End(t *testing.T) {
	a := Animation{Delay: 300 * time.Millisecond, Duration: 2 * time.Second}
	assert.Equal(t, 2300*time.Millisecond, a.End())

	negative := Animation{Delay: -time.Second, Duration: time.Second}
	assert.Equal(t, time.Second, negative.End(), "negative delays clamp to zero")
}

func TestTransaction_Span(t *testing.T) {
	tests := []struct {
		name string
		tx   Transaction
		want time.Duration
	}{
		{"empty", Transaction{}, 0},
		{"single", Transaction{Items: []Item{
			{Layer: 1, Animation: Animation{Duration: 1350 * time.Millisecond}},
		}}, 1350 * time.Millisecond},
		{"longest item wins", Transaction{Items: []Item{
			{Layer: 1, Animation: Animation{Duration: time.Second}},
			{Layer: 2, Animation: Animation{Delay: 1200 * time.Millisecond, Duration: 1500 * time.Millisecond}},
			{Layer: 3, Animation: Animation{Delay: 400 * time.Millisecond, Duration: 1500 * time.Millisecond}},
		}}, 2700 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.tx.Span())
		})
	}
}

func TestValue_HoldsTransform(t *testing.T) {
	v := Value{Transform: layer.Translation(0, 0, 5)}
	assert.Equal(t, 5.0, v.Transform.TranslationZ())
}
