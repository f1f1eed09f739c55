package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/chainsim/internal/dynamo"
)

// CommandBuffer records structural changes and applies them in one batch.
// Nothing recorded is visible until Playback.
type CommandBuffer struct {
	ops []func(w *World)
}

func NewCommandBuffer() *CommandBuffer {
	return &CommandBuffer{ops: make([]func(w *World), 0, 16)}
}

// Len reports the number of pending operations.
func (cb *CommandBuffer) Len() int { return len(cb.ops) }

// AddComponent records attaching v to e in s.
func AddComponent[T any](cb *CommandBuffer, s *Store[T], e dynamo.Entity, v T) {
	cb.ops = append(cb.ops, func(*World) { s.Set(e, v) })
}

// RemoveComponent records removing e's component from s.
func RemoveComponent[T any](cb *CommandBuffer, s *Store[T], e dynamo.Entity) {
	cb.ops = append(cb.ops, func(*World) { s.Remove(e) })
}

func (cb *CommandBuffer) SetLocalPosition(e dynamo.Entity, p mgl32.Vec3) {
	cb.ops = append(cb.ops, func(w *World) { w.SetLocalPosition(e, p) })
}

func (cb *CommandBuffer) Detach(e dynamo.Entity) {
	cb.ops = append(cb.ops, func(w *World) { w.Detach(e) })
}

// Playback applies every recorded operation in order while holding the
// world's frame lock, then empties the buffer.
func (cb *CommandBuffer) Playback(w *World) {
	w.LockFrame()
	defer w.UnlockFrame()

	for _, op := range cb.ops {
		op(w)
	}
	cb.ops = cb.ops[:0]
}
