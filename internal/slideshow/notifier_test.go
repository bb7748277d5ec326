package slideshow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotifier_FirstEmitAlwaysDelivered(t *testing.T) {
	n := NewNotifier()
	rec := &recorder{}
	n.Subscribe(rec.record)

	_, emitted := n.Last()
	assert.False(t, emitted)

	assert.True(t, n.Emit(0))
	assert.False(t, n.Emit(0))
	assert.True(t, n.Emit(3))
	assert.True(t, n.Emit(0))

	last, emitted := n.Last()
	assert.True(t, emitted)
	assert.Equal(t, 0, last)
	assert.Equal(t, []int{0, 3, 0}, rec.indexes())
}

func TestNotifier_UnsubscribeKeepsOrder(t *testing.T) {
	n := NewNotifier()
	var order []string
	n.Subscribe(func(ChangeEvent) { order = append(order, "a") })
	unsubB := n.Subscribe(func(ChangeEvent) { order = append(order, "b") })
	n.Subscribe(func(ChangeEvent) { order = append(order, "c") })

	unsubB()
	unsubB()
	n.Emit(1)
	assert.Equal(t, []string{"a", "c"}, order)
}
