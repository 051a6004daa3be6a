package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandlerRegistry(t *testing.T) {
	r := NewHandlerRegistry()
	a := newRecordingHandler("A", "B")
	w := newRecordingHandler()

	r.Register(a, "A", "B")
	r.Register(a, "A")
	r.Register(w)

	assert.Len(t, r.GetHandlers("A"), 2, "typed then wildcard, no duplicates")
	assert.Same(t, a, r.GetHandlers("A")[0])
	assert.Len(t, r.GetHandlers("C"), 1)
	assert.Len(t, r.GetAllHandlers(), 2)

	r.Unregister(a)
	assert.Len(t, r.GetHandlers("A"), 1)
	assert.Len(t, r.GetHandlers("B"), 1)
	assert.Len(t, r.GetAllHandlers(), 1)

	r.Unregister(w)
	assert.Empty(t, r.GetHandlers("A"))
}
