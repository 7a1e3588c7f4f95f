package lg

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromContext(t *testing.T) {
	assert.Equal(t, Discard, FromContext(context.Background()))
	assert.Equal(t, Discard, FromContext(nil))

	l := New(&Config{ServiceName: "test"})
	ctx := Attach(context.Background(), l)
	assert.Same(t, l, FromContext(ctx))
}

func TestNewFormats(t *testing.T) {
	for _, format := range []string{"json", "console", "", "XML"} {
		l := New(&Config{ServiceName: "test", Format: format})
		_, ok := l.(*zapLogger)
		assert.True(t, ok, format)
	}
	debug := New(&Config{ServiceName: "test", Debug: true})
	assert.NotNil(t, debug.With(String("k", "v")))
}

func TestFlatten(t *testing.T) {
	assert.Equal(t, "", flatten())

	got := flatten(String("command", "true"), Int("attempt", 2), Err(errors.New("boom")))
	assert.Contains(t, got, `"command": "true"`)
	assert.Contains(t, got, `"attempt": 2`)
	assert.Contains(t, got, `"error": "boom"`)
}

func TestDiscard(t *testing.T) {
	l := Discard.With(Bool("x", true))
	l.Info("ignored")
	l.Error("ignored")
	assert.NoError(t, l.Sync())
}
