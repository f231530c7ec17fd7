package activity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHooksNotifyNormalizesAndSkipsInvalid(t *testing.T) {
	var called int
	hooks := Hooks{
		HookFunc(func(ctx context.Context, evt Event) error {
			called++
			if evt.Verb != "admin.order.add" {
				t.Fatalf("unexpected verb %q", evt.Verb)
			}
			if evt.ObjectType != "order" || evt.ObjectID != "#CM9801" {
				t.Fatalf("unexpected object %s %s", evt.ObjectType, evt.ObjectID)
			}
			return nil
		}),
	}

	_ = hooks.Notify(context.Background(), Event{})
	if called != 0 {
		t.Fatalf("expected no calls for invalid event")
	}

	_ = hooks.Notify(context.Background(), Event{
		Verb:       " admin.order.add ",
		ObjectType: " order ",
		ObjectID:   " #CM9801 ",
	})
	if called != 1 {
		t.Fatalf("expected hook to be called once, got %d", called)
	}
}

func TestHooksNotifyJoinsErrors(t *testing.T) {
	first := errors.New("first")
	second := errors.New("second")
	capture := &CaptureHook{}
	hooks := Hooks{
		HookFunc(func(context.Context, Event) error { return first }),
		nil,
		capture,
		HookFunc(func(context.Context, Event) error { return second }),
	}

	err := hooks.Notify(context.Background(), Event{Verb: "admin.layout.toggle", ObjectType: "layout"})
	require.Error(t, err)
	assert.ErrorIs(t, err, first)
	assert.ErrorIs(t, err, second)
	assert.Len(t, capture.Events, 1)
}

func TestNormalizeEventClones(t *testing.T) {
	meta := map[string]any{"k": "v"}
	recipients := []string{"a@example.com"}
	now := time.Now()

	evt := Event{
		Verb:       "verb",
		ObjectType: "obj",
		ObjectID:   "id",
		Metadata:   meta,
		Recipients: recipients,
		OccurredAt: now,
	}
	n := NormalizeEvent(evt)

	n.Metadata["k"] = "changed"
	assert.Equal(t, "v", evt.Metadata["k"])

	n.Recipients[0] = "b@example.com"
	assert.Equal(t, "a@example.com", recipients[0])
	assert.True(t, n.OccurredAt.Equal(now))
}

func TestNormalizeEventStampsTime(t *testing.T) {
	n := NormalizeEvent(Event{Verb: "v", ObjectType: "o"})
	assert.False(t, n.OccurredAt.IsZero())
	assert.NotNil(t, n.Metadata)
}
