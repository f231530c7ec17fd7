package usersink

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-admin-shell/pkg/activity"
	"github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	records []types.ActivityRecord
	err     error
}

func (s *recordingSink) Log(_ context.Context, record types.ActivityRecord) error {
	s.records = append(s.records, record)
	return s.err
}

func TestHookNotifyMapsOrderEvent(t *testing.T) {
	sink := &recordingSink{}
	hook := Hook{Sink: sink}

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	actorID := uuid.New()
	tenantID := uuid.New()

	err := hook.Notify(context.Background(), activity.Event{
		Verb:           "admin.order.add",
		ActorID:        actorID.String(),
		TenantID:       tenantID.String(),
		ObjectType:     "order",
		ObjectID:       "#CM9836",
		Channel:        "admin",
		DefinitionCode: "orders:add",
		Recipients:     []string{"ops@example.com"},
		Metadata:       map[string]any{"project": "CRM Admin pages"},
		OccurredAt:     now,
	})
	require.NoError(t, err)
	require.Len(t, sink.records, 1)

	record := sink.records[0]
	assert.Equal(t, actorID, record.ActorID)
	assert.Equal(t, tenantID, record.TenantID)
	assert.Equal(t, uuid.Nil, record.UserID)
	assert.Equal(t, "admin.order.add", record.Verb)
	assert.Equal(t, "order", record.ObjectType)
	assert.Equal(t, "#CM9836", record.ObjectID)
	assert.Equal(t, "admin", record.Channel)
	assert.Equal(t, now, record.OccurredAt)
	assert.Equal(t, "orders:add", record.Data["definition_code"])
	assert.Equal(t, "CRM Admin pages", record.Data["project"])
	assert.Equal(t, []string{"ops@example.com"}, record.Data["recipients"])
}

func TestHookNotifyMapsNonUUIDActorToNil(t *testing.T) {
	sink := &recordingSink{}
	hook := Hook{Sink: sink}

	require.NoError(t, hook.Notify(context.Background(), activity.Event{
		Verb:       "admin.order.add",
		ActorID:    "terminal",
		ObjectType: "order",
	}))
	require.Len(t, sink.records, 1)
	assert.Equal(t, uuid.Nil, sink.records[0].ActorID)
	assert.False(t, sink.records[0].OccurredAt.IsZero())
}

func TestHookNotifySkipsMissingVerb(t *testing.T) {
	sink := &recordingSink{}
	hook := Hook{Sink: sink}

	_ = hook.Notify(context.Background(), activity.Event{})

	if len(sink.records) != 0 {
		t.Fatalf("expected no records for empty event, got %d", len(sink.records))
	}
}

func TestHookNotifyPropagatesSinkError(t *testing.T) {
	boom := errors.New("sink down")
	hook := Hook{Sink: &recordingSink{err: boom}}
	err := hook.Notify(context.Background(), activity.Event{Verb: "admin.order.add", ObjectType: "order"})
	assert.ErrorIs(t, err, boom)
}

func TestHookWithoutSinkFails(t *testing.T) {
	err := Hook{}.Notify(context.Background(), activity.Event{Verb: "x", ObjectType: "order"})
	assert.Error(t, err)
}
