package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaValidatorAcceptsCandidate(t *testing.T) {
	v := NewSchemaValidator()
	candidate, err := v.DecodeCandidate([]byte(`{"user":{"name":"Ada Lovelace"},"project":"Engine","address":"London","status":"Pending"}`))
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", candidate.User.Name)
	assert.Equal(t, OrderPending, candidate.Status)
}

func TestSchemaValidatorRejectsCandidate(t *testing.T) {
	v := NewSchemaValidator()
	for name, body := range map[string]string{
		"missing project": `{"user":{"name":"Ada"},"address":"London","status":"Pending"}`,
		"unknown status":  `{"user":{"name":"Ada"},"project":"x","address":"London","status":"Shipped"}`,
		"extra field":     `{"user":{"name":"Ada"},"project":"x","address":"London","status":"Pending","price":3}`,
		"not json":        `{"user":`,
	} {
		_, err := v.DecodeCandidate([]byte(body))
		assert.ErrorIs(t, err, ErrInvalidPayload, name)
	}

	_, err := v.DecodeCandidate([]byte(`{"user":{"name":" "},"project":"x","address":"London","status":"Pending"}`))
	assert.ErrorIs(t, err, ErrInvalidOrder, "blank names pass the schema but fail the struct rules")
}

func TestSchemaValidatorTableAction(t *testing.T) {
	v := NewSchemaValidator()
	action, err := v.DecodeTableAction([]byte(`{"op":"toggle_sort","column":"userName","multi":true}`))
	require.NoError(t, err)
	assert.Equal(t, TableAction{Op: TableToggleSort, Column: "userName", Multi: true}, action)

	_, err = v.DecodeTableAction([]byte(`{"op":"toggle_sort"}`))
	assert.ErrorIs(t, err, ErrInvalidPayload)
	_, err = v.DecodeTableAction([]byte(`{"op":"set_page_size","page_size":0}`))
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestSchemaValidatorLayoutAction(t *testing.T) {
	v := NewSchemaValidator()
	action, err := v.DecodeLayoutAction([]byte(`{"op":"viewport","width":500}`))
	require.NoError(t, err)
	assert.Equal(t, 500, action.Width)

	_, err = v.DecodeLayoutAction([]byte(`{"op":"viewport"}`))
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestSchemaValidatorCachesCompiledSchemas(t *testing.T) {
	v := NewSchemaValidator()
	for range 2 {
		require.NoError(t, v.ValidatePayload(PayloadLayoutAction, []byte(`{"op":"toggle_left_panel"}`)))
	}
	assert.Len(t, v.compiled, 1)

	assert.Error(t, v.ValidatePayload("missing", []byte(`{}`)))
}
