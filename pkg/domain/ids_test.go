package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientIDRoundTrip(t *testing.T) {
	clientID := NewClientID()
	assert.False(t, clientID.IsZero())

	parsed, err := ParseClientID(clientID.String())
	require.NoError(t, err)
	assert.Equal(t, clientID, parsed)

	_, err = ParseClientID("not-a-uuid")
	assert.Error(t, err)

	assert.True(t, ClientID{}.IsZero())
}

func TestClientIDJSON(t *testing.T) {
	clientID := NewClientID()
	payload, err := json.Marshal(clientID)
	require.NoError(t, err)
	assert.JSONEq(t, `"`+clientID.String()+`"`, string(payload))

	var decoded ClientID
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, clientID, decoded)
}

func TestFormatClientNumber(t *testing.T) {
	assert.Equal(t, "CLI000001", FormatClientNumber(1))
	assert.Equal(t, "CLI000042", FormatClientNumber(42))
	assert.Equal(t, "CLI1000000", FormatClientNumber(1000000)) // width grows past a million
}
