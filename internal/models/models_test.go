package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

func TestUserStateGetters(t *testing.T) {
	state := &UserState{UserID: 1}
	state.Set("barber_id", 3)
	state.Set("date", "2025-09-12")

	assert.Equal(t, 3, state.GetInt("barber_id"))
	assert.Equal(t, "2025-09-12", state.GetString("date"))
	assert.Equal(t, 0, state.GetInt("missing"))
	assert.Equal(t, "", state.GetString("missing"))
}

func TestUserStateSurvivesJSONRoundTrip(t *testing.T) {
	// Redis persistence turns ints into float64; getters must cope.
	state := &UserState{UserID: 42, CurrentStep: StateSelectSlot}
	state.Set("barber_id", 7)
	state.Set("slot_time", "09:00:00")

	raw, err := json.Marshal(state)
	require.NoError(t, err)

	var got UserState
	require.NoError(t, json.Unmarshal(raw, &got))

	assert.Equal(t, 7, got.GetInt("barber_id"))
	assert.Equal(t, "09:00:00", got.GetString("slot_time"))
	assert.Equal(t, StateSelectSlot, got.CurrentStep)
}

func TestCustomerName(t *testing.T) {
	req := BookingRequest{FirstName: "John", LastName: "Doe"}
	assert.Equal(t, "John Doe", req.CustomerName())
}

func TestServiceDecodesNumericID(t *testing.T) {
	// services.yaml carries numeric ids.
	var services []Service
	raw := "- id: 1\n  name: haircut\n- id: 2\n  name: beard cut\n"
	require.NoError(t, yaml.Unmarshal([]byte(raw), &services))

	require.Len(t, services, 2)
	assert.Equal(t, 1, services[0].ID)
	assert.Equal(t, "beard cut", services[1].Name)
}
