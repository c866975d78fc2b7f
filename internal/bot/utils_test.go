package bot

import (
	"testing"

	"github.com/ScissorhandsMetu/scissorhands-bot/internal/config"
	"github.com/ScissorhandsMetu/scissorhands-bot/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeInput(t *testing.T) {
	b := &Bot{}

	assert.Equal(t, "John", b.sanitizeInput("  John  "))
	assert.Equal(t, "", b.sanitizeInput("   "))

	long := make([]byte, 400)
	for i := range long {
		long[i] = 'a'
	}
	assert.Len(t, b.sanitizeInput(string(long)), 256)
}

func TestIsBlacklisted(t *testing.T) {
	b := &Bot{config: &config.Config{Blacklist: []int64{13, 666}}}

	assert.True(t, b.isBlacklisted(13))
	assert.False(t, b.isBlacklisted(42))
}

func TestDraftFromState(t *testing.T) {
	state := models.NewUserState(42)
	state.Set("barber_id", 3)
	state.Set("barber_name", "Mehmet Usta")
	state.Set("first_name", "John")
	state.Set("last_name", "Doe")
	state.Set("email", "john@example.com")
	state.Set("phone", "+905551112233")
	state.Set("date", "2025-09-12")
	state.Set("slot_time", "14:00:00")
	state.Set("service", "haircut")

	draft := draftFromState(state)

	assert.Equal(t, 3, draft.BarberID)
	assert.Equal(t, "Mehmet Usta", draft.BarberName)
	assert.Equal(t, "John Doe", draft.CustomerName())
	assert.Equal(t, "14:00:00", draft.SlotTime)
}
