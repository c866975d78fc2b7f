package schedule

import (
	"testing"

	"github.com/ScissorhandsMetu/scissorhands-bot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSlotsWindow(t *testing.T) {
	slots := ResolveSlots(nil, "2025-09-12")

	require.Len(t, slots, 10)
	assert.Equal(t, 8, slots[0].Hour)
	assert.Equal(t, "08:00:00", slots[0].Time)
	assert.Equal(t, 17, slots[9].Hour)
	assert.Equal(t, "17:00:00", slots[9].Time)
	for _, s := range slots {
		assert.True(t, s.Available, "no appointments means every slot is free")
	}
}

func TestResolveSlotsNoDateSelected(t *testing.T) {
	appointments := []models.Appointment{
		{AppointmentDate: "2025-09-12", SlotTime: "09:00:00"},
	}
	assert.Empty(t, ResolveSlots(appointments, ""))
}

func TestResolveSlotsExactMatchOnly(t *testing.T) {
	appointments := []models.Appointment{
		{AppointmentDate: "2025-09-12", SlotTime: "09:00:00"},
		{AppointmentDate: "2025-09-13", SlotTime: "10:00:00"}, // other day
	}

	slots := ResolveSlots(appointments, "2025-09-12")
	require.Len(t, slots, 10)
	for _, s := range slots {
		if s.Hour == 9 {
			assert.False(t, s.Available, "09:00 is booked")
		} else {
			assert.True(t, s.Available, "hour %d should stay free", s.Hour)
		}
	}
}

func TestResolveSlotsNormalizesTimestamps(t *testing.T) {
	appointments := []models.Appointment{
		{AppointmentDate: "2025-09-12T00:00:00Z", SlotTime: "2025-09-12 14:00:00+03"},
		{AppointmentDate: "2025-09-12 00:00:00", SlotTime: "08:00"},
	}

	slots := ResolveSlots(appointments, "2025-09-12")
	booked := map[int]bool{}
	for _, s := range slots {
		if !s.Available {
			booked[s.Hour] = true
		}
	}
	assert.Equal(t, map[int]bool{8: true, 14: true}, booked)
}

func TestResolveSlotsSkipsMalformedRecords(t *testing.T) {
	appointments := []models.Appointment{
		{AppointmentDate: "not-a-date", SlotTime: "09:00:00"},
		{AppointmentDate: "2025-09-12", SlotTime: "garbage"},
		{AppointmentDate: "", SlotTime: ""},
		{AppointmentDate: "2025-09-12", SlotTime: "11:00:00"},
	}

	slots := ResolveSlots(appointments, "2025-09-12")
	require.Len(t, slots, 10)
	for _, s := range slots {
		assert.Equal(t, s.Hour != 11, s.Available, "hour %d", s.Hour)
	}
}

func TestResolveSlotsIdempotent(t *testing.T) {
	appointments := []models.Appointment{
		{AppointmentDate: "2025-09-12", SlotTime: "08:00:00"},
		{AppointmentDate: "2025-09-12", SlotTime: "17:00:00"},
	}

	first := ResolveSlots(appointments, "2025-09-12")
	second := ResolveSlots(appointments, "2025-09-12")
	assert.Equal(t, first, second)
}

func TestNormalizeAppointment(t *testing.T) {
	tests := []struct {
		name     string
		appt     models.Appointment
		wantDate string
		wantHour int
		wantErr  bool
	}{
		{"plain", models.Appointment{AppointmentDate: "2025-09-12", SlotTime: "09:00:00"}, "2025-09-12", 9, false},
		{"timestamp date", models.Appointment{AppointmentDate: "2025-09-12T10:00:00Z", SlotTime: "10:00:00"}, "2025-09-12", 10, false},
		{"tz time", models.Appointment{AppointmentDate: "2025-09-12", SlotTime: "16:00:00-05:00"}, "2025-09-12", 16, false},
		{"hour minute only", models.Appointment{AppointmentDate: "2025-09-12", SlotTime: "12:00"}, "2025-09-12", 12, false},
		{"missing separators", models.Appointment{AppointmentDate: "20250912", SlotTime: "0900"}, "", 0, true},
		{"empty", models.Appointment{}, "", 0, true},
		{"hour out of range", models.Appointment{AppointmentDate: "2025-09-12", SlotTime: "99:00:00"}, "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			date, hour, err := NormalizeAppointment(tt.appt)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDate, date)
			assert.Equal(t, tt.wantHour, hour)
		})
	}
}

func TestFindSlot(t *testing.T) {
	slots := ResolveSlots(nil, "2025-09-12")

	s, ok := FindSlot(slots, "13:00:00")
	require.True(t, ok)
	assert.Equal(t, 13, s.Hour)

	_, ok = FindSlot(slots, "07:00:00")
	assert.False(t, ok)
}
