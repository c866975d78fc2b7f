package models

// Barber is a service provider record owned by the ScissorHands API.
// The bot never mutates it; appointments are read only to derive slot
// availability.
type Barber struct {
	ID           int           `json:"id"`
	Name         string        `json:"name"`
	District     string        `json:"district"`
	Description  string        `json:"description"`
	Image        string        `json:"image"`
	Appointments []Appointment `json:"appointments"`
}

// Appointment is an existing booking against a barber. Date and time come
// back from the API as strings in varying shapes (plain ISO date, full
// timestamp with timezone), so they stay raw here and are normalized by the
// schedule package.
type Appointment struct {
	ID              int    `json:"id,omitempty"`
	AppointmentDate string `json:"appointment_date"`
	SlotTime        string `json:"slot_time"`
}

// District is a geographic filter category for the barber list.
type District struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Service is one bookable service type, loaded from configs/services.yaml.
type Service struct {
	ID   int    `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
}
