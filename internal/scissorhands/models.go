package scissorhands

// appointmentRequest is the wire body of POST /appointments.
type appointmentRequest struct {
	BarberID        int    `json:"barber_id"`
	CustomerName    string `json:"customer_name"`
	CustomerEmail   string `json:"customer_email"`
	CustomerPhone   string `json:"customer_phone"`
	AppointmentDate string `json:"appointment_date"`
	SlotTime        string `json:"slot_time"`
	Service         string `json:"service"`
}

// cancelRequest is the wire body of DELETE /appointments/cancel.
type cancelRequest struct {
	AppointmentID int `json:"appointment_id"`
}

// apiMessage is the error envelope returned on non-2xx responses, and the
// best-effort success envelope of POST /appointments.
type apiMessage struct {
	Message       string `json:"message"`
	AppointmentID int    `json:"appointment_id"`
	ID            int    `json:"id"`
}
