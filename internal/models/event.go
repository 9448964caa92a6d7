package models

// Event is a sales event (convention booth session). The vendor password is
// never returned by the API, so it has no field here.
type Event struct {
	ID                int64  `json:"id"`
	Name              string `json:"name"`
	Date              string `json:"date"`
	Location          string `json:"location,omitempty"`
	Status            string `json:"status"`
	PaymentQRCodePath string `json:"payment_qr_code_path,omitempty"`
}

type CreateEventRequest struct {
	Name     string `json:"name"`
	Date     string `json:"date"`
	Location string `json:"location,omitempty"`
}

type UpdateEventStatusRequest struct {
	Status string `json:"status"`
}
