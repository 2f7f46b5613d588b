package device

import "time"

// createdAtLayout is the wire format for creation timestamps: RFC 3339 at
// second precision with a numeric zone offset ("Z" for UTC).
const createdAtLayout = "2006-01-02T15:04:05Z07:00"

// Device is a stored catalogue entry.
//
// ID and CreatedAt are assigned by the store on first save and never change
// afterwards. The (Name, Brand) pair is unique across the catalogue.
type Device struct {
	ID        int64
	Name      string
	Brand     string
	State     State
	CreatedAt time.Time
}

// CreateDeviceRequest is the wire payload for creating a device and for a
// full replace. State is optional; when absent the device defaults to
// inactive.
type CreateDeviceRequest struct {
	Name  string  `json:"name"`
	Brand string  `json:"brand"`
	State *string `json:"state"`
}

// PartialUpdateDeviceRequest is the wire payload for a partial update.
// Every field is optional; an absent field leaves the stored value
// untouched.
type PartialUpdateDeviceRequest struct {
	Name  *string `json:"name"`
	Brand *string `json:"brand"`
	State *string `json:"state"`
}

// DeviceResponse is the wire representation of a stored device.
type DeviceResponse struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Brand     string  `json:"brand"`
	State     string  `json:"state"`
	CreatedAt *string `json:"createdAt"`
}

// NewDeviceResponse maps a stored device to its wire representation.
// The creation timestamp is rendered in UTC; a zero timestamp renders as
// JSON null.
func NewDeviceResponse(d *Device) DeviceResponse {
	resp := DeviceResponse{
		ID:    d.ID,
		Name:  d.Name,
		Brand: d.Brand,
		State: d.State.String(),
	}
	if !d.CreatedAt.IsZero() {
		created := d.CreatedAt.UTC().Format(createdAtLayout)
		resp.CreatedAt = &created
	}
	return resp
}

// NewDeviceResponses maps a slice of stored devices, always returning a
// non-nil slice so an empty catalogue serialises as an empty JSON array.
func NewDeviceResponses(devices []Device) []DeviceResponse {
	responses := make([]DeviceResponse, 0, len(devices))
	for i := range devices {
		responses = append(responses, NewDeviceResponse(&devices[i]))
	}
	return responses
}
