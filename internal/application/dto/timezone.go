package dto

// SetTimezoneRequest is the DTO for configuring a TLDer's timezone.
type SetTimezoneRequest struct {
	UserID   string `json:"user_id"`
	Name     string `json:"name"`      // display name, stored on first registration
	ZoneName string `json:"zone_name"` // TZ database identifier
}
