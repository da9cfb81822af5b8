package models

// TriggerSOSRequest is the request body for triggering an SOS.
// When Contacts is empty the user's stored emergency contacts are used.
type TriggerSOSRequest struct {
	Position Point          `json:"position"`
	Address  string         `json:"address,omitempty"`
	Contacts []ContactInput `json:"contacts,omitempty"`
}

// ContactInput is one emergency contact supplied inline.
type ContactInput struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// SOSEventModel is a stored SOS event.
type SOSEventModel struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	Position     Point      `json:"position"`
	Address      string     `json:"address,omitempty"`
	Status       string     `json:"status"`
	CreatedAt    Timestamp  `json:"createdAt"`
	DispatchedAt *Timestamp `json:"dispatchedAt,omitempty"`
}

// NotificationLinkModel is one per-contact notification link.
type NotificationLinkModel struct {
	ContactName string `json:"contactName"`
	Phone       string `json:"phone"`
	URL         string `json:"url"`
}

// TriggerSOSResponse is the response for a triggered SOS.
type TriggerSOSResponse struct {
	Event SOSEventModel           `json:"event"`
	Links []NotificationLinkModel `json:"links"`
}

// SOSEventsResponse lists a user's SOS events, newest first.
type SOSEventsResponse struct {
	Events []SOSEventModel `json:"events"`
}
