package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wayguard/wayguard/internal/api/models"
	"github.com/wayguard/wayguard/internal/api/response"
	"github.com/wayguard/wayguard/internal/geo"
	"github.com/wayguard/wayguard/internal/sos"
	"github.com/wayguard/wayguard/internal/user"
)

// SOSHandler handles emergency endpoints.
type SOSHandler struct {
	sosService  *sos.Service
	userService *user.Service
}

// NewSOSHandler creates a new SOSHandler.
func NewSOSHandler(sosService *sos.Service, userService *user.Service) *SOSHandler {
	return &SOSHandler{
		sosService:  sosService,
		userService: userService,
	}
}

// Trigger handles POST /v1/sos - trigger an SOS and get notification links.
func (h *SOSHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	username := GetUsername(r.Context())
	if userID == "" || username == "" {
		response.Unauthorized(w, r, "user not authenticated")
		return
	}

	var input models.TriggerSOSRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	contacts := make([]sos.Contact, 0, len(input.Contacts))
	for _, c := range input.Contacts {
		contacts = append(contacts, sos.Contact{Name: c.Name, Phone: c.Phone})
	}

	// Fall back to the stored emergency contacts when none were sent inline.
	if len(contacts) == 0 {
		profile, err := h.userService.GetProfile(r.Context(), userID)
		if err != nil {
			if errors.Is(err, user.ErrUserNotFound) {
				response.BadRequest(w, r, "no emergency contacts configured", nil)
				return
			}
			response.InternalError(w, r, "sos trigger failed")
			return
		}
		for _, c := range profile.EmergencyContacts {
			contacts = append(contacts, sos.Contact{Name: c.Name, Phone: c.Phone})
		}
	}

	event := &sos.Event{
		Username:   username,
		Coordinate: geo.Coordinate{Lat: input.Position.Lat, Lon: input.Position.Lon},
		Address:    input.Address,
		Contacts:   contacts,
	}

	stored, links, err := h.sosService.Trigger(r.Context(), event)
	if err != nil {
		switch {
		case errors.Is(err, sos.ErrNoContacts):
			response.BadRequest(w, r, "no emergency contacts configured", nil)
		case errors.Is(err, sos.ErrInvalidEvent):
			response.BadRequest(w, r, "invalid sos event", nil)
		default:
			response.InternalError(w, r, "sos trigger failed")
		}
		return
	}

	out := models.TriggerSOSResponse{Event: sosEventModel(stored)}
	for _, link := range links {
		out.Links = append(out.Links, models.NotificationLinkModel{
			ContactName: link.ContactName,
			Phone:       link.Phone,
			URL:         link.URL,
		})
	}

	response.Created(w, r, "/v1/me/sos/"+stored.ID, out)
}

// ListEvents handles GET /v1/me/sos - the user's SOS history, newest first.
func (h *SOSHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	username := GetUsername(r.Context())
	if username == "" {
		response.Unauthorized(w, r, "user not authenticated")
		return
	}

	events, err := h.sosService.EventsByUser(r.Context(), username)
	if err != nil {
		response.InternalError(w, r, "internal server error")
		return
	}

	out := models.SOSEventsResponse{Events: make([]models.SOSEventModel, 0, len(events))}
	for _, event := range events {
		out.Events = append(out.Events, sosEventModel(event))
	}

	response.JSON(w, r, http.StatusOK, out)
}

// sosEventModel maps a domain event to its API representation.
func sosEventModel(e *sos.Event) models.SOSEventModel {
	model := models.SOSEventModel{
		ID:        e.ID,
		Username:  e.Username,
		Position:  models.Point{Lat: e.Coordinate.Lat, Lon: e.Coordinate.Lon},
		Address:   e.Address,
		Status:    string(e.Status),
		CreatedAt: models.Timestamp(e.CreatedAt),
	}
	if e.DispatchedAt != nil {
		ts := models.Timestamp(*e.DispatchedAt)
		model.DispatchedAt = &ts
	}
	return model
}
