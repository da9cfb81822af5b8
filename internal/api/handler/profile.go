package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wayguard/wayguard/internal/api/models"
	"github.com/wayguard/wayguard/internal/api/response"
	"github.com/wayguard/wayguard/internal/user"
)

// ProfileHandler handles user profile endpoints.
type ProfileHandler struct {
	userService *user.Service
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(userService *user.Service) *ProfileHandler {
	return &ProfileHandler{userService: userService}
}

// GetProfile handles GET /v1/me/profile - get the user's profile.
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "user not authenticated")
		return
	}

	profile, err := h.userService.GetProfile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			response.NotFound(w, r, "profile not found")
			return
		}
		response.InternalError(w, r, "internal server error")
		return
	}

	response.JSON(w, r, http.StatusOK, profileModel(profile))
}

// UpdatePhone handles PUT /v1/me/profile/phone - change the user's own number.
func (h *ProfileHandler) UpdatePhone(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "user not authenticated")
		return
	}

	var input models.UpdatePhoneRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	profile, err := h.userService.UpdatePhone(r.Context(), userID, input.Phone)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			response.NotFound(w, r, "profile not found")
			return
		}
		response.InternalError(w, r, "internal server error")
		return
	}

	response.JSON(w, r, http.StatusOK, profileModel(profile))
}

// AddContact handles POST /v1/me/contacts - add an emergency contact.
func (h *ProfileHandler) AddContact(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "user not authenticated")
		return
	}

	var input models.AddContactRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}
	if input.Name == "" || input.Phone == "" {
		response.BadRequest(w, r, "name and phone are required", []models.FieldError{
			{Field: "name", Message: "required"},
			{Field: "phone", Message: "required"},
		})
		return
	}

	profile, err := h.userService.AddContact(r.Context(), userID, user.EmergencyContact{
		Name:  input.Name,
		Phone: input.Phone,
	})
	if err != nil {
		switch {
		case errors.Is(err, user.ErrUserNotFound):
			response.NotFound(w, r, "profile not found")
		case errors.Is(err, user.ErrDuplicateContact):
			response.Conflict(w, r, "a contact with this phone number already exists")
		case errors.Is(err, user.ErrTooManyContacts):
			response.BadRequest(w, r, "emergency contact limit reached", nil)
		default:
			response.InternalError(w, r, "internal server error")
		}
		return
	}

	response.JSON(w, r, http.StatusOK, profileModel(profile))
}

// RemoveContact handles DELETE /v1/me/contacts/{phone} - remove a contact.
func (h *ProfileHandler) RemoveContact(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "user not authenticated")
		return
	}

	phone := chi.URLParam(r, "phone")
	if phone == "" {
		response.BadRequest(w, r, "phone is required", nil)
		return
	}

	profile, err := h.userService.RemoveContact(r.Context(), userID, phone)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrUserNotFound):
			response.NotFound(w, r, "profile not found")
		case errors.Is(err, user.ErrContactNotFound):
			response.NotFound(w, r, "emergency contact not found")
		default:
			response.InternalError(w, r, "internal server error")
		}
		return
	}

	response.JSON(w, r, http.StatusOK, profileModel(profile))
}

// profileModel maps a domain profile to its API representation.
func profileModel(p *user.Profile) models.ProfileModel {
	contacts := make([]models.EmergencyContactModel, 0, len(p.EmergencyContacts))
	for _, c := range p.EmergencyContacts {
		contacts = append(contacts, models.EmergencyContactModel{Name: c.Name, Phone: c.Phone})
	}

	return models.ProfileModel{
		ID:                p.ID,
		Username:          p.Username,
		Phone:             p.Phone,
		EmergencyContacts: contacts,
		CreatedAt:         models.Timestamp(p.CreatedAt),
		UpdatedAt:         models.Timestamp(p.UpdatedAt),
	}
}
