package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/wayguard/wayguard/internal/api/models"
	"github.com/wayguard/wayguard/internal/api/response"
	"github.com/wayguard/wayguard/internal/crime"
	"github.com/wayguard/wayguard/internal/geo"
	"github.com/wayguard/wayguard/internal/geocode"
	"github.com/wayguard/wayguard/internal/navigation"
	"github.com/wayguard/wayguard/internal/routing"
)

// RouteHandler handles route planning and place search endpoints.
type RouteHandler struct {
	paths        routing.PathSource
	geocoder     geocode.Geocoder
	crimeService *crime.Service
	logger       zerolog.Logger
}

// NewRouteHandler creates a new RouteHandler.
func NewRouteHandler(paths routing.PathSource, geocoder geocode.Geocoder, crimeService *crime.Service, logger zerolog.Logger) *RouteHandler {
	return &RouteHandler{
		paths:        paths,
		geocoder:     geocoder,
		crimeService: crimeService,
		logger:       logger,
	}
}

// PlanRoutes handles POST /v1/routes:plan - resolve endpoints, then let a
// navigation session fetch candidate paths and classify them into the three
// labeled options.
func (h *RouteHandler) PlanRoutes(w http.ResponseWriter, r *http.Request) {
	var input models.PlanRouteRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	origin, ok := h.resolveEndpoint(w, r, "origin", input.Origin, input.OriginQuery)
	if !ok {
		return
	}
	destination, ok := h.resolveEndpoint(w, r, "destination", input.Destination, input.DestinationQuery)
	if !ok {
		return
	}

	session := navigation.NewSession(navigation.SessionConfig{
		Paths:  h.paths,
		Logger: h.logger,
	})

	classification, err := session.RequestRoutes(r.Context(),
		geo.Coordinate{Lat: origin.Point.Lat, Lon: origin.Point.Lon},
		geo.Coordinate{Lat: destination.Point.Lat, Lon: destination.Point.Lon},
	)
	if err != nil {
		switch {
		case errors.Is(err, routing.ErrInvalidCoordinates):
			response.BadRequest(w, r, "invalid coordinates", nil)
		case errors.Is(err, routing.ErrNoRouteFound), errors.Is(err, navigation.ErrNoCandidates):
			response.NotFound(w, r, "no route found")
		case errors.Is(err, routing.ErrRateLimitExceeded):
			response.TooManyRequests(w, r, "routing provider quota exceeded")
		case errors.Is(err, routing.ErrProviderUnavailable):
			response.ServiceUnavailable(w, r, "routing provider unavailable")
		default:
			response.InternalError(w, r, "route planning failed")
		}
		return
	}

	year := time.Now().Year()
	if input.Year != nil {
		year = *input.Year
	}

	out := models.PlanRouteResponse{
		GeneratedAt: models.Timestamp(time.Now()),
		Provider:    h.paths.Name(),
		Origin:      origin,
		Destination: destination,
		SelectedID:  classification.SelectedID,
	}

	for _, opt := range classification.Options {
		model := models.RouteOptionModel{
			ID:          opt.ID,
			Label:       opt.Label,
			Rank:        string(opt.Rank),
			DistanceKm:  opt.DistanceKm,
			DurationMin: opt.DurationMin,
			Polyline:    pointsFromCoordinates(opt.Polyline),
		}

		exposure, err := h.crimeService.ExposureScore(r.Context(), opt.Polyline, year)
		if err != nil {
			// A route without a score beats no route at all.
			out.Warnings = appendWarning(out.Warnings, "EXPOSURE_UNAVAILABLE",
				"crime exposure scoring unavailable for option "+opt.ID)
		} else {
			model.Exposure = &models.ExposureModel{
				Score:                 exposure.Score,
				Category:              string(exposure.Category),
				Confidence:            string(exposure.Confidence),
				SamplesScored:         exposure.SamplesScored,
				SamplesTotal:          exposure.SamplesTotal,
				NearestIncidentMeters: exposure.NearestIncidentMeters,
			}
		}

		out.Options = append(out.Options, model)
	}

	w.Header().Set("Cache-Control", "private, max-age=60")
	response.JSON(w, r, http.StatusOK, out)
}

// SearchPlaces handles GET /v1/geocode?q=...&limit=N - free-text place search.
func (h *RouteHandler) SearchPlaces(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	limit := 1
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 20 {
			response.BadRequest(w, r, "limit must be an integer between 1 and 20", nil)
			return
		}
		limit = parsed
	}

	places, err := h.geocoder.Search(r.Context(), query, limit)
	if err != nil {
		switch {
		case errors.Is(err, geocode.ErrEmptyQuery):
			response.BadRequest(w, r, "query parameter q is required", nil)
		case errors.Is(err, geocode.ErrNoResults):
			response.NotFound(w, r, "no places matched the query")
		case errors.Is(err, geocode.ErrProviderUnavailable):
			response.ServiceUnavailable(w, r, "geocoding provider unavailable")
		default:
			response.InternalError(w, r, "place search failed")
		}
		return
	}

	out := models.GeocodeResponse{Query: query}
	for _, place := range places {
		out.Places = append(out.Places, models.PlaceModel{
			DisplayName: place.DisplayName,
			Point:       models.Point{Lat: place.Coordinate.Lat, Lon: place.Coordinate.Lon},
		})
	}

	response.JSON(w, r, http.StatusOK, out)
}

// resolveEndpoint turns a coordinate-or-query endpoint into a resolved place.
// Writes the error response and returns false when resolution fails.
func (h *RouteHandler) resolveEndpoint(w http.ResponseWriter, r *http.Request, field string, point *models.Point, query *string) (models.ResolvedPlace, bool) {
	if point != nil {
		return models.ResolvedPlace{Point: *point}, true
	}

	if query == nil || *query == "" {
		response.BadRequest(w, r, field+" is required as a coordinate or a query", []models.FieldError{
			{Field: field, Message: "provide either a coordinate or a free-text query"},
		})
		return models.ResolvedPlace{}, false
	}

	places, err := h.geocoder.Search(r.Context(), *query, 1)
	if err != nil {
		switch {
		case errors.Is(err, geocode.ErrNoResults):
			response.NotFound(w, r, "no route found: could not resolve "+field)
		case errors.Is(err, geocode.ErrProviderUnavailable):
			response.ServiceUnavailable(w, r, "geocoding provider unavailable")
		default:
			response.InternalError(w, r, "route planning failed")
		}
		return models.ResolvedPlace{}, false
	}

	return models.ResolvedPlace{
		DisplayName: places[0].DisplayName,
		Point:       models.Point{Lat: places[0].Coordinate.Lat, Lon: places[0].Coordinate.Lon},
	}, true
}

// pointsFromCoordinates maps domain coordinates to API points.
func pointsFromCoordinates(coords []geo.Coordinate) []models.Point {
	points := make([]models.Point, 0, len(coords))
	for _, c := range coords {
		points = append(points, models.Point{Lat: c.Lat, Lon: c.Lon})
	}
	return points
}

// appendWarning adds a warning to the response list.
func appendWarning(warnings []models.Warning, code, message string) []models.Warning {
	return append(warnings, models.Warning{Code: code, Message: message})
}
