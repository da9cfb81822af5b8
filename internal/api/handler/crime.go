package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/wayguard/wayguard/internal/api/models"
	"github.com/wayguard/wayguard/internal/api/response"
	"github.com/wayguard/wayguard/internal/crime"
	"github.com/wayguard/wayguard/internal/geo"
)

// CrimeHandler handles crime dataset endpoints.
type CrimeHandler struct {
	crimeService *crime.Service
}

// NewCrimeHandler creates a new CrimeHandler.
func NewCrimeHandler(crimeService *crime.Service) *CrimeHandler {
	return &CrimeHandler{crimeService: crimeService}
}

// GetCrimeData handles GET /v1/crime-data?year=YYYY - the dataset for a year.
// Defaults to the current year.
func (h *CrimeHandler) GetCrimeData(w http.ResponseWriter, r *http.Request) {
	year := time.Now().Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(w, r, "year must be an integer", []models.FieldError{
				{Field: "year", Message: "must be an integer"},
			})
			return
		}
		year = parsed
	}

	points, err := h.crimeService.PointsForYear(r.Context(), year)
	if err != nil {
		if errors.Is(err, crime.ErrInvalidYear) {
			response.BadRequest(w, r, "year out of range", nil)
			return
		}
		response.InternalError(w, r, "internal server error")
		return
	}

	out := models.CrimeDataResponse{
		Year:   year,
		Count:  len(points),
		Points: make([]models.CrimePointModel, 0, len(points)),
	}
	for _, p := range points {
		out.Points = append(out.Points, models.CrimePointModel{
			ID:          p.ID,
			Position:    models.Point{Lat: p.Coordinate.Lat, Lon: p.Coordinate.Lon},
			Intensity:   p.Intensity,
			Category:    string(p.Category),
			Description: p.Description,
			OccurredAt:  models.Timestamp(p.OccurredAt),
		})
	}

	w.Header().Set("Cache-Control", "private, max-age=300")
	response.JSON(w, r, http.StatusOK, out)
}

// SubmitReport handles POST /v1/crime-reports - submit a user complaint.
func (h *CrimeHandler) SubmitReport(w http.ResponseWriter, r *http.Request) {
	username := GetUsername(r.Context())
	if username == "" {
		response.Unauthorized(w, r, "user not authenticated")
		return
	}

	var input models.CrimeReportRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	report, err := h.crimeService.SubmitReport(r.Context(), &crime.Report{
		Username:    username,
		Coordinate:  geo.Coordinate{Lat: input.Position.Lat, Lon: input.Position.Lon},
		Description: input.Description,
		Category:    crime.Category(input.Category),
	})
	if err != nil {
		if errors.Is(err, crime.ErrInvalidReport) {
			response.BadRequest(w, r, "invalid crime report", nil)
			return
		}
		response.InternalError(w, r, "internal server error")
		return
	}

	response.Created(w, r, "", crimeReportModel(report))
}

// ListReports handles GET /v1/me/crime-reports - the user's reports.
func (h *CrimeHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	username := GetUsername(r.Context())
	if username == "" {
		response.Unauthorized(w, r, "user not authenticated")
		return
	}

	reports, err := h.crimeService.ReportsByUser(r.Context(), username)
	if err != nil {
		response.InternalError(w, r, "internal server error")
		return
	}

	out := models.CrimeReportsResponse{Reports: make([]models.CrimeReportModel, 0, len(reports))}
	for _, report := range reports {
		out.Reports = append(out.Reports, crimeReportModel(report))
	}

	response.JSON(w, r, http.StatusOK, out)
}

// crimeReportModel maps a domain report to its API representation.
func crimeReportModel(report *crime.Report) models.CrimeReportModel {
	return models.CrimeReportModel{
		ID:          report.ID,
		Username:    report.Username,
		Position:    models.Point{Lat: report.Coordinate.Lat, Lon: report.Coordinate.Lon},
		Description: report.Description,
		Category:    string(report.Category),
		CreatedAt:   models.Timestamp(report.CreatedAt),
	}
}
