package models

// CrimePointModel is one incident in the crime dataset.
type CrimePointModel struct {
	ID          string    `json:"id"`
	Position    Point     `json:"position"`
	Intensity   float64   `json:"intensity"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	OccurredAt  Timestamp `json:"occurredAt"`
}

// CrimeDataResponse is the dataset for one year.
type CrimeDataResponse struct {
	Year   int               `json:"year"`
	Count  int               `json:"count"`
	Points []CrimePointModel `json:"points"`
}

// CrimeReportRequest is the request body for submitting a crime report.
type CrimeReportRequest struct {
	Position    Point  `json:"position"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// CrimeReportModel is a stored user report.
type CrimeReportModel struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Position    Point     `json:"position"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	CreatedAt   Timestamp `json:"createdAt"`
}

// CrimeReportsResponse lists a user's reports, newest first.
type CrimeReportsResponse struct {
	Reports []CrimeReportModel `json:"reports"`
}
