package models

import "time"

// Error codes shared by the gateway and its middleware. Every failure
// surfaced to a caller uses one of these.
const (
	CodeServiceNotFound    = "SERVICE_NOT_FOUND"
	CodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	CodeResourceNotFound   = "RESOURCE_NOT_FOUND"
	CodeValidationError    = "VALIDATION_ERROR"
	CodeServiceError       = "SERVICE_ERROR"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	CodeGatewayTimeout     = "GATEWAY_TIMEOUT"
	CodeRequestFailed      = "REQUEST_FAILED"
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
)

// ErrorEnvelope is the uniform JSON body returned on any failure.
// The base fields are always present; the rest are kind-specific.
type ErrorEnvelope struct {
	Error             string    `json:"error"`
	Message           string    `json:"message"`
	Timestamp         time.Time `json:"timestamp"`
	Path              string    `json:"path,omitempty"`
	ServiceURL        string    `json:"service_url,omitempty"`
	AvailableServices []string  `json:"available_services,omitempty"`
	Details           any       `json:"details,omitempty"`
	RequestID         string    `json:"request_id,omitempty"`
}

// NewErrorEnvelope stamps the envelope with the current time.
func NewErrorEnvelope(code, message string) ErrorEnvelope {
	return ErrorEnvelope{
		Error:     code,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"` // seconds
}

type Student struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Age    int    `json:"age"`
	Email  string `json:"email"`
	Course string `json:"course"`
}

type StudentCreate struct {
	Name   string `json:"name"`
	Age    int    `json:"age"`
	Email  string `json:"email"`
	Course string `json:"course"`
}

// StudentUpdate uses pointer fields so that fields absent from the
// request body stay nil and are omitted when re-marshalled, giving
// partial-update semantics.
type StudentUpdate struct {
	Name   *string `json:"name,omitempty"`
	Age    *int    `json:"age,omitempty"`
	Email  *string `json:"email,omitempty"`
	Course *string `json:"course,omitempty"`
}

type Course struct {
	ID            int    `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	DurationWeeks int    `json:"duration_weeks"`
	Instructor    string `json:"instructor"`
	MaxStudents   int    `json:"max_students"`
}

type CourseCreate struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	DurationWeeks int    `json:"duration_weeks"`
	Instructor    string `json:"instructor"`
	MaxStudents   int    `json:"max_students"`
}

type CourseUpdate struct {
	Title         *string `json:"title,omitempty"`
	Description   *string `json:"description,omitempty"`
	DurationWeeks *int    `json:"duration_weeks,omitempty"`
	Instructor    *string `json:"instructor,omitempty"`
	MaxStudents   *int    `json:"max_students,omitempty"`
}

type DeleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type HealthCheckResponse struct {
	Status    string    `json:"status"`
	Service   string    `json:"service"`
	Timestamp time.Time `json:"timestamp"`
}

type GatewayInfo struct {
	Message           string   `json:"message"`
	AvailableServices []string `json:"available_services"`
	Version           string   `json:"version"`
}
