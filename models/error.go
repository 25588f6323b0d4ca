package models

// MessageResponse is the `{"message": ...}` envelope used by the auth and
// complaint routes
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthCheckResponse returns the health check response struct
type HealthCheckResponse struct {
	Alive bool `json:"alive"`
}
