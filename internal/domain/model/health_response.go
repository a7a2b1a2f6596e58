package model

// HealthStatusHealthy is the only status the liveness probe reports
const HealthStatusHealthy = "healthy"

// HealthResponse represents the liveness probe answer
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}
