package health

import (
	"weather-api/internal/domain/model"
)

// healthUseCase reports liveness only, it never touches the upstream provider
type healthUseCase struct {
	service string
	version string
}

func NewHealthUseCase(service string, version string) UseCase {
	return &healthUseCase{
		service: service,
		version: version,
	}
}

func (useCase *healthUseCase) CheckHealth() model.HealthResponse {
	return model.HealthResponse{
		Status:  model.HealthStatusHealthy,
		Service: useCase.service,
		Version: useCase.version,
	}
}
