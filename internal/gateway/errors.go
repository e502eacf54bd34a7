package gateway

import (
	"fmt"

	"main/internal/models"
)

// GatewayError is the tagged failure result of the forwarding engine.
// It carries everything needed to render the uniform error envelope;
// translation to the transport response happens at the boundary only.
type GatewayError struct {
	Code              string
	Message           string
	Status            int
	Path              string
	ServiceURL        string
	AvailableServices []string
	Details           any
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Envelope renders the error as the uniform JSON envelope, stamped
// with the current time.
func (e *GatewayError) Envelope() models.ErrorEnvelope {
	env := models.NewErrorEnvelope(e.Code, e.Message)
	env.Path = e.Path
	env.ServiceURL = e.ServiceURL
	env.AvailableServices = e.AvailableServices
	env.Details = e.Details
	return env
}
