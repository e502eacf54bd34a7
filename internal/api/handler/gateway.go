package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"main/internal/api/middleware"
	"main/internal/gateway"
	"main/internal/models"
)

// GatewayHandler exposes the per-resource forwarding endpoints. Each
// handler builds a forward request descriptor and delegates to the
// proxy; the backend's answer is returned unchanged.
type GatewayHandler struct {
	proxy  *gateway.Proxy
	logger *zap.Logger
}

func NewGatewayHandler(proxy *gateway.Proxy, log *zap.Logger) *GatewayHandler {
	return &GatewayHandler{
		proxy:  proxy,
		logger: log,
	}
}

// List forwards a collection GET.
func (h *GatewayHandler) List(service, backendPath string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		resp, gwErr := h.proxy.Forward(c.UserContext(), gateway.ForwardRequest{
			Service: service,
			Path:    backendPath,
			Method:  fiber.MethodGet,
			Query:   string(c.Request().URI().QueryString()),
			Headers: h.identityHeaders(c),
		})
		return h.respond(c, resp, gwErr)
	}
}

// GetByID forwards a single-resource GET.
func (h *GatewayHandler) GetByID(service, pathPrefix string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		resp, gwErr := h.proxy.Forward(c.UserContext(), gateway.ForwardRequest{
			Service: service,
			Path:    pathPrefix + c.Params("id"),
			Method:  fiber.MethodGet,
			Headers: h.identityHeaders(c),
		})
		return h.respond(c, resp, gwErr)
	}
}

// Create forwards a POST with the request body attached as-is; the
// backend owns validation.
func (h *GatewayHandler) Create(service, backendPath string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		resp, gwErr := h.proxy.Forward(c.UserContext(), gateway.ForwardRequest{
			Service: service,
			Path:    backendPath,
			Method:  fiber.MethodPost,
			Body:    c.Body(),
			Headers: h.identityHeaders(c),
		})
		return h.respond(c, resp, gwErr)
	}
}

// Update forwards a PUT. The body is round-tripped through the
// resource's pointer-field update model so fields the caller did not
// set are omitted from the outbound body (partial-update semantics).
func (h *GatewayHandler) Update(service, pathPrefix string, newModel func() any) fiber.Handler {
	return func(c *fiber.Ctx) error {
		model := newModel()
		if err := json.Unmarshal(c.Body(), model); err != nil {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(
				models.NewErrorEnvelope(models.CodeValidationError, "Request body must be valid JSON"))
		}
		body, err := json.Marshal(model)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to encode update body")
		}

		resp, gwErr := h.proxy.Forward(c.UserContext(), gateway.ForwardRequest{
			Service: service,
			Path:    pathPrefix + c.Params("id"),
			Method:  fiber.MethodPut,
			Body:    body,
			Headers: h.identityHeaders(c),
		})
		return h.respond(c, resp, gwErr)
	}
}

// Delete forwards a DELETE.
func (h *GatewayHandler) Delete(service, pathPrefix string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		resp, gwErr := h.proxy.Forward(c.UserContext(), gateway.ForwardRequest{
			Service: service,
			Path:    pathPrefix + c.Params("id"),
			Method:  fiber.MethodDelete,
			Headers: h.identityHeaders(c),
		})
		return h.respond(c, resp, gwErr)
	}
}

// identityHeaders propagates the authenticated subject and request ID
// to the backend.
func (h *GatewayHandler) identityHeaders(c *fiber.Ctx) http.Header {
	headers := http.Header{}
	if subject := middleware.Subject(c); subject != "" {
		headers.Set(middleware.HeaderUser, subject)
	}
	if requestID := c.GetRespHeader(middleware.HeaderRequestID); requestID != "" {
		headers.Set(middleware.HeaderRequestID, requestID)
	}
	return headers
}

func (h *GatewayHandler) respond(c *fiber.Ctx, resp *gateway.ProxyResponse, gwErr *gateway.GatewayError) error {
	if gwErr != nil {
		return c.Status(gwErr.Status).JSON(gwErr.Envelope())
	}
	if len(resp.Body) > 0 {
		c.Set(fiber.HeaderContentType, resp.ContentType)
	}
	return c.Status(resp.StatusCode).Send(resp.Body)
}
