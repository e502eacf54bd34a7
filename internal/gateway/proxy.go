package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"sort"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"main/internal/config"
	"main/internal/models"
)

// Proxy routes requests to upstream services and normalizes their
// outcomes. The services map is built once at startup and is read-only
// afterwards, so concurrent forwards need no locking.
type Proxy struct {
	config   *config.Config
	logger   *zap.Logger
	client   *http.Client
	services map[string]*config.ServiceConfig
}

// ForwardRequest describes one outbound call. Constructed per-request
// by a route handler, consumed once by Forward.
type ForwardRequest struct {
	Service string
	Path    string
	Method  string
	Body    []byte      // JSON, attached when non-empty
	Query   string      // raw query string, without "?"
	Headers http.Header // optional extra headers
}

type ProxyResponse struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

var allowedMethods = map[string]bool{
	http.MethodGet:    true,
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodDelete: true,
}

func NewProxy(cfg *config.Config, log *zap.Logger) *Proxy {
	p := &Proxy{
		config:   cfg,
		logger:   log,
		services: make(map[string]*config.ServiceConfig),
		client: &http.Client{
			// Per-call deadlines come from the request context; the
			// transport only bounds connection pooling.
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
			},
		},
	}

	for _, service := range cfg.Upstream.Services {
		svc := service
		p.services[service.Name] = &svc
	}

	p.logger.Info("Proxy initialized with services",
		zap.Int("count", len(p.services)),
	)

	return p
}

// Resolve maps a logical service name to its configuration. Unknown
// names fail with SERVICE_NOT_FOUND listing the valid services.
func (p *Proxy) Resolve(name string) (*config.ServiceConfig, *GatewayError) {
	service, exists := p.services[name]
	if !exists {
		p.logger.Warn("Unknown service requested", zap.String("service", name))
		return nil, &GatewayError{
			Code:              models.CodeServiceNotFound,
			Message:           "Service '" + name + "' does not exist",
			Status:            http.StatusNotFound,
			AvailableServices: p.ServiceNames(),
		}
	}
	return service, nil
}

// ServiceNames returns the configured service names, sorted.
func (p *Proxy) ServiceNames() []string {
	names := make([]string, 0, len(p.services))
	for name := range p.services {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Forward issues a single outbound call and classifies the outcome.
// One attempt per call: failures are translated, never retried.
func (p *Proxy) Forward(ctx context.Context, freq ForwardRequest) (*ProxyResponse, *GatewayError) {
	service, gwErr := p.Resolve(freq.Service)
	if gwErr != nil {
		return nil, gwErr
	}

	if !allowedMethods[freq.Method] {
		return nil, &GatewayError{
			Code:    models.CodeMethodNotAllowed,
			Message: "HTTP method '" + freq.Method + "' is not supported",
			Status:  http.StatusMethodNotAllowed,
		}
	}

	targetURL := service.URL + freq.Path
	if freq.Query != "" {
		targetURL += "?" + freq.Query
	}

	var bodyReader io.Reader
	if len(freq.Body) > 0 {
		bodyReader = bytes.NewReader(freq.Body)
	}

	// Derive the call deadline from the inbound request context so a
	// dropped client connection abandons the outbound call too.
	ctx, cancel := context.WithTimeout(ctx, time.Duration(service.Timeout)*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, freq.Method, targetURL, bodyReader)
	if err != nil {
		return nil, &GatewayError{
			Code:    models.CodeRequestFailed,
			Message: "Failed to build request for " + freq.Service + " service: " + err.Error(),
			Status:  http.StatusServiceUnavailable,
		}
	}
	if len(freq.Body) > 0 {
		req.Header.Set("Content-Type", "application/json")
	}
	copyHeaders(freq.Headers, req.Header)

	p.logger.Info("Forwarding request",
		zap.String("service", freq.Service),
		zap.String("method", freq.Method),
		zap.String("url", targetURL),
	)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, p.classifyTransportError(err, service, targetURL)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &GatewayError{
			Code:    models.CodeRequestFailed,
			Message: "Failed to read response from " + freq.Service + " service: " + err.Error(),
			Status:  http.StatusServiceUnavailable,
		}
	}

	if gwErr := p.classifyStatus(resp.StatusCode, freq, body); gwErr != nil {
		return nil, gwErr
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/json"
	}

	p.logger.Debug("Request forwarded",
		zap.String("service", freq.Service),
		zap.Int("status_code", resp.StatusCode),
		zap.Int("response_size", len(body)),
	)

	return &ProxyResponse{
		StatusCode:  resp.StatusCode,
		ContentType: contentType,
		Body:        body,
	}, nil
}

// classifyStatus maps backend HTTP failures onto the gateway error
// taxonomy. Any status not handled here passes through verbatim.
func (p *Proxy) classifyStatus(status int, freq ForwardRequest, body []byte) *GatewayError {
	switch {
	case status == http.StatusNotFound:
		return &GatewayError{
			Code:    models.CodeResourceNotFound,
			Message: "The requested resource was not found in the " + freq.Service + " service",
			Status:  http.StatusNotFound,
			Path:    freq.Path,
		}
	case status == http.StatusUnprocessableEntity:
		var details any
		if len(body) > 0 {
			if err := json.Unmarshal(body, &details); err != nil {
				details = string(body)
			}
		}
		return &GatewayError{
			Code:    models.CodeValidationError,
			Message: "Request data failed validation",
			Status:  http.StatusUnprocessableEntity,
			Details: details,
		}
	case status >= http.StatusInternalServerError:
		// Never leak a raw upstream 5xx to the caller.
		return &GatewayError{
			Code:    models.CodeServiceError,
			Message: "The " + freq.Service + " service encountered an internal error",
			Status:  http.StatusBadGateway,
		}
	}
	return nil
}

// classifyTransportError maps connection-level faults, which never
// reached the backend's HTTP layer, onto the taxonomy.
func (p *Proxy) classifyTransportError(err error, service *config.ServiceConfig, targetURL string) *GatewayError {
	p.logger.Error("Request execution failed",
		zap.String("service", service.Name),
		zap.String("url", targetURL),
		zap.Error(err),
	)

	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr) && netErr.Timeout():
		return &GatewayError{
			Code:    models.CodeGatewayTimeout,
			Message: "The " + service.Name + " service took too long to respond",
			Status:  http.StatusGatewayTimeout,
		}
	case isConnectionError(err):
		return &GatewayError{
			Code:       models.CodeServiceUnavailable,
			Message:    "Cannot connect to " + service.Name + " service. Make sure it is running.",
			Status:     http.StatusServiceUnavailable,
			ServiceURL: service.URL,
		}
	default:
		return &GatewayError{
			Code:    models.CodeRequestFailed,
			Message: "Failed to reach " + service.Name + " service: " + err.Error(),
			Status:  http.StatusServiceUnavailable,
		}
	}
}

func isConnectionError(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.EHOSTUNREACH) ||
		errors.Is(err, syscall.ENETUNREACH) {
		return true
	}
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

// copyHeaders copies extra headers onto the outbound request, skipping
// hop-by-hop headers.
func copyHeaders(src, dst http.Header) {
	skipHeaders := map[string]bool{
		"host":              true,
		"connection":        true,
		"content-length":    true,
		"transfer-encoding": true,
		"upgrade":           true,
	}

	for key, values := range src {
		if skipHeaders[strings.ToLower(key)] {
			continue
		}
		for _, value := range values {
			dst.Add(key, value)
		}
	}
}
