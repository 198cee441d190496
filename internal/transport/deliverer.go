package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/temirov/depaudit/internal/report"
)

const (
	// DefaultHostConstant is the collector host used when none is configured.
	DefaultHostConstant = "reshift.softwaresecured.com"
	// DefaultPortConstant is the collector port used when none is configured.
	DefaultPortConstant = 443
	// DefaultEndpointPathConstant is the collector path that accepts reports.
	DefaultEndpointPathConstant = "/api/report"

	httpsSchemeConstant          = "https"
	bearerSchemePrefixConstant   = "Bearer "
	authorizationHeaderConstant  = "Authorization"
	contentTypeHeaderConstant    = "Content-Type"
	requestIDHeaderConstant      = "X-Request-Id"
	jsonContentTypeConstant      = "application/json"
	responseBodyLimitConstant    = 4096
	deliveringMessageConstant    = "Delivering report"
	deliveredMessageConstant     = "Report delivered"
	logFieldEndpointConstant     = "endpoint"
	logFieldRequestIDConstant    = "request_id"
	logFieldStatusCodeConstant   = "status_code"
	encodeBundleMessageConstant  = "could not encode report bundle"
	createRequestMessageConstant = "could not create request"
	sendRequestMessageConstant   = "could not send request"
)

// HTTPClient sends HTTP requests.
type HTTPClient interface {
	Do(request *http.Request) (*http.Response, error)
}

// DeliveryOutcome describes an accepted delivery.
type DeliveryOutcome struct {
	Endpoint   string
	RequestID  string
	StatusCode int
}

// Deliverer posts bundles to a collector.
type Deliverer struct {
	logger       *zap.Logger
	client       HTTPClient
	endpointPath string
}

// NewDeliverer constructs a Deliverer. A nil client falls back to http.DefaultClient
// and an empty endpoint path to DefaultEndpointPathConstant.
func NewDeliverer(logger *zap.Logger, client HTTPClient, endpointPath string) *Deliverer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if client == nil {
		client = http.DefaultClient
	}
	if len(strings.TrimSpace(endpointPath)) == 0 {
		endpointPath = DefaultEndpointPathConstant
	}
	if !strings.HasPrefix(endpointPath, "/") {
		endpointPath = "/" + endpointPath
	}
	return &Deliverer{logger: logger, client: client, endpointPath: endpointPath}
}

// Deliver posts the bundle once. Empty host and zero port fall back to the defaults.
// Any response outside 2xx and any transport failure is returned as DeliveryError.
func (deliverer *Deliverer) Deliver(executionContext context.Context, bundle report.Bundle, credential Credential, host string, port int) (DeliveryOutcome, error) {
	endpoint := deliverer.endpoint(host, port)

	payload, encodeError := json.Marshal(bundle)
	if encodeError != nil {
		return DeliveryOutcome{}, DeliveryError{Endpoint: endpoint, Cause: errors.Wrap(encodeError, encodeBundleMessageConstant)}
	}

	request, requestError := http.NewRequestWithContext(executionContext, http.MethodPost, endpoint, bytes.NewReader(payload))
	if requestError != nil {
		return DeliveryOutcome{}, DeliveryError{Endpoint: endpoint, Cause: errors.Wrap(requestError, createRequestMessageConstant)}
	}

	requestID := uuid.NewString()
	request.Header.Set(authorizationHeaderConstant, credential.bearerValue())
	request.Header.Set(contentTypeHeaderConstant, jsonContentTypeConstant)
	request.Header.Set(requestIDHeaderConstant, requestID)

	deliverer.logger.Info(deliveringMessageConstant, zap.String(logFieldEndpointConstant, endpoint), zap.String(logFieldRequestIDConstant, requestID))

	response, sendError := deliverer.client.Do(request)
	if sendError != nil {
		return DeliveryOutcome{}, DeliveryError{Endpoint: endpoint, Cause: errors.Wrap(sendError, sendRequestMessageConstant)}
	}
	defer response.Body.Close()

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		responseBody, _ := io.ReadAll(io.LimitReader(response.Body, responseBodyLimitConstant))
		return DeliveryOutcome{}, DeliveryError{
			Endpoint:     endpoint,
			StatusCode:   response.StatusCode,
			ResponseBody: strings.TrimSpace(string(responseBody)),
			Cause:        errors.New(response.Status),
		}
	}
	_, _ = io.Copy(io.Discard, response.Body)

	deliverer.logger.Info(deliveredMessageConstant,
		zap.String(logFieldEndpointConstant, endpoint),
		zap.String(logFieldRequestIDConstant, requestID),
		zap.Int(logFieldStatusCodeConstant, response.StatusCode),
	)
	return DeliveryOutcome{Endpoint: endpoint, RequestID: requestID, StatusCode: response.StatusCode}, nil
}

func (deliverer *Deliverer) endpoint(host string, port int) string {
	trimmedHost := strings.TrimSpace(host)
	if len(trimmedHost) == 0 {
		trimmedHost = DefaultHostConstant
	}
	if port <= 0 {
		port = DefaultPortConstant
	}
	endpointURL := url.URL{
		Scheme: httpsSchemeConstant,
		Host:   net.JoinHostPort(trimmedHost, strconv.Itoa(port)),
		Path:   deliverer.endpointPath,
	}
	return endpointURL.String()
}
