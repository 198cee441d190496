package transport

import "fmt"

const (
	writeErrorTemplateConstant             = "unable to write report to %s: %v"
	deliveryStatusErrorTemplateConstant    = "collector at %s rejected report with status %d%s"
	deliveryTransportErrorTemplateConstant = "unable to deliver report to %s: %v"
	responseBodySuffixTemplateConstant     = ": %s"
)

// WriteError reports a bundle that could not be persisted.
type WriteError struct {
	Path  string
	Cause error
}

// Error describes the persistence failure.
func (writeError WriteError) Error() string {
	return fmt.Sprintf(writeErrorTemplateConstant, writeError.Path, writeError.Cause)
}

// Unwrap exposes the underlying cause.
func (writeError WriteError) Unwrap() error {
	return writeError.Cause
}

// DeliveryError reports a bundle the collector did not accept. StatusCode is
// zero when no response was received.
type DeliveryError struct {
	Endpoint     string
	StatusCode   int
	ResponseBody string
	Cause        error
}

// Error describes the delivery failure.
func (deliveryError DeliveryError) Error() string {
	if deliveryError.StatusCode == 0 {
		return fmt.Sprintf(deliveryTransportErrorTemplateConstant, deliveryError.Endpoint, deliveryError.Cause)
	}
	bodySuffix := ""
	if len(deliveryError.ResponseBody) > 0 {
		bodySuffix = fmt.Sprintf(responseBodySuffixTemplateConstant, deliveryError.ResponseBody)
	}
	return fmt.Sprintf(deliveryStatusErrorTemplateConstant, deliveryError.Endpoint, deliveryError.StatusCode, bodySuffix)
}

// Unwrap exposes the underlying cause.
func (deliveryError DeliveryError) Unwrap() error {
	return deliveryError.Cause
}
