package entity

import (
	"errors"
	"fmt"
)

// ErrDocumentMissing indicates the DocsMarshal lookup yielded no usable document.
var ErrDocumentMissing = errors.New("documento non trovato in DocsMarshal")

// InvalidInputError indicates caller-supplied data failed a precondition.
type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string {
	return e.Message
}

// UploadError indicates DocsMarshal rejected a SetProfileDocument write.
// Reason carries the store's error text verbatim.
type UploadError struct {
	Reason string
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("errore SetProfileDocument: %s", e.Reason)
}

// RenderError indicates the watermark step failed. The whole stamp operation
// fails atomically; no partially stamped document is ever returned.
type RenderError struct {
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("errore filigrana: %v", e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// GatewayError is the structured error parsed from a ProxySign XML error
// envelope. Any field may be empty when the element is missing or the body
// could not be parsed.
type GatewayError struct {
	HTTPStatus                int
	ErrorCode                 string // <error-code>
	ErrorDescription          string // <error-description>
	ErrorCodeSignature        string // <error-code-signature>
	ProxySignErrorCode        string // <proxysign-error-code>
	ProxySignErrorDescription string // <proxysign-error-description>
}

// SigningRejectedError indicates ProxySign answered with a non-200 status.
type SigningRejectedError struct {
	Gateway *GatewayError
}

func (e *SigningRejectedError) Error() string {
	code := e.Gateway.ProxySignErrorCode
	if code == "" {
		code = e.Gateway.ErrorCode
	}
	if code == "" {
		code = "N/A"
	}
	desc := e.Gateway.ProxySignErrorDescription
	if desc == "" {
		desc = e.Gateway.ErrorDescription
	}
	if desc == "" {
		desc = "N/A"
	}
	return fmt.Sprintf("firma KO (%d). %s - %s", e.Gateway.HTTPStatus, code, desc)
}

// SigningUnreachableError indicates ProxySign could not be reached at all
// (network failure or timeout).
type SigningUnreachableError struct {
	Err error
}

func (e *SigningUnreachableError) Error() string {
	return fmt.Sprintf("ProxySign non raggiungibile: %v", e.Err)
}

func (e *SigningUnreachableError) Unwrap() error {
	return e.Err
}
