package connector

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"net/http"
	"net/url"

	"github.com/DanielPopoola/connector-gateway/internal/domain"
)

// IncomingWebhookRequest is a notification as received on the webhook endpoint.
type IncomingWebhookRequest struct {
	Method  string
	Headers http.Header
	Query   url.Values
	Body    []byte
}

// WebhookSecret is the merchant's verification secret for one connector.
type WebhookSecret struct {
	Secret []byte
}

type VerificationAlgorithm string

const (
	AlgorithmNone       VerificationAlgorithm = "none"
	AlgorithmHmacSha256 VerificationAlgorithm = "hmac_sha256"
	AlgorithmHmacSha512 VerificationAlgorithm = "hmac_sha512"
	AlgorithmSha256     VerificationAlgorithm = "sha256"
	AlgorithmMd5        VerificationAlgorithm = "md5"
)

// Verify checks signature against message. HMAC algorithms key the MAC with
// secret; digest algorithms hash the message alone.
func (a VerificationAlgorithm) Verify(secret, signature, message []byte) (bool, error) {
	var expected []byte
	switch a {
	case AlgorithmHmacSha256:
		expected = mac(sha256.New, secret, message)
	case AlgorithmHmacSha512:
		expected = mac(sha512.New, secret, message)
	case AlgorithmSha256:
		sum := sha256.Sum256(message)
		expected = sum[:]
	case AlgorithmMd5:
		sum := md5.Sum(message) //nolint:gosec // connector-mandated digest
		expected = sum[:]
	case AlgorithmNone:
		return false, nil
	default:
		return false, fmt.Errorf("unknown verification algorithm %q", a)
	}
	return hmac.Equal(expected, signature), nil
}

func mac(h func() hash.Hash, secret, message []byte) []byte {
	m := hmac.New(h, secret)
	m.Write(message)
	return m.Sum(nil)
}

// WebhookAPIResponse is what the gateway answers the connector with.
type WebhookAPIResponse struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// IncomingWebhook parses and authenticates asynchronous connector notifications.
type IncomingWebhook interface {
	WebhookObjectReferenceID(req *IncomingWebhookRequest) (domain.ObjectReferenceID, error)
	WebhookEventType(req *IncomingWebhookRequest) (domain.IncomingWebhookEvent, error)
	WebhookResourceObject(req *IncomingWebhookRequest) (any, error)
	WebhookSourceVerificationAlgorithm(req *IncomingWebhookRequest) (VerificationAlgorithm, error)
	WebhookSourceVerificationSignature(req *IncomingWebhookRequest, secret WebhookSecret) ([]byte, error)
	WebhookSourceVerificationMessage(req *IncomingWebhookRequest, merchantID string, secret WebhookSecret) ([]byte, error)
	DisputeDetails(req *IncomingWebhookRequest) (domain.DisputePayload, error)
	WebhookAPIResponse(req *IncomingWebhookRequest) (WebhookAPIResponse, error)
}

// VerifyWebhookSource combines the algorithm, signature and message hooks of wh.
func VerifyWebhookSource(wh IncomingWebhook, req *IncomingWebhookRequest, merchantID string, secret WebhookSecret) (bool, error) {
	alg, err := wh.WebhookSourceVerificationAlgorithm(req)
	if err != nil {
		return false, err
	}
	if alg == AlgorithmNone {
		return false, nil
	}
	if len(secret.Secret) == 0 {
		return false, WebhookVerificationSecretNotFound()
	}
	signature, err := wh.WebhookSourceVerificationSignature(req, secret)
	if err != nil {
		return false, err
	}
	message, err := wh.WebhookSourceVerificationMessage(req, merchantID, secret)
	if err != nil {
		return false, err
	}
	return alg.Verify(secret.Secret, signature, message)
}

// NoWebhooks opts a connector out of webhooks: every hook fails with WebhooksNotImplemented.
type NoWebhooks struct{}

func (NoWebhooks) WebhookObjectReferenceID(*IncomingWebhookRequest) (domain.ObjectReferenceID, error) {
	return domain.ObjectReferenceID{}, WebhooksNotImplemented()
}

func (NoWebhooks) WebhookEventType(*IncomingWebhookRequest) (domain.IncomingWebhookEvent, error) {
	return "", WebhooksNotImplemented()
}

func (NoWebhooks) WebhookResourceObject(*IncomingWebhookRequest) (any, error) {
	return nil, WebhooksNotImplemented()
}

func (NoWebhooks) WebhookSourceVerificationAlgorithm(*IncomingWebhookRequest) (VerificationAlgorithm, error) {
	return AlgorithmNone, WebhooksNotImplemented()
}

func (NoWebhooks) WebhookSourceVerificationSignature(*IncomingWebhookRequest, WebhookSecret) ([]byte, error) {
	return nil, WebhooksNotImplemented()
}

func (NoWebhooks) WebhookSourceVerificationMessage(*IncomingWebhookRequest, string, WebhookSecret) ([]byte, error) {
	return nil, WebhooksNotImplemented()
}

func (NoWebhooks) DisputeDetails(*IncomingWebhookRequest) (domain.DisputePayload, error) {
	return domain.DisputePayload{}, WebhooksNotImplemented()
}

func (NoWebhooks) WebhookAPIResponse(*IncomingWebhookRequest) (WebhookAPIResponse, error) {
	return WebhookAPIResponse{}, WebhooksNotImplemented()
}

// WebhookDefaults supplies the optional hooks for connectors that do support webhooks.
// Embed it and override the rest.
type WebhookDefaults struct{}

func (WebhookDefaults) DisputeDetails(*IncomingWebhookRequest) (domain.DisputePayload, error) {
	return domain.DisputePayload{}, NotImplemented("dispute details")
}

func (WebhookDefaults) WebhookAPIResponse(*IncomingWebhookRequest) (WebhookAPIResponse, error) {
	return WebhookAPIResponse{StatusCode: http.StatusOK}, nil
}
