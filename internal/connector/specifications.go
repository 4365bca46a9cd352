package connector

import (
	"slices"

	"github.com/DanielPopoola/connector-gateway/internal/domain"
)

type IntegrationStatus string

const (
	IntegrationLive    IntegrationStatus = "live"
	IntegrationSandbox IntegrationStatus = "sandbox"
	IntegrationBeta    IntegrationStatus = "beta"
	IntegrationAlpha   IntegrationStatus = "alpha"
)

type About struct {
	DisplayName       string            `json:"display_name"`
	Description       string            `json:"description"`
	ConnectorType     string            `json:"connector_type"`
	IntegrationStatus IntegrationStatus `json:"integration_status"`
}

type SupportedPaymentMethod struct {
	PaymentMethod     domain.PaymentMethod     `json:"payment_method"`
	PaymentMethodType domain.PaymentMethodType `json:"payment_method_type"`
	CaptureMethods    []domain.CaptureMethod   `json:"supported_capture_methods"`
	MandatesSupported bool                     `json:"mandates"`
	RefundsSupported  bool                     `json:"refunds"`
	ThreeDSSupported  bool                     `json:"three_ds,omitempty"`
	CardNetworks      []domain.CardBrand       `json:"card_networks,omitempty"`
}

// Specifications describes a connector for discovery endpoints.
type Specifications interface {
	About() About
	SupportedPaymentMethods() []SupportedPaymentMethod
	SupportedWebhookFlows() []domain.EventClass
}

// StaticSpecifications serves Specifications from tables built once at start-up.
// Callers get copies, so the tables stay immutable.
type StaticSpecifications struct {
	Info         About
	Methods      []SupportedPaymentMethod
	WebhookFlows []domain.EventClass
}

func (s StaticSpecifications) About() About {
	return s.Info
}

func (s StaticSpecifications) SupportedPaymentMethods() []SupportedPaymentMethod {
	out := make([]SupportedPaymentMethod, len(s.Methods))
	for i, m := range s.Methods {
		m.CaptureMethods = slices.Clone(m.CaptureMethods)
		m.CardNetworks = slices.Clone(m.CardNetworks)
		out[i] = m
	}
	return out
}

func (s StaticSpecifications) SupportedWebhookFlows() []domain.EventClass {
	return slices.Clone(s.WebhookFlows)
}

// CardNetworks is the common card scheme list.
var CardNetworks = []domain.CardBrand{
	domain.CardBrandVisa,
	domain.CardBrandMastercard,
	domain.CardBrandAmex,
	domain.CardBrandDiscover,
	domain.CardBrandJCB,
	domain.CardBrandDinersClub,
	domain.CardBrandMaestro,
}
