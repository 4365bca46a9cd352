package connector

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/DanielPopoola/connector-gateway/internal/domain"
	"github.com/xeipuuv/gojsonschema"
)

// Validation rejects requests a connector cannot serve before anything is sent.
type Validation interface {
	ValidateCaptureMethod(cm *domain.CaptureMethod, pmt domain.PaymentMethodType) error
	ValidateMandatePayment(pmt domain.PaymentMethodType, pm domain.PaymentMethodData) error
	ValidatePsyncReferenceID(data domain.PaymentsSyncData) error
	ValidateConnectorMetadata(meta json.RawMessage) error
}

// ValidationRules implements Validation from static tables. A nil CaptureMethods
// means automatic capture only.
type ValidationRules struct {
	Connector             string
	CaptureMethods        []domain.CaptureMethod
	MandatePaymentMethods []domain.PaymentMethodType
	MetadataSchema        *MetadataSchema
}

func (v ValidationRules) ValidateCaptureMethod(cm *domain.CaptureMethod, _ domain.PaymentMethodType) error {
	method := domain.CaptureAutomatic
	if cm != nil {
		method = *cm
	}
	supported := v.CaptureMethods
	if supported == nil {
		supported = []domain.CaptureMethod{domain.CaptureAutomatic}
	}
	if slices.Contains(supported, method) {
		return nil
	}
	return NotSupported(fmt.Sprintf("%s capture", method), v.Connector)
}

// AutomaticCapture reports whether a request with this capture method is
// captured with the authorization. Unset, automatic and sequential automatic
// are automatic, manual is not, anything else cannot be expressed on the wire.
func AutomaticCapture(cm *domain.CaptureMethod) (bool, error) {
	switch {
	case domain.IsAutomatic(cm):
		return true, nil
	case *cm == domain.CaptureManual:
		return false, nil
	default:
		return false, CaptureMethodNotSupported()
	}
}

func (v ValidationRules) ValidateMandatePayment(pmt domain.PaymentMethodType, _ domain.PaymentMethodData) error {
	if slices.Contains(v.MandatePaymentMethods, pmt) {
		return nil
	}
	return &Error{
		Kind:      KindPaymentMethodNotSupportedForMandate,
		Message:   string(pmt),
		Connector: v.Connector,
	}
}

func (v ValidationRules) ValidatePsyncReferenceID(data domain.PaymentsSyncData) error {
	if _, err := data.ConnectorTransactionID.TransactionID(); err != nil {
		return MissingConnectorTransactionID()
	}
	return nil
}

func (v ValidationRules) ValidateConnectorMetadata(meta json.RawMessage) error {
	if v.MetadataSchema == nil {
		return nil
	}
	return v.MetadataSchema.Validate(meta)
}

// MetadataSchema validates merchant connector account metadata against a JSON schema.
type MetadataSchema struct {
	schema *gojsonschema.Schema
}

// MustMetadataSchema compiles a schema literal; it panics on an invalid schema
// since schemas are package constants.
func MustMetadataSchema(schema string) *MetadataSchema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schema))
	if err != nil {
		panic(fmt.Sprintf("invalid metadata schema: %v", err))
	}
	return &MetadataSchema{schema: s}
}

func (m *MetadataSchema) Validate(meta json.RawMessage) error {
	if len(meta) == 0 || string(meta) == "null" {
		return NoConnectorMetaData()
	}
	result, err := m.schema.Validate(gojsonschema.NewBytesLoader(meta))
	if err != nil {
		return &Error{Kind: KindInvalidConnectorConfig, FieldName: "metadata", Err: err}
	}
	if result.Valid() {
		return nil
	}
	problems := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		problems = append(problems, e.String())
	}
	return &Error{Kind: KindInvalidConnectorConfig, FieldName: "metadata", Message: strings.Join(problems, "; ")}
}
