package worldpayxml

import (
	"encoding/xml"
	"strconv"

	"github.com/DanielPopoola/connector-gateway/internal/amount"
	"github.com/DanielPopoola/connector-gateway/internal/connector"
	"github.com/DanielPopoola/connector-gateway/internal/domain"
)

const (
	apiVersion = "1.4"
	preamble   = `<?xml version="1.0" encoding="UTF-8"?>` + "\n" +
		`<!DOCTYPE paymentService PUBLIC "-//WorldPay//DTD WorldPay PaymentService v1//EN" "http://dtd.worldpay.com/paymentService_v1.dtd">` + "\n"
)

// authType narrows SignatureKey: api_key and key1 are the XML user and
// password, api_secret is the merchant code.
type authType struct {
	username     domain.Secret
	password     domain.Secret
	merchantCode domain.Secret
}

func authFrom(a domain.ConnectorAuthType) (authType, error) {
	if a.AuthType != domain.AuthTypeSignatureKey {
		return authType{}, connector.FailedToObtainAuthType()
	}
	return authType{username: a.APIKey, password: a.Key1, merchantCode: a.APISecret}, nil
}

type paymentService struct {
	XMLName      xml.Name `xml:"paymentService"`
	Version      string   `xml:"version,attr"`
	MerchantCode string   `xml:"merchantCode,attr"`
	Submit       *submit  `xml:"submit,omitempty"`
	Modify       *modify  `xml:"modify,omitempty"`
	Inquiry      *inquiry `xml:"inquiry,omitempty"`
	Reply        *reply   `xml:"reply,omitempty"`
}

type xmlAmount struct {
	Value                string `xml:"value,attr"`
	CurrencyCode         string `xml:"currencyCode,attr"`
	Exponent             string `xml:"exponent,attr"`
	DebitCreditIndicator string `xml:"debitCreditIndicator,attr,omitempty"`
}

type submit struct {
	Order order `xml:"order"`
}

type order struct {
	OrderCode      string         `xml:"orderCode,attr"`
	CaptureDelay   string         `xml:"captureDelay,attr"`
	Description    string         `xml:"description"`
	Amount         xmlAmount      `xml:"amount"`
	PaymentDetails paymentDetails `xml:"paymentDetails"`
	Shopper        *shopper       `xml:"shopper,omitempty"`
	BillingAddress *billingWrap   `xml:"billingAddress,omitempty"`
}

type paymentDetails struct {
	Card cardSSL `xml:"CARD-SSL"`
}

type cardSSL struct {
	CardNumber     string     `xml:"cardNumber"`
	ExpiryDate     expiryDate `xml:"expiryDate"`
	CardHolderName string     `xml:"cardHolderName"`
	CVC            string     `xml:"cvc"`
}

type expiryDate struct {
	Date struct {
		Month string `xml:"month,attr"`
		Year  string `xml:"year,attr"`
	} `xml:"date"`
}

type shopper struct {
	EmailAddress string   `xml:"shopperEmailAddress,omitempty"`
	Browser      *browser `xml:"browser,omitempty"`
}

type browser struct {
	AcceptHeader    string `xml:"acceptHeader"`
	UserAgentHeader string `xml:"userAgentHeader"`
}

type billingWrap struct {
	Address address `xml:"address"`
}

type address struct {
	FirstName   string `xml:"firstName,omitempty"`
	LastName    string `xml:"lastName,omitempty"`
	Address1    string `xml:"address1"`
	PostalCode  string `xml:"postalCode"`
	City        string `xml:"city"`
	CountryCode string `xml:"countryCode"`
}

type modify struct {
	OrderModification orderModification `xml:"orderModification"`
}

type amountEnvelope struct {
	Amount xmlAmount `xml:"amount"`
}

type orderModification struct {
	OrderCode string          `xml:"orderCode,attr"`
	Capture   *amountEnvelope `xml:"capture,omitempty"`
	Cancel    *struct{}       `xml:"cancel,omitempty"`
	Refund    *amountEnvelope `xml:"refund,omitempty"`
}

type inquiry struct {
	OrderInquiry struct {
		OrderCode string `xml:"orderCode,attr"`
	} `xml:"orderInquiry"`
}

type reply struct {
	OrderStatus *orderStatus `xml:"orderStatus"`
	Ok          *okReply     `xml:"ok"`
	Error       *xmlError    `xml:"error"`
}

type orderStatus struct {
	OrderCode string    `xml:"orderCode,attr"`
	Payment   *payment  `xml:"payment"`
	Error     *xmlError `xml:"error"`
}

type payment struct {
	PaymentMethod string    `xml:"paymentMethod"`
	Amount        xmlAmount `xml:"amount"`
	LastEvent     string    `xml:"lastEvent"`
	ReturnCode    *struct {
		Code        string `xml:"code,attr"`
		Description string `xml:"description,attr"`
	} `xml:"ISO8583ReturnCode"`
}

type received struct {
	OrderCode string `xml:"orderCode,attr"`
}

type okReply struct {
	CaptureReceived *received `xml:"captureReceived"`
	CancelReceived  *received `xml:"cancelReceived"`
	RefundReceived  *received `xml:"refundReceived"`
}

type xmlError struct {
	Code    string `xml:"code,attr"`
	Message string `xml:",chardata"`
}

func toXMLAmount(a domain.MinorUnit, currency domain.Currency) (xmlAmount, error) {
	exp, err := amount.Exponent(currency)
	if err != nil {
		return xmlAmount{}, connector.AmountConversionFailed(err)
	}
	return xmlAmount{
		Value:        strconv.FormatInt(a.Int64(), 10),
		CurrencyCode: string(currency),
		Exponent:     strconv.Itoa(int(exp)),
	}, nil
}

func envelope(auth authType) paymentService {
	return paymentService{Version: apiVersion, MerchantCode: auth.merchantCode.Expose()}
}

func authorizeRequest(data *domain.PaymentsAuthorizeRouterData, auth authType) (*paymentService, error) {
	c := data.Request.PaymentMethodData.Card
	if c == nil {
		return nil, connector.NotSupported("payment method "+string(data.Request.PaymentMethodData.MethodType()), connectorName)
	}
	amt, err := toXMLAmount(data.Request.Amount, data.Request.Currency)
	if err != nil {
		return nil, err
	}
	holder := c.HolderName
	if holder == "" {
		holder = data.Address.Billing.FullName()
	}
	if holder == "" {
		return nil, connector.MissingRequiredField("payment_method_data.card.card_holder_name")
	}

	automatic, err := connector.AutomaticCapture(data.Request.CaptureMethod)
	if err != nil {
		return nil, err
	}
	delay := "OFF"
	if automatic {
		delay = "0"
	}
	card := cardSSL{CardNumber: c.Number.Expose(), CardHolderName: holder, CVC: c.CVC.Expose()}
	card.ExpiryDate.Date.Month = c.ExpiryMonth2()
	card.ExpiryDate.Date.Year = c.ExpiryYear4()

	description := data.Description
	if description == "" {
		description = data.ConnectorRequestReferenceID
	}
	o := order{
		OrderCode:      data.ConnectorRequestReferenceID,
		CaptureDelay:   delay,
		Description:    description,
		Amount:         amt,
		PaymentDetails: paymentDetails{Card: card},
	}
	if email := data.Request.Email; email != "" || data.Request.BrowserInfo != nil {
		o.Shopper = &shopper{EmailAddress: email}
		if b := data.Request.BrowserInfo; b != nil {
			o.Shopper.Browser = &browser{AcceptHeader: b.AcceptHeader, UserAgentHeader: b.UserAgent}
		}
	}
	if b := data.Address.Billing; b != nil && b.Line1 != "" {
		o.BillingAddress = &billingWrap{Address: address{
			FirstName:   b.FirstName,
			LastName:    b.LastName,
			Address1:    b.Line1,
			PostalCode:  b.Zip,
			City:        b.City,
			CountryCode: b.Country,
		}}
	}

	ps := envelope(auth)
	ps.Submit = &submit{Order: o}
	return &ps, nil
}

func modifyRequest(auth authType, orderCode string, mod orderModification) *paymentService {
	ps := envelope(auth)
	mod.OrderCode = orderCode
	ps.Modify = &modify{OrderModification: mod}
	return &ps
}

func inquiryRequest(auth authType, orderCode string) *paymentService {
	ps := envelope(auth)
	ps.Inquiry = &inquiry{}
	ps.Inquiry.OrderInquiry.OrderCode = orderCode
	return &ps
}

const (
	eventAuthorised         = "AUTHORISED"
	eventSentForAuth        = "SENT_FOR_AUTHORISATION"
	eventCaptured           = "CAPTURED"
	eventSettled            = "SETTLED"
	eventSettledByMerchant  = "SETTLED_BY_MERCHANT"
	eventSentForRefund      = "SENT_FOR_REFUND"
	eventRefunded           = "REFUNDED"
	eventRefundedByMerchant = "REFUNDED_BY_MERCHANT"
	eventRefundFailed       = "REFUND_FAILED"
	eventChargedBack        = "CHARGED_BACK"
	eventRefused            = "REFUSED"
	eventCancelled          = "CANCELLED"
	eventError              = "ERROR"
	eventExpired            = "EXPIRED"
)

// attemptStatus maps lastEvent. An AUTHORISED order with automatic capture is
// still waiting for its capture, so it stays pending.
func attemptStatus(lastEvent string, cm *domain.CaptureMethod) domain.AttemptStatus {
	switch lastEvent {
	case eventAuthorised:
		if domain.IsAutomatic(cm) {
			return domain.AttemptPending
		}
		return domain.AttemptAuthorized
	case eventSentForAuth:
		return domain.AttemptAuthorizing
	case eventCaptured, eventSettled, eventSettledByMerchant, eventSentForRefund,
		eventRefunded, eventRefundedByMerchant, eventRefundFailed, eventChargedBack:
		return domain.AttemptCharged
	case eventRefused, eventError, eventExpired:
		return domain.AttemptFailure
	case eventCancelled:
		return domain.AttemptVoided
	default:
		return domain.AttemptPending
	}
}

func refundStatus(lastEvent string) domain.RefundStatus {
	switch lastEvent {
	case eventRefunded, eventRefundedByMerchant:
		return domain.RefundSuccess
	case eventRefundFailed:
		return domain.RefundFailure
	default:
		return domain.RefundPending
	}
}

// replyError returns the error carried by a reply, at top level or inside orderStatus.
func replyError(r *reply) *xmlError {
	if r == nil {
		return &xmlError{Message: "missing reply"}
	}
	if r.Error != nil {
		return r.Error
	}
	if r.OrderStatus != nil && r.OrderStatus.Error != nil {
		return r.OrderStatus.Error
	}
	return nil
}

func parseReply(event *connector.EventBuilder, res *connector.Response) (*reply, error) {
	body, err := connector.ParseXML[paymentService](res.Body)
	if err != nil {
		return nil, err
	}
	event.SetResponseBody(body)
	return body.Reply, nil
}

// paymentsHandler serves Authorize and PSync, which both answer with an orderStatus.
func paymentsHandler[Req any](captureMethod func(Req) *domain.CaptureMethod, fallbackID func(*domain.RouterData[Req, domain.PaymentsResponseData]) string) connector.ResponseFunc[Req, domain.PaymentsResponseData] {
	return func(data *domain.RouterData[Req, domain.PaymentsResponseData], event *connector.EventBuilder, res *connector.Response) (*domain.RouterData[Req, domain.PaymentsResponseData], error) {
		r, err := parseReply(event, res)
		if err != nil {
			return nil, err
		}
		id := fallbackID(data)
		if r != nil && r.OrderStatus != nil && r.OrderStatus.OrderCode != "" {
			id = r.OrderStatus.OrderCode
		}
		if e := replyError(r); e != nil {
			status := domain.AttemptFailure
			return connector.WithPaymentsResponse(data, status,
				connector.PaymentFailure(res.StatusCode, e.Code, e.Message, id, status), res.StatusCode), nil
		}
		if r.OrderStatus == nil || r.OrderStatus.Payment == nil {
			return nil, connector.ResponseHandlingFailed(errMissingPayment)
		}
		p := r.OrderStatus.Payment
		status := attemptStatus(p.LastEvent, captureMethod(data.Request))
		if connector.IsPaymentFailure(status) {
			code, msg := p.LastEvent, p.LastEvent
			if p.ReturnCode != nil {
				code, msg = p.ReturnCode.Code, p.ReturnCode.Description
			}
			return connector.WithPaymentsResponse(data, status,
				connector.PaymentFailure(res.StatusCode, code, msg, id, status), res.StatusCode), nil
		}
		return connector.WithPaymentsResponse(data, status, domain.Ok(domain.NewTransactionResponse(domain.TransactionResponse{
			ResourceID:                   domain.ResponseID{ConnectorTransactionID: id},
			ConnectorResponseReferenceID: id,
		})), res.StatusCode), nil
	}
}

// modificationHandler serves Capture and Void: an ok reply only acknowledges
// the modification, the final state arrives through PSync.
func modificationHandler[Req any](initiated, failed domain.AttemptStatus, ack func(*okReply) *received) connector.ResponseFunc[Req, domain.PaymentsResponseData] {
	return func(data *domain.RouterData[Req, domain.PaymentsResponseData], event *connector.EventBuilder, res *connector.Response) (*domain.RouterData[Req, domain.PaymentsResponseData], error) {
		r, err := parseReply(event, res)
		if err != nil {
			return nil, err
		}
		if e := replyError(r); e != nil {
			return connector.WithPaymentsResponse(data, failed,
				connector.PaymentFailure(res.StatusCode, e.Code, e.Message, "", failed), res.StatusCode), nil
		}
		if r.Ok == nil || ack(r.Ok) == nil {
			return nil, connector.ResponseHandlingFailed(errMissingAck)
		}
		return connector.WithPaymentsResponse(data, initiated, domain.Ok(domain.NewTransactionResponse(domain.TransactionResponse{
			ResourceID: domain.ResponseID{ConnectorTransactionID: ack(r.Ok).OrderCode},
		})), res.StatusCode), nil
	}
}

func handleRefundResponse(data *domain.RefundsRouterData, event *connector.EventBuilder, res *connector.Response) (*domain.RefundsRouterData, error) {
	r, err := parseReply(event, res)
	if err != nil {
		return nil, err
	}
	if e := replyError(r); e != nil {
		return connector.WithRefundsResponse(data,
			connector.RefundResult("", domain.RefundFailure, res.StatusCode, e.Code, e.Message), res.StatusCode), nil
	}
	if r.Ok == nil || r.Ok.RefundReceived == nil {
		return nil, connector.ResponseHandlingFailed(errMissingAck)
	}
	// Worldpay has no refund ids; refunds are tracked on the order.
	return connector.WithRefundsResponse(data,
		connector.RefundResult(r.Ok.RefundReceived.OrderCode, domain.RefundPending, res.StatusCode, "", ""), res.StatusCode), nil
}

func handleRefundSyncResponse(data *domain.RefundsRouterData, event *connector.EventBuilder, res *connector.Response) (*domain.RefundsRouterData, error) {
	r, err := parseReply(event, res)
	if err != nil {
		return nil, err
	}
	if e := replyError(r); e != nil {
		return connector.WithRefundsResponse(data,
			connector.RefundResult("", domain.RefundFailure, res.StatusCode, e.Code, e.Message), res.StatusCode), nil
	}
	if r.OrderStatus == nil || r.OrderStatus.Payment == nil {
		return nil, connector.ResponseHandlingFailed(errMissingPayment)
	}
	last := r.OrderStatus.Payment.LastEvent
	return connector.WithRefundsResponse(data,
		connector.RefundResult(r.OrderStatus.OrderCode, refundStatus(last), res.StatusCode, last, last), res.StatusCode), nil
}
