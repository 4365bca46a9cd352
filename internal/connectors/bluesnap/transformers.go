package bluesnap

import (
	"encoding/base64"
	"strings"

	"github.com/DanielPopoola/connector-gateway/internal/amount"
	"github.com/DanielPopoola/connector-gateway/internal/connector"
	"github.com/DanielPopoola/connector-gateway/internal/domain"
)

const (
	txnAuthCapture  = "AUTH_CAPTURE"
	txnAuthOnly     = "AUTH_ONLY"
	txnCapture      = "CAPTURE"
	txnAuthReversal = "AUTH_REVERSAL"
	txnRefund       = "REFUND"
)

type basicAuth struct {
	username domain.Secret
	password domain.Secret
}

// authFrom narrows BodyKey: key1 is the API username and api_key its password.
func authFrom(a domain.ConnectorAuthType) (basicAuth, error) {
	if a.AuthType != domain.AuthTypeBodyKey {
		return basicAuth{}, connector.FailedToObtainAuthType()
	}
	return basicAuth{username: a.Key1, password: a.APIKey}, nil
}

type creditCard struct {
	CardNumber      string `json:"cardNumber"`
	ExpirationMonth string `json:"expirationMonth"`
	ExpirationYear  string `json:"expirationYear"`
	SecurityCode    string `json:"securityCode"`
}

type wallet struct {
	WalletType          string `json:"walletType"`
	EncodedPaymentToken string `json:"encodedPaymentToken"`
}

type cardHolderInfo struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
	Zip       string `json:"zip,omitempty"`
	Country   string `json:"country,omitempty"`
}

type paymentsRequest struct {
	CardTransactionType   string                 `json:"cardTransactionType"`
	Amount                amount.StringMajorUnit `json:"amount"`
	Currency              domain.Currency        `json:"currency"`
	CreditCard            *creditCard            `json:"creditCard,omitempty"`
	Wallet                *wallet                `json:"wallet,omitempty"`
	CardHolderInfo        *cardHolderInfo        `json:"cardHolderInfo,omitempty"`
	MerchantTransactionID string                 `json:"merchantTransactionId,omitempty"`
	SoftDescriptor        string                 `json:"softDescriptor,omitempty"`
}

func buildPaymentsRequest(data *domain.PaymentsAuthorizeRouterData, amt amount.StringMajorUnit) (*paymentsRequest, error) {
	automatic, err := connector.AutomaticCapture(data.Request.CaptureMethod)
	if err != nil {
		return nil, err
	}
	txnType := txnAuthCapture
	if !automatic {
		txnType = txnAuthOnly
	}
	req := &paymentsRequest{
		CardTransactionType:   txnType,
		Amount:                amt,
		Currency:              data.Request.Currency,
		MerchantTransactionID: data.ConnectorRequestReferenceID,
		SoftDescriptor:        data.Request.StatementDescriptor,
	}

	pm := data.Request.PaymentMethodData
	switch {
	case pm.Card != nil:
		req.CreditCard = &creditCard{
			CardNumber:      pm.Card.Number.Expose(),
			ExpirationMonth: pm.Card.ExpiryMonth2(),
			ExpirationYear:  pm.Card.ExpiryYear4(),
			SecurityCode:    pm.Card.CVC.Expose(),
		}
	case pm.Wallet != nil:
		var walletType string
		switch pm.Wallet.Type {
		case domain.PMTGooglePay:
			walletType = "GOOGLE_PAY"
		case domain.PMTApplePay:
			walletType = "APPLE_PAY"
		default:
			return nil, connector.NotSupported(string(pm.Wallet.Type), connectorName)
		}
		if pm.Wallet.Token.IsEmpty() {
			return nil, connector.InvalidWalletToken(string(pm.Wallet.Type))
		}
		req.Wallet = &wallet{
			WalletType:          walletType,
			EncodedPaymentToken: base64.StdEncoding.EncodeToString([]byte(pm.Wallet.Token.Expose())),
		}
	default:
		return nil, connector.NotSupported("payment method "+string(pm.MethodType()), connectorName)
	}

	if b := data.Address.Billing; b != nil || data.Request.Email != "" {
		info := &cardHolderInfo{Email: data.Request.Email}
		if b != nil {
			info.FirstName, info.LastName = b.FirstName, b.LastName
			info.Zip, info.Country = b.Zip, strings.ToLower(b.Country)
			if info.Email == "" {
				info.Email = b.Email
			}
		}
		req.CardHolderInfo = info
	}
	return req, nil
}

type captureRequest struct {
	CardTransactionType string                  `json:"cardTransactionType"`
	TransactionID       string                  `json:"transactionId"`
	Amount              *amount.StringMajorUnit `json:"amount,omitempty"`
}

type refundRequest struct {
	Amount amount.StringMajorUnit `json:"amount"`
	Reason string                 `json:"reason,omitempty"`
}

type processingInfo struct {
	ProcessingStatus     string `json:"processingStatus"`
	NetworkTransactionID string `json:"networkTransactionId,omitempty"`
}

type transactionResponse struct {
	CardTransactionType   string         `json:"cardTransactionType"`
	TransactionID         string         `json:"transactionId"`
	MerchantTransactionID string         `json:"merchantTransactionId,omitempty"`
	Currency              string         `json:"currency"`
	ProcessingInfo        processingInfo `json:"processingInfo"`
}

type refundResponse struct {
	RefundTransactionID int64  `json:"refundTransactionId"`
	RefundStatus        string `json:"refundStatus"`
}

type errorMessage struct {
	ErrorName   string `json:"errorName"`
	Code        string `json:"code"`
	Description string `json:"description"`
}

type errorResponse struct {
	Message []errorMessage `json:"message"`
}

func attemptStatus(txnType, processing string) domain.AttemptStatus {
	switch strings.ToLower(processing) {
	case "success":
		switch txnType {
		case txnAuthOnly:
			return domain.AttemptAuthorized
		case txnAuthReversal:
			return domain.AttemptVoided
		case txnAuthCapture, txnCapture:
			return domain.AttemptCharged
		}
		return domain.AttemptPending
	case "pending", "pending_merchant_review":
		switch txnType {
		case txnCapture:
			return domain.AttemptCaptureInitiated
		case txnAuthReversal:
			return domain.AttemptVoidInitiated
		}
		return domain.AttemptPending
	case "fail", "declined":
		switch txnType {
		case txnCapture:
			return domain.AttemptCaptureFailed
		case txnAuthReversal:
			return domain.AttemptVoidFailed
		}
		return domain.AttemptFailure
	default:
		return domain.AttemptPending
	}
}

func refundStatus(status string) domain.RefundStatus {
	switch strings.ToLower(status) {
	case "success":
		return domain.RefundSuccess
	case "fail", "failed", "declined":
		return domain.RefundFailure
	default:
		return domain.RefundPending
	}
}

func handlePaymentsResponse[Req any](
	data *domain.RouterData[Req, domain.PaymentsResponseData],
	event *connector.EventBuilder,
	res *connector.Response,
) (*domain.RouterData[Req, domain.PaymentsResponseData], error) {
	body, err := connector.ParseJSON[transactionResponse](res.Body)
	if err != nil {
		return nil, err
	}
	event.SetResponseBody(body)

	status := attemptStatus(body.CardTransactionType, body.ProcessingInfo.ProcessingStatus)
	if connector.IsPaymentFailure(status) {
		return connector.WithPaymentsResponse(data, status,
			connector.PaymentFailure(res.StatusCode, "", body.ProcessingInfo.ProcessingStatus, body.TransactionID, status),
			res.StatusCode), nil
	}
	return connector.WithPaymentsResponse(data, status, domain.Ok(domain.NewTransactionResponse(domain.TransactionResponse{
		ResourceID:                   domain.ResponseID{ConnectorTransactionID: body.TransactionID},
		NetworkTxnID:                 body.ProcessingInfo.NetworkTransactionID,
		ConnectorResponseReferenceID: body.MerchantTransactionID,
	})), res.StatusCode), nil
}
