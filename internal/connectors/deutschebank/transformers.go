package deutschebank

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/url"
	"time"

	"github.com/DanielPopoola/connector-gateway/internal/connector"
	"github.com/DanielPopoola/connector-gateway/internal/domain"
)

const rcSuccess = "0000"

// authType narrows SignatureKey: api_key is the OAuth client id, key1 the merchant
// id and api_secret the key the token request is signed with.
type authType struct {
	clientID     domain.Secret
	merchantID   domain.Secret
	clientSecret domain.Secret
}

func authFrom(a domain.ConnectorAuthType) (authType, error) {
	if a.AuthType != domain.AuthTypeSignatureKey {
		return authType{}, connector.FailedToObtainAuthType()
	}
	return authType{clientID: a.APIKey, merchantID: a.Key1, clientSecret: a.APISecret}, nil
}

// tokenForm is the signed client credentials grant. The signature covers
// client_id, date and random_string concatenated in that order.
func tokenForm(auth authType, nonce string, date time.Time) url.Values {
	stamp := date.UTC().Format(time.RFC3339)
	mac := hmac.New(sha256.New, []byte(auth.clientSecret.Expose()))
	mac.Write([]byte(auth.clientID.Expose() + stamp + nonce))

	return url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {auth.clientID.Expose()},
		"date":          {stamp},
		"random_string": {nonce},
		"signature":     {base64.StdEncoding.EncodeToString(mac.Sum(nil))},
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

type amountTotal struct {
	Amount   domain.MinorUnit `json:"amount"`
	Currency domain.Currency  `json:"currency"`
}

type expiryDate struct {
	Month string `json:"month"`
	Year  string `json:"year"`
}

type creditCard struct {
	Number     string     `json:"number"`
	ExpiryDate expiryDate `json:"expiry_date"`
	Code       string     `json:"code"`
	Cardholder string     `json:"cardholder"`
}

type bankAccount struct {
	AccountHolder string `json:"account_holder"`
	IBAN          string `json:"iban"`
}

type meansOfPayment struct {
	CreditCard  *creditCard  `json:"credit_card,omitempty"`
	BankAccount *bankAccount `json:"bank_account,omitempty"`
}

type communicationData struct {
	MethodNotificationURL string `json:"method_notification_url"`
	CresNotificationURL   string `json:"cres_notification_url"`
}

type customerData struct {
	CardholderEmail string `json:"cardholder_email,omitempty"`
}

type tdsData struct {
	CommunicationData communicationData `json:"communication_data"`
	CustomerData      customerData      `json:"customer_data"`
}

type threeDSRequest struct {
	MeansOfPayment meansOfPayment `json:"means_of_payment"`
	Tds20Data      tdsData        `json:"tds_20_data"`
	AmountTotal    amountTotal    `json:"amount_total"`
	Reference      string         `json:"reference,omitempty"`
	TxAction       string         `json:"tx_action"`
}

type mandateRequest struct {
	IBAN      string `json:"iban"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email,omitempty"`
}

type mandateReference struct {
	Reference string `json:"reference"`
	SignedOn  string `json:"signed_on"`
}

type directDebitRequest struct {
	AmountTotal    amountTotal      `json:"amount_total"`
	MeansOfPayment meansOfPayment   `json:"means_of_payment"`
	Mandate        mandateReference `json:"mandate"`
}

type finalizeRequest struct {
	Cres string `json:"cres,omitempty"`
}

type changeRequest struct {
	ChangedAmount *domain.MinorUnit `json:"changed_amount,omitempty"`
	Kind          string            `json:"kind"`
}

type paymentResponse struct {
	RC          string `json:"rc"`
	Message     string `json:"message"`
	TxID        string `json:"tx_id"`
	TxAction    string `json:"tx_action"`
	RedirectURL string `json:"redirect_url,omitempty"`
}

type mandateResponse struct {
	RC           string `json:"rc"`
	Message      string `json:"message"`
	MandateID    string `json:"mandate_id"`
	Reference    string `json:"reference"`
	ApprovalDate string `json:"approval_date"`
	State        string `json:"state"`
}

type errorResponse struct {
	RC               string `json:"rc"`
	Message          string `json:"message"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// sepaMeta is stored on the attempt between mandate creation and the debit.
type sepaMeta struct {
	Reference string `json:"reference"`
	SignedOn  string `json:"signed_on"`
}

const (
	actionAuthorization    = "authorization"
	actionPreauthorization = "preauthorization"
	actionCapture          = "capture"
	actionCancellation     = "cancellation"
	actionRefund           = "refund"
)

// paymentStatus maps a successful or failed transaction of the given action.
func paymentStatus(rc, action string) domain.AttemptStatus {
	if rc != rcSuccess {
		switch action {
		case actionCapture:
			return domain.AttemptCaptureFailed
		case actionCancellation:
			return domain.AttemptVoidFailed
		default:
			return domain.AttemptFailure
		}
	}
	switch action {
	case actionAuthorization, actionCapture:
		return domain.AttemptCharged
	case actionPreauthorization:
		return domain.AttemptAuthorized
	case actionCancellation:
		return domain.AttemptVoided
	default:
		return domain.AttemptPending
	}
}

// paymentsHandler maps a transaction answer; action is assumed when the answer omits tx_action.
func paymentsHandler[Req any](action string) connector.ResponseFunc[Req, domain.PaymentsResponseData] {
	return func(
		data *domain.RouterData[Req, domain.PaymentsResponseData],
		event *connector.EventBuilder,
		res *connector.Response,
	) (*domain.RouterData[Req, domain.PaymentsResponseData], error) {
		body, err := connector.ParseJSON[paymentResponse](res.Body)
		if err != nil {
			return nil, err
		}
		event.SetResponseBody(body)
		return mapPayment(data, body, action, res.StatusCode), nil
	}
}

func mapPayment[Req any](
	data *domain.RouterData[Req, domain.PaymentsResponseData],
	body paymentResponse,
	action string,
	httpCode int,
) *domain.RouterData[Req, domain.PaymentsResponseData] {
	if body.TxAction != "" {
		action = body.TxAction
	}
	if body.RC == rcSuccess && body.RedirectURL != "" {
		return connector.WithPaymentsResponse(data, domain.AttemptAuthenticationPending,
			domain.Ok(domain.NewTransactionResponse(domain.TransactionResponse{
				ResourceID:      domain.ResponseID{ConnectorTransactionID: body.TxID},
				RedirectionData: &domain.RedirectForm{Endpoint: body.RedirectURL, Method: "GET"},
			})), httpCode)
	}
	status := paymentStatus(body.RC, action)
	if connector.IsPaymentFailure(status) {
		return connector.WithPaymentsResponse(data, status,
			connector.PaymentFailure(httpCode, body.RC, body.Message, body.TxID, status), httpCode)
	}
	return connector.WithPaymentsResponse(data, status, domain.Ok(domain.NewTransactionResponse(domain.TransactionResponse{
		ResourceID:                   domain.ResponseID{ConnectorTransactionID: body.TxID},
		ConnectorResponseReferenceID: body.TxID,
	})), httpCode)
}

// handleMandateResponse turns a created SEPA mandate into a redirect to the
// complete-authorize endpoint, carrying the mandate reference along.
func handleMandateResponse(
	data *domain.PaymentsAuthorizeRouterData,
	event *connector.EventBuilder,
	res *connector.Response,
) (*domain.PaymentsAuthorizeRouterData, error) {
	body, err := connector.ParseJSON[mandateResponse](res.Body)
	if err != nil {
		return nil, err
	}
	event.SetResponseBody(body)

	if body.RC != rcSuccess {
		status := domain.AttemptFailure
		return connector.WithPaymentsResponse(data, status,
			connector.PaymentFailure(res.StatusCode, body.RC, body.Message, "", status), res.StatusCode), nil
	}
	meta, err := json.Marshal(sepaMeta{Reference: body.Reference, SignedOn: body.ApprovalDate})
	if err != nil {
		return nil, connector.ResponseHandlingFailed(err)
	}
	return connector.WithPaymentsResponse(data, domain.AttemptAuthenticationPending,
		domain.Ok(domain.NewTransactionResponse(domain.TransactionResponse{
			ResourceID: domain.ResponseID{ConnectorTransactionID: body.MandateID},
			RedirectionData: &domain.RedirectForm{
				Endpoint: data.Request.CompleteAuthorizeURL,
				Method:   "POST",
				FormFields: map[string]string{
					"reference": body.Reference,
					"signed_on": body.ApprovalDate,
				},
			},
			MandateReference:  &domain.MandateReference{ConnectorMandateID: body.MandateID},
			ConnectorMetadata: meta,
		})), res.StatusCode), nil
}

func refundStatus(rc string) domain.RefundStatus {
	if rc == rcSuccess {
		return domain.RefundSuccess
	}
	return domain.RefundFailure
}

func handleRefundResponse(data *domain.RefundsRouterData, event *connector.EventBuilder, res *connector.Response) (*domain.RefundsRouterData, error) {
	body, err := connector.ParseJSON[paymentResponse](res.Body)
	if err != nil {
		return nil, err
	}
	event.SetResponseBody(body)
	id := body.TxID
	if id == "" {
		id = data.Request.ConnectorRefundID
	}
	return connector.WithRefundsResponse(data,
		connector.RefundResult(id, refundStatus(body.RC), res.StatusCode, body.RC, body.Message),
		res.StatusCode), nil
}

func handleTokenResponse(data *domain.RefreshTokenRouterData, event *connector.EventBuilder, res *connector.Response) (*domain.RefreshTokenRouterData, error) {
	body, err := connector.ParseJSON[tokenResponse](res.Body)
	if err != nil {
		return nil, err
	}
	event.SetResponseBody(map[string]any{"token_type": body.TokenType, "expires_in": body.ExpiresIn})
	out := data.Clone()
	out.Response = domain.Ok(domain.AccessToken{Token: domain.Secret(body.AccessToken), ExpiresIn: body.ExpiresIn})
	out.ConnectorHTTPStatusCode = res.StatusCode
	return out, nil
}
