package trustpay

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/DanielPopoola/connector-gateway/internal/amount"
	"github.com/DanielPopoola/connector-gateway/internal/connector"
	"github.com/DanielPopoola/connector-gateway/internal/domain"
)

// authType narrows SignatureKey: api_key authenticates card calls, key1 is the
// project id and api_secret the secret of the bank redirect API and of webhooks.
type authType struct {
	apiKey    domain.Secret
	projectID domain.Secret
	secret    domain.Secret
}

func authFrom(a domain.ConnectorAuthType) (authType, error) {
	if a.AuthType != domain.AuthTypeSignatureKey {
		return authType{}, connector.FailedToObtainAuthType()
	}
	return authType{apiKey: a.APIKey, projectID: a.Key1, secret: a.APISecret}, nil
}

func isBankRedirect(pm domain.PaymentMethod) bool {
	return pm == domain.PaymentMethodBankRedirect
}

// cardForm is the form body of a card purchase.
func cardForm(data *domain.PaymentsAuthorizeRouterData, amt amount.StringMajorUnit) (url.Values, error) {
	c := data.Request.PaymentMethodData.Card
	if c == nil {
		return nil, connector.MissingRequiredField("payment_method_data.card")
	}
	billing := data.Address.Billing
	if billing == nil {
		return nil, connector.MissingRequiredField("billing")
	}
	if data.Request.BrowserInfo == nil {
		return nil, connector.MissingRequiredField("browser_info")
	}
	email := data.Request.Email
	if email == "" {
		email = billing.Email
	}
	holder := c.HolderName
	if holder == "" {
		holder = billing.FullName()
	}
	b := data.Request.BrowserInfo

	form := url.Values{}
	form.Set("amount", string(amt))
	form.Set("currency", string(data.Request.Currency))
	form.Set("pan", c.Number.Expose())
	form.Set("cvv", c.CVC.Expose())
	form.Set("exp", c.ExpiryMMYY("/"))
	form.Set("cardholder", holder)
	form.Set("reference", data.ConnectorRequestReferenceID)
	form.Set("redirectUrl", data.Request.ReturnURL)
	form.Set("billing[city]", billing.City)
	form.Set("billing[country]", billing.Country)
	form.Set("billing[street1]", billing.Line1)
	form.Set("billing[postcode]", billing.Zip)
	form.Set("customer[email]", email)
	form.Set("customer[ipAddress]", b.IPAddress)
	form.Set("browser[acceptHeader]", b.AcceptHeader)
	form.Set("browser[language]", b.Language)
	form.Set("browser[screenHeight]", strconv.Itoa(b.ScreenHeight))
	form.Set("browser[screenWidth]", strconv.Itoa(b.ScreenWidth))
	form.Set("browser[timezone]", strconv.Itoa(b.TimeZone))
	form.Set("browser[userAgent]", b.UserAgent)
	form.Set("browser[javaEnabled]", strconv.FormatBool(b.JavaEnabled))
	form.Set("browser[javascriptEnabled]", strconv.FormatBool(b.JavaScriptEnabled))
	form.Set("browser[screenColorDepth]", strconv.Itoa(b.ColorDepth))
	form.Set("browser[challengeWindow]", "1")
	form.Set("browser[paymentAction]", "dw")
	form.Set("browser[paymentType]", "Purchase")
	if data.Request.StatementDescriptor != "" {
		form.Set("descriptor", data.Request.StatementDescriptor)
	}
	return form, nil
}

type bankAmount struct {
	Amount   amount.StringMajorUnit `json:"Amount"`
	Currency domain.Currency        `json:"Currency"`
}

type references struct {
	MerchantReference string `json:"MerchantReference"`
	PaymentID         string `json:"PaymentId,omitempty"`
	PaymentRequestID  string `json:"PaymentRequestId,omitempty"`
}

type debtor struct {
	Name    string `json:"Name,omitempty"`
	Email   string `json:"Email,omitempty"`
	Country string `json:"Country,omitempty"`
}

type paymentInformation struct {
	Amount     bankAmount `json:"Amount"`
	References references `json:"References"`
	Debtor     *debtor    `json:"Debtor,omitempty"`
}

type merchantIdentification struct {
	ProjectID string `json:"ProjectId"`
}

type callbackURLs struct {
	Success string `json:"Success"`
	Cancel  string `json:"Cancel"`
	Error   string `json:"Error"`
}

type bankRedirectRequest struct {
	PaymentMethod          string                 `json:"PaymentMethod"`
	MerchantIdentification merchantIdentification `json:"MerchantIdentification"`
	PaymentInformation     paymentInformation     `json:"PaymentInformation"`
	CallbackURLs           callbackURLs           `json:"CallbackUrls"`
}

type bankRefundRequest struct {
	Amount     bankAmount `json:"Amount"`
	References references `json:"References"`
}

var bankMethods = map[domain.PaymentMethodType]string{
	domain.PMTEps:     "Eps",
	domain.PMTGiropay: "Giropay",
	domain.PMTIdeal:   "IDeal",
	domain.PMTSofort:  "Sofort",
	domain.PMTBlik:    "Blik",
}

func bankRedirectBody(data *domain.PaymentsAuthorizeRouterData, auth authType, amt amount.StringMajorUnit) (*bankRedirectRequest, error) {
	br := data.Request.PaymentMethodData.BankRedirect
	if br == nil {
		return nil, connector.MissingRequiredField("payment_method_data.bank_redirect")
	}
	method, ok := bankMethods[br.Type]
	if !ok {
		return nil, connector.NotSupported("bank redirect "+string(br.Type), connectorName)
	}
	req := &bankRedirectRequest{
		PaymentMethod:          method,
		MerchantIdentification: merchantIdentification{ProjectID: auth.projectID.Expose()},
		PaymentInformation: paymentInformation{
			Amount:     bankAmount{Amount: amt, Currency: data.Request.Currency},
			References: references{MerchantReference: data.ConnectorRequestReferenceID},
		},
		CallbackURLs: callbackURLs{
			Success: data.Request.ReturnURL + "?status=SuccessOk",
			Cancel:  data.Request.ReturnURL,
			Error:   data.Request.ReturnURL,
		},
	}
	if b := data.Address.Billing; b != nil {
		req.PaymentInformation.Debtor = &debtor{Name: b.FullName(), Email: b.Email, Country: b.Country}
	}
	return req, nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type cardsResponse struct {
	Status             int               `json:"status"`
	Description        string            `json:"description,omitempty"`
	InstanceID         string            `json:"instanceId"`
	PaymentStatus      string            `json:"paymentStatus,omitempty"`
	PaymentDescription string            `json:"paymentDescription,omitempty"`
	RedirectURL        string            `json:"redirectUrl,omitempty"`
	RedirectParams     map[string]string `json:"redirectParams,omitempty"`
}

type resultInfo struct {
	ResultCode     int    `json:"ResultCode"`
	AdditionalInfo string `json:"AdditionalInfo,omitempty"`
	CorrelationID  string `json:"CorrelationId,omitempty"`
}

type bankRedirectResponse struct {
	PaymentRequestID int64      `json:"PaymentRequestId"`
	GatewayURL       string     `json:"GatewayUrl"`
	ResultInfo       resultInfo `json:"ResultInfo"`
}

type statusReason struct {
	Reason struct {
		Code         string `json:"Code,omitempty"`
		RejectReason string `json:"RejectReason,omitempty"`
	} `json:"Reason"`
}

type syncPaymentInformation struct {
	Amount                  json.RawMessage `json:"Amount,omitempty"`
	CreditDebitIndicator    string          `json:"CreditDebitIndicator"`
	References              references      `json:"References"`
	Status                  string          `json:"Status"`
	StatusReasonInformation *statusReason   `json:"StatusReasonInformation,omitempty"`
}

type bankSyncResponse struct {
	PaymentRequestID   int64                  `json:"PaymentRequestId,omitempty"`
	PaymentInformation syncPaymentInformation `json:"PaymentInformation"`
	ResultInfo         *resultInfo            `json:"ResultInfo,omitempty"`
}

type cardError struct {
	Code        int    `json:"code"`
	Description string `json:"description"`
}

// errorResponse decodes both API families: cards report status/errors, bank
// redirects report ResultInfo.
type errorResponse struct {
	Status      int         `json:"status"`
	Description string      `json:"description"`
	Errors      []cardError `json:"errors"`
	ResultInfo  *resultInfo `json:"ResultInfo"`
}

const (
	codeSuccess       = "000.000.000"
	codePendingPrefix = "000.200."
)

// cardStatus maps Trustpay result codes. Codes in the 000.000 and 000.100.1
// ranges are successful; 000.200 is pending.
func cardStatus(code string) domain.AttemptStatus {
	switch {
	case code == codeSuccess, strings.HasPrefix(code, "000.000."), strings.HasPrefix(code, "000.100.1"):
		return domain.AttemptCharged
	case strings.HasPrefix(code, codePendingPrefix):
		return domain.AttemptPending
	default:
		return domain.AttemptFailure
	}
}

func cardRefundStatus(code string) domain.RefundStatus {
	switch cardStatus(code) {
	case domain.AttemptCharged:
		return domain.RefundSuccess
	case domain.AttemptPending:
		return domain.RefundPending
	default:
		return domain.RefundFailure
	}
}

func bankStatus(status string) domain.AttemptStatus {
	switch status {
	case "Paid", "Refunded", "Chargebacked":
		return domain.AttemptCharged
	case "Authorized":
		return domain.AttemptAuthorized
	case "Rejected", "Expired":
		return domain.AttemptFailure
	default:
		return domain.AttemptPending
	}
}

func bankRefundStatus(status string) domain.RefundStatus {
	switch status {
	case "Paid", "Refunded":
		return domain.RefundSuccess
	case "Rejected":
		return domain.RefundFailure
	default:
		return domain.RefundPending
	}
}

func handleCardPayment[Req any](data *domain.RouterData[Req, domain.PaymentsResponseData], body cardsResponse, httpCode int) *domain.RouterData[Req, domain.PaymentsResponseData] {
	if body.RedirectURL != "" {
		return connector.WithPaymentsResponse(data, domain.AttemptAuthenticationPending,
			domain.Ok(domain.NewTransactionResponse(domain.TransactionResponse{
				ResourceID: domain.ResponseID{ConnectorTransactionID: body.InstanceID},
				RedirectionData: &domain.RedirectForm{
					Endpoint:   body.RedirectURL,
					Method:     "POST",
					FormFields: body.RedirectParams,
				},
			})), httpCode)
	}
	status := cardStatus(body.PaymentStatus)
	if connector.IsPaymentFailure(status) {
		msg := body.PaymentDescription
		if msg == "" {
			msg = body.Description
		}
		return connector.WithPaymentsResponse(data, status,
			connector.PaymentFailure(httpCode, body.PaymentStatus, msg, body.InstanceID, status), httpCode)
	}
	return connector.WithPaymentsResponse(data, status, domain.Ok(domain.NewTransactionResponse(domain.TransactionResponse{
		ResourceID: domain.ResponseID{ConnectorTransactionID: body.InstanceID},
	})), httpCode)
}

func handleAuthorizeResponse(data *domain.PaymentsAuthorizeRouterData, event *connector.EventBuilder, res *connector.Response) (*domain.PaymentsAuthorizeRouterData, error) {
	if !isBankRedirect(data.PaymentMethod) {
		body, err := connector.ParseJSON[cardsResponse](res.Body)
		if err != nil {
			return nil, err
		}
		event.SetResponseBody(body)
		return handleCardPayment(data, body, res.StatusCode), nil
	}

	body, err := connector.ParseJSON[bankRedirectResponse](res.Body)
	if err != nil {
		return nil, err
	}
	event.SetResponseBody(body)
	id := strconv.FormatInt(body.PaymentRequestID, 10)
	if body.ResultInfo.ResultCode != 0 || body.GatewayURL == "" {
		status := domain.AttemptFailure
		return connector.WithPaymentsResponse(data, status,
			connector.PaymentFailure(res.StatusCode, strconv.Itoa(body.ResultInfo.ResultCode), body.ResultInfo.AdditionalInfo, id, status), res.StatusCode), nil
	}
	return connector.WithPaymentsResponse(data, domain.AttemptAuthenticationPending,
		domain.Ok(domain.NewTransactionResponse(domain.TransactionResponse{
			ResourceID:      domain.ResponseID{ConnectorTransactionID: id},
			RedirectionData: &domain.RedirectForm{Endpoint: body.GatewayURL, Method: "GET"},
		})), res.StatusCode), nil
}

func handleSyncResponse(data *domain.PaymentsSyncRouterData, event *connector.EventBuilder, res *connector.Response) (*domain.PaymentsSyncRouterData, error) {
	if !isBankRedirect(data.PaymentMethod) {
		body, err := connector.ParseJSON[cardsResponse](res.Body)
		if err != nil {
			return nil, err
		}
		event.SetResponseBody(body)
		if body.InstanceID == "" {
			body.InstanceID, _ = data.Request.ConnectorTransactionID.TransactionID()
		}
		return handleCardPayment(data, body, res.StatusCode), nil
	}

	body, err := connector.ParseJSON[bankSyncResponse](res.Body)
	if err != nil {
		return nil, err
	}
	event.SetResponseBody(body)
	info := body.PaymentInformation
	id := info.References.PaymentRequestID
	if id == "" {
		id, _ = data.Request.ConnectorTransactionID.TransactionID()
	}
	status := bankStatus(info.Status)
	if connector.IsPaymentFailure(status) {
		code, msg := "", info.Status
		if r := info.StatusReasonInformation; r != nil {
			code, msg = r.Reason.Code, r.Reason.RejectReason
		}
		return connector.WithPaymentsResponse(data, status,
			connector.PaymentFailure(res.StatusCode, code, msg, id, status), res.StatusCode), nil
	}
	return connector.WithPaymentsResponse(data, status, domain.Ok(domain.NewTransactionResponse(domain.TransactionResponse{
		ResourceID:                   domain.ResponseID{ConnectorTransactionID: id},
		ConnectorResponseReferenceID: info.References.PaymentID,
	})), res.StatusCode), nil
}

// refundHandler serves both Execute and RSync; bank redirect refunds carry
// their id in References.PaymentRequestId.
func refundHandler(data *domain.RefundsRouterData, event *connector.EventBuilder, res *connector.Response, bank bool) (*domain.RefundsRouterData, error) {
	if !bank {
		body, err := connector.ParseJSON[cardsResponse](res.Body)
		if err != nil {
			return nil, err
		}
		event.SetResponseBody(body)
		id := body.InstanceID
		if id == "" {
			id = data.Request.ConnectorRefundID
		}
		msg := body.PaymentDescription
		if msg == "" {
			msg = body.Description
		}
		return connector.WithRefundsResponse(data,
			connector.RefundResult(id, cardRefundStatus(body.PaymentStatus), res.StatusCode, body.PaymentStatus, msg),
			res.StatusCode), nil
	}

	body, err := connector.ParseJSON[bankSyncResponse](res.Body)
	if err != nil {
		return nil, err
	}
	event.SetResponseBody(body)
	id := body.PaymentInformation.References.PaymentRequestID
	if id == "" && body.PaymentRequestID != 0 {
		id = strconv.FormatInt(body.PaymentRequestID, 10)
	}
	if id == "" {
		id = data.Request.ConnectorRefundID
	}
	status := bankRefundStatus(body.PaymentInformation.Status)
	code, msg := "", body.PaymentInformation.Status
	if ri := body.ResultInfo; ri != nil {
		if ri.ResultCode != 0 {
			status = domain.RefundFailure
		} else if body.PaymentInformation.Status == "" {
			status = domain.RefundSuccess
		}
		code, msg = strconv.Itoa(ri.ResultCode), ri.AdditionalInfo
	}
	return connector.WithRefundsResponse(data,
		connector.RefundResult(id, status, res.StatusCode, code, msg),
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
