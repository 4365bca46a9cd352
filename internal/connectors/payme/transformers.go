package payme

import (
	"strconv"

	"github.com/DanielPopoola/connector-gateway/internal/connector"
	"github.com/DanielPopoola/connector-gateway/internal/domain"
)

const language = "en"

// authType narrows BodyKey: api_key is the seller id, key1 the client key used
// for buyer tokenization. Both travel in the request body.
type authType struct {
	sellerID  domain.Secret
	clientKey domain.Secret
}

func authFrom(a domain.ConnectorAuthType) (authType, error) {
	if a.AuthType != domain.AuthTypeBodyKey {
		return authType{}, connector.FailedToObtainAuthType()
	}
	return authType{sellerID: a.APIKey, clientKey: a.Key1}, nil
}

type saleType string

const (
	saleTypeSale      saleType = "sale"
	saleTypeAuthorize saleType = "authorize"
)

func saleTypeFor(cm *domain.CaptureMethod) (saleType, error) {
	automatic, err := connector.AutomaticCapture(cm)
	if err != nil {
		return "", err
	}
	if automatic {
		return saleTypeSale, nil
	}
	return saleTypeAuthorize, nil
}

type cardDetails struct {
	CreditCardNumber string `json:"credit_card_number"`
	CreditCardExp    string `json:"credit_card_exp"`
	CreditCardCVV    string `json:"credit_card_cvv"`
}

func cardFrom(c *domain.Card) cardDetails {
	return cardDetails{
		CreditCardNumber: c.Number.Expose(),
		CreditCardExp:    c.ExpiryMMYY(""),
		CreditCardCVV:    c.CVC.Expose(),
	}
}

type tokenRequest struct {
	SellerPaymeID  string `json:"seller_payme_id"`
	PaymeClientKey string `json:"payme_client_key,omitempty"`
	BuyerName      string `json:"buyer_name,omitempty"`
	BuyerEmail     string `json:"buyer_email,omitempty"`
	cardDetails
	Language string `json:"language"`
}

type generateSaleRequest struct {
	SellerPaymeID     string           `json:"seller_payme_id"`
	SalePrice         domain.MinorUnit `json:"sale_price"`
	Currency          domain.Currency  `json:"currency"`
	ProductName       string           `json:"product_name"`
	TransactionID     string           `json:"transaction_id"`
	SaleType          saleType         `json:"sale_type"`
	SalePaymentMethod string           `json:"sale_payment_method"`
	SaleReturnURL     string           `json:"sale_return_url,omitempty"`
	SaleCallbackURL   string           `json:"sale_callback_url,omitempty"`
	Language          string           `json:"language"`
}

type paySaleRequest struct {
	PaymeSaleID      string `json:"payme_sale_id"`
	BuyerKey         string `json:"buyer_key,omitempty"`
	CreditCardNumber string `json:"credit_card_number,omitempty"`
	CreditCardExp    string `json:"credit_card_exp,omitempty"`
	CreditCardCVV    string `json:"credit_card_cvv,omitempty"`
	BuyerEmail       string `json:"buyer_email,omitempty"`
	BuyerName        string `json:"buyer_name,omitempty"`
	Language         string `json:"language"`
}

type captureRequest struct {
	SellerPaymeID string           `json:"seller_payme_id"`
	PaymeSaleID   string           `json:"payme_sale_id"`
	SalePrice     domain.MinorUnit `json:"sale_price"`
	Language      string           `json:"language"`
}

type saleRef struct {
	SellerPaymeID string `json:"seller_payme_id"`
	PaymeSaleID   string `json:"payme_sale_id"`
	Language      string `json:"language"`
}

type refundRequest struct {
	SellerPaymeID    string           `json:"seller_payme_id"`
	PaymeSaleID      string           `json:"payme_sale_id"`
	SaleRefundAmount domain.MinorUnit `json:"sale_refund_amount"`
	Language         string           `json:"language"`
}

type transactionQuery struct {
	SellerPaymeID      string `json:"seller_payme_id"`
	PaymeTransactionID string `json:"payme_transaction_id"`
}

type tokenResponse struct {
	BuyerKey   string `json:"buyer_key"`
	StatusCode int    `json:"status_code"`
}

type generateSaleResponse struct {
	StatusCode  int    `json:"status_code"`
	PaymeSaleID string `json:"payme_sale_id"`
	SaleURL     string `json:"sale_url,omitempty"`
}

// saleResponse answers pay, capture, void and refund calls.
type saleResponse struct {
	StatusCode           int    `json:"status_code"`
	PaymeStatus          string `json:"payme_status"`
	SaleStatus           string `json:"sale_status"`
	PaymeSaleID          string `json:"payme_sale_id"`
	PaymeTransactionID   string `json:"payme_transaction_id"`
	BuyerKey             string `json:"buyer_key,omitempty"`
	RedirectURL          string `json:"redirect_url,omitempty"`
	StatusErrorCode      int    `json:"status_error_code,omitempty"`
	StatusErrorDetails   string `json:"status_error_details,omitempty"`
	PaymeTransactionAuth string `json:"payme_transaction_auth_number,omitempty"`
}

type saleItem struct {
	SaleStatus  string `json:"sale_status"`
	PaymeSaleID string `json:"payme_sale_id"`
	SaleCode    int    `json:"sale_payme_code,omitempty"`
}

type salesResponse struct {
	Items []saleItem `json:"items"`
}

type transactionItem struct {
	SaleStatus               string `json:"sale_status"`
	PaymeTransactionID       string `json:"payme_transaction_id"`
	PaymeTransactionStatus   string `json:"payme_transaction_status"`
	PaymeTransactionRespCode string `json:"payme_transaction_resp_code,omitempty"`
}

type transactionsResponse struct {
	Items []transactionItem `json:"items"`
}

type errorResponse struct {
	StatusCode           int    `json:"status_code"`
	StatusErrorCode      int    `json:"status_error_code"`
	StatusErrorDetails   string `json:"status_error_details"`
	StatusAdditionalInfo string `json:"status_additional_info,omitempty"`
}

func attemptStatus(saleStatus string) domain.AttemptStatus {
	switch saleStatus {
	case "initial":
		return domain.AttemptStarted
	case "completed", "refunded", "partial-refund", "chargeback", "chargeback-refund":
		return domain.AttemptCharged
	case "authorized":
		return domain.AttemptAuthorized
	case "voided", "partial-voided":
		return domain.AttemptVoided
	case "failed":
		return domain.AttemptFailure
	default:
		return domain.AttemptPending
	}
}

func refundStatus(saleStatus string) domain.RefundStatus {
	switch saleStatus {
	case "refunded", "partial-refund":
		return domain.RefundSuccess
	case "failed":
		return domain.RefundFailure
	default:
		return domain.RefundPending
	}
}

// failedSale reports a 2xx answer carrying an application-level failure.
func failedSale(body saleResponse) bool {
	return body.StatusCode == 1 || body.PaymeStatus == "failure"
}

// saleHandler maps pay, capture and void answers. failed is the status used
// when the sale call itself fails.
func saleHandler[Req any](failed domain.AttemptStatus, setupMandate func(Req) bool) connector.ResponseFunc[Req, domain.PaymentsResponseData] {
	return func(
		data *domain.RouterData[Req, domain.PaymentsResponseData],
		event *connector.EventBuilder,
		res *connector.Response,
	) (*domain.RouterData[Req, domain.PaymentsResponseData], error) {
		body, err := connector.ParseJSON[saleResponse](res.Body)
		if err != nil {
			return nil, err
		}
		event.SetResponseBody(body)

		if failedSale(body) {
			return connector.WithPaymentsResponse(data, failed,
				connector.PaymentFailure(res.StatusCode, strconv.Itoa(body.StatusErrorCode), body.StatusErrorDetails, body.PaymeSaleID, failed), res.StatusCode), nil
		}
		if body.RedirectURL != "" {
			return connector.WithPaymentsResponse(data, domain.AttemptAuthenticationPending,
				domain.Ok(domain.NewTransactionResponse(domain.TransactionResponse{
					ResourceID:      domain.ResponseID{ConnectorTransactionID: body.PaymeSaleID},
					RedirectionData: &domain.RedirectForm{Endpoint: body.RedirectURL, Method: "GET"},
				})), res.StatusCode), nil
		}

		status := attemptStatus(body.SaleStatus)
		if connector.IsPaymentFailure(status) {
			status = failed
			return connector.WithPaymentsResponse(data, status,
				connector.PaymentFailure(res.StatusCode, strconv.Itoa(body.StatusErrorCode), body.StatusErrorDetails, body.PaymeSaleID, status), res.StatusCode), nil
		}
		tr := domain.TransactionResponse{
			ResourceID:                   domain.ResponseID{ConnectorTransactionID: body.PaymeSaleID},
			ConnectorResponseReferenceID: body.PaymeTransactionID,
		}
		if body.BuyerKey != "" && setupMandate != nil && setupMandate(data.Request) {
			tr.MandateReference = &domain.MandateReference{ConnectorMandateID: body.BuyerKey}
		}
		return connector.WithPaymentsResponse(data, status, domain.Ok(domain.NewTransactionResponse(tr)), res.StatusCode), nil
	}
}

func handleTokenResponse(data *domain.TokenizationRouterData, event *connector.EventBuilder, res *connector.Response) (*domain.TokenizationRouterData, error) {
	body, err := connector.ParseJSON[tokenResponse](res.Body)
	if err != nil {
		return nil, err
	}
	event.SetResponseBody(body)
	if body.BuyerKey == "" {
		return nil, connector.ResponseHandlingFailed(errMissingBuyerKey)
	}
	out := data.Clone()
	out.PaymentMethodToken = body.BuyerKey
	out.Response = domain.Ok(domain.PaymentsResponseData{Tokenization: &domain.TokenizationResponse{Token: body.BuyerKey}})
	out.ConnectorHTTPStatusCode = res.StatusCode
	return out, nil
}

func handleGenerateSaleResponse(data *domain.PaymentsPreProcessingRouterData, event *connector.EventBuilder, res *connector.Response) (*domain.PaymentsPreProcessingRouterData, error) {
	body, err := connector.ParseJSON[generateSaleResponse](res.Body)
	if err != nil {
		return nil, err
	}
	event.SetResponseBody(body)
	if body.StatusCode == 1 || body.PaymeSaleID == "" {
		return connector.WithPaymentsResponse(data, domain.AttemptFailure,
			connector.PaymentFailure(res.StatusCode, "", "sale could not be generated", "", domain.AttemptFailure), res.StatusCode), nil
	}
	out := connector.WithPaymentsResponse(data, domain.AttemptAuthorizing,
		domain.Ok(domain.PaymentsResponseData{PreProcessing: &domain.PreProcessingResponse{PreProcessingID: body.PaymeSaleID}}),
		res.StatusCode)
	out.PreprocessingID = body.PaymeSaleID
	return out, nil
}

func handleSalesResponse(data *domain.PaymentsSyncRouterData, event *connector.EventBuilder, res *connector.Response) (*domain.PaymentsSyncRouterData, error) {
	body, err := connector.ParseJSON[salesResponse](res.Body)
	if err != nil {
		return nil, err
	}
	event.SetResponseBody(body)
	if len(body.Items) == 0 {
		return nil, connector.ResponseHandlingFailed(errNoSale)
	}
	item := body.Items[0]
	status := attemptStatus(item.SaleStatus)
	if connector.IsPaymentFailure(status) {
		return connector.WithPaymentsResponse(data, status,
			connector.PaymentFailure(res.StatusCode, strconv.Itoa(item.SaleCode), item.SaleStatus, item.PaymeSaleID, status), res.StatusCode), nil
	}
	return connector.WithPaymentsResponse(data, status, domain.Ok(domain.NewTransactionResponse(domain.TransactionResponse{
		ResourceID: domain.ResponseID{ConnectorTransactionID: item.PaymeSaleID},
	})), res.StatusCode), nil
}

func handleRefundResponse(data *domain.RefundsRouterData, event *connector.EventBuilder, res *connector.Response) (*domain.RefundsRouterData, error) {
	body, err := connector.ParseJSON[saleResponse](res.Body)
	if err != nil {
		return nil, err
	}
	event.SetResponseBody(body)
	status := refundStatus(body.SaleStatus)
	if failedSale(body) {
		status = domain.RefundFailure
	}
	return connector.WithRefundsResponse(data,
		connector.RefundResult(body.PaymeTransactionID, status, res.StatusCode, strconv.Itoa(body.StatusErrorCode), body.StatusErrorDetails),
		res.StatusCode), nil
}

func handleTransactionsResponse(data *domain.RefundsRouterData, event *connector.EventBuilder, res *connector.Response) (*domain.RefundsRouterData, error) {
	body, err := connector.ParseJSON[transactionsResponse](res.Body)
	if err != nil {
		return nil, err
	}
	event.SetResponseBody(body)
	if len(body.Items) == 0 {
		return nil, connector.ResponseHandlingFailed(errNoTransaction)
	}
	item := body.Items[0]
	status := domain.RefundPending
	switch item.PaymeTransactionStatus {
	case "success":
		status = domain.RefundSuccess
	case "failure":
		status = domain.RefundFailure
	}
	return connector.WithRefundsResponse(data,
		connector.RefundResult(item.PaymeTransactionID, status, res.StatusCode, item.PaymeTransactionRespCode, item.SaleStatus),
		res.StatusCode), nil
}
