package novalnet

import (
	"encoding/base64"
	"encoding/json"
	"strconv"

	"github.com/DanielPopoola/connector-gateway/internal/amount"
	"github.com/DanielPopoola/connector-gateway/internal/connector"
	"github.com/DanielPopoola/connector-gateway/internal/domain"
)

const (
	resultSuccess = "SUCCESS"
	defaultLang   = "EN"
)

// authType narrows SignatureKey: api_key is the product activation key, key1 the
// payment access key and api_secret the tariff id.
type authType struct {
	productActivationKey domain.Secret
	paymentAccessKey     domain.Secret
	tariffID             domain.Secret
}

func authFrom(a domain.ConnectorAuthType) (authType, error) {
	if a.AuthType != domain.AuthTypeSignatureKey {
		return authType{}, connector.FailedToObtainAuthType()
	}
	return authType{
		productActivationKey: a.APIKey,
		paymentAccessKey:     a.Key1,
		tariffID:             a.APISecret,
	}, nil
}

func (a authType) accessKeyHeader() domain.Secret {
	return domain.Secret(base64.StdEncoding.EncodeToString([]byte(a.paymentAccessKey.Expose())))
}

type merchant struct {
	Signature string `json:"signature"`
	Tariff    string `json:"tariff"`
}

type billing struct {
	HouseNo     string `json:"house_no,omitempty"`
	Street      string `json:"street,omitempty"`
	City        string `json:"city,omitempty"`
	Zip         string `json:"zip,omitempty"`
	CountryCode string `json:"country_code,omitempty"`
}

type customer struct {
	FirstName string   `json:"first_name,omitempty"`
	LastName  string   `json:"last_name,omitempty"`
	Email     string   `json:"email"`
	Mobile    string   `json:"mobile,omitempty"`
	Billing   *billing `json:"billing,omitempty"`
	NoNbx     string   `json:"no_nbx"`
}

type paymentData struct {
	CardHolder      string `json:"card_holder,omitempty"`
	CardNumber      string `json:"card_number,omitempty"`
	CardExpiryMonth string `json:"card_expiry_month,omitempty"`
	CardExpiryYear  string `json:"card_expiry_year,omitempty"`
	CardCVC         string `json:"card_cvc,omitempty"`
	WalletData      string `json:"wallet_data,omitempty"`
	AccountHolder   string `json:"account_holder,omitempty"`
	IBAN            string `json:"iban,omitempty"`
	Token           string `json:"token,omitempty"`
}

type transaction struct {
	TestMode       int                    `json:"test_mode"`
	PaymentType    string                 `json:"payment_type"`
	Amount         amount.StringMinorUnit `json:"amount"`
	Currency       domain.Currency        `json:"currency"`
	OrderNo        string                 `json:"order_no"`
	HookURL        string                 `json:"hook_url,omitempty"`
	ReturnURL      string                 `json:"return_url,omitempty"`
	ErrorReturnURL string                 `json:"error_return_url,omitempty"`
	PaymentData    *paymentData           `json:"payment_data,omitempty"`
	Enforce3D      int                    `json:"enforce_3d,omitempty"`
	CreateToken    int                    `json:"create_token,omitempty"`
}

type custom struct {
	Lang string `json:"lang"`
}

type paymentsRequest struct {
	Merchant    merchant    `json:"merchant"`
	Customer    customer    `json:"customer"`
	Transaction transaction `json:"transaction"`
	Custom      custom      `json:"custom"`
}

type paymentInput struct {
	auth        authType
	method      domain.PaymentMethodData
	mandate     *domain.MandateIDs
	amount      amount.StringMinorUnit
	currency    domain.Currency
	orderNo     string
	email       string
	returnURL   string
	webhookURL  string
	address     domain.Address
	testMode    bool
	createToken bool
}

func buildPaymentsRequest(in paymentInput) (*paymentsRequest, error) {
	email := in.email
	if email == "" && in.address.Billing != nil {
		email = in.address.Billing.Email
	}
	if email == "" {
		return nil, connector.MissingRequiredField("email")
	}

	paymentType, data, err := paymentMethod(in.method, in.mandate)
	if err != nil {
		return nil, err
	}

	req := &paymentsRequest{
		Merchant: merchant{
			Signature: in.auth.productActivationKey.Expose(),
			Tariff:    in.auth.tariffID.Expose(),
		},
		Customer: customer{Email: email, NoNbx: "1"},
		Transaction: transaction{
			TestMode:       boolToInt(in.testMode),
			PaymentType:    paymentType,
			Amount:         in.amount,
			Currency:       in.currency,
			OrderNo:        in.orderNo,
			HookURL:        in.webhookURL,
			ReturnURL:      in.returnURL,
			ErrorReturnURL: in.returnURL,
			PaymentData:    data,
			CreateToken:    boolToInt(in.createToken),
		},
		Custom: custom{Lang: defaultLang},
	}
	if b := in.address.Billing; b != nil {
		req.Customer.FirstName = b.FirstName
		req.Customer.LastName = b.LastName
		req.Customer.Mobile = b.Phone
		req.Customer.Billing = &billing{
			HouseNo:     b.Line2,
			Street:      b.Line1,
			City:        b.City,
			Zip:         b.Zip,
			CountryCode: b.Country,
		}
	}
	if paymentType == "CREDITCARD" && data != nil && data.Token == "" {
		req.Transaction.Enforce3D = 1
	}
	return req, nil
}

func paymentMethod(pm domain.PaymentMethodData, mandate *domain.MandateIDs) (string, *paymentData, error) {
	if mandate != nil && mandate.ConnectorMandateID != "" {
		paymentType := "CREDITCARD"
		if pm.BankDebit != nil {
			paymentType = "DIRECT_DEBIT_SEPA"
		}
		return paymentType, &paymentData{Token: mandate.ConnectorMandateID}, nil
	}

	switch {
	case pm.Card != nil:
		c := pm.Card
		return "CREDITCARD", &paymentData{
			CardHolder:      c.HolderName,
			CardNumber:      c.Number.Expose(),
			CardExpiryMonth: c.ExpiryMonth2(),
			CardExpiryYear:  c.ExpiryYear4(),
			CardCVC:         c.CVC.Expose(),
		}, nil
	case pm.Wallet != nil:
		switch pm.Wallet.Type {
		case domain.PMTGooglePay:
			return "GOOGLEPAY", &paymentData{WalletData: pm.Wallet.Token.Expose()}, nil
		case domain.PMTApplePay:
			return "APPLEPAY", &paymentData{WalletData: pm.Wallet.Token.Expose()}, nil
		case domain.PMTPaypal:
			return "PAYPAL", nil, nil
		}
		return "", nil, connector.NotSupported(string(pm.Wallet.Type), connectorName)
	case pm.BankDebit != nil && pm.BankDebit.Type == domain.PMTSepa:
		return "DIRECT_DEBIT_SEPA", &paymentData{
			AccountHolder: pm.BankDebit.BankAccountHolderName,
			IBAN:          pm.BankDebit.IBAN.Expose(),
		}, nil
	}
	return "", nil, connector.NotSupported("payment method "+string(pm.MethodType()), connectorName)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// transactionRef is the body of every follow-up call: capture, cancel, details.
type transactionRef struct {
	Transaction transactionTID `json:"transaction"`
	Custom      custom         `json:"custom"`
}

type transactionTID struct {
	TID string `json:"tid"`
}

func newTransactionRef(tid string) *transactionRef {
	return &transactionRef{Transaction: transactionTID{TID: tid}, Custom: custom{Lang: defaultLang}}
}

type refundRequest struct {
	Transaction refundTransaction `json:"transaction"`
	Custom      custom            `json:"custom"`
}

type refundTransaction struct {
	TID    string                 `json:"tid"`
	Amount amount.StringMinorUnit `json:"amount"`
	Reason string                 `json:"reason,omitempty"`
}

type result struct {
	Status      string `json:"status"`
	StatusCode  int    `json:"status_code"`
	StatusText  string `json:"status_text"`
	RedirectURL string `json:"redirect_url,omitempty"`
}

type refundInfo struct {
	TID    json.Number `json:"tid"`
	Amount json.Number `json:"amount"`
}

type responsePaymentData struct {
	Token string `json:"token,omitempty"`
}

type responseTransaction struct {
	TID         json.Number          `json:"tid"`
	Status      string               `json:"status"`
	StatusCode  int                  `json:"status_code"`
	Amount      json.Number          `json:"amount"`
	Currency    domain.Currency      `json:"currency"`
	OrderNo     string               `json:"order_no,omitempty"`
	PaymentType string               `json:"payment_type,omitempty"`
	PaymentData *responsePaymentData `json:"payment_data,omitempty"`
	Refund      *refundInfo          `json:"refund,omitempty"`
	TxnSecret   string               `json:"txn_secret,omitempty"`
}

type paymentsResponse struct {
	Result      result               `json:"result"`
	Transaction *responseTransaction `json:"transaction,omitempty"`
}

type errorResponse struct {
	Result result `json:"result"`
}

func attemptStatus(txnStatus string) domain.AttemptStatus {
	switch txnStatus {
	case "CONFIRMED":
		return domain.AttemptCharged
	case "ON_HOLD":
		return domain.AttemptAuthorized
	case "PENDING":
		return domain.AttemptPending
	case "DEACTIVATED":
		return domain.AttemptVoided
	case "FAILURE":
		return domain.AttemptFailure
	default:
		return domain.AttemptPending
	}
}

func refundStatus(txnStatus string) domain.RefundStatus {
	switch txnStatus {
	case "CONFIRMED":
		return domain.RefundSuccess
	case "PENDING", "ON_HOLD":
		return domain.RefundPending
	default:
		return domain.RefundFailure
	}
}

func handlePaymentsResponse[Req any](
	data *domain.RouterData[Req, domain.PaymentsResponseData],
	event *connector.EventBuilder,
	res *connector.Response,
) (*domain.RouterData[Req, domain.PaymentsResponseData], error) {
	body, err := connector.ParseJSON[paymentsResponse](res.Body)
	if err != nil {
		return nil, err
	}
	event.SetResponseBody(body)

	txnID := ""
	if body.Transaction != nil {
		txnID = body.Transaction.TID.String()
	}

	if body.Result.Status != resultSuccess {
		status := domain.AttemptFailure
		code := strconv.Itoa(body.Result.StatusCode)
		return connector.WithPaymentsResponse(data, status,
			connector.PaymentFailure(res.StatusCode, code, body.Result.StatusText, txnID, status), res.StatusCode), nil
	}

	if body.Result.RedirectURL != "" {
		return connector.WithPaymentsResponse(data, domain.AttemptAuthenticationPending,
			domain.Ok(domain.NewTransactionResponse(domain.TransactionResponse{
				ResourceID: domain.ResponseID{ConnectorTransactionID: txnID},
				RedirectionData: &domain.RedirectForm{
					Endpoint: body.Result.RedirectURL,
					Method:   "GET",
				},
				ConnectorResponseReferenceID: data.ConnectorRequestReferenceID,
			})), res.StatusCode), nil
	}

	if body.Transaction == nil {
		return nil, connector.ResponseHandlingFailed(errMissingTransaction)
	}

	tr := domain.TransactionResponse{
		ResourceID:                   domain.ResponseID{ConnectorTransactionID: txnID},
		ConnectorResponseReferenceID: body.Transaction.OrderNo,
	}
	if pd := body.Transaction.PaymentData; pd != nil && pd.Token != "" {
		tr.MandateReference = &domain.MandateReference{ConnectorMandateID: pd.Token}
	}
	status := attemptStatus(body.Transaction.Status)
	if connector.IsPaymentFailure(status) {
		return connector.WithPaymentsResponse(data, status,
			connector.PaymentFailure(res.StatusCode, strconv.Itoa(body.Transaction.StatusCode), body.Result.StatusText, txnID, status),
			res.StatusCode), nil
	}
	return connector.WithPaymentsResponse(data, status, domain.Ok(domain.NewTransactionResponse(tr)), res.StatusCode), nil
}

func handleRefundResponse(data *domain.RefundsRouterData, event *connector.EventBuilder, res *connector.Response) (*domain.RefundsRouterData, error) {
	body, err := connector.ParseJSON[paymentsResponse](res.Body)
	if err != nil {
		return nil, err
	}
	event.SetResponseBody(body)

	code := strconv.Itoa(body.Result.StatusCode)
	if body.Result.Status != resultSuccess || body.Transaction == nil {
		return connector.WithRefundsResponse(data,
			connector.RefundResult("", domain.RefundFailure, res.StatusCode, code, body.Result.StatusText), res.StatusCode), nil
	}

	txn := body.Transaction
	refundID := txn.TID.String()
	if data.Flow == domain.FlowExecute {
		if txn.Refund == nil {
			return nil, connector.ResponseHandlingFailed(errMissingRefund)
		}
		refundID = txn.Refund.TID.String()
	}
	return connector.WithRefundsResponse(data,
		connector.RefundResult(refundID, refundStatus(txn.Status), res.StatusCode, code, body.Result.StatusText), res.StatusCode), nil
}
