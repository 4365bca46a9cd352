package domain

import (
	"fmt"
	"strings"
)

type PaymentMethod string

const (
	PaymentMethodCard           PaymentMethod = "card"
	PaymentMethodWallet         PaymentMethod = "wallet"
	PaymentMethodBankRedirect   PaymentMethod = "bank_redirect"
	PaymentMethodBankDebit      PaymentMethod = "bank_debit"
	PaymentMethodBankTransfer   PaymentMethod = "bank_transfer"
	PaymentMethodMandatePayment PaymentMethod = "mandate_payment"
)

// PaymentMethodType narrows PaymentMethod (credit, google_pay, ideal, sepa, ...).
type PaymentMethodType string

const (
	PMTCredit            PaymentMethodType = "credit"
	PMTDebit             PaymentMethodType = "debit"
	PMTGooglePay         PaymentMethodType = "google_pay"
	PMTApplePay          PaymentMethodType = "apple_pay"
	PMTPaypal            PaymentMethodType = "paypal"
	PMTEps               PaymentMethodType = "eps"
	PMTGiropay           PaymentMethodType = "giropay"
	PMTIdeal             PaymentMethodType = "ideal"
	PMTSofort            PaymentMethodType = "sofort"
	PMTBlik              PaymentMethodType = "blik"
	PMTSepa              PaymentMethodType = "sepa"
	PMTLocalBankTransfer PaymentMethodType = "local_bank_transfer"
)

type Card struct {
	Number     Secret `json:"card_number"`
	ExpMonth   Secret `json:"card_exp_month"`
	ExpYear    Secret `json:"card_exp_year"`
	CVC        Secret `json:"card_cvc"`
	HolderName string `json:"card_holder_name,omitempty"`
	Network    string `json:"card_network,omitempty"`
}

// ExpiryYear4 normalizes the expiry year to four digits.
func (c Card) ExpiryYear4() string {
	y := c.ExpYear.Expose()
	if len(y) == 2 {
		return "20" + y
	}
	return y
}

// ExpiryYear2 normalizes the expiry year to its last two digits.
func (c Card) ExpiryYear2() string {
	y := c.ExpYear.Expose()
	if len(y) > 2 {
		return y[len(y)-2:]
	}
	return y
}

func (c Card) ExpiryMonth2() string {
	m := c.ExpMonth.Expose()
	if len(m) == 1 {
		return "0" + m
	}
	return m
}

// ExpiryMMYY formats the expiry as MMYY, or with sep between the parts.
func (c Card) ExpiryMMYY(sep string) string {
	return c.ExpiryMonth2() + sep + c.ExpiryYear2()
}

func (c Card) Last4() string {
	n := c.Number.Expose()
	if len(n) < 4 {
		return n
	}
	return n[len(n)-4:]
}

type CardBrand string

const (
	CardBrandVisa       CardBrand = "Visa"
	CardBrandMastercard CardBrand = "Mastercard"
	CardBrandAmex       CardBrand = "AmericanExpress"
	CardBrandDiscover   CardBrand = "Discover"
	CardBrandJCB        CardBrand = "JCB"
	CardBrandMaestro    CardBrand = "Maestro"
	CardBrandDinersClub CardBrand = "DinersClub"
	CardBrandUnknown    CardBrand = "Unknown"
)

// Brand guesses the card scheme from the issuer prefix.
func (c Card) Brand() CardBrand {
	n := strings.ReplaceAll(c.Number.Expose(), " ", "")
	prefix := func(lo, hi int, digits int) bool {
		if len(n) < digits {
			return false
		}
		var v int
		if _, err := fmt.Sscanf(n[:digits], "%d", &v); err != nil {
			return false
		}
		return v >= lo && v <= hi
	}
	switch {
	case strings.HasPrefix(n, "4"):
		return CardBrandVisa
	case prefix(51, 55, 2), prefix(2221, 2720, 4):
		return CardBrandMastercard
	case prefix(34, 34, 2), prefix(37, 37, 2):
		return CardBrandAmex
	case strings.HasPrefix(n, "6011"), prefix(644, 649, 3), strings.HasPrefix(n, "65"):
		return CardBrandDiscover
	case prefix(3528, 3589, 4):
		return CardBrandJCB
	case prefix(300, 305, 3), strings.HasPrefix(n, "36"), strings.HasPrefix(n, "38"):
		return CardBrandDinersClub
	case strings.HasPrefix(n, "50"), prefix(56, 69, 2):
		return CardBrandMaestro
	default:
		return CardBrandUnknown
	}
}

type WalletData struct {
	Type  PaymentMethodType `json:"type"`
	Token Secret            `json:"token,omitempty"`
	Email string            `json:"email,omitempty"`
}

type BankRedirectData struct {
	Type     PaymentMethodType `json:"type"`
	BankName string            `json:"bank_name,omitempty"`
	Country  string            `json:"country,omitempty"`
	BlikCode string            `json:"blik_code,omitempty"`
}

type BankDebitData struct {
	Type                  PaymentMethodType `json:"type"`
	IBAN                  Secret            `json:"iban"`
	BankAccountHolderName string            `json:"bank_account_holder_name,omitempty"`
}

type BankTransferData struct {
	Type     PaymentMethodType `json:"type"`
	BankCode string            `json:"bank_code,omitempty"`
}

// PaymentMethodData is a tagged union: exactly one variant is set.
type PaymentMethodData struct {
	Card           *Card             `json:"card,omitempty"`
	Wallet         *WalletData       `json:"wallet,omitempty"`
	BankRedirect   *BankRedirectData `json:"bank_redirect,omitempty"`
	BankDebit      *BankDebitData    `json:"bank_debit,omitempty"`
	BankTransfer   *BankTransferData `json:"bank_transfer,omitempty"`
	MandatePayment bool              `json:"mandate_payment,omitempty"`
}

func (p PaymentMethodData) Method() PaymentMethod {
	switch {
	case p.Card != nil:
		return PaymentMethodCard
	case p.Wallet != nil:
		return PaymentMethodWallet
	case p.BankRedirect != nil:
		return PaymentMethodBankRedirect
	case p.BankDebit != nil:
		return PaymentMethodBankDebit
	case p.BankTransfer != nil:
		return PaymentMethodBankTransfer
	case p.MandatePayment:
		return PaymentMethodMandatePayment
	default:
		return ""
	}
}

func (p PaymentMethodData) MethodType() PaymentMethodType {
	switch {
	case p.Card != nil:
		return PMTCredit
	case p.Wallet != nil:
		return p.Wallet.Type
	case p.BankRedirect != nil:
		return p.BankRedirect.Type
	case p.BankDebit != nil:
		return p.BankDebit.Type
	case p.BankTransfer != nil:
		return p.BankTransfer.Type
	default:
		return ""
	}
}

type AddressDetails struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Line1     string `json:"line1,omitempty"`
	Line2     string `json:"line2,omitempty"`
	City      string `json:"city,omitempty"`
	State     string `json:"state,omitempty"`
	Zip       string `json:"zip,omitempty"`
	Country   string `json:"country,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

func (a *AddressDetails) FullName() string {
	if a == nil {
		return ""
	}
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

type Address struct {
	Billing  *AddressDetails `json:"billing,omitempty"`
	Shipping *AddressDetails `json:"shipping,omitempty"`
}
