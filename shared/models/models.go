package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// The durable record keeps amounts as plain JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

type BookType string

const (
	BookTypeGeneral BookType = "GENERAL"
	BookTypeMSB     BookType = "MSB"
)

type TransactionType string

const (
	TransactionIncome  TransactionType = "INCOME"
	TransactionExpense TransactionType = "EXPENSE"
)

// TransactionCategory mirrors the type of the book a transaction was created in.
type TransactionCategory string

const (
	CategoryGeneral TransactionCategory = "GENERAL"
	CategoryMSB     TransactionCategory = "MSB"
)

type MSBPaymentType string

const (
	PaymentDigital MSBPaymentType = "DIGITAL"
	PaymentCash    MSBPaymentType = "CASH"
)

type MSBDigitalMethod string

const (
	DigitalBank MSBDigitalMethod = "BANK"
	DigitalUPI  MSBDigitalMethod = "UPI"
)

// MSBStatus is the settlement state of a remittance.
type MSBStatus string

const (
	StatusPending MSBStatus = "PENDING"
	StatusPaid    MSBStatus = "PAID"
)

func (s MSBStatus) Valid() bool {
	return s == StatusPending || s == StatusPaid
}

type BankDetails struct {
	AccountNumber string `json:"accountNumber" validate:"required"`
	HolderName    string `json:"holderName" validate:"required"`
	ReceiverPhone string `json:"receiverPhone"`
	IFSC          string `json:"ifsc"`
	BankName      string `json:"bankName"`
	BankLocation  string `json:"bankLocation"`
	PAN           string `json:"pan,omitempty"`
}

type UPIDetails struct {
	UPIID         string `json:"upiId" validate:"required"`
	ReceiverName  string `json:"receiverName" validate:"required"`
	ReceiverPhone string `json:"receiverPhone"`
}

type CashDetails struct {
	ReceiverName  string `json:"receiverName" validate:"required"`
	ReceiverPhone string `json:"receiverPhone"`
	TokenCode     string `json:"tokenCode" validate:"required"`
}

// MSBDetails is the remittance payload carried by MSB transactions. Exactly one of
// BankDetails, UPIDetails and CashDetails is populated, selected by PaymentType
// and, for digital payments, DigitalMethod. The payloads are validated only once
// selected.
type MSBDetails struct {
	SenderName        string           `json:"senderName"`
	SenderPhone       string           `json:"senderPhone"`
	PaymentType       MSBPaymentType   `json:"paymentType" validate:"required,oneof=DIGITAL CASH"`
	DigitalMethod     MSBDigitalMethod `json:"digitalMethod,omitempty" validate:"omitempty,oneof=BANK UPI"`
	BankDetails       *BankDetails     `json:"bankDetails,omitempty" validate:"-"`
	UPIDetails        *UPIDetails      `json:"upiDetails,omitempty" validate:"-"`
	CashDetails       *CashDetails     `json:"cashDetails,omitempty" validate:"-"`
	SourceAmount      decimal.Decimal  `json:"sourceAmount"`
	SourceCurrency    string           `json:"sourceCurrency"`
	ExchangeRate      decimal.Decimal  `json:"exchangeRate"`
	ReceivingAmount   decimal.Decimal  `json:"receivingAmount"`
	ReceivingCurrency string           `json:"receivingCurrency"`
	Status            MSBStatus        `json:"status" validate:"omitempty,oneof=PENDING PAID"`
}

// Clone returns a deep copy so snapshots never share sub-variant payloads.
func (d MSBDetails) Clone() MSBDetails {
	out := d
	if d.BankDetails != nil {
		b := *d.BankDetails
		out.BankDetails = &b
	}
	if d.UPIDetails != nil {
		u := *d.UPIDetails
		out.UPIDetails = &u
	}
	if d.CashDetails != nil {
		c := *d.CashDetails
		out.CashDetails = &c
	}
	return out
}

type Transaction struct {
	ID           string              `json:"id"`
	Description  string              `json:"description"`
	Amount       decimal.Decimal     `json:"amount"`
	Type         TransactionType     `json:"type"`
	Date         time.Time           `json:"date"`
	LastModified *time.Time          `json:"lastModified,omitempty"`
	Category     TransactionCategory `json:"category"`
	MSBDetails   *MSBDetails         `json:"msbDetails,omitempty"`
}

type Book struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Currency     string        `json:"currency"`
	Type         BookType      `json:"type"`
	Transactions []Transaction `json:"transactions"`
}

type User struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
	Email       string `json:"email"`
	// Password is an opaque comparison value, not a hash.
	Password string `json:"password"`
	Books    []Book `json:"books"`
}
