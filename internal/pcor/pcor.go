// Package pcor assembles the Preliminary Change of Ownership Report field
// map from deed facts and the transaction details a user enters.
package pcor

import (
	"strings"

	"github.com/a3tai/mcp-deed-forms/internal/deed"
	"github.com/a3tai/mcp-deed-forms/internal/forms"
)

// Transfer types a user may select.
const (
	TransferSale         = "sale"
	TransferGift         = "gift"
	TransferInheritance  = "inheritance"
	TransferInterspousal = "interspousal"
)

// TransactionData is user input. Any non-empty value wins over what was
// read from the deed.
type TransactionData struct {
	BuyerName  string `json:"buyerName"`
	BuyerPhone string `json:"buyerPhone"`
	BuyerEmail string `json:"buyerEmail"`
	SellerName string `json:"sellerName"`
	SignerName string `json:"signerName"`

	MailingAddress string `json:"mailingAddress"`
	MailingCity    string `json:"mailingCity"`
	MailingState   string `json:"mailingState"`
	MailingZip     string `json:"mailingZip"`

	TransferDate  string `json:"transferDate"`
	PurchasePrice string `json:"purchasePrice"`
	DownPayment   string `json:"downPayment"`

	PrincipalResidence *bool    `json:"principalResidence,omitempty"`
	TrustTransfer      *bool    `json:"trustTransfer,omitempty"`
	TransferTypes      []string `json:"transferTypes,omitempty"`

	PropertyAddress string `json:"propertyAddress"`
	PropertyCity    string `json:"propertyCity"`
	PropertyZip     string `json:"propertyZip"`
	APN             string `json:"apn"`
}

// Record is the merged view the form is filled from.
type Record struct {
	BuyerName  string `json:"buyerName"`
	BuyerPhone string `json:"buyerPhone"`
	BuyerEmail string `json:"buyerEmail"`
	SellerName string `json:"sellerName"`
	SignerName string `json:"signerName"`

	MailName    string `json:"mailName"`
	MailAddress string `json:"mailAddress"`
	MailCity    string `json:"mailCity"`
	MailState   string `json:"mailState"`
	MailZip     string `json:"mailZip"`

	PropertyAddress string `json:"propertyAddress"`
	PropertyCity    string `json:"propertyCity"`
	PropertyZip     string `json:"propertyZip"`
	APN             string `json:"apn"`

	RecordingDate  string `json:"recordingDate"`
	DocumentNumber string `json:"documentNumber"`

	TransferDate  string `json:"transferDate"`
	PurchasePrice string `json:"purchasePrice"`
	DownPayment   string `json:"downPayment"`

	PrincipalResidence *bool    `json:"principalResidence,omitempty"`
	TrustTransfer      *bool    `json:"trustTransfer,omitempty"`
	TransferTypes      []string `json:"transferTypes,omitempty"`
}

// Merge combines deed facts with user input. The deed's grantees are the
// current owners, so they become the transferor; the buyer defaults to the
// same people, which is the trust-transfer case.
func Merge(facts deed.Facts, txn TransactionData) Record {
	parties := joinNames(facts.PartyName1, facts.PartyName2)

	r := Record{
		BuyerName:  first(txn.BuyerName, parties),
		BuyerPhone: txn.BuyerPhone,
		BuyerEmail: txn.BuyerEmail,
		SellerName: first(txn.SellerName, facts.GranteeRaw),

		PropertyAddress: first(txn.PropertyAddress, facts.PropertyAddress),
		PropertyCity:    first(txn.PropertyCity, facts.PropertyCity),
		PropertyZip:     first(txn.PropertyZip, facts.PropertyZip),
		APN:             first(txn.APN, facts.APN),

		TransferDate:  txn.TransferDate,
		PurchasePrice: txn.PurchasePrice,
		DownPayment:   txn.DownPayment,

		PrincipalResidence: txn.PrincipalResidence,
		TrustTransfer:      txn.TrustTransfer,
		TransferTypes:      txn.TransferTypes,
	}
	if facts.RecordingDate != nil {
		r.RecordingDate = *facts.RecordingDate
	}
	if facts.DocumentNumber != nil {
		r.DocumentNumber = *facts.DocumentNumber
	}

	r.SignerName = first(txn.SignerName, r.BuyerName)
	r.MailName = r.BuyerName

	// Tax bills go to the property unless the user named another address.
	if txn.MailingAddress != "" {
		r.MailAddress = txn.MailingAddress
		r.MailCity = txn.MailingCity
		r.MailState = txn.MailingState
		r.MailZip = txn.MailingZip
	} else {
		r.MailAddress = r.PropertyAddress
		r.MailCity = first(txn.MailingCity, r.PropertyCity)
		r.MailState = txn.MailingState
		r.MailZip = first(txn.MailingZip, r.PropertyZip)
	}
	r.MailState = first(r.MailState, first(facts.PropertyState, deed.DefaultState))

	return r
}

// Build turns a record into the reconciler request for a form family.
// Values are transformed into the shapes PCOR templates expect and empty
// values are left out.
func Build(r Record, fam forms.Family) forms.Request {
	req := forms.Request{CleanSlate: fam.CleanSlate}

	text := func(key, value string) {
		if value = strings.TrimSpace(value); value != "" {
			req.Texts = append(req.Texts, fam.TextValue(key, value))
		}
	}
	check := func(key string) {
		req.Checks = append(req.Checks, fam.CheckValue(key))
	}

	text("buyer_name", r.BuyerName)
	text("buyer_phone", r.BuyerPhone)
	text("buyer_email", r.BuyerEmail)
	text("seller_name", r.SellerName)
	text("signer_name", r.SignerName)

	text("mail_name", r.MailName)
	text("mail_address", r.MailAddress)
	text("mail_city", r.MailCity)
	text("mail_state", r.MailState)
	text("mail_zip", r.MailZip)
	text("mail_address_full", forms.CompositeAddress(r.MailAddress, r.MailCity, r.MailState, r.MailZip))

	text("property_address", r.PropertyAddress)
	text("property_city", r.PropertyCity)
	text("property_zip", r.PropertyZip)
	text("property_address_full", forms.CompositeAddress(r.PropertyAddress, r.PropertyCity, "", r.PropertyZip))
	text("apn", r.APN)

	text("recording_date", r.RecordingDate)
	text("document_number", r.DocumentNumber)

	date := forms.SplitDate(r.TransferDate)
	text("transfer_date", date.Full)
	text("transfer_month", date.Month)
	text("transfer_day", date.Day)
	text("transfer_year", date.Year)

	text("purchase_price", forms.FormatCurrency(r.PurchasePrice))
	text("down_payment", forms.FormatCurrency(r.DownPayment))

	if r.PrincipalResidence != nil {
		if *r.PrincipalResidence {
			check("principal_residence_yes")
		} else {
			check("principal_residence_no")
		}
	}
	if r.TrustTransfer != nil {
		if *r.TrustTransfer {
			check("trust_transfer_yes")
		} else {
			check("trust_transfer_no")
		}
	}
	for _, t := range r.TransferTypes {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			check("transfer_" + t)
		}
	}

	return req
}

func joinNames(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	return a + " and " + b
}

func first(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
