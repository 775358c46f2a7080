// Package deed extracts party, property and recording facts from the text of
// recorded California deeds. Every extraction is best effort: a value that
// cannot be located comes back as an empty string, never as an error.
package deed

// DefaultState is assumed for every property because the patterns are tuned
// for California recordings.
const DefaultState = "CA"

// MaxLegalDescription bounds the legal description copied out of a deed.
const MaxLegalDescription = 2000

// Document types recognised in deed headers, in the order they are tested.
const (
	DocTypeGrant        = "GRANT DEED"
	DocTypeWarranty     = "WARRANTY DEED"
	DocTypeQuitclaim    = "QUITCLAIM DEED"
	DocTypeTrust        = "TRUST DEED"
	DocTypeDeedOfTrust  = "DEED OF TRUST"
	DocTypeInterspousal = "INTERSPOUSAL TRANSFER DEED"
	DocTypeTransfer     = "TRANSFER DEED"
	DocTypeGeneric      = "DEED"
)

var documentTypes = []string{
	DocTypeGrant,
	DocTypeWarranty,
	DocTypeQuitclaim,
	DocTypeTrust,
	DocTypeDeedOfTrust,
	DocTypeInterspousal,
	DocTypeTransfer,
}

// Facts is the flat record produced from one deed. String fields are empty
// when not found; the two recording fields are nil when not found so callers
// can tell "absent" apart from "present but blank".
type Facts struct {
	GranteeRaw       string  `json:"granteeRaw"`
	GrantorRaw       string  `json:"grantorRaw"`
	PartyName1       string  `json:"partyName1"`
	PartyName2       string  `json:"partyName2"`
	PropertyAddress  string  `json:"propertyAddress"`
	PropertyCity     string  `json:"propertyCity"`
	PropertyState    string  `json:"propertyState"`
	PropertyZip      string  `json:"propertyZip"`
	APN              string  `json:"apn"`
	LegalDescription string  `json:"legalDescription"`
	DocumentType     string  `json:"documentType"`
	RecordingDate    *string `json:"recordingDate,omitempty"`
	DocumentNumber   *string `json:"documentNumber,omitempty"`
}

// RecordingInfo holds the optional recorder stamp values.
type RecordingInfo struct {
	RecordingDate  *string `json:"recordingDate,omitempty"`
	DocumentNumber *string `json:"documentNumber,omitempty"`
}

// Address is the street/city/zip triple found in a deed.
type Address struct {
	Street string `json:"address"`
	City   string `json:"city"`
	Zip    string `json:"zip"`
}
