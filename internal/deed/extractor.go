package deed

import (
	"io"
	"log/slog"
	"unicode/utf8"

	"github.com/google/uuid"
)

// PreviewLength caps the raw text echoed back in a Report.
const PreviewLength = 2000

// Report is an extraction result with the diagnostics a caller needs to
// judge its quality.
type Report struct {
	ID      string            `json:"id"`
	Facts   Facts             `json:"facts"`
	Pages   int               `json:"pages"`
	Method  string            `json:"method,omitempty"`
	Rules   map[string]string `json:"rules"`
	Preview string            `json:"preview"`
}

// Extractor turns deed text into Facts. It holds no per-document state and
// is safe for concurrent use.
type Extractor struct {
	log *slog.Logger
}

// NewExtractor returns an Extractor logging misses at debug level. A nil
// logger discards output.
func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Extractor{log: logger.With("component", "deed")}
}

// Extract runs every field extraction over the normalized text.
func Extract(text string) Facts {
	return NewExtractor(nil).Extract(text)
}

// Extract normalizes text once and extracts all facts from it.
func (e *Extractor) Extract(text string) Facts {
	facts, _ := e.extract(NormalizeText(text))
	return facts
}

// Report extracts facts and records which rule produced each value.
func (e *Extractor) Report(text string, pages int, method string) Report {
	clean := NormalizeText(text)
	facts, rules := e.extract(clean)

	preview := clean
	if utf8.RuneCountInString(preview) > PreviewLength {
		preview = string([]rune(preview)[:PreviewLength])
	}

	return Report{
		ID:      uuid.NewString(),
		Facts:   facts,
		Pages:   pages,
		Method:  method,
		Rules:   rules,
		Preview: preview,
	}
}

func (e *Extractor) extract(text string) (Facts, map[string]string) {
	rules := make(map[string]string)
	record := func(field, rule string) {
		if rule == "" {
			e.log.Debug("no match", "field", field)
			return
		}
		rules[field] = rule
	}

	f := Facts{PropertyState: DefaultState}

	var rule string
	f.GranteeRaw, rule = extractGrantee(text)
	record("grantee", rule)
	f.GrantorRaw, rule = extractGrantor(text)
	record("grantor", rule)

	if f.GranteeRaw != "" {
		f.PartyName1, f.PartyName2 = SplitIntoTwoNames(f.GranteeRaw)
	}

	var addr Address
	addr, rule = extractAddress(text)
	record("address", rule)
	f.PropertyAddress, f.PropertyCity, f.PropertyZip = addr.Street, addr.City, addr.Zip

	f.APN, rule = extractAPN(text)
	record("apn", rule)

	f.LegalDescription, rule = extractLegalDescription(text)
	record("legalDescription", rule)

	f.DocumentType = ExtractDocumentType(text)

	info := ExtractRecordingInfo(text)
	f.RecordingDate, f.DocumentNumber = info.RecordingDate, info.DocumentNumber

	e.log.Debug("deed extracted",
		"grantee", f.GranteeRaw != "",
		"grantor", f.GrantorRaw != "",
		"address", f.PropertyAddress != "",
		"apn", f.APN != "",
		"legal", f.LegalDescription != "",
		"docType", f.DocumentType)

	return f, rules
}
