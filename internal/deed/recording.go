package deed

import "strings"

const monthNames = `(?i:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|` +
	`sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)`

const dateExpr = `(` + monthNames + `\.?[ \t]+\d{1,2},?[ \t]+\d{4}|\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`

var recordingDateRules = []rule{
	mustRule("recording-date",
		`(?i:recording[ \t]+date|date[ \t]+recorded|recorded(?:[ \t]+on)?)[ \t]*[:;]?[ \t]*`+dateExpr),
}

var documentNumberRules = []rule{
	mustRule("document-number",
		`(?i:(?:document|instrument|recording)[ \t]*(?:no\.?|number|#))[ \t]*[:;#]?[ \t]*(\d{4}-?\d+)`),
	mustRule("doc-hash", `(?i:doc\.?[ \t]*(?:no\.?|#))[ \t]*:?[ \t]*(\d{4}-?\d+)`),
}

// ExtractRecordingInfo reads the recorder's stamp. A value that is not
// present stays nil rather than becoming an empty string.
func ExtractRecordingInfo(text string) RecordingInfo {
	var info RecordingInfo
	if h, ok := firstAccepted(text, recordingDateRules, acceptNonEmpty); ok {
		info.RecordingDate = &h.Value
	}
	if h, ok := firstAccepted(text, documentNumberRules, acceptNonEmpty); ok {
		info.DocumentNumber = &h.Value
	}
	return info
}

// ExtractDocumentType returns the first known deed type named in the text,
// or DocTypeGeneric.
func ExtractDocumentType(text string) string {
	upper := strings.ToUpper(collapseSpace(text))
	for _, dt := range documentTypes {
		if strings.Contains(upper, dt) {
			return dt
		}
	}
	return DocTypeGeneric
}

func acceptNonEmpty(raw string) (string, bool) {
	v := collapseSpace(raw)
	return v, v != ""
}
