package descriptions

// Tool descriptions shown to MCP clients, with examples and typical workflows.

const (
	DeedExtractDescription = `Extract the ownership facts from a recorded deed PDF.

**When to use:** You have a grant deed, quitclaim deed or trust transfer deed and need the parties, property and recording data in structured form.

**What you get:** Grantee and grantor, property street address and city, APN, legal description, document number, recording date and the raw page text. Scanned deeds are read with OCR when the server has an OCR engine configured.

**Examples:**
• "Who are the current owners on deeds/2019-grant-deed.pdf?"
• "Get the APN and legal description from the recorded deed before preparing a PCOR"

**Common workflows:**
1. deed_extract → review facts → pcor_fill with the facts object
2. deed_extract → trust_deed_generate with deed_path to prefill the trust deed

**Notes:** Missing values are reported as "(not found)". Check the OCR line in the response when the deed is a scan.`

	FormFieldsDescription = `List every fillable field in a PCOR template.

**When to use:** Before filling a county's Preliminary Change of Ownership Report, or when a new county form needs a family entry.

**What you get:** The detected form family, each field with its kind (text, checkbox, radio, dropdown), current value and read-only flag, plus the mapping the reconciler would use for each known concept.

**Examples:**
• "Show the fields in los_angeles_pcor.pdf"
• "Which checkbox does this county use for principal residence?"

**Notes:** Templates are looked up in the templates directory by exact or fuzzy file name.`

	PCORFillDescription = `Fill a Preliminary Change of Ownership Report from deed facts and transaction data.

**When to use:** A property is being transferred and the county PCOR must accompany the deed for recording.

**How it works:** Deed facts come from deed_path or from an earlier deed_extract result passed as facts. Transaction data supplies buyer and seller contacts, mailing address, transfer date, purchase price and the yes/no answers. Each value is matched to a template field by exact name, alias, substring or checkbox position for the form family.

**Examples:**
• "Fill los_angeles_pcor.pdf from deeds/grant-deed.pdf, principal residence yes"
• "Dry run the PCOR with these facts and show which fields would be set"

**Common workflows:**
1. form_fields → pcor_fill with dry_run=true → review → pcor_fill
2. deed_extract → edit facts → pcor_fill with facts

**Notes:** The filled PDF is saved inside the workspace, under filled/ unless output is given, and returned as a data URL.`

	TrustDeedGenerateDescription = `Generate a trust transfer deed that moves a property into the owners' living trust.

**When to use:** Owners are funding a revocable living trust and need a deed from themselves as individuals to themselves as trustees.

**What you get:** A recordable deed in PDF, DOCX or plain text with the recording block, APN, documentary transfer tax exemption, grantor and trustee language, property description and notary acknowledgment.

**Examples:**
• "Create a trust deed for John and Jane Smith into the Smith Family Living Trust dated 2020-01-15"
• "Prefill a trust deed from deeds/grant-deed.pdf as docx"

**Notes:** Blank fields are filled from deed_path when given. The trust name defaults to the grantors' surname family trust.`

	ServerInfoDescription = `Get server information, available templates, form families and usage guidance.

**When to use:** At the start of a session to see which county templates are installed and whether OCR is available.

**What you get:** Server name and version, workspace and templates directory, OCR engine, known form families, template files and a short guide to the tools.`
)
