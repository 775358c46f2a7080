package trustdeed

import "fmt"

type style int

const (
	styleBody style = iota
	styleHeading
	styleTitle
	styleCentered
	styleFine
)

// block is one paragraph of the deed. Every renderer walks the same blocks,
// so the three formats never drift apart in wording.
type block struct {
	text  string
	style style
	cols  []string // two-column row, used for signature lines
	boxed bool     // recording header, framed in the PDF
	rule  bool
	gap   bool
	page  bool // starts a new page
}

func para(s string) block    { return block{text: s} }
func heading(s string) block { return block{text: s, style: styleHeading} }
func gap() block             { return block{gap: true} }

func layout(d Deed) []block {
	m := d.Mailing
	boxed := func(b block) block { b.boxed = true; return b }

	return []block{
		boxed(heading("RECORDING REQUESTED BY")),
		boxed(para(d.TrustName)),
		boxed(gap()),
		boxed(heading("WHEN RECORDED MAIL TO")),
		boxed(para(m.Name)),
		boxed(para(m.Address)),
		boxed(para(m.CityStateZip)),
		{rule: true},
		{cols: []string{"APN: " + blank(d.APN, "_________________"), "Escrow No. ______________"}},
		gap(),
		{text: "TRUST TRANSFER DEED", style: styleTitle},
		{text: "(Grant Deed Excluded from Reappraisal Under Proposition 13,", style: styleCentered},
		{text: "i.e., Calif. Const. Art 13A Section 1, et seq.)", style: styleCentered},
		gap(),
		heading("DOCUMENTARY TRANSFER TAX IS: $ 0.00"),
		gap(),
		para("The undersigned Grantor(s) declare(s) under penalty of perjury that the foregoing is true " +
			"and correct: THERE IS NO CONSIDERATION FOR THIS TRANSFER."),
		gap(),
		para("This is a Trust Transfer under section 62 of the Revenue and Taxation Code and " +
			"Grantor(s) has/have checked the applicable exclusions:"),
		gap(),
		para("[X] This conveyance transfers the Grantors interest into his or her revocable trust, R&T 11930."),
		gap(),
		para(fmt.Sprintf("GRANTOR(S) %s, hereby GRANT(s) to", d.Grantors)),
		gap(),
		para(d.Trustees + ", AND ANY AMENDMENTS THERETO"),
		gap(),
		para(fmt.Sprintf("the real property in the CITY OF %s County of %s State of CA, described as:",
			blank(d.PropertyCity, "_________________"), d.County)),
		gap(),
		para(blank(d.LegalDescription, "[INSERT LEGAL DESCRIPTION HERE]")),
		gap(),
		para("Commonly known as: " + blank(d.PropertyAddress, "_________________")),
		gap(),
		para("Dated: " + d.Dated),
		gap(),
		gap(),
		{cols: []string{"_________________________________", "_________________________________"}},
		{cols: []string{d.Grantor1Name, d.Grantor2Name}},
		gap(),
		heading("MAIL TAX STATEMENTS TO:"),
		para(m.Name),
		para(m.Address),
		para(m.CityStateZip),

		{text: "NOTARY ACKNOWLEDGMENT", style: styleTitle, page: true},
		gap(),
		{cols: []string{"STATE OF CALIFORNIA", ")"}},
		{cols: []string{"", ") SS."}},
		{cols: []string{"COUNTY OF ______________", ")"}},
		gap(),
		para("On ________________, before me, ___________________________________, a Notary Public, " +
			"personally appeared ____________________________________________, who proved to me on " +
			"the basis of satisfactory evidence to be the person whose name is subscribed to the " +
			"within instrument acknowledged to me that he/she/they executed the same in his/her/their " +
			"authorized capacity, and that by his/her/their signature on the instrument the person, " +
			"or the entity upon behalf of which the person acted, executed the instrument."),
		gap(),
		para("I certify under PENALTY OF PERJURY under the laws of the State of California that the " +
			"foregoing paragraph is true and correct."),
		gap(),
		para("WITNESS my hand and official seal."),
		gap(),
		gap(),
		para("Notary Public __________________________________ (SEAL)"),
		gap(),
		para("Print Name of Notary _______________________________"),
		gap(),
		para("My Commission Expires: ______________."),
		gap(),
		{rule: true},
		{text: "A notary public or other officer completing this certificate verifies only the identity of " +
			"the individual who signed the document to which this certificate is attached, and not the " +
			"truthfulness, accuracy, or validity of that document.", style: styleFine},
		{rule: true},
	}
}
