package deed

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanName(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain", "John Smith", "John Smith"},
		{"trailing comma", "John Smith,", "John Smith"},
		{"husband and wife", "John Smith and Jane Smith, husband and wife", "John Smith and Jane Smith"},
		{"married man", "ROBERT LEE, a married man", "ROBERT LEE"},
		{"unmarried woman", "Maria Garcia, an unmarried woman as her sole and separate property", "Maria Garcia"},
		{"trustee", "Jane Doe, Trustee of the Doe Trust", "Jane Doe"},
		{"successor trustee", "Jane Doe as Successor Trustee", "Jane Doe"},
		{"suffix jr", "Henry Ford Jr. and Clara Ford", "Henry Ford"},
		{"roman numeral", "Thurston Howell III", "Thurston Howell"},
		{"honorific", "Mr. John Smith", "John Smith"},
		{"whitespace", "  John \n   Smith  ", "John Smith"},
		{"individually", "Pat Lee, individually", "Pat Lee"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanName(tt.raw))
		})
	}
}

func TestCleanNameIdempotent(t *testing.T) {
	inputs := []string{
		"John Smith and Jane Smith, husband and wife as joint tenants",
		"Mr. and Mrs. John Smith",
		"ROBERT LEE, a married man, as his sole and separate property",
		"Jane Doe, Trustee, and John Doe, Trustee",
		"A and",
		"Dr. Mary Jones, an unmarried woman",
		", , ,",
		"Estate of Smith, the",
	}

	for _, in := range inputs {
		once := CleanName(in)
		assert.Equal(t, once, CleanName(once), "input %q", in)
	}
}

func TestSplitIntoTwoNames(t *testing.T) {
	tests := []struct {
		name  string
		full  string
		want1 string
		want2 string
	}{
		{"and", "John Smith and Jane Smith", "John Smith", "Jane Smith"},
		{"upper AND", "JOHN SMITH AND JANE SMITH", "JOHN SMITH", "JANE SMITH"},
		{"ampersand", "John Smith & Jane Smith", "John Smith", "Jane Smith"},
		{"comma", "John Smith, Jane Smith", "John Smith", "Jane Smith"},
		{"comma before trustee", "Jane Doe, Trustee", "Jane Doe, Trustee", ""},
		{"and wins over comma", "Smith, John and Smith, Jane", "Smith, John", "Smith, Jane"},
		{"single", "John Smith", "John Smith", ""},
		{"qualifier cleaned", "John Smith and Jane Smith, husband and wife", "John Smith", "Jane Smith"},
		{"empty", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got1, got2 := SplitIntoTwoNames(tt.full)
			assert.Equal(t, tt.want1, got1)
			assert.Equal(t, tt.want2, got2)
		})
	}
}

func TestSplitIntoTwoNamesTotal(t *testing.T) {
	inputs := []string{
		"Trustee and Trustee",
		"and",
		"Husband & Wife",
		"X",
		"John Smith, trustee, Jane Smith",
		"LIVING TRUST",
	}

	for _, in := range inputs {
		name1, _ := SplitIntoTwoNames(in)
		assert.NotEmpty(t, name1, "input %q", in)
	}

	_, name2 := SplitIntoTwoNames("John Smith")
	assert.Empty(t, name2)
}

func TestExtractGranteeAndGrantor(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		wantGrantee string
		wantGrantor string
	}{
		{
			name:        "grant to with qualifier",
			text:        "FOR A VALUABLE CONSIDERATION, receipt of which is hereby acknowledged, Robert Brown hereby GRANTS to John Smith and Jane Smith, husband and wife as joint tenants",
			wantGrantee: "John Smith and Jane Smith",
			wantGrantor: "Robert Brown",
		},
		{
			name:        "upper case pair",
			text:        "MARY JONES\nhereby GRANT(S) to JOHN SMITH AND JANE SMITH\nthe real property",
			wantGrantee: "JOHN SMITH AND JANE SMITH",
			wantGrantor: "MARY JONES",
		},
		{
			name:        "generic to",
			text:        "This conveyance is made to Alice Walker for the benefit of the family.",
			wantGrantee: "Alice Walker",
		},
		{
			name:        "labels",
			text:        "Grantor: Peter Parker\nGrantee: Mary Watson",
			wantGrantee: "Mary Watson",
			wantGrantor: "Peter Parker",
		},
		{
			name:        "mail to fallback",
			text:        "WHEN RECORDED MAIL TO:\nLinda Park\n4567 Elm Avenue",
			wantGrantee: "Linda Park",
		},
		{
			name: "mail to title company rejected",
			text: "WHEN RECORDED MAIL TO:\nFirst American Title\n4567 Elm Avenue",
		},
		{
			name:        "leading grantor label",
			text:        "The grantor Mary Lee, an unmarried woman, hereby grants to Tom Reed and Ann Reed, husband and wife",
			wantGrantee: "Tom Reed and Ann Reed",
			wantGrantor: "Mary Lee",
		},
		{
			name:        "bare grantor label before grant",
			text:        "Grantor Paul Green hereby grants to John Smith and Jane Smith",
			wantGrantee: "John Smith and Jane Smith",
			wantGrantor: "Paul Green",
		},
		{
			name:        "married line",
			text:        "SAMUEL OAK, a married man\nwhose address is",
			wantGrantor: "SAMUEL OAK",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grantee, grantor := ExtractGranteeAndGrantor(NormalizeText(tt.text))
			assert.Equal(t, tt.wantGrantee, grantee)
			assert.Equal(t, tt.wantGrantor, grantor)
		})
	}
}

func TestExtractGranteeAndGrantorMiss(t *testing.T) {
	texts := []string{
		"",
		"lorem ipsum dolor sit amet",
		"12345 67890 !!!",
		"the quick brown fox jumps over the lazy dog",
	}

	for _, text := range texts {
		assert.NotPanics(t, func() {
			grantee, grantor := ExtractGranteeAndGrantor(text)
			assert.Empty(t, grantee)
			assert.Empty(t, grantor)
		})
	}
}
