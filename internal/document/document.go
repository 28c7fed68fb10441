// Package document validates and formats Brazilian buyer documents
// (CPF, CNPJ, RG) and phone numbers.
package document

import (
	"strings"

	"github.com/roach88/balanca/internal/model"
)

// Digits strips everything except ASCII digits.
func Digits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

func allSame(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}

// ValidateCPF checks length and both check digits. Repeated-digit CPFs
// ("11111111111") are rejected whatever their checksum.
func ValidateCPF(cpf string) bool {
	d := Digits(cpf)
	if len(d) != 11 || allSame(d) {
		return false
	}
	return cpfDigit(d[:9], 10) == int(d[9]-'0') && cpfDigit(d[:10], 11) == int(d[10]-'0')
}

func cpfDigit(base string, weight int) int {
	sum := 0
	for i := 0; i < len(base); i++ {
		sum += int(base[i]-'0') * (weight - i)
	}
	r := 11 - sum%11
	if r > 9 {
		return 0
	}
	return r
}

// ValidateCNPJ checks length and both check digits.
func ValidateCNPJ(cnpj string) bool {
	d := Digits(cnpj)
	if len(d) != 14 || allSame(d) {
		return false
	}
	return cnpjDigit(d[:12]) == int(d[12]-'0') && cnpjDigit(d[:13]) == int(d[13]-'0')
}

func cnpjDigit(base string) int {
	sum := 0
	pos := len(base) - 7
	for i := 0; i < len(base); i++ {
		sum += int(base[i]-'0') * pos
		pos--
		if pos < 2 {
			pos = 9
		}
	}
	if sum%11 < 2 {
		return 0
	}
	return 11 - sum%11
}

// ValidateRG only checks that the document has 5 to 10 digits.
func ValidateRG(rg string) bool {
	n := len(Digits(rg))
	return n >= 5 && n <= 10
}

// Validate auto-detects the document kind by digit count. An empty document
// is valid because the field is optional.
func Validate(doc string) bool {
	if doc == "" {
		return true
	}
	return KindOf(doc) != model.DocumentInvalid
}

// KindOf infers the document kind: 11 digits CPF, 14 digits CNPJ,
// 5 to 10 digits RG. Check-digit failures yield DocumentInvalid.
func KindOf(doc string) model.DocumentKind {
	if doc == "" {
		return model.DocumentNone
	}
	d := Digits(doc)
	switch n := len(d); {
	case n == 11:
		if ValidateCPF(d) {
			return model.DocumentCPF
		}
	case n == 14:
		if ValidateCNPJ(d) {
			return model.DocumentCNPJ
		}
	case n >= 5 && n <= 10:
		return model.DocumentRG
	}
	return model.DocumentInvalid
}

// Format renders CPF as 000.000.000-00 and CNPJ as 00.000.000/0000-00.
// Anything else is returned as bare digits.
func Format(doc string) string {
	d := Digits(doc)
	switch len(d) {
	case 11:
		return d[0:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:11]
	case 14:
		return d[0:2] + "." + d[2:5] + "." + d[5:8] + "/" + d[8:12] + "-" + d[12:14]
	}
	return d
}

// FormatPhone renders (00) 00000-0000 or (00) 0000-0000.
func FormatPhone(phone string) string {
	d := Digits(phone)
	switch len(d) {
	case 11:
		return "(" + d[0:2] + ") " + d[2:7] + "-" + d[7:11]
	case 10:
		return "(" + d[0:2] + ") " + d[2:6] + "-" + d[6:10]
	}
	return d
}
