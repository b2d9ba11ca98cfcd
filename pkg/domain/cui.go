package domain

import (
	"strings"

	dErrors "solidario/pkg/domain-errors"
)

// CUI is the Guatemalan national identity number: 13 digits carrying an
// 8-digit correlative, a check digit, and the department/municipality codes
// where the document was issued. The canonical written form groups the
// digits 4+5+4 ("2997 19278 0101"); the stored form is digits only.
//
// A CUI can only be obtained through ParseCUI, so holding a non-zero CUI
// means the structure and checksum already validated.
type CUI struct {
	value string
}

// DepartmentCount is the number of departments encoded in a CUI.
const DepartmentCount = 22

// municipalityCounts holds the number of municipalities per department,
// indexed by department code - 1. The municipality code inside a CUI must
// not exceed the count for its department.
var municipalityCounts = [DepartmentCount]int{
	17, // 01 Guatemala
	8,  // 02 El Progreso
	16, // 03 Sacatepéquez
	16, // 04 Chimaltenango
	13, // 05 Escuintla
	14, // 06 Santa Rosa
	19, // 07 Sololá
	8,  // 08 Totonicapán
	24, // 09 Quetzaltenango
	21, // 10 Suchitepéquez
	9,  // 11 Retalhuleu
	30, // 12 San Marcos
	32, // 13 Huehuetenango
	21, // 14 Quiché
	8,  // 15 Baja Verapaz
	17, // 16 Alta Verapaz
	14, // 17 Petén
	5,  // 18 Izabal
	11, // 19 Zacapa
	11, // 20 Chiquimula
	7,  // 21 Jalapa
	17, // 22 Jutiapa
}

// MunicipalityCount returns how many municipality codes are valid for the
// given department code (1-based). Zero for out-of-range departments.
func MunicipalityCount(department int) int {
	if department < 1 || department > DepartmentCount {
		return 0
	}
	return municipalityCounts[department-1]
}

// ParseCUI validates a candidate CUI string and returns the typed value.
// Separating spaces are tolerated; anything else must be a digit. Malformed
// input yields a domain error, never a panic.
func ParseCUI(s string) (CUI, error) {
	if s == "" {
		return CUI{}, dErrors.New(dErrors.CodeInvalidInput, "CUI cannot be empty")
	}
	digits := strings.ReplaceAll(s, " ", "")
	if len(digits) != 13 {
		return CUI{}, dErrors.New(dErrors.CodeValidation, "CUI must have 13 digits")
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return CUI{}, dErrors.New(dErrors.CodeValidation, "CUI must contain only digits")
		}
	}

	department := int(digits[9]-'0')*10 + int(digits[10]-'0')
	municipality := int(digits[11]-'0')*10 + int(digits[12]-'0')
	if department == 0 || municipality == 0 {
		return CUI{}, dErrors.New(dErrors.CodeValidation, "CUI has an invalid issuing region")
	}
	if department > DepartmentCount || municipality > municipalityCounts[department-1] {
		return CUI{}, dErrors.New(dErrors.CodeValidation, "CUI has an invalid issuing region")
	}

	// Weighted checksum over the 8-digit correlative: each digit is
	// multiplied by its position + 2, and the sum mod 11 must match the
	// ninth digit.
	sum := 0
	for i := 0; i < 8; i++ {
		sum += int(digits[i]-'0') * (i + 2)
	}
	if sum%11 != int(digits[8]-'0') {
		return CUI{}, dErrors.New(dErrors.CodeValidation, "CUI checksum mismatch")
	}

	return CUI{value: digits}, nil
}

// IsValidCUI reports whether the candidate passes CUI validation. It is a
// convenience for callers that only need a yes/no answer.
func IsValidCUI(s string) bool {
	_, err := ParseCUI(s)
	return err == nil
}

// SanitizeCUIInput keeps only digits and caps the result at 13 characters,
// mirroring what the registration form applies on every keystroke.
func SanitizeCUIInput(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			if b.Len() == 13 {
				break
			}
		}
	}
	return b.String()
}

// String returns the 13 digits without separators.
func (c CUI) String() string { return c.value }

// Formatted returns the canonical 4+5+4 grouping for display.
func (c CUI) Formatted() string {
	if c.value == "" {
		return ""
	}
	return c.value[:4] + " " + c.value[4:9] + " " + c.value[9:]
}

// Department returns the issuing department code (1-22).
func (c CUI) Department() int {
	if c.value == "" {
		return 0
	}
	return int(c.value[9]-'0')*10 + int(c.value[10]-'0')
}

// Municipality returns the issuing municipality code within the department.
func (c CUI) Municipality() int {
	if c.value == "" {
		return 0
	}
	return int(c.value[11]-'0')*10 + int(c.value[12]-'0')
}

// IsZero reports whether the CUI is the zero value.
func (c CUI) IsZero() bool { return c.value == "" }
