// Package msisdn validates and normalizes Indonesian mobile numbers.
// The canonical form is 628 followed by the subscriber digits; a separate
// helper produces the 8xx form the SmartCare API expects.
package msisdn

import (
	"regexp"
	"strings"

	domerrors "github.com/telcoinsight/keluhan-bot-go/internal/errors"
)

// Operator identifies an Indonesian mobile carrier.
type Operator string

// Known carriers, keyed by the 3-digit prefix after the 62 country code.
const (
	OperatorTelkomsel Operator = "Telkomsel"
	OperatorIndosat   Operator = "Indosat"
	OperatorXL        Operator = "XL"
	OperatorAxis      Operator = "Axis"
	OperatorThree     Operator = "Three"
)

// Normalized length bounds for the 628... form.
const (
	MinLength = 12
	MaxLength = 15
)

// operatorPrefixes maps the 3-digit prefix (positions 2-4 of the normalized
// number, i.e. 8xx) to its carrier.
var operatorPrefixes = map[string]Operator{
	"811": OperatorTelkomsel, "812": OperatorTelkomsel, "813": OperatorTelkomsel,
	"821": OperatorTelkomsel, "822": OperatorTelkomsel, "823": OperatorTelkomsel,
	"851": OperatorTelkomsel, "852": OperatorTelkomsel, "853": OperatorTelkomsel,

	"814": OperatorIndosat, "815": OperatorIndosat, "816": OperatorIndosat,
	"855": OperatorIndosat, "856": OperatorIndosat, "857": OperatorIndosat,
	"858": OperatorIndosat,

	"817": OperatorXL, "818": OperatorXL, "819": OperatorXL,
	"859": OperatorXL, "877": OperatorXL, "878": OperatorXL,

	"831": OperatorAxis, "832": OperatorAxis, "833": OperatorAxis,
	"838": OperatorAxis,

	"895": OperatorThree, "896": OperatorThree, "897": OperatorThree,
	"898": OperatorThree, "899": OperatorThree,
}

var digitsOnly = regexp.MustCompile(`^\d+$`)

// ValidationResult carries the outcome of Validate.
type ValidationResult struct {
	Valid      bool
	Operator   Operator
	Normalized string
	Err        error
}

// Normalize converts any accepted input form (+628..., 628..., 08..., 8...)
// to the canonical 628... form. Returns ErrInvalidMSISDN when the input does
// not look like a phone number at all. Idempotent for already-normalized
// input.
func Normalize(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "+")
	if s == "" || !digitsOnly.MatchString(s) {
		return "", domerrors.ErrInvalidMSISDN
	}

	switch {
	case strings.HasPrefix(s, "62"):
		// Already has country code
	case strings.HasPrefix(s, "0"):
		s = "62" + s[1:]
	case strings.HasPrefix(s, "8"):
		s = "62" + s
	default:
		return "", domerrors.ErrInvalidMSISDN
	}

	if !strings.HasPrefix(s, "628") {
		return "", domerrors.ErrInvalidMSISDN
	}
	return s, nil
}

// Validate normalizes the input and checks length and operator prefix.
// The two failure modes are distinct: format errors mean "not a phone
// number", operator errors mean "a number, but not one we recognize".
func Validate(raw string) ValidationResult {
	normalized, err := Normalize(raw)
	if err != nil {
		return ValidationResult{Err: err}
	}

	if len(normalized) < MinLength || len(normalized) > MaxLength {
		return ValidationResult{Normalized: normalized, Err: domerrors.ErrInvalidOperator}
	}

	op, ok := operatorPrefixes[normalized[2:5]]
	if !ok {
		return ValidationResult{Normalized: normalized, Err: domerrors.ErrInvalidOperator}
	}

	return ValidationResult{
		Valid:      true,
		Operator:   op,
		Normalized: normalized,
	}
}

// IsTelkomsel reports whether the number is a valid Telkomsel MSISDN.
// Callers must check this before any SmartCare lookup.
func IsTelkomsel(raw string) bool {
	res := Validate(raw)
	return res.Valid && res.Operator == OperatorTelkomsel
}

// NormalizeForAPI produces the 8xx form the SmartCare API expects by
// stripping the 62 country code from the canonical form. Kept separate from
// Normalize so the two representations cannot be double-stripped by
// accident.
func NormalizeForAPI(raw string) (string, error) {
	normalized, err := Normalize(raw)
	if err != nil {
		return "", err
	}
	return strings.TrimPrefix(normalized, "62"), nil
}

// FormatDisplay renders the canonical form as 628-xxx-xxx-xxx for user
// facing messages. Input that fails to normalize is returned unchanged.
func FormatDisplay(raw string) string {
	normalized, err := Normalize(raw)
	if err != nil {
		return raw
	}

	var b strings.Builder
	b.WriteString(normalized[:3])
	for i := 3; i < len(normalized); i += 3 {
		end := i + 3
		if end > len(normalized) {
			end = len(normalized)
		}
		b.WriteByte('-')
		b.WriteString(normalized[i:end])
	}
	return b.String()
}
