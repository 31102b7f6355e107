package msisdn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domerrors "github.com/telcoinsight/keluhan-bot-go/internal/errors"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"already canonical", "628111992172", "628111992172", false},
		{"local zero prefix", "08111992172", "628111992172", false},
		{"bare subscriber", "8111992172", "628111992172", false},
		{"plus prefix", "+628111992172", "628111992172", false},
		{"whitespace", " 08111992172 ", "628111992172", false},
		{"letters", "hello", "", true},
		{"mixed digits and text", "62abc811", "", true},
		{"empty", "", "", true},
		{"landline style", "0218765432", "", true},
		{"country code without 8", "62711992172", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, domerrors.ErrInvalidMSISDN)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"08111992172", "628111992172", "+628523344556", "8170001111"}
	for _, in := range inputs {
		once, err := Normalize(in)
		require.NoError(t, err)
		twice, err := Normalize(once)
		require.NoError(t, err)
		assert.Equal(t, once, twice)
	}
}

func TestValidateOperators(t *testing.T) {
	tests := []struct {
		input string
		op    Operator
	}{
		{"08111992172", OperatorTelkomsel},
		{"08521234567", OperatorTelkomsel},
		{"08151234567", OperatorIndosat},
		{"08571234567", OperatorIndosat},
		{"08171234567", OperatorXL},
		{"08781234567", OperatorXL},
		{"08381234567", OperatorAxis},
		{"08961234567", OperatorThree},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			res := Validate(tt.input)
			require.True(t, res.Valid, "expected valid, got error: %v", res.Err)
			assert.Equal(t, tt.op, res.Operator)
		})
	}
}

func TestValidateRejectsUnknownPrefix(t *testing.T) {
	res := Validate("08011234567") // 801 is not an operator prefix
	assert.False(t, res.Valid)
	assert.ErrorIs(t, res.Err, domerrors.ErrInvalidOperator)
}

func TestValidateRejectsBadLength(t *testing.T) {
	// Normalizes fine but too short for a subscriber number.
	res := Validate("08111")
	assert.False(t, res.Valid)
	assert.ErrorIs(t, res.Err, domerrors.ErrInvalidOperator)

	// 16 digits normalized, one past MaxLength.
	res = Validate("6281119921721234")
	assert.False(t, res.Valid)
	assert.ErrorIs(t, res.Err, domerrors.ErrInvalidOperator)
}

func TestIsTelkomsel(t *testing.T) {
	assert.True(t, IsTelkomsel("08111992172"))
	assert.True(t, IsTelkomsel("628531234567"))
	assert.False(t, IsTelkomsel("08171234567")) // XL
	assert.False(t, IsTelkomsel("not a number"))
}

func TestNormalizeForAPI(t *testing.T) {
	got, err := NormalizeForAPI("08111992172")
	require.NoError(t, err)
	assert.Equal(t, "8111992172", got)

	got, err = NormalizeForAPI("628111992172")
	require.NoError(t, err)
	assert.Equal(t, "8111992172", got)

	_, err = NormalizeForAPI("bogus")
	assert.Error(t, err)
}

func TestFormatDisplay(t *testing.T) {
	assert.Equal(t, "628-111-992-172", FormatDisplay("08111992172"))
	assert.Equal(t, "unparseable", FormatDisplay("unparseable"))
}
