package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateMSISDN(t *testing.T) {
	tests := []struct {
		name           string
		msisdn         string
		expectValid    bool
		expectedFormat string
		expectError    bool
	}{
		{
			name:           "Valid Tigo number with leading zero",
			msisdn:         "0712345678",
			expectValid:    true,
			expectedFormat: "255712345678",
			expectError:    false,
		},
		{
			name:           "Valid Vodacom number with country code",
			msisdn:         "255754123456",
			expectValid:    true,
			expectedFormat: "255754123456",
			expectError:    false,
		},
		{
			name:           "Valid Airtel number with plus sign",
			msisdn:         "+255789123456",
			expectValid:    true,
			expectedFormat: "255789123456",
			expectError:    false,
		},
		{
			name:           "Valid number with spaces",
			msisdn:         "0754 123 456",
			expectValid:    true,
			expectedFormat: "255754123456",
			expectError:    false,
		},
		{
			name:           "Valid number with dashes",
			msisdn:         "0689-123-456",
			expectValid:    true,
			expectedFormat: "255689123456",
			expectError:    false,
		},
		{
			name:           "Valid Halotel number without leading zero",
			msisdn:         "621234567",
			expectValid:    true,
			expectedFormat: "255621234567",
			expectError:    false,
		},
		{
			name:        "Unsupported operator prefix",
			msisdn:      "0811234567",
			expectValid: false,
			expectError: true,
		},
		{
			name:        "Too short",
			msisdn:      "071234",
			expectValid: false,
			expectError: true,
		},
		{
			name:        "Too long",
			msisdn:      "07123456789",
			expectValid: false,
			expectError: true,
		},
		{
			name:        "Non-numeric input",
			msisdn:      "07abc45678",
			expectValid: false,
			expectError: true,
		},
		{
			name:        "Empty input",
			msisdn:      "",
			expectValid: false,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, formatted, err := ValidateMSISDN(tt.msisdn)

			assert.Equal(t, tt.expectValid, valid)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedFormat, formatted)
			}
		})
	}
}
