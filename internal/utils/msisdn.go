package utils

import (
	"fmt"
	"regexp"
	"strings"
)

// PREFIXES defines the valid prefixes for the supported mobile-money operators
var PREFIXES = struct {
	VODACOM []int
	TIGO    []int
	AIRTEL  []int
	HALOTEL []int
}{
	VODACOM: []int{74, 75, 76},
	TIGO:    []int{65, 67, 71},
	AIRTEL:  []int{68, 69, 78},
	HALOTEL: []int{61, 62},
}

// ValidateMSISDN validates a phone number format and checks that it belongs to
// a supported Tanzanian mobile-money operator. On success it returns the
// number formatted with the 255 country code, which is what the gateway expects.
func ValidateMSISDN(msisdn string) (bool, string, error) {
	// Clean the input by removing any separator characters
	stripped := strings.ReplaceAll(msisdn, "-", "")
	stripped = strings.ReplaceAll(stripped, " ", "")
	stripped = strings.ReplaceAll(stripped, "+", "")

	// Remove country code if present
	if strings.HasPrefix(stripped, "255") {
		stripped = stripped[3:]
	} else if strings.HasPrefix(stripped, "0") {
		stripped = stripped[1:]
	}

	prefixes := make([]string, 0,
		len(PREFIXES.VODACOM)+len(PREFIXES.TIGO)+len(PREFIXES.AIRTEL)+len(PREFIXES.HALOTEL))
	for _, group := range [][]int{PREFIXES.VODACOM, PREFIXES.TIGO, PREFIXES.AIRTEL, PREFIXES.HALOTEL} {
		for _, prefix := range group {
			prefixes = append(prefixes, fmt.Sprintf("%d", prefix))
		}
	}

	pattern := fmt.Sprintf("^(%s)\\d{7}$", strings.Join(prefixes, "|"))
	isValid := regexp.MustCompile(pattern).MatchString(stripped)

	if !isValid {
		return false, "", fmt.Errorf("invalid MSISDN format or unsupported operator")
	}

	// Format with country code
	formatted := "255" + stripped

	return true, formatted, nil
}
