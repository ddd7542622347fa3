package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_DefaultVocabulary(t *testing.T) {
	m := NewStatusMap(nil)

	tests := []struct {
		raw  string
		want GatewayStatus
	}{
		{"success", GatewaySuccess},
		{"SUCCESS", GatewaySuccess},
		{"Successful", GatewaySuccess},
		{"completed", GatewaySuccess},
		{"paid", GatewaySuccess},
		{"pending", GatewayPending},
		{"processing", GatewayPending},
		{"initiated", GatewayPending},
		{"failed", GatewayFailed},
		{"cancelled", GatewayFailed},
		{"canceled", GatewayFailed},
		{"reversed", GatewayFailed},
		{"rejected", GatewayFailed},
		{"", GatewayUnknown},
		{"something-new", GatewayUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, m.Normalize(tt.raw), "raw status %q", tt.raw)
	}
}

func TestNormalize_Overrides(t *testing.T) {
	m := NewStatusMap(map[string]GatewayStatus{
		"Settled": GatewaySuccess,
		"paid":    GatewayFailed, // remap a default
	})

	assert.Equal(t, GatewaySuccess, m.Normalize("settled"))
	assert.Equal(t, GatewayFailed, m.Normalize("paid"))
	assert.Equal(t, GatewaySuccess, m.Normalize("success"))
}

func TestParseStatusOverrides(t *testing.T) {
	overrides := ParseStatusOverrides([]string{
		"settled=SUCCESS",
		"on_hold = pending",
		"garbage",
		"weird=NOT_A_STATUS",
	})

	assert.Equal(t, map[string]GatewayStatus{
		"settled": GatewaySuccess,
		"on_hold": GatewayPending,
	}, overrides)
}
