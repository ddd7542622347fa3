package domain

import "strings"

// GatewayStatus is the normalized form of the processor's free-form status
// vocabulary. UNKNOWN is treated the same as PENDING by every polling loop:
// keep checking until the attempt budget runs out.
type GatewayStatus string

const (
	GatewaySuccess GatewayStatus = "SUCCESS"
	GatewayPending GatewayStatus = "PENDING"
	GatewayFailed  GatewayStatus = "FAILED"
	GatewayUnknown GatewayStatus = "UNKNOWN"
)

// StatusMap translates raw processor status strings into the closed
// GatewayStatus variant. The processor's vocabulary is untyped and drifts
// between API revisions, so the table is extensible at construction time.
type StatusMap struct {
	entries map[string]GatewayStatus
}

// NewStatusMap builds the default mapping table, extended by any overrides.
// Override keys are lowercased; an override may remap a default entry.
func NewStatusMap(overrides map[string]GatewayStatus) *StatusMap {
	entries := map[string]GatewayStatus{
		"success":    GatewaySuccess,
		"successful": GatewaySuccess,
		"completed":  GatewaySuccess,
		"paid":       GatewaySuccess,

		"pending":    GatewayPending,
		"processing": GatewayPending,
		"initiated":  GatewayPending,

		"failed":    GatewayFailed,
		"cancelled": GatewayFailed,
		"canceled":  GatewayFailed,
		"reversed":  GatewayFailed,
		"rejected":  GatewayFailed,
	}
	for raw, normalized := range overrides {
		entries[strings.ToLower(raw)] = normalized
	}
	return &StatusMap{entries: entries}
}

// ParseStatusOverrides turns "raw=NORMALIZED" pairs from configuration into
// a StatusMap override table. Malformed entries and unknown normalized names
// are skipped rather than failing startup.
func ParseStatusOverrides(entries []string) map[string]GatewayStatus {
	overrides := make(map[string]GatewayStatus, len(entries))
	for _, entry := range entries {
		raw, normalized, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		switch GatewayStatus(strings.ToUpper(strings.TrimSpace(normalized))) {
		case GatewaySuccess:
			overrides[strings.TrimSpace(raw)] = GatewaySuccess
		case GatewayPending:
			overrides[strings.TrimSpace(raw)] = GatewayPending
		case GatewayFailed:
			overrides[strings.TrimSpace(raw)] = GatewayFailed
		case GatewayUnknown:
			overrides[strings.TrimSpace(raw)] = GatewayUnknown
		}
	}
	return overrides
}

// Normalize maps a raw processor status to its closed variant. Empty or
// unrecognized strings come back as UNKNOWN.
func (m *StatusMap) Normalize(raw string) GatewayStatus {
	if raw == "" {
		return GatewayUnknown
	}
	if s, ok := m.entries[strings.ToLower(raw)]; ok {
		return s
	}
	return GatewayUnknown
}
