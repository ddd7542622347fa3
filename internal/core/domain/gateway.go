package domain

// ChargeRequest asks the processor to prompt the payer on their phone.
type ChargeRequest struct {
	PhoneNumber string
	AmountCents int64
	Name        string
}

// ChargeResponse carries the processor-issued reference that correlates every
// later status check with this charge.
type ChargeResponse struct {
	Reference string
	RawStatus string
	Message   string
}

// StatusResponse is one status-check result. RawStatus is the processor's own
// vocabulary; normalize it through a StatusMap before acting on it.
type StatusResponse struct {
	Reference string
	RawStatus string
}

// GatewayBalance is the float held at the processor, reported by the admin
// balance check.
type GatewayBalance struct {
	Amount   float64
	Currency string
}
