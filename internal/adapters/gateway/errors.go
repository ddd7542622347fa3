package gateway

import "fmt"

type GatewayError struct {
	Code       string
	Err        error
	Message    string
	StatusCode int
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway error: %s (status: %d)", e.Message, e.StatusCode)
}

type GatewayErrorResponse struct {
	Err     string `json:"error"`
	Message string `json:"message"`
}
