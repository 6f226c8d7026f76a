package types

type SuccessEnvelope struct {
	Data any `json:"data"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	// Cause is only populated outside production.
	Cause string `json:"cause,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
