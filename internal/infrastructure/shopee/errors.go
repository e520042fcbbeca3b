package shopee

import "fmt"

// ErrorPhase tells apart HTTP-level failures from business errors the
// marketplace reports inside 200 responses.
type ErrorPhase string

const (
	PhaseTransport   ErrorPhase = "transport"
	PhaseApplication ErrorPhase = "application"
)

// APIError is a failed partner-API call. It is surfaced verbatim to the
// caller and never retried by this package.
type APIError struct {
	Phase  ErrorPhase
	Path   string
	Status int
	Code   string
	Detail string
}

func (e *APIError) Error() string {
	if e.Phase == PhaseTransport {
		return fmt.Sprintf("shopee: %s: status %d: %s", e.Path, e.Status, e.Detail)
	}
	return fmt.Sprintf("shopee: %s: %s: %s", e.Path, e.Code, e.Detail)
}

// AuthError is a failed OAuth code or refresh exchange.
type AuthError struct {
	Op     string
	Detail string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("shopee auth: %s: %s", e.Op, e.Detail)
}
