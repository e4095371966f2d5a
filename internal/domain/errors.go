package domain

import "fmt"

// Handlers map these to HTTP statuses; services and adapters wrap their
// failures in one of them.

// ErrNotFound reports a missing draft, settings row or geocoding result.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s não encontrado: %s", e.Resource, e.ID)
}

// ErrExternalService wraps a failed call to a collaborator such as the
// geocoder, the calendar or a settings backend.
type ErrExternalService struct {
	Service string
	Err     error
}

func (e *ErrExternalService) Error() string {
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e *ErrExternalService) Unwrap() error { return e.Err }

type ErrTimeout struct {
	Operation string
}

func (e *ErrTimeout) Error() string {
	return fmt.Sprintf("%s excedeu o tempo limite", e.Operation)
}

type ErrCircuitOpen struct {
	Service string
}

func (e *ErrCircuitOpen) Error() string {
	return fmt.Sprintf("%s temporariamente bloqueado (circuit breaker aberto)", e.Service)
}

// ErrValidation carries the offending request field so clients can
// highlight it.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	if e.Message == "" {
		return "não autorizado"
	}
	return e.Message
}

// ErrUnavailable is returned for features whose backend was not configured
// at startup.
type ErrUnavailable struct {
	Feature string
}

func (e *ErrUnavailable) Error() string {
	return fmt.Sprintf("%s indisponível: serviço não configurado", e.Feature)
}
