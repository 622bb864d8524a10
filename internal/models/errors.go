package models

import "errors"

var (
	// ErrNotFound is returned when a requested resource is not found.
	ErrNotFound = errors.New("resource not found")

	// ErrConflict is returned when a unique constraint would be violated,
	// e.g. signing up with an email that is already registered.
	ErrConflict = errors.New("resource already exists")

	// ErrInvalidCredentials is returned on a failed login attempt.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInvalidToken is returned when an activation or password reset
	// token is unknown or expired.
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrNicknameTaken is returned when a profile update requests a
	// nickname that belongs to another user.
	ErrNicknameTaken = errors.New("nickname is already taken")

	// ErrQuoteExpired is returned when a shipment is booked against a
	// quote ID that is unknown or past its validity window.
	ErrQuoteExpired = errors.New("the quote has expired, please request a new one")

	// ErrShipmentCannotBeCancelled is returned when an attempt is made to
	// cancel a shipment that is no longer in a cancellable state
	// (e.g. already assigned to a carrier or in transit).
	ErrShipmentCannotBeCancelled = errors.New("shipment cannot be cancelled")

	// ErrCannotSubmitFeedback is returned when a client tries to rate a
	// shipment that has not been delivered yet.
	ErrCannotSubmitFeedback = errors.New("feedback can only be submitted for delivered shipments")

	// ErrFeedbackAlreadySubmitted is returned when a shipment already has
	// feedback attached.
	ErrFeedbackAlreadySubmitted = errors.New("feedback has already been submitted for this shipment")

	// ErrNoCarriersAvailable is returned when no idle carrier can take a
	// shipment.
	ErrNoCarriersAvailable = errors.New("no carriers are currently available")
)

// ErrorResponse is the uniform JSON error body.
type ErrorResponse struct {
	Message string `json:"message"`
}
