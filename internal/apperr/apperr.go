// Package apperr defines the error taxonomy shared by services and handlers
// and renders errors as {"success": false, "message": ...} payloads.
package apperr

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/wichananm65/food-order-backend/internal/logger"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindAccessDenied
	KindInvalidTransition
	KindPersistence
	KindUnauthenticated
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindAccessDenied:
		return "access_denied"
	case KindInvalidTransition:
		return "invalid_transition"
	case KindPersistence:
		return "persistence"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Error is a classified application error.
type Error struct {
	Kind    Kind
	Message string
	Err     error

	// Current and Requested are set for KindInvalidTransition only.
	Current   string
	Requested string
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StatusCode maps the error kind to an HTTP status.
func (e *Error) StatusCode() int {
	switch e.Kind {
	case KindValidation, KindInvalidTransition:
		return fiber.StatusBadRequest
	case KindNotFound:
		return fiber.StatusNotFound
	case KindAccessDenied:
		return fiber.StatusForbidden
	case KindUnauthenticated:
		return fiber.StatusUnauthorized
	case KindConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func AccessDenied(format string, args ...any) *Error {
	return &Error{Kind: KindAccessDenied, Message: fmt.Sprintf(format, args...)}
}

func Unauthenticated(format string, args ...any) *Error {
	return &Error{Kind: KindUnauthenticated, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// InvalidTransition reports a status change not permitted from current.
func InvalidTransition(current, requested string) *Error {
	return &Error{
		Kind:      KindInvalidTransition,
		Message:   fmt.Sprintf("Cannot change order status from '%s' to '%s'", current, requested),
		Current:   current,
		Requested: requested,
	}
}

// Persistence wraps a storage failure. The cause is kept for logs and never
// sent to clients.
func Persistence(op string, err error) *Error {
	return &Error{Kind: KindPersistence, Message: op, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Body builds the JSON payload for err.
func Body(err error) (int, fiber.Map) {
	var e *Error
	if errors.As(err, &e) {
		body := fiber.Map{"success": false, "message": e.Message}
		switch e.Kind {
		case KindInvalidTransition:
			body["currentStatus"] = e.Current
			body["requestedStatus"] = e.Requested
		case KindPersistence, KindInternal:
			body["message"] = "Internal server error"
		}
		return e.StatusCode(), body
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, fiber.Map{"success": false, "message": fe.Message}
	}
	return fiber.StatusInternalServerError, fiber.Map{"success": false, "message": "Internal server error"}
}

// Write renders err on c and logs server-side failures.
func Write(c *fiber.Ctx, err error) error {
	code, body := Body(err)
	if code >= fiber.StatusInternalServerError {
		logger.FromContext(c.UserContext()).Error("request failed",
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}
	return c.Status(code).JSON(body)
}

// FiberHandler is installed as the app-wide fiber ErrorHandler.
func FiberHandler(c *fiber.Ctx, err error) error {
	return Write(c, err)
}
