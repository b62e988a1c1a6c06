package epierr

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

const (
	CodeNotFound       = "NOT_FOUND"
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeInternalError  = "INTERNAL_ERROR"

	// CodeSchema marks a raw record that is missing a required field or whose
	// field cannot be coerced into the normalized schema. Record-level: the
	// record is skipped and counted in the rejection report.
	CodeSchema = "SCHEMA_ERROR"

	// CodeVocabulary marks a category value that does not map into the
	// enumerated exposure/subtype vocabulary. Record-level.
	CodeVocabulary = "VOCABULARY_ERROR"

	// CodeInsufficientData marks a stratum with fewer non-empty time buckets
	// than the configured minimum. Stratum-level: the series is omitted and
	// the run continues.
	CodeInsufficientData = "INSUFFICIENT_DATA"

	// CodeZeroDenominator marks a comparison whose denominator stratum has a
	// zero total. Pair-level: the comparison is omitted and the run continues.
	CodeZeroDenominator = "ZERO_DENOMINATOR"

	// CodeEmptyResult marks a run in which no normalized record survived.
	// Run-level fatal: no partial result is produced.
	CodeEmptyResult = "EMPTY_RESULT"
)

var (
	// ErrNotFound is returned when a resource is not found.
	ErrNotFound = New(fiber.StatusBadRequest, CodeNotFound, "resource not found with given parameters")

	// ErrInvalidReq is returned when a request is invalid.
	ErrInvalidReq = New(fiber.StatusBadRequest, CodeInvalidRequest, "invalid request: some or all request parameters are invalid")

	// ErrInternalError is returned when an internal error occurs.
	ErrInternalError = New(fiber.StatusInternalServerError, CodeInternalError, "internal server error occurred")

	// ErrSchema is returned for a raw record missing required fields.
	ErrSchema = New(fiber.StatusUnprocessableEntity, CodeSchema, "record does not conform to the declared source schema")

	// ErrVocabulary is returned for a category value outside the enumerated vocabulary.
	ErrVocabulary = New(fiber.StatusUnprocessableEntity, CodeVocabulary, "category value is not in the enumerated vocabulary")

	// ErrInsufficientData is returned when a stratum cannot support a trend fit.
	ErrInsufficientData = New(fiber.StatusUnprocessableEntity, CodeInsufficientData, "stratum has fewer non-empty buckets than the configured minimum")

	// ErrZeroDenominator is returned when a comparison denominator is zero.
	ErrZeroDenominator = New(fiber.StatusUnprocessableEntity, CodeZeroDenominator, "comparison is undefined: stratum total is zero")

	// ErrEmptyResult is returned when a run yields no normalized records at all.
	ErrEmptyResult = New(fiber.StatusUnprocessableEntity, CodeEmptyResult, "no records survived normalization; refusing to produce an empty result")
)

type Extras map[string]any

type Error struct {
	StatusCode int    `example:"400"`
	ErrorCode  string `example:"INVALID_REQUEST"`
	Message    string `example:"invalid request: some or all request parameters are invalid"`
	Extras     *Extras
}

func New(statusCode int, errorCode string, message string) *Error {
	return &Error{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// Msg returns a copy of the error with a formatted message. The receiver is
// a value so the package-level error values stay immutable.
func (e Error) Msg(format string, parts ...any) *Error {
	e.Message = fmt.Sprintf(format, parts...)
	return &e
}

func (e Error) WithExtras(extras Extras) *Error {
	e.Extras = &extras
	return &e
}

func NewInvalidViolations(violations any) *Error {
	e := *ErrInvalidReq
	e.Extras = &Extras{
		"violations": violations,
	}
	return &e
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.ErrorCode, e.Message)
}

// Is allows errors.Is matching on the error code, so stratum-level failures
// can be classified without comparing pointers.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.ErrorCode == t.ErrorCode
}
