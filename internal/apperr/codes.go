// Package apperr provides structured domain errors with localized messages.
package apperr

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an error that is not a domain error.
	CodeUnknown Code = "UNKNOWN"

	// NotFound
	CodeAccountNotFound   Code = "ACCOUNT_NOT_FOUND"
	CodeCharacterNotFound Code = "CHARACTER_NOT_FOUND"
	CodeCompanyNotFound   Code = "COMPANY_NOT_FOUND"
	CodeContainerNotFound Code = "CONTAINER_NOT_FOUND"
	CodeCouponNotFound    Code = "COUPON_NOT_FOUND"
	CodeItemNotFound      Code = "ITEM_NOT_FOUND"

	// InvalidState
	CodeInsufficientFunds  Code = "INSUFFICIENT_FUNDS"
	CodeCouponExhausted    Code = "COUPON_EXHAUSTED"
	CodeItemNotInContainer Code = "ITEM_NOT_IN_CONTAINER"
	CodeItemNotOwned       Code = "ITEM_NOT_OWNED"
	CodeSameAccount        Code = "SAME_ACCOUNT"
	CodeDuplicate          Code = "DUPLICATE"

	// PreconditionFailed
	CodeTooFarAway             Code = "TOO_FAR_AWAY"
	CodeGeolocationUnavailable Code = "GEOLOCATION_UNAVAILABLE"
	CodeCharacterNotSelected   Code = "CHARACTER_NOT_SELECTED"
	CodeRitualTokenMissing     Code = "RITUAL_TOKEN_MISSING"
	CodeRitualTokenMismatch    Code = "RITUAL_TOKEN_MISMATCH"

	// InvalidArgument
	CodeInvalidAmount Code = "INVALID_AMOUNT"
	CodeInvalidMode   Code = "INVALID_MODE"
	CodeNoItems       Code = "NO_ITEMS"
)

// Kind groups codes by how a caller should react to them.
type Kind int

// Error kinds.
const (
	KindInternal Kind = iota
	KindNotFound
	KindInvalidState
	KindPreconditionFailed
	KindInvalidArgument
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalidState:
		return "invalid_state"
	case KindPreconditionFailed:
		return "precondition_failed"
	case KindInvalidArgument:
		return "invalid_argument"
	default:
		return "internal"
	}
}

// Kind maps a code to its kind.
func (c Code) Kind() Kind {
	switch c {
	case CodeAccountNotFound,
		CodeCharacterNotFound,
		CodeCompanyNotFound,
		CodeContainerNotFound,
		CodeCouponNotFound,
		CodeItemNotFound:
		return KindNotFound

	case CodeInsufficientFunds,
		CodeCouponExhausted,
		CodeItemNotInContainer,
		CodeItemNotOwned,
		CodeSameAccount,
		CodeDuplicate:
		return KindInvalidState

	case CodeTooFarAway,
		CodeGeolocationUnavailable,
		CodeCharacterNotSelected,
		CodeRitualTokenMissing,
		CodeRitualTokenMismatch:
		return KindPreconditionFailed

	case CodeInvalidAmount,
		CodeInvalidMode,
		CodeNoItems:
		return KindInvalidArgument

	default:
		return KindInternal
	}
}

// HTTPStatus maps a kind to the response status used by the API.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidState:
		return http.StatusConflict
	case KindPreconditionFailed:
		return http.StatusPreconditionFailed
	case KindInvalidArgument:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
