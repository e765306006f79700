package apperrors

import (
	"errors"
)

var (
	// Engine errors. Any of them aborts the whole run.
	ErrDuplicateTransactionID = errors.New("duplicate transaction id")
	ErrDisputeTargetInvalid   = errors.New("dispute of non-disputable transaction")
	ErrDisputedClientMissing  = errors.New("disputed transaction refers to non-existent client")

	// Decode errors. Raised before a record ever reaches the engine.
	ErrRecordMalformed = errors.New("malformed record")
	ErrKindUnknown     = errors.New("unrecognised transaction type")
	ErrAmountMissing   = errors.New("amount field is blank")
	ErrAmountInvalid   = errors.New("amount is not a valid fixed-point decimal")
)
