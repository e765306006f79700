package models

// Account is created lazily the first time a client is referenced and never
// deleted. Available may go negative after a dispute; held may go negative
// when a disputed withdrawal's amount is negated.
type Account struct {
	Available Amount
	Held      Amount
	Locked    bool
}

// AccountSnapshot is one row of the final report. Total is derived, never
// stored.
type AccountSnapshot struct {
	ClientID  ClientID
	Available Amount
	Held      Amount
	Total     Amount
	Locked    bool
}
