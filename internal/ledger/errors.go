package ledger

import "fmt"

// DuplicateClaimError reports an id collision on append. This is a caller
// programming error, fatal within the request.
type DuplicateClaimError struct {
	ID string
}

func (e *DuplicateClaimError) Error() string {
	return fmt.Sprintf("claim %q already in ledger", e.ID)
}

// NotFoundError reports a lookup for a claim id the ledger never ingested.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("claim %q not found", e.ID)
}

// UnknownSourceError reports a claim whose source_ref does not resolve to an
// ingested source. Such claims break the chain of custody and are rejected.
type UnknownSourceError struct {
	URL string
}

func (e *UnknownSourceError) Error() string {
	return fmt.Sprintf("source %q was never ingested", e.URL)
}
