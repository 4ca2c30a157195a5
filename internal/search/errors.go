package search

import "errors"

// ErrFetchFailed is the only failure surfaced by FetchAndRank. Transport
// errors, non-2xx statuses and malformed payloads from either source all
// collapse into it; the cause stays reachable through errors.Unwrap.
var ErrFetchFailed = errors.New("search fetch failed")

// ErrMalformedItem is returned by the normalizers when a payload lacks the
// items array or an item lacks one of the fields a suggestion is built from.
var ErrMalformedItem = errors.New("malformed search item")
