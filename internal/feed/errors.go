package feed

import (
	"errors"
	"fmt"
)

// ErrorKind classifies fetch failures.
type ErrorKind int

const (
	// KindTransport is a network or connectivity failure.
	KindTransport ErrorKind = iota + 1
	// KindProvider is a non-success status or an error payload from the provider.
	KindProvider
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindProvider:
		return "provider"
	default:
		return "unknown"
	}
}

// FetchError is returned when a page could not be resolved.
type FetchError struct {
	Kind    ErrorKind
	Page    int
	Status  int
	Message string
	Err     error
}

func (e *FetchError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s error fetching page %d", e.Kind, e.Page)
}

func (e *FetchError) Unwrap() error { return e.Err }

var (
	// ErrSuperseded means the response arrived after a newer Refresh or filter
	// change and was discarded.
	ErrSuperseded = errors.New("feed: response superseded by a newer request")
	// ErrBusy means another fetch is still outstanding.
	ErrBusy = errors.New("feed: a fetch is already in progress")
	// ErrExhausted means there is nothing further to page through.
	ErrExhausted = errors.New("feed: no more pages to load")
)

// IsTransport reports whether err is a transport-level FetchError.
func IsTransport(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == KindTransport
}

// IsProvider reports whether err is a provider-signalled FetchError.
func IsProvider(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == KindProvider
}
