package govcurve

import (
	"errors"
	"fmt"
)

var (
	// ErrDomain is wrapped by every [*DomainError].
	ErrDomain = errors.New("domain error")
	// ErrUnreachable is returned by an [Inverter] when a curve never reaches
	// the requested threshold within its window.
	ErrUnreachable = errors.New("threshold unreachable")
)

// DomainError describes construction input that violates an invariant.
type DomainError struct {
	// Param names the offending parameter.
	Param string
	Msg   string
}

func (e *DomainError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s %s", ErrDomain, e.Param, e.Msg)
}

func (e *DomainError) Unwrap() error { return ErrDomain }

func domainf(param, format string, args ...any) error {
	return &DomainError{Param: param, Msg: fmt.Sprintf(format, args...)}
}

// withParam attributes a domain error to the named parameter of the caller.
func withParam(err error, param string) error {
	var de *DomainError
	if errors.As(err, &de) {
		return &DomainError{Param: param, Msg: de.Msg}
	}
	return err
}
