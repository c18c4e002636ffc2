package database

import (
	"errors"

	"github.com/lib/pq"
)

type ErrorClass int

const (
	ErrorClassPermanent ErrorClass = iota
	ErrorClassTransient
	ErrorClassDeadlock
	ErrorClassSerialization
)

func (c ErrorClass) String() string {
	switch c {
	case ErrorClassTransient:
		return "transient"
	case ErrorClassDeadlock:
		return "deadlock"
	case ErrorClassSerialization:
		return "serialization"
	default:
		return "permanent"
	}
}

// ClassifyError maps Postgres error codes onto retry classes. Anything not
// recognised, including the catalog sentinels below, is permanent.
func ClassifyError(err error) ErrorClass {
	var pqErr *pq.Error
	if err == nil || !errors.As(err, &pqErr) {
		return ErrorClassPermanent
	}

	switch pqErr.Code {
	case "40001":
		return ErrorClassSerialization
	case "40P01":
		return ErrorClassDeadlock
	case "55P03", "57014":
		return ErrorClassTransient
	default:
		return ErrorClassPermanent
	}
}

func IsRetryable(err error) bool {
	return ClassifyError(err) != ErrorClassPermanent
}

var (
	ErrVendorNotFound       = errors.New("vendor not found")
	ErrProductNotFound      = errors.New("product not found")
	ErrOrderNotFound        = errors.New("order not found")
	ErrOptimisticLockFailed = errors.New("optimistic lock failed")
)
