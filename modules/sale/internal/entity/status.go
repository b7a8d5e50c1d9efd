package entity

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/sale-engine/common/errs"
)

// Status is the lifecycle state of a sale.
type Status uint8

const (
	StatusInitialized Status = iota
	StatusActive
	StatusCancelled
	StatusSuccessEnded
	StatusFailedEnded
)

var statusNames = map[Status]string{
	StatusInitialized:  "initialized",
	StatusActive:       "active",
	StatusCancelled:    "cancelled",
	StatusSuccessEnded: "success_ended",
	StatusFailedEnded:  "failed_ended",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// IsTerminal reports whether no further lifecycle transition is possible.
func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusSuccessEnded || s == StatusFailedEnded
}

// IsEnded reports whether the sale was finalized, successfully or not.
func (s Status) IsEnded() bool {
	return s == StatusSuccessEnded || s == StatusFailedEnded
}

func ParseStatus(s string) (Status, error) {
	for status, name := range statusNames {
		if name == s {
			return status, nil
		}
	}
	return 0, errors.Wrapf(errs.InvalidArgument, "unknown sale status %q", s)
}
