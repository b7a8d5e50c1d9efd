// Package slogx provides typed slog attributes, including the keys shared by every sale
// engine log record.
package slogx

import (
	"fmt"
	"log/slog"
	"time"
)

const (
	// ErrorKey is the attribute key of [Error].
	ErrorKey = "error"

	// EventKey names the operation a record reports, e.g. `sale_created`.
	EventKey = "event"

	// SaleIDKey is the attribute key of [SaleID].
	SaleIDKey = "sale_id"
)

// Event returns the attribute naming the operation a record reports.
func Event(name string) slog.Attr {
	return slog.String(EventKey, name)
}

// SaleID returns the attribute identifying the sale a record is about.
func SaleID(id uint64) slog.Attr {
	return slog.Uint64(SaleIDKey, id)
}

// Error returns an empty attribute for a nil err, which slog handlers drop.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any(ErrorKey, err)
}

func Any(key string, value any) slog.Attr {
	return slog.Any(key, value)
}

func String(key, value string) slog.Attr {
	return slog.String(key, value)
}

// Stringer defers value.String() until the record is handled.
func Stringer(key string, value fmt.Stringer) slog.Attr {
	return slog.Any(key, value)
}

func Int(key string, value int) slog.Attr {
	return slog.Int(key, value)
}

func Int64(key string, value int64) slog.Attr {
	return slog.Int64(key, value)
}

func Uint16(key string, value uint16) slog.Attr {
	return slog.Uint64(key, uint64(value))
}

func Uint64(key string, value uint64) slog.Attr {
	return slog.Uint64(key, value)
}

func Duration(key string, value time.Duration) slog.Attr {
	return slog.Duration(key, value)
}
