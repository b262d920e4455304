package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"strings"

	"github.com/vburojevic/pocket-importer/internal/callback"
	"github.com/vburojevic/pocket-importer/internal/importer"
	"github.com/vburojevic/pocket-importer/internal/pocket"
)

const (
	ErrCodeUnknown       = "unknown"
	ErrCodeInvalidUsage  = "invalid_usage"
	ErrCodeInvalidQuery  = "invalid_query"
	ErrCodeAuth          = "auth_error"
	ErrCodeRateLimited   = "rate_limited"
	ErrCodeMaintenance   = "maintenance"
	ErrCodeAPIError      = "api_error"
	ErrCodeParse         = "parse_error"
	ErrCodeBatchFailed   = "batch_failed"
	ErrCodeTimeout       = "timeout"
	ErrCodeNetwork       = "network_error"
	ErrCodeConfig        = "config_error"
	ErrCodeCallbackParam = "callback_error"
)

// usageError marks bad invocations; they exit with status 2.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func errorCodeForError(err error) string {
	if err == nil {
		return ErrCodeUnknown
	}
	var uErr usageError
	if errors.As(err, &uErr) || strings.HasPrefix(err.Error(), "unknown command") {
		return ErrCodeInvalidUsage
	}
	switch {
	case errors.Is(err, pocket.ErrInvalidQuery):
		return ErrCodeInvalidQuery
	case errors.Is(err, pocket.ErrAuth):
		return ErrCodeAuth
	case errors.Is(err, pocket.ErrForbidden):
		return ErrCodeRateLimited
	case errors.Is(err, pocket.ErrMaintenance):
		return ErrCodeMaintenance
	case errors.Is(err, pocket.ErrService):
		return ErrCodeAPIError
	case errors.Is(err, importer.ErrNoList):
		return ErrCodeParse
	case errors.Is(err, callback.ErrMissingParam):
		return ErrCodeCallbackParam
	case errors.Is(err, callback.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return ErrCodeTimeout
	}
	var batchErr *importer.BatchError
	if errors.As(err, &batchErr) {
		return ErrCodeBatchFailed
	}
	if strings.HasPrefix(err.Error(), "config ") || strings.Contains(err.Error(), "save credentials") {
		return ErrCodeConfig
	}
	// Only transport failures count as network errors; syscall.Errno also
	// satisfies net.Error, so local file errors must not reach this check.
	var urlErr *url.Error
	var opErr *net.OpError
	switch {
	case errors.As(err, &urlErr):
		if urlErr.Timeout() {
			return ErrCodeTimeout
		}
		return ErrCodeNetwork
	case errors.As(err, &opErr):
		if opErr.Timeout() {
			return ErrCodeTimeout
		}
		return ErrCodeNetwork
	}
	return ErrCodeUnknown
}

func exitCodeForError(err error) int {
	switch errorCodeForError(err) {
	case ErrCodeInvalidUsage:
		return 2
	case ErrCodeAuth:
		return 3
	case ErrCodeParse:
		return 4
	case ErrCodeBatchFailed:
		return 5
	case ErrCodeTimeout, ErrCodeCallbackParam:
		return 6
	case ErrCodeNetwork:
		return 7
	case ErrCodeRateLimited:
		return 10
	case ErrCodeInvalidQuery:
		return 13
	case ErrCodeMaintenance:
		return 14
	default:
		return 1
	}
}

func errorHint(code string) string {
	switch code {
	case ErrCodeAuth:
		return "the cached token may be stale; run: pocket auth login"
	case ErrCodeRateLimited:
		return "rate limited or not permitted; wait and retry, or check the consumer key"
	case ErrCodeMaintenance:
		return "Pocket is down for maintenance; try again later"
	case ErrCodeParse:
		return "the file does not look like a Pocket HTML export"
	case ErrCodeBatchFailed:
		return "batches before the failing one were already applied"
	case ErrCodeCallbackParam:
		return "authorization was not completed in the browser; try again"
	case ErrCodeInvalidUsage:
		return "run: pocket --help"
	}
	return ""
}

func printError(stderr io.Writer, err error) int {
	if err == nil {
		return 0
	}
	fmt.Fprintln(stderr, "error:", err)
	code := errorCodeForError(err)
	if hint := errorHint(code); hint != "" {
		fmt.Fprintln(stderr, "hint:", hint)
	}
	return exitCodeForError(err)
}
