package status

import (
	"strconv"

	"github.com/kochabonline/mcstatus/address"
	"github.com/kochabonline/mcstatus/errors"
)

// Reasons carried by lookup errors.
const (
	ReasonInvalidAddress = "INVALID_ADDRESS_FORMAT"
	ReasonLookupHTTP     = "LOOKUP_HTTP_ERROR"
	ReasonLookupNetwork  = "LOOKUP_NETWORK_ERROR"
	ReasonNoData         = "NO_DATA"
)

// MetadataStatus is the metadata key holding the upstream HTTP status.
const MetadataStatus = "status"

var (
	ErrInvalidAddress = errors.BadRequest("invalid server address").WithReason(ReasonInvalidAddress)
	ErrLookupHTTP     = errors.BadGateway("lookup failed").WithReason(ReasonLookupHTTP)
	ErrLookupNetwork  = errors.ServiceUnavailable("lookup failed").WithReason(ReasonLookupNetwork)
	ErrNoData         = errors.NotFound("no data found for this server").WithReason(ReasonNoData)
)

func invalidAddress(err error) *errors.Error {
	reason := address.ReasonOf(err)
	return errors.BadRequest("%s", reason.Message()).
		WithReason(ReasonInvalidAddress).
		WithMetadata(map[string]string{"reason": string(reason)}).
		WithCause(err)
}

func lookupHTTP(code int, cause error) *errors.Error {
	return errors.BadGateway("lookup failed (%d)", code).
		WithReason(ReasonLookupHTTP).
		WithMetadata(map[string]string{MetadataStatus: strconv.Itoa(code)}).
		WithCause(cause)
}

func lookupNetwork(cause error) *errors.Error {
	return errors.Wrap(cause, 503, "lookup failed").WithReason(ReasonLookupNetwork)
}

// UpstreamStatus returns the HTTP status of a LOOKUP_HTTP_ERROR, or 0.
func UpstreamStatus(err error) int {
	if errors.Reason(err) != ReasonLookupHTTP {
		return 0
	}
	code, _ := strconv.Atoi(errors.FromError(err).GetMetadata()[MetadataStatus])
	return code
}

// IsNoData reports whether err means the API answered without data.
func IsNoData(err error) bool {
	return errors.Reason(err) == ReasonNoData
}
