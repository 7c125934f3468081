package errors

import (
	goerrors "errors"
	"fmt"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Taxonomy roots. Every policy rejection of the subsystem wraps exactly one of them.
var (
	ErrUnauthorized = fmt.Errorf("unauthorized")
	ErrNotFound     = fmt.Errorf("not found")
	ErrForbidden    = fmt.Errorf("forbidden")
	ErrInvalidState = fmt.Errorf("invalid state")
	ErrBadRequest   = fmt.Errorf("bad request")
)

var (
	ErrInvalidToken = fmt.Errorf("%w: invalid or expired token", ErrUnauthorized)
	ErrMissingToken = fmt.Errorf("%w: authorization token is missing", ErrUnauthorized)

	ErrRoomNotFound    = fmt.Errorf("room %w", ErrNotFound)
	ErrMessageNotFound = fmt.Errorf("message %w", ErrNotFound)
	ErrProfileNotFound = fmt.Errorf("profile %w", ErrNotFound)
	ErrReportNotFound  = fmt.Errorf("report %w", ErrNotFound)
	ErrBlockNotFound   = fmt.Errorf("block %w", ErrNotFound)

	ErrNotParticipant = fmt.Errorf("%w: not a participant of this room", ErrForbidden)
	ErrPairGated      = fmt.Errorf("%w: messaging between these users is blocked", ErrForbidden)

	ErrAlreadyLeft  = fmt.Errorf("%w: room already left", ErrInvalidState)
	ErrSenderLeft   = fmt.Errorf("%w: cannot send into a room you left", ErrInvalidState)
	ErrReportClosed = fmt.Errorf("%w: report is no longer pending", ErrInvalidState)

	ErrSelfChat          = fmt.Errorf("%w: cannot chat with yourself", ErrBadRequest)
	ErrSelfModeration    = fmt.Errorf("%w: cannot block or report yourself", ErrBadRequest)
	ErrEmptyContent      = fmt.Errorf("%w: content is required without file metadata", ErrBadRequest)
	ErrContentTooLong    = fmt.Errorf("%w: content is too long", ErrBadRequest)
	ErrMessageOtherRoom  = fmt.Errorf("%w: message does not belong to this room", ErrBadRequest)
	ErrInvalidIdentifier = fmt.Errorf("%w: malformed identifier", ErrBadRequest)
	ErrAlreadyBlocked    = fmt.Errorf("%w: already blocked", ErrBadRequest)

	ErrWorkerPanic = fmt.Errorf("worker panic")
)

func Is(err, target error) bool { return goerrors.Is(err, target) }

func As(err error, target any) bool { return goerrors.As(err, target) }

// MapToHTTPStatus returns the status code matching the taxonomy root of err.
// Anything outside the taxonomy is an infrastructure failure.
func MapToHTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case goerrors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case goerrors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case goerrors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case goerrors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case goerrors.Is(err, ErrInvalidState):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// MapToGRPCError converts a domain error into a gRPC status error.
func MapToGRPCError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case goerrors.Is(err, ErrBadRequest):
		return status.Error(codes.InvalidArgument, err.Error())
	case goerrors.Is(err, ErrUnauthorized):
		return status.Error(codes.Unauthenticated, err.Error())
	case goerrors.Is(err, ErrForbidden):
		return status.Error(codes.PermissionDenied, err.Error())
	case goerrors.Is(err, ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case goerrors.Is(err, ErrInvalidState):
		return status.Error(codes.FailedPrecondition, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
