package grpcstore

import (
	"errors"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"kutyus.dev/kutyus/feed"
	"kutyus.dev/kutyus/store"
	"kutyus.dev/kutyus/wire"
)

const rejectedPrefix = "rejected: "

// mapErr translates store and wire errors into gRPC statuses, preserving
// reject reason codes in the status message.
func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case store.IsNotFound(err):
		return status.Error(codes.NotFound, store.ErrNotFound.Error())
	case errors.Is(err, store.ErrImmutable):
		return status.Error(codes.FailedPrecondition, store.ErrImmutable.Error())
	case errors.Is(err, store.ErrDigestMismatch):
		return status.Error(codes.DataLoss, store.ErrDigestMismatch.Error())
	}
	if reason, ok := store.Rejected(err); ok {
		return status.Error(codes.FailedPrecondition, rejectedPrefix+string(reason))
	}
	var werr *wire.Error
	if errors.As(err, &werr) {
		return status.Error(codes.InvalidArgument, werr.Error())
	}
	return status.Error(codes.Internal, err.Error())
}

// unmapErr is the client-side inverse of mapErr.
func unmapErr(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.NotFound:
		return store.ErrNotFound
	case codes.FailedPrecondition:
		if reason, ok := strings.CutPrefix(st.Message(), rejectedPrefix); ok {
			return &store.RejectedError{Reason: feed.RejectReason(reason)}
		}
		if st.Message() == store.ErrImmutable.Error() {
			return store.ErrImmutable
		}
		return err
	case codes.DataLoss:
		return store.ErrDigestMismatch
	default:
		return err
	}
}
