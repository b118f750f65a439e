package grpcstore

import (
	"context"

	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"kutyus.dev/kutyus/digestutil"
	"kutyus.dev/kutyus/store"
	"kutyus.dev/kutyus/wire"
)

// Server exposes a store.FeedStore over the FeedStore gRPC service.
//
// All chain validation happens in the wrapped store's Append path; the
// server only decodes requests and enforces the frame byte contract.
type Server struct {
	UnimplementedFeedStoreServer
	Store store.FeedStore
	Log   zerolog.Logger
}

func (s *Server) Append(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.StringValue, error) {
	_ = ctx
	if s == nil || s.Store == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing feed store")
	}
	frameBytes := in.GetValue()
	f, err := wire.DecodeFrame(frameBytes)
	if err != nil {
		return nil, mapErr(err)
	}
	if err := s.Store.Append(f); err != nil {
		s.Log.Debug().Err(err).Msg("append refused")
		return nil, mapErr(err)
	}

	msg, err := f.Message()
	if err != nil {
		return nil, mapErr(err)
	}
	cid := digestutil.CIDv1RawSHA512(frameBytes)
	s.Log.Info().
		Str("cid", cid).
		Uint64("sequence", msg.Sequence).
		Msg("frame appended")
	return wrapperspb.String(cid), nil
}

func (s *Server) Latest(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	_ = ctx
	if s == nil || s.Store == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing feed store")
	}
	f, err := s.Store.Latest(in.GetValue())
	if err != nil {
		return nil, mapErr(err)
	}
	return frameResponse(f)
}

func (s *Server) Get(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	_ = ctx
	if s == nil || s.Store == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing feed store")
	}
	author, sequence, err := decodeGetRequest(in.GetValue())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	f, err := s.Store.Get(author, sequence)
	if err != nil {
		return nil, mapErr(err)
	}
	return frameResponse(f)
}

func (s *Server) Authors(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	_ = ctx
	_ = in
	if s == nil || s.Store == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing feed store")
	}
	authors, err := s.Store.Authors()
	if err != nil {
		return nil, mapErr(err)
	}
	out, err := encodeAuthorsResponse(authors)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return wrapperspb.Bytes(out), nil
}

// frameResponse re-encodes a stored frame; a frame that no longer encodes
// canonically indicates storage corruption.
func frameResponse(f *wire.Frame) (*wrapperspb.BytesValue, error) {
	frameBytes, err := wire.EncodeFrame(f)
	if err != nil {
		return nil, status.Error(codes.DataLoss, store.ErrDigestMismatch.Error())
	}
	return wrapperspb.Bytes(frameBytes), nil
}
