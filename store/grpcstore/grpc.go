package grpcstore

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// FeedStoreServer is the server API for the FeedStore gRPC service.
//
// We intentionally use protobuf well-known wrapper types so this package
// does not require a protoc/codegen toolchain. Compound requests (Get)
// carry the repo's canonical msgpack primitives inside a BytesValue.
//
// Proto definition: feedstore.proto.
type FeedStoreServer interface {
	// Append takes canonical frame bytes and returns the stored object CID.
	Append(context.Context, *wrapperspb.BytesValue) (*wrapperspb.StringValue, error)
	// Latest takes raw author bytes and returns canonical frame bytes.
	Latest(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
	// Get takes an encoded (author, sequence) request and returns canonical
	// frame bytes.
	Get(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
	// Authors ignores its request and returns an encoded list of author keys.
	Authors(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
}

// UnimplementedFeedStoreServer can be embedded to have forward compatible
// implementations.
type UnimplementedFeedStoreServer struct{}

func (UnimplementedFeedStoreServer) Append(context.Context, *wrapperspb.BytesValue) (*wrapperspb.StringValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Append not implemented")
}
func (UnimplementedFeedStoreServer) Latest(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Latest not implemented")
}
func (UnimplementedFeedStoreServer) Get(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Get not implemented")
}
func (UnimplementedFeedStoreServer) Authors(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Authors not implemented")
}

// RegisterFeedStoreServer registers the FeedStore service on a gRPC server.
func RegisterFeedStoreServer(s grpc.ServiceRegistrar, srv FeedStoreServer) {
	s.RegisterService(&FeedStore_ServiceDesc, srv)
}

// FeedStoreClient is the client API for the FeedStore gRPC service.
type FeedStoreClient interface {
	Append(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	Latest(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
	Get(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
	Authors(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
}

type feedStoreClient struct{ cc grpc.ClientConnInterface }

func NewFeedStoreClient(cc grpc.ClientConnInterface) FeedStoreClient {
	return &feedStoreClient{cc: cc}
}

func (c *feedStoreClient) Append(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	err := c.cc.Invoke(ctx, "/kutyus.store.grpcstore.v1.FeedStore/Append", in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *feedStoreClient) Latest(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	out := new(wrapperspb.BytesValue)
	err := c.cc.Invoke(ctx, "/kutyus.store.grpcstore.v1.FeedStore/Latest", in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *feedStoreClient) Get(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	out := new(wrapperspb.BytesValue)
	err := c.cc.Invoke(ctx, "/kutyus.store.grpcstore.v1.FeedStore/Get", in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *feedStoreClient) Authors(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	out := new(wrapperspb.BytesValue)
	err := c.cc.Invoke(ctx, "/kutyus.store.grpcstore.v1.FeedStore/Authors", in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func _FeedStore_Append_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FeedStoreServer).Append(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/kutyus.store.grpcstore.v1.FeedStore/Append",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(FeedStoreServer).Append(ctx, req.(*wrapperspb.BytesValue))
	}
	return interceptor(ctx, in, info, handler)
}

func _FeedStore_Latest_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FeedStoreServer).Latest(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/kutyus.store.grpcstore.v1.FeedStore/Latest",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(FeedStoreServer).Latest(ctx, req.(*wrapperspb.BytesValue))
	}
	return interceptor(ctx, in, info, handler)
}

func _FeedStore_Get_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FeedStoreServer).Get(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/kutyus.store.grpcstore.v1.FeedStore/Get",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(FeedStoreServer).Get(ctx, req.(*wrapperspb.BytesValue))
	}
	return interceptor(ctx, in, info, handler)
}

func _FeedStore_Authors_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FeedStoreServer).Authors(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/kutyus.store.grpcstore.v1.FeedStore/Authors",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(FeedStoreServer).Authors(ctx, req.(*wrapperspb.BytesValue))
	}
	return interceptor(ctx, in, info, handler)
}

// FeedStore_ServiceDesc is the grpc.ServiceDesc for the FeedStore service.
var FeedStore_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "kutyus.store.grpcstore.v1.FeedStore",
	HandlerType: (*FeedStoreServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Append", Handler: _FeedStore_Append_Handler},
		{MethodName: "Latest", Handler: _FeedStore_Latest_Handler},
		{MethodName: "Get", Handler: _FeedStore_Get_Handler},
		{MethodName: "Authors", Handler: _FeedStore_Authors_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "feedstore.proto",
}
