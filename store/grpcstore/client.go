package grpcstore

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"kutyus.dev/kutyus/store"
	"kutyus.dev/kutyus/wire"
)

// Client implements store.FeedStore over a FeedStore gRPC service.
type Client struct {
	cc     *grpc.ClientConn
	client FeedStoreClient

	// Timeout applies per RPC when non-zero.
	Timeout time.Duration
}

var _ store.FeedStore = (*Client)(nil)

type DialOptions struct {
	// Timeout applies to the initial dial when non-zero.
	Timeout time.Duration

	// MaxMsgBytes sets both send/recv max sizes when non-zero.
	MaxMsgBytes int
}

func Dial(target string, opts DialOptions) (*Client, error) {
	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}
	if opts.MaxMsgBytes > 0 {
		dialOpts = append(dialOpts,
			grpc.WithDefaultCallOptions(
				grpc.MaxCallRecvMsgSize(opts.MaxMsgBytes),
				grpc.MaxCallSendMsgSize(opts.MaxMsgBytes),
			),
		)
	}

	ctx := context.Background()
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
		// Without blocking, the timeout context would only bound option
		// processing; the connection itself is established lazily.
		dialOpts = append(dialOpts, grpc.WithBlock())
	}

	cc, err := grpc.DialContext(ctx, target, dialOpts...)
	if err != nil {
		return nil, err
	}
	return &Client{cc: cc, client: NewFeedStoreClient(cc), Timeout: 0}, nil
}

func (c *Client) Close() error {
	if c == nil || c.cc == nil {
		return nil
	}
	return c.cc.Close()
}

func (c *Client) ctx() (context.Context, context.CancelFunc) {
	if c.Timeout > 0 {
		return context.WithTimeout(context.Background(), c.Timeout)
	}
	return context.Background(), func() {}
}

func (c *Client) Append(f *wire.Frame) error {
	frameBytes, err := wire.EncodeFrame(f)
	if err != nil {
		return err
	}
	ctx, cancel := c.ctx()
	defer cancel()
	_, err = c.client.Append(ctx, wrapperspb.Bytes(frameBytes))
	return unmapErr(err)
}

func (c *Client) Latest(author []byte) (*wire.Frame, error) {
	ctx, cancel := c.ctx()
	defer cancel()
	out, err := c.client.Latest(ctx, wrapperspb.Bytes(author))
	if err != nil {
		return nil, unmapErr(err)
	}
	return wire.DecodeFrame(out.GetValue())
}

func (c *Client) Get(author []byte, sequence uint64) (*wire.Frame, error) {
	req, err := encodeGetRequest(author, sequence)
	if err != nil {
		return nil, err
	}
	ctx, cancel := c.ctx()
	defer cancel()
	out, err := c.client.Get(ctx, wrapperspb.Bytes(req))
	if err != nil {
		return nil, unmapErr(err)
	}
	return wire.DecodeFrame(out.GetValue())
}

func (c *Client) Authors() ([][]byte, error) {
	ctx, cancel := c.ctx()
	defer cancel()
	out, err := c.client.Authors(ctx, wrapperspb.Bytes(nil))
	if err != nil {
		return nil, unmapErr(err)
	}
	return decodeAuthorsResponse(out.GetValue())
}

// Iterate walks the remote feed by sequence. The iterator issues one Get per
// frame and stops at the first missing sequence, which for a validated feed
// is the end of the chain.
func (c *Client) Iterate(author []byte, fromSequence uint64) (store.Iterator, error) {
	if fromSequence < 1 {
		fromSequence = 1
	}
	return &iterator{client: c, author: author, next: fromSequence}, nil
}

type iterator struct {
	client *Client
	author []byte
	next   uint64
	cur    *wire.Frame
	err    error
	done   bool
}

func (it *iterator) Next() bool {
	if it.done || it.err != nil {
		it.cur = nil
		return false
	}
	f, err := it.client.Get(it.author, it.next)
	if err != nil {
		it.cur = nil
		if store.IsNotFound(err) {
			it.done = true
		} else {
			it.err = err
		}
		return false
	}
	it.next++
	it.cur = f
	return true
}

func (it *iterator) Frame() *wire.Frame { return it.cur }
func (it *iterator) Err() error         { return it.err }
