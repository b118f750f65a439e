package grpcstore

import (
	"flag"
	"time"

	"kutyus.dev/kutyus/store"
	"kutyus.dev/kutyus/store/storeregistry"
)

var (
	flagTarget  *string
	flagTimeout *time.Duration
)

func init() {
	storeregistry.MustRegister(storeregistry.Backend{
		Name:        "grpc",
		Description: "remote feed store over gRPC",
		Usage:       storeregistry.UsageCLI,
		RegisterFlags: func(fs *flag.FlagSet) {
			flagTarget = fs.String("grpc-target", "127.0.0.1:7077", "feed store gRPC target address")
			flagTimeout = fs.Duration("grpc-timeout", 10*time.Second, "per-RPC timeout")
		},
		Open: func() (store.FeedStore, func() error, error) {
			c, err := Dial(*flagTarget, DialOptions{Timeout: *flagTimeout})
			if err != nil {
				return nil, nil, err
			}
			c.Timeout = *flagTimeout
			return c, c.Close, nil
		},
	})
}
