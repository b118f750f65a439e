// Command kutyus-feedgrpcd serves a feed store backend over gRPC.
package main

import (
	"flag"
	"fmt"
	"net"
	"os"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"

	"kutyus.dev/kutyus/store/grpcstore"
	"kutyus.dev/kutyus/store/storeregistry"

	_ "kutyus.dev/kutyus/store/localfs"
	_ "kutyus.dev/kutyus/store/memory"
)

func main() {
	fs := flag.NewFlagSet("kutyus-feedgrpcd", flag.ExitOnError)
	listen := fs.String("listen", "127.0.0.1:7077", "listen address")
	backend := fs.String("backend", "localfs", "feed store backend name")
	listBackends := fs.Bool("list-backends", false, "list supported backends and exit")

	storeregistry.RegisterFlags(fs, storeregistry.UsageDaemon)

	_ = fs.Parse(os.Args[1:])
	if *listBackends {
		for _, b := range storeregistry.List(storeregistry.UsageDaemon) {
			if b.Description == "" {
				fmt.Fprintf(os.Stdout, "%s\n", b.Name)
				continue
			}
			fmt.Fprintf(os.Stdout, "%s\t%s\n", b.Name, b.Description)
		}
		return
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	feedStore, closeFn, err := storeregistry.Open(*backend, storeregistry.UsageDaemon)
	if err != nil {
		log.Fatal().Err(err).Str("backend", *backend).Msg("open backend")
	}
	if closeFn != nil {
		defer func() { _ = closeFn() }()
	}

	lis, err := net.Listen("tcp", *listen)
	if err != nil {
		log.Fatal().Err(err).Str("listen", *listen).Msg("listen")
	}
	defer lis.Close()

	s := grpc.NewServer()
	grpcstore.RegisterFeedStoreServer(s, &grpcstore.Server{
		Store: feedStore,
		Log:   log.With().Str("component", "feedstore").Logger(),
	})

	log.Info().
		Str("addr", lis.Addr().String()).
		Str("backend", *backend).
		Msg("kutyus-feedgrpcd listening")
	if err := s.Serve(lis); err != nil {
		log.Fatal().Err(err).Msg("serve")
	}
}
