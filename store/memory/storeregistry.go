package memory

import (
	"flag"

	"kutyus.dev/kutyus/store"
	"kutyus.dev/kutyus/store/storeregistry"
)

func init() {
	storeregistry.MustRegister(storeregistry.Backend{
		Name:          "memory",
		Description:   "in-memory feed store (nothing survives the process)",
		Usage:         storeregistry.UsageDaemon,
		RegisterFlags: func(fs *flag.FlagSet) {},
		Open: func() (store.FeedStore, func() error, error) {
			return New(), nil, nil
		},
	})
}
