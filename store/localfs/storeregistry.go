package localfs

import (
	"flag"

	"kutyus.dev/kutyus/store"
	"kutyus.dev/kutyus/store/storeregistry"
)

var flagDir *string

func init() {
	storeregistry.MustRegister(storeregistry.Backend{
		Name:        "localfs",
		Description: "local filesystem feed store (content-addressed objects + sequence index)",
		Usage:       storeregistry.UsageCLI | storeregistry.UsageDaemon,
		RegisterFlags: func(fs *flag.FlagSet) {
			flagDir = fs.String("localfs-dir", "", "localfs store root directory")
		},
		Open: func() (store.FeedStore, func() error, error) {
			s, err := New(*flagDir)
			if err != nil {
				return nil, nil, err
			}
			return s, nil, nil
		},
	})
}
