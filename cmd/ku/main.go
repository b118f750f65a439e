// Command ku is the kutyus CLI: key generation, feed appends, and feed
// inspection against a local or remote feed store.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"kutyus.dev/kutyus/config"
	"kutyus.dev/kutyus/digestutil"
	"kutyus.dev/kutyus/feed"
	"kutyus.dev/kutyus/keys"
	"kutyus.dev/kutyus/sign"
	"kutyus.dev/kutyus/store"
	"kutyus.dev/kutyus/store/storeregistry"
	"kutyus.dev/kutyus/wire"

	_ "kutyus.dev/kutyus/store/grpcstore"
	_ "kutyus.dev/kutyus/store/localfs"
)

var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "init":
		err = cmdInit(os.Args[2:])
	case "keygen":
		err = cmdKeygen(os.Args[2:])
	case "append":
		err = cmdAppend(os.Args[2:])
	case "latest":
		err = cmdLatest(os.Args[2:])
	case "log":
		err = cmdLog(os.Args[2:])
	case "authors":
		err = cmdAuthors(os.Args[2:])
	case "backends":
		err = cmdBackends(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Error().Err(err).Msg(os.Args[1] + " failed")
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: ku <command> [flags]

commands:
  init      create the default config file
  keygen    generate a new author keypair
  append    append a message read from stdin to your feed
  latest    print the latest frame of a feed
  log       print a feed's frames in sequence order
  authors   list feeds known to the store
  backends  list supported feed store backends`)
}

func cmdInit(args []string) error {
	fs := flag.NewFlagSet("ku init", flag.ExitOnError)
	cfgPath := fs.String("config", mustDefaultConfigPath(), "config file path")
	force := fs.Bool("force", false, "overwrite an existing config file")
	_ = fs.Parse(args)

	if err := config.Init(*cfgPath, *force); err != nil {
		return err
	}
	log.Info().Str("path", *cfgPath).Msg("config created")
	return nil
}

func cmdKeygen(args []string) error {
	fs := flag.NewFlagSet("ku keygen", flag.ExitOnError)
	name := fs.String("name", "my", "key name")
	scheme := fs.String("scheme", sign.SchemeEd25519, "signature scheme (ed25519 or dilithium3)")
	dir := fs.String("keys", "", "keystore directory (default ~/.kutyus/keys)")
	_ = fs.Parse(args)

	ks, err := keys.Open(*dir)
	if err != nil {
		return err
	}
	var signer sign.Signer
	switch *scheme {
	case sign.SchemeEd25519:
		signer, err = ks.Generate(*name)
	case sign.SchemeDilithium3:
		signer, err = ks.GenerateDilithium3(*name)
	default:
		return fmt.Errorf("unsupported scheme %q", *scheme)
	}
	if err != nil {
		return err
	}
	log.Info().
		Str("name", *name).
		Str("scheme", signer.Scheme()).
		Str("author", hex.EncodeToString(signer.Public())).
		Msg("keypair generated")
	return nil
}

func cmdAppend(args []string) error {
	fs := flag.NewFlagSet("ku append", flag.ExitOnError)
	cfgPath := fs.String("config", mustDefaultConfigPath(), "config file path")
	backend := fs.String("store", "", "feed store backend (default from config)")
	keyName := fs.String("key", "", "keystore identity (default from config)")
	keysDir := fs.String("keys", "", "keystore directory (default ~/.kutyus/keys)")
	contentType := fs.String("content-type", "", "content type tag (default: opaque blob)")
	storeregistry.RegisterFlags(fs, storeregistry.UsageCLI)
	_ = fs.Parse(args)

	s, closeFn, signer, err := openStoreAndKey(fs, *cfgPath, *backend, *keyName, *keysDir)
	if err != nil {
		return err
	}
	if closeFn != nil {
		defer func() { _ = closeFn() }()
	}

	content, err := io.ReadAll(os.Stdin)
	if err != nil {
		return err
	}

	author := signer.Public()
	var sequence uint64 = 1
	var previous digestutil.Digest
	last, err := s.Latest(author)
	switch {
	case err == nil:
		lastMsg, merr := last.Message()
		if merr != nil {
			return merr
		}
		sequence = lastMsg.Sequence + 1
		previous, err = last.Digest()
		if err != nil {
			return err
		}
	case store.IsNotFound(err):
		// First message of this feed.
	default:
		return err
	}

	f, err := feed.Build(signer, sequence, previous, uint64(time.Now().UnixMilli()),
		wire.ContentType(*contentType), content)
	if err != nil {
		return err
	}
	if err := s.Append(f); err != nil {
		return err
	}
	log.Info().
		Uint64("sequence", sequence).
		Str("id", f.ID.String()).
		Msg("frame appended")
	return nil
}

func cmdLatest(args []string) error {
	fs := flag.NewFlagSet("ku latest", flag.ExitOnError)
	cfgPath := fs.String("config", mustDefaultConfigPath(), "config file path")
	backend := fs.String("store", "", "feed store backend (default from config)")
	keyName := fs.String("key", "", "keystore identity (default from config)")
	keysDir := fs.String("keys", "", "keystore directory (default ~/.kutyus/keys)")
	authorHex := fs.String("author", "", "feed author public key, hex (default: own key)")
	storeregistry.RegisterFlags(fs, storeregistry.UsageCLI)
	_ = fs.Parse(args)

	s, closeFn, author, err := openStoreAndAuthor(fs, *cfgPath, *backend, *keyName, *keysDir, *authorHex)
	if err != nil {
		return err
	}
	if closeFn != nil {
		defer func() { _ = closeFn() }()
	}

	f, err := s.Latest(author)
	if err != nil {
		return err
	}
	return printFrame(f)
}

func cmdLog(args []string) error {
	fs := flag.NewFlagSet("ku log", flag.ExitOnError)
	cfgPath := fs.String("config", mustDefaultConfigPath(), "config file path")
	backend := fs.String("store", "", "feed store backend (default from config)")
	keyName := fs.String("key", "", "keystore identity (default from config)")
	keysDir := fs.String("keys", "", "keystore directory (default ~/.kutyus/keys)")
	authorHex := fs.String("author", "", "feed author public key, hex (default: own key)")
	from := fs.Uint64("from", 1, "first sequence number to print")
	storeregistry.RegisterFlags(fs, storeregistry.UsageCLI)
	_ = fs.Parse(args)

	s, closeFn, author, err := openStoreAndAuthor(fs, *cfgPath, *backend, *keyName, *keysDir, *authorHex)
	if err != nil {
		return err
	}
	if closeFn != nil {
		defer func() { _ = closeFn() }()
	}

	it, err := s.Iterate(author, *from)
	if err != nil {
		return err
	}
	for it.Next() {
		if err := printFrame(it.Frame()); err != nil {
			return err
		}
	}
	return it.Err()
}

func cmdAuthors(args []string) error {
	fs := flag.NewFlagSet("ku authors", flag.ExitOnError)
	cfgPath := fs.String("config", mustDefaultConfigPath(), "config file path")
	backend := fs.String("store", "", "feed store backend (default from config)")
	storeregistry.RegisterFlags(fs, storeregistry.UsageCLI)
	_ = fs.Parse(args)

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return err
	}
	s, closeFn, err := openStore(fs, cfg, *backend)
	if err != nil {
		return err
	}
	if closeFn != nil {
		defer func() { _ = closeFn() }()
	}

	authors, err := s.Authors()
	if err != nil {
		return err
	}
	for _, author := range authors {
		fmt.Fprintln(os.Stdout, hex.EncodeToString(author))
	}
	return nil
}

func cmdBackends(args []string) error {
	fs := flag.NewFlagSet("ku backends", flag.ExitOnError)
	_ = fs.Parse(args)
	for _, b := range storeregistry.List(storeregistry.UsageCLI) {
		if b.Description == "" {
			fmt.Fprintf(os.Stdout, "%s\n", b.Name)
			continue
		}
		fmt.Fprintf(os.Stdout, "%s\t%s\n", b.Name, b.Description)
	}
	return nil
}

func openStoreAndKey(fs *flag.FlagSet, cfgPath, backend, keyName, keysDir string) (store.FeedStore, func() error, sign.Signer, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, nil, err
	}
	if keyName == "" {
		keyName = cfg.Key
	}
	ks, err := keys.Open(keysDir)
	if err != nil {
		return nil, nil, nil, err
	}
	signer, err := ks.Load(keyName)
	if err != nil {
		return nil, nil, nil, err
	}
	s, closeFn, err := openStore(fs, cfg, backend)
	if err != nil {
		return nil, nil, nil, err
	}
	return s, closeFn, signer, nil
}

func openStoreAndAuthor(fs *flag.FlagSet, cfgPath, backend, keyName, keysDir, authorHex string) (store.FeedStore, func() error, []byte, error) {
	if authorHex != "" {
		author, err := hex.DecodeString(authorHex)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("invalid author hex: %w", err)
		}
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return nil, nil, nil, err
		}
		s, closeFn, err := openStore(fs, cfg, backend)
		if err != nil {
			return nil, nil, nil, err
		}
		return s, closeFn, author, nil
	}
	s, closeFn, signer, err := openStoreAndKey(fs, cfgPath, backend, keyName, keysDir)
	if err != nil {
		return nil, nil, nil, err
	}
	return s, closeFn, signer.Public(), nil
}

func openStore(fs *flag.FlagSet, cfg config.Config, backend string) (store.FeedStore, func() error, error) {
	if backend == "" {
		backend = cfg.Backend
	}
	// Seed the localfs root from the config file when the flag was not set.
	if f := fs.Lookup("localfs-dir"); f != nil && f.Value.String() == "" {
		if err := fs.Set("localfs-dir", cfg.Storage); err != nil {
			return nil, nil, err
		}
	}
	return storeregistry.Open(backend, storeregistry.UsageCLI)
}

func printFrame(f *wire.Frame) error {
	msg, err := f.Message()
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "sequence:  %d\n", msg.Sequence)
	fmt.Fprintf(os.Stdout, "author:    %s\n", hex.EncodeToString(msg.Author))
	fmt.Fprintf(os.Stdout, "timestamp: %s\n", time.UnixMilli(int64(msg.Timestamp)).UTC().Format(time.RFC3339))
	fmt.Fprintf(os.Stdout, "id:        %s\n", f.ID)
	if !msg.Parent.IsZero() {
		fmt.Fprintf(os.Stdout, "parent:    %s\n", msg.Parent)
	}
	if msg.ContentType.IsBlob() {
		fmt.Fprintf(os.Stdout, "content:   %q\n", msg.Content)
	} else {
		fmt.Fprintf(os.Stdout, "content:   (%s) %q\n", msg.ContentType, msg.Content)
	}
	fmt.Fprintln(os.Stdout)
	return nil
}

func mustDefaultConfigPath() string {
	p, err := config.DefaultPath()
	if err != nil {
		return "config.toml"
	}
	return p
}
