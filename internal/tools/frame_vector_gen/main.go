// Command frame_vector_gen prints a deterministic chain of canonical frames
// as hex, for pinning wire-format vectors in tests and other implementations.
package main

import (
	"encoding/hex"
	"fmt"

	"kutyus.dev/kutyus/digestutil"
	"kutyus.dev/kutyus/feed"
	"kutyus.dev/kutyus/sign"
	"kutyus.dev/kutyus/wire"
)

func mustSigner(seedByte byte) sign.Signer {
	seed := make([]byte, 32)
	for i := range seed {
		seed[i] = seedByte
	}
	s, err := sign.NewEd25519SignerFromSeed(seed)
	if err != nil {
		panic(err)
	}
	return s
}

func main() {
	signer := mustSigner(0xA1)
	fmt.Printf("author=%x\n", signer.Public())

	prev := digestutil.Digest{}
	for i := uint64(1); i <= 3; i++ {
		f, err := feed.Build(signer, i, prev, 1000+i-1, nil, []byte(fmt.Sprintf("vector-%d", i)))
		if err != nil {
			panic(err)
		}
		frameBytes, err := wire.EncodeFrame(f)
		if err != nil {
			panic(err)
		}
		prev, err = f.Digest()
		if err != nil {
			panic(err)
		}

		fmt.Printf("seq=%d\n", i)
		fmt.Printf("id=%s\n", hex.EncodeToString(f.ID[:]))
		fmt.Printf("cid=%s\n", digestutil.CIDv1RawSHA512(frameBytes))
		fmt.Printf("frame=%s\n", hex.EncodeToString(frameBytes))
	}
}
