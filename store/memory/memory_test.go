package memory

import (
	"testing"

	"kutyus.dev/kutyus/store"
	"kutyus.dev/kutyus/store/testkit"
)

func TestConformance(t *testing.T) {
	testkit.RunFeedStoreConformance(t, func(t *testing.T) store.FeedStore {
		return New()
	})
}
