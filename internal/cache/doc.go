// Package cache memoizes values that are expensive to compute and are
// requested concurrently, such as rasterized glyph images.
//
// A [Sharded] cache splits keys over 16 shards, each with its own lock.
// Values are computed at most once per key: concurrent callers for the same
// key wait for the first one, and the shard lock is not held while the value
// is computed.
//
//	images := cache.NewSharded[uint16, bitmap.ImageSet](cache.Uint16Hasher)
//	set := images.GetOrCreate(gid, func() bitmap.ImageSet { return render(gid) })
//
// Entries are never evicted. A cache lives as long as one compilation pass.
package cache
