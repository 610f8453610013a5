package hash

import (
	"github.com/cespare/xxhash/v2"

	"github.com/huynhanx03/go-batchbuffer/pkg/encoding"
)

// Sum64 returns the xxhash of data.
func Sum64(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// ContentID returns a short stable identifier for data, usable as a document id
// so that writing the same payload twice does not create a duplicate.
func ContentID(data []byte) string {
	return encoding.Base62Encode(xxhash.Sum64(data))
}
