package unique

import (
	"errors"
	"sync"
	"time"

	"github.com/huynhanx03/go-batchbuffer/pkg/encoding"
)

const (
	nodeBits  = 10
	stepBits  = 12
	nodeMax   = -1 ^ (-1 << nodeBits)
	stepMask  = -1 ^ (-1 << stepBits)
	timeShift = nodeBits + stepBits
	nodeShift = stepBits
)

// Epoch is 2024-01-01T00:00:00Z in milliseconds.
const Epoch int64 = 1704067200000

var ErrNodeOutOfRange = errors.New("unique: node id out of range")

// SnowflakeNode generates time-ordered 63-bit ids: 41 bits of milliseconds
// since Epoch, 10 bits of node and 12 bits of sequence.
type SnowflakeNode struct {
	mu        sync.Mutex
	timestamp int64
	node      int64
	step      int64

	now func() time.Time
}

// NewSnowflakeNode returns a generator for node, which must be in [0, 1023].
// A nil clock means time.Now.
func NewSnowflakeNode(node int64, clock func() time.Time) (*SnowflakeNode, error) {
	if node < 0 || node > nodeMax {
		return nil, ErrNodeOutOfRange
	}
	if clock == nil {
		clock = time.Now
	}
	return &SnowflakeNode{node: node, now: clock}, nil
}

// Generate creates a unique ID
func (n *SnowflakeNode) Generate() int64 {
	n.mu.Lock()
	defer n.mu.Unlock()

	now := n.now().UnixMilli()
	if now < n.timestamp {
		now = n.timestamp
	}

	if now == n.timestamp {
		n.step = (n.step + 1) & stepMask
		if n.step == 0 {
			// Sequence exhausted for this millisecond.
			for now <= n.timestamp {
				now = n.now().UnixMilli()
			}
		}
	} else {
		n.step = 0
	}

	n.timestamp = now
	return (now-Epoch)<<timeShift | n.node<<nodeShift | n.step
}

// String generates an id rendered in base 62.
func (n *SnowflakeNode) String() string {
	return encoding.Base62Encode(uint64(n.Generate()))
}
