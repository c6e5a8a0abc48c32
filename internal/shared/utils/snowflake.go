package utils

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// 连接 id 布局：41 位毫秒时间戳 | 10 位节点号 | 12 位序列号。
const (
	idEpoch = int64(1767225600000) // 2026-01-01 00:00:00 UTC

	nodeBits = 10
	seqBits  = 12

	maxNodeID = 1<<nodeBits - 1
	seqMask   = 1<<seqBits - 1
)

// Snowflake 无锁生成器：时间戳和序列号打包在一个 int64 里，CAS 推进。
// 时钟回拨时沿用上一次的时间戳，保证单调递增。
type Snowflake struct {
	node  int64
	state atomic.Int64 // (毫秒 - idEpoch) << seqBits | seq
}

func NewSnowflake(nodeID int64) (*Snowflake, error) {
	if nodeID < 0 || nodeID > maxNodeID {
		return nil, fmt.Errorf("snowflake node id out of range [0,%d]: %d", maxNodeID, nodeID)
	}
	return &Snowflake{node: nodeID}, nil
}

func (s *Snowflake) NextID() int64 {
	for {
		old := s.state.Load()
		lastMs, seq := old>>seqBits, old&seqMask

		now := time.Now().UnixMilli() - idEpoch
		var next int64
		switch {
		case now > lastMs:
			next = now << seqBits
		case seq < seqMask:
			next = old + 1
		default:
			// 本毫秒序列号用完，借用下一毫秒
			next = (lastMs + 1) << seqBits
		}
		if s.state.CompareAndSwap(old, next) {
			ms, sq := next>>seqBits, next&seqMask
			return ms<<(nodeBits+seqBits) | s.node<<seqBits | sq
		}
	}
}

// SplitID 拆出 id 里的生成时间与节点号，排查日志时用。
func SplitID(id int64) (time.Time, int64) {
	ms := id>>(nodeBits+seqBits) + idEpoch
	node := id >> seqBits & maxNodeID
	return time.UnixMilli(ms), node
}

var defaultGen = sync.OnceValues(func() (*Snowflake, error) {
	raw := strings.TrimSpace(os.Getenv("NODE_ID"))
	if raw == "" {
		return NewSnowflake(1)
	}
	node, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid NODE_ID %q: %w", raw, err)
	}
	return NewSnowflake(node)
})

// NextSnowflakeID 走进程级生成器，节点号取 NODE_ID 环境变量，默认 1。
func NextSnowflakeID() (int64, error) {
	gen, err := defaultGen()
	if err != nil {
		return 0, err
	}
	return gen.NextID(), nil
}
