package utils

import (
	"sync"
	"testing"
	"time"
)

func TestSnowflake_单调递增且不重复(t *testing.T) {
	gen, err := NewSnowflake(3)
	if err != nil {
		t.Fatalf("NewSnowflake err=%v", err)
	}
	var last int64
	for i := 0; i < 20000; i++ {
		id := gen.NextID()
		if id <= last {
			t.Fatalf("期望单调递增, last=%d id=%d", last, id)
		}
		last = id
	}
}

func TestSnowflake_并发不重复(t *testing.T) {
	gen, err := NewSnowflake(7)
	if err != nil {
		t.Fatal(err)
	}
	const workers, per = 8, 2000
	ids := make(chan int64, workers*per)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < per; i++ {
				ids <- gen.NextID()
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]struct{}, workers*per)
	for id := range ids {
		if _, dup := seen[id]; dup {
			t.Fatalf("id 重复: %d", id)
		}
		seen[id] = struct{}{}
	}
}

func TestSplitID(t *testing.T) {
	gen, _ := NewSnowflake(42)
	before := time.Now().Add(-time.Second)
	ts, node := SplitID(gen.NextID())
	if node != 42 {
		t.Fatalf("node=%d", node)
	}
	if ts.Before(before) || ts.After(time.Now().Add(time.Second)) {
		t.Fatalf("时间戳不合理: %v", ts)
	}
}

func TestNewSnowflake_节点号越界(t *testing.T) {
	if _, err := NewSnowflake(-1); err == nil {
		t.Fatalf("期望节点号 -1 返回错误")
	}
	if _, err := NewSnowflake(maxNodeID + 1); err == nil {
		t.Fatalf("期望节点号越界返回错误")
	}
}
