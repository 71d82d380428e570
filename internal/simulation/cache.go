// Copyright 2025 James Ross
package simulation

import (
	"bytes"
	"container/list"
	"encoding/gob"
	"sync"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/sync/singleflight"

	"github.com/riskforge/montecarlo/internal/riskmodel"
)

// resultCache is an LRU cache of SimulationResults keyed by parameter
// fingerprint, with zstd-compressed storage (a dense run holds tens of
// thousands of float64s per risk) and a singleflight group so two
// concurrent callers requesting the same fingerprint share one run
// instead of duplicating the work.
type resultCache struct {
	capacity int

	mu      sync.Mutex
	order   *list.List
	entries map[string]*list.Element

	group singleflight.Group

	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

type cacheEntry struct {
	fingerprint string
	compressed  []byte
}

func newResultCache(capacity int) *resultCache {
	if capacity <= 0 {
		return nil
	}
	enc, _ := zstd.NewWriter(nil)
	dec, _ := zstd.NewReader(nil)
	return &resultCache{
		capacity: capacity,
		order:    list.New(),
		entries:  make(map[string]*list.Element),
		encoder:  enc,
		decoder:  dec,
	}
}

func (c *resultCache) get(fingerprint string) (*riskmodel.SimulationResults, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.Lock()
	el, ok := c.entries[fingerprint]
	if !ok {
		c.mu.Unlock()
		return nil, false
	}
	c.order.MoveToFront(el)
	entry := el.Value.(*cacheEntry)
	c.mu.Unlock()

	raw, err := c.decoder.DecodeAll(entry.compressed, nil)
	if err != nil {
		return nil, false
	}
	var results riskmodel.SimulationResults
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&results); err != nil {
		return nil, false
	}
	return &results, true
}

func (c *resultCache) put(fingerprint string, results *riskmodel.SimulationResults) {
	if c == nil {
		return
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(results); err != nil {
		return
	}
	compressed := c.encoder.EncodeAll(buf.Bytes(), nil)

	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[fingerprint]; ok {
		c.order.MoveToFront(el)
		el.Value.(*cacheEntry).compressed = compressed
		return
	}

	el := c.order.PushFront(&cacheEntry{fingerprint: fingerprint, compressed: compressed})
	c.entries[fingerprint] = el

	for c.order.Len() > c.capacity {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).fingerprint)
	}
}
