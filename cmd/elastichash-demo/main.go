// Command elastichash-demo is a small runnable driver over the
// elastichash package. It is a consumer of the public API only; the
// core package never imports it.
package main

import (
	"fmt"

	"github.com/elastic-hash/elastichash"
)

func main() {
	fmt.Println("Elastic Hash Table Demo")

	t := elastichash.New(1000)

	for i := 0; i < 500; i++ {
		key := []byte(fmt.Sprintf("k:%d", i))
		value := []byte(fmt.Sprintf("v:%d", i))
		if err := t.Insert(key, value); err != nil {
			fmt.Printf("insert %s failed: %v\n", key, err)
		}
	}

	fmt.Printf("\nSize: %d, Capacity: %d, Levels: %d\n", t.Len(), t.Capacity(), t.NumLevels())

	for i := 0; i < 5; i++ {
		key := fmt.Sprintf("k:%d", i)
		v, ok := t.Get([]byte(key))
		fmt.Printf("Get(%s) = %q, found=%t\n", key, v, ok)
	}

	fmt.Println("\nPer-level stats:")
	for _, lvl := range t.LevelStats() {
		fmt.Printf("  level %d: capacity=%d live=%d tombstones=%d fill=%.3f\n",
			lvl.Level, lvl.Capacity, lvl.Live, lvl.Tombstones, lvl.FillRatio)
	}

	fmt.Println("\nDelete/reinsert:")
	t.Delete([]byte("k:0"))
	fmt.Printf("Contains(k:0) after delete: %t\n", t.Contains([]byte("k:0")))
	t.Insert([]byte("k:0"), []byte("v:0-reinserted"))
	v, _ := t.Get([]byte("k:0"))
	fmt.Printf("Contains(k:0) after reinsert: %t, value=%q\n", t.Contains([]byte("k:0")), v)

	fmt.Println("\nIterating all entries:")
	count := 0
	for range t.All() {
		count++
	}
	fmt.Printf("Iterated %d entries (Len() == %d)\n", count, t.Len())

	fmt.Println("\n" + t.String())
}
