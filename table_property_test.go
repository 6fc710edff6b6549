package elastichash

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// TestTable_MatchesReferenceModel runs a randomized sequence of
// insert/delete/get operations against both the real Table and a plain
// Go map acting as the reference model, then asserts the observed live
// key/value set matches the model exactly.
func TestTable_MatchesReferenceModel(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	tbl := New(64)
	model := map[string]string{}

	keyspace := make([]string, 64)
	for i := range keyspace {
		keyspace[i] = fmt.Sprintf("key-%d", i)
	}

	const ops = 4000
	for i := 0; i < ops; i++ {
		key := keyspace[rng.Intn(len(keyspace))]

		switch rng.Intn(3) {
		case 0: // insert/update
			val := fmt.Sprintf("v-%d", i)
			require.NoError(t, tbl.Insert(k(key), k(val)))
			model[key] = val
		case 1: // delete
			_, present := model[key]
			got := tbl.Delete(k(key))
			require.Equal(t, present, got)
			delete(model, key)
		case 2: // get
			wantVal, wantOk := model[key]
			gotVal, gotOk := tbl.Get(k(key))
			require.Equal(t, wantOk, gotOk)
			if wantOk {
				require.Equal(t, wantVal, string(gotVal))
			}
		}

		require.Equal(t, len(model), tbl.Len())
	}

	observed := map[string]string{}
	for key, value := range tbl.All() {
		observed[string(key)] = string(value)
	}

	if diff := cmp.Diff(model, observed); diff != "" {
		t.Fatalf("table diverged from reference model (-model +observed):\n%s", diff)
	}
}

// TestTable_InvariantsHoldThroughoutRandomOps checks the structural
// invariants after every mutation in a randomized run: length equals the
// sum of per-level live counts, each level's live+tombstones never
// exceeds its capacity, and total capacity is the sum of level
// capacities.
func TestTable_InvariantsHoldThroughoutRandomOps(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	tbl := New(256)

	for i := 0; i < 3000; i++ {
		key := []byte(fmt.Sprintf("k-%d", rng.Intn(200)))
		if rng.Intn(2) == 0 {
			require.NoError(t, tbl.Insert(key, key))
		} else {
			tbl.Delete(key)
		}

		sumLive := 0
		sumCapacity := 0
		for _, lvl := range tbl.LevelStats() {
			require.LessOrEqual(t, lvl.Live+lvl.Tombstones, lvl.Capacity)
			sumLive += lvl.Live
			sumCapacity += lvl.Capacity
		}
		require.Equal(t, tbl.Len(), sumLive)
		require.Equal(t, tbl.Capacity(), sumCapacity)
	}
}
