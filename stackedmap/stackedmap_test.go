// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stackedmap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vechain/statecore/stackedmap"
)

func M(a ...any) []any {
	return a
}

func TestStackedMap(t *testing.T) {
	assert := assert.New(t)
	src := make(map[string]string)
	src["foo"] = "bar"

	sm := stackedmap.New(func(key string) (string, bool) {
		v, r := src[key]
		return v, r
	})

	tests := []struct {
		f         func()
		depth     int
		putKey    string
		putValue  string
		getKey    string
		getReturn []any
	}{
		{func() {}, 0, "", "", "foo", M("bar", true)},
		{func() { sm.Push() }, 1, "foo", "baz", "foo", M("baz", true)},
		{func() {}, 1, "foo", "baz1", "foo", M("baz1", true)},
		{func() { sm.Push() }, 2, "foo", "qux", "foo", M("qux", true)},
		{func() { sm.PopReject() }, 1, "", "", "foo", M("baz1", true)},
		{func() { sm.PopReject() }, 0, "", "", "foo", M("bar", true)},

		{func() { sm.Push() }, 1, "foo", "a", "foo", M("a", true)},
		{func() { sm.Push() }, 2, "foo", "b", "foo", M("b", true)},
		{func() { sm.PopAccept() }, 1, "", "", "foo", M("b", true)},
		{func() { sm.PopReject() }, 0, "", "", "foo", M("bar", true)},
		{func() {}, 0, "", "", "none", M("", false)},
	}

	for _, test := range tests {
		test.f()
		assert.Equal(test.depth, sm.Depth())
		if test.putKey != "" {
			sm.Put(test.putKey, test.putValue)
		}
		if test.getKey != "" {
			assert.Equal(test.getReturn, M(sm.Get(test.getKey)))
		}
	}

	assert.Panics(func() { sm.PopReject() })
	assert.Panics(func() { sm.PopAccept() })
}

func TestStackedMapRevisions(t *testing.T) {
	assert := assert.New(t)
	sm := stackedmap.New[string, int](nil)

	sm.Put("a", 1)
	assert.Equal(0, sm.Revision("a"))
	assert.Equal(-1, sm.Revision("b"))

	sm.Push()
	sm.Push()
	sm.Put("b", 2)
	assert.Equal(2, sm.Revision("b"))

	// accepting into a level where the key was absent moves the revision down
	sm.PopAccept()
	assert.Equal(1, sm.Revision("b"))
	sm.Put("a", 3)
	assert.Equal(1, sm.Revision("a"))

	sm.PopAccept()
	assert.Equal(0, sm.Revision("a"))
	assert.Equal(0, sm.Revision("b"))

	v, _ := sm.Get("a")
	assert.Equal(3, v)
	assert.Equal(2, sm.Len())

	got := make(map[string]int)
	sm.Range(func(k string, v int) bool {
		got[k] = v
		return true
	})
	assert.Equal(map[string]int{"a": 3, "b": 2}, got)
}
