package vfcprobe_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"testing"

	"github.com/hupe1980/vfcprobe"
	"github.com/hupe1980/vfcprobe/internal/slots"
	"github.com/hupe1980/vfcprobe/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, optFns ...vfcprobe.Option) *vfcprobe.Store {
	t.Helper()
	s, err := vfcprobe.New(optFns...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// collidingPair returns two variables of test "t" sharing a slot in a table
// of the given capacity.
func collidingPair(t *testing.T, capacity int) (string, string) {
	t.Helper()
	a, b, ok := testutil.CollidingVariables(slots.Hash, capacity, "t")
	require.True(t, ok)
	return a, b
}

func TestNew(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		s := newStore(t)
		assert.Equal(t, vfcprobe.DefaultCapacity, s.Capacity())
		assert.Equal(t, 0, s.Count())
	})

	t.Run("InvalidCapacity", func(t *testing.T) {
		for _, c := range []int{0, -5} {
			_, err := vfcprobe.New(vfcprobe.WithCapacity(c))
			assert.ErrorIs(t, err, vfcprobe.ErrInvalidCapacity)
		}
	})

	t.Run("Env", func(t *testing.T) {
		t.Setenv(vfcprobe.EnvCapacity, "64")
		s := newStore(t, vfcprobe.WithEnv())
		assert.Equal(t, 64, s.Capacity())
	})

	t.Run("EnvUnparsable", func(t *testing.T) {
		t.Setenv(vfcprobe.EnvCapacity, "lots")
		_, err := vfcprobe.New(vfcprobe.WithEnv())
		assert.ErrorIs(t, err, vfcprobe.ErrInvalidCapacity)
	})

	t.Run("ExplicitOptionAfterEnvWins", func(t *testing.T) {
		t.Setenv(vfcprobe.EnvCapacity, "64")
		s := newStore(t, vfcprobe.WithEnv(), vfcprobe.WithCapacity(32))
		assert.Equal(t, 32, s.Capacity())
	})
}

func TestInsertLookup(t *testing.T) {
	t.Run("InsertionOrder", func(t *testing.T) {
		s := newStore(t)
		for _, v := range []float64{3, 1, 2, 1} {
			require.NoError(t, s.Insert("t", "x", v))
		}
		got, err := s.Lookup("t", "x")
		require.NoError(t, err)
		assert.Equal(t, []float64{3, 1, 2, 1}, got)
		assert.Equal(t, 1, s.Count())
	})

	t.Run("KeysAreIsolated", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Insert("t", "x", 1))
		require.NoError(t, s.Insert("t", "y", 2))
		require.NoError(t, s.Insert("other", "x", 3))

		x, _ := s.Lookup("t", "x")
		y, _ := s.Lookup("t", "y")
		ox, _ := s.Lookup("other", "x")
		assert.Equal(t, []float64{1}, x)
		assert.Equal(t, []float64{2}, y)
		assert.Equal(t, []float64{3}, ox)
		assert.Equal(t, 3, s.Count())
	})

	t.Run("Absent", func(t *testing.T) {
		s := newStore(t)
		got, err := s.Lookup("t", "missing")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("LookupReturnsCopy", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Insert("t", "x", 1))
		got, _ := s.Lookup("t", "x")
		got[0] = 42
		again, _ := s.Lookup("t", "x")
		assert.Equal(t, []float64{1}, again)
	})

	t.Run("SpecialValues", func(t *testing.T) {
		s := newStore(t)
		values := []float64{math.NaN(), math.Inf(1), math.Inf(-1), math.Copysign(0, -1), math.SmallestNonzeroFloat64}
		for _, v := range values {
			require.NoError(t, s.Insert("t", "x", v))
		}
		got, _ := s.Lookup("t", "x")
		require.Len(t, got, len(values))
		for i := range values {
			assert.Equal(t, math.Float64bits(values[i]), math.Float64bits(got[i]))
		}
	})

	t.Run("EmptyIdentifiers", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Insert("", "", 1))
		got, _ := s.Lookup("", "")
		assert.Equal(t, []float64{1}, got)
	})
}

func TestInvalidKey(t *testing.T) {
	tests := []struct {
		name     string
		test     string
		variable string
		char     rune
	}{
		{"ColonInTest", "a:b", "x", ':'},
		{"CommaInTest", "a,b", "x", ','},
		{"ColonInVariable", "t", "x:y", ':'},
		{"CommaInVariable", "t", "x,y", ','},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(t)

			err := s.Insert(tt.test, tt.variable, 1)
			require.ErrorIs(t, err, vfcprobe.ErrInvalidKeyCharacter)

			var ik *vfcprobe.ErrInvalidKey
			require.True(t, errors.As(err, &ik))
			assert.Equal(t, tt.char, ik.Char)

			_, err = s.Lookup(tt.test, tt.variable)
			assert.ErrorIs(t, err, vfcprobe.ErrInvalidKeyCharacter)
			assert.ErrorIs(t, s.Remove(tt.test, tt.variable), vfcprobe.ErrInvalidKeyCharacter)
			assert.Equal(t, 0, s.Count())
		})
	}
}

func TestCollision(t *testing.T) {
	const capacity = 16

	t.Run("ErrorPolicy", func(t *testing.T) {
		a, b := collidingPair(t, capacity)
		s := newStore(t, vfcprobe.WithCapacity(capacity), vfcprobe.WithCollisionPolicy(vfcprobe.CollisionError))

		require.NoError(t, s.Insert("t", a, 1))
		err := s.Insert("t", b, 2)
		require.ErrorIs(t, err, vfcprobe.ErrCollision)

		var hc *vfcprobe.ErrHashCollision
		require.True(t, errors.As(err, &hc))
		assert.Equal(t, "t:"+b, hc.Key)
		assert.Equal(t, "t:"+a, hc.Existing)
		assert.Equal(t, capacity, hc.Capacity)
		assert.Equal(t, slots.Hash("t:"+a, capacity), hc.Slot)

		// The resident entry is untouched.
		got, _ := s.Lookup("t", a)
		assert.Equal(t, []float64{1}, got)
		missing, _ := s.Lookup("t", b)
		assert.Nil(t, missing)
	})

	t.Run("AbortPolicyCallsExit", func(t *testing.T) {
		a, b := collidingPair(t, capacity)
		var codes []int
		s := newStore(t,
			vfcprobe.WithCapacity(capacity),
			vfcprobe.WithExitFunc(func(code int) { codes = append(codes, code) }),
		)

		require.NoError(t, s.Insert("t", a, 1))
		assert.Empty(t, codes)

		err := s.Insert("t", b, 2)
		assert.ErrorIs(t, err, vfcprobe.ErrCollision)
		assert.Equal(t, []int{1}, codes)
	})

	t.Run("ErrorPolicyDoesNotExit", func(t *testing.T) {
		a, b := collidingPair(t, capacity)
		exited := false
		s := newStore(t,
			vfcprobe.WithCapacity(capacity),
			vfcprobe.WithCollisionPolicy(vfcprobe.CollisionError),
			vfcprobe.WithExitFunc(func(int) { exited = true }),
		)
		require.NoError(t, s.Insert("t", a, 1))
		require.Error(t, s.Insert("t", b, 2))
		assert.False(t, exited)
	})

	t.Run("RemoveFreesSlot", func(t *testing.T) {
		a, b := collidingPair(t, capacity)
		s := newStore(t, vfcprobe.WithCapacity(capacity), vfcprobe.WithCollisionPolicy(vfcprobe.CollisionError))

		require.NoError(t, s.Insert("t", a, 1))
		require.NoError(t, s.Remove("t", a))
		require.NoError(t, s.Insert("t", b, 2))

		got, _ := s.Lookup("t", b)
		assert.Equal(t, []float64{2}, got)
	})
}

func TestRemove(t *testing.T) {
	t.Run("Idempotent", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Insert("t", "x", 1))
		require.NoError(t, s.Remove("t", "x"))
		require.NoError(t, s.Remove("t", "x"))

		got, _ := s.Lookup("t", "x")
		assert.Nil(t, got)
		assert.Equal(t, 0, s.Count())
	})

	t.Run("ForeignKeyIsNoop", func(t *testing.T) {
		a, b := collidingPair(t, 16)
		s := newStore(t, vfcprobe.WithCapacity(16))
		require.NoError(t, s.Insert("t", a, 1))
		require.NoError(t, s.Remove("t", b))

		got, _ := s.Lookup("t", a)
		assert.Equal(t, []float64{1}, got)
	})

	t.Run("ReinsertStartsFresh", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Insert("t", "x", 1))
		require.NoError(t, s.Remove("t", "x"))
		require.NoError(t, s.Insert("t", "x", 2))
		got, _ := s.Lookup("t", "x")
		assert.Equal(t, []float64{2}, got)
	})
}

func TestResize(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Insert("t", "x", 1))
	require.NoError(t, s.Insert("t", "y", 2))

	require.NoError(t, s.Resize(100))
	assert.Equal(t, 100, s.Capacity())
	assert.Equal(t, 0, s.Count())
	got, _ := s.Lookup("t", "x")
	assert.Nil(t, got)

	require.NoError(t, s.Insert("t", "x", 3))
	got, _ = s.Lookup("t", "x")
	assert.Equal(t, []float64{3}, got)

	t.Run("InvalidCapacityKeepsTable", func(t *testing.T) {
		assert.ErrorIs(t, s.Resize(0), vfcprobe.ErrInvalidCapacity)
		assert.Equal(t, 100, s.Capacity())
		assert.Equal(t, 1, s.Count())
	})
}

func TestStatsAndEntries(t *testing.T) {
	s := newStore(t, vfcprobe.WithCapacity(100))
	require.NoError(t, s.Insert("t", "x", 1))
	require.NoError(t, s.Insert("t", "x", 2))
	require.NoError(t, s.Insert("t", "y", 3))

	st := s.Stats()
	assert.Equal(t, 2, st.Entries)
	assert.Equal(t, 3, st.Values)
	assert.Equal(t, 100, st.Capacity)
	assert.InDelta(t, 0.02, st.LoadFactor, 1e-12)

	got := map[string][]float64{}
	for e := range s.Entries() {
		got[e.Key()] = e.Values
	}
	assert.Equal(t, map[string][]float64{"t:x": {1, 2}, "t:y": {3}}, got)

	t.Run("SnapshotSurvivesMutation", func(t *testing.T) {
		for e := range s.Entries() {
			require.NoError(t, s.Remove(e.Test, e.Variable))
		}
		assert.Equal(t, 0, s.Count())
	})
}

func TestClosed(t *testing.T) {
	s, err := vfcprobe.New()
	require.NoError(t, err)
	require.NoError(t, s.Insert("t", "x", 1))
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	assert.ErrorIs(t, s.Insert("t", "x", 1), vfcprobe.ErrClosed)
	_, err = s.Lookup("t", "x")
	assert.ErrorIs(t, err, vfcprobe.ErrClosed)
	assert.ErrorIs(t, s.Remove("t", "x"), vfcprobe.ErrClosed)
	assert.ErrorIs(t, s.Resize(10), vfcprobe.ErrClosed)
	assert.Equal(t, 0, s.Count())
	assert.Equal(t, 0, s.Capacity())

	n := 0
	for range s.Entries() {
		n++
	}
	assert.Zero(t, n)
}

func TestMetricsCollector(t *testing.T) {
	mc := &vfcprobe.BasicMetricsCollector{}
	s := newStore(t, vfcprobe.WithMetricsCollector(mc), vfcprobe.WithCollisionPolicy(vfcprobe.CollisionError))

	require.NoError(t, s.Insert("t", "x", 1))
	require.NoError(t, s.Insert("t", "x", 2))
	require.Error(t, s.Insert("t", "x:y", 3))
	_, _ = s.Lookup("t", "x")
	_, _ = s.Lookup("t", "nope")
	require.NoError(t, s.Remove("t", "x"))
	require.NoError(t, s.Resize(50))

	stats := mc.GetStats()
	assert.Equal(t, int64(3), stats.InsertCount)
	assert.Equal(t, int64(1), stats.InsertErrors)
	assert.Equal(t, int64(2), stats.LookupCount)
	assert.Equal(t, int64(1), stats.LookupMisses)
	assert.Equal(t, int64(1), stats.RemoveCount)
	assert.Equal(t, int64(1), stats.ResizeCount)
}

// logRecords decodes the JSON log lines written to buf.
func logRecords(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	sc := bufio.NewScanner(buf)
	for sc.Scan() {
		var rec map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &rec))
		out = append(out, rec)
	}
	require.NoError(t, sc.Err())
	return out
}

func messages(recs []map[string]any, level string) []string {
	var out []string
	for _, r := range recs {
		if r["level"] == level {
			out = append(out, r["msg"].(string))
		}
	}
	return out
}

func TestLogging(t *testing.T) {
	newLogged := func(t *testing.T, optFns ...vfcprobe.Option) (*vfcprobe.Store, *bytes.Buffer) {
		var buf bytes.Buffer
		logger := vfcprobe.NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		return newStore(t, append(optFns, vfcprobe.WithLogger(logger))...), &buf
	}

	t.Run("CollisionLoggedOnceOnAbort", func(t *testing.T) {
		a, b := collidingPair(t, 16)
		s, buf := newLogged(t,
			vfcprobe.WithCapacity(16),
			vfcprobe.WithExitFunc(func(int) {}),
		)
		require.NoError(t, s.Insert("t", a, 1))
		require.Error(t, s.Insert("t", b, 2))

		recs := logRecords(t, buf)
		assert.Equal(t, []string{"hash collision between probes"}, messages(recs, "ERROR"))
	})

	t.Run("CollisionUnderErrorPolicy", func(t *testing.T) {
		a, b := collidingPair(t, 16)
		s, buf := newLogged(t,
			vfcprobe.WithCapacity(16),
			vfcprobe.WithCollisionPolicy(vfcprobe.CollisionError),
		)
		require.NoError(t, s.Insert("t", a, 1))
		require.Error(t, s.Insert("t", b, 2))

		recs := logRecords(t, buf)
		assert.Equal(t, []string{"insert failed"}, messages(recs, "ERROR"))
	})

	t.Run("ResizeCarriesPreviousCapacity", func(t *testing.T) {
		s, buf := newLogged(t, vfcprobe.WithCapacity(32))
		require.NoError(t, s.Insert("t", "x", 1))
		require.NoError(t, s.Resize(64))

		var resize map[string]any
		for _, r := range logRecords(t, buf) {
			if r["msg"] == "resize completed" {
				resize = r
			}
		}
		require.NotNil(t, resize)
		assert.Equal(t, float64(32), resize["capacity"])
		assert.Equal(t, float64(64), resize["to"])
		assert.Equal(t, float64(1), resize["dropped_entries"])
	})
}
