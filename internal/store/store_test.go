package store

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutStringAndGetAreIndependentCopies(t *testing.T) {
	s := New()
	s.Lock()
	defer s.Unlock()

	buf := []byte("hello")
	s.PutString("k", buf)
	buf[0] = 'X' // mutate caller's slice after the call

	v, ok := s.Get("k")
	require.True(t, ok)
	assert.Equal(t, "hello", string(v.Str))
}

func TestRemoveClearsExpiration(t *testing.T) {
	s := New()
	s.Lock()
	defer s.Unlock()

	s.PutString("k", []byte("v"))
	s.SetExpireAt("k", time.Now().Add(time.Hour))

	_, ok := s.Remove("k")
	require.True(t, ok)

	_, ok = s.ExpireAt("k")
	assert.False(t, ok)

	_, ok = s.Remove("k")
	assert.False(t, ok)
}

func TestIncrementOnAbsentKeyStartsFromZero(t *testing.T) {
	s := New()
	s.Lock()
	defer s.Unlock()

	n, err := s.Increment("counter", 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	n, err = s.Increment("counter", -2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestIncrementRewritesParsableStringToInteger(t *testing.T) {
	s := New()
	s.Lock()
	defer s.Unlock()

	s.PutString("k", []byte("10"))
	n, err := s.Increment("k", 5)
	require.NoError(t, err)
	assert.Equal(t, int64(15), n)

	tag, ok := s.TypeOf("k")
	require.True(t, ok)
	assert.Equal(t, TagInteger, tag)
}

func TestIncrementOnUnparsableStringIsNotInteger(t *testing.T) {
	s := New()
	s.Lock()
	defer s.Unlock()

	s.PutString("k", []byte("notanumber"))
	_, err := s.Increment("k", 1)
	assert.ErrorIs(t, err, ErrNotInteger)
}

func TestIncrementOverflowIsRejected(t *testing.T) {
	s := New()
	s.Lock()
	defer s.Unlock()

	_, err := s.Increment("k", math.MaxInt64)
	require.NoError(t, err)
	_, err = s.Increment("k", 1)
	assert.ErrorIs(t, err, ErrNotInteger)
}

func TestIncrementAgainstHashIsWrongType(t *testing.T) {
	s := New()
	s.Lock()
	defer s.Unlock()

	_, err := s.GetOrCreateHash("h")
	require.NoError(t, err)

	_, err = s.Increment("h", 1)
	assert.ErrorIs(t, err, ErrWrongType)
}

func TestGetOrCreateHashRejectsNonHashKey(t *testing.T) {
	s := New()
	s.Lock()
	defer s.Unlock()

	s.PutString("k", []byte("v"))
	_, err := s.GetOrCreateHash("k")
	assert.ErrorIs(t, err, ErrWrongType)
}

func TestExpireIfNeededEvictsPastTimestamps(t *testing.T) {
	s := New()
	s.Lock()
	defer s.Unlock()

	s.PutString("k", []byte("v"))
	s.SetExpireAt("k", time.Now().Add(-time.Second))

	evicted := s.ExpireIfNeeded("k")
	assert.True(t, evicted)

	_, ok := s.Get("k")
	assert.False(t, ok)
}

func TestExpireIfNeededLeavesFutureTimestampsAlone(t *testing.T) {
	s := New()
	s.Lock()
	defer s.Unlock()

	s.PutString("k", []byte("v"))
	s.SetExpireAt("k", time.Now().Add(time.Hour))

	evicted := s.ExpireIfNeeded("k")
	assert.False(t, evicted)

	_, ok := s.Get("k")
	assert.True(t, ok)
}

func TestFlushClearsDataAndExpirations(t *testing.T) {
	s := New()
	s.Lock()
	defer s.Unlock()

	s.PutString("a", []byte("1"))
	s.PutString("b", []byte("2"))
	s.SetExpireAt("a", time.Now().Add(time.Hour))

	s.Flush()

	assert.Empty(t, s.Keys())
	_, ok := s.ExpireAt("a")
	assert.False(t, ok)
}

func TestKeysReturnsIndependentSnapshot(t *testing.T) {
	s := New()
	s.Lock()
	defer s.Unlock()

	s.PutString("a", []byte("1"))
	keys := s.Keys()
	require.Len(t, keys, 1)

	s.PutString("b", []byte("2"))
	assert.Len(t, keys, 1, "snapshot must not observe later mutation")
}
