/*
author: akashmaji
email: akashmaji@iisc.ac.in
file: statedb/internal/store/store.go
*/

// Package store implements the Dataspace: the keyspace mapping keys
// to tagged values, a sibling expiration-timestamp map, and the
// typed accessors the executor calls under its single global lock.
// Store itself never locks internally — every exported accessor
// assumes the caller already holds Store.Lock(), exactly like the
// teacher's Database.Put/Poll/Rem, which document "caller must ensure
// proper locking is in place" rather than locking per call.
package store

import (
	"errors"
	"sync"
	"time"
)

// Tag identifies which variant a Value currently holds.
type Tag int

const (
	TagString Tag = iota
	TagInteger
	TagHash
	TagSortedSet
	TagList
)

func (t Tag) String() string {
	switch t {
	case TagString:
		return "string"
	case TagInteger:
		return "integer"
	case TagHash:
		return "hash"
	case TagSortedSet:
		return "zset"
	case TagList:
		return "list"
	default:
		return "none"
	}
}

// Value is the tagged variant stored per key, per spec.md §3. Exactly
// one payload field is meaningful for a given Tag. Field and member
// names and all payload bytes are owned copies — never aliases of a
// request buffer.
type Value struct {
	Tag Tag

	Str []byte
	Int int64

	Hash      map[string][]byte
	SortedSet map[string]float64
	List      [][]byte
}

// ErrWrongType is returned whenever an operation's implicit type
// requirement does not match the stored value's tag.
var ErrWrongType = errors.New("WRONGTYPE Operation against a key holding the wrong kind of value")

// ErrNotInteger is returned by Increment when the stored string value
// does not parse as a base-10 int64, or when the operation would
// overflow the signed 64-bit range.
var ErrNotInteger = errors.New("ERR value is not an integer or out of range")

// Store is the server's single shared keyspace plus its expiration
// metadata. All mutation is expected to happen while the caller holds
// Lock(); Store performs no synchronization of its own, matching
// spec.md §5's "a single mutex protects the entire Dataspace" (the
// mutex here, not sharded per accessor).
type Store struct {
	mu sync.Mutex

	data    map[string]*Value
	expires map[string]time.Time
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		data:    make(map[string]*Value),
		expires: make(map[string]time.Time),
	}
}

// Lock acquires the store's single global mutex. Every command
// handler that touches the dataspace calls Lock at entry and Unlock
// before returning (including every error path) — see spec.md §5.
func (s *Store) Lock() { s.mu.Lock() }

// Unlock releases the mutex acquired by Lock.
func (s *Store) Unlock() { s.mu.Unlock() }

// Get returns the value stored at key, if any. The caller must hold
// Lock.
func (s *Store) Get(key string) (*Value, bool) {
	v, ok := s.data[key]
	return v, ok
}

// PutString replaces any prior value at key with a fresh String
// value, releasing the previous value's memory. The caller must hold
// Lock.
func (s *Store) PutString(key string, val []byte) {
	owned := make([]byte, len(val))
	copy(owned, val)
	s.data[key] = &Value{Tag: TagString, Str: owned}
}

// Remove deletes key and its expiration entry, returning the removed
// value if one existed. The caller must hold Lock.
func (s *Store) Remove(key string) (*Value, bool) {
	v, ok := s.data[key]
	if ok {
		delete(s.data, key)
		delete(s.expires, key)
	}
	return v, ok
}

// GetOrCreateHash returns the Hash value at key, creating an empty one
// if absent. If key holds a non-Hash value, returns ErrWrongType
// without mutating anything. The caller must hold Lock.
func (s *Store) GetOrCreateHash(key string) (*Value, error) {
	v, ok := s.data[key]
	if !ok {
		v = &Value{Tag: TagHash, Hash: make(map[string][]byte)}
		s.data[key] = v
		return v, nil
	}
	if v.Tag != TagHash {
		return nil, ErrWrongType
	}
	return v, nil
}

// GetOrCreateSortedSet mirrors GetOrCreateHash for the SortedSet tag.
// Reserved: no executed command currently calls this (see
// SPEC_FULL.md), but it completes the accessor surface spec.md §4.3
// names for every tagged variant.
func (s *Store) GetOrCreateSortedSet(key string) (*Value, error) {
	v, ok := s.data[key]
	if !ok {
		v = &Value{Tag: TagSortedSet, SortedSet: make(map[string]float64)}
		s.data[key] = v
		return v, nil
	}
	if v.Tag != TagSortedSet {
		return nil, ErrWrongType
	}
	return v, nil
}

// Increment performs an atomic read-modify-write on key: absent keys
// start at 0 before delta is applied; Integer values add delta with
// overflow checking; String values that parse as a base-10 int64 are
// rewritten in place to Integer; any other tag is ErrWrongType; an
// unparsable String is ErrNotInteger. On any error the stored value is
// left unchanged. The caller must hold Lock.
func (s *Store) Increment(key string, delta int64) (int64, error) {
	v, ok := s.data[key]
	if !ok {
		s.data[key] = &Value{Tag: TagInteger, Int: delta}
		return delta, nil
	}

	var current int64
	switch v.Tag {
	case TagInteger:
		current = v.Int
	case TagString:
		n, err := parseStrictInt64(v.Str)
		if err != nil {
			return 0, ErrNotInteger
		}
		current = n
	default:
		return 0, ErrWrongType
	}

	next, overflowed := addOverflows(current, delta)
	if overflowed {
		return 0, ErrNotInteger
	}

	v.Tag = TagInteger
	v.Str = nil
	v.Int = next
	return next, nil
}

// TypeOf reports the tag of the value stored at key. The caller must
// hold Lock.
func (s *Store) TypeOf(key string) (Tag, bool) {
	v, ok := s.data[key]
	if !ok {
		return 0, false
	}
	return v.Tag, true
}

// Keys returns a snapshot slice of every key currently present. The
// caller must hold Lock; the returned slice is safe to range over
// after further mutation of the store (it shares no backing storage
// with the internal map).
func (s *Store) Keys() []string {
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys
}

// Flush drops every key and every expiration entry. The caller must
// hold Lock.
func (s *Store) Flush() {
	s.data = make(map[string]*Value)
	s.expires = make(map[string]time.Time)
}

// SetExpireAt records that key expires at t. The caller must hold
// Lock, and key must already be present (callers check existence
// first, per spec.md §3's invariant that the expiration map only
// contains present keys).
func (s *Store) SetExpireAt(key string, t time.Time) {
	s.expires[key] = t
}

// ExpireAt returns the recorded expiration time for key, if any.
func (s *Store) ExpireAt(key string) (time.Time, bool) {
	t, ok := s.expires[key]
	return t, ok
}

// Persist removes any recorded expiration for key without touching
// the stored value.
func (s *Store) Persist(key string) {
	delete(s.expires, key)
}

// ExpireIfNeeded evicts key (and its expiration entry) if it carries
// an expiration timestamp in the past, matching the teacher's lazy
// RemIfExpired pattern. Returns true if key was removed. This spec
// never enforces TTLs proactively (spec.md's Non-goals exclude active
// eviction) — only on-access lazy eviction is performed, by executor
// handlers calling this before reading a key.
func (s *Store) ExpireIfNeeded(key string) bool {
	t, ok := s.expires[key]
	if !ok {
		return false
	}
	if t.After(time.Now()) {
		return false
	}
	delete(s.data, key)
	delete(s.expires, key)
	return true
}

func parseStrictInt64(b []byte) (int64, error) {
	return parseInt64(b)
}

func addOverflows(a, b int64) (int64, bool) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, true
	}
	return sum, false
}
