/*
author: akashmaji
email: akashmaji@iisc.ac.in
file: statedb/internal/server/executor.go
*/
package server

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/mem"

	"github.com/namitkewat/statedb/internal/command"
	"github.com/namitkewat/statedb/internal/resp"
	"github.com/namitkewat/statedb/internal/store"
)

// Execute interprets a typed command against the server's dataspace
// and returns the RESP reply to write back. PING, ECHO, and CLIENT
// SETINFO never reach the store.Lock()/Unlock() pair below — they are
// the lock-free, per-connection-only handlers spec.md §4.4 calls out.
// COMMAND/COMMANDS never take the lock either, and INFO holds it only
// while counting keys. Every other command acquires the lock for its
// entire body, including every error return path, and releases it
// before Execute returns. The reply Value is built under the lock but
// is not encoded under it: the caller encodes it after Execute
// returns. Bulk replies such as GET's and HGETALL's share their byte
// slices with the store; the store never modifies stored bytes in
// place (PutString and HSET always store fresh copies).
func (s *Server) Execute(cmd command.Command, id *Identity) resp.Value {
	switch c := cmd.(type) {
	case command.Ping:
		return execPing(c)
	case command.Echo:
		return resp.NewBulk(c.Message)
	case command.ClientSetInfo:
		return execClientSetInfo(c, id)

	case command.Set:
		return s.execSet(c)
	case command.Get:
		return s.execGet(c)
	case command.GetDel:
		return s.execGetDel(c)
	case command.GetSet:
		return s.execGetSet(c)
	case command.GetEx:
		return s.execGetEx(c)
	case command.Incr:
		return s.execIncrBy(c.Key, 1)
	case command.Decr:
		return s.execIncrBy(c.Key, -1)
	case command.IncrBy:
		return s.execIncrBy(c.Key, c.Delta)
	case command.DecrBy:
		return s.execIncrBy(c.Key, -c.Delta)
	case command.Del:
		return s.execDel(c)
	case command.Exists:
		return s.execExists(c)
	case command.FlushDB:
		return s.execFlushDB()
	case command.Type:
		return s.execType(c)

	case command.HSet:
		return s.execHSet(c)
	case command.HGet:
		return s.execHGet(c)
	case command.HGetAll:
		return s.execHGetAll(c)

	case command.Keys:
		return s.execKeys(c)
	case command.Expire:
		return s.execExpire(c.Key, time.Now().Add(time.Duration(c.Seconds)*time.Second))
	case command.ExpireAt:
		return s.execExpire(c.Key, time.Unix(c.UnixSeconds, 0))
	case command.ExpireTime:
		return s.execExpireTime(c)
	case command.TTL:
		return s.execTTL(c)
	case command.Persist:
		return s.execPersist(c)

	case command.CommandDocs:
		return execCommandDocs(c)
	case command.Info:
		return s.execInfo()

	case command.ZAdd:
		return unknownCommand(c.Name)
	case command.ZCard:
		return unknownCommand(c.Name)
	case command.ZCount:
		return unknownCommand(c.Name)
	case command.ZPopMin:
		return unknownCommand(c.Name)
	case command.ZPopMax:
		return unknownCommand(c.Name)
	case command.ZRange:
		return unknownCommand(c.Name)
	case command.ZRank:
		return unknownCommand(c.Name)
	case command.ZRem:
		return unknownCommand(c.Name)

	default:
		return resp.NewError("ERR unknown command")
	}
}

func unknownCommand(name string) resp.Value {
	return resp.NewError(fmt.Sprintf("ERR unknown command '%s'", name))
}

func execPing(c command.Ping) resp.Value {
	if c.HasMessage {
		return resp.NewBulk(c.Message)
	}
	return resp.Pong()
}

func execClientSetInfo(c command.ClientSetInfo, id *Identity) resp.Value {
	switch c.Attr {
	case "LIB-NAME":
		id.LibName = string(c.Value)
	case "LIB-VER":
		id.LibVersion = string(c.Value)
	default:
		// Unrecognized subkey: accept and ignore, matching the
		// teacher's general leniency (e.g. Commands' pattern
		// fallback) — see SPEC_FULL.md's Open Question resolution.
	}
	return resp.OK()
}

func (s *Server) execSet(c command.Set) resp.Value {
	s.store.Lock()
	defer s.store.Unlock()
	key := string(c.Key)
	s.store.PutString(key, c.Value)
	s.store.Persist(key)
	return resp.OK()
}

// valueReply renders a String/Integer Value the way GET/GETDEL/GETSET/
// GETEX all share: bulk for String, RESP integer for Integer, WRONGTYPE
// for anything else.
func valueReply(v *store.Value) (resp.Value, bool) {
	switch v.Tag {
	case store.TagString:
		return resp.NewBulk(v.Str), true
	case store.TagInteger:
		return resp.NewInteger(v.Int), true
	default:
		return resp.Value{}, false
	}
}

func wrongTypeErr() resp.Value {
	return resp.NewError(store.ErrWrongType.Error())
}

func (s *Server) execGet(c command.Get) resp.Value {
	s.store.Lock()
	defer s.store.Unlock()
	key := string(c.Key)
	s.store.ExpireIfNeeded(key)
	v, ok := s.store.Get(key)
	if !ok {
		return resp.NewNull()
	}
	reply, isStringLike := valueReply(v)
	if !isStringLike {
		return wrongTypeErr()
	}
	return reply
}

func (s *Server) execGetDel(c command.GetDel) resp.Value {
	s.store.Lock()
	defer s.store.Unlock()
	key := string(c.Key)
	s.store.ExpireIfNeeded(key)
	v, ok := s.store.Get(key)
	if !ok {
		return resp.NewNull()
	}
	reply, isStringLike := valueReply(v)
	if !isStringLike {
		return wrongTypeErr()
	}
	s.store.Remove(key)
	return reply
}

func (s *Server) execGetSet(c command.GetSet) resp.Value {
	s.store.Lock()
	defer s.store.Unlock()
	key := string(c.Key)
	s.store.ExpireIfNeeded(key)

	var old resp.Value = resp.NewNull()
	if v, ok := s.store.Get(key); ok {
		reply, isStringLike := valueReply(v)
		if !isStringLike {
			return wrongTypeErr()
		}
		old = reply
	}
	s.store.PutString(key, c.Value)
	s.store.Persist(key)
	return old
}

func (s *Server) execGetEx(c command.GetEx) resp.Value {
	s.store.Lock()
	defer s.store.Unlock()
	key := string(c.Key)
	s.store.ExpireIfNeeded(key)
	v, ok := s.store.Get(key)
	if !ok {
		return resp.NewNull()
	}
	reply, isStringLike := valueReply(v)
	if !isStringLike {
		return wrongTypeErr()
	}
	if c.HasEx {
		s.store.SetExpireAt(key, time.Now().Add(time.Duration(c.Seconds)*time.Second))
	}
	return reply
}

func (s *Server) execIncrBy(key []byte, delta int64) resp.Value {
	s.store.Lock()
	defer s.store.Unlock()
	k := string(key)
	s.store.ExpireIfNeeded(k)
	n, err := s.store.Increment(k, delta)
	if err != nil {
		if err == store.ErrWrongType {
			return wrongTypeErr()
		}
		return resp.NewError(err.Error())
	}
	return resp.NewInteger(n)
}

func (s *Server) execDel(c command.Del) resp.Value {
	s.store.Lock()
	defer s.store.Unlock()
	count := int64(0)
	for _, key := range c.Keys {
		k := string(key)
		s.store.ExpireIfNeeded(k)
		if _, ok := s.store.Remove(k); ok {
			count++
		}
	}
	return resp.NewInteger(count)
}

func (s *Server) execExists(c command.Exists) resp.Value {
	s.store.Lock()
	defer s.store.Unlock()
	count := int64(0)
	for _, key := range c.Keys {
		k := string(key)
		s.store.ExpireIfNeeded(k)
		if _, ok := s.store.Get(k); ok {
			count++
		}
	}
	return resp.NewInteger(count)
}

func (s *Server) execFlushDB() resp.Value {
	s.store.Lock()
	defer s.store.Unlock()
	s.store.Flush()
	return resp.OK()
}

func (s *Server) execType(c command.Type) resp.Value {
	s.store.Lock()
	defer s.store.Unlock()
	key := string(c.Key)
	s.store.ExpireIfNeeded(key)
	tag, ok := s.store.TypeOf(key)
	if !ok {
		return resp.NewSimpleString("none")
	}
	return resp.NewSimpleString(tag.String())
}

func (s *Server) execHSet(c command.HSet) resp.Value {
	s.store.Lock()
	defer s.store.Unlock()
	key := string(c.Key)
	s.store.ExpireIfNeeded(key)

	h, err := s.store.GetOrCreateHash(key)
	if err != nil {
		return wrongTypeErr()
	}

	newFields := int64(0)
	for _, pair := range c.Pairs {
		field := string(pair.Field)
		if _, exists := h.Hash[field]; !exists {
			newFields++
		}
		owned := make([]byte, len(pair.Value))
		copy(owned, pair.Value)
		h.Hash[field] = owned
	}
	return resp.NewInteger(newFields)
}

func (s *Server) execHGet(c command.HGet) resp.Value {
	s.store.Lock()
	defer s.store.Unlock()
	key := string(c.Key)
	s.store.ExpireIfNeeded(key)

	v, ok := s.store.Get(key)
	if !ok {
		return resp.NewNull()
	}
	if v.Tag != store.TagHash {
		return wrongTypeErr()
	}
	val, ok := v.Hash[string(c.Field)]
	if !ok {
		return resp.NewNull()
	}
	return resp.NewBulk(val)
}

func (s *Server) execHGetAll(c command.HGetAll) resp.Value {
	s.store.Lock()
	defer s.store.Unlock()
	key := string(c.Key)
	s.store.ExpireIfNeeded(key)

	v, ok := s.store.Get(key)
	if !ok {
		return resp.NewArray(nil)
	}
	if v.Tag != store.TagHash {
		return wrongTypeErr()
	}

	elems := make([]resp.Value, 0, len(v.Hash)*2)
	for field, val := range v.Hash {
		elems = append(elems, resp.NewBulkString(field), resp.NewBulk(val))
	}
	return resp.NewArray(elems)
}

func (s *Server) execKeys(c command.Keys) resp.Value {
	s.store.Lock()
	defer s.store.Unlock()
	pattern := string(c.Pattern)

	var matches []resp.Value
	for key := range s.snapshotKeys() {
		s.store.ExpireIfNeeded(key)
		if _, ok := s.store.Get(key); !ok {
			continue
		}
		matched, err := filepath.Match(pattern, key)
		if err == nil && matched {
			matches = append(matches, resp.NewBulkString(key))
		}
	}
	return resp.NewArray(matches)
}

// snapshotKeys returns the set of keys currently in the store. The
// caller must already hold store.Lock(); this exists only so KEYS can
// range over a stable key list while also lazily evicting expired
// entries in the same pass.
func (s *Server) snapshotKeys() map[string]struct{} {
	keys := s.store.Keys()
	out := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		out[k] = struct{}{}
	}
	return out
}

func (s *Server) execExpire(key []byte, at time.Time) resp.Value {
	s.store.Lock()
	defer s.store.Unlock()
	k := string(key)
	s.store.ExpireIfNeeded(k)
	if _, ok := s.store.Get(k); !ok {
		return resp.NewInteger(0)
	}
	s.store.SetExpireAt(k, at)
	return resp.NewInteger(1)
}

func (s *Server) execExpireTime(c command.ExpireTime) resp.Value {
	s.store.Lock()
	defer s.store.Unlock()
	key := string(c.Key)
	if s.store.ExpireIfNeeded(key) {
		return resp.NewInteger(-2)
	}
	if _, ok := s.store.Get(key); !ok {
		return resp.NewInteger(-2)
	}
	at, ok := s.store.ExpireAt(key)
	if !ok {
		return resp.NewInteger(-1)
	}
	return resp.NewInteger(at.Unix())
}

func (s *Server) execTTL(c command.TTL) resp.Value {
	s.store.Lock()
	defer s.store.Unlock()
	key := string(c.Key)
	if s.store.ExpireIfNeeded(key) {
		return resp.NewInteger(-2)
	}
	if _, ok := s.store.Get(key); !ok {
		return resp.NewInteger(-2)
	}
	at, ok := s.store.ExpireAt(key)
	if !ok {
		return resp.NewInteger(-1)
	}
	remaining := time.Until(at).Seconds()
	if remaining < 0 {
		remaining = 0
	}
	return resp.NewInteger(int64(remaining))
}

func (s *Server) execPersist(c command.Persist) resp.Value {
	s.store.Lock()
	defer s.store.Unlock()
	key := string(c.Key)
	s.store.ExpireIfNeeded(key)
	if _, ok := s.store.Get(key); !ok {
		return resp.NewInteger(0)
	}
	if _, had := s.store.ExpireAt(key); !had {
		return resp.NewInteger(0)
	}
	s.store.Persist(key)
	return resp.NewInteger(1)
}

// knownCommands lists every command name this server's CommandModel
// can classify, executed or reserved — the same flat name list the
// teacher's Commands handler builds from its Handlers map.
var knownCommands = []string{
	"PING", "ECHO", "CLIENT",
	"SET", "GET", "GETDEL", "GETSET", "GETEX",
	"INCR", "DECR", "INCRBY", "DECRBY",
	"DEL", "EXISTS", "FLUSHDB", "TYPE",
	"HSET", "HGET", "HGETALL",
	"KEYS", "EXPIRE", "EXPIREAT", "EXPIRETIME", "TTL", "PERSIST",
	"COMMAND", "COMMANDS", "INFO",
	"ZADD", "ZCARD", "ZCOUNT", "ZPOPMIN", "ZPOPMAX", "ZRANGE", "ZRANK", "ZREM",
}

func execCommandDocs(c command.CommandDocs) resp.Value {
	names := append([]string(nil), knownCommands...)
	sort.Strings(names)

	if !c.HasPattern {
		elems := make([]resp.Value, 0, len(names))
		for _, n := range names {
			elems = append(elems, resp.NewBulkString(n))
		}
		return resp.NewArray(elems)
	}

	pattern := strings.ToUpper(string(c.Pattern))
	var results []resp.Value
	for _, n := range names {
		if matched, err := filepath.Match(pattern, n); err == nil && matched {
			results = append(results, resp.NewBulkString(n))
		}
	}
	if len(results) == 0 {
		return resp.NewError(fmt.Sprintf("ERR unknown command or no match for '%s'", pattern))
	}
	return resp.NewArray(results)
}

func (s *Server) execInfo() resp.Value {
	s.store.Lock()
	keyCount := len(s.store.Keys())
	s.store.Unlock()

	var totalMemory uint64
	if vm, err := mem.VirtualMemory(); err == nil {
		totalMemory = vm.Total
	}

	lines := []string{
		"# Server",
		"statedb_version:0.1",
		fmt.Sprintf("uptime_in_seconds:%d", int64(time.Since(s.startTime).Seconds())),
		"",
		"# Clients",
		fmt.Sprintf("connected_clients:%d", s.ClientCount()),
		"",
		"# Memory",
		fmt.Sprintf("total_system_memory:%d", totalMemory),
		"",
		"# Keyspace",
		fmt.Sprintf("db0:keys=%d", keyCount),
	}
	return resp.NewBulkString(strings.Join(lines, "\r\n") + "\r\n")
}
