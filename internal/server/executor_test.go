package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/namitkewat/statedb/internal/command"
	"github.com/namitkewat/statedb/internal/resp"
)

func TestExecutePingWithAndWithoutMessage(t *testing.T) {
	s := New()
	id := &Identity{}

	reply := s.Execute(command.Ping{}, id)
	assert.Equal(t, resp.Pong(), reply)

	reply = s.Execute(command.Ping{Message: []byte("hi"), HasMessage: true}, id)
	assert.Equal(t, resp.NewBulk([]byte("hi")), reply)
}

func TestExecuteClientSetInfoUpdatesIdentityAndIgnoresUnknownSubkeys(t *testing.T) {
	s := New()
	id := &Identity{}

	reply := s.Execute(command.ClientSetInfo{Attr: "LIB-NAME", Value: []byte("redis-cli")}, id)
	assert.Equal(t, resp.OK(), reply)
	assert.Equal(t, "redis-cli", id.LibName)

	reply = s.Execute(command.ClientSetInfo{Attr: "SOMETHING-ELSE", Value: []byte("x")}, id)
	assert.Equal(t, resp.OK(), reply)
}

func TestExecuteSetThenGet(t *testing.T) {
	s := New()
	id := &Identity{}

	reply := s.Execute(command.Set{Key: []byte("k"), Value: []byte("v")}, id)
	assert.Equal(t, resp.OK(), reply)

	reply = s.Execute(command.Get{Key: []byte("k")}, id)
	assert.Equal(t, resp.NewBulk([]byte("v")), reply)
}

func TestExecuteGetOnMissingKeyReturnsNull(t *testing.T) {
	s := New()
	reply := s.Execute(command.Get{Key: []byte("missing")}, &Identity{})
	assert.Equal(t, resp.NewNull(), reply)
}

func TestExecuteGetAgainstHashIsWrongType(t *testing.T) {
	s := New()
	id := &Identity{}
	s.Execute(command.HSet{Key: []byte("h"), Pairs: []command.FieldValue{{Field: []byte("f"), Value: []byte("v")}}}, id)

	reply := s.Execute(command.Get{Key: []byte("h")}, id)
	require.Equal(t, resp.Error, reply.Typ)
	assert.Contains(t, reply.Str, "WRONGTYPE")
}

func TestExecuteIncrByFamily(t *testing.T) {
	s := New()
	id := &Identity{}

	reply := s.Execute(command.Incr{Key: []byte("c")}, id)
	assert.Equal(t, resp.NewInteger(1), reply)

	reply = s.Execute(command.IncrBy{Key: []byte("c"), Delta: 10}, id)
	assert.Equal(t, resp.NewInteger(11), reply)

	reply = s.Execute(command.Decr{Key: []byte("c")}, id)
	assert.Equal(t, resp.NewInteger(10), reply)

	reply = s.Execute(command.DecrBy{Key: []byte("c"), Delta: 4}, id)
	assert.Equal(t, resp.NewInteger(6), reply)
}

func TestExecuteDelCountsOnlyExistingKeys(t *testing.T) {
	s := New()
	id := &Identity{}
	s.Execute(command.Set{Key: []byte("a"), Value: []byte("1")}, id)

	reply := s.Execute(command.Del{Keys: [][]byte{[]byte("a"), []byte("missing")}}, id)
	assert.Equal(t, resp.NewInteger(1), reply)
}

func TestExecuteExistsCountsDuplicates(t *testing.T) {
	s := New()
	id := &Identity{}
	s.Execute(command.Set{Key: []byte("a"), Value: []byte("1")}, id)

	reply := s.Execute(command.Exists{Keys: [][]byte{[]byte("a"), []byte("a"), []byte("missing")}}, id)
	assert.Equal(t, resp.NewInteger(2), reply)
}

func TestExecuteTypeReportsNoneForAbsentKey(t *testing.T) {
	s := New()
	reply := s.Execute(command.Type{Key: []byte("nope")}, &Identity{})
	assert.Equal(t, resp.NewSimpleString("none"), reply)
}

func TestExecuteHSetCountsOnlyNewFields(t *testing.T) {
	s := New()
	id := &Identity{}

	reply := s.Execute(command.HSet{Key: []byte("h"), Pairs: []command.FieldValue{
		{Field: []byte("f1"), Value: []byte("v1")},
		{Field: []byte("f2"), Value: []byte("v2")},
	}}, id)
	assert.Equal(t, resp.NewInteger(2), reply)

	reply = s.Execute(command.HSet{Key: []byte("h"), Pairs: []command.FieldValue{
		{Field: []byte("f1"), Value: []byte("updated")},
		{Field: []byte("f3"), Value: []byte("v3")},
	}}, id)
	assert.Equal(t, resp.NewInteger(1), reply)

	reply = s.Execute(command.HGet{Key: []byte("h"), Field: []byte("f1")}, id)
	assert.Equal(t, resp.NewBulk([]byte("updated")), reply)
}

func TestExecuteExpireAndTTLAndPersist(t *testing.T) {
	s := New()
	id := &Identity{}
	s.Execute(command.Set{Key: []byte("k"), Value: []byte("v")}, id)

	reply := s.Execute(command.Expire{Key: []byte("k"), Seconds: 100}, id)
	assert.Equal(t, resp.NewInteger(1), reply)

	ttlReply := s.Execute(command.TTL{Key: []byte("k")}, id)
	require.Equal(t, resp.Integer, ttlReply.Typ)
	assert.Greater(t, ttlReply.Int, int64(0))

	reply = s.Execute(command.Persist{Key: []byte("k")}, id)
	assert.Equal(t, resp.NewInteger(1), reply)

	ttlReply = s.Execute(command.TTL{Key: []byte("k")}, id)
	assert.Equal(t, resp.NewInteger(-1), ttlReply)
}

func TestExecuteTTLOnMissingKeyIsMinusTwo(t *testing.T) {
	s := New()
	reply := s.Execute(command.TTL{Key: []byte("missing")}, &Identity{})
	assert.Equal(t, resp.NewInteger(-2), reply)
}

func TestExecuteReservedZSetCommandsReportUnknownUsingOriginalName(t *testing.T) {
	s := New()
	reply := s.Execute(command.ZAdd{Name: "zadd", Key: []byte("z"), Pairs: []command.ScoreMember{{Score: 1, Member: []byte("m")}}}, &Identity{})
	assert.Equal(t, resp.NewError("ERR unknown command 'zadd'"), reply)
}

func TestExecuteCommandDocsWithPatternFiltersKnownNames(t *testing.T) {
	reply := execCommandDocs(command.CommandDocs{Pattern: []byte("GET*"), HasPattern: true})
	require.Equal(t, resp.Array, reply.Typ)
	names := make([]string, 0, len(reply.Arr))
	for _, v := range reply.Arr {
		names = append(names, string(v.Blk))
	}
	assert.Contains(t, names, "GET")
	assert.Contains(t, names, "GETDEL")
	assert.NotContains(t, names, "SET")
}

func TestExecuteCommandDocsNoMatchIsError(t *testing.T) {
	reply := execCommandDocs(command.CommandDocs{Pattern: []byte("NOPE*"), HasPattern: true})
	assert.Equal(t, resp.Error, reply.Typ)
}
