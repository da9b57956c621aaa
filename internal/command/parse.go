/*
author: akashmaji
email: akashmaji@iisc.ac.in
file: statedb/internal/command/parse.go
*/
package command

import (
	"math"
	"strconv"
	"strings"

	"github.com/namitkewat/statedb/internal/resp"
)

// Classify converts a decoded resp.Request into a typed Command,
// dispatching case-insensitively on the command name. It performs all
// arity and argument-type validation for the command; it never reads
// or writes the dataspace.
func Classify(req *resp.Request) (Command, error) {
	name := strings.ToUpper(string(req.Name))
	args := req.Args

	switch name {
	case "PING":
		return parsePing(args)
	case "ECHO":
		return parseEcho(name, args)
	case "CLIENT":
		return parseClient(name, args)

	case "SET":
		return parseSet(name, args)
	case "GET":
		return parseGet(name, args)
	case "GETDEL":
		return parseGetDel(name, args)
	case "GETSET":
		return parseGetSet(name, args)
	case "GETEX":
		return parseGetEx(name, args)
	case "INCR":
		return parseIncrDecr(name, args, false)
	case "DECR":
		return parseIncrDecr(name, args, true)
	case "INCRBY":
		return parseIncrDecrBy(name, args, false)
	case "DECRBY":
		return parseIncrDecrBy(name, args, true)
	case "DEL":
		return parseDel(name, args)
	case "EXISTS":
		return parseExists(name, args)
	case "FLUSHDB":
		return parseFlushDB(name, args)
	case "TYPE":
		return parseType(name, args)

	case "HSET":
		return parseHSet(name, args)
	case "HGET":
		return parseHGet(name, args)
	case "HGETALL":
		return parseHGetAll(name, args)

	case "KEYS":
		return parseKeys(name, args)
	case "EXPIRE":
		return parseExpire(name, args)
	case "EXPIREAT":
		return parseExpireAt(name, args)
	case "EXPIRETIME":
		return parseExpireTime(name, args)
	case "TTL":
		return parseTTL(name, args)
	case "PERSIST":
		return parsePersist(name, args)

	case "COMMAND":
		return CommandDocs{}, nil
	case "COMMANDS":
		return parseCommands(name, args)
	case "INFO":
		return parseInfo(name, args)

	case "ZADD":
		return parseZAdd(name, string(req.Name), args)
	case "ZCARD":
		return parseZCard(name, string(req.Name), args)
	case "ZCOUNT":
		return parseZCount(name, string(req.Name), args)
	case "ZPOPMIN":
		return parseZPop(name, string(req.Name), args, false)
	case "ZPOPMAX":
		return parseZPop(name, string(req.Name), args, true)
	case "ZRANGE":
		return parseZRange(name, string(req.Name), args)
	case "ZRANK":
		return parseZRank(name, string(req.Name), args)
	case "ZREM":
		return parseZRem(name, string(req.Name), args)

	default:
		return nil, errUnknown(string(req.Name))
	}
}

func parsePing(args [][]byte) (Command, error) {
	if len(args) > 1 {
		return nil, errArity("PING")
	}
	if len(args) == 1 {
		return Ping{Message: args[0], HasMessage: true}, nil
	}
	return Ping{}, nil
}

func parseEcho(name string, args [][]byte) (Command, error) {
	if len(args) != 1 {
		return nil, errArity(name)
	}
	return Echo{Message: args[0]}, nil
}

func parseClient(name string, args [][]byte) (Command, error) {
	if len(args) < 1 {
		return nil, errArity(name)
	}
	sub := strings.ToUpper(string(args[0]))
	if sub != "SETINFO" {
		return nil, errFormat(name, "ERR Syntax error, try CLIENT HELP")
	}
	if len(args) != 3 {
		return nil, errArity(name + " SETINFO")
	}
	attr := strings.ToUpper(string(args[1]))
	return ClientSetInfo{Attr: attr, Value: args[2]}, nil
}

func parseSet(name string, args [][]byte) (Command, error) {
	if len(args) != 2 {
		return nil, errArity(name)
	}
	return Set{Key: args[0], Value: args[1]}, nil
}

func parseGet(name string, args [][]byte) (Command, error) {
	if len(args) != 1 {
		return nil, errArity(name)
	}
	return Get{Key: args[0]}, nil
}

func parseGetDel(name string, args [][]byte) (Command, error) {
	if len(args) != 1 {
		return nil, errArity(name)
	}
	return GetDel{Key: args[0]}, nil
}

func parseGetSet(name string, args [][]byte) (Command, error) {
	if len(args) != 2 {
		return nil, errArity(name)
	}
	return GetSet{Key: args[0], Value: args[1]}, nil
}

func parseGetEx(name string, args [][]byte) (Command, error) {
	if len(args) != 1 && len(args) != 3 {
		return nil, errArity(name)
	}
	cmd := GetEx{Key: args[0]}
	if len(args) == 3 {
		if strings.ToUpper(string(args[1])) != "EX" {
			return nil, errFormat(name, "ERR syntax error")
		}
		n, err := strconv.ParseInt(string(args[2]), 10, 64)
		if err != nil {
			return nil, errArgType(name)
		}
		cmd.HasEx = true
		cmd.Seconds = n
	}
	return cmd, nil
}

func parseIncrDecr(name string, args [][]byte, negate bool) (Command, error) {
	if len(args) != 1 {
		return nil, errArity(name)
	}
	if negate {
		return Decr{Key: args[0]}, nil
	}
	return Incr{Key: args[0]}, nil
}

func parseIncrDecrBy(name string, args [][]byte, negate bool) (Command, error) {
	if len(args) != 2 {
		return nil, errArity(name)
	}
	n, err := strconv.ParseInt(string(args[1]), 10, 64)
	if err != nil {
		return nil, errArgType(name)
	}
	if negate {
		return DecrBy{Key: args[0], Delta: n}, nil
	}
	return IncrBy{Key: args[0], Delta: n}, nil
}

func parseDel(name string, args [][]byte) (Command, error) {
	if len(args) < 1 {
		return nil, errArity(name)
	}
	return Del{Keys: args}, nil
}

func parseExists(name string, args [][]byte) (Command, error) {
	if len(args) < 1 {
		return nil, errArity(name)
	}
	return Exists{Keys: args}, nil
}

func parseFlushDB(name string, args [][]byte) (Command, error) {
	if len(args) != 0 {
		return nil, errArity(name)
	}
	return FlushDB{}, nil
}

func parseType(name string, args [][]byte) (Command, error) {
	if len(args) != 1 {
		return nil, errArity(name)
	}
	return Type{Key: args[0]}, nil
}

func parseHSet(name string, args [][]byte) (Command, error) {
	if len(args) < 3 || (len(args)-1)%2 != 0 {
		return nil, errArity(name)
	}
	pairs := make([]FieldValue, 0, (len(args)-1)/2)
	for i := 1; i < len(args); i += 2 {
		pairs = append(pairs, FieldValue{Field: args[i], Value: args[i+1]})
	}
	return HSet{Key: args[0], Pairs: pairs}, nil
}

func parseHGet(name string, args [][]byte) (Command, error) {
	if len(args) != 2 {
		return nil, errArity(name)
	}
	return HGet{Key: args[0], Field: args[1]}, nil
}

func parseHGetAll(name string, args [][]byte) (Command, error) {
	if len(args) != 1 {
		return nil, errArity(name)
	}
	return HGetAll{Key: args[0]}, nil
}

func parseKeys(name string, args [][]byte) (Command, error) {
	if len(args) != 1 {
		return nil, errArity(name)
	}
	return Keys{Pattern: args[0]}, nil
}

func parseExpire(name string, args [][]byte) (Command, error) {
	if len(args) != 2 {
		return nil, errArity(name)
	}
	n, err := strconv.ParseInt(string(args[1]), 10, 64)
	if err != nil {
		return nil, errArgType(name)
	}
	return Expire{Key: args[0], Seconds: n}, nil
}

func parseExpireAt(name string, args [][]byte) (Command, error) {
	if len(args) != 2 {
		return nil, errArity(name)
	}
	n, err := strconv.ParseInt(string(args[1]), 10, 64)
	if err != nil {
		return nil, errArgType(name)
	}
	return ExpireAt{Key: args[0], UnixSeconds: n}, nil
}

func parseExpireTime(name string, args [][]byte) (Command, error) {
	if len(args) != 1 {
		return nil, errArity(name)
	}
	return ExpireTime{Key: args[0]}, nil
}

func parseTTL(name string, args [][]byte) (Command, error) {
	if len(args) != 1 {
		return nil, errArity(name)
	}
	return TTL{Key: args[0]}, nil
}

func parsePersist(name string, args [][]byte) (Command, error) {
	if len(args) != 1 {
		return nil, errArity(name)
	}
	return Persist{Key: args[0]}, nil
}

func parseCommands(name string, args [][]byte) (Command, error) {
	if len(args) > 1 {
		return nil, errArity(name)
	}
	if len(args) == 1 {
		return CommandDocs{Pattern: args[0], HasPattern: true}, nil
	}
	return CommandDocs{}, nil
}

func parseInfo(name string, args [][]byte) (Command, error) {
	if len(args) != 0 {
		return nil, errArity(name)
	}
	return Info{}, nil
}

func parseZAdd(name, orig string, args [][]byte) (Command, error) {
	if len(args) < 3 || (len(args)-1)%2 != 0 {
		return nil, errArity(name)
	}
	pairs := make([]ScoreMember, 0, (len(args)-1)/2)
	for i := 1; i < len(args); i += 2 {
		score, err := strconv.ParseFloat(string(args[i]), 64)
		if err != nil {
			return nil, errArgType(name)
		}
		pairs = append(pairs, ScoreMember{Score: score, Member: args[i+1]})
	}
	return ZAdd{Name: orig, Key: args[0], Pairs: pairs}, nil
}

func parseZCard(name, orig string, args [][]byte) (Command, error) {
	if len(args) != 1 {
		return nil, errArity(name)
	}
	return ZCard{Name: orig, Key: args[0]}, nil
}

func parseZCount(name, orig string, args [][]byte) (Command, error) {
	if len(args) != 3 {
		return nil, errArity(name)
	}
	min, err := strconv.ParseFloat(string(args[1]), 64)
	if err != nil || math.IsNaN(min) {
		return nil, errArgType(name)
	}
	max, err := strconv.ParseFloat(string(args[2]), 64)
	if err != nil || math.IsNaN(max) {
		return nil, errArgType(name)
	}
	return ZCount{Name: orig, Key: args[0], Min: min, Max: max}, nil
}

func parseZPop(name, orig string, args [][]byte, max bool) (Command, error) {
	if len(args) != 1 && len(args) != 2 {
		return nil, errArity(name)
	}
	var count int64 = 1
	hasCount := false
	if len(args) == 2 {
		n, err := strconv.ParseInt(string(args[1]), 10, 64)
		if err != nil {
			return nil, errArgType(name)
		}
		count = n
		hasCount = true
	}
	if max {
		return ZPopMax{Name: orig, Key: args[0], Count: count, HasCount: hasCount}, nil
	}
	return ZPopMin{Name: orig, Key: args[0], Count: count, HasCount: hasCount}, nil
}

func parseZRange(name, orig string, args [][]byte) (Command, error) {
	if len(args) != 3 && len(args) != 4 {
		return nil, errArity(name)
	}
	start, err := strconv.ParseInt(string(args[1]), 10, 64)
	if err != nil {
		return nil, errArgType(name)
	}
	stop, err := strconv.ParseInt(string(args[2]), 10, 64)
	if err != nil {
		return nil, errArgType(name)
	}
	withScores := false
	if len(args) == 4 {
		if strings.ToUpper(string(args[3])) != "WITHSCORES" {
			return nil, errFormat(name, "ERR syntax error")
		}
		withScores = true
	}
	return ZRange{Name: orig, Key: args[0], Start: start, Stop: stop, WithScores: withScores}, nil
}

func parseZRank(name, orig string, args [][]byte) (Command, error) {
	if len(args) != 2 {
		return nil, errArity(name)
	}
	return ZRank{Name: orig, Key: args[0], Member: args[1]}, nil
}

func parseZRem(name, orig string, args [][]byte) (Command, error) {
	if len(args) < 2 {
		return nil, errArity(name)
	}
	return ZRem{Name: orig, Key: args[0], Members: args[1:]}, nil
}
