// Package instruction decodes a raw script byte sequence into a
// sequence of (opcode, data?) instructions, and re-serializes that
// sequence back into the exact original bytes.
package instruction

import (
	"bytes"
	"encoding/binary"

	"github.com/bchscript/bchengine/pkg/opcode"
	"github.com/twmb/murmur3"
	lru "github.com/hashicorp/golang-lru"
)

// Instruction is a single decoded script operation: the opcode byte,
// plus its push payload when the opcode is a push.
type Instruction struct {
	Opcode opcode.Opcode
	Data   []byte

	// Malformed is set when this instruction represents a truncated
	// push at the tail of the script: the VM must treat it as a fatal
	// script error rather than execute it.
	Malformed bool
}

// IsPush reports whether this instruction carries push data (including
// the zero-length OP_0 push).
func (i Instruction) IsPush() bool {
	return opcode.IsPush(i.Opcode)
}

// Parse decodes raw script bytes into an instruction sequence. It never
// returns an error: a script that ends mid-pushdata yields a final
// Instruction with Malformed set, so that the VM (not the parser) is
// the place a fatal script error is raised.
func Parse(script []byte) []Instruction {
	var out []Instruction
	i := 0
	for i < len(script) {
		op := opcode.Opcode(script[i])
		i++

		switch {
		case op >= 0x01 && op <= opcode.OP_PUSHBYTES75:
			n := int(op)
			if i+n > len(script) {
				out = append(out, Instruction{Opcode: op, Malformed: true})
				return out
			}
			out = append(out, Instruction{Opcode: op, Data: cloneBytes(script[i : i+n])})
			i += n

		case op == opcode.OP_PUSHDATA1:
			if i+1 > len(script) {
				out = append(out, Instruction{Opcode: op, Malformed: true})
				return out
			}
			n := int(script[i])
			i++
			if i+n > len(script) {
				out = append(out, Instruction{Opcode: op, Malformed: true})
				return out
			}
			out = append(out, Instruction{Opcode: op, Data: cloneBytes(script[i : i+n])})
			i += n

		case op == opcode.OP_PUSHDATA2:
			if i+2 > len(script) {
				out = append(out, Instruction{Opcode: op, Malformed: true})
				return out
			}
			n := int(binary.LittleEndian.Uint16(script[i : i+2]))
			i += 2
			if i+n > len(script) {
				out = append(out, Instruction{Opcode: op, Malformed: true})
				return out
			}
			out = append(out, Instruction{Opcode: op, Data: cloneBytes(script[i : i+n])})
			i += n

		case op == opcode.OP_PUSHDATA4:
			if i+4 > len(script) {
				out = append(out, Instruction{Opcode: op, Malformed: true})
				return out
			}
			n := int(binary.LittleEndian.Uint32(script[i : i+4]))
			i += 4
			if n < 0 || i+n > len(script) {
				out = append(out, Instruction{Opcode: op, Malformed: true})
				return out
			}
			out = append(out, Instruction{Opcode: op, Data: cloneBytes(script[i : i+n])})
			i += n

		default:
			out = append(out, Instruction{Opcode: op})
		}
	}
	return out
}

// Serialize re-encodes an instruction sequence into raw script bytes.
// Serialize(Parse(b)) == b for every well-formed b (testable property 1).
func Serialize(instructions []Instruction) []byte {
	var out []byte
	for _, instr := range instructions {
		out = append(out, byte(instr.Opcode))
		switch {
		case instr.Opcode >= 0x01 && instr.Opcode <= opcode.OP_PUSHBYTES75:
			out = append(out, instr.Data...)
		case instr.Opcode == opcode.OP_PUSHDATA1:
			out = append(out, byte(len(instr.Data)))
			out = append(out, instr.Data...)
		case instr.Opcode == opcode.OP_PUSHDATA2:
			var l [2]byte
			binary.LittleEndian.PutUint16(l[:], uint16(len(instr.Data)))
			out = append(out, l[:]...)
			out = append(out, instr.Data...)
		case instr.Opcode == opcode.OP_PUSHDATA4:
			var l [4]byte
			binary.LittleEndian.PutUint32(l[:], uint32(len(instr.Data)))
			out = append(out, l[:]...)
			out = append(out, instr.Data...)
		}
	}
	return out
}

func cloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// Cache memoizes Parse results keyed by a murmur3 digest of the raw
// script bytes. The same scriptPubKey templates (P2PKH, P2SH, ...)
// recur across many inputs in practice, so a node verifying a block's
// worth of transactions re-parses the same handful of byte strings
// over and over; a content-addressed cache turns that into a handful
// of Parse calls plus many cheap lookups. Collisions just cost a cache
// miss (Parse is re-run and stored again) — they can never produce a
// wrong instruction sequence, since the cache is never consulted for
// anything but its own previously-stored Parse output.
type Cache struct {
	lru *lru.Cache
}

// NewCache builds a Cache holding up to size entries.
func NewCache(size int) (*Cache, error) {
	c, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &Cache{lru: c}, nil
}

// Parse returns the cached instruction sequence for script, parsing and
// storing it on a miss.
func (c *Cache) Parse(script []byte) []Instruction {
	type entry struct {
		script []byte
		parsed []Instruction
	}
	key := murmur3.Sum64(script)
	if v, ok := c.lru.Get(key); ok {
		if e := v.(entry); bytes.Equal(e.script, script) {
			return e.parsed
		}
	}
	parsed := Parse(script)
	c.lru.Add(key, entry{script: cloneBytes(script), parsed: parsed})
	return parsed
}
