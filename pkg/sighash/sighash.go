// Package sighash builds the BIP143-style, BCH-forkid signing
// serialization (the preimage a signature commits to) and its
// double-SHA-256 digest.
package sighash

import (
	"encoding/binary"

	"github.com/bchscript/bchengine/pkg/crypto/hash"
	"github.com/bchscript/bchengine/pkg/sigencoding"
	"github.com/bchscript/bchengine/pkg/txcontext"
	lru "github.com/hashicorp/golang-lru"
)

var zeroHash [32]byte

// Midstate caches the three hashes (hashPrevouts, hashSequence,
// hashOutputs) that are identical across every input of a transaction
// whenever the sighash type doesn't force them to zero. Mirrors the
// SigHashCache pattern used by production BCH/BTC signers: without it,
// signing or verifying every input of an n-input transaction re-hashes
// the same prevout/sequence/output lists n times.
type Midstate struct {
	hashPrevouts []byte
	hashSequence []byte
	hashOutputs  []byte
}

// NewMidstate precomputes the three cacheable digests for a single
// transaction's context.
func NewMidstate(ctx *txcontext.Context) *Midstate {
	return &Midstate{
		hashPrevouts: hash.Hash256(ctx.TransactionOutpoints),
		hashSequence: hash.Hash256(ctx.TransactionSequenceNumbers),
		hashOutputs:  hash.Hash256(ctx.TransactionOutputs),
	}
}

// MidstateCache keys Midstate values by an opaque transaction
// identifier, so a node verifying many inputs of the same transaction
// (or re-verifying a block) reuses precomputed digests across
// evaluations, not just across inputs of one evaluation.
type MidstateCache struct {
	lru *lru.Cache
}

// NewMidstateCache builds a MidstateCache holding up to size entries.
func NewMidstateCache(size int) (*MidstateCache, error) {
	c, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &MidstateCache{lru: c}, nil
}

// Get returns the cached Midstate for key, computing and storing it on
// a miss.
func (c *MidstateCache) Get(key string, ctx *txcontext.Context) *Midstate {
	if v, ok := c.lru.Get(key); ok {
		return v.(*Midstate)
	}
	m := NewMidstate(ctx)
	c.lru.Add(key, m)
	return m
}

// GenerateSigningSerializationBCH builds the sighash preimage for ctx
// under hashType and coveredBytecode. midstate may be nil, in which
// case the three cacheable digests are computed fresh.
func GenerateSigningSerializationBCH(ctx *txcontext.Context, coveredBytecode []byte, hashType byte, midstate *Midstate) []byte {
	if midstate == nil {
		midstate = NewMidstate(ctx)
	}

	var buf []byte
	buf = appendUint32LE(buf, ctx.Version)

	if hashType&sigencoding.SighashAnyOneCanPay != 0 {
		buf = append(buf, zeroHash[:]...)
	} else {
		buf = append(buf, midstate.hashPrevouts...)
	}

	base := hashType & 0x1f
	if hashType&sigencoding.SighashAnyOneCanPay == 0 &&
		base != sigencoding.SighashSingle && base != sigencoding.SighashNone {
		buf = append(buf, midstate.hashSequence...)
	} else {
		buf = append(buf, zeroHash[:]...)
	}

	buf = append(buf, ctx.OutpointTransactionHash[:]...)
	buf = appendUint32LE(buf, ctx.OutpointIndex)
	buf = appendCompactSize(buf, uint64(len(coveredBytecode)))
	buf = append(buf, coveredBytecode...)
	buf = appendUint64LE(buf, ctx.OutputValue)
	buf = appendUint32LE(buf, ctx.SequenceNumber)

	if base != sigencoding.SighashSingle && base != sigencoding.SighashNone {
		buf = append(buf, midstate.hashOutputs...)
	} else if base == sigencoding.SighashSingle && ctx.CorrespondingOutput != nil {
		buf = append(buf, hash.Hash256(ctx.CorrespondingOutput)...)
	} else {
		buf = append(buf, zeroHash[:]...)
	}

	buf = appendUint32LE(buf, ctx.Locktime)
	buf = appendUint32LE(buf, uint32(hashType))

	return buf
}

// Digest returns sha256(sha256(preimage)), the value a signature
// actually commits to.
func Digest(preimage []byte) []byte {
	return hash.Hash256(preimage)
}

func appendUint32LE(buf []byte, v uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return append(buf, b[:]...)
}

func appendUint64LE(buf []byte, v uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return append(buf, b[:]...)
}

// appendCompactSize appends Bitcoin's 1/3/5/9-byte variable-length
// integer encoding of v.
func appendCompactSize(buf []byte, v uint64) []byte {
	switch {
	case v < 0xfd:
		return append(buf, byte(v))
	case v <= 0xffff:
		b := make([]byte, 3)
		b[0] = 0xfd
		binary.LittleEndian.PutUint16(b[1:], uint16(v))
		return append(buf, b...)
	case v <= 0xffffffff:
		b := make([]byte, 5)
		b[0] = 0xfe
		binary.LittleEndian.PutUint32(b[1:], uint32(v))
		return append(buf, b...)
	default:
		b := make([]byte, 9)
		b[0] = 0xff
		binary.LittleEndian.PutUint64(b[1:], v)
		return append(buf, b...)
	}
}
