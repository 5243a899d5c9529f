package core

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// Short returns the first 12 hex characters, for logs
func (h Hash) Short() string {
	if len(h) <= 12 {
		return string(h)
	}
	return string(h[:12])
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Domain-specific hash types
type (
	ContentHash Hash
	ConfigHash  Hash
	CodeVersion Hash
)

func (h ContentHash) String() string { return Hash(h).String() }
func (h ConfigHash) String() string  { return Hash(h).String() }
func (h CodeVersion) String() string { return Hash(h).String() }

// HashJSON hashes the canonical JSON encoding of each part in order.
// Parts are length-prefixed so that ("ab","c") and ("a","bc") differ.
// encoding/json sorts map keys, which keeps map-valued parts deterministic.
func HashJSON(parts ...interface{}) (Hash, error) {
	h := sha256.New()
	for i, part := range parts {
		data, err := json.Marshal(part)
		if err != nil {
			return "", fmt.Errorf("hash part %d: %w", i, err)
		}
		fmt.Fprintf(h, "%d:", len(data))
		h.Write(data)
	}
	return Hash(hex.EncodeToString(h.Sum(nil))), nil
}

// ComputeContentHash fingerprints a tabular snapshot
func ComputeContentHash(snapshot interface{}) (ContentHash, error) {
	h, err := HashJSON(snapshot)
	return ContentHash(h), err
}

// ComputeConfigHash fingerprints a configuration value
func ComputeConfigHash(cfg interface{}) (ConfigHash, error) {
	h, err := HashJSON(cfg)
	return ConfigHash(h), err
}
