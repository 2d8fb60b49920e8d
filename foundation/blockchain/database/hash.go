package database

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"
)

// ZeroHash represents a hash code of zeros.
const ZeroHash string = "0000000000000000000000000000000000000000000000000000000000000000"

// Hash returns the SHA-256 digest of the data as 64 lowercase hex characters.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return common.Bytes2Hex(hash[:])
}

// HashValue returns the hash of the canonical JSON encoding of the value.
func HashValue(value any) string {
	data, err := canonicalJSON(value)
	if err != nil {
		return ZeroHash
	}

	return Hash(data)
}

// canonicalJSON produces the compact JSON form used for hashing. Field order
// follows the struct declaration and HTML characters are not escaped so every
// node produces the same bytes for the same block.
func canonicalJSON(value any) ([]byte, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(value); err != nil {
		return nil, err
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
