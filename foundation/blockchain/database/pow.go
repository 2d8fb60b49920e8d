package database

import (
	"context"
	"math"
	"strconv"
	"strings"
)

// ProofPrefix is the prefix the digest of a proof must start with. Six hex
// zeros is a fixed 24 bit difficulty.
const ProofPrefix = "000000"

// ValidProof reports whether the proof solves the puzzle for the last proof.
// The decimal forms of both values are concatenated and hashed, the digest
// must start with the ProofPrefix.
func ValidProof(lastProof uint64, proof uint64) bool {
	guess := make([]byte, 0, 40)
	guess = strconv.AppendUint(guess, lastProof, 10)
	guess = strconv.AppendUint(guess, proof, 10)

	return strings.HasPrefix(Hash(guess), ProofPrefix)
}

// POW performs the work of finding the smallest proof that is valid against
// the last proof. The search is not bounded, only the context can stop it.
func POW(ctx context.Context, lastProof uint64, ev func(v string, args ...any)) (uint64, error) {
	ev("database: POW: MINING: started: lastProof[%d]", lastProof)
	defer ev("database: POW: MINING: completed")

	var proof uint64
	for {
		if ValidProof(lastProof, proof) {
			ev("database: POW: MINING: SOLVED: lastProof[%d]: proof[%d]", lastProof, proof)
			return proof, nil
		}

		if proof == math.MaxUint64 {
			panic("database: POW: proof search overflowed")
		}
		proof++

		if proof%1_000_000 == 0 {
			ev("database: POW: MINING: attempts[%d]", proof)

			// Did we get cancelled trying to solve the problem.
			if ctx.Err() != nil {
				ev("database: POW: MINING: CANCELLED")
				return 0, ctx.Err()
			}
		}
	}
}
