package state

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
)

// ResolveConflicts asks every known peer for its chain and replaces the local
// chain with the longest valid chain that is strictly longer than ours. When
// peers tie on length the last one asked wins. Peers that can't be reached or
// return bad data are skipped. It reports whether the local chain was replaced
// along with the chain held once the decision was made.
func (s *State) ResolveConflicts(ctx context.Context) (bool, []database.Block) {
	s.evHandler("state: ResolveConflicts: started")
	defer s.evHandler("state: ResolveConflicts: completed")

	// Take what we need under the lock so mining and transactions are not
	// stalled while we wait on the network.
	s.mu.Lock()
	peers := s.knownPeers.Copy()
	length := s.chain.Len()
	s.mu.Unlock()

	var longest []database.Block
	var longestPeer peer.Peer
	for _, pr := range peers {
		chain, err := s.netRequestPeerChain(ctx, pr)
		if err != nil {
			s.evHandler("state: ResolveConflicts: peer[%s]: WARNING: %s", pr.Host, err)
			continue
		}

		if len(chain) <= length || len(chain) < len(longest) {
			s.evHandler("state: ResolveConflicts: peer[%s]: chain not longer: len[%d]", pr.Host, len(chain))
			continue
		}

		if err := database.ValidateChain(chain); err != nil {
			s.evHandler("state: ResolveConflicts: peer[%s]: invalid chain: %s", pr.Host, err)
			continue
		}

		s.evHandler("state: ResolveConflicts: peer[%s]: candidate chain: len[%d]", pr.Host, len(chain))
		longest = chain
		longestPeer = pr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if longest == nil {
		return false, s.chain.Copy()
	}

	// The local chain may have grown while the peers were being asked.
	if len(longest) <= s.chain.Len() {
		s.evHandler("state: ResolveConflicts: local chain grew: len[%d]", s.chain.Len())
		return false, s.chain.Copy()
	}

	s.chain.Reset(longest)
	s.evHandler("state: ResolveConflicts: replaced chain: peer[%s]: len[%d]", longestPeer.Host, len(longest))

	return true, s.chain.Copy()
}

// =============================================================================

// maxErrorBytes caps how much of a failed response is kept for the error.
const maxErrorBytes = 1024

// netRequestPeerChain asks the specified peer for its full chain.
func (s *State) netRequestPeerChain(ctx context.Context, pr peer.Peer) ([]database.Block, error) {
	s.evHandler("state: netRequestPeerChain: started: %s", pr.Host)
	defer s.evHandler("state: netRequestPeerChain: completed: %s", pr.Host)

	var chainData database.ChainData
	if err := send(ctx, s.client, pr.ChainURL(), s.maxChainBytes, &chainData); err != nil {
		return nil, err
	}

	return chainData.Chain, nil
}

// send is a helper function to send an HTTP GET request to a node and
// decode the JSON response. Any status outside of the 2xx range is an error.
// No more than maxBytes of the response body are read.
func send(ctx context.Context, client *http.Client, url string, maxBytes int64, dataRecv any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		msg, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBytes))
		if err != nil {
			return err
		}
		return fmt.Errorf("status %d: %s", resp.StatusCode, msg)
	}

	body := io.LimitReader(resp.Body, maxBytes+1)
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	if int64(len(data)) > maxBytes {
		return fmt.Errorf("response larger than %d bytes", maxBytes)
	}

	if err := json.Unmarshal(data, dataRecv); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}
