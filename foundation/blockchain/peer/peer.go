// Package peer maintains the peer related information such as the set
// of known peers and their status.
package peer

import (
	"net/url"
)

// Peer represents information about a Node in the network.
type Peer struct {
	Host string `json:"host"`
}

// New contructs a new info value.
func New(host string) Peer {
	return Peer{
		Host: host,
	}
}

// Parse extracts the host, with any port, from an absolute URL. The second
// return value is false when the address is not a URL or has no host.
func Parse(address string) (Peer, bool) {
	u, err := url.Parse(address)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return Peer{}, false
	}

	return New(u.Host), true
}

// ChainURL returns the url used to fetch the chain from this peer.
func (p Peer) ChainURL() string {
	return "http://" + p.Host + "/chain"
}

// =============================================================================

// PeerStatus represents information about the status
// of any given peer.
type PeerStatus struct {
	NodeID          string `json:"node_id"`
	Length          int    `json:"length"`
	LatestBlockHash string `json:"latest_block_hash"`
	Pending         int    `json:"pending"`
	KnownPeers      []Peer `json:"known_peers"`
}

// =============================================================================

// PeerSet represents the registry of known peers in insertion order.
// Duplicates are kept, callers are free to deduplicate. A PeerSet is owned
// by the state package, which serializes access to it.
type PeerSet struct {
	peers []Peer
}

// NewPeerSet constructs a new info set to manage node peer information.
func NewPeerSet() *PeerSet {
	return &PeerSet{}
}

// Add adds a new node to the set.
func (ps *PeerSet) Add(peer Peer) {
	ps.peers = append(ps.peers, peer)
}

// Register parses the address as a URL and adds its host to the set. An
// address that doesn't parse or carries no host is ignored and false is
// returned.
func (ps *PeerSet) Register(address string) bool {
	peer, ok := Parse(address)
	if !ok {
		return false
	}

	ps.Add(peer)
	return true
}

// Len returns the number of registered peers.
func (ps *PeerSet) Len() int {
	return len(ps.peers)
}

// Copy returns a list of the known peers in insertion order.
func (ps *PeerSet) Copy() []Peer {
	peers := make([]Peer, len(ps.peers))
	copy(peers, ps.peers)
	return peers
}
