package peer_test

import (
	"testing"

	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
)

func Test_CRUD(t *testing.T) {
	type table struct {
		name  string
		peers []peer.Peer
	}

	tt := []table{
		{
			name:  "basic",
			peers: []peer.Peer{{Host: "host1"}, {Host: "host2"}, {Host: "host3"}},
		},
		{
			name:  "duplicates",
			peers: []peer.Peer{{Host: "host1"}, {Host: "host1"}},
		},
	}

	for _, tst := range tt {
		f := func(t *testing.T) {
			ps := peer.NewPeerSet()

			for _, peer := range tst.peers {
				ps.Add(peer)
			}

			peers := ps.Copy()
			if len(peers) != len(tst.peers) {
				t.Logf("Test %s:\tgot: %d", tst.name, len(peers))
				t.Logf("Test %s:\texp: %d", tst.name, len(tst.peers))
				t.Fatalf("Test %s:\tShould get back the right peers.", tst.name)
			}

			for i := range peers {
				if peers[i] != tst.peers[i] {
					t.Logf("Test %s:\tgot: %s", tst.name, peers[i].Host)
					t.Logf("Test %s:\texp: %s", tst.name, tst.peers[i].Host)
					t.Fatalf("Test %s:\tShould get back peers in insertion order.", tst.name)
				}
			}
		}

		t.Run(tst.name, f)
	}
}

func Test_Register(t *testing.T) {
	type table struct {
		name    string
		address string
		host    string
		added   bool
	}

	tt := []table{
		{name: "host-port", address: "http://example.com:8080/path", host: "example.com:8080", added: true},
		{name: "host", address: "http://192.168.0.5:5000", host: "192.168.0.5:5000", added: true},
		{name: "https", address: "https://node.example.com", host: "node.example.com", added: true},
		{name: "not-url", address: "not a url", added: false},
		{name: "relative", address: "192.168.0.5:5000", added: false},
		{name: "no-host", address: "file:///x", added: false},
		{name: "bad-escape", address: "http://%zz", added: false},
		{name: "empty", address: "", added: false},
	}

	for _, tst := range tt {
		f := func(t *testing.T) {
			ps := peer.NewPeerSet()

			added := ps.Register(tst.address)
			if added != tst.added {
				t.Logf("Test %s:\tgot: %v", tst.name, added)
				t.Logf("Test %s:\texp: %v", tst.name, tst.added)
				t.Fatalf("Test %s:\tShould get back the right register result.", tst.name)
			}

			if !tst.added {
				if ps.Len() != 0 {
					t.Fatalf("Test %s:\tShould leave the registry unchanged.", tst.name)
				}
				return
			}

			peers := ps.Copy()
			if len(peers) != 1 || peers[0].Host != tst.host {
				t.Logf("Test %s:\tgot: %v", tst.name, peers)
				t.Logf("Test %s:\texp: %s", tst.name, tst.host)
				t.Fatalf("Test %s:\tShould store the host of the url.", tst.name)
			}

			if exp := "http://" + tst.host + "/chain"; peers[0].ChainURL() != exp {
				t.Fatalf("Test %s:\tShould build the chain url %s, got %s.", tst.name, exp, peers[0].ChainURL())
			}
		}

		t.Run(tst.name, f)
	}
}
