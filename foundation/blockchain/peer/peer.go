// Package peer maintains the peer related information such as the set
// of know peers and their status.
package peer

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"
)

// ErrInvalidAddress is returned when an address has no network location.
var ErrInvalidAddress = errors.New("invalid peer address")

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

// Parse takes an address such as "http://127.0.0.1:5001/" or
// "127.0.0.1:5001" and returns the peer for its host:port.
func Parse(address string) (Peer, error) {
	address = strings.TrimSpace(address)
	if !strings.Contains(address, "://") {
		address = "http://" + address
	}

	u, err := url.Parse(address)
	if err != nil {
		return Peer{}, fmt.Errorf("%w: %s", ErrInvalidAddress, err)
	}

	if u.Host == "" {
		return Peer{}, fmt.Errorf("%w: %q has no host", ErrInvalidAddress, address)
	}

	return New(strings.ToLower(u.Host)), nil
}

// Match validates if the specified host matches this node.
func (p Peer) Match(host string) bool {
	return p.Host == host
}

// String implements the fmt.Stringer interface.
func (p Peer) String() string {
	return p.Host
}

// =============================================================================

// Status represents what was last observed when contacting a peer.
type Status int

// Set of known peer statuses.
const (
	StatusUnknown Status = iota
	StatusHealthy
	StatusUnreachable
)

// String implements the fmt.Stringer interface.
func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "healthy"
	case StatusUnreachable:
		return "unreachable"
	default:
		return "unknown"
	}
}

// MarshalText implements the encoding.TextMarshaler interface.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Info is a peer along with its last observed status.
type Info struct {
	Peer
	Status Status `json:"status"`
}

// PeerStatus represents information about the status
// of any given node.
type PeerStatus struct {
	NodeID           string `json:"node_id"`
	LatestBlockHash  string `json:"latest_block_hash"`
	LatestBlockIndex uint64 `json:"latest_block_index"`
	Length           int    `json:"length"`
	KnownPeers       []Info `json:"known_peers"`
}

// =============================================================================

// PeerSet represents the data representation to maintain a set of known peers.
type PeerSet struct {
	mu  sync.RWMutex
	set map[Peer]Status
}

// NewPeerSet constructs a new info set to manage node peer information.
func NewPeerSet() *PeerSet {
	return &PeerSet{
		set: make(map[Peer]Status),
	}
}

// Add adds a new node to the set. It reports false if the peer
// was already known.
func (ps *PeerSet) Add(peer Peer) bool {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	_, exists := ps.set[peer]
	if !exists {
		ps.set[peer] = StatusUnknown
		return true
	}

	return false
}

// SetStatus records the last observed status for a known peer. Peers
// that are not in the set are ignored.
func (ps *PeerSet) SetStatus(peer Peer, status Status) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if _, exists := ps.set[peer]; exists {
		ps.set[peer] = status
	}
}

// Len returns the number of known peers.
func (ps *PeerSet) Len() int {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	return len(ps.set)
}

// Copy returns a list of the known peers sorted by host, leaving out the
// specified host.
func (ps *PeerSet) Copy(host string) []Peer {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	peers := make([]Peer, 0, len(ps.set))
	for peer := range ps.set {
		if !peer.Match(host) {
			peers = append(peers, peer)
		}
	}

	sort.Slice(peers, func(i, j int) bool {
		return peers[i].Host < peers[j].Host
	})

	return peers
}

// CopyInfo returns the known peers and their status sorted by host.
func (ps *PeerSet) CopyInfo() []Info {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	infos := make([]Info, 0, len(ps.set))
	for peer, status := range ps.set {
		infos = append(infos, Info{Peer: peer, Status: status})
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Host < infos[j].Host
	})

	return infos
}
