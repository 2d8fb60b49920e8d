package state

// RegisterNodes adds the host of every address to the known peers. Addresses
// that are not absolute URLs with a host are ignored. The number of known
// peers is returned.
func (s *State) RegisterNodes(addresses []string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, address := range addresses {
		if !s.knownPeers.Register(address) {
			s.evHandler("state: RegisterNodes: ignoring address[%s]", address)
			continue
		}
		s.evHandler("state: RegisterNodes: added address[%s]", address)
	}

	return s.knownPeers.Len()
}
