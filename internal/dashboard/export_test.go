package dashboard

// LastCity returns the city of the client's last applied search, or "" for
// an unknown client.
func (o *Orchestrator) LastCity(clientID string) string {
	s, ok := o.states.lookup(clientID)
	if !ok {
		return ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.city
}

// ClientCount returns how many client states are retained.
func (o *Orchestrator) ClientCount() int {
	o.states.mu.Lock()
	defer o.states.mu.Unlock()
	return len(o.states.clients)
}
