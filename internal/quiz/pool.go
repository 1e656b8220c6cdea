package quiz

import "sync"

// Pool hands out one Machine per user. Machines for different users share
// nothing and run in parallel.
type Pool struct {
	newMachine func(userID string) *Machine
	machines   sync.Map // user id -> *Machine
}

// NewPool creates a pool that builds machines with newMachine on first use.
func NewPool(newMachine func(userID string) *Machine) *Pool {
	return &Pool{newMachine: newMachine}
}

// For returns the machine for userID, creating it if needed.
func (p *Pool) For(userID string) *Machine {
	if v, ok := p.machines.Load(userID); ok {
		return v.(*Machine)
	}
	v, _ := p.machines.LoadOrStore(userID, p.newMachine(userID))
	return v.(*Machine)
}
