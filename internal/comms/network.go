package comms

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// Role is the service a participant declares when joining the network.
type Role string

const (
	RoleManufacturer Role = "manufacturer"
	RoleSupplier     Role = "supplier"
	RoleCustomer     Role = "customer"
	RoleTicker       Role = "ticker"
)

var (
	ErrNameTaken          = errors.New("participant name already registered")
	ErrUnknownParticipant = errors.New("unknown participant")
)

const defaultInboxSize = 256

// Network is the in-memory message transport plus the directory used to
// find trading partners by role. Delivery is asynchronous: Send enqueues
// into the receiver's mailbox and returns.
type Network struct {
	mu     sync.RWMutex
	boxes  map[string]*Mailbox
	roles  map[string]Role
	logger *slog.Logger
}

// NewNetwork creates an empty network.
func NewNetwork(logger *slog.Logger) *Network {
	if logger == nil {
		logger = slog.Default()
	}
	return &Network{
		boxes:  make(map[string]*Mailbox),
		roles:  make(map[string]Role),
		logger: logger,
	}
}

// Join registers a participant under a unique name and role and returns
// its mailbox. Registration failure is fatal to the participant's startup.
func (n *Network) Join(name string, role Role) (*Mailbox, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if _, ok := n.boxes[name]; ok {
		return nil, fmt.Errorf("join %q: %w", name, ErrNameTaken)
	}

	box := newMailbox(name, defaultInboxSize)
	n.boxes[name] = box
	n.roles[name] = role
	n.logger.Debug("participant joined", "name", name, "role", string(role))
	return box, nil
}

// Leave deregisters a participant. Messages sent to it afterwards fail
// with ErrUnknownParticipant.
func (n *Network) Leave(name string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.boxes, name)
	delete(n.roles, name)
	n.logger.Debug("participant left", "name", name)
}

// Search returns the names of all participants registered under a role,
// sorted so discovery rounds are deterministic.
func (n *Network) Search(role Role) []string {
	n.mu.RLock()
	defer n.mu.RUnlock()

	var names []string
	for name, r := range n.roles {
		if r == role {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Send delivers a message into the receiver's mailbox.
func (n *Network) Send(msg Message) error {
	n.mu.RLock()
	box, ok := n.boxes[msg.Receiver]
	n.mu.RUnlock()

	if !ok {
		return fmt.Errorf("send to %q: %w", msg.Receiver, ErrUnknownParticipant)
	}
	box.deliver(msg)
	return nil
}
