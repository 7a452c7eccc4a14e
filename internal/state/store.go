package state

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/five82/axedeck/internal/bitaxe"
)

// Slot is the dashboard state of one configured address.
type Slot struct {
	Address string
	// InFlight is set from Reconcile until the first fetch of the generation
	// settles. It hides whatever Record/Failure hold.
	InFlight bool
	// Refreshing marks a background re-poll. Record/Failure stay visible.
	Refreshing bool
	Record     bitaxe.Record
	Failure    error
	UpdatedAt  time.Time
}

// Failed reports whether the slot currently shows a failure.
func (s Slot) Failed() bool {
	return !s.InFlight && s.Failure != nil
}

// Pending reports whether a fetch for the slot is outstanding.
func (s Slot) Pending() bool {
	return s.InFlight || s.Refreshing
}

// Snapshot is an ordered copy of every slot, in configuration order.
type Snapshot struct {
	Generation  uint64
	Slots       []Slot
	LastUpdated time.Time
}

// Addresses returns the configured addresses in order.
func (s Snapshot) Addresses() []string {
	out := make([]string, len(s.Slots))
	for i, slot := range s.Slots {
		out[i] = slot.Address
	}
	return out
}

// Slot returns the first slot configured for address.
func (s Snapshot) Slot(address string) (Slot, bool) {
	for _, slot := range s.Slots {
		if slot.Address == address {
			return slot, true
		}
	}
	return Slot{}, false
}

// AllFailed is true when at least one address is configured and every slot
// shows a failure.
func (s Snapshot) AllFailed() bool {
	if len(s.Slots) == 0 {
		return false
	}
	for _, slot := range s.Slots {
		if !slot.Failed() {
			return false
		}
	}
	return true
}

// PendingCount returns how many slots have a fetch outstanding.
func (s Snapshot) PendingCount() int {
	n := 0
	for _, slot := range s.Slots {
		if slot.Pending() {
			n++
		}
	}
	return n
}

// Update announces that a slot (or, with Index -1, the whole slot list)
// changed.
type Update struct {
	Generation uint64
	Index      int
	Address    string
}

const updateBuffer = 64

// Store owns the fleet snapshot and fans out device fetches.
type Store struct {
	fetcher bitaxe.InfoFetcher
	log     logrus.FieldLogger

	mu          sync.RWMutex
	generation  uint64
	slots       []Slot
	lastUpdated time.Time
	outstanding int
	idle        chan struct{}
	idleClosed  bool

	updates chan Update
}

// NewStore builds a Store that reads devices through fetcher.
func NewStore(fetcher bitaxe.InfoFetcher, log logrus.FieldLogger) *Store {
	if log == nil {
		discard := logrus.New()
		discard.SetLevel(logrus.PanicLevel)
		log = discard
	}
	idle := make(chan struct{})
	close(idle)
	return &Store{
		fetcher:    fetcher,
		log:        log,
		idle:       idle,
		idleClosed: true,
		updates:    make(chan Update, updateBuffer),
	}
}

// Reconcile replaces every slot with a fresh loading slot for addresses and
// starts one fetch per slot. Results from earlier generations are discarded
// when they arrive. It returns the new generation.
func (s *Store) Reconcile(ctx context.Context, addresses []string) uint64 {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.slots = make([]Slot, len(addresses))
	for i, addr := range addresses {
		s.slots[i] = Slot{Address: addr, InFlight: true}
	}
	s.lastUpdated = time.Now()
	s.closeIdleLocked()
	s.outstanding = len(addresses)
	if s.outstanding > 0 {
		s.idle = make(chan struct{})
		s.idleClosed = false
	}
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		"generation": gen,
		"devices":    len(addresses),
	}).Info("reconciling device list")

	for i, addr := range addresses {
		go s.fetch(ctx, gen, i, addr)
	}
	s.notify(Update{Generation: gen, Index: -1})
	return gen
}

// Refresh re-polls every settled slot of the current generation. Slots keep
// showing their last record or failure until the new result lands; slots
// with a fetch outstanding are skipped. It returns the number of fetches
// started.
func (s *Store) Refresh(ctx context.Context) int {
	type target struct {
		index   int
		address string
	}

	s.mu.Lock()
	gen := s.generation
	var targets []target
	for i := range s.slots {
		if s.slots[i].Pending() {
			continue
		}
		s.slots[i].Refreshing = true
		targets = append(targets, target{index: i, address: s.slots[i].Address})
	}
	if len(targets) > 0 {
		if s.outstanding == 0 {
			s.idle = make(chan struct{})
			s.idleClosed = false
		}
		s.outstanding += len(targets)
	}
	s.mu.Unlock()

	for _, t := range targets {
		go s.fetch(ctx, gen, t.index, t.address)
	}
	if len(targets) > 0 {
		s.log.WithFields(logrus.Fields{
			"generation": gen,
			"devices":    len(targets),
		}).Debug("refreshing devices")
	}
	return len(targets)
}

// Snapshot returns a copy of the current slots.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Generation:  s.generation,
		LastUpdated: s.lastUpdated,
	}
	if len(s.slots) > 0 {
		snap.Slots = make([]Slot, len(s.slots))
		for i, slot := range s.slots {
			slot.Record = slot.Record.Clone()
			snap.Slots[i] = slot
		}
	}
	return snap
}

// Addresses returns the address list of the current generation.
func (s *Store) Addresses() []string {
	return s.Snapshot().Addresses()
}

// Updates delivers a notification after every committed change. Sends never
// block: when the buffer is full the notification is dropped and readers
// should fall back to Snapshot.
func (s *Store) Updates() <-chan Update {
	return s.updates
}

// Wait blocks until the current generation has no fetch outstanding. A
// Reconcile during the wait moves the target to the new generation.
func (s *Store) Wait(ctx context.Context) error {
	for {
		s.mu.RLock()
		idle := s.idle
		s.mu.RUnlock()

		select {
		case <-idle:
			s.mu.RLock()
			same := idle == s.idle
			s.mu.RUnlock()
			if same {
				return nil
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (s *Store) fetch(ctx context.Context, gen uint64, index int, address string) {
	started := time.Now()
	rec, err := s.fetcher.FetchInfo(ctx, address)

	fields := logrus.Fields{
		"generation": gen,
		"address":    address,
		"elapsed":    time.Since(started).Round(time.Millisecond),
	}
	if !s.commit(gen, index, rec, err) {
		s.log.WithFields(fields).Debug("discarding stale fetch result")
		return
	}
	if err != nil {
		var fe *bitaxe.FetchError
		if errors.As(err, &fe) {
			fields["kind"] = fe.Kind.String()
		}
		s.log.WithFields(fields).WithError(err).Warn("device fetch failed")
	} else {
		s.log.WithFields(fields).Debug("device fetch settled")
	}
	s.notify(Update{Generation: gen, Index: index, Address: address})
}

// commit stores one fetch result. It returns false when the result belongs to
// an earlier generation.
func (s *Store) commit(gen uint64, index int, rec bitaxe.Record, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation || index < 0 || index >= len(s.slots) {
		return false
	}
	slot := &s.slots[index]
	slot.InFlight = false
	slot.Refreshing = false
	if err != nil {
		slot.Failure = err
		slot.Record = nil
	} else {
		slot.Record = rec
		slot.Failure = nil
	}
	slot.UpdatedAt = time.Now()
	s.lastUpdated = slot.UpdatedAt

	s.outstanding--
	if s.outstanding <= 0 {
		s.outstanding = 0
		s.closeIdleLocked()
	}
	return true
}

func (s *Store) closeIdleLocked() {
	if !s.idleClosed {
		close(s.idle)
		s.idleClosed = true
	}
}

func (s *Store) notify(u Update) {
	select {
	case s.updates <- u:
	default:
	}
}
