// Package lockreg guards against the same work-order landing in two batches
// at once, grounded on original_source's
// core/validators/odl_state_validator.py cross-batch lock. The production
// status and deadline oracles it also consults are out of scope for this
// module (spec.md §1 Non-goals) and are represented only as pluggable
// collaborator interfaces, defaulting to no-op implementations that report
// every work-order READY and never near its deadline.
package lockreg

import (
	"sync"
	"time"

	"github.com/cureops/autobatch/internal/planerr"
)

// ProductionStatus is the subset of statuses the registry cares about; any
// other value is treated as READY.
type ProductionStatus string

const (
	StatusReady       ProductionStatus = "READY"
	StatusInAutoclave ProductionStatus = "IN_AUTOCLAVE"
	StatusCompleted   ProductionStatus = "COMPLETED"
)

// ProductionStatusChecker is the external collaborator that reports a
// work-order's real production state. The real implementation lives outside
// this module's scope; callers inject it, or rely on AlwaysReady.
type ProductionStatusChecker interface {
	Status(workOrderID string) ProductionStatus
}

// AlwaysReady is the default ProductionStatusChecker: every work-order is
// reported READY, i.e. the check is a no-op.
type AlwaysReady struct{}

func (AlwaysReady) Status(string) ProductionStatus { return StatusReady }

// DeadlineChecker is the external collaborator that reports whether a
// work-order is close enough to its due date to warrant a warning rather
// than outright rejection. Like ProductionStatusChecker, the real
// implementation lives outside this module's scope.
type DeadlineChecker interface {
	NearDeadline(workOrderID string) bool
}

// AlwaysOnTime is the default DeadlineChecker: nothing is ever near its
// deadline.
type AlwaysOnTime struct{}

func (AlwaysOnTime) NearDeadline(string) bool { return false }

// Registry is the interface the orchestrator depends on, so tests and
// alternate backends (a real database-backed lock table) can stand in for
// InMemory.
type Registry interface {
	// Validate checks a candidate set of work-order IDs against in-flight
	// locks and production status. It returns the subset still usable for
	// batching (validIDs), any non-blocking warnings (e.g. a work-order
	// near its deadline), and a non-nil err only when at least one
	// work-order was blocking (already reserved, or a terminal production
	// status). err is informational, not a reason to abort the whole call:
	// the blocked work-orders are simply absent from validIDs, and callers
	// proceed with the rest.
	Validate(workOrderIDs []string) (validIDs []string, warnings []string, err error)
	// RegisterBatch reserves the given work-order IDs under batchID for
	// the lock's lifetime.
	RegisterBatch(batchID string, workOrderIDs []string)
	// ReleaseBatch frees every work-order ID reserved under batchID.
	ReleaseBatch(batchID string)
}

type lockEntry struct {
	batchID    string
	lockedAt   time.Time
	lockedTill time.Time
}

// lockTTL mirrors the two-hour temporary lock window from
// odl_state_validator.py's register_active_batch.
const lockTTL = 2 * time.Hour

// InMemory is a process-local Registry, sufficient for a single
// orchestrator instance; a multi-instance deployment would back this with
// a shared store instead.
type InMemory struct {
	mu        sync.Mutex
	locks     map[string]lockEntry // work-order ID -> lock
	checker   ProductionStatusChecker
	deadlines DeadlineChecker
	now       func() time.Time
}

// NewInMemory constructs an InMemory registry. A nil checker defaults to
// AlwaysReady; a nil deadlines collaborator defaults to AlwaysOnTime.
func NewInMemory(checker ProductionStatusChecker, deadlines DeadlineChecker) *InMemory {
	if checker == nil {
		checker = AlwaysReady{}
	}
	if deadlines == nil {
		deadlines = AlwaysOnTime{}
	}
	return &InMemory{
		locks:     make(map[string]lockEntry),
		checker:   checker,
		deadlines: deadlines,
		now:       time.Now,
	}
}

// Validate implements Registry. A blocking problem (an existing lock still
// within its TTL, or a terminal production status) drops the work-order
// from validIDs and records err, but does not stop the rest of the batch
// from being checked: per spec.md §7, a lock conflict is fatal only for the
// offending work-order.
func (r *InMemory) Validate(workOrderIDs []string) ([]string, []string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()

	var validIDs, warnings []string
	var firstErr error

	for _, id := range workOrderIDs {
		blocked := false

		if entry, locked := r.locks[id]; locked {
			if entry.lockedTill.After(now) {
				blocked = true
				if firstErr == nil {
					firstErr = planerr.LockConflict(id, "work-order already reserved by an in-flight batch "+entry.batchID)
				}
			} else {
				delete(r.locks, id)
			}
		}

		if !blocked {
			switch r.checker.Status(id) {
			case StatusInAutoclave, StatusCompleted:
				blocked = true
				if firstErr == nil {
					firstErr = planerr.LockConflict(id, "work-order production status is incompatible with batching")
				}
			}
		}

		if blocked {
			continue
		}

		if r.deadlines.NearDeadline(id) {
			warnings = append(warnings, id+" is near its deadline; high priority recommended")
		}

		validIDs = append(validIDs, id)
	}

	return validIDs, warnings, firstErr
}

// RegisterBatch implements Registry.
func (r *InMemory) RegisterBatch(batchID string, workOrderIDs []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for _, id := range workOrderIDs {
		r.locks[id] = lockEntry{batchID: batchID, lockedAt: now, lockedTill: now.Add(lockTTL)}
	}
}

// ReleaseBatch implements Registry.
func (r *InMemory) ReleaseBatch(batchID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, entry := range r.locks {
		if entry.batchID == batchID {
			delete(r.locks, id)
		}
	}
}
