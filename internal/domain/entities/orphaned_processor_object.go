package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// OrphanKind identifies the processor object type left unlinked
type OrphanKind string

const (
	OrphanKindAccount  OrphanKind = "account"
	OrphanKindCustomer OrphanKind = "customer"
)

// Orphan reasons
const (
	OrphanReasonLostRace      = "lost_race"
	OrphanReasonPersistFailed = "persist_failed"
)

// OrphanedProcessorObject is a processor object created remotely that no row
// references. The sweep job deletes it at the processor and marks it resolved.
type OrphanedProcessorObject struct {
	ID          uuid.UUID   `json:"id"`
	Kind        OrphanKind  `json:"kind"`
	ProcessorID string      `json:"processorId"`
	OwnerID     uuid.UUID   `json:"ownerId"`
	Reason      string      `json:"reason"`
	Attempts    int         `json:"attempts"`
	LastError   null.String `json:"lastError"`
	ResolvedAt  null.Time   `json:"resolvedAt"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}
