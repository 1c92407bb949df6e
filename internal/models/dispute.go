package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/ignatzorin/marketplace-backend/internal/domain/valueobject"
)

// Dispute представляет спор по бронированию (1:1).
type Dispute struct {
	ID                 uuid.UUID                       `db:"id" json:"id"`
	BookingID          uuid.UUID                       `db:"booking_id" json:"booking_id"`
	CreatedByID        uuid.UUID                       `db:"created_by_id" json:"created_by_id"`
	Reason             string                          `db:"reason" json:"reason"`
	Description        *string                         `db:"description" json:"description,omitempty"`
	EvidenceFiles      pq.StringArray                  `db:"evidence_files" json:"evidence_files"`
	Status             valueobject.DisputeStatus       `db:"status" json:"status"`
	ResolutionDecision *valueobject.ResolutionDecision `db:"resolution_decision" json:"resolution_decision,omitempty"`
	ResolutionNotes    *string                         `db:"resolution_notes" json:"resolution_notes,omitempty"`
	ResolvedBy         *uuid.UUID                      `db:"resolved_by" json:"resolved_by,omitempty"`
	ResolvedAt         *time.Time                      `db:"resolved_at" json:"resolved_at,omitempty"`
	CreatedAt          time.Time                       `db:"created_at" json:"created_at"`
}
