package audit

import (
	"time"
)

// SystemUser is recorded when no caller identity is available.
const SystemUser = "system"

// AuditInfo records who generated a chart snapshot and when, plus who last
// exported its report.
type AuditInfo struct {
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedBy string    `json:"updated_by,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// NewAuditInfo returns an AuditInfo with the current timestamp and creator.
func NewAuditInfo(creator string) *AuditInfo {
	if creator == "" {
		creator = SystemUser
	}

	return &AuditInfo{
		CreatedBy: creator,
		CreatedAt: time.Now().UTC(),
	}
}

// Touch returns a copy of a stamped with updatedBy and the current time.
// Snapshots are immutable, so the receiver is never modified.
func (a AuditInfo) Touch(updatedBy string) AuditInfo {
	if updatedBy == "" {
		updatedBy = SystemUser
	}
	a.UpdatedBy = updatedBy
	a.UpdatedAt = time.Now().UTC()
	return a
}
