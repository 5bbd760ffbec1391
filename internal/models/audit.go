package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuditAction enumerates the state-changing actions written to the audit trail.
type AuditAction string

const (
	AuditActionSend           AuditAction = "SEND"
	AuditActionRead           AuditAction = "READ"
	AuditActionReceive        AuditAction = "RECEIVE"
	AuditActionLogin          AuditAction = "LOGIN"
	AuditActionLogout         AuditAction = "LOGOUT"
	AuditActionRegister       AuditAction = "REGISTER"
	AuditActionApproveUser    AuditAction = "APPROVE_USER"
	AuditActionUpdateUser     AuditAction = "UPDATE_USER"
	AuditActionDeleteDocument AuditAction = "DELETE_DOCUMENT"
	AuditActionCreateOrder    AuditAction = "CREATE_ORDER"
	AuditActionDeleteOrder    AuditAction = "DELETE_ORDER"
	AuditActionCreateMemo     AuditAction = "CREATE_MEMO"
	AuditActionDeleteMemo     AuditAction = "DELETE_MEMO"
	AuditActionCreateLetter   AuditAction = "CREATE_LETTER"
	AuditActionDeleteLetter   AuditAction = "DELETE_LETTER"
	AuditActionCreateIncoming AuditAction = "CREATE_INCOMING"
	AuditActionDeleteIncoming AuditAction = "DELETE_INCOMING"
)

var knownAuditActions = map[AuditAction]struct{}{
	AuditActionSend:           {},
	AuditActionRead:           {},
	AuditActionReceive:        {},
	AuditActionLogin:          {},
	AuditActionLogout:         {},
	AuditActionRegister:       {},
	AuditActionApproveUser:    {},
	AuditActionUpdateUser:     {},
	AuditActionDeleteDocument: {},
	AuditActionCreateOrder:    {},
	AuditActionDeleteOrder:    {},
	AuditActionCreateMemo:     {},
	AuditActionDeleteMemo:     {},
	AuditActionCreateLetter:   {},
	AuditActionDeleteLetter:   {},
	AuditActionCreateIncoming: {},
	AuditActionDeleteIncoming: {},
}

// Valid reports whether the action is one the recorder accepts.
func (a AuditAction) Valid() bool {
	_, ok := knownAuditActions[a]
	return ok
}

// RefKind names the entity type an audit entry points at.
type RefKind string

const (
	RefKindDocument       RefKind = "Document"
	RefKindOrder          RefKind = "Order"
	RefKindMemorandum     RefKind = "Memorandum"
	RefKindLetter         RefKind = "Letter"
	RefKindIncomingLetter RefKind = "IncomingLetter"
)

// ParseRefKind validates a reference kind coming from a query string.
func ParseRefKind(value string) (RefKind, bool) {
	switch kind := RefKind(value); kind {
	case RefKindDocument, RefKindOrder, RefKindMemorandum, RefKindLetter, RefKindIncomingLetter:
		return kind, true
	default:
		return "", false
	}
}

// Ref is a typed pointer to one registry entity.
type Ref struct {
	Kind RefKind
	ID   uint
}

// DocumentRef builds a reference to a routed document.
func DocumentRef(id uint) *Ref {
	return &Ref{Kind: RefKindDocument, ID: id}
}

// AuditLog is an append-only record of a state-changing action.
type AuditLog struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	UserID     uint              `gorm:"not null;index" json:"user_id"`
	User       User              `gorm:"foreignKey:UserID" json:"user"`
	Action     AuditAction       `gorm:"size:32;not null;index" json:"action"`
	DocumentID *uint             `gorm:"index" json:"document_id"`
	RefKind    *RefKind          `gorm:"size:32;index:idx_audit_ref" json:"ref_kind"`
	RefID      *uint             `gorm:"index:idx_audit_ref" json:"ref_id"`
	IPAddress  string            `gorm:"size:64" json:"ip_address"`
	Metadata   datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	CreatedAt  time.Time         `gorm:"index" json:"created_at"`
}

// Ref returns the typed reference of the entry, if any.
func (a AuditLog) Ref() *Ref {
	if a.RefKind == nil || a.RefID == nil {
		return nil
	}
	return &Ref{Kind: *a.RefKind, ID: *a.RefID}
}
