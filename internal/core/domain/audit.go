package domain

import "time"

// AuditOutcome is the result of an audited operation.
type AuditOutcome string

const (
	OutcomeAllowed AuditOutcome = "allowed"
	OutcomeDenied  AuditOutcome = "denied"
)

// AuditEvent records one mutation attempt against the document.
type AuditEvent struct {
	ID         string       `json:"id" bson:"_id"`
	Action     string       `json:"action" bson:"action"`
	ActorID    int64        `json:"actorId" bson:"actor_id"`
	TargetType string       `json:"targetType" bson:"target_type"`
	TargetID   int64        `json:"targetId,omitempty" bson:"target_id,omitempty"`
	Outcome    AuditOutcome `json:"outcome" bson:"outcome"`
	Rule       string       `json:"rule,omitempty" bson:"rule,omitempty"`
	At         time.Time    `json:"at" bson:"at"`
}
