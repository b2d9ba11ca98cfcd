// Package audit captures who did what in the admin panel and the delivery
// workflow. Events are append-only and fan out to storage and Kafka sinks.
package audit

import "time"

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	ActorID   string    `json:"actor_id"`
	Action    Action    `json:"action"`
	Entity    string    `json:"entity,omitempty"`
	EntityID  string    `json:"entity_id,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	IP        string    `json:"ip,omitempty"`
}

// Action identifies the audited operation.
type Action string

const (
	ActionLoginSucceeded       Action = "login_succeeded"
	ActionLoginFailed          Action = "login_failed"
	ActionLoginLockedOut       Action = "login_locked_out"
	ActionDeliverySubmitted    Action = "delivery_submitted"
	ActionDeliveryVoided       Action = "delivery_voided"
	ActionPublicationSaved     Action = "publication_saved"
	ActionPublicationPublished Action = "publication_published"
	ActionPublicationDeleted   Action = "publication_deleted"
	ActionStaffUserCreated     Action = "staff_user_created"
	ActionStaffUserDisabled    Action = "staff_user_disabled"
)
