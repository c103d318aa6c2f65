package models

import "time"

type EvidenceKind string

const (
	EvidenceBefore EvidenceKind = "before"
	EvidenceAfter  EvidenceKind = "after"
)

// Evidence is a photo taken by staff before or after the job.
type Evidence struct {
	ID        string       `bson:"_id" json:"id"`
	OrderID   string       `bson:"order_id" json:"order_id"`
	StaffID   string       `bson:"staff_id" json:"staff_id"`
	Kind      EvidenceKind `bson:"kind" json:"kind"`
	ObjectKey string       `bson:"object_key" json:"object_key"`
	URL       string       `bson:"url" json:"url"`
	CreatedAt time.Time    `bson:"created_at" json:"created_at"`
}
