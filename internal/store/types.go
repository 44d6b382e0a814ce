package store

import "context"

// CreatedLayout is the second-resolution timestamp carried by every
// recommendation and used to derive its storage key.
const CreatedLayout = "2006-01-02T15:04:05"

// Recommendation is the persisted output of one successful pipeline run.
// Records are write-once; nothing updates them after Save.
type Recommendation struct {
	CustomerID string `json:"customer_id"`
	EmpID      string `json:"emp_id"`
	Response   string `json:"response"`
	Created    string `json:"created"`
}

// Store persists recommendations and retrieves them per employee.
type Store interface {
	// Save persists the recommendation under a unique key derived from its
	// Created timestamp and returns it unchanged.
	Save(ctx context.Context, rec Recommendation) (Recommendation, error)
	// ListByEmployee returns every readable recommendation whose emp_id
	// equals empID, most recent first. Records missing a created timestamp
	// sort last.
	ListByEmployee(ctx context.Context, empID string) ([]Recommendation, error)
	Close() error
}
