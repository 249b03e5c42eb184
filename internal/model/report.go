package model

import "github.com/goccy/go-json"

type NodeSummary struct {
	Name          string  `json:"name" yaml:"name"`
	Status        string  `json:"status" yaml:"status"`
	Success       bool    `json:"success" yaml:"success"`
	Items         int     `json:"items" yaml:"items"`
	ExecutionTime float64 `json:"executionTime" yaml:"executionTime"`
}

type ExecutionSummary struct {
	Source     string        `json:"source" yaml:"source"`
	ID         string        `json:"id" yaml:"id"`
	Status     string        `json:"status" yaml:"status"`
	TotalNodes int           `json:"totalNodes" yaml:"totalNodes"`
	Filter     string        `json:"filter,omitempty" yaml:"filter,omitempty"`
	Nodes      []NodeSummary `json:"nodes" yaml:"nodes"`
}

// Filtered reports whether some nodes were left out of Nodes.
func (s ExecutionSummary) Filtered() bool {
	return s.Filter != ""
}

// NodeDetail keeps Status and ExecutionTime raw: an absent time stays absent.
type NodeDetail struct {
	Source        string            `json:"source" yaml:"source"`
	Name          string            `json:"name" yaml:"name"`
	Status        Scalar            `json:"status" yaml:"status"`
	ExecutionTime Scalar            `json:"executionTime" yaml:"executionTime"`
	ItemCount     int               `json:"itemCount" yaml:"itemCount"`
	Items         []json.RawMessage `json:"items" yaml:"-"`
}
