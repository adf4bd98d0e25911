package domain

import (
	"encoding/json"
	"fmt"
)

// HostMapping maps a virtual host, matched exactly as received, to a bucket
// identifier.
type HostMapping map[string]string

// Lookup returns the bucket mapped to host.
func (m HostMapping) Lookup(host string) (string, bool) {
	bucket, ok := m[host]
	return bucket, ok
}

// HostMappingRecord is a single mapping as stored in the mapping table.
type HostMappingRecord struct {
	Host   string `json:"host" dynamodbav:"host"` // Partition Key
	Bucket string `json:"bucket" dynamodbav:"bucket"`
}

// Override pins every request in the process to one bucket.
type Override struct {
	Host   string
	Bucket string
}

// Enabled reports whether both halves of the override are set.
func (o Override) Enabled() bool {
	return o.Host != "" && o.Bucket != ""
}

// Mapping returns the override as a single-entry mapping table.
func (o Override) Mapping() HostMapping {
	return HostMapping{o.Host: o.Bucket}
}

// ParseHostMapping decodes a JSON object of {host: bucket} pairs.
func ParseHostMapping(data []byte) (HostMapping, error) {
	var mapping map[string]string
	if err := json.Unmarshal(data, &mapping); err != nil {
		return nil, fmt.Errorf("invalid host mapping document: %w", err)
	}
	if mapping == nil {
		return nil, fmt.Errorf("invalid host mapping document: not a JSON object")
	}
	return HostMapping(mapping), nil
}
