package pagewalk

import (
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// Record is one structured item extracted from a page. The engine treats
// records as opaque; Kind and Fields are defined by the parser that produced
// them (e.g., a link parser emits "link" records with "href" and "text").
type Record struct {
	Kind   string            `json:"kind"`
	Fields map[string]string `json:"fields"`

	// Hash is a content hash over Kind and Fields, stable across runs.
	// It is used for cross-batch deduplication and storage keys.
	Hash string `json:"hash"`
}

// NewRecord creates a Record with its content hash computed.
func NewRecord(kind string, fields map[string]string) Record {
	return Record{
		Kind:   kind,
		Fields: fields,
		Hash:   hashRecord(kind, fields),
	}
}

// hashRecord computes an xxHash over the kind and the fields in key order,
// so the hash is independent of map iteration order.
func hashRecord(kind string, fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	d := xxhash.New()
	_, _ = d.WriteString(kind)
	for _, k := range keys {
		_, _ = d.WriteString("\x00" + k + "\x00" + fields[k])
	}
	return fmt.Sprintf("%016x", d.Sum64())
}
