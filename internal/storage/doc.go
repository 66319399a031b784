// Package storage provides durable persistence for aggregation snapshots.
//
// Each run's output is written twice: a structured JSON record (count, ordered
// events, capture timestamp) and a flat six-column CSV for spreadsheet
// consumers. Writes go through temp-file-and-rename so concurrent readers
// never observe a torn snapshot, and loading tolerates missing or corrupt
// files by returning an empty snapshot.
package storage
