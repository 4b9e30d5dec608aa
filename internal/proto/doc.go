// Package proto defines the wire contract of the dailyjournal.JournalService
// gRPC service: request and response messages, the service descriptor, the
// client stub, and a JSON codec registered under the "json" content subtype.
//
// Messages are plain Go structs, so the service needs no generated code.
package proto
