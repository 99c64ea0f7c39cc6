// Package schema owns the channel schemas: the ordered field descriptors a
// notification form collects for each channel. The key lists and their order
// are the contract the payment backend depends on, so overlays loaded from
// JSON/YAML documents may only change labels and placeholders.
package schema
