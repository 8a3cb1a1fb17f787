// Package services defines shared utilities consumed by the collector,
// analyzer, and their external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, channel IDs, and video IDs for
//     logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     (configuration, quota, transient) into consistent exit codes.
package services
