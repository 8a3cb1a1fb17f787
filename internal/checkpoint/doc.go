// Package checkpoint persists collection progress so an interrupted run can
// resume at the next unfetched page.
//
// The output directory holds one <channel_id>.json file per channel with the
// transcripts collected so far, progress.json with the single in-flight
// checkpoint (channel, page cursor, records), and completed.json listing the
// channels whose collection finished. Every file is replaced atomically via a
// temp file and rename. Lock guards the directory against a second concurrent
// collection.
package checkpoint
