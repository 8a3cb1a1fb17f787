package checkpoint

import "time"

// Record is one collected video.
type Record struct {
	Title      string `json:"title"`
	Category   string `json:"category"`
	Transcript string `json:"transcript"`
}

// ChannelOutput is the persisted transcript set of a channel.
type ChannelOutput struct {
	ID          string   `json:"id"`
	Transcripts []Record `json:"transcripts"`
}

// Checkpoint is the state of the channel currently being collected. Cursor is
// the page token of the next unfetched page; empty means the first page.
type Checkpoint struct {
	ChannelID string    `json:"channel_id"`
	Cursor    string    `json:"cursor"`
	Records   []Record  `json:"records"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Resume is what Load hands back for an interrupted channel.
type Resume struct {
	Checkpoint Checkpoint
	Output     ChannelOutput
	// OutputMissing is set when the channel file was gone; the records then
	// come from the checkpoint alone.
	OutputMissing bool
}

type completedLedger struct {
	Channels []string `json:"channels"`
}
