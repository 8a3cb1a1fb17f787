// Package transcript retrieves caption text for a video. It reads the player
// response embedded in the watch page, picks a caption track in the target
// language (manual tracks before auto-generated ones) and downloads the
// timed-text document, returning its fragments in order.
//
// Three sentinel errors let callers decide between skipping and retrying:
// ErrTranscriptsDisabled, ErrNoTranscript and ErrTransientParse.
package transcript
