// Package encoding assembles rendered frames into the final video by running
// ffmpeg once per run.
//
// BuildArgs produces the full argument list: the frame pattern is read as an
// image sequence at the requested rate, an fps filter rounds partial frames
// up, the codec comes from the explicit setting or a small extension table,
// and artist/title/comment are written as global metadata. The overwrite flag
// maps to -y, otherwise -n makes ffmpeg refuse an existing destination.
//
// Encoder runs the command, mirrors ffmpeg's stderr to the terminal in verbose
// mode, and reports failures as external tool errors.
package encoding
