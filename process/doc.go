// Package process runs external programs with captured output and graceful
// termination.
//
// A canceled context sends SIGTERM to the whole process group and escalates
// to SIGKILL after the command's grace period, so tools that spawn helpers
// (ffmpeg under whisper, for example) do not outlive the request.
package process
