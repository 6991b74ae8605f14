// Package transcode converts arbitrary uploaded audio into the canonical
// storage format: WAV, 16-bit linear PCM, 16 kHz, mono. Conversion shells
// out to ffmpeg over pipes; a bounded semaphore keeps concurrent transcoder
// processes from starving request handling.
package transcode
