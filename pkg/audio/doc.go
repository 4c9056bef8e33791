// Package audio is an umbrella for the stem player's audio sub-packages:
//
//   - pcm: atomic float32 storage for realtime-safe gain/level values
//   - decode: WAV/MP3/FLAC decoding to interleaved float32 PCM
//   - resample: linear-interpolation sample-rate conversion
//   - portaudio: CGO PortAudio bindings for device enumeration and output
//   - engine: the realtime stem mixer
//   - loader: parallel per-stem decode and resample for one song
//   - device: output device that pulls mixed audio from the engine
//
// For generic concurrent buffers, use the separate
// github.com/gigstage/stemengine/pkg/buffer package.
package audio
