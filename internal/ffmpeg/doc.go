// Package ffmpeg locates and probes the external FFmpeg toolchain for
// the vclaunch CLI.
//
// FFmpeg is treated strictly as an opaque dependency: this package finds
// the binaries (PATH first, then a fixed per-OS list of conventional
// install directories), reads their version banners, and asks ffprobe
// about stream codecs. It never reimplements any media processing.
//
// The package also contains the release installer: download a prebuilt
// archive over HTTP with a progress bar and unpack the bin/ tools into
// an install directory. Whether the install directory ends up on the
// user's permanent PATH is internal/pathenv's concern.
package ffmpeg
