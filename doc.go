// Package yetty is the rendering and remote-streaming core of a
// GPU-accelerated terminal emulator.
//
// # Overview
//
// The core owns the building blocks an external terminal host wires
// together every frame: an MSDF glyph atlas (package msdf), a cell grid
// buffer (package grid), a GPU text renderer (package textrender), an
// overlay plugin scheduler (package overlay), and a remote framebuffer
// streaming pipeline plus input demux (packages wire and remote). The
// engine package composes all of the above into a single frame loop.
//
// # Architecture
//
//   - text/msdf: font loading, MSDF glyph rasterization, shelf-packed
//     atlas, on-disk persistence, GPU texture upload.
//   - grid: the fixed-size cell buffer and damage tracking consumed by
//     the text renderer.
//   - textrender: GPU pipeline that draws one textured quad per visible
//     cell plus the blinking cursor overlay.
//   - overlay: plugin registry and per-frame layer scheduling, plus the
//     custom-glyph subsystem. The only built-in plugin is the shader
//     (shadertoy) layer; there are no image, ydraw or ygui plugins.
//   - ydraw: the tagged-primitive draw-buffer interface consumed by
//     external collaborators (diagrams, HTML rendering, flamegraphs).
//   - wire: little-endian wire structures shared by the remote frame
//     pipeline and the input demux.
//   - remote: TCP server, capture state machine with a CPU tile-hash
//     diff (no GPU compute pass), JPEG tile encoding, and per-client
//     input dispatch.
//   - engine: the Engine value that owns the above for the duration of
//     one process and drives the non-blocking frame loop.
//
// # Logging
//
// The package produces no log output by default. Call SetLogger to
// attach a [log/slog.Logger]; sub-packages share the same logger
// through Logger().
package yetty
