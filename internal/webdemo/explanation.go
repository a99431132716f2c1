// Package webdemo drives the interactive frequency-filter explorer shared
// by the CLI, the HTTP server and the WebAssembly build.
package webdemo

// Explanation is the concept text shown next to the panels.
const Explanation = `Fourier transform filtering

An image can be written as a sum of 2D waves. The Fourier transform finds
the strength of every wave; after centering, slow waves (smooth regions)
sit near the middle of the spectrum and fast waves (edges, texture, noise)
sit towards the border.

Low-pass filter: keep only the frequencies inside a circle around the
center. The result is a smoothed, blurred image that keeps the overall
shapes and brightness.

High-pass filter: keep only the frequencies outside that circle. The
result keeps edges and fine detail and drops the smooth background.

Radius: the size of the circle in frequency cells. A small radius passes
very little to the low-pass image and almost everything to the high-pass
image; a large radius does the opposite. The two masks are exact
complements, so before clipping to the display range the two filtered
images add back up to the original.`
