// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package surface defines the compositor boundary an image view talks
// to: bitmap allocation described by pixel size, DPI scale and channel
// layout; scoped lock-for-CPU-write access to bitmap memory; and a
// sub-rect to sub-rect composite operation with a blend mode.
//
// The package also ships ImageSurface, a CPU reference implementation
// backed by an *image.RGBA, which tests and software presentation
// paths use directly. Windowing or GPU back-ends implement Compositor
// against their own bitmap objects; see the gpupresent integration
// package for a gpucontext-based implementation.
package surface
