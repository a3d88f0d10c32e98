// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package gpupresent implements a surface.Compositor that presents
// imageview bitmaps through gogpu GPU-accelerated windows.
//
// The presenter manages the CPU-to-GPU pipeline automatically. The
// data flow is:
//
//	View frame -> Bitmap (CPU staging) -> GPU texture -> Window
//
// # Usage
//
// Basic usage with gogpu:
//
//	presenter, err := gpupresent.New(app.GPUContextProvider())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer presenter.Close()
//
//	view, err := imageview.New(presenter,
//	    imageview.WithFormat(presenter.PreferredFormat()))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer view.Close()
//
//	app.OnDraw(func(dc *gogpu.Context) {
//	    presenter.SetTarget(dc.AsTextureDrawer())
//	    view.Present(view.DestRect(windowBounds))
//	})
//
// # Draw Path Limits
//
// DrawTexture places textures at native size. The presenter honors the
// destination rectangle's position but not its scale, and blends with
// source-over only; Capabilities reports both limits so views can
// arrange accordingly.
//
// # Thread Safety
//
// Presenter is NOT safe for concurrent use. Drive it from the
// goroutine that owns the host's draw cycle.
//
// # Integration Without Circular Imports
//
// This package depends only on gpucontext interfaces, never on gogpu
// directly, so windowing back-ends can be swapped without touching the
// presentation pipeline.
package gpupresent
