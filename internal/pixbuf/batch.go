package pixbuf

import (
	"image"
	"runtime"
	"sync"
)

// FromImages converts a batch of images to format, one Buffer per
// image. Conversions run on a bounded set of worker goroutines; frame
// order is preserved.
//
// On any conversion failure the buffers already produced are released
// and the first error by frame index is returned.
func FromImages(imgs []image.Image, format Format) ([]*Buffer, error) {
	n := len(imgs)
	if n == 0 {
		return nil, nil
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}

	bufs := make([]*Buffer, n)
	errs := make([]error, n)
	if workers == 1 {
		for i, img := range imgs {
			bufs[i], errs[i] = FromImage(img, format)
		}
	} else {
		// Striped assignment: worker w converts frames w, w+workers, ...
		// Frames of one source are near-uniform in size, so striping
		// balances load without a shared queue.
		var wg sync.WaitGroup
		wg.Add(workers)
		for w := range workers {
			go func() {
				defer wg.Done()
				for i := w; i < n; i += workers {
					bufs[i], errs[i] = FromImage(imgs[i], format)
				}
			}()
		}
		wg.Wait()
	}

	for _, err := range errs {
		if err != nil {
			for _, b := range bufs {
				if b != nil {
					b.Release()
				}
			}
			return nil, err
		}
	}
	return bufs, nil
}
