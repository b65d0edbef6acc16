package aim

import (
	"bytes"
	"fmt"
	"image"

	_ "image/jpeg"
	_ "image/png"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"
	"k8s.io/klog/v2"
)

var submitQuality = 85

// downscale re-encodes the image so its longest side is at most maxDim
// pixels, shrinking the model upload. Images already within bounds are
// returned unchanged.
func downscale(bs []byte, maxDim int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(bs))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	b := img.Bounds()
	x := b.Dx()
	y := b.Dy()
	if x == 0 || y == 0 {
		return nil, fmt.Errorf("empty image bounds %+v", b)
	}

	if x <= maxDim && y <= maxDim {
		return bs, nil
	}

	if x >= y {
		scale := float64(x) / float64(maxDim)
		x = maxDim
		y = int(float64(b.Dy()) / scale)
	} else {
		scale := float64(y) / float64(maxDim)
		y = maxDim
		x = int(float64(b.Dx()) / scale)
	}

	// extreme aspect ratios can truncate the short side to zero, and
	// transform.Resize happily returns an empty image for it
	x = max(x, 1)
	y = max(y, 1)

	rimg := transform.Resize(img, x, y, transform.Lanczos)

	var buf bytes.Buffer
	if err := imgio.JPEGEncoder(submitQuality)(&buf, rimg); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}

	klog.V(1).Infof("downscaled %dx%d -> %dx%d (%d -> %d bytes)", b.Dx(), b.Dy(), x, y, len(bs), buf.Len())
	return buf.Bytes(), nil
}
