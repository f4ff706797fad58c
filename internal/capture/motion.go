package capture

import (
	"math"

	"palmpay/internal/domain"
)

// maxMotion is the motion value assigned when no previous frame exists.
// It is far above any plausible threshold, so a first observation is always
// classified unstable.
const maxMotion = 1.0

// Motion is the mean Euclidean distance between corresponding joints of two
// consecutive landmark frames, in normalized coordinate units. Depth is
// ignored: the detector's Z is model-relative and much noisier than X/Y.
func Motion(prev, cur domain.LandmarkFrame) float64 {
	var total float64
	for i := 0; i < domain.LandmarkCount; i++ {
		dx := cur[i].X - prev[i].X
		dy := cur[i].Y - prev[i].Y
		total += math.Sqrt(dx*dx + dy*dy)
	}
	return total / domain.LandmarkCount
}
