package landmark

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"gocv.io/x/gocv"

	"palmpay/internal/domain"
)

// ErrSourceClosed is returned by Next after the webcam has been released.
var ErrSourceClosed = errors.New("frame source closed")

// Webcam is a domain.FrameSource over a local video device. It owns the
// device handle exclusively; Close releases it exactly once regardless of
// how many times it is called.
type Webcam struct {
	cap    *gocv.VideoCapture
	mat    gocv.Mat
	width  int
	height int

	closeOnce sync.Once
	closed    bool
	mu        sync.Mutex
}

// OpenWebcam opens video device deviceID at the given stream resolution.
func OpenWebcam(deviceID, width, height int) (*Webcam, error) {
	cap, err := gocv.OpenVideoCapture(deviceID)
	if err != nil {
		return nil, fmt.Errorf("open video device %d: %w", deviceID, err)
	}
	cap.Set(gocv.VideoCaptureFrameWidth, float64(width))
	cap.Set(gocv.VideoCaptureFrameHeight, float64(height))
	return &Webcam{
		cap:    cap,
		mat:    gocv.NewMat(),
		width:  width,
		height: height,
	}, nil
}

// Next reads and JPEG-encodes the next frame from the device.
func (w *Webcam) Next(ctx context.Context) (domain.Frame, error) {
	if err := ctx.Err(); err != nil {
		return domain.Frame{}, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return domain.Frame{}, ErrSourceClosed
	}

	if ok := w.cap.Read(&w.mat); !ok || w.mat.Empty() {
		return domain.Frame{}, fmt.Errorf("read frame from video device: no data")
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, w.mat)
	if err != nil {
		return domain.Frame{}, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	data := make([]byte, len(buf.GetBytes()))
	copy(data, buf.GetBytes())
	return domain.Frame{
		Data:   data,
		MIME:   "image/jpeg",
		Width:  w.mat.Cols(),
		Height: w.mat.Rows(),
	}, nil
}

// Close releases the device and scratch buffers. Safe to call more than
// once; only the first call does anything.
func (w *Webcam) Close() error {
	var err error
	w.closeOnce.Do(func() {
		w.mu.Lock()
		w.closed = true
		w.mu.Unlock()
		err = w.cap.Close()
		if cerr := w.mat.Close(); err == nil {
			err = cerr
		}
	})
	return err
}

// Compile-time assertion that Webcam implements domain.FrameSource.
var _ domain.FrameSource = (*Webcam)(nil)
