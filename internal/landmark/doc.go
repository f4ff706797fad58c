// Package landmark adapts an external hand-landmark detection engine to the
// domain.Detector contract, and provides camera frame sources.
//
// The detection engine is a black box: given an encoded video frame it
// returns zero or one ordered set of 21 hand keypoints in normalized image
// coordinates. This package never interprets the keypoints beyond checking
// the count; stability classification belongs to the capture engine.
//
// Two concrete pieces live here:
//   - Client, an HTTP adapter for a detection service.
//   - Webcam, a gocv-backed domain.FrameSource over a local video device.
package landmark
