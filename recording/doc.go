// Package recording provides the scene representation used by the page
// cache: a Recorder captures device calls made by an engine while it walks
// a page, and the resulting Recording can be replayed any number of times
// into another device under a new transformation.
//
// # Architecture
//
//   - Recorder: an engine.Device that stores commands instead of painting
//   - Recording: the immutable command list produced by Recorder.Finish
//   - Run: replays the commands into a device, culling those that fall
//     outside the target area
//
// Recording at identity and replaying with the device matrix means a page
// is walked by the engine once, however many times it is drawn at
// different zoom levels.
//
// # Example
//
//	rec := recording.NewRecorder()
//	if err := page.RunContents(rec, geom.Identity()); err != nil {
//	    return err
//	}
//	scene := rec.Finish()
//	scene.Run(drawDevice, geom.Scale(2, 2), clip)
package recording
