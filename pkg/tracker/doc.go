// Package tracker turns download notifications into terminal progress rows.
//
// Two trackers are provided:
//
//   - Multi tracks several named component downloads. A notification is
//     matched to a component by looking for the component name inside the
//     notification's file path or URL. Finished rows stay on screen as a
//     "downloaded X in Y" summary.
//   - Single tracks one download at a time. Its row stays hidden until the
//     download has been running for DebounceWindow, so short or cached
//     transfers never draw, and it is cleared from the screen on finish.
//
// Both trackers compute a list of Commands for every notification and then
// apply them to a display.Sink. Step exposes the first half so that the
// state machine can be driven without a sink.
//
// Trackers are not safe for concurrent use. Multi in particular is not
// suitable for tracking concurrent downloads of components whose names are
// substrings of each other's file names: there is no way to tell their
// notifications apart, and which row receives them is undefined. Wrap a
// tracker in a Queue when notifications arrive from several goroutines.
package tracker
