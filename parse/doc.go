// Package parse turns raw document text into ordered structural units.
//
// Two parsers cover the two document shapes: Transcript for time-coded,
// speaker-attributed conversation lines, and Sections for heading-delimited
// structured documents. Both are pure functions: same input, same output,
// no I/O. Transcript is strict and fails the whole parse on the first
// malformed line; recovery is the caller's job.
package parse
