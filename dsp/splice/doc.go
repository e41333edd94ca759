// Package splice joins two voiced buffers with a phase-aligned,
// grain-level crossfade.
//
// A splice picks a cut pitch mark near the end of the first buffer's
// voiced region and a start mark near the beginning of the second's,
// nudges the start by up to one period to match waveform phase, then
// blends the grains of both buffers over the fade with a smoothstep
// weight and overlap-adds the result.
package splice
