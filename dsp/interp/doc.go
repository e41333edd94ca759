// Package interp provides interpolation primitives for fractional sample
// reads and grain length morphing.
//
//   - [Linear2]:  2-point linear interpolation
//   - [Hermite4]: 4-point cubic Hermite
//   - [Resample]: stretch a whole slice to a new length
package interp
