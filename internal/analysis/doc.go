// Package analysis characterises recorded chain motion.
//
//   - [PowerSpectrum] and [DominantFrequency]: sway frequency of a sampled
//     coordinate, typically the leaf's horizontal position
//   - [LyapunovExponent]: divergence rate of two runs whose root tilt
//     differs by a small perturbation
//
// A positive exponent means the chain's motion is sensitive to its initial
// pose, which is expected for chains of three or more nodes with little
// friction:
//
//	lambda, err := analysis.LyapunovExponent(cfg, 1e-3)
package analysis
