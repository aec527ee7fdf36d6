// Package color holds the color-space math behind visual mapping
// interpolation.
//
// Visual mapping tables interpolate between color stops. The default is a
// component-wise lerp of sRGB-encoded values, which is what chart authors
// expect from a palette like ["#313695", "#a50026"]. Linear-space
// interpolation decodes the stops first and produces perceptually even
// blends, at the cost of two transfer-function evaluations per channel.
//
// Alpha is always linear and is never gamma-encoded.
package color
