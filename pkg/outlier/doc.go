// Package outlier removes over-bright pixels from linear radiance images.
//
// The image is first cut down to a circle around its center, then the
// "valid" pixels inside it (alpha exactly 1, not black) are used to pick a
// threshold. Two thresholds are supported: mean plus one standard
// deviation of the valid samples, and Otsu's method run over an 8-bit
// grayscale projection of a median-blurred copy. Either way, any pixel
// with a channel above the threshold has its RGB zeroed, across the whole
// image; alpha is left alone.
package outlier
