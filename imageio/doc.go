// Package imageio loads fingerprint images from disk as 8-bit grayscale,
// caches decoded images, lists image files in directories and writes
// extracted patches.
package imageio
