// Package dataset defines the in-memory model shared by every format
// reader and by the hashing engine.
//
// A loaded hierarchical dataset is a tree of [Group] nodes. Each group owns
// its attribute map and its child groups and variables; each [Variable] owns
// its attribute map, its declared axis order, and an [Array] of raw element
// bytes. Rasters are a single [Raster] with an ordered tag list and a pixel
// array.
//
// Readers normalize all numeric payloads to little-endian, row-major byte
// order before handing them to this model, so digests never depend on the
// byte order of the source file or of the host.
package dataset
