// Package shaders provides the embedded GLSL sources of the AMR surface.
package shaders

import _ "embed"

// VertexShader places the pattern on a patch by blending the patch corners
// with the per-vertex barycentric weights.
//
//go:embed amr.vert
var VertexShader string

// FragmentShader shades the surface from the blended texture coordinate
// and normal.
//
//go:embed amr.frag
var FragmentShader string
