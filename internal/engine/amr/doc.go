// Package amr renders a curved surface as a set of triangular patches.
//
// Every patch is drawn with the same pre-built barycentric Pattern: the
// pattern vertices are weights, not positions, and the vertex shader blends
// each patch's three corners (v0..v2), normals (n0..n2), texture coordinates
// (t0..t2) and geodetic coordinates (c0..c2) with them. A Triangle carries
// those corners as uniforms, a Drawable groups triangles that share state
// such as a texture, and Geometry owns the pattern, the shader program and
// the current list of groups.
//
// Draw lists are immutable snapshots. The update side builds a new list and
// hands it over with SetDrawList; the render side only reads whatever
// snapshot is current when Draw starts.
package amr
