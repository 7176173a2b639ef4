// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package geom

// Refract computes the Snell's-law refraction of dir through a surface
// with outward normal n, where the ray travels from a medium of
// refractive index nFrom into one of index nTo. dir is assumed to
// point into the surface (dir.n < 0). Returns ok=false on total
// internal reflection (sin²θt > 1), in which case the caller should
// reflect instead.
func Refract(dir, n Vector, nFrom, nTo float64) (Vector, bool) {
	r := nFrom / nTo
	cosI := -Dot(dir, n)
	sin2T := r * r * (1 - cosI*cosI)
	if sin2T > 1 {
		return Vector{}, false
	}
	cosT := sqrt(1 - sin2T)
	refracted := Add(Scale(dir, r), Scale(n, r*cosI-cosT))
	return Normalize(refracted), true
}
