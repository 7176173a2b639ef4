// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package scene

import "github.com/racetrace/racetrace/geom"

// StaticMaterial is a Material with a constant response regardless of
// hit point - the reference implementation; a future scattering model
// can plug in its own Material instead.
type StaticMaterial struct {
	Response    ResponseType
	Mirror      bool
	LightSource bool
	Roughness   float64
	// Reflectance multiplies a hit's texture sample into the ray
	// color; a light source instead uses Emission.
	Reflectance float64
	Emission    geom.Vector
}

func (m *StaticMaterial) ResponseType(geom.Point) ResponseType { return m.Response }
func (m *StaticMaterial) IsMirror(geom.Point) bool             { return m.Mirror }
func (m *StaticMaterial) IsLightSource() bool                  { return m.LightSource }
func (m *StaticMaterial) RoughnessIndex() float64              { return m.Roughness }

// AlterRay multiplies color by the texture sample at (u,v), scaled by
// Reflectance - or, for a light source, replaces color with Emission.
func (m *StaticMaterial) AlterRay(color *geom.Vector, tex Texture, u, v float64) bool {
	if m.LightSource {
		*color = m.Emission
		return true
	}
	if tex == nil {
		return false
	}
	sample := tex.GetColor(u, v)
	*color = geom.Hadamard(*color, geom.Scale(sample, m.Reflectance))
	return true
}

// StaticSubstance is a Substance with a fixed refractive index.
type StaticSubstance struct {
	Index float64
}

func (s StaticSubstance) RefractiveIndex() float64 { return s.Index }

// Vacuum is the default substance rays start in: refractive index 1.
var Vacuum = StaticSubstance{Index: 1}
