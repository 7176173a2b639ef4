// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package geom

import "math"

var (
	posInf = math.Inf(1)
	negInf = math.Inf(-1)
)

func sqrt(x float64) float64 { return math.Sqrt(x) }
