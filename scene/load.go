// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package scene

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/racetrace/racetrace/geom"
)

// Description is the fully decoded scene description a YAML document
// loads into: camera parameters plus the entity list, following
// load/shd.go's pattern of an intermediate yaml-tagged struct that gets
// converted into the package's real typed values.
type Description struct {
	Camera    CameraSpec
	Sky       SkySpec
	Entities  []Entity
	Materials map[string]Material
}

// CameraSpec carries the eye/target/fov/up parameters a scene.yaml
// names for the camera collaborator to consume.
type CameraSpec struct {
	Eye, Target geom.Point
	Up          geom.Vector
	FOVDegrees  float64
}

// SkySpec carries the sky gradient endpoints a scene.yaml names.
type SkySpec struct {
	Horizon, Zenith geom.Vector
}

// yaml wire format. Unexported: callers only ever see Description.
type sceneConfig struct {
	Camera struct {
		Eye    [3]float64 `yaml:"eye"`
		Target [3]float64 `yaml:"target"`
		Up     [3]float64 `yaml:"up"`
		FOV    float64    `yaml:"fov_degrees"`
	} `yaml:"camera"`
	Sky struct {
		Horizon [3]float64 `yaml:"horizon"`
		Zenith  [3]float64 `yaml:"zenith"`
	} `yaml:"sky"`
	Materials map[string]materialConfig `yaml:"materials"`
	Entities  []entityConfig            `yaml:"entities"`
}

type materialConfig struct {
	Response    string     `yaml:"response"`
	Mirror      bool       `yaml:"mirror"`
	LightSource bool       `yaml:"light_source"`
	Roughness   float64    `yaml:"roughness"`
	Reflectance float64    `yaml:"reflectance"`
	Emission    [3]float64 `yaml:"emission"`
	Refractive  float64    `yaml:"refractive_index"`
}

type entityConfig struct {
	Kind     string     `yaml:"kind"` // "sphere" or "cube"
	Center   [3]float64 `yaml:"center"`
	Diameter float64    `yaml:"diameter"` // sphere
	Edge     float64    `yaml:"edge"`     // cube
	Material string     `yaml:"material"`
	Color    [3]float64 `yaml:"color"`
}

var responseKinds = map[string]ResponseType{
	"reflection":   ResponseReflection,
	"transmission": ResponseTransmission,
	"both":         ResponseBoth,
}

// Load decodes a YAML scene document into a Description, resolving
// material names into concrete scene.Material/scene.Substance values
// and entity kinds into concrete scene.Entity values.
func Load(data []byte) (*Description, error) {
	var cfg sceneConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("scene: load: yaml: %w", err)
	}

	materials := make(map[string]Material, len(cfg.Materials))
	substances := make(map[string]Substance, len(cfg.Materials))
	for name, mc := range cfg.Materials {
		response, ok := responseKinds[mc.Response]
		if !ok && mc.Response != "" {
			return nil, fmt.Errorf("scene: load: material %q: unsupported response %q", name, mc.Response)
		}
		materials[name] = &StaticMaterial{
			Response:    response,
			Mirror:      mc.Mirror,
			LightSource: mc.LightSource,
			Roughness:   mc.Roughness,
			Reflectance: mc.Reflectance,
			Emission:    vec3(mc.Emission),
		}
		index := mc.Refractive
		if index == 0 {
			index = 1
		}
		substances[name] = StaticSubstance{Index: index}
	}

	entities := make([]Entity, 0, len(cfg.Entities))
	for i, ec := range cfg.Entities {
		mat, sub, err := resolveMaterial(materials, substances, ec.Material)
		if err != nil {
			return nil, fmt.Errorf("scene: load: entity %d: %w", i, err)
		}
		tex := flatTexture{color: vec3(ec.Color)}
		switch ec.Kind {
		case "sphere":
			entities = append(entities, &Sphere{Center: vec3(ec.Center), Diameter: ec.Diameter, Mat: mat, Tex: tex, Sub: sub})
		case "cube":
			entities = append(entities, &Cube{Center: vec3(ec.Center), Edge: ec.Edge, Mat: mat, Tex: tex, Sub: sub})
		default:
			return nil, fmt.Errorf("scene: load: entity %d: unsupported kind %q", i, ec.Kind)
		}
	}

	desc := &Description{
		Camera: CameraSpec{
			Eye:        vec3(cfg.Camera.Eye),
			Target:     vec3(cfg.Camera.Target),
			Up:         vec3(cfg.Camera.Up),
			FOVDegrees: cfg.Camera.FOV,
		},
		Sky:       SkySpec{Horizon: vec3(cfg.Sky.Horizon), Zenith: vec3(cfg.Sky.Zenith)},
		Entities:  entities,
		Materials: materials,
	}
	return desc, nil
}

func resolveMaterial(materials map[string]Material, substances map[string]Substance, name string) (Material, Substance, error) {
	if name == "" {
		return &StaticMaterial{Reflectance: 1}, Vacuum, nil
	}
	mat, ok := materials[name]
	if !ok {
		return nil, nil, fmt.Errorf("unknown material %q", name)
	}
	return mat, substances[name], nil
}

func vec3(a [3]float64) geom.Vector { return geom.New3(a[0], a[1], a[2]) }

// flatTexture reports the same color everywhere - the reference
// texture implementation for YAML-loaded entities that only name a
// flat color.
type flatTexture struct{ color geom.Vector }

func (f flatTexture) GetColor(float64, float64) geom.Vector { return f.color }
