// Copyright 2024-2025 NetCracker Technology Corporation
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package view

import (
	"encoding/json"
	"time"

	"github.com/iancoleman/orderedmap"
	"github.com/paulmach/orb"
)

// All geometries are stored in WGS84 (EPSG:4326).
const GeometrySRID = 4326

type FeatureOperation string

const (
	OperationCreate FeatureOperation = "CREATE"
	OperationUpdate FeatureOperation = "UPDATE"
	OperationDelete FeatureOperation = "DELETE"
	OperationMerge  FeatureOperation = "MERGE"
)

// FeatureVersion is one immutable snapshot of a feature within a branch.
// Edits never modify a version, they append the next one.
type FeatureVersion struct {
	Id         string                 `json:"id"`
	BranchId   string                 `json:"branchId"`
	FeatureId  string                 `json:"featureId"`
	Version    int                    `json:"version"`
	Geometry   orb.Geometry           `json:"-"`
	Properties *orderedmap.OrderedMap `json:"properties"`
	Operation  FeatureOperation       `json:"operation"`
	Deleted    bool                   `json:"deleted"`
	CreatedBy  string                 `json:"createdBy"`
	CreatedAt  time.Time              `json:"createdAt"`
	Comment    string                 `json:"comment,omitempty"`
}

// ContentEquals compares geometry and properties of two versions, ignoring
// version numbers and metadata.
func (f FeatureVersion) ContentEquals(other FeatureVersion) bool {
	return orb.Equal(f.Geometry, other.Geometry) && PropertiesEqual(f.Properties, other.Properties)
}

// PropertiesEqual compares two property documents by their serialized form,
// key order included. Properties are opaque to the core.
func PropertiesEqual(a *orderedmap.OrderedMap, b *orderedmap.OrderedMap) bool {
	aBytes, err := json.Marshal(a)
	if err != nil {
		return false
	}
	bBytes, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return string(aBytes) == string(bBytes)
}

type FeatureVersions struct {
	Versions []FeatureVersion `json:"versions"`
}

type CreateFeatureReq struct {
	BranchId   string                 `json:"branchId" validate:"required"`
	Geometry   orb.Geometry           `json:"-" validate:"required"`
	Properties *orderedmap.OrderedMap `json:"properties" validate:"required"`
	Comment    string                 `json:"comment"`
}

type UpdateFeatureReq struct {
	BranchId   string                 `json:"branchId" validate:"required"`
	FeatureId  string                 `json:"featureId" validate:"required"`
	Geometry   orb.Geometry           `json:"-" validate:"required"`
	Properties *orderedmap.OrderedMap `json:"properties" validate:"required"`
	Comment    string                 `json:"comment"`
}
