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

package entity

import (
	"encoding/json"
	"time"

	"github.com/Maredius/geodraft/view"
	"github.com/iancoleman/orderedmap"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/pkg/errors"
)

// Rows are unique on (branch_id, feature_id, version) and immutable once
// written. Geometry is persisted as WKT in EPSG:4326, properties as jsonb
// preserving key order.
type FeatureVersionEntity struct {
	tableName struct{} `pg:"feature_version, alias:feature_version"`

	Id         string    `pg:"id, pk, type:varchar"`
	BranchId   string    `pg:"branch_id, type:varchar"`
	FeatureId  string    `pg:"feature_id, type:varchar"`
	Version    int       `pg:"version, use_zero"`
	Geometry   string    `pg:"geometry, type:varchar"`
	Properties string    `pg:"properties, type:jsonb"`
	Operation  string    `pg:"operation, type:varchar"`
	Deleted    bool      `pg:"deleted, use_zero"`
	CreatedBy  string    `pg:"created_by, type:varchar"`
	CreatedAt  time.Time `pg:"created_at, type:timestamp without time zone"`
	Comment    string    `pg:"comment, type:varchar"`
}

func MakeFeatureVersionView(ent FeatureVersionEntity) (*view.FeatureVersion, error) {
	geometry, err := DecodeGeometry(ent.Geometry)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode geometry of feature version %s", ent.Id)
	}
	properties, err := DecodeProperties(ent.Properties)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode properties of feature version %s", ent.Id)
	}
	return &view.FeatureVersion{
		Id:         ent.Id,
		BranchId:   ent.BranchId,
		FeatureId:  ent.FeatureId,
		Version:    ent.Version,
		Geometry:   geometry,
		Properties: properties,
		Operation:  view.FeatureOperation(ent.Operation),
		Deleted:    ent.Deleted,
		CreatedBy:  ent.CreatedBy,
		CreatedAt:  ent.CreatedAt,
		Comment:    ent.Comment,
	}, nil
}

func MakeFeatureVersionViews(ents []FeatureVersionEntity) ([]view.FeatureVersion, error) {
	result := make([]view.FeatureVersion, 0, len(ents))
	for _, ent := range ents {
		v, err := MakeFeatureVersionView(ent)
		if err != nil {
			return nil, err
		}
		result = append(result, *v)
	}
	return result, nil
}

func EncodeGeometry(geometry orb.Geometry) string {
	if geometry == nil {
		return ""
	}
	return wkt.MarshalString(geometry)
}

func DecodeGeometry(value string) (orb.Geometry, error) {
	if value == "" {
		return nil, nil
	}
	return wkt.Unmarshal(value)
}

func EncodeProperties(properties *orderedmap.OrderedMap) (string, error) {
	if properties == nil {
		return "", nil
	}
	data, err := json.Marshal(properties)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func DecodeProperties(value string) (*orderedmap.OrderedMap, error) {
	if value == "" {
		return nil, nil
	}
	properties := orderedmap.New()
	if err := json.Unmarshal([]byte(value), properties); err != nil {
		return nil, err
	}
	return properties, nil
}
