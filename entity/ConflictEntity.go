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
	"time"

	"github.com/Maredius/geodraft/view"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type ConflictEntity struct {
	tableName struct{} `pg:"merge_conflict, alias:merge_conflict"`

	Id                 string     `pg:"id, pk, type:varchar"`
	MergeRequestId     string     `pg:"merge_request_id, type:varchar"`
	FeatureId          string     `pg:"feature_id, type:varchar"`
	ConflictType       string     `pg:"conflict_type, type:varchar"`
	SourceVersionId    string     `pg:"source_version_id, type:varchar"`
	TargetVersionId    string     `pg:"target_version_id, type:varchar"`
	Resolved           bool       `pg:"resolved, use_zero"`
	ResolutionStrategy string     `pg:"resolution_strategy, type:varchar"`
	ResolvedGeometry   string     `pg:"resolved_geometry, type:varchar"`
	ResolvedProperties string     `pg:"resolved_properties, type:jsonb"`
	ResolvedBy         string     `pg:"resolved_by, type:varchar"`
	ResolvedAt         *time.Time `pg:"resolved_at, type:timestamp without time zone"`
}

func MakeConflictEntity(mergeRequestId string, descriptor view.ConflictDescriptor) ConflictEntity {
	ent := ConflictEntity{
		Id:              uuid.New().String(),
		MergeRequestId:  mergeRequestId,
		FeatureId:       descriptor.FeatureId,
		ConflictType:    string(descriptor.ConflictType),
		SourceVersionId: descriptor.SourceVersion.Id,
	}
	if descriptor.TargetVersion != nil {
		ent.TargetVersionId = descriptor.TargetVersion.Id
	}
	return ent
}

func MakeConflictView(ent ConflictEntity) (*view.Conflict, error) {
	geometry, err := DecodeGeometry(ent.ResolvedGeometry)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode resolved geometry of conflict %s", ent.Id)
	}
	properties, err := DecodeProperties(ent.ResolvedProperties)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode resolved properties of conflict %s", ent.Id)
	}
	return &view.Conflict{
		Id:                 ent.Id,
		MergeRequestId:     ent.MergeRequestId,
		FeatureId:          ent.FeatureId,
		ConflictType:       view.ConflictType(ent.ConflictType),
		SourceVersionId:    ent.SourceVersionId,
		TargetVersionId:    ent.TargetVersionId,
		Resolved:           ent.Resolved,
		ResolutionStrategy: view.ResolutionStrategy(ent.ResolutionStrategy),
		ResolvedGeometry:   geometry,
		ResolvedProperties: properties,
		ResolvedBy:         ent.ResolvedBy,
		ResolvedAt:         ent.ResolvedAt,
	}, nil
}
