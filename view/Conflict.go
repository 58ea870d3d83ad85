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
	"time"

	"github.com/iancoleman/orderedmap"
	"github.com/paulmach/orb"
)

type ConflictType string

const (
	ConflictTypeGeometry   ConflictType = "GEOMETRY"
	ConflictTypeProperties ConflictType = "PROPERTIES"
	ConflictTypeBoth       ConflictType = "BOTH"
	ConflictTypeDelete     ConflictType = "DELETE"
)

type ResolutionStrategy string

const (
	ResolutionStrategySource ResolutionStrategy = "SOURCE"
	ResolutionStrategyTarget ResolutionStrategy = "TARGET"
	ResolutionStrategyManual ResolutionStrategy = "MANUAL"
)

// ConflictDescriptor is the detector's output: a divergence between the two
// branches' head versions of one feature. TargetVersion is nil only for
// one-sided deletions with no matching target state.
type ConflictDescriptor struct {
	FeatureId     string          `json:"featureId"`
	ConflictType  ConflictType    `json:"conflictType"`
	SourceVersion FeatureVersion  `json:"sourceVersion"`
	TargetVersion *FeatureVersion `json:"targetVersion,omitempty"`
}

type Conflict struct {
	Id                 string                 `json:"id"`
	MergeRequestId     string                 `json:"mergeRequestId"`
	FeatureId          string                 `json:"featureId"`
	ConflictType       ConflictType           `json:"conflictType"`
	SourceVersionId    string                 `json:"sourceVersionId"`
	TargetVersionId    string                 `json:"targetVersionId,omitempty"`
	Resolved           bool                   `json:"resolved"`
	ResolutionStrategy ResolutionStrategy     `json:"resolutionStrategy,omitempty"`
	ResolvedGeometry   orb.Geometry           `json:"-"`
	ResolvedProperties *orderedmap.OrderedMap `json:"resolvedProperties,omitempty"`
	ResolvedBy         string                 `json:"resolvedBy,omitempty"`
	ResolvedAt         *time.Time             `json:"resolvedAt,omitempty"`
}

type Conflicts struct {
	Conflicts []Conflict `json:"conflicts"`
}

type ResolveConflictReq struct {
	Strategy   ResolutionStrategy     `json:"strategy" validate:"required"`
	Geometry   orb.Geometry           `json:"-"`
	Properties *orderedmap.OrderedMap `json:"properties"`
}
