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

package repository

import (
	"github.com/Maredius/geodraft/entity"
)

// FeatureVersionRepository is the append-only version ledger. Existing rows
// are never updated or removed.
type FeatureVersionRepository interface {
	// AppendVersion assigns the next version number for the entity's
	// (branch, feature) pair and stores the row. Concurrent appends for the
	// same pair are serialized.
	AppendVersion(ent *entity.FeatureVersionEntity) error
	GetVersion(id string) (*entity.FeatureVersionEntity, error)
	GetLatestVersion(branchId string, featureId string) (*entity.FeatureVersionEntity, error)
	GetFeatureHistory(branchId string, featureId string) ([]entity.FeatureVersionEntity, error)
	// GetBranchHeads returns the highest-numbered version of every feature in
	// the branch. A head with deleted=true means the feature is currently
	// absent from the branch's working state.
	GetBranchHeads(branchId string) ([]entity.FeatureVersionEntity, error)
	// MergeBranchFeatures applies the source branch's heads onto the target
	// branch in a single transaction and returns the number of appended MERGE
	// versions.
	MergeBranchFeatures(source *entity.BranchEntity, target *entity.BranchEntity) (int, error)
}
