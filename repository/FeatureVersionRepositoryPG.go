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
	"context"
	"fmt"
	"time"

	"github.com/Maredius/geodraft/db"
	"github.com/Maredius/geodraft/entity"
	"github.com/Maredius/geodraft/view"
	"github.com/go-pg/pg/v10"
	"github.com/google/uuid"
)

func NewFeatureVersionRepositoryPG(cp db.ConnectionProvider) FeatureVersionRepository {
	return &featureVersionRepositoryImpl{cp: cp}
}

type featureVersionRepositoryImpl struct {
	cp db.ConnectionProvider
}

func (f featureVersionRepositoryImpl) AppendVersion(ent *entity.FeatureVersionEntity) error {
	ctx := context.Background()
	return f.cp.GetConnection().RunInTransaction(ctx, func(tx *pg.Tx) error {
		return appendVersionTx(tx, ent)
	})
}

// appendVersionTx serializes concurrent appends for one (branch, feature)
// pair with an advisory lock held until the transaction ends, then assigns
// the next gapless version number.
func appendVersionTx(tx *pg.Tx, ent *entity.FeatureVersionEntity) error {
	_, err := tx.Exec(`select pg_advisory_xact_lock(hashtextextended(?, 0))`, ent.BranchId+"/"+ent.FeatureId)
	if err != nil {
		return err
	}
	var maxVersion int
	_, err = tx.QueryOne(pg.Scan(&maxVersion),
		`select coalesce(max(version), 0) from feature_version where branch_id = ? and feature_id = ?`,
		ent.BranchId, ent.FeatureId)
	if err != nil {
		return err
	}
	ent.Version = maxVersion + 1
	_, err = tx.Model(ent).Insert()
	return err
}

func (f featureVersionRepositoryImpl) GetVersion(id string) (*entity.FeatureVersionEntity, error) {
	result := new(entity.FeatureVersionEntity)
	err := f.cp.GetConnection().Model(result).
		Where("id = ?", id).
		First()
	if err != nil {
		if err == pg.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return result, nil
}

func (f featureVersionRepositoryImpl) GetLatestVersion(branchId string, featureId string) (*entity.FeatureVersionEntity, error) {
	result := new(entity.FeatureVersionEntity)
	err := f.cp.GetConnection().Model(result).
		Where("branch_id = ?", branchId).
		Where("feature_id = ?", featureId).
		Order("version DESC").
		Limit(1).
		Select()
	if err != nil {
		if err == pg.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return result, nil
}

func (f featureVersionRepositoryImpl) GetFeatureHistory(branchId string, featureId string) ([]entity.FeatureVersionEntity, error) {
	var result []entity.FeatureVersionEntity
	err := f.cp.GetConnection().Model(&result).
		Where("branch_id = ?", branchId).
		Where("feature_id = ?", featureId).
		Order("version ASC").
		Select()
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (f featureVersionRepositoryImpl) GetBranchHeads(branchId string) ([]entity.FeatureVersionEntity, error) {
	var result []entity.FeatureVersionEntity
	query := `
	select distinct on (feature_id) *
	from feature_version
	where branch_id = ?
	order by feature_id, version desc;
	`
	_, err := f.cp.GetConnection().Query(&result, query, branchId)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (f featureVersionRepositoryImpl) MergeBranchFeatures(source *entity.BranchEntity, target *entity.BranchEntity) (int, error) {
	mergedCount := 0
	ctx := context.Background()
	err := f.cp.GetConnection().RunInTransaction(ctx, func(tx *pg.Tx) error {
		var err error
		mergedCount, err = mergeBranchFeaturesTx(tx, source, target)
		return err
	})
	if err != nil {
		return 0, err
	}
	return mergedCount, nil
}

// mergeBranchFeaturesTx runs the full per-feature merge loop inside the
// caller's transaction. The whole target branch is locked so concurrent
// merges into it can not interleave.
func mergeBranchFeaturesTx(tx *pg.Tx, source *entity.BranchEntity, target *entity.BranchEntity) (int, error) {
	_, err := tx.Exec(`select pg_advisory_xact_lock(hashtextextended(?, 0))`, target.Id)
	if err != nil {
		return 0, err
	}

	sourceHeads, err := getBranchHeadsTx(tx, source.Id)
	if err != nil {
		return 0, err
	}
	targetHeads, err := getBranchHeadsTx(tx, target.Id)
	if err != nil {
		return 0, err
	}
	merged, err := PlanBranchMerge(source, target.Id, sourceHeads, targetHeads, time.Now())
	if err != nil {
		return 0, err
	}
	for i := range merged {
		if _, err := tx.Model(&merged[i]).Insert(); err != nil {
			return 0, err
		}
	}
	return len(merged), nil
}

// PlanBranchMerge computes the MERGE versions to append to the target branch
// for the given pair of head sets. Deleted source heads are skipped; a source
// head is propagated when the feature is new to the target or when the source
// is ahead by version number or content.
func PlanBranchMerge(source *entity.BranchEntity, targetBranchId string,
	sourceHeads []entity.FeatureVersionEntity, targetHeads []entity.FeatureVersionEntity,
	now time.Time) ([]entity.FeatureVersionEntity, error) {
	targetByFeature := make(map[string]entity.FeatureVersionEntity, len(targetHeads))
	for _, head := range targetHeads {
		targetByFeature[head.FeatureId] = head
	}
	merged := make([]entity.FeatureVersionEntity, 0)
	for _, sourceHead := range sourceHeads {
		// deleted source features are not propagated
		if sourceHead.Deleted {
			continue
		}
		nextVersion := 1
		if targetHead, exists := targetByFeature[sourceHead.FeatureId]; exists {
			changed, err := headsDiffer(sourceHead, targetHead)
			if err != nil {
				return nil, err
			}
			if sourceHead.Version <= targetHead.Version && !changed {
				continue
			}
			nextVersion = targetHead.Version + 1
		}
		merged = append(merged, entity.FeatureVersionEntity{
			Id:         uuid.New().String(),
			BranchId:   targetBranchId,
			FeatureId:  sourceHead.FeatureId,
			Version:    nextVersion,
			Geometry:   sourceHead.Geometry,
			Properties: sourceHead.Properties,
			Operation:  string(view.OperationMerge),
			CreatedBy:  sourceHead.CreatedBy,
			CreatedAt:  now,
			Comment:    fmt.Sprintf("Merged from branch %s", source.Name),
		})
	}
	return merged, nil
}

func getBranchHeadsTx(tx *pg.Tx, branchId string) ([]entity.FeatureVersionEntity, error) {
	var result []entity.FeatureVersionEntity
	query := `
	select distinct on (feature_id) *
	from feature_version
	where branch_id = ?
	order by feature_id, version desc;
	`
	_, err := tx.Query(&result, query, branchId)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func headsDiffer(a entity.FeatureVersionEntity, b entity.FeatureVersionEntity) (bool, error) {
	aView, err := entity.MakeFeatureVersionView(a)
	if err != nil {
		return false, err
	}
	bView, err := entity.MakeFeatureVersionView(b)
	if err != nil {
		return false, err
	}
	return !aView.ContentEquals(*bView), nil
}
