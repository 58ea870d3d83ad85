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
	"net/http"
	"time"

	"github.com/Maredius/geodraft/db"
	"github.com/Maredius/geodraft/entity"
	"github.com/Maredius/geodraft/exception"
	"github.com/Maredius/geodraft/view"
	"github.com/go-pg/pg/v10"
)

func NewMergeRequestRepositoryPG(cp db.ConnectionProvider) MergeRequestRepository {
	return &mergeRequestRepositoryImpl{cp: cp}
}

type mergeRequestRepositoryImpl struct {
	cp db.ConnectionProvider
}

func (m mergeRequestRepositoryImpl) CreateMergeRequest(ent *entity.MergeRequestEntity, conflicts []entity.ConflictEntity) error {
	ctx := context.Background()
	return m.cp.GetConnection().RunInTransaction(ctx, func(tx *pg.Tx) error {
		if _, err := tx.Model(ent).Insert(); err != nil {
			return err
		}
		if len(conflicts) > 0 {
			if _, err := tx.Model(&conflicts).Insert(); err != nil {
				return err
			}
		}
		return nil
	})
}

func (m mergeRequestRepositoryImpl) GetMergeRequest(id string) (*entity.MergeRequestEntity, error) {
	result := new(entity.MergeRequestEntity)
	err := m.cp.GetConnection().Model(result).
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

func (m mergeRequestRepositoryImpl) GetMergeRequests(filter view.MergeRequestsFilterReq) ([]entity.MergeRequestEntity, error) {
	var result []entity.MergeRequestEntity
	query := m.cp.GetConnection().Model(&result)
	if filter.Status != "" {
		query.Where("merge_request.status = ?", string(filter.Status))
	}
	if filter.LayerId != "" {
		query.Join("JOIN branch AS source_branch ON source_branch.id = merge_request.source_branch_id").
			Where("source_branch.layer_id = ?", filter.LayerId)
	}
	err := query.Order("merge_request.created_at DESC").Select()
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (m mergeRequestRepositoryImpl) UpdateMergeRequest(ent *entity.MergeRequestEntity) error {
	_, err := m.cp.GetConnection().Model(ent).
		Where("id = ?", ent.Id).
		Update()
	return err
}

func (m mergeRequestRepositoryImpl) GetConflicts(mergeRequestId string) ([]entity.ConflictEntity, error) {
	var result []entity.ConflictEntity
	err := m.cp.GetConnection().Model(&result).
		Where("merge_request_id = ?", mergeRequestId).
		Order("feature_id ASC").
		Select()
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (m mergeRequestRepositoryImpl) GetConflict(id string) (*entity.ConflictEntity, error) {
	result := new(entity.ConflictEntity)
	err := m.cp.GetConnection().Model(result).
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

func (m mergeRequestRepositoryImpl) CountUnresolvedConflicts(mergeRequestId string) (int, error) {
	return m.cp.GetConnection().Model(&entity.ConflictEntity{}).
		Where("merge_request_id = ?", mergeRequestId).
		Where("resolved = false").
		Count()
}

func (m mergeRequestRepositoryImpl) UpdateConflict(ent *entity.ConflictEntity) error {
	_, err := m.cp.GetConnection().Model(ent).
		Where("id = ?", ent.Id).
		Update()
	return err
}

func (m mergeRequestRepositoryImpl) ApproveAndMerge(mr *entity.MergeRequestEntity, sourceBranch *entity.BranchEntity, targetBranch *entity.BranchEntity) (int, error) {
	mergedCount := 0
	ctx := context.Background()
	err := m.cp.GetConnection().RunInTransaction(ctx, func(tx *pg.Tx) error {
		// the gate is re-checked inside the transaction so a conflict
		// un-resolved between the service check and the commit can not slip
		// through
		unresolved, err := tx.Model(&entity.ConflictEntity{}).
			Where("merge_request_id = ?", mr.Id).
			Where("resolved = false").
			Count()
		if err != nil {
			return err
		}
		if unresolved > 0 {
			return &exception.CustomError{
				Status:  http.StatusConflict,
				Code:    exception.UnresolvedConflicts,
				Message: exception.UnresolvedConflictsMsg,
				Params:  map[string]interface{}{"mergeRequestId": mr.Id, "count": unresolved},
			}
		}

		mergedCount, err = mergeBranchFeaturesTx(tx, sourceBranch, targetBranch)
		if err != nil {
			return err
		}

		if _, err := tx.Model(mr).Where("id = ?", mr.Id).Update(); err != nil {
			return err
		}

		now := time.Now()
		sourceBranch.Status = string(view.BranchStatusMerged)
		sourceBranch.MergedAt = &now
		sourceBranch.UpdatedAt = &now
		if _, err := tx.Model(sourceBranch).Where("id = ?", sourceBranch.Id).Update(); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return mergedCount, nil
}
