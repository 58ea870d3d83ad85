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
	"time"

	"github.com/Maredius/geodraft/db"
	"github.com/Maredius/geodraft/entity"
	"github.com/Maredius/geodraft/view"
	"github.com/go-pg/pg/v10"
)

func NewBranchRepositoryPG(cp db.ConnectionProvider) BranchRepository {
	return &branchRepositoryImpl{cp: cp}
}

type branchRepositoryImpl struct {
	cp db.ConnectionProvider
}

func (b branchRepositoryImpl) CreateBranch(ent *entity.BranchEntity) error {
	_, err := b.cp.GetConnection().Model(ent).Insert()
	return err
}

func (b branchRepositoryImpl) GetBranch(id string) (*entity.BranchEntity, error) {
	result := new(entity.BranchEntity)
	err := b.cp.GetConnection().Model(result).
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

func (b branchRepositoryImpl) GetMasterBranch(layerId string) (*entity.BranchEntity, error) {
	result := new(entity.BranchEntity)
	err := b.cp.GetConnection().Model(result).
		Where("layer_id = ?", layerId).
		Where("name = ?", view.MasterBranchName).
		Where("parent_branch_id = ''").
		First()
	if err != nil {
		if err == pg.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return result, nil
}

func (b branchRepositoryImpl) GetBranches(filter view.BranchesFilterReq) ([]entity.BranchEntity, error) {
	var result []entity.BranchEntity
	query := b.cp.GetConnection().Model(&result)
	if filter.LayerId != "" {
		query.Where("layer_id = ?", filter.LayerId)
	}
	if filter.CreatedBy != "" {
		query.Where("created_by = ?", filter.CreatedBy)
	}
	if filter.Status != "" {
		query.Where("status = ?", string(filter.Status))
	}
	err := query.Order("created_at DESC").Select()
	if err != nil {
		return nil, err
	}
	return result, nil
}

// BranchExists only considers active branches, so a name can be reused once
// the previous branch is closed, merged or deleted. The partial unique index
// on branch enforces the same rule.
func (b branchRepositoryImpl) BranchExists(layerId string, name string, createdBy string) (bool, error) {
	return b.cp.GetConnection().Model(&entity.BranchEntity{}).
		Where("layer_id = ?", layerId).
		Where("name = ?", name).
		Where("created_by = ?", createdBy).
		Where("status = ?", string(view.BranchStatusActive)).
		Exists()
}

func (b branchRepositoryImpl) UpdateBranchStatus(id string, status string, mergedAt *time.Time) error {
	now := time.Now()
	ent := entity.BranchEntity{Id: id, Status: status, UpdatedAt: &now, MergedAt: mergedAt}
	query := b.cp.GetConnection().Model(&ent).
		Column("status", "updated_at").
		Where("id = ?", id)
	if mergedAt != nil {
		query.Column("merged_at")
	}
	_, err := query.Update()
	return err
}
