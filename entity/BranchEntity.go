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
)

type BranchEntity struct {
	tableName struct{} `pg:"branch, alias:branch"`

	Id             string     `pg:"id, pk, type:varchar"`
	Name           string     `pg:"name, type:varchar"`
	Description    string     `pg:"description, type:varchar"`
	LayerId        string     `pg:"layer_id, type:varchar"`
	GroupId        string     `pg:"group_id, type:varchar"`
	ParentBranchId string     `pg:"parent_branch_id, type:varchar"`
	CreatedBy      string     `pg:"created_by, type:varchar"`
	Status         string     `pg:"status, type:varchar"`
	CreatedAt      time.Time  `pg:"created_at, type:timestamp without time zone"`
	UpdatedAt      *time.Time `pg:"updated_at, type:timestamp without time zone"`
	MergedAt       *time.Time `pg:"merged_at, type:timestamp without time zone"`
}

func (b BranchEntity) IsMaster() bool {
	return b.ParentBranchId == "" && b.Name == view.MasterBranchName
}

func MakeBranchView(ent BranchEntity) view.Branch {
	return view.Branch{
		Id:             ent.Id,
		Name:           ent.Name,
		Description:    ent.Description,
		LayerId:        ent.LayerId,
		GroupId:        ent.GroupId,
		ParentBranchId: ent.ParentBranchId,
		CreatedBy:      ent.CreatedBy,
		Status:         view.BranchStatus(ent.Status),
		CreatedAt:      ent.CreatedAt,
		UpdatedAt:      ent.UpdatedAt,
		MergedAt:       ent.MergedAt,
	}
}
