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

type MergeRequestEntity struct {
	tableName struct{} `pg:"merge_request, alias:merge_request"`

	Id             string     `pg:"id, pk, type:varchar"`
	SourceBranchId string     `pg:"source_branch_id, type:varchar"`
	TargetBranchId string     `pg:"target_branch_id, type:varchar"`
	Title          string     `pg:"title, type:varchar"`
	Description    string     `pg:"description, type:varchar"`
	Status         string     `pg:"status, type:varchar"`
	CreatedBy      string     `pg:"created_by, type:varchar"`
	ReviewedBy     string     `pg:"reviewed_by, type:varchar"`
	ReviewComment  string     `pg:"review_comment, type:varchar"`
	CreatedAt      time.Time  `pg:"created_at, type:timestamp without time zone"`
	UpdatedAt      *time.Time `pg:"updated_at, type:timestamp without time zone"`
	ReviewedAt     *time.Time `pg:"reviewed_at, type:timestamp without time zone"`
}

func MakeMergeRequestView(ent MergeRequestEntity) view.MergeRequest {
	return view.MergeRequest{
		Id:             ent.Id,
		SourceBranchId: ent.SourceBranchId,
		TargetBranchId: ent.TargetBranchId,
		Title:          ent.Title,
		Description:    ent.Description,
		Status:         view.MergeRequestStatus(ent.Status),
		CreatedBy:      ent.CreatedBy,
		ReviewedBy:     ent.ReviewedBy,
		ReviewComment:  ent.ReviewComment,
		CreatedAt:      ent.CreatedAt,
		UpdatedAt:      ent.UpdatedAt,
		ReviewedAt:     ent.ReviewedAt,
	}
}
