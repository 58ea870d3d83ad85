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
)

type UserRoleEntity struct {
	tableName struct{} `pg:"user_role, alias:user_role"`

	Id                string     `pg:"id, pk, type:varchar"`
	UserId            string     `pg:"user_id, type:varchar"`
	GroupId           string     `pg:"group_id, type:varchar"`
	Role              string     `pg:"role, type:varchar"`
	CanApproveMerges  bool       `pg:"can_approve_merges, use_zero"`
	CanManageBranches bool       `pg:"can_manage_branches, use_zero"`
	CreatedAt         time.Time  `pg:"created_at, type:timestamp without time zone"`
	UpdatedAt         *time.Time `pg:"updated_at, type:timestamp without time zone"`
}

// MakeUserRoleEntity enforces the write-time invariant: validators and admins
// always get can_approve_merges, no matter what the caller supplied.
func MakeUserRoleEntity(req view.UserRoleReq) UserRoleEntity {
	canApproveMerges := req.Role == view.RoleValidator || req.Role == view.RoleAdmin
	if !canApproveMerges && req.CanApproveMerges != nil {
		canApproveMerges = *req.CanApproveMerges
	}
	canManageBranches := true
	if req.CanManageBranches != nil {
		canManageBranches = *req.CanManageBranches
	}
	return UserRoleEntity{
		Id:                uuid.New().String(),
		UserId:            req.UserId,
		GroupId:           req.GroupId,
		Role:              req.Role,
		CanApproveMerges:  canApproveMerges,
		CanManageBranches: canManageBranches,
		CreatedAt:         time.Now(),
	}
}

func MakeUserRoleView(ent UserRoleEntity) view.UserRole {
	return view.UserRole{
		Id:                ent.Id,
		UserId:            ent.UserId,
		GroupId:           ent.GroupId,
		Role:              ent.Role,
		CanApproveMerges:  ent.CanApproveMerges,
		CanManageBranches: ent.CanManageBranches,
		CreatedAt:         ent.CreatedAt,
		UpdatedAt:         ent.UpdatedAt,
	}
}
