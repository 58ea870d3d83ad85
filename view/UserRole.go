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

import "time"

// SysadmRole is a platform-level role carried in the security context.
// It bypasses all group role checks.
const SysadmRole = "System administrator"

const (
	RoleEditor    = "editor"
	RoleValidator = "validator"
	RoleAdmin     = "admin"
)

var roleRanks = map[string]int{
	RoleEditor:    1,
	RoleValidator: 2,
	RoleAdmin:     3,
}

func ValidRole(role string) bool {
	_, exists := roleRanks[role]
	return exists
}

func RoleRank(role string) int {
	return roleRanks[role]
}

type UserRole struct {
	Id                string     `json:"id"`
	UserId            string     `json:"userId"`
	GroupId           string     `json:"groupId"`
	Role              string     `json:"role"`
	CanApproveMerges  bool       `json:"canApproveMerges"`
	CanManageBranches bool       `json:"canManageBranches"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         *time.Time `json:"updatedAt,omitempty"`
}

type UserRoleReq struct {
	UserId  string `json:"userId" validate:"required"`
	GroupId string `json:"groupId" validate:"required"`
	Role    string `json:"role" validate:"required"`
	// nil means "derive from role"
	CanApproveMerges  *bool `json:"canApproveMerges"`
	CanManageBranches *bool `json:"canManageBranches"`
}

type GroupMembers struct {
	Admins     []UserRole `json:"admins"`
	Validators []UserRole `json:"validators"`
	Editors    []UserRole `json:"editors"`
}
