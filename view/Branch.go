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

const MasterBranchName = "master"

type BranchStatus string

const (
	BranchStatusActive  BranchStatus = "active"
	BranchStatusMerged  BranchStatus = "merged"
	BranchStatusClosed  BranchStatus = "closed"
	BranchStatusDeleted BranchStatus = "deleted"
)

func ValidBranchStatus(status BranchStatus) bool {
	switch status {
	case BranchStatusActive, BranchStatusMerged, BranchStatusClosed, BranchStatusDeleted:
		return true
	}
	return false
}

// Branch lifecycle is one-way: active branches may become merged, closed or
// deleted, terminal statuses never change again.
func ValidBranchStatusTransition(from BranchStatus, to BranchStatus) bool {
	if from != BranchStatusActive {
		return false
	}
	switch to {
	case BranchStatusMerged, BranchStatusClosed, BranchStatusDeleted:
		return true
	}
	return false
}

type Branch struct {
	Id             string       `json:"id"`
	Name           string       `json:"name"`
	Description    string       `json:"description,omitempty"`
	LayerId        string       `json:"layerId"`
	GroupId        string       `json:"groupId,omitempty"`
	ParentBranchId string       `json:"parentBranchId,omitempty"`
	CreatedBy      string       `json:"createdBy"`
	Status         BranchStatus `json:"status"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      *time.Time   `json:"updatedAt,omitempty"`
	MergedAt       *time.Time   `json:"mergedAt,omitempty"`
}

func (b Branch) IsMaster() bool {
	return b.ParentBranchId == "" && b.Name == MasterBranchName
}

type Branches struct {
	Branches []Branch `json:"branches"`
}

type CreateBranchReq struct {
	Name           string `json:"name" validate:"required"`
	Description    string `json:"description"`
	LayerId        string `json:"layerId" validate:"required"`
	GroupId        string `json:"groupId"`
	ParentBranchId string `json:"parentBranchId"`
}

type BranchesFilterReq struct {
	LayerId   string
	CreatedBy string
	Status    BranchStatus
}
