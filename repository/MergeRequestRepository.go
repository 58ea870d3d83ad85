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
	"github.com/Maredius/geodraft/view"
)

type MergeRequestRepository interface {
	// CreateMergeRequest stores the request and its detected conflicts in one
	// transaction.
	CreateMergeRequest(ent *entity.MergeRequestEntity, conflicts []entity.ConflictEntity) error
	GetMergeRequest(id string) (*entity.MergeRequestEntity, error)
	GetMergeRequests(filter view.MergeRequestsFilterReq) ([]entity.MergeRequestEntity, error)
	UpdateMergeRequest(ent *entity.MergeRequestEntity) error
	GetConflicts(mergeRequestId string) ([]entity.ConflictEntity, error)
	GetConflict(id string) (*entity.ConflictEntity, error)
	CountUnresolvedConflicts(mergeRequestId string) (int, error)
	UpdateConflict(ent *entity.ConflictEntity) error
	// ApproveAndMerge finalizes an approved request: re-checks the unresolved
	// conflict gate, merges the source branch's heads into the target branch,
	// then marks the request and the source branch merged, all in one
	// transaction. A failure leaves no partial writes.
	ApproveAndMerge(mr *entity.MergeRequestEntity, sourceBranch *entity.BranchEntity, targetBranch *entity.BranchEntity) (int, error)
}
