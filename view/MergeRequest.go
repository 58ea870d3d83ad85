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

type MergeRequestStatus string

const (
	MergeRequestStatusPending   MergeRequestStatus = "pending"
	MergeRequestStatusConflicts MergeRequestStatus = "conflicts"
	MergeRequestStatusApproved  MergeRequestStatus = "approved"
	MergeRequestStatusRejected  MergeRequestStatus = "rejected"
	MergeRequestStatusMerged    MergeRequestStatus = "merged"
)

// Reviewable statuses are the only ones approve/reject may act on.
// merged and rejected are terminal.
func MergeRequestReviewable(status MergeRequestStatus) bool {
	return status == MergeRequestStatusPending || status == MergeRequestStatusConflicts
}

type MergeRequest struct {
	Id             string             `json:"id"`
	SourceBranchId string             `json:"sourceBranchId"`
	TargetBranchId string             `json:"targetBranchId"`
	Title          string             `json:"title"`
	Description    string             `json:"description,omitempty"`
	Status         MergeRequestStatus `json:"status"`
	CreatedBy      string             `json:"createdBy"`
	ReviewedBy     string             `json:"reviewedBy,omitempty"`
	ReviewComment  string             `json:"reviewComment,omitempty"`
	CreatedAt      time.Time          `json:"createdAt"`
	UpdatedAt      *time.Time         `json:"updatedAt,omitempty"`
	ReviewedAt     *time.Time         `json:"reviewedAt,omitempty"`
}

type MergeRequests struct {
	MergeRequests []MergeRequest `json:"mergeRequests"`
}

type CreateMergeRequestReq struct {
	SourceBranchId string `json:"sourceBranchId" validate:"required"`
	TargetBranchId string `json:"targetBranchId" validate:"required"`
	Title          string `json:"title" validate:"required"`
	Description    string `json:"description"`
}

type MergeRequestsFilterReq struct {
	LayerId string
	Status  MergeRequestStatus
}
