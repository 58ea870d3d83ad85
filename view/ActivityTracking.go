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

type ActivityTrackingEvent struct {
	Type       ATEventType            `json:"eventType,omitempty"`
	Data       map[string]interface{} `json:"params,omitempty"`
	EntityType string                 `json:"entityType,omitempty"`
	EntityId   string                 `json:"entityId,omitempty"`
	Date       time.Time              `json:"date"`
	UserId     string                 `json:"userId,omitempty"`
}

type ActivityResponse struct {
	Events []ActivityTrackingEvent `json:"events"`
}

type ATEventType string

// branch actions

const ATETCreateBranch ATEventType = "create_branch"
const ATETCloseBranch ATEventType = "close_branch"
const ATETDeleteBranch ATEventType = "delete_branch"

// feature actions

const ATETCreateFeature ATEventType = "create_feature"
const ATETUpdateFeature ATEventType = "update_feature"
const ATETDeleteFeature ATEventType = "delete_feature"

// merge request actions

const ATETCreateMergeRequest ATEventType = "create_merge_request"
const ATETApproveMergeRequest ATEventType = "approve_merge_request"
const ATETRejectMergeRequest ATEventType = "reject_merge_request"
const ATETResolveConflict ATEventType = "resolve_conflict"

// access control

const ATETGrantRole ATEventType = "grant_role"
const ATETDeleteRole ATEventType = "delete_role"

const (
	EntityTypeBranch       = "branch"
	EntityTypeFeature      = "feature"
	EntityTypeMergeRequest = "merge_request"
	EntityTypeConflict     = "conflict"
	EntityTypeUserRole     = "user_role"
)
