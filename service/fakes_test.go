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

package service

import (
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/Maredius/geodraft/entity"
	"github.com/Maredius/geodraft/exception"
	"github.com/Maredius/geodraft/repository"
	"github.com/Maredius/geodraft/view"
)

// In-memory repository implementations backing the service tests. A single
// mutex per fake stands in for the transactional serialization of the PG
// implementations.

type fakeBranchRepository struct {
	mu       sync.Mutex
	branches map[string]*entity.BranchEntity
}

func newFakeBranchRepository() *fakeBranchRepository {
	return &fakeBranchRepository{branches: make(map[string]*entity.BranchEntity)}
}

func (f *fakeBranchRepository) CreateBranch(ent *entity.BranchEntity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *ent
	f.branches[ent.Id] = &stored
	return nil
}

func (f *fakeBranchRepository) GetBranch(id string) (*entity.BranchEntity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ent, exists := f.branches[id]
	if !exists {
		return nil, nil
	}
	result := *ent
	return &result, nil
}

func (f *fakeBranchRepository) GetMasterBranch(layerId string) (*entity.BranchEntity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ent := range f.branches {
		if ent.LayerId == layerId && ent.IsMaster() {
			result := *ent
			return &result, nil
		}
	}
	return nil, nil
}

func (f *fakeBranchRepository) GetBranches(filter view.BranchesFilterReq) ([]entity.BranchEntity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]entity.BranchEntity, 0)
	for _, ent := range f.branches {
		if filter.LayerId != "" && ent.LayerId != filter.LayerId {
			continue
		}
		if filter.CreatedBy != "" && ent.CreatedBy != filter.CreatedBy {
			continue
		}
		if filter.Status != "" && ent.Status != string(filter.Status) {
			continue
		}
		result = append(result, *ent)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Id < result[j].Id })
	return result, nil
}

func (f *fakeBranchRepository) BranchExists(layerId string, name string, createdBy string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ent := range f.branches {
		if ent.LayerId == layerId && ent.Name == name && ent.CreatedBy == createdBy &&
			ent.Status == string(view.BranchStatusActive) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBranchRepository) UpdateBranchStatus(id string, status string, mergedAt *time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ent, exists := f.branches[id]
	if !exists {
		return nil
	}
	now := time.Now()
	ent.Status = status
	ent.UpdatedAt = &now
	if mergedAt != nil {
		ent.MergedAt = mergedAt
	}
	return nil
}

type fakeFeatureVersionRepository struct {
	mu       sync.Mutex
	versions []entity.FeatureVersionEntity
}

func newFakeFeatureVersionRepository() *fakeFeatureVersionRepository {
	return &fakeFeatureVersionRepository{versions: make([]entity.FeatureVersionEntity, 0)}
}

func (f *fakeFeatureVersionRepository) AppendVersion(ent *entity.FeatureVersionEntity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	maxVersion := 0
	for _, v := range f.versions {
		if v.BranchId == ent.BranchId && v.FeatureId == ent.FeatureId && v.Version > maxVersion {
			maxVersion = v.Version
		}
	}
	ent.Version = maxVersion + 1
	f.versions = append(f.versions, *ent)
	return nil
}

func (f *fakeFeatureVersionRepository) GetVersion(id string) (*entity.FeatureVersionEntity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, v := range f.versions {
		if v.Id == id {
			result := v
			return &result, nil
		}
	}
	return nil, nil
}

func (f *fakeFeatureVersionRepository) GetLatestVersion(branchId string, featureId string) (*entity.FeatureVersionEntity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result *entity.FeatureVersionEntity
	for i := range f.versions {
		v := f.versions[i]
		if v.BranchId != branchId || v.FeatureId != featureId {
			continue
		}
		if result == nil || v.Version > result.Version {
			result = &v
		}
	}
	if result == nil {
		return nil, nil
	}
	found := *result
	return &found, nil
}

func (f *fakeFeatureVersionRepository) GetFeatureHistory(branchId string, featureId string) ([]entity.FeatureVersionEntity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]entity.FeatureVersionEntity, 0)
	for _, v := range f.versions {
		if v.BranchId == branchId && v.FeatureId == featureId {
			result = append(result, v)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Version < result[j].Version })
	return result, nil
}

func (f *fakeFeatureVersionRepository) GetBranchHeads(branchId string) ([]entity.FeatureVersionEntity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.branchHeadsLocked(branchId), nil
}

func (f *fakeFeatureVersionRepository) branchHeadsLocked(branchId string) []entity.FeatureVersionEntity {
	heads := make(map[string]entity.FeatureVersionEntity)
	for _, v := range f.versions {
		if v.BranchId != branchId {
			continue
		}
		if head, exists := heads[v.FeatureId]; !exists || v.Version > head.Version {
			heads[v.FeatureId] = v
		}
	}
	result := make([]entity.FeatureVersionEntity, 0, len(heads))
	for _, head := range heads {
		result = append(result, head)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].FeatureId < result[j].FeatureId })
	return result
}

func (f *fakeFeatureVersionRepository) MergeBranchFeatures(source *entity.BranchEntity, target *entity.BranchEntity) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mergeLocked(source, target)
}

func (f *fakeFeatureVersionRepository) mergeLocked(source *entity.BranchEntity, target *entity.BranchEntity) (int, error) {
	sourceHeads := f.branchHeadsLocked(source.Id)
	targetHeads := f.branchHeadsLocked(target.Id)
	merged, err := repository.PlanBranchMerge(source, target.Id, sourceHeads, targetHeads, time.Now())
	if err != nil {
		return 0, err
	}
	f.versions = append(f.versions, merged...)
	return len(merged), nil
}

type fakeMergeRequestRepository struct {
	mu            sync.Mutex
	mergeRequests map[string]*entity.MergeRequestEntity
	conflicts     map[string]*entity.ConflictEntity
	featureRepo   *fakeFeatureVersionRepository
	branchRepo    *fakeBranchRepository
}

func newFakeMergeRequestRepository(featureRepo *fakeFeatureVersionRepository, branchRepo *fakeBranchRepository) *fakeMergeRequestRepository {
	return &fakeMergeRequestRepository{
		mergeRequests: make(map[string]*entity.MergeRequestEntity),
		conflicts:     make(map[string]*entity.ConflictEntity),
		featureRepo:   featureRepo,
		branchRepo:    branchRepo,
	}
}

func (f *fakeMergeRequestRepository) CreateMergeRequest(ent *entity.MergeRequestEntity, conflicts []entity.ConflictEntity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *ent
	f.mergeRequests[ent.Id] = &stored
	for _, conflict := range conflicts {
		storedConflict := conflict
		f.conflicts[conflict.Id] = &storedConflict
	}
	return nil
}

func (f *fakeMergeRequestRepository) GetMergeRequest(id string) (*entity.MergeRequestEntity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ent, exists := f.mergeRequests[id]
	if !exists {
		return nil, nil
	}
	result := *ent
	return &result, nil
}

func (f *fakeMergeRequestRepository) GetMergeRequests(filter view.MergeRequestsFilterReq) ([]entity.MergeRequestEntity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]entity.MergeRequestEntity, 0)
	for _, ent := range f.mergeRequests {
		if filter.Status != "" && ent.Status != string(filter.Status) {
			continue
		}
		if filter.LayerId != "" {
			branch, exists := f.branchRepo.branches[ent.SourceBranchId]
			if !exists || branch.LayerId != filter.LayerId {
				continue
			}
		}
		result = append(result, *ent)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Id < result[j].Id })
	return result, nil
}

func (f *fakeMergeRequestRepository) UpdateMergeRequest(ent *entity.MergeRequestEntity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *ent
	f.mergeRequests[ent.Id] = &stored
	return nil
}

func (f *fakeMergeRequestRepository) GetConflicts(mergeRequestId string) ([]entity.ConflictEntity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]entity.ConflictEntity, 0)
	for _, conflict := range f.conflicts {
		if conflict.MergeRequestId == mergeRequestId {
			result = append(result, *conflict)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].FeatureId < result[j].FeatureId })
	return result, nil
}

func (f *fakeMergeRequestRepository) GetConflict(id string) (*entity.ConflictEntity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ent, exists := f.conflicts[id]
	if !exists {
		return nil, nil
	}
	result := *ent
	return &result, nil
}

func (f *fakeMergeRequestRepository) CountUnresolvedConflicts(mergeRequestId string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.countUnresolvedLocked(mergeRequestId), nil
}

func (f *fakeMergeRequestRepository) countUnresolvedLocked(mergeRequestId string) int {
	count := 0
	for _, conflict := range f.conflicts {
		if conflict.MergeRequestId == mergeRequestId && !conflict.Resolved {
			count++
		}
	}
	return count
}

func (f *fakeMergeRequestRepository) UpdateConflict(ent *entity.ConflictEntity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *ent
	f.conflicts[ent.Id] = &stored
	return nil
}

func (f *fakeMergeRequestRepository) ApproveAndMerge(mr *entity.MergeRequestEntity, sourceBranch *entity.BranchEntity, targetBranch *entity.BranchEntity) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if unresolved := f.countUnresolvedLocked(mr.Id); unresolved > 0 {
		return 0, &exception.CustomError{
			Status:  http.StatusConflict,
			Code:    exception.UnresolvedConflicts,
			Message: exception.UnresolvedConflictsMsg,
			Params:  map[string]interface{}{"mergeRequestId": mr.Id, "count": unresolved},
		}
	}
	f.featureRepo.mu.Lock()
	mergedCount, err := f.featureRepo.mergeLocked(sourceBranch, targetBranch)
	f.featureRepo.mu.Unlock()
	if err != nil {
		return 0, err
	}
	stored := *mr
	f.mergeRequests[mr.Id] = &stored
	now := time.Now()
	if branch, exists := f.branchRepo.branches[sourceBranch.Id]; exists {
		branch.Status = string(view.BranchStatusMerged)
		branch.MergedAt = &now
		branch.UpdatedAt = &now
	}
	return mergedCount, nil
}

type fakeRoleRepository struct {
	mu    sync.Mutex
	roles []entity.UserRoleEntity
}

func newFakeRoleRepository() *fakeRoleRepository {
	return &fakeRoleRepository{roles: make([]entity.UserRoleEntity, 0)}
}

func (f *fakeRoleRepository) SaveUserRole(ent *entity.UserRoleEntity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, role := range f.roles {
		if role.UserId == ent.UserId && role.GroupId == ent.GroupId && role.Role == ent.Role {
			ent.Id = role.Id
			f.roles[i] = *ent
			return nil
		}
	}
	f.roles = append(f.roles, *ent)
	return nil
}

func (f *fakeRoleRepository) DeleteUserRole(userId string, groupId string, role string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	remaining := make([]entity.UserRoleEntity, 0, len(f.roles))
	for _, ent := range f.roles {
		if ent.UserId == userId && ent.GroupId == groupId && ent.Role == role {
			continue
		}
		remaining = append(remaining, ent)
	}
	f.roles = remaining
	return nil
}

func (f *fakeRoleRepository) GetUserRoles(userId string) ([]entity.UserRoleEntity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]entity.UserRoleEntity, 0)
	for _, ent := range f.roles {
		if ent.UserId == userId {
			result = append(result, ent)
		}
	}
	return result, nil
}

func (f *fakeRoleRepository) GetUserRolesInGroup(userId string, groupId string) ([]entity.UserRoleEntity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]entity.UserRoleEntity, 0)
	for _, ent := range f.roles {
		if ent.UserId == userId && ent.GroupId == groupId {
			result = append(result, ent)
		}
	}
	return result, nil
}

func (f *fakeRoleRepository) GetGroupRoles(groupId string) ([]entity.UserRoleEntity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]entity.UserRoleEntity, 0)
	for _, ent := range f.roles {
		if ent.GroupId == groupId {
			result = append(result, ent)
		}
	}
	return result, nil
}

func (f *fakeRoleRepository) UserHasRole(userId string, roles ...string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ent := range f.roles {
		if ent.UserId != userId {
			continue
		}
		for _, role := range roles {
			if ent.Role == role {
				return true, nil
			}
		}
	}
	return false, nil
}

func (f *fakeRoleRepository) UserHasRoleInGroup(userId string, groupId string, roles ...string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ent := range f.roles {
		if ent.UserId != userId || ent.GroupId != groupId {
			continue
		}
		for _, role := range roles {
			if ent.Role == role {
				return true, nil
			}
		}
	}
	return false, nil
}

func (f *fakeRoleRepository) GetGroupApprovers(groupId string) ([]entity.UserRoleEntity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]entity.UserRoleEntity, 0)
	for _, ent := range f.roles {
		if ent.GroupId == groupId && ent.CanApproveMerges &&
			(ent.Role == view.RoleValidator || ent.Role == view.RoleAdmin) {
			result = append(result, ent)
		}
	}
	return result, nil
}

type fakePlatformClient struct {
	layers      map[string]*view.Layer
	permissions map[string]bool
}

func newFakePlatformClient() *fakePlatformClient {
	return &fakePlatformClient{
		layers:      make(map[string]*view.Layer),
		permissions: make(map[string]bool),
	}
}

func (f *fakePlatformClient) GetLayer(layerId string) (*view.Layer, error) {
	layer, exists := f.layers[layerId]
	if !exists {
		return nil, nil
	}
	result := *layer
	return &result, nil
}

func (f *fakePlatformClient) HasResourcePermission(userId string, layerId string) (bool, error) {
	return f.permissions[userId+"/"+layerId], nil
}

// fakeActivityTracking records events synchronously so tests can assert on
// them without waiting for the async persistence path.
type fakeActivityTracking struct {
	mu     sync.Mutex
	events []view.ActivityTrackingEvent
}

func newFakeActivityTracking() *fakeActivityTracking {
	return &fakeActivityTracking{events: make([]view.ActivityTrackingEvent, 0)}
}

func (f *fakeActivityTracking) TrackEvent(event view.ActivityTrackingEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}

func (f *fakeActivityTracking) GetEventsForEntity(entityType string, entityId string, limit int, page int) (*view.ActivityResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]view.ActivityTrackingEvent, 0)
	for _, event := range f.events {
		if event.EntityType == entityType && event.EntityId == entityId {
			result = append(result, event)
		}
	}
	return &view.ActivityResponse{Events: result}, nil
}

func (f *fakeActivityTracking) eventTypes() []view.ATEventType {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]view.ATEventType, 0, len(f.events))
	for _, event := range f.events {
		result = append(result, event.Type)
	}
	return result
}
