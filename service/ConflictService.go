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
	"time"

	"github.com/Maredius/geodraft/context"
	"github.com/Maredius/geodraft/entity"
	"github.com/Maredius/geodraft/exception"
	"github.com/Maredius/geodraft/metrics"
	"github.com/Maredius/geodraft/repository"
	"github.com/Maredius/geodraft/utils"
	"github.com/Maredius/geodraft/view"
	"github.com/iancoleman/orderedmap"
	"github.com/paulmach/orb"
	log "github.com/sirupsen/logrus"
)

type ConflictService interface {
	// DetectConflicts compares head versions of two branches feature by
	// feature. Pure function of its inputs, descriptors come out ordered by
	// feature id.
	DetectConflicts(sourceHeads []view.FeatureVersion, targetHeads []view.FeatureVersion) []view.ConflictDescriptor
	DetectBranchConflicts(sourceBranchId string, targetBranchId string) ([]view.ConflictDescriptor, error)
	ResolveConflict(ctx context.SecurityContext, conflictId string, req view.ResolveConflictReq) (*view.Conflict, error)
}

func NewConflictService(featureVersionRepository repository.FeatureVersionRepository,
	mergeRequestRepository repository.MergeRequestRepository, branchRepository repository.BranchRepository,
	roleService RoleService, atService ActivityTrackingService) ConflictService {
	return &conflictServiceImpl{
		featureVersionRepository: featureVersionRepository,
		mergeRequestRepository:   mergeRequestRepository,
		branchRepository:         branchRepository,
		roleService:              roleService,
		atService:                atService,
	}
}

type conflictServiceImpl struct {
	featureVersionRepository repository.FeatureVersionRepository
	mergeRequestRepository   repository.MergeRequestRepository
	branchRepository         repository.BranchRepository
	roleService              RoleService
	atService                ActivityTrackingService
}

func (c conflictServiceImpl) DetectConflicts(sourceHeads []view.FeatureVersion, targetHeads []view.FeatureVersion) []view.ConflictDescriptor {
	targetByFeature := make(map[string]view.FeatureVersion, len(targetHeads))
	for _, head := range targetHeads {
		targetByFeature[head.FeatureId] = head
	}
	sorted := make([]view.FeatureVersion, len(sourceHeads))
	copy(sorted, sourceHeads)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].FeatureId < sorted[j].FeatureId })

	result := make([]view.ConflictDescriptor, 0)
	for _, sourceHead := range sorted {
		targetHead, exists := targetByFeature[sourceHead.FeatureId]
		if !exists {
			continue
		}
		conflictType := classifyConflict(sourceHead, targetHead)
		if conflictType == "" {
			continue
		}
		targetCopy := targetHead
		result = append(result, view.ConflictDescriptor{
			FeatureId:     sourceHead.FeatureId,
			ConflictType:  conflictType,
			SourceVersion: sourceHead,
			TargetVersion: &targetCopy,
		})
		metrics.ConflictsDetected.WithLabelValues(string(conflictType)).Inc()
	}
	return result
}

// classifyConflict returns the conflict type for a pair of head versions, or
// "" when the pair merges cleanly. A feature touched in only one branch is a
// fast-forward, never a conflict.
func classifyConflict(source view.FeatureVersion, target view.FeatureVersion) view.ConflictType {
	// both sides still at the inherited base version
	if source.Version == 1 && target.Version == 1 {
		return ""
	}
	if source.Version > 1 && target.Version > 1 {
		geometryDiffers := !orb.Equal(source.Geometry, target.Geometry)
		propertiesDiffer := !view.PropertiesEqual(source.Properties, target.Properties)
		if geometryDiffers && propertiesDiffer {
			return view.ConflictTypeBoth
		}
		if geometryDiffers {
			return view.ConflictTypeGeometry
		}
		if propertiesDiffer {
			return view.ConflictTypeProperties
		}
		// identical edits on both sides fall through to the delete checks
	}
	if source.Deleted && target.Version > 1 && !target.Deleted {
		return view.ConflictTypeDelete
	}
	if target.Deleted && source.Version > 1 && !source.Deleted {
		return view.ConflictTypeDelete
	}
	return ""
}

func (c conflictServiceImpl) DetectBranchConflicts(sourceBranchId string, targetBranchId string) ([]view.ConflictDescriptor, error) {
	sourceHeads, err := c.branchHeads(sourceBranchId)
	if err != nil {
		return nil, err
	}
	targetHeads, err := c.branchHeads(targetBranchId)
	if err != nil {
		return nil, err
	}
	return c.DetectConflicts(sourceHeads, targetHeads), nil
}

func (c conflictServiceImpl) branchHeads(branchId string) ([]view.FeatureVersion, error) {
	ents, err := c.featureVersionRepository.GetBranchHeads(branchId)
	if err != nil {
		return nil, err
	}
	return entity.MakeFeatureVersionViews(ents)
}

func (c conflictServiceImpl) ResolveConflict(ctx context.SecurityContext, conflictId string, req view.ResolveConflictReq) (*view.Conflict, error) {
	if err := utils.ValidateObject(req); err != nil {
		return nil, err
	}
	conflict, err := c.mergeRequestRepository.GetConflict(conflictId)
	if err != nil {
		return nil, err
	}
	if conflict == nil {
		return nil, &exception.CustomError{
			Status:  http.StatusNotFound,
			Code:    exception.ConflictNotFound,
			Message: exception.ConflictNotFoundMsg,
			Params:  map[string]interface{}{"conflictId": conflictId},
		}
	}
	mr, err := c.mergeRequestRepository.GetMergeRequest(conflict.MergeRequestId)
	if err != nil {
		return nil, err
	}
	if mr == nil {
		return nil, &exception.CustomError{
			Status:  http.StatusNotFound,
			Code:    exception.MergeRequestNotFound,
			Message: exception.MergeRequestNotFoundMsg,
			Params:  map[string]interface{}{"mergeRequestId": conflict.MergeRequestId},
		}
	}
	if !view.MergeRequestReviewable(view.MergeRequestStatus(mr.Status)) {
		return nil, &exception.CustomError{
			Status:  http.StatusConflict,
			Code:    exception.MergeRequestNotReviewable,
			Message: exception.MergeRequestNotReviewableMsg,
			Params:  map[string]interface{}{"mergeRequestId": mr.Id, "status": mr.Status},
		}
	}
	if err := c.checkResolveAccess(ctx, mr); err != nil {
		return nil, err
	}

	switch req.Strategy {
	case view.ResolutionStrategySource:
		sourceVersion, err := c.requireVersion(conflict.SourceVersionId, conflict.FeatureId, mr.SourceBranchId)
		if err != nil {
			return nil, err
		}
		conflict.ResolvedGeometry = sourceVersion.Geometry
		conflict.ResolvedProperties = sourceVersion.Properties
	case view.ResolutionStrategyTarget:
		if conflict.TargetVersionId != "" {
			targetVersion, err := c.requireVersion(conflict.TargetVersionId, conflict.FeatureId, mr.TargetBranchId)
			if err != nil {
				return nil, err
			}
			conflict.ResolvedGeometry = targetVersion.Geometry
			conflict.ResolvedProperties = targetVersion.Properties
		} else {
			emptyProperties, err := entity.EncodeProperties(orderedmap.New())
			if err != nil {
				return nil, err
			}
			conflict.ResolvedGeometry = ""
			conflict.ResolvedProperties = emptyProperties
		}
	case view.ResolutionStrategyManual:
		if req.Geometry == nil || req.Properties == nil {
			return nil, &exception.CustomError{
				Status:  http.StatusBadRequest,
				Code:    exception.ManualResolutionFieldsMissing,
				Message: exception.ManualResolutionFieldsMissingMsg,
			}
		}
		properties, err := entity.EncodeProperties(req.Properties)
		if err != nil {
			return nil, err
		}
		conflict.ResolvedGeometry = entity.EncodeGeometry(req.Geometry)
		conflict.ResolvedProperties = properties
	default:
		return nil, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.InvalidResolutionStrategy,
			Message: exception.InvalidResolutionStrategyMsg,
			Params:  map[string]interface{}{"strategy": string(req.Strategy)},
		}
	}

	now := time.Now()
	conflict.ResolutionStrategy = string(req.Strategy)
	conflict.Resolved = true
	conflict.ResolvedBy = ctx.GetUserId()
	conflict.ResolvedAt = &now
	if err := c.mergeRequestRepository.UpdateConflict(conflict); err != nil {
		return nil, err
	}
	log.Infof("Resolved conflict %s using %s strategy", conflict.Id, req.Strategy)
	metrics.ConflictsResolved.WithLabelValues(string(req.Strategy)).Inc()
	c.atService.TrackEvent(view.ActivityTrackingEvent{
		Type:       view.ATETResolveConflict,
		EntityType: view.EntityTypeConflict,
		EntityId:   conflict.Id,
		Data:       map[string]interface{}{"mergeRequestId": mr.Id, "featureId": conflict.FeatureId, "strategy": string(req.Strategy)},
		Date:       now,
		UserId:     ctx.GetUserId(),
	})
	return entity.MakeConflictView(*conflict)
}

func (c conflictServiceImpl) requireVersion(versionId string, featureId string, branchId string) (*entity.FeatureVersionEntity, error) {
	version, err := c.featureVersionRepository.GetVersion(versionId)
	if err != nil {
		return nil, err
	}
	if version == nil {
		return nil, &exception.CustomError{
			Status:  http.StatusNotFound,
			Code:    exception.FeatureNotFound,
			Message: exception.FeatureNotFoundMsg,
			Params:  map[string]interface{}{"featureId": featureId, "branchId": branchId},
		}
	}
	return version, nil
}

// checkResolveAccess allows conflict resolution to anyone who may edit the
// source branch or approve against the target branch.
func (c conflictServiceImpl) checkResolveAccess(ctx context.SecurityContext, mr *entity.MergeRequestEntity) error {
	sourceBranch, err := c.branchRepository.GetBranch(mr.SourceBranchId)
	if err != nil {
		return err
	}
	if sourceBranch != nil {
		sourceView := entity.MakeBranchView(*sourceBranch)
		canEdit, err := c.roleService.CanEditBranch(ctx, &sourceView)
		if err != nil {
			return err
		}
		if canEdit {
			return nil
		}
	}
	targetBranch, err := c.branchRepository.GetBranch(mr.TargetBranchId)
	if err != nil {
		return err
	}
	if targetBranch != nil {
		targetView := entity.MakeBranchView(*targetBranch)
		canApprove, err := c.roleService.CanApproveMergeRequest(ctx, &targetView)
		if err != nil {
			return err
		}
		if canApprove {
			return nil
		}
	}
	return &exception.CustomError{
		Status:  http.StatusForbidden,
		Code:    exception.InsufficientPrivileges,
		Message: exception.InsufficientPrivilegesMsg,
		Debug:   "no rights to resolve conflicts of this merge request",
	}
}
