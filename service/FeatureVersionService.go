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
	"time"

	"github.com/Maredius/geodraft/context"
	"github.com/Maredius/geodraft/entity"
	"github.com/Maredius/geodraft/exception"
	"github.com/Maredius/geodraft/metrics"
	"github.com/Maredius/geodraft/repository"
	"github.com/Maredius/geodraft/utils"
	"github.com/Maredius/geodraft/view"
	"github.com/google/uuid"
)

type FeatureVersionService interface {
	CreateFeature(ctx context.SecurityContext, req view.CreateFeatureReq) (*view.FeatureVersion, error)
	UpdateFeature(ctx context.SecurityContext, req view.UpdateFeatureReq) (*view.FeatureVersion, error)
	DeleteFeature(ctx context.SecurityContext, branchId string, featureId string, comment string) (*view.FeatureVersion, error)
	GetFeatureHistory(branchId string, featureId string) (*view.FeatureVersions, error)
	// GetLatestFeatures returns the branch working state, the non-deleted head
	// version of every feature.
	GetLatestFeatures(branchId string) (*view.FeatureVersions, error)
}

func NewFeatureVersionService(featureVersionRepository repository.FeatureVersionRepository,
	branchRepository repository.BranchRepository, roleService RoleService, atService ActivityTrackingService) FeatureVersionService {
	return &featureVersionServiceImpl{
		featureVersionRepository: featureVersionRepository,
		branchRepository:         branchRepository,
		roleService:              roleService,
		atService:                atService,
	}
}

type featureVersionServiceImpl struct {
	featureVersionRepository repository.FeatureVersionRepository
	branchRepository         repository.BranchRepository
	roleService              RoleService
	atService                ActivityTrackingService
}

func (f featureVersionServiceImpl) CreateFeature(ctx context.SecurityContext, req view.CreateFeatureReq) (*view.FeatureVersion, error) {
	if err := utils.ValidateObject(req); err != nil {
		return nil, err
	}
	if _, err := f.writableBranch(ctx, req.BranchId); err != nil {
		return nil, err
	}
	properties, err := entity.EncodeProperties(req.Properties)
	if err != nil {
		return nil, err
	}
	ent := entity.FeatureVersionEntity{
		Id:         uuid.New().String(),
		BranchId:   req.BranchId,
		FeatureId:  uuid.New().String(),
		Geometry:   entity.EncodeGeometry(req.Geometry),
		Properties: properties,
		Operation:  string(view.OperationCreate),
		CreatedBy:  ctx.GetUserId(),
		CreatedAt:  time.Now(),
		Comment:    req.Comment,
	}
	return f.appendVersion(ctx, &ent, view.ATETCreateFeature)
}

func (f featureVersionServiceImpl) UpdateFeature(ctx context.SecurityContext, req view.UpdateFeatureReq) (*view.FeatureVersion, error) {
	if err := utils.ValidateObject(req); err != nil {
		return nil, err
	}
	if _, err := f.writableBranch(ctx, req.BranchId); err != nil {
		return nil, err
	}
	if err := f.requireLiveFeature(req.BranchId, req.FeatureId); err != nil {
		return nil, err
	}
	properties, err := entity.EncodeProperties(req.Properties)
	if err != nil {
		return nil, err
	}
	ent := entity.FeatureVersionEntity{
		Id:         uuid.New().String(),
		BranchId:   req.BranchId,
		FeatureId:  req.FeatureId,
		Geometry:   entity.EncodeGeometry(req.Geometry),
		Properties: properties,
		Operation:  string(view.OperationUpdate),
		CreatedBy:  ctx.GetUserId(),
		CreatedAt:  time.Now(),
		Comment:    req.Comment,
	}
	return f.appendVersion(ctx, &ent, view.ATETUpdateFeature)
}

func (f featureVersionServiceImpl) DeleteFeature(ctx context.SecurityContext, branchId string, featureId string, comment string) (*view.FeatureVersion, error) {
	if _, err := f.writableBranch(ctx, branchId); err != nil {
		return nil, err
	}
	if err := f.requireLiveFeature(branchId, featureId); err != nil {
		return nil, err
	}
	// deletion is a tombstone version, prior history stays readable
	head, err := f.featureVersionRepository.GetLatestVersion(branchId, featureId)
	if err != nil {
		return nil, err
	}
	ent := entity.FeatureVersionEntity{
		Id:         uuid.New().String(),
		BranchId:   branchId,
		FeatureId:  featureId,
		Geometry:   head.Geometry,
		Properties: head.Properties,
		Operation:  string(view.OperationDelete),
		Deleted:    true,
		CreatedBy:  ctx.GetUserId(),
		CreatedAt:  time.Now(),
		Comment:    comment,
	}
	return f.appendVersion(ctx, &ent, view.ATETDeleteFeature)
}

func (f featureVersionServiceImpl) GetFeatureHistory(branchId string, featureId string) (*view.FeatureVersions, error) {
	if err := f.requireBranch(branchId); err != nil {
		return nil, err
	}
	ents, err := f.featureVersionRepository.GetFeatureHistory(branchId, featureId)
	if err != nil {
		return nil, err
	}
	if len(ents) == 0 {
		return nil, &exception.CustomError{
			Status:  http.StatusNotFound,
			Code:    exception.FeatureNotFound,
			Message: exception.FeatureNotFoundMsg,
			Params:  map[string]interface{}{"featureId": featureId, "branchId": branchId},
		}
	}
	versions, err := entity.MakeFeatureVersionViews(ents)
	if err != nil {
		return nil, err
	}
	return &view.FeatureVersions{Versions: versions}, nil
}

func (f featureVersionServiceImpl) GetLatestFeatures(branchId string) (*view.FeatureVersions, error) {
	if err := f.requireBranch(branchId); err != nil {
		return nil, err
	}
	heads, err := f.featureVersionRepository.GetBranchHeads(branchId)
	if err != nil {
		return nil, err
	}
	live := make([]entity.FeatureVersionEntity, 0, len(heads))
	for _, head := range heads {
		if !head.Deleted {
			live = append(live, head)
		}
	}
	versions, err := entity.MakeFeatureVersionViews(live)
	if err != nil {
		return nil, err
	}
	return &view.FeatureVersions{Versions: versions}, nil
}

func (f featureVersionServiceImpl) appendVersion(ctx context.SecurityContext, ent *entity.FeatureVersionEntity, eventType view.ATEventType) (*view.FeatureVersion, error) {
	if err := f.featureVersionRepository.AppendVersion(ent); err != nil {
		return nil, err
	}
	metrics.FeatureVersionsAppended.WithLabelValues(ent.Operation).Inc()
	f.atService.TrackEvent(view.ActivityTrackingEvent{
		Type:       eventType,
		EntityType: view.EntityTypeFeature,
		EntityId:   ent.FeatureId,
		Data:       map[string]interface{}{"branchId": ent.BranchId, "version": ent.Version},
		Date:       time.Now(),
		UserId:     ctx.GetUserId(),
	})
	return entity.MakeFeatureVersionView(*ent)
}

func (f featureVersionServiceImpl) requireBranch(branchId string) error {
	branch, err := f.branchRepository.GetBranch(branchId)
	if err != nil {
		return err
	}
	if branch == nil {
		return &exception.CustomError{
			Status:  http.StatusNotFound,
			Code:    exception.BranchNotFound,
			Message: exception.BranchNotFoundMsg,
			Params:  map[string]interface{}{"branchId": branchId},
		}
	}
	return nil
}

// writableBranch loads the branch and checks it is active and editable by
// the actor.
func (f featureVersionServiceImpl) writableBranch(ctx context.SecurityContext, branchId string) (*entity.BranchEntity, error) {
	branch, err := f.branchRepository.GetBranch(branchId)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, &exception.CustomError{
			Status:  http.StatusNotFound,
			Code:    exception.BranchNotFound,
			Message: exception.BranchNotFoundMsg,
			Params:  map[string]interface{}{"branchId": branchId},
		}
	}
	if branch.Status != string(view.BranchStatusActive) {
		return nil, &exception.CustomError{
			Status:  http.StatusConflict,
			Code:    exception.BranchNotActive,
			Message: exception.BranchNotActiveMsg,
			Params:  map[string]interface{}{"branchId": branchId, "status": branch.Status},
		}
	}
	branchView := entity.MakeBranchView(*branch)
	hasAccess, err := f.roleService.CanEditBranch(ctx, &branchView)
	if err != nil {
		return nil, err
	}
	if !hasAccess {
		return nil, &exception.CustomError{
			Status:  http.StatusForbidden,
			Code:    exception.InsufficientPrivileges,
			Message: exception.InsufficientPrivilegesMsg,
			Debug:   "no rights to edit this branch",
		}
	}
	return branch, nil
}

func (f featureVersionServiceImpl) requireLiveFeature(branchId string, featureId string) error {
	head, err := f.featureVersionRepository.GetLatestVersion(branchId, featureId)
	if err != nil {
		return err
	}
	if head == nil || head.Deleted {
		return &exception.CustomError{
			Status:  http.StatusNotFound,
			Code:    exception.FeatureNotFound,
			Message: exception.FeatureNotFoundMsg,
			Params:  map[string]interface{}{"featureId": featureId, "branchId": branchId},
		}
	}
	return nil
}
