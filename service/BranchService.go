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

	"github.com/Maredius/geodraft/client"
	"github.com/Maredius/geodraft/context"
	"github.com/Maredius/geodraft/entity"
	"github.com/Maredius/geodraft/exception"
	"github.com/Maredius/geodraft/metrics"
	"github.com/Maredius/geodraft/repository"
	"github.com/Maredius/geodraft/utils"
	"github.com/Maredius/geodraft/view"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type BranchService interface {
	CreateBranch(ctx context.SecurityContext, req view.CreateBranchReq) (*view.Branch, error)
	GetBranch(id string) (*view.Branch, error)
	GetBranches(filter view.BranchesFilterReq) (*view.Branches, error)
	CloseBranch(ctx context.SecurityContext, id string) error
	DeleteBranch(ctx context.SecurityContext, id string) error
	// OnLayerCreated provisions the master branch for a freshly created
	// vector layer. Safe to call more than once for the same layer.
	OnLayerCreated(layer view.Layer) error
}

func NewBranchService(branchRepository repository.BranchRepository, roleService RoleService,
	platformClient client.PlatformClient, atService ActivityTrackingService) BranchService {
	return &branchServiceImpl{
		branchRepository: branchRepository,
		roleService:      roleService,
		platformClient:   platformClient,
		atService:        atService,
	}
}

type branchServiceImpl struct {
	branchRepository repository.BranchRepository
	roleService      RoleService
	platformClient   client.PlatformClient
	atService        ActivityTrackingService
}

func (b branchServiceImpl) CreateBranch(ctx context.SecurityContext, req view.CreateBranchReq) (*view.Branch, error) {
	if err := utils.ValidateObject(req); err != nil {
		return nil, err
	}
	layer, err := b.platformClient.GetLayer(req.LayerId)
	if err != nil {
		return nil, err
	}
	if layer == nil {
		return nil, &exception.CustomError{
			Status:  http.StatusNotFound,
			Code:    exception.LayerNotFound,
			Message: exception.LayerNotFoundMsg,
			Params:  map[string]interface{}{"layerId": req.LayerId},
		}
	}
	if layer.Subtype != view.LayerSubtypeVector {
		return nil, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.LayerNotVersioned,
			Message: exception.LayerNotVersionedMsg,
			Params:  map[string]interface{}{"layerId": req.LayerId},
		}
	}
	hasAccess, err := b.roleService.CanCreateBranch(ctx, layer)
	if err != nil {
		return nil, err
	}
	if !hasAccess {
		return nil, &exception.CustomError{
			Status:  http.StatusForbidden,
			Code:    exception.InsufficientPrivileges,
			Message: exception.InsufficientPrivilegesMsg,
			Debug:   "no rights to create branches for this layer",
		}
	}
	parentBranchId := req.ParentBranchId
	if parentBranchId == "" {
		master, err := b.branchRepository.GetMasterBranch(req.LayerId)
		if err != nil {
			return nil, err
		}
		if master == nil {
			return nil, &exception.CustomError{
				Status:  http.StatusNotFound,
				Code:    exception.BranchNotFound,
				Message: exception.BranchNotFoundMsg,
				Params:  map[string]interface{}{"branchId": view.MasterBranchName},
			}
		}
		parentBranchId = master.Id
	} else {
		parent, err := b.branchRepository.GetBranch(parentBranchId)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, &exception.CustomError{
				Status:  http.StatusNotFound,
				Code:    exception.BranchNotFound,
				Message: exception.BranchNotFoundMsg,
				Params:  map[string]interface{}{"branchId": parentBranchId},
			}
		}
		if parent.LayerId != req.LayerId {
			return nil, &exception.CustomError{
				Status:  http.StatusBadRequest,
				Code:    exception.ParentBranchLayerMismatch,
				Message: exception.ParentBranchLayerMismatchMsg,
				Params:  map[string]interface{}{"parentBranchId": parentBranchId},
			}
		}
		if parent.Status != string(view.BranchStatusActive) {
			return nil, &exception.CustomError{
				Status:  http.StatusBadRequest,
				Code:    exception.BranchNotActive,
				Message: exception.BranchNotActiveMsg,
				Params:  map[string]interface{}{"branchId": parentBranchId, "status": parent.Status},
			}
		}
	}
	exists, err := b.branchRepository.BranchExists(req.LayerId, req.Name, ctx.GetUserId())
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.BranchAlreadyExists,
			Message: exception.BranchAlreadyExistsMsg,
			Params:  map[string]interface{}{"name": req.Name, "layerId": req.LayerId, "userId": ctx.GetUserId()},
		}
	}
	groupId := req.GroupId
	if groupId == "" {
		groupId = layer.GroupId
	}
	ent := entity.BranchEntity{
		Id:             uuid.New().String(),
		Name:           req.Name,
		Description:    req.Description,
		LayerId:        req.LayerId,
		GroupId:        groupId,
		ParentBranchId: parentBranchId,
		CreatedBy:      ctx.GetUserId(),
		Status:         string(view.BranchStatusActive),
		CreatedAt:      time.Now(),
	}
	if err := b.branchRepository.CreateBranch(&ent); err != nil {
		return nil, err
	}
	metrics.BranchesCreated.WithLabelValues().Inc()
	b.atService.TrackEvent(view.ActivityTrackingEvent{
		Type:       view.ATETCreateBranch,
		EntityType: view.EntityTypeBranch,
		EntityId:   ent.Id,
		Data:       map[string]interface{}{"name": ent.Name, "layerId": ent.LayerId, "parentBranchId": ent.ParentBranchId},
		Date:       time.Now(),
		UserId:     ctx.GetUserId(),
	})
	result := entity.MakeBranchView(ent)
	return &result, nil
}

func (b branchServiceImpl) GetBranch(id string) (*view.Branch, error) {
	ent, err := b.branchRepository.GetBranch(id)
	if err != nil {
		return nil, err
	}
	if ent == nil {
		return nil, &exception.CustomError{
			Status:  http.StatusNotFound,
			Code:    exception.BranchNotFound,
			Message: exception.BranchNotFoundMsg,
			Params:  map[string]interface{}{"branchId": id},
		}
	}
	result := entity.MakeBranchView(*ent)
	return &result, nil
}

func (b branchServiceImpl) GetBranches(filter view.BranchesFilterReq) (*view.Branches, error) {
	if filter.Status != "" && !view.ValidBranchStatus(filter.Status) {
		return nil, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.InvalidParameterValue,
			Message: exception.InvalidParameterValueMsg,
			Params:  map[string]interface{}{"param": "status", "value": string(filter.Status)},
		}
	}
	ents, err := b.branchRepository.GetBranches(filter)
	if err != nil {
		return nil, err
	}
	branches := make([]view.Branch, 0, len(ents))
	for _, ent := range ents {
		branches = append(branches, entity.MakeBranchView(ent))
	}
	return &view.Branches{Branches: branches}, nil
}

func (b branchServiceImpl) CloseBranch(ctx context.SecurityContext, id string) error {
	return b.retireBranch(ctx, id, view.BranchStatusClosed)
}

func (b branchServiceImpl) DeleteBranch(ctx context.SecurityContext, id string) error {
	return b.retireBranch(ctx, id, view.BranchStatusDeleted)
}

// retireBranch moves an active branch to a terminal status. Deletion is a
// status change, the version ledger underneath is never erased.
func (b branchServiceImpl) retireBranch(ctx context.SecurityContext, id string, status view.BranchStatus) error {
	ent, err := b.branchRepository.GetBranch(id)
	if err != nil {
		return err
	}
	if ent == nil {
		return &exception.CustomError{
			Status:  http.StatusNotFound,
			Code:    exception.BranchNotFound,
			Message: exception.BranchNotFoundMsg,
			Params:  map[string]interface{}{"branchId": id},
		}
	}
	if ent.IsMaster() {
		operation := "closed"
		if status == view.BranchStatusDeleted {
			operation = "deleted"
		}
		return &exception.CustomError{
			Status:  http.StatusConflict,
			Code:    exception.MasterBranchProtected,
			Message: exception.MasterBranchProtectedMsg,
			Params:  map[string]interface{}{"operation": operation},
		}
	}
	branchView := entity.MakeBranchView(*ent)
	var hasAccess bool
	if status == view.BranchStatusDeleted {
		hasAccess, err = b.roleService.CanDeleteBranch(ctx, &branchView)
	} else {
		hasAccess, err = b.roleService.CanEditBranch(ctx, &branchView)
	}
	if err != nil {
		return err
	}
	if !hasAccess {
		return &exception.CustomError{
			Status:  http.StatusForbidden,
			Code:    exception.InsufficientPrivileges,
			Message: exception.InsufficientPrivilegesMsg,
			Debug:   "no rights to change this branch",
		}
	}
	if !view.ValidBranchStatusTransition(view.BranchStatus(ent.Status), status) {
		return &exception.CustomError{
			Status:  http.StatusConflict,
			Code:    exception.InvalidBranchStatusTransition,
			Message: exception.InvalidBranchStatusTransitionMsg,
			Params:  map[string]interface{}{"currentStatus": ent.Status, "newStatus": string(status)},
		}
	}
	if err := b.branchRepository.UpdateBranchStatus(id, string(status), nil); err != nil {
		return err
	}
	eventType := view.ATETCloseBranch
	if status == view.BranchStatusDeleted {
		eventType = view.ATETDeleteBranch
	}
	b.atService.TrackEvent(view.ActivityTrackingEvent{
		Type:       eventType,
		EntityType: view.EntityTypeBranch,
		EntityId:   id,
		Data:       map[string]interface{}{"name": ent.Name, "layerId": ent.LayerId},
		Date:       time.Now(),
		UserId:     ctx.GetUserId(),
	})
	return nil
}

func (b branchServiceImpl) OnLayerCreated(layer view.Layer) error {
	if layer.Subtype != view.LayerSubtypeVector {
		return nil
	}
	existing, err := b.branchRepository.GetMasterBranch(layer.Id)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	ent := entity.BranchEntity{
		Id:        uuid.New().String(),
		Name:      view.MasterBranchName,
		LayerId:   layer.Id,
		GroupId:   layer.GroupId,
		CreatedBy: layer.OwnerId,
		Status:    string(view.BranchStatusActive),
		CreatedAt: time.Now(),
	}
	if err := b.branchRepository.CreateBranch(&ent); err != nil {
		return err
	}
	log.Infof("Created master branch %s for layer %s", ent.Id, layer.Id)
	metrics.BranchesCreated.WithLabelValues().Inc()
	return nil
}
