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
	"errors"
	"net/http"
	"testing"

	"github.com/Maredius/geodraft/context"
	"github.com/Maredius/geodraft/exception"
	"github.com/Maredius/geodraft/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnLayerCreated_ProvisionsMasterBranch(t *testing.T) {
	env := newTestEnv()
	env.addVectorLayer("layer1", "group1")

	require.NoError(t, env.branchService.OnLayerCreated(*env.platform.layers["layer1"]))
	master, err := env.branchRepo.GetMasterBranch("layer1")
	require.NoError(t, err)
	require.NotNil(t, master)
	assert.Equal(t, view.MasterBranchName, master.Name)
	assert.Equal(t, string(view.BranchStatusActive), master.Status)
	assert.True(t, master.IsMaster())
}

func TestOnLayerCreated_Idempotent(t *testing.T) {
	env := newTestEnv()
	env.addVectorLayer("layer1", "group1")

	require.NoError(t, env.branchService.OnLayerCreated(*env.platform.layers["layer1"]))
	first, err := env.branchRepo.GetMasterBranch("layer1")
	require.NoError(t, err)

	require.NoError(t, env.branchService.OnLayerCreated(*env.platform.layers["layer1"]))
	second, err := env.branchRepo.GetMasterBranch("layer1")
	require.NoError(t, err)
	assert.Equal(t, first.Id, second.Id)

	branches, err := env.branchService.GetBranches(view.BranchesFilterReq{LayerId: "layer1"})
	require.NoError(t, err)
	assert.Len(t, branches.Branches, 1)
}

func TestOnLayerCreated_SkipsNonVectorLayer(t *testing.T) {
	env := newTestEnv()
	layer := view.Layer{Id: "raster1", Subtype: "raster"}
	require.NoError(t, env.branchService.OnLayerCreated(layer))
	master, err := env.branchRepo.GetMasterBranch("raster1")
	require.NoError(t, err)
	assert.Nil(t, master)
}

func TestCreateBranch_DefaultsParentToMaster(t *testing.T) {
	env := newTestEnv()
	env.grantRole(t, "editor", "group1", view.RoleEditor)
	masterId := env.setupLayer(t, "layer1", "group1")
	editor := context.CreateFromId("editor")

	branch := env.createBranch(t, editor, "layer1", "draft")
	assert.Equal(t, masterId, branch.ParentBranchId)
	assert.Equal(t, view.BranchStatusActive, branch.Status)
	assert.Equal(t, "editor", branch.CreatedBy)
	assert.Equal(t, "group1", branch.GroupId)
	assert.False(t, branch.IsMaster())
}

func TestCreateBranch_DuplicateNameRejected(t *testing.T) {
	env := newTestEnv()
	env.grantRole(t, "editor", "group1", view.RoleEditor)
	env.setupLayer(t, "layer1", "group1")
	editor := context.CreateFromId("editor")

	env.createBranch(t, editor, "layer1", "draft")
	_, err := env.branchService.CreateBranch(editor, view.CreateBranchReq{Name: "draft", LayerId: "layer1"})
	require.Error(t, err)
	var customErr *exception.CustomError
	require.True(t, errors.As(err, &customErr))
	assert.Equal(t, exception.BranchAlreadyExists, customErr.Code)
	assert.Equal(t, http.StatusBadRequest, customErr.Status)
}

func TestCreateBranch_NameReusableAfterClose(t *testing.T) {
	env := newTestEnv()
	env.grantRole(t, "editor", "group1", view.RoleEditor)
	env.setupLayer(t, "layer1", "group1")
	editor := context.CreateFromId("editor")

	first := env.createBranch(t, editor, "layer1", "draft")
	require.NoError(t, env.branchService.CloseBranch(editor, first.Id))

	second, err := env.branchService.CreateBranch(editor, view.CreateBranchReq{Name: "draft", LayerId: "layer1"})
	require.NoError(t, err)
	assert.NotEqual(t, first.Id, second.Id)
	assert.Equal(t, view.BranchStatusActive, second.Status)
}

func TestCreateBranch_UnknownLayer(t *testing.T) {
	env := newTestEnv()
	ctx := context.CreateWithSystemRole("sysadm", view.SysadmRole)
	_, err := env.branchService.CreateBranch(ctx, view.CreateBranchReq{Name: "draft", LayerId: "missing"})
	require.Error(t, err)
	var customErr *exception.CustomError
	require.True(t, errors.As(err, &customErr))
	assert.Equal(t, exception.LayerNotFound, customErr.Code)
}

func TestCreateBranch_NonVectorLayerRejected(t *testing.T) {
	env := newTestEnv()
	env.platform.layers["raster1"] = &view.Layer{Id: "raster1", Subtype: "raster"}
	ctx := context.CreateWithSystemRole("sysadm", view.SysadmRole)
	_, err := env.branchService.CreateBranch(ctx, view.CreateBranchReq{Name: "draft", LayerId: "raster1"})
	require.Error(t, err)
	var customErr *exception.CustomError
	require.True(t, errors.As(err, &customErr))
	assert.Equal(t, exception.LayerNotVersioned, customErr.Code)
}

func TestCreateBranch_ParentFromDifferentLayerRejected(t *testing.T) {
	env := newTestEnv()
	env.grantRole(t, "editor", "group1", view.RoleEditor)
	env.setupLayer(t, "layer1", "group1")
	otherMasterId := env.setupLayer(t, "layer2", "group1")
	editor := context.CreateFromId("editor")

	_, err := env.branchService.CreateBranch(editor, view.CreateBranchReq{
		Name:           "draft",
		LayerId:        "layer1",
		ParentBranchId: otherMasterId,
	})
	require.Error(t, err)
	var customErr *exception.CustomError
	require.True(t, errors.As(err, &customErr))
	assert.Equal(t, exception.ParentBranchLayerMismatch, customErr.Code)
}

func TestCreateBranch_NoPrivileges(t *testing.T) {
	env := newTestEnv()
	env.setupLayer(t, "layer1", "group1")
	stranger := context.CreateFromId("stranger")

	_, err := env.branchService.CreateBranch(stranger, view.CreateBranchReq{Name: "draft", LayerId: "layer1"})
	require.Error(t, err)
	var customErr *exception.CustomError
	require.True(t, errors.As(err, &customErr))
	assert.Equal(t, exception.InsufficientPrivileges, customErr.Code)
}

func TestCreateBranch_GrouplessLayerUsesPlatformPermission(t *testing.T) {
	env := newTestEnv()
	env.setupLayer(t, "layer1", "")
	user := context.CreateFromId("user1")

	_, err := env.branchService.CreateBranch(user, view.CreateBranchReq{Name: "draft", LayerId: "layer1"})
	require.Error(t, err)

	env.platform.permissions["user1/layer1"] = true
	branch, err := env.branchService.CreateBranch(user, view.CreateBranchReq{Name: "draft", LayerId: "layer1"})
	require.NoError(t, err)
	assert.Equal(t, "user1", branch.CreatedBy)
}

func TestDeleteBranch_MasterProtected(t *testing.T) {
	env := newTestEnv()
	masterId := env.setupLayer(t, "layer1", "group1")
	sysadm := context.CreateWithSystemRole("sysadm", view.SysadmRole)

	err := env.branchService.DeleteBranch(sysadm, masterId)
	require.Error(t, err)
	var customErr *exception.CustomError
	require.True(t, errors.As(err, &customErr))
	assert.Equal(t, exception.MasterBranchProtected, customErr.Code)
	assert.Equal(t, http.StatusConflict, customErr.Status)

	master, getErr := env.branchService.GetBranch(masterId)
	require.NoError(t, getErr)
	assert.Equal(t, view.BranchStatusActive, master.Status)
}

func TestCloseBranch_MasterProtected(t *testing.T) {
	env := newTestEnv()
	masterId := env.setupLayer(t, "layer1", "group1")
	sysadm := context.CreateWithSystemRole("sysadm", view.SysadmRole)

	err := env.branchService.CloseBranch(sysadm, masterId)
	require.Error(t, err)
	var customErr *exception.CustomError
	require.True(t, errors.As(err, &customErr))
	assert.Equal(t, exception.MasterBranchProtected, customErr.Code)
}

func TestDeleteBranch_SoftDelete(t *testing.T) {
	env := newTestEnv()
	env.grantRole(t, "editor", "group1", view.RoleEditor)
	env.setupLayer(t, "layer1", "group1")
	editor := context.CreateFromId("editor")
	branch := env.createBranch(t, editor, "layer1", "draft")

	_, err := env.featureService.CreateFeature(editor, view.CreateFeatureReq{
		BranchId:   branch.Id,
		Geometry:   point(0, 0),
		Properties: props("name", "road"),
	})
	require.NoError(t, err)

	require.NoError(t, env.branchService.DeleteBranch(editor, branch.Id))
	deleted, err := env.branchService.GetBranch(branch.Id)
	require.NoError(t, err)
	assert.Equal(t, view.BranchStatusDeleted, deleted.Status)

	// the ledger under a deleted branch stays readable
	heads, err := env.featureRepo.GetBranchHeads(branch.Id)
	require.NoError(t, err)
	assert.Len(t, heads, 1)
}

func TestCloseBranch_TerminalStatusRejected(t *testing.T) {
	env := newTestEnv()
	env.grantRole(t, "editor", "group1", view.RoleEditor)
	env.setupLayer(t, "layer1", "group1")
	editor := context.CreateFromId("editor")
	branch := env.createBranch(t, editor, "layer1", "draft")

	require.NoError(t, env.branchService.CloseBranch(editor, branch.Id))
	err := env.branchService.CloseBranch(editor, branch.Id)
	require.Error(t, err)
	var customErr *exception.CustomError
	require.True(t, errors.As(err, &customErr))
	assert.Equal(t, exception.InvalidBranchStatusTransition, customErr.Code)
}

func TestGetBranches_Filtering(t *testing.T) {
	env := newTestEnv()
	env.grantRole(t, "editor", "group1", view.RoleEditor)
	env.grantRole(t, "other", "group1", view.RoleEditor)
	env.setupLayer(t, "layer1", "group1")
	editor := context.CreateFromId("editor")
	other := context.CreateFromId("other")

	env.createBranch(t, editor, "layer1", "draft-a")
	env.createBranch(t, other, "layer1", "draft-b")

	byCreator, err := env.branchService.GetBranches(view.BranchesFilterReq{LayerId: "layer1", CreatedBy: "editor"})
	require.NoError(t, err)
	require.Len(t, byCreator.Branches, 1)
	assert.Equal(t, "draft-a", byCreator.Branches[0].Name)

	active, err := env.branchService.GetBranches(view.BranchesFilterReq{LayerId: "layer1", Status: view.BranchStatusActive})
	require.NoError(t, err)
	assert.Len(t, active.Branches, 3)
}

func TestGetBranch_NotFound(t *testing.T) {
	env := newTestEnv()
	_, err := env.branchService.GetBranch("missing")
	require.Error(t, err)
	var customErr *exception.CustomError
	require.True(t, errors.As(err, &customErr))
	assert.Equal(t, exception.BranchNotFound, customErr.Code)
}
