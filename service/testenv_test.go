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
	"testing"

	"github.com/Maredius/geodraft/context"
	"github.com/Maredius/geodraft/view"
	"github.com/iancoleman/orderedmap"
	"github.com/paulmach/orb"
)

type testEnv struct {
	branchRepo  *fakeBranchRepository
	featureRepo *fakeFeatureVersionRepository
	mrRepo      *fakeMergeRequestRepository
	roleRepo    *fakeRoleRepository
	platform    *fakePlatformClient
	audit       *fakeActivityTracking

	roleService         RoleService
	branchService       BranchService
	featureService      FeatureVersionService
	conflictService     ConflictService
	mergeService        MergeService
	mergeRequestService MergeRequestService
}

func newTestEnv() *testEnv {
	env := &testEnv{
		branchRepo:  newFakeBranchRepository(),
		featureRepo: newFakeFeatureVersionRepository(),
		roleRepo:    newFakeRoleRepository(),
		platform:    newFakePlatformClient(),
		audit:       newFakeActivityTracking(),
	}
	env.mrRepo = newFakeMergeRequestRepository(env.featureRepo, env.branchRepo)
	env.roleService = NewRoleService(env.roleRepo, env.platform, env.audit)
	env.branchService = NewBranchService(env.branchRepo, env.roleService, env.platform, env.audit)
	env.featureService = NewFeatureVersionService(env.featureRepo, env.branchRepo, env.roleService, env.audit)
	env.conflictService = NewConflictService(env.featureRepo, env.mrRepo, env.branchRepo, env.roleService, env.audit)
	env.mergeService = NewMergeService(env.featureRepo, env.branchRepo)
	env.mergeRequestService = NewMergeRequestService(env.mrRepo, env.branchRepo, env.conflictService, env.roleService, env.audit)
	return env
}

func (env *testEnv) addVectorLayer(layerId string, groupId string) {
	env.platform.layers[layerId] = &view.Layer{
		Id:      layerId,
		Name:    layerId,
		OwnerId: "owner",
		Subtype: view.LayerSubtypeVector,
		GroupId: groupId,
	}
}

func (env *testEnv) grantRole(t *testing.T, userId string, groupId string, role string) {
	t.Helper()
	sysadm := context.CreateWithSystemRole("sysadm", view.SysadmRole)
	_, err := env.roleService.SetUserRole(sysadm, view.UserRoleReq{
		UserId:  userId,
		GroupId: groupId,
		Role:    role,
	})
	if err != nil {
		t.Fatalf("failed to grant %s role to %s: %v", role, userId, err)
	}
}

// setupLayer provisions a vector layer with its master branch and returns the
// master branch id.
func (env *testEnv) setupLayer(t *testing.T, layerId string, groupId string) string {
	t.Helper()
	env.addVectorLayer(layerId, groupId)
	if err := env.branchService.OnLayerCreated(*env.platform.layers[layerId]); err != nil {
		t.Fatalf("failed to provision master branch: %v", err)
	}
	master, err := env.branchRepo.GetMasterBranch(layerId)
	if err != nil || master == nil {
		t.Fatalf("master branch missing for layer %s", layerId)
	}
	return master.Id
}

func (env *testEnv) createBranch(t *testing.T, ctx context.SecurityContext, layerId string, name string) *view.Branch {
	t.Helper()
	branch, err := env.branchService.CreateBranch(ctx, view.CreateBranchReq{
		Name:    name,
		LayerId: layerId,
	})
	if err != nil {
		t.Fatalf("failed to create branch %s: %v", name, err)
	}
	return branch
}

func point(x float64, y float64) orb.Geometry {
	return orb.Point{x, y}
}

func props(pairs ...string) *orderedmap.OrderedMap {
	result := orderedmap.New()
	for i := 0; i+1 < len(pairs); i += 2 {
		result.Set(pairs[i], pairs[i+1])
	}
	return result
}
