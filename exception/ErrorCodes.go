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

package exception

const IncorrectParamType = "5"
const IncorrectParamTypeMsg = "$param parameter should be $type"

const RequiredParamsMissing = "7"
const RequiredParamsMissingMsg = "Required parameters are missing: $params"

const InvalidParameterValue = "8"
const InvalidParameterValueMsg = "Value '$value' is not allowed for parameter $param"

const InsufficientPrivileges = "100"
const InsufficientPrivilegesMsg = "You don't have enough privileges to perform this operation"

const LayerNotFound = "200"
const LayerNotFoundMsg = "Layer with id = $layerId not found"

const BranchNotFound = "210"
const BranchNotFoundMsg = "Branch with id = $branchId not found"

const BranchAlreadyExists = "211"
const BranchAlreadyExistsMsg = "Branch with name = $name already exists for layer $layerId and creator $userId"

const MasterBranchProtected = "212"
const MasterBranchProtectedMsg = "The master branch of a layer can not be $operation"

const InvalidBranchStatusTransition = "213"
const InvalidBranchStatusTransitionMsg = "Branch status can not be changed from $currentStatus to $newStatus"

const BranchNotActive = "214"
const BranchNotActiveMsg = "Branch $branchId is not active (current status - $status)"

const ParentBranchLayerMismatch = "215"
const ParentBranchLayerMismatchMsg = "Parent branch $parentBranchId belongs to a different layer"

const LayerNotVersioned = "216"
const LayerNotVersionedMsg = "Layer $layerId is not a versioned vector layer"

const FeatureNotFound = "220"
const FeatureNotFoundMsg = "Feature with id = $featureId not found in branch $branchId"

const MergeRequestNotFound = "230"
const MergeRequestNotFoundMsg = "Merge request with id = $mergeRequestId not found"

const SameSourceAndTargetBranch = "231"
const SameSourceAndTargetBranchMsg = "Source and target branch of a merge request must differ"

const BranchesLayerMismatch = "232"
const BranchesLayerMismatchMsg = "Source branch $sourceBranchId and target branch $targetBranchId belong to different layers"

const MergeRequestNotReviewable = "233"
const MergeRequestNotReviewableMsg = "Merge request $mergeRequestId is already $status and can not be reviewed"

const UnresolvedConflicts = "234"
const UnresolvedConflictsMsg = "Merge request $mergeRequestId has $count unresolved conflicts"

const ConflictNotFound = "240"
const ConflictNotFoundMsg = "Conflict with id = $conflictId not found"

const InvalidResolutionStrategy = "241"
const InvalidResolutionStrategyMsg = "Resolution strategy '$strategy' is not valid"

const ManualResolutionFieldsMissing = "242"
const ManualResolutionFieldsMissingMsg = "Manual resolution requires both geometry and properties"

const InvalidRole = "250"
const InvalidRoleMsg = "Role '$role' is not valid"

const UserRoleNotFound = "251"
const UserRoleNotFoundMsg = "User $userId has no $role role in group $groupId"
