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

package context

// SecurityContext identifies the actor of an operation. It is created by the
// hosting platform's authentication layer; the core only reads it.
type SecurityContext interface {
	GetUserId() string
	GetUserSystemRole() string
}

func CreateFromId(userId string) SecurityContext {
	return &securityContextImpl{
		userId: userId,
	}
}

func CreateWithSystemRole(userId string, systemRole string) SecurityContext {
	return &securityContextImpl{
		userId:     userId,
		systemRole: systemRole,
	}
}

func CreateSystemContext() SecurityContext {
	return &securityContextImpl{userId: "system"}
}

type securityContextImpl struct {
	userId     string
	systemRole string
}

func (ctx securityContextImpl) GetUserId() string {
	return ctx.userId
}

func (ctx securityContextImpl) GetUserSystemRole() string {
	return ctx.systemRole
}
