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

package client

import (
	"github.com/Maredius/geodraft/view"
)

// PlatformClient is implemented by the hosting geospatial platform. It exposes
// the layer registry and resource-level permission checks the core needs but
// does not own.
type PlatformClient interface {
	// GetLayer returns nil with no error if the layer does not exist.
	GetLayer(layerId string) (*view.Layer, error)
	// HasResourcePermission reports whether the user holds the platform's
	// edit permission on the layer resource. Used as a fallback when a layer
	// is not bound to any group.
	HasResourcePermission(userId string, layerId string) (bool, error)
}
