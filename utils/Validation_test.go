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

package utils

import (
	"errors"
	"net/http"
	"testing"

	"github.com/Maredius/geodraft/exception"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type validationTestReq struct {
	Name    string `json:"name" validate:"required"`
	LayerId string `json:"layerId" validate:"required"`
	Comment string `json:"comment"`
}

func TestValidateObject_Valid(t *testing.T) {
	err := ValidateObject(validationTestReq{Name: "draft", LayerId: "layer1"})
	assert.NoError(t, err)
}

func TestValidateObject_MissingRequiredParams(t *testing.T) {
	err := ValidateObject(validationTestReq{Comment: "no required fields set"})
	require.Error(t, err)

	var customErr *exception.CustomError
	require.True(t, errors.As(err, &customErr))
	assert.Equal(t, http.StatusBadRequest, customErr.Status)
	assert.Equal(t, exception.RequiredParamsMissing, customErr.Code)
	assert.Equal(t, "name, layerId", customErr.Params["params"])
}

func TestValidateObject_ReportsJsonNames(t *testing.T) {
	err := ValidateObject(validationTestReq{Name: "draft"})
	require.Error(t, err)

	var customErr *exception.CustomError
	require.True(t, errors.As(err, &customErr))
	assert.Equal(t, "layerId", customErr.Params["params"])
}
