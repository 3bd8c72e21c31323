// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package test

import (
	"testing"

	"github.com/consensys/go-infer/pkg/test/util"
)

// ===================================================================
// Coercion
// ===================================================================

func Test_Valid_Coercion_01(t *testing.T) {
	util.CheckValid(t, "coercion_01")
}

// ===================================================================
// Default
// ===================================================================

func Test_Valid_Default_01(t *testing.T) {
	util.CheckValid(t, "default_01")
}

// ===================================================================
// Extension
// ===================================================================

func Test_Valid_Extension_01(t *testing.T) {
	util.CheckValid(t, "extension_01")
}

// ===================================================================
// Generic
// ===================================================================

func Test_Valid_Generic_01(t *testing.T) {
	util.CheckValid(t, "generic_01")
}

func Test_Valid_Generic_02(t *testing.T) {
	util.CheckValid(t, "generic_02")
}

func Test_Valid_Generic_03(t *testing.T) {
	util.CheckValid(t, "generic_03")
}

func Test_Valid_Generic_04(t *testing.T) {
	util.CheckValid(t, "generic_04")
}

// ===================================================================
// Invoke
// ===================================================================

func Test_Valid_Invoke_01(t *testing.T) {
	util.CheckValid(t, "invoke_01")
}

// ===================================================================
// Lambda
// ===================================================================

func Test_Valid_Lambda_01(t *testing.T) {
	util.CheckValid(t, "lambda_01")
}

func Test_Valid_Lambda_02(t *testing.T) {
	util.CheckValid(t, "lambda_02")
}

// ===================================================================
// Member
// ===================================================================

func Test_Valid_Member_01(t *testing.T) {
	util.CheckValid(t, "member_01")
}

// ===================================================================
// Overload
// ===================================================================

func Test_Valid_Overload_01(t *testing.T) {
	util.CheckValid(t, "overload_01")
}

func Test_Valid_Overload_02(t *testing.T) {
	util.CheckValid(t, "overload_02")
}

func Test_Valid_Overload_03(t *testing.T) {
	util.CheckValid(t, "overload_03")
}

// ===================================================================
// Property
// ===================================================================

func Test_Valid_Property_01(t *testing.T) {
	util.CheckValid(t, "property_01")
}

// ===================================================================
// Scope
// ===================================================================

func Test_Valid_Scope_01(t *testing.T) {
	util.CheckValid(t, "scope_01")
}
