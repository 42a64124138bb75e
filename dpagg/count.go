//
// Copyright 2026 The boundsearch authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//

package dpagg

import (
	"github.com/privacylab/boundsearch/dataset"
)

// CountQuery counts the records of a dataset. Adding or removing one record
// changes the count by exactly one, so its sensitivity is 1 regardless of the
// attribute values.
type CountQuery struct{}

// Sensitivity returns 1.
func (CountQuery) Sensitivity() float64 {
	return 1
}

// Eval returns the true, non-private record count.
func (CountQuery) Eval(ds dataset.Dataset) (float64, error) {
	return float64(ds.Len()), nil
}
