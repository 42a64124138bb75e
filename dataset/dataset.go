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

// Package dataset holds the tabular input data the private queries run over.
//
// A dataset is a read-only collection of records, where each record maps
// attribute names to numeric or categorical values. The queries in this
// library only ever read a single named numeric attribute per call; all other
// columns are carried along untouched.
package dataset

import (
	"errors"
	"fmt"
)

// Sentinel errors for attribute access failures.
var (
	// ErrAttributeNotFound indicates that a record has no attribute with the
	// requested name.
	ErrAttributeNotFound = errors.New("attribute not found")
	// ErrTypeMismatch indicates that the requested attribute exists but does
	// not hold a numeric value.
	ErrTypeMismatch = errors.New("attribute type mismatch")
)

// Record maps attribute names to values. Values are either numeric (stored as
// float64 or any integer type) or categorical (stored as string).
type Record map[string]any

// Float64 returns the named attribute as a float64. It fails with
// ErrAttributeNotFound if the attribute is absent and with ErrTypeMismatch if
// the attribute holds a non-numeric value.
func (r Record) Float64(attribute string) (float64, error) {
	v, ok := r[attribute]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrAttributeNotFound, attribute)
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("%w: %q holds %T, want a numeric value", ErrTypeMismatch, attribute, v)
	}
}

// Dataset is an ordered collection of records. The order carries no meaning
// for any query in this library; it is kept stable so that results are
// reproducible under a deterministic mechanism.
//
// Datasets are treated as read-only by every query.
type Dataset struct {
	records []Record
}

// New returns a Dataset over the given records. The records are not copied;
// callers must not mutate them afterwards.
func New(records []Record) Dataset {
	return Dataset{records: records}
}

// Len returns the number of records.
func (ds Dataset) Len() int {
	return len(ds.records)
}

// Records returns the records in their stable order.
func (ds Dataset) Records() []Record {
	return ds.records
}

// CheckNumericAttribute verifies that every record carries the named
// attribute with a numeric value. Queries call it before consuming any
// privacy budget, so that a malformed dataset never costs epsilon.
func (ds Dataset) CheckNumericAttribute(attribute string) error {
	for i, r := range ds.records {
		if _, err := r.Float64(attribute); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}
	return nil
}
