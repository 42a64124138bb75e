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

package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// FromCSV reads a dataset from CSV data. The first row names the attributes.
// Cells that parse as a float64 become numeric values; all other cells are
// kept as categorical strings.
func FromCSV(r io.Reader) (Dataset, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err == io.EOF {
		return Dataset{}, fmt.Errorf("csv input is empty, expected a header row")
	}
	if err != nil {
		return Dataset{}, fmt.Errorf("couldn't read the csv header, err = %v", err)
	}

	records := make([]Record, 0)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Dataset{}, fmt.Errorf("couldn't read csv row %d, err = %v", len(records)+2, err)
		}
		record := make(Record, len(header))
		for i, cell := range row {
			if f, err := strconv.ParseFloat(cell, 64); err == nil {
				record[header[i]] = f
			} else {
				record[header[i]] = cell
			}
		}
		records = append(records, record)
	}
	return New(records), nil
}

// FromCSVFile reads a dataset from the named CSV file.
func FromCSVFile(name string) (Dataset, error) {
	f, err := os.Open(name)
	if err != nil {
		return Dataset{}, fmt.Errorf("couldn't open the csv file = %q, err = %v", name, err)
	}
	defer f.Close()
	ds, err := FromCSV(f)
	if err != nil {
		return Dataset{}, fmt.Errorf("couldn't read the csv file = %q: %v", name, err)
	}
	return ds, nil
}
