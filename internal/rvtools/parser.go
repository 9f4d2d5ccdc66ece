// Package rvtools parses RVTools xlsx exports into the analyzer inventory.
package rvtools

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	api "github.com/cloudshift/migration-analyzer/api/v1alpha1"
)

const mibPerGB = 1024.0

// ParseRVTools reads the vInfo sheet of an RVTools export and builds the VM
// inventory. Sheets other than vInfo are optional; malformed cells degrade to
// zero values, a missing vInfo sheet is an error.
func ParseRVTools(rvtoolsContent []byte) (*api.Inventory, error) {
	excelFile, err := excelize.OpenReader(bytes.NewReader(rvtoolsContent))
	if err != nil {
		return nil, fmt.Errorf("error opening Excel file: %v", err)
	}
	defer excelFile.Close()

	sheets := excelFile.GetSheetList()
	if !slices.Contains(sheets, "vInfo") {
		return nil, fmt.Errorf("vInfo sheet not found")
	}

	vInfoRows := readSheet(excelFile, sheets, "vInfo")
	if len(vInfoRows) < 2 {
		return nil, fmt.Errorf("vInfo sheet has no data rows")
	}

	zap.S().Named("rvtools").Infof("Process VMs")
	vms := processVMInfo(vInfoRows)

	vcenterUUID, err := extractVCenterUUID(vInfoRows)
	if err != nil {
		zap.S().Named("rvtools").Warnf("Could not extract vCenter UUID: %v", err)
	}

	return &api.Inventory{
		VcenterID: vcenterUUID,
		Vms:       vms,
	}, nil
}

func processVMInfo(vInfoRows [][]string) []api.VM {
	colMap := buildColumnMap(vInfoRows[0])
	vms := make([]api.VM, 0, len(vInfoRows)-1)

	for _, row := range vInfoRows[1:] {
		if len(row) == 0 {
			continue
		}

		name := getColumnValue(row, colMap, "vm")
		if name == "" {
			continue
		}

		storageMiB := parseFormattedFloat(getColumnValue(row, colMap, "provisioned mib"))
		if storageMiB == 0 {
			storageMiB = parseFormattedFloat(getColumnValue(row, colMap, "in use mib"))
		}

		vms = append(vms, api.VM{
			Name:       name,
			CpuCount:   int(parseIntOrZero(getColumnValue(row, colMap, "cpus"))),
			MemoryMB:   int(parseMemoryMB(getColumnValue(row, colMap, "memory"))),
			StorageGB:  storageMiB / mibPerGB,
			PowerState: getColumnValue(row, colMap, "powerstate"),
			CreatedAt:  getColumnValue(row, colMap, "creation date"),
			OsConfig:   getColumnValue(row, colMap, "os according to the configuration file"),
			OsTools:    getColumnValue(row, colMap, "os according to the vmware tools"),
		})
	}

	return vms
}

func extractVCenterUUID(rows [][]string) (string, error) {
	if len(rows) < 2 {
		return "", fmt.Errorf("insufficient data")
	}

	header := rows[0]
	data := rows[1]

	for i, colName := range header {
		if colName == "VI SDK UUID" && i < len(data) {
			return data[i], nil
		}
	}

	return "", fmt.Errorf("VI SDK UUID column not found")
}
