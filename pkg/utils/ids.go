package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateMachineID creates a short, human-readable machine id.
// Format: {machineType}-{8charHexUUID}
//
// Example:
//   - Input: machineType="fuel_burner"
//   - Output: "fuel-burner-a3f8e2b1"
func GenerateMachineID(machineType string) string {
	prefix := strings.ReplaceAll(strings.ToLower(machineType), "_", "-")
	if prefix == "" {
		prefix = "machine"
	}
	return prefix + "-" + generateShortUUID()
}

// generateShortUUID creates an 8-character hex string from a UUID.
// This provides sufficient uniqueness while keeping IDs compact.
func generateShortUUID() string {
	id := uuid.New()
	return strings.ReplaceAll(id.String(), "-", "")[:8]
}
