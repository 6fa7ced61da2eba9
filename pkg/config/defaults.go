package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// defaultSeats returns the standard two-row lab layout, R11-R16 and
// R21-R26.
func defaultSeats() []string {
	seats := make([]string, 0, 12)
	for row := 1; row <= 2; row++ {
		for col := 1; col <= 6; col++ {
			seats = append(seats, fmt.Sprintf("R%d%d", row, col))
		}
	}
	return seats
}

// defaultDBPath returns the default database file path.
//
// Returns: ~/.config/labseat/board.db.
func defaultDBPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./board.db"
	}

	return filepath.Join(homeDir, ".config", "labseat", "board.db")
}

// DefaultConfigPath returns the default configuration file path.
//
// Returns: ~/.config/labseat/config.yaml.
func DefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./labseat.yaml"
	}

	return filepath.Join(homeDir, ".config", "labseat", "config.yaml")
}
