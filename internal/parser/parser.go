package parser

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"fleet-dashboard/internal/logger"
	"fleet-dashboard/internal/models"
)

// Parser handles parsing of seed vehicle files
type Parser struct {
	format string
}

// NewParser creates a new parser with the specified format
func NewParser(format string) *Parser {
	return &Parser{format: format}
}

// DetectFormat guesses the format from the file extension
func DetectFormat(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json", ".jsonl", ".ndjson":
		return "json"
	case ".log", ".txt":
		return "log"
	}
	return "csv"
}

// ParseFile parses a vehicle file
func (p *Parser) ParseFile(filename string) ([]models.Vehicle, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return p.Parse(file)
}

// Parse parses vehicles from r
func (p *Parser) Parse(r io.Reader) ([]models.Vehicle, error) {
	switch strings.ToLower(p.format) {
	case "csv":
		return p.parseCSV(r)
	case "json":
		return p.parseJSON(r)
	case "log":
		return p.parseLog(r)
	default:
		return nil, fmt.Errorf("unsupported format: %s", p.format)
	}
}

// parseCSV parses CSV formatted vehicles with a header line
func (p *Parser) parseCSV(r io.Reader) ([]models.Vehicle, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Allow variable fields

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	indices := make(map[string]int)
	for i, h := range header {
		indices[strings.ToLower(strings.TrimSpace(h))] = i
	}

	var results []models.Vehicle
	lineNum := 1

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return results, fmt.Errorf("error at line %d: %w", lineNum, err)
		}
		lineNum++

		v, err := recordToVehicle(record, indices)
		if err != nil {
			logger.Warn().Int("line", lineNum).Err(err).Msg("skipping vehicle")
			continue
		}
		results = append(results, v)
	}

	return results, nil
}

// recordToVehicle converts a CSV record to a Vehicle
func recordToVehicle(record []string, indices map[string]int) (models.Vehicle, error) {
	getValue := func(keys ...string) string {
		for _, key := range keys {
			if idx, ok := indices[key]; ok && idx < len(record) {
				return strings.TrimSpace(record[idx])
			}
		}
		return ""
	}

	v := models.Vehicle{
		ID:     getValue("id", "vehicle_id"),
		Plate:  getValue("plate"),
		Kind:   getValue("kind", "type"),
		Group:  getValue("group"),
		Fleet:  getValue("fleet"),
		Driver: getValue("driver"),
		Status: models.VehicleStatus(strings.ToLower(getValue("status"))),
		State:  getValue("state"),
	}
	if v.ID == "" {
		return v, fmt.Errorf("missing id")
	}

	v.SpeedKmh, _ = strconv.Atoi(getValue("speed_kmh", "speed"))
	v.LastSignalSec, _ = strconv.Atoi(getValue("last_signal_sec"))
	v.DistanceTodayKm, _ = strconv.Atoi(getValue("distance_today_km"))
	v.FuelTodayL, _ = strconv.Atoi(getValue("fuel_today_l"))
	v.IdleMin, _ = strconv.Atoi(getValue("idle_min"))

	return v, nil
}

// parseJSON parses a JSON array of vehicles, or newline-delimited JSON
func (p *Parser) parseJSON(r io.Reader) ([]models.Vehicle, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	var results []models.Vehicle
	if err := json.Unmarshal(data, &results); err == nil {
		return results, nil
	}

	return p.parseJSONLines(bytes.NewReader(data))
}

// parseJSONLines parses newline-delimited JSON
func (p *Parser) parseJSONLines(r io.Reader) ([]models.Vehicle, error) {
	var results []models.Vehicle
	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line == "[" || line == "]" {
			continue
		}

		// Remove trailing comma if present
		line = strings.TrimSuffix(line, ",")

		var v models.Vehicle
		if err := json.Unmarshal([]byte(line), &v); err != nil {
			logger.Warn().Int("line", lineNum).Err(err).Msg("skipping vehicle")
			continue
		}
		results = append(results, v)
	}

	return results, scanner.Err()
}

// parseLog parses the pipe format:
// id|plate|kind|group|fleet|driver|status|state|speed|last_signal|distance|fuel|idle
func (p *Parser) parseLog(r io.Reader) ([]models.Vehicle, error) {
	var results []models.Vehicle
	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, "|")
		if len(parts) < 8 {
			logger.Warn().Int("line", lineNum).Msg("insufficient fields")
			continue
		}
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}

		v := models.Vehicle{
			ID:     parts[0],
			Plate:  parts[1],
			Kind:   parts[2],
			Group:  parts[3],
			Fleet:  parts[4],
			Driver: parts[5],
			Status: models.VehicleStatus(strings.ToLower(parts[6])),
			State:  parts[7],
		}

		nums := []*int{&v.SpeedKmh, &v.LastSignalSec, &v.DistanceTodayKm, &v.FuelTodayL, &v.IdleMin}
		for i, dst := range nums {
			if 8+i < len(parts) {
				*dst, _ = strconv.Atoi(parts[8+i])
			}
		}

		results = append(results, v)
	}

	return results, scanner.Err()
}

// ValidateVehicle validates a seed vehicle
func ValidateVehicle(v *models.Vehicle) []string {
	var errors []string

	if v.ID == "" {
		errors = append(errors, "id is required")
	}
	if v.Plate == "" {
		errors = append(errors, "plate is required")
	}
	if v.Fleet == "" {
		errors = append(errors, "fleet is required")
	}
	if !v.Status.Valid() {
		errors = append(errors, "status must be online, attention or critical")
	}
	if v.SpeedKmh < 0 {
		errors = append(errors, "speed_kmh cannot be negative")
	}
	if v.LastSignalSec < 0 {
		errors = append(errors, "last_signal_sec cannot be negative")
	}
	if v.DistanceTodayKm < 0 || v.FuelTodayL < 0 || v.IdleMin < 0 {
		errors = append(errors, "daily totals cannot be negative")
	}

	return errors
}

// Split separates valid vehicles from invalid ones, keyed by id or position
func Split(vehicles []models.Vehicle) ([]models.Vehicle, map[string][]string) {
	valid := make([]models.Vehicle, 0, len(vehicles))
	invalid := make(map[string][]string)
	seen := make(map[string]bool)

	for i := range vehicles {
		v := &vehicles[i]
		errs := ValidateVehicle(v)
		if v.ID != "" && seen[v.ID] {
			errs = append(errs, "duplicate id")
		}
		if len(errs) > 0 {
			key := v.ID
			if key == "" {
				key = fmt.Sprintf("#%d", i+1)
			}
			invalid[key] = errs
			continue
		}
		seen[v.ID] = true
		valid = append(valid, *v)
	}
	return valid, invalid
}
