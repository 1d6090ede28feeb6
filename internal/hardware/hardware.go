// Package hardware models the host snapshot taken at genesis and the
// synthesis capacity derived from it.
package hardware

import (
	"bufio"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
)

const (
	meminfoPath    = "/proc/meminfo"
	cpuinfoPath    = "/proc/cpuinfo"
	memTotalPrefix = "MemTotal:"
	modelPrefix    = "model name"

	kilobytesPerGigabyte = 1024 * 1024
)

// Body is the immutable hardware snapshot taken once at genesis. It is
// read-only input to the voice pipeline.
type Body struct {
	Platform      string `toml:"platform"      json:"platform"`
	Arch          string `toml:"arch"          json:"arch"`
	TotalMemoryGB int    `toml:"total_memory_gb" json:"totalMemoryGb"`
	CPUModel      string `toml:"cpu_model"     json:"cpuModel"`
	StorageGB     int    `toml:"storage_gb"    json:"storageGb"`
}

// Detect builds a hardware snapshot for the current host. Memory and CPU
// model are probed from procfs where available; on hosts without procfs the
// corresponding fields stay zero-valued and capacity estimation treats the
// machine as unable to run a local backend.
func Detect() Body {
	body := Body{
		Platform:      runtime.GOOS,
		Arch:          runtime.GOARCH,
		TotalMemoryGB: 0,
		CPUModel:      "",
		StorageGB:     0,
	}

	memKB, err := readMemTotalKB(meminfoPath)
	if err == nil {
		body.TotalMemoryGB = int(memKB / kilobytesPerGigabyte)
	}

	model, err := readCPUModel(cpuinfoPath)
	if err == nil {
		body.CPUModel = model
	}

	return body
}

// readMemTotalKB parses the MemTotal line of a meminfo-format file and
// returns the value in kilobytes.
func readMemTotalKB(path string) (int64, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open meminfo: %w", err)
	}

	defer func() { _ = file.Close() }()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, memTotalPrefix) {
			continue
		}

		fields := strings.Fields(strings.TrimPrefix(line, memTotalPrefix))
		if len(fields) == 0 {
			break
		}

		value, parseErr := strconv.ParseInt(fields[0], 10, 64)
		if parseErr != nil {
			return 0, fmt.Errorf("failed to parse MemTotal value: %w", parseErr)
		}

		return value, nil
	}

	if scanErr := scanner.Err(); scanErr != nil {
		return 0, fmt.Errorf("failed to scan meminfo: %w", scanErr)
	}

	return 0, fmt.Errorf("%w: no MemTotal line in %s", os.ErrNotExist, path)
}

// readCPUModel returns the first "model name" entry of a cpuinfo-format file.
func readCPUModel(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open cpuinfo: %w", err)
	}

	defer func() { _ = file.Close() }()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, modelPrefix) {
			continue
		}

		_, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}

		return strings.TrimSpace(value), nil
	}

	if scanErr := scanner.Err(); scanErr != nil {
		return "", fmt.Errorf("failed to scan cpuinfo: %w", scanErr)
	}

	return "", fmt.Errorf("%w: no model name line in %s", os.ErrNotExist, path)
}
