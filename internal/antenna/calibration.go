package antenna

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadCalibration reads a Calibration from a YAML file at path.
func LoadCalibration(path string) (Calibration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Calibration{}, fmt.Errorf("antenna: read calibration %s: %w", path, err)
	}

	var cal Calibration
	if err := yaml.Unmarshal(data, &cal); err != nil {
		return Calibration{}, fmt.Errorf("antenna: parse calibration %s: %w", path, err)
	}
	return cal, nil
}
