package director

import (
	"os"

	"gopkg.in/yaml.v3"
)

// WriteKeyframes writes a keyframe list to a YAML file, directly
// generalizing the teacher's director.WriteScenario.
func WriteKeyframes(kfs []Keyframe, path string) error {
	data, err := yaml.Marshal(KeyframeFile{Version: "1.0", Keyframes: kfs})
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadKeyframes loads an externally-supplied keyframe list, bypassing the
// scene splitter and zoom planner entirely.
func ReadKeyframes(path string) ([]Keyframe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f KeyframeFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return f.Keyframes, nil
}
