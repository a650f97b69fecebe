package task

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seedYAML []byte

// SeedTasks returns the example tasks a fresh store starts with.
func SeedTasks() ([]Task, error) {
	var tasks []Task
	if err := yaml.Unmarshal(seedYAML, &tasks); err != nil {
		return nil, fmt.Errorf("parse seed tasks: %w", err)
	}
	for i := range tasks {
		if tasks[i].Tags == nil {
			tasks[i].Tags = []string{}
		}
	}
	return tasks, nil
}
