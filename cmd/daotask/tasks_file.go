package main

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"daotask/internal/api"
)

// tasksFile is the YAML layout accepted by "task create -f". Top-level
// dao, repo and tags apply to every task that leaves them empty.
type tasksFile struct {
	DAO   string                  `yaml:"dao"`
	Repo  string                  `yaml:"repo"`
	Tags  []string                `yaml:"tags"`
	Tasks []api.TaskCreateRequest `yaml:"tasks"`
}

func loadTasksFile(path string) ([]api.TaskCreateRequest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var doc tasksFile
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(doc.Tasks) == 0 {
		return nil, errors.New("tasks file contains no tasks")
	}

	reqs := make([]api.TaskCreateRequest, 0, len(doc.Tasks))
	for i, task := range doc.Tasks {
		if task.DAO == "" {
			task.DAO = doc.DAO
		}
		if task.Repo == "" {
			task.Repo = doc.Repo
		}
		if len(task.Tags) == 0 && len(doc.Tags) > 0 {
			task.Tags = append([]string(nil), doc.Tags...)
		}
		if task.Name == "" {
			return nil, fmt.Errorf("task %d: name is required", i+1)
		}
		reqs = append(reqs, task)
	}
	return reqs, nil
}
