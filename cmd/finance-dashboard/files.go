package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/iwvelando/finance-dashboard/internal/model"
	"github.com/iwvelando/finance-dashboard/pkg/validation"
	"gopkg.in/yaml.v3"
)

// propertiesFile is the input of the metrics command.
type propertiesFile struct {
	Properties []model.Property `yaml:"properties"`
}

// goalsFile is the input of the project command.
type goalsFile struct {
	Goals model.RetirementGoals `yaml:"goals"`
	Rates []float64             `yaml:"rates,omitempty"`
}

func decodeYAMLFile(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// loadProperties reads and validates a properties file.
func loadProperties(path string) ([]model.Property, error) {
	var file propertiesFile
	if err := decodeYAMLFile(path, &file); err != nil {
		return nil, err
	}
	for i := range file.Properties {
		if err := validation.Property(&file.Properties[i]); err != nil {
			return nil, fmt.Errorf("properties[%d] (%s): %w", i, file.Properties[i].Name, err)
		}
	}
	return file.Properties, nil
}

// loadGoals reads and validates a goals file, returning validation warnings.
func loadGoals(path string) (goalsFile, []string, error) {
	var file goalsFile
	if err := decodeYAMLFile(path, &file); err != nil {
		return goalsFile{}, nil, err
	}
	warnings, err := validation.Goals(file.Goals)
	if err != nil {
		return goalsFile{}, nil, fmt.Errorf("goals: %w", err)
	}
	return file, warnings, nil
}
