package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"cup_controller/internal/models"
	"cup_controller/internal/service"
)

// loadProgram reads a YAML (or JSON) program file, fills in missing ids and
// validates it.
//
//	name: Bake
//	repeat: 3
//	steps:
//	  - state: open
//	    durationMinutes: 5
//	  - state: closed
//	    durationMinutes: 10
func loadProgram(path string) (models.CycleProgram, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.CycleProgram{}, err
	}
	defer f.Close()

	var p models.CycleProgram
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return models.CycleProgram{}, fmt.Errorf("parse %s: %w", path, err)
	}

	p = service.NormalizeProgram(p)
	if err := service.ValidateProgram(p); err != nil {
		return models.CycleProgram{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}
