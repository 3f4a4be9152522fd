// Package setup scaffolds a new t2d project directory.
package setup

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/t2dkit/t2d/internal/model"
	"github.com/t2dkit/t2d/templates"
)

const recipesDir = "recipes"

// Run initializes a project: the recipes/ and docs/assets/src directories
// plus a starter intent document named after the project. projectName
// overrides the auto-detected name (directory basename if empty). Refuses to
// overwrite an existing recipe.
func Run(projectDir, projectName string) (string, error) {
	absDir, err := filepath.Abs(projectDir)
	if err != nil {
		return "", fmt.Errorf("resolve project dir: %w", err)
	}

	if projectName == "" {
		projectName = filepath.Base(absDir)
	}

	dirs := []string{
		recipesDir,
		"docs/assets/src",
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(absDir, d), 0755); err != nil {
			return "", fmt.Errorf("create directory %s: %w", d, err)
		}
	}

	recipePath := filepath.Join(absDir, recipesDir, projectName+".yaml")
	if _, err := os.Stat(recipePath); err == nil {
		return "", fmt.Errorf("%s already exists", recipePath)
	}

	doc, err := starterIntent(projectName)
	if err != nil {
		return "", err
	}
	content, err := model.SerializeIntent(doc)
	if err != nil {
		return "", fmt.Errorf("serialize starter recipe: %w", err)
	}
	if err := os.WriteFile(recipePath, content, 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", recipePath, err)
	}

	return recipePath, nil
}

// starterIntent reads the embedded template and fills in the project name.
// The result is validated so init can never scaffold a broken document.
func starterIntent(projectName string) (*model.IntentDocument, error) {
	data, err := fs.ReadFile(templates.FS, "recipe.yaml")
	if err != nil {
		return nil, fmt.Errorf("read recipe template: %w", err)
	}

	doc, errs := model.ParseIntent(data)
	if len(errs) > 0 {
		return nil, fmt.Errorf("parse recipe template: %w", errs.Err())
	}

	doc.Name = projectName
	if errs := doc.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("starter recipe for %q invalid: %w", projectName, errs.Err())
	}
	return doc, nil
}
