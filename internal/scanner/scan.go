package scanner

import (
	"github.com/starford/kitscan/internal/models"
	"github.com/starford/kitscan/internal/scenario"
)

// Request selects what a Scan covers.
type Request struct {
	Categories []models.Category
	Scenarios  bool
}

// Scan runs the scanners for the requested categories and, when asked,
// generates scenarios from the scanned commands.
func (s *Scanner) Scan(req Request) (models.Result, error) {
	res := models.Result{
		Selected:           req.Categories,
		ScenariosRequested: req.Scenarios,
	}

	var err error
	for _, c := range req.Categories {
		switch c {
		case models.CategoryCommands:
			res.Commands, err = s.Commands()
		case models.CategoryAgents:
			res.Agents, err = s.Agents()
		case models.CategorySkills:
			res.Skills, err = s.Skills()
		case models.CategoryWorkflows:
			res.Workflows, err = s.Workflows()
		}
		if err != nil {
			return models.Result{}, err
		}
	}

	if req.Scenarios {
		res.Scenarios = scenario.Generate(res.Commands)
	}
	return res, nil
}
