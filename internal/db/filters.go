package db

import (
	"strings"

	"github.com/chris/histdb/pkg/models"
)

// filterPred returns the predicate for one filter mode, or nil for Global.
// Host matching is case-insensitive when foldHost is set, as search does.
func filterPred(mode models.FilterMode, shell models.Context, foldHost bool) Pred {
	switch mode {
	case models.FilterHost:
		if foldHost {
			return Eq("lower(hostname)", strings.ToLower(shell.Hostname))
		}
		return Eq("hostname", shell.Hostname)
	case models.FilterSession:
		return Eq("session", shell.Session)
	case models.FilterDirectory:
		return Eq("cwd", shell.Cwd)
	case models.FilterWorkspace:
		return HasPrefix("cwd", shell.WorkspaceRoot())
	default:
		return nil
	}
}

// filterPreds ANDs together every non-global filter mode
func filterPreds(modes []models.FilterMode, shell models.Context, foldHost bool) []Pred {
	var preds []Pred
	for _, mode := range modes {
		if p := filterPred(mode, shell, foldHost); p != nil {
			preds = append(preds, p)
		}
	}
	return preds
}
