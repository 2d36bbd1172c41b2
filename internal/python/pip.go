package python

import (
	"strings"

	"github.com/mmr-tortoise/vclaunch/internal/model"
)

// pipCandidates are the system pip names probed when no virtual
// environment exists yet.
var pipCandidates = []string{"pip3", "pip"}

// ProbePip reports the availability of pip. When the virtual environment
// is ready, its bundled pip module is the one the launcher would actually
// use, so that is what gets probed. Before the venv exists, the system
// pip is probed instead — purely informational, since venv creation
// bundles its own pip either way.
func ProbePip(v *Venv) model.BinaryStatus {
	status := model.BinaryStatus{Name: "pip"}

	if v != nil && v.Status() == model.StatusReady {
		out, err := runOutput(v.Python(), "-m", "pip", "--version")
		if err != nil {
			return status
		}
		status.Found = true
		status.Path = v.Python()
		status.Version = strings.TrimSpace(out)
		return status
	}

	for _, name := range pipCandidates {
		path, err := lookPath(name)
		if err != nil {
			continue
		}
		status.Found = true
		status.Path = path
		status.OnPath = true
		if out, err := runOutput(path, "--version"); err == nil {
			status.Version = strings.TrimSpace(out)
		}
		return status
	}

	return status
}
