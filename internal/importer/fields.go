package importer

import (
	"strings"

	"github.com/indiesemi/gate2jira/internal/config"
	"github.com/indiesemi/gate2jira/internal/jira"
	"github.com/indiesemi/gate2jira/internal/models"
)

// ResolveFieldIDs finds the ids of the three required custom fields by
// exact display name. System fields are ignored even when names match.
func ResolveFieldIDs(fields []jira.Field, names config.FieldNames) (models.FieldIDs, error) {
	var ids models.FieldIDs
	for _, f := range fields {
		if !f.Custom {
			continue
		}
		switch f.Name {
		case names.EpicLink:
			ids.EpicLink = f.ID
		case names.EpicName:
			ids.EpicName = f.ID
		case names.Risk:
			ids.Risk = f.ID
		}
	}

	var missing []string
	if ids.EpicLink == "" {
		missing = append(missing, names.EpicLink)
	}
	if ids.EpicName == "" {
		missing = append(missing, names.EpicName)
	}
	if ids.Risk == "" {
		missing = append(missing, names.Risk)
	}
	if len(missing) > 0 {
		return ids, &MissingFieldsError{Names: missing}
	}
	return ids, nil
}

// FindProject looks up a project key as typed by an operator: surrounding
// space is ignored and the comparison is upper-case.
func FindProject(projects []jira.Project, key string) (jira.Project, bool) {
	key = strings.ToUpper(strings.TrimSpace(key))
	for _, p := range projects {
		if p.Key == key {
			return p, true
		}
	}
	return jira.Project{}, false
}
