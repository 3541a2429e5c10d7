package userconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/awlens/awlens/internal/errs"
)

// Productivity category names. Classification iterates productive first,
// then distracting; anything unmatched is neutral.
const (
	CategoryProductive  = "productive"
	CategoryNeutral     = "neutral"
	CategoryDistracting = "distracting"
)

// Project attributes time to a named project via its rule set.
type Project struct {
	Name  string  `json:"name"`
	Rules RuleSet `json:"rules"`
}

// ManualTag is an explicitly recorded time range attributed to a project.
// Immutable once created, except via deletion. The project name is not
// validated against existing projects: tagging ahead of definition is
// allowed.
type ManualTag struct {
	ID      string    `json:"id"`
	Project string    `json:"project"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Notes   string    `json:"notes,omitempty"`
	Created time.Time `json:"created"`
}

// CategoryRules maps the productive and distracting categories to rule
// tables. Neutral has no rules; it is the default.
type CategoryRules struct {
	Productive  RuleSet `json:"productive"`
	Distracting RuleSet `json:"distracting"`
}

// document is the wholesale-rewritten JSON file on disk.
type document struct {
	Projects   []Project     `json:"projects"`
	ManualTags []ManualTag   `json:"manual_tags"`
	Categories CategoryRules `json:"categories"`
}

// Store holds the user's analysis configuration: loaded once per
// invocation, rewritten wholesale on any mutation. Concurrent writers are
// out of scope; last write wins.
type Store struct {
	path    string
	logger  *zap.Logger
	doc     document
	warning string
}

// Load reads the configuration at path. A missing file yields empty sets.
// A present but unparseable file also yields empty sets, with a surfaced
// warning instead of a failed report.
func Load(path string, logger *zap.Logger) (*Store, error) {
	s := &Store{path: path, logger: logger}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read analysis config: %w", err)
	}

	if err := json.Unmarshal(data, &s.doc); err != nil {
		corrupt := errs.ConfigCorrupt(fmt.Sprintf("analysis config %s is not valid JSON", path), err)
		s.warning = corrupt.Error()
		s.doc = document{}
		logger.Warn("Analysis config unparseable, continuing with empty project and category sets",
			zap.String("path", path),
			zap.Error(err),
		)
	}

	return s, nil
}

// Warning returns the non-fatal load warning, if any.
func (s *Store) Warning() string {
	return s.warning
}

func (s *Store) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal analysis config: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write analysis config: %w", err)
	}
	return nil
}

// DefineProject creates or replaces a project definition. Redefinition
// replaces the rule set by value.
func (s *Store) DefineProject(name string, rules RuleSet) (*Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errs.Validation("project name must not be empty")
	}
	if _, err := rules.Compile(); err != nil {
		return nil, err
	}

	project := Project{Name: name, Rules: rules}
	replaced := false
	for i, p := range s.doc.Projects {
		if p.Name == name {
			s.doc.Projects[i] = project
			replaced = true
			break
		}
	}
	if !replaced {
		s.doc.Projects = append(s.doc.Projects, project)
	}

	if err := s.save(); err != nil {
		return nil, err
	}
	s.logger.Info("Project defined",
		zap.String("project", name),
		zap.Bool("replaced", replaced),
	)
	return &project, nil
}

// DeleteProject removes a project definition. Manual tags referencing the
// project are kept: they may reference future projects by design.
func (s *Store) DeleteProject(name string) error {
	for i, p := range s.doc.Projects {
		if p.Name == name {
			s.doc.Projects = append(s.doc.Projects[:i], s.doc.Projects[i+1:]...)
			if err := s.save(); err != nil {
				return err
			}
			s.logger.Info("Project deleted", zap.String("project", name))
			return nil
		}
	}
	return errs.NotFound("project %q not found", name)
}

// GetProject returns one project by name.
func (s *Store) GetProject(name string) (*Project, error) {
	for _, p := range s.doc.Projects {
		if p.Name == name {
			return &p, nil
		}
	}
	return nil, errs.NotFound("project %q not found", name)
}

// Projects returns all project definitions sorted by name.
func (s *Store) Projects() []Project {
	projects := make([]Project, len(s.doc.Projects))
	copy(projects, s.doc.Projects)
	sort.Slice(projects, func(i, j int) bool { return projects[i].Name < projects[j].Name })
	return projects
}

// AddTag records a manual time range for a project.
func (s *Store) AddTag(project string, start, end time.Time, notes string) (*ManualTag, error) {
	project = strings.TrimSpace(project)
	if project == "" {
		return nil, errs.Validation("project name must not be empty")
	}
	if !end.After(start) {
		return nil, errs.Validation("tag end %s must be after start %s",
			end.Format(time.RFC3339), start.Format(time.RFC3339))
	}

	tag := ManualTag{
		ID:      uuid.NewString(),
		Project: project,
		Start:   start.UTC(),
		End:     end.UTC(),
		Notes:   notes,
		Created: time.Now().UTC(),
	}
	s.doc.ManualTags = append(s.doc.ManualTags, tag)

	if err := s.save(); err != nil {
		return nil, err
	}
	s.logger.Info("Manual tag added",
		zap.String("tag_id", tag.ID),
		zap.String("project", project),
		zap.Duration("span", end.Sub(start)),
	)
	return &tag, nil
}

// DeleteTag removes a manual tag by id.
func (s *Store) DeleteTag(id string) error {
	for i, t := range s.doc.ManualTags {
		if t.ID == id {
			s.doc.ManualTags = append(s.doc.ManualTags[:i], s.doc.ManualTags[i+1:]...)
			if err := s.save(); err != nil {
				return err
			}
			s.logger.Info("Manual tag deleted", zap.String("tag_id", id))
			return nil
		}
	}
	return errs.NotFound("manual tag %q not found", id)
}

// Tags returns all manual tags, oldest first.
func (s *Store) Tags() []ManualTag {
	tags := make([]ManualTag, len(s.doc.ManualTags))
	copy(tags, s.doc.ManualTags)
	sort.Slice(tags, func(i, j int) bool { return tags[i].Start.Before(tags[j].Start) })
	return tags
}

// TagsForProject returns the project's manual tags overlapping [start, end].
func (s *Store) TagsForProject(project string, start, end time.Time) []ManualTag {
	var tags []ManualTag
	for _, t := range s.doc.ManualTags {
		if t.Project != project {
			continue
		}
		if t.End.Before(start) || t.Start.After(end) {
			continue
		}
		tags = append(tags, t)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].Start.Before(tags[j].Start) })
	return tags
}

// DefineCategory replaces the rule table for the productive or distracting
// category. Neutral takes no rules.
func (s *Store) DefineCategory(category string, rules RuleSet) error {
	if _, err := rules.Compile(); err != nil {
		return err
	}
	switch category {
	case CategoryProductive:
		s.doc.Categories.Productive = rules
	case CategoryDistracting:
		s.doc.Categories.Distracting = rules
	case CategoryNeutral:
		return errs.Validation("the neutral category is the default and takes no rules")
	default:
		return errs.Validation("unknown category %q", category)
	}
	if err := s.save(); err != nil {
		return err
	}
	s.logger.Info("Category rules defined", zap.String("category", category))
	return nil
}

// Categories returns the configured category rule tables.
func (s *Store) Categories() CategoryRules {
	return s.doc.Categories
}
