package course

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/christopherklint97/studycal/internal/scheduler"
	"github.com/invopop/jsonschema"
	"github.com/pelletier/go-toml/v2"
)

// DefaultStatus is assigned to items that leave status empty.
const DefaultStatus = "Not Started"

var completedStatuses = map[string]bool{
	"completed": true,
	"complete":  true,
	"done":      true,
}

// Course is the normalized list of classes to schedule.
type Course struct {
	Name  string `toml:"course" json:"course,omitempty" jsonschema:"description=Course name, used as the calendar label"`
	Items []Item `toml:"items" json:"items" jsonschema:"required,description=Classes in the order they should be studied"`
}

type Item struct {
	Status  string  `toml:"status" json:"status,omitempty" jsonschema:"description=Progress label; Completed or Done items are skipped,default=Not Started"`
	Title   string  `toml:"title" json:"title" jsonschema:"required,minLength=1"`
	Minutes float64 `toml:"minutes" json:"minutes" jsonschema:"required,minimum=0,description=Class length in minutes; may be fractional"`
}

// Load reads a course file. The format is chosen by extension: .toml or .json.
func Load(path string) (*Course, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading course file: %w", err)
	}

	var c Course
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("parsing course file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("parsing course file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported course file format %q (want .toml or .json)", ext)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid course file %s: %w", path, err)
	}
	return &c, nil
}

func (c *Course) Validate() error {
	for i, item := range c.Items {
		if strings.TrimSpace(item.Title) == "" {
			return fmt.Errorf("item %d: title is empty", i+1)
		}
		if math.IsNaN(item.Minutes) || math.IsInf(item.Minutes, 0) || item.Minutes < 0 {
			return fmt.Errorf("item %d (%q): %w", i+1, item.Title, scheduler.ErrInvalidDuration)
		}
	}
	return nil
}

// Completed reports whether the item's status marks it as already studied.
func (i Item) Completed() bool {
	return completedStatuses[strings.ToLower(strings.TrimSpace(i.Status))]
}

// WorkItems converts the course into scheduler input, preserving order.
// Completed items are dropped unless includeCompleted is set.
func (c *Course) WorkItems(includeCompleted bool) []scheduler.WorkItem {
	items := make([]scheduler.WorkItem, 0, len(c.Items))
	for _, item := range c.Items {
		if item.Completed() && !includeCompleted {
			continue
		}
		status := strings.TrimSpace(item.Status)
		if status == "" {
			status = DefaultStatus
		}
		items = append(items, scheduler.WorkItem{
			Status:  status,
			Title:   strings.TrimSpace(item.Title),
			Minutes: item.Minutes,
		})
	}
	return items
}

// Schema returns the JSON Schema of a course file, indented for display.
func Schema() ([]byte, error) {
	r := &jsonschema.Reflector{}
	s := r.Reflect(&Course{})
	s.Title = "studycal course file"

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling schema: %w", err)
	}
	return data, nil
}
