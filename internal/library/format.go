package library

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/lowaak/smart-trainer/workout-builder/internal/workout"
)

const (
	itemTypeBlock  = "block"
	itemTypeRepeat = "repeat"
)

type fileWorkout struct {
	Name        string     `yaml:"name"`
	Author      string     `yaml:"author,omitempty"`
	Category    string     `yaml:"category,omitempty"`
	Description string     `yaml:"description,omitempty"`
	SportType   string     `yaml:"sport_type,omitempty"`
	Stats       *fileStats `yaml:"stats,omitempty"` // written for reference, ignored on read
	Items       []fileItem `yaml:"items"`
}

type fileStats struct {
	Duration        int     `yaml:"duration"`
	TSS             int     `yaml:"tss"`
	IntensityFactor float64 `yaml:"intensity_factor"`
	NormalizedPower float64 `yaml:"normalized_power"`
	Kilojoules      float64 `yaml:"kilojoules"`
}

type fileItem struct {
	Type     string     `yaml:"type"`
	ID       string     `yaml:"id,omitempty"`
	Kind     string     `yaml:"kind,omitempty"`
	Duration int        `yaml:"duration,omitempty"`
	Power    float64    `yaml:"power,omitempty"`
	PowerEnd float64    `yaml:"power_end,omitempty"`
	Cadence  int        `yaml:"cadence,omitempty"`
	Text     string     `yaml:"text,omitempty"`
	Repeat   int        `yaml:"repeat,omitempty"`
	Blocks   []fileItem `yaml:"blocks,omitempty"`
}

// Encode renders a workout as YAML
func Encode(w workout.Workout) ([]byte, error) {
	fw := fileWorkout{
		Name:        w.Meta.Name,
		Author:      w.Meta.Author,
		Category:    w.Meta.Category,
		Description: w.Meta.Description,
		SportType:   w.Meta.SportType,
		Items:       make([]fileItem, 0, len(w.Items)),
	}
	if w.Stats.Duration > 0 {
		fw.Stats = &fileStats{
			Duration:        w.Stats.Duration,
			TSS:             w.Stats.TSS,
			IntensityFactor: w.Stats.IntensityFactor,
			NormalizedPower: w.Stats.NormalizedPower,
			Kilojoules:      w.Stats.Kilojoules,
		}
	}
	for _, it := range w.Items {
		switch v := it.(type) {
		case workout.Block:
			fw.Items = append(fw.Items, encodeBlock(v))
		case workout.RepeatGroup:
			fi := fileItem{Type: itemTypeRepeat, ID: v.ID, Repeat: v.RepeatCount}
			for _, b := range v.Blocks {
				fi.Blocks = append(fi.Blocks, encodeBlock(b))
			}
			fw.Items = append(fw.Items, fi)
		}
	}

	data, err := yaml.Marshal(fw)
	if err != nil {
		return nil, fmt.Errorf("failed to encode workout: %w", err)
	}
	return data, nil
}

// Decode parses a YAML workout. Values are taken as written; the editing
// engine clamps them on load
func Decode(data []byte) (workout.Workout, error) {
	var fw fileWorkout
	if err := yaml.Unmarshal(data, &fw); err != nil {
		return workout.Workout{}, fmt.Errorf("failed to parse workout: %w", err)
	}

	w := workout.Workout{
		Meta: workout.Metadata{
			Name:        fw.Name,
			Author:      fw.Author,
			Category:    fw.Category,
			Description: fw.Description,
			SportType:   fw.SportType,
		},
		Items: make([]workout.Item, 0, len(fw.Items)),
	}
	for i, fi := range fw.Items {
		switch fi.Type {
		case itemTypeBlock, "":
			w.Items = append(w.Items, decodeBlock(fi))
		case itemTypeRepeat:
			g := workout.RepeatGroup{ID: fi.ID, RepeatCount: fi.Repeat}
			for j, child := range fi.Blocks {
				if child.Type != itemTypeBlock && child.Type != "" {
					return workout.Workout{}, fmt.Errorf("item %d: entry %d: repeat groups can only hold blocks, got %q", i, j, child.Type)
				}
				g.Blocks = append(g.Blocks, decodeBlock(child))
			}
			w.Items = append(w.Items, g)
		default:
			return workout.Workout{}, fmt.Errorf("item %d: unknown type %q", i, fi.Type)
		}
	}
	return w, nil
}

func encodeBlock(b workout.Block) fileItem {
	return fileItem{
		Type:     itemTypeBlock,
		ID:       b.ID,
		Kind:     string(b.Kind),
		Duration: b.Duration,
		Power:    b.PowerStart,
		PowerEnd: b.PowerEnd,
		Cadence:  b.Cadence,
		Text:     b.Text,
	}
}

func decodeBlock(fi fileItem) workout.Block {
	kind := workout.BlockKind(fi.Kind)
	if kind == "" {
		kind = workout.KindSteady
	}
	return workout.Block{
		ID:         fi.ID,
		Kind:       kind,
		Duration:   fi.Duration,
		PowerStart: fi.Power,
		PowerEnd:   fi.PowerEnd,
		Cadence:    fi.Cadence,
		Text:       fi.Text,
	}
}
