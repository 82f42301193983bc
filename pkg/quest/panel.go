package quest

import "github.com/jwebster45206/quest-helper/pkg/conditionals"

// Panel groups steps under a heading in the host's sidebar.
type Panel struct {
	Title       string                     `json:"title"`
	Steps       []string                   `json:"steps"` // Step keys in display order
	Recommended []conditionals.Requirement `json:"recommended,omitempty"`
}

// PanelView is a panel with its step keys resolved, ready to render.
type PanelView struct {
	Title       string                     `json:"title"`
	Steps       []Step                     `json:"steps"`
	Recommended []conditionals.Requirement `json:"recommended"`
}

// NewPanel creates a panel from steps and recommended items.
func NewPanel(title string, steps []*Step, recommended ...conditionals.Requirement) Panel {
	keys := make([]string, len(steps))
	for i, s := range steps {
		keys[i] = s.Key
	}
	return Panel{Title: title, Steps: keys, Recommended: recommended}
}

// AddPanel appends a panel.
func (q *Quest) AddPanel(p Panel) {
	q.Panels = append(q.Panels, p)
}

// PanelListing resolves every panel's step keys. Unknown keys are skipped;
// Validate reports them.
func (q *Quest) PanelListing() []PanelView {
	views := make([]PanelView, 0, len(q.Panels))
	for _, p := range q.Panels {
		v := PanelView{
			Title:       p.Title,
			Steps:       make([]Step, 0, len(p.Steps)),
			Recommended: append([]conditionals.Requirement{}, p.Recommended...),
		}
		for _, key := range p.Steps {
			if s, ok := q.Steps[key]; ok {
				v.Steps = append(v.Steps, s)
			}
		}
		views = append(views, v)
	}
	return views
}
