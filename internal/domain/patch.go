package domain

// Draft carries the caller-supplied fields of a new episode; identity and
// timestamps are assigned by the episode service.
type Draft struct {
	Name          string         `json:"name"`
	Concept       string         `json:"concept"`
	Status        EpisodeStatus  `json:"status"`
	StartDate     string         `json:"startDate"`
	LaunchDate    string         `json:"launchDate"`
	Budget        float64        `json:"budget"`
	TargetRevenue float64        `json:"targetRevenue"`
	ActualRevenue *float64       `json:"actualRevenue,omitempty"`
	Views         string         `json:"views,omitempty"`
	TeamMembers   []TeamMember   `json:"teamMembers"`
	Products      []Product      `json:"products"`
	Tasks         []Task         `json:"tasks"`
	ContentPlan   []ContentItem  `json:"contentPlan"`
	Timeline      []TimelineItem `json:"timeline"`
	Ideas         []Idea         `json:"ideas"`
}

// Episode builds the episode record for the draft with the given identity.
func (d Draft) Episode(id, now string) Episode {
	e := Episode{
		ID:            id,
		Name:          d.Name,
		Concept:       d.Concept,
		Status:        d.Status,
		StartDate:     d.StartDate,
		LaunchDate:    d.LaunchDate,
		Budget:        d.Budget,
		TargetRevenue: d.TargetRevenue,
		ActualRevenue: d.ActualRevenue,
		Views:         d.Views,
		TeamMembers:   d.TeamMembers,
		Products:      d.Products,
		Tasks:         d.Tasks,
		ContentPlan:   d.ContentPlan,
		Timeline:      d.Timeline,
		Ideas:         d.Ideas,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	e = e.Clone()
	if e.Status == "" {
		e.Status = StatusPlanning
	}
	return e
}

// Patch is a partial update. Nil fields are left untouched; identity and
// createdAt cannot be patched.
type Patch struct {
	Name          *string         `json:"name,omitempty"`
	Concept       *string         `json:"concept,omitempty"`
	Status        *EpisodeStatus  `json:"status,omitempty"`
	StartDate     *string         `json:"startDate,omitempty"`
	LaunchDate    *string         `json:"launchDate,omitempty"`
	Budget        *float64        `json:"budget,omitempty"`
	TargetRevenue *float64        `json:"targetRevenue,omitempty"`
	ActualRevenue *float64        `json:"actualRevenue,omitempty"`
	Views         *string         `json:"views,omitempty"`
	TeamMembers   *[]TeamMember   `json:"teamMembers,omitempty"`
	Products      *[]Product      `json:"products,omitempty"`
	Tasks         *[]Task         `json:"tasks,omitempty"`
	ContentPlan   *[]ContentItem  `json:"contentPlan,omitempty"`
	Timeline      *[]TimelineItem `json:"timeline,omitempty"`
	Ideas         *[]Idea         `json:"ideas,omitempty"`

	// ClearActualRevenue removes the actual revenue and wins over ActualRevenue.
	ClearActualRevenue bool `json:"clearActualRevenue,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return len(p.Fields()) == 0
}

// Fields lists the json names of the fields the patch sets.
func (p Patch) Fields() []string {
	var out []string
	add := func(set bool, name string) {
		if set {
			out = append(out, name)
		}
	}
	add(p.Name != nil, "name")
	add(p.Concept != nil, "concept")
	add(p.Status != nil, "status")
	add(p.StartDate != nil, "startDate")
	add(p.LaunchDate != nil, "launchDate")
	add(p.Budget != nil, "budget")
	add(p.TargetRevenue != nil, "targetRevenue")
	add(p.ActualRevenue != nil || p.ClearActualRevenue, "actualRevenue")
	add(p.Views != nil, "views")
	add(p.TeamMembers != nil, "teamMembers")
	add(p.Products != nil, "products")
	add(p.Tasks != nil, "tasks")
	add(p.ContentPlan != nil, "contentPlan")
	add(p.Timeline != nil, "timeline")
	add(p.Ideas != nil, "ideas")
	return out
}

// Apply merges the patch over e.
func (p Patch) Apply(e *Episode) {
	if p.Name != nil {
		e.Name = *p.Name
	}
	if p.Concept != nil {
		e.Concept = *p.Concept
	}
	if p.Status != nil {
		e.Status = *p.Status
	}
	if p.StartDate != nil {
		e.StartDate = *p.StartDate
	}
	if p.LaunchDate != nil {
		e.LaunchDate = *p.LaunchDate
	}
	if p.Budget != nil {
		e.Budget = *p.Budget
	}
	if p.TargetRevenue != nil {
		e.TargetRevenue = *p.TargetRevenue
	}
	switch {
	case p.ClearActualRevenue:
		e.ActualRevenue = nil
	case p.ActualRevenue != nil:
		v := *p.ActualRevenue
		e.ActualRevenue = &v
	}
	if p.Views != nil {
		e.Views = *p.Views
	}
	if p.TeamMembers != nil {
		e.TeamMembers = append([]TeamMember{}, (*p.TeamMembers)...)
	}
	if p.Products != nil {
		e.Products = append([]Product{}, (*p.Products)...)
	}
	if p.Tasks != nil {
		e.Tasks = append([]Task{}, (*p.Tasks)...)
	}
	if p.ContentPlan != nil {
		e.ContentPlan = append([]ContentItem{}, (*p.ContentPlan)...)
	}
	if p.Timeline != nil {
		e.Timeline = append([]TimelineItem{}, (*p.Timeline)...)
	}
	if p.Ideas != nil {
		e.Ideas = append([]Idea{}, (*p.Ideas)...)
	}
	*e = e.Clone()
}
