package domain

// Episode is a planned product drop and the root aggregate of the store.
// Nested sequences are owned by the episode; their order is display order.
type Episode struct {
	ID            string         `json:"id"`
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
	CreatedAt     string         `json:"createdAt"`
	UpdatedAt     string         `json:"updatedAt"`
}

type TeamMember struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	Email string `json:"email,omitempty"`
}

type Product struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Variants []string `json:"variants"`
	Quantity int      `json:"quantity"`
	Cost     float64  `json:"cost"`
	Price    float64  `json:"price"`
	Sold     *int     `json:"sold,omitempty"`
}

// Remaining returns the unsold stock for the product.
func (p Product) Remaining() int {
	if p.Sold == nil {
		return p.Quantity
	}
	return p.Quantity - *p.Sold
}

type Task struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Category    TaskCategory `json:"category"`
	Status      TaskStatus   `json:"status"`
	DueDate     string       `json:"dueDate"`
	AssignedTo  string       `json:"assignedTo,omitempty"`
	CreatedAt   string       `json:"createdAt"`
	CompletedAt string       `json:"completedAt,omitempty"`
}

type ContentItem struct {
	ID          string        `json:"id"`
	Type        ContentType   `json:"type"`
	Title       string        `json:"title"`
	Platform    Platform      `json:"platform"`
	Status      ContentStatus `json:"status"`
	DueDate     string        `json:"dueDate"`
	Description string        `json:"description"`
	CreatedAt   string        `json:"createdAt"`
}

type TimelineItem struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	Date      string           `json:"date"`
	Status    TimelineStatus   `json:"status"`
	Category  TimelineCategory `json:"category"`
	CreatedAt string           `json:"createdAt"`
}

type Idea struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Category    string       `json:"category"`
	Priority    IdeaPriority `json:"priority"`
	Files       []IdeaFile   `json:"files"`
	CreatedAt   string       `json:"createdAt"`
}

// IdeaFile references an attachment by location; nothing about its size or type is checked.
type IdeaFile struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
	URL  string `json:"url"`
}

// Event is one row of the activity log written on every successful mutation.
type Event struct {
	ID         int64  `json:"id"`
	TS         string `json:"ts"`
	Type       string `json:"type"`
	EntityKind string `json:"entity_kind"`
	EntityID   string `json:"entity_id,omitempty"`
	Payload    string `json:"payload_json"`
}

// Normalize replaces nil child sequences with empty ones so that the
// persisted document always carries arrays and decodes back identically.
func (e *Episode) Normalize() {
	if e.TeamMembers == nil {
		e.TeamMembers = []TeamMember{}
	}
	if e.Products == nil {
		e.Products = []Product{}
	}
	for i := range e.Products {
		if e.Products[i].Variants == nil {
			e.Products[i].Variants = []string{}
		}
	}
	if e.Tasks == nil {
		e.Tasks = []Task{}
	}
	if e.ContentPlan == nil {
		e.ContentPlan = []ContentItem{}
	}
	if e.Timeline == nil {
		e.Timeline = []TimelineItem{}
	}
	if e.Ideas == nil {
		e.Ideas = []Idea{}
	}
	for i := range e.Ideas {
		if e.Ideas[i].Files == nil {
			e.Ideas[i].Files = []IdeaFile{}
		}
	}
}

// Clone returns a deep copy so callers can mutate nested sequences freely.
func (e Episode) Clone() Episode {
	out := e
	if e.ActualRevenue != nil {
		v := *e.ActualRevenue
		out.ActualRevenue = &v
	}
	out.TeamMembers = append([]TeamMember(nil), e.TeamMembers...)
	out.Tasks = append([]Task(nil), e.Tasks...)
	out.ContentPlan = append([]ContentItem(nil), e.ContentPlan...)
	out.Timeline = append([]TimelineItem(nil), e.Timeline...)
	if e.Products != nil {
		out.Products = make([]Product, len(e.Products))
		for i, p := range e.Products {
			p.Variants = append([]string(nil), p.Variants...)
			if p.Sold != nil {
				s := *p.Sold
				p.Sold = &s
			}
			out.Products[i] = p
		}
	}
	if e.Ideas != nil {
		out.Ideas = make([]Idea, len(e.Ideas))
		for i, idea := range e.Ideas {
			idea.Files = append([]IdeaFile(nil), idea.Files...)
			out.Ideas[i] = idea
		}
	}
	out.Normalize()
	return out
}
