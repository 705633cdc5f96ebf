package domain

type EpisodeStatus string

const (
	StatusPlanning   EpisodeStatus = "planning"
	StatusInProgress EpisodeStatus = "in-progress"
	StatusProduction EpisodeStatus = "production"
	StatusMarketing  EpisodeStatus = "marketing"
	StatusLaunched   EpisodeStatus = "launched"
	StatusCompleted  EpisodeStatus = "completed"
)

// EpisodeStatuses lists every episode status in lifecycle order.
var EpisodeStatuses = []EpisodeStatus{
	StatusPlanning, StatusInProgress, StatusProduction, StatusMarketing, StatusLaunched, StatusCompleted,
}

func (s EpisodeStatus) Valid() bool { return contains(EpisodeStatuses, s) }

// Active reports whether the episode still counts as work in flight.
func (s EpisodeStatus) Active() bool {
	switch s {
	case StatusPlanning, StatusInProgress, StatusProduction, StatusMarketing:
		return true
	}
	return false
}

type TaskCategory string

const (
	CategoryDesign     TaskCategory = "design"
	CategoryProduction TaskCategory = "production"
	CategoryMarketing  TaskCategory = "marketing"
	CategoryContent    TaskCategory = "content"
	CategorySales      TaskCategory = "sales"
)

var TaskCategories = []TaskCategory{CategoryDesign, CategoryProduction, CategoryMarketing, CategoryContent, CategorySales}

func (c TaskCategory) Valid() bool { return contains(TaskCategories, c) }

type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in-progress"
	TaskCompleted  TaskStatus = "completed"
	TaskCancelled  TaskStatus = "cancelled"
)

var TaskStatuses = []TaskStatus{TaskPending, TaskInProgress, TaskCompleted, TaskCancelled}

func (s TaskStatus) Valid() bool { return contains(TaskStatuses, s) }

type ContentType string

const (
	ContentPhoto ContentType = "photo"
	ContentVideo ContentType = "video"
)

var ContentTypes = []ContentType{ContentPhoto, ContentVideo}

func (t ContentType) Valid() bool { return contains(ContentTypes, t) }

type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformTikTok    Platform = "tiktok"
	PlatformYouTube   Platform = "youtube"
	PlatformWebsite   Platform = "website"
)

var Platforms = []Platform{PlatformInstagram, PlatformTikTok, PlatformYouTube, PlatformWebsite}

func (p Platform) Valid() bool { return contains(Platforms, p) }

type ContentStatus string

const (
	ContentPlanned    ContentStatus = "planned"
	ContentInProgress ContentStatus = "in-progress"
	ContentCompleted  ContentStatus = "completed"
)

var ContentStatuses = []ContentStatus{ContentPlanned, ContentInProgress, ContentCompleted}

func (s ContentStatus) Valid() bool { return contains(ContentStatuses, s) }

type TimelineStatus string

const (
	TimelineCompleted TimelineStatus = "completed"
	TimelineCurrent   TimelineStatus = "current"
	TimelineUpcoming  TimelineStatus = "upcoming"
)

// TimelineStatuses is also the display precedence of timeline items.
var TimelineStatuses = []TimelineStatus{TimelineCompleted, TimelineCurrent, TimelineUpcoming}

func (s TimelineStatus) Valid() bool { return contains(TimelineStatuses, s) }

type TimelineCategory string

const (
	TimelineMilestone TimelineCategory = "milestone"
	TimelineDeadline  TimelineCategory = "deadline"
	TimelineLaunch    TimelineCategory = "launch"
)

var TimelineCategories = []TimelineCategory{TimelineMilestone, TimelineDeadline, TimelineLaunch}

func (c TimelineCategory) Valid() bool { return contains(TimelineCategories, c) }

type IdeaPriority string

const (
	PriorityLow    IdeaPriority = "low"
	PriorityMedium IdeaPriority = "medium"
	PriorityHigh   IdeaPriority = "high"
)

var IdeaPriorities = []IdeaPriority{PriorityLow, PriorityMedium, PriorityHigh}

func (p IdeaPriority) Valid() bool { return contains(IdeaPriorities, p) }

func contains[T comparable](set []T, v T) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
