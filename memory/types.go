package memory

// ProjectContext captures the free-form planning context attached to a
// project.
type ProjectContext struct {
	Motivation  string   `json:"motivation"`
	WeeklyHours float64  `json:"weeklyHours"`
	Constraints []string `json:"constraints"`
	Resources   []string `json:"resources"`
}

type Project struct {
	ID            string          `json:"id"`
	UserID        string          `json:"userId"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Goal          string          `json:"goal"`
	Status        string          `json:"status"`
	StartDate     string          `json:"startDate"`
	TargetEndDate string          `json:"targetEndDate"`
	Tags          []string        `json:"tags"`
	Color         string          `json:"color"`
	Context       *ProjectContext `json:"context,omitempty"`
	CreatedAt     string          `json:"createdAt"`
	UpdatedAt     string          `json:"updatedAt"`
}

type ProjectUpdate struct {
	Title         *string         `json:"title"`
	Description   *string         `json:"description"`
	Goal          *string         `json:"goal"`
	Status        *string         `json:"status"`
	TargetEndDate *string         `json:"targetEndDate"`
	Tags          *[]string       `json:"tags"`
	Color         *string         `json:"color"`
	Context       *ProjectContext `json:"context"`
}

type Milestone struct {
	ID          string  `json:"id"`
	ProjectID   string  `json:"projectId"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Order       int     `json:"order"`
	DueDate     string  `json:"dueDate"`
	Status      string  `json:"status"`
	CompletedAt *string `json:"completedAt,omitempty"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

type MilestoneUpdate struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Order       *int    `json:"order"`
	DueDate     *string `json:"dueDate"`
	Status      *string `json:"status"`
}

type Task struct {
	ID             string   `json:"id"`
	ProjectID      string   `json:"projectId"`
	MilestoneID    *string  `json:"milestoneId,omitempty"`
	ParentTaskID   *string  `json:"parentTaskId,omitempty"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Status         string   `json:"status"`
	Priority       string   `json:"priority"`
	DueDate        string   `json:"dueDate"`
	StartDate      string   `json:"startDate"`
	EstimatedHours float64  `json:"estimatedHours"`
	ActualHours    float64  `json:"actualHours"`
	Dependencies   []string `json:"dependencies"`
	BlockedBy      []string `json:"blockedBy"`
	Tags           []string `json:"tags"`
	IsToday        bool     `json:"isToday"`
	CompletedAt    *string  `json:"completedAt,omitempty"`
	CreatedAt      string   `json:"createdAt"`
	UpdatedAt      string   `json:"updatedAt"`
}

type TaskUpdate struct {
	MilestoneID    *string   `json:"milestoneId"`
	Title          *string   `json:"title"`
	Description    *string   `json:"description"`
	Status         *string   `json:"status"`
	Priority       *string   `json:"priority"`
	DueDate        *string   `json:"dueDate"`
	StartDate      *string   `json:"startDate"`
	EstimatedHours *float64  `json:"estimatedHours"`
	ActualHours    *float64  `json:"actualHours"`
	Dependencies   *[]string `json:"dependencies"`
	BlockedBy      *[]string `json:"blockedBy"`
	Tags           *[]string `json:"tags"`
	IsToday        *bool     `json:"isToday"`
}

// TaskFilter narrows ListTasks. Zero values mean no filtering.
type TaskFilter struct {
	ProjectID   string
	MilestoneID string
	Status      string
}

// PlanningSession tracks an ongoing project planning conversation.
type PlanningSession struct {
	ID        string   `json:"id"`
	ProjectID string   `json:"projectId"`
	Phase     string   `json:"phase"`
	Notes     []string `json:"notes"`
	CreatedAt string   `json:"createdAt"`
	UpdatedAt string   `json:"updatedAt"`
}

type PlanningSessionUpdate struct {
	Phase *string   `json:"phase"`
	Notes *[]string `json:"notes"`
}
