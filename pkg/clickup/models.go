package clickup

// User is a ClickUp account.
type User struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email,omitempty"`
	Color          string `json:"color,omitempty"`
	Initials       string `json:"initials,omitempty"`
	ProfilePicture string `json:"profilePicture,omitempty"`
	Role           int    `json:"role,omitempty"`
}

// Member wraps a user in workspace and space member lists.
type Member struct {
	User User `json:"user"`
}

// Workspace is a ClickUp workspace. The v2 API calls it a team.
type Workspace struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Color   string   `json:"color,omitempty"`
	Avatar  string   `json:"avatar,omitempty"`
	Members []Member `json:"members,omitempty"`
}

// Status is a workflow status of a space, list or task.
type Status struct {
	ID     string `json:"id,omitempty"`
	Status string `json:"status"`
	Type   string `json:"type,omitempty"`
	Color  string `json:"color,omitempty"`
}

// Location references the space, folder or list that contains an object.
type Location struct {
	ID     string `json:"id"`
	Name   string `json:"name,omitempty"`
	Hidden bool   `json:"hidden,omitempty"`
	Access bool   `json:"access,omitempty"`
}

// Space is the top level of the hierarchy inside a workspace.
type Space struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Color             string   `json:"color,omitempty"`
	Private           bool     `json:"private"`
	Avatar            string   `json:"avatar,omitempty"`
	MultipleAssignees bool     `json:"multiple_assignees"`
	Archived          bool     `json:"archived"`
	Statuses          []Status `json:"statuses,omitempty"`
	Members           []Member `json:"members,omitempty"`
}

// Folder groups lists inside a space.
type Folder struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	OrderIndex       int      `json:"orderindex"`
	OverrideStatuses bool     `json:"override_statuses"`
	Hidden           bool     `json:"hidden"`
	Archived         bool     `json:"archived"`
	TaskCount        Count    `json:"task_count"`
	Space            Location `json:"space"`
	Lists            []List   `json:"lists,omitempty"`
}

// TaskPriority is the priority object attached to tasks and lists.
type TaskPriority struct {
	ID       string `json:"id,omitempty"`
	Priority string `json:"priority"`
	Color    string `json:"color,omitempty"`
}

// List holds tasks. It lives in a folder or directly in a space.
type List struct {
	ID               string        `json:"id"`
	Name             string        `json:"name"`
	OrderIndex       int           `json:"orderindex"`
	Content          string        `json:"content,omitempty"`
	Status           *Status       `json:"status,omitempty"`
	Priority         *TaskPriority `json:"priority,omitempty"`
	Assignee         *User         `json:"assignee,omitempty"`
	TaskCount        Count         `json:"task_count"`
	DueDate          Timestamp     `json:"due_date"`
	StartDate        Timestamp     `json:"start_date"`
	Folder           *Location     `json:"folder,omitempty"`
	Space            *Location     `json:"space,omitempty"`
	Archived         bool          `json:"archived"`
	OverrideStatuses bool          `json:"override_statuses"`
	PermissionLevel  string        `json:"permission_level,omitempty"`
}

// Tag is a task label.
type Tag struct {
	Name    string `json:"name"`
	TagFg   string `json:"tag_fg,omitempty"`
	TagBg   string `json:"tag_bg,omitempty"`
	Creator int64  `json:"creator,omitempty"`
}

// Task is a unit of work.
type Task struct {
	ID           string        `json:"id"`
	CustomID     string        `json:"custom_id,omitempty"`
	Name         string        `json:"name"`
	TextContent  string        `json:"text_content,omitempty"`
	Description  string        `json:"description,omitempty"`
	Status       Status        `json:"status"`
	OrderIndex   string        `json:"orderindex,omitempty"`
	DateCreated  Timestamp     `json:"date_created"`
	DateUpdated  Timestamp     `json:"date_updated"`
	DateClosed   Timestamp     `json:"date_closed"`
	Archived     bool          `json:"archived"`
	Creator      User          `json:"creator"`
	Assignees    []User        `json:"assignees,omitempty"`
	Tags         []Tag         `json:"tags,omitempty"`
	Parent       string        `json:"parent,omitempty"`
	Priority     *TaskPriority `json:"priority,omitempty"`
	DueDate      Timestamp     `json:"due_date"`
	StartDate    Timestamp     `json:"start_date"`
	TimeEstimate int64         `json:"time_estimate,omitempty"`
	CustomFields []CustomField `json:"custom_fields,omitempty"`
	Checklists   []Checklist   `json:"checklists,omitempty"`
	List         Location      `json:"list"`
	Folder       Location      `json:"folder"`
	Space        Location      `json:"space"`
	URL          string        `json:"url,omitempty"`
}

// Comment is a comment on a task or list.
type Comment struct {
	ID          StringID  `json:"id"`
	CommentText string    `json:"comment_text"`
	User        User      `json:"user"`
	Resolved    bool      `json:"resolved"`
	Assignee    *User     `json:"assignee,omitempty"`
	AssignedBy  *User     `json:"assigned_by,omitempty"`
	Date        Timestamp `json:"date"`
	ReplyCount  Count     `json:"reply_count"`
}

// CreatedComment is the acknowledgement returned when a comment is posted.
type CreatedComment struct {
	ID     StringID  `json:"id"`
	HistID string    `json:"hist_id"`
	Date   Timestamp `json:"date"`
}

// Goal is a workspace goal.
type Goal struct {
	ID               string    `json:"id"`
	PrettyID         string    `json:"pretty_id,omitempty"`
	Name             string    `json:"name"`
	TeamID           string    `json:"team_id"`
	Creator          int64     `json:"creator"`
	Color            string    `json:"color,omitempty"`
	Description      string    `json:"description,omitempty"`
	Private          bool      `json:"private"`
	Archived         bool      `json:"archived"`
	PercentCompleted int       `json:"percent_completed"`
	DateCreated      Timestamp `json:"date_created"`
	DueDate          Timestamp `json:"due_date"`
	Owners           []User    `json:"owners,omitempty"`
}

// WebhookHealth reports delivery health of a webhook.
type WebhookHealth struct {
	Status    string `json:"status"`
	FailCount int    `json:"fail_count"`
}

// Webhook is an event subscription.
type Webhook struct {
	ID       string        `json:"id"`
	UserID   int64         `json:"userid"`
	TeamID   int64         `json:"team_id"`
	Endpoint string        `json:"endpoint"`
	ClientID string        `json:"client_id,omitempty"`
	Events   []string      `json:"events"`
	TaskID   StringID      `json:"task_id,omitempty"`
	ListID   StringID      `json:"list_id,omitempty"`
	FolderID StringID      `json:"folder_id,omitempty"`
	SpaceID  StringID      `json:"space_id,omitempty"`
	Health   WebhookHealth `json:"health"`
	Secret   string        `json:"secret,omitempty"`
}

// TimeEntryTask is the task a time entry was tracked against.
type TimeEntryTask struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TimeEntry is a tracked time interval.
type TimeEntry struct {
	ID          string         `json:"id"`
	Task        *TimeEntryTask `json:"task,omitempty"`
	WorkspaceID string         `json:"wid"`
	User        User           `json:"user"`
	Billable    bool           `json:"billable"`
	Start       Timestamp      `json:"start"`
	End         Timestamp      `json:"end"`
	Duration    Count          `json:"duration"`
	Description string         `json:"description,omitempty"`
	Tags        []Tag          `json:"tags,omitempty"`
	Source      string         `json:"source,omitempty"`
}

// Running reports whether the timer is still active. The API marks running
// entries with a negative duration.
func (e TimeEntry) Running() bool {
	return e.Duration < 0
}

// DocParent identifies the object a doc is attached to.
type DocParent struct {
	ID   string `json:"id"`
	Type int    `json:"type"`
}

// Doc is a ClickUp document (v3 API).
type Doc struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Type        int       `json:"type"`
	Creator     int64     `json:"creator"`
	Deleted     bool      `json:"deleted"`
	Archived    bool      `json:"archived"`
	Visibility  string    `json:"visibility,omitempty"`
	Parent      DocParent `json:"parent"`
	WorkspaceID int64     `json:"workspace_id"`
	DateCreated Timestamp `json:"date_created"`
	DateUpdated Timestamp `json:"date_updated"`
}

// CustomField is a field definition, or a field with its value when it is
// read from a task.
type CustomField struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Type           string         `json:"type"`
	TypeConfig     map[string]any `json:"type_config,omitempty"`
	Value          any            `json:"value,omitempty"`
	DateCreated    Timestamp      `json:"date_created"`
	HideFromGuests bool           `json:"hide_from_guests"`
	Required       bool           `json:"required"`
}

// ChecklistItem is one entry of a checklist. Parent nests it under another item.
type ChecklistItem struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	OrderIndex int    `json:"orderindex"`
	Assignee   *User  `json:"assignee,omitempty"`
	Resolved   bool   `json:"resolved"`
	Parent     string `json:"parent,omitempty"`
}

// Checklist is a named list of items on a task.
type Checklist struct {
	ID         string          `json:"id"`
	TaskID     string          `json:"task_id,omitempty"`
	Name       string          `json:"name"`
	OrderIndex int             `json:"orderindex"`
	Resolved   int             `json:"resolved"`
	Unresolved int             `json:"unresolved"`
	Items      []ChecklistItem `json:"items,omitempty"`
}

// ViewParent identifies where a view lives.
type ViewParent struct {
	ID   string `json:"id"`
	Type int    `json:"type"`
}

// View is a saved presentation of tasks (list, board, calendar, ...).
type View struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Type       string     `json:"type"`
	Parent     ViewParent `json:"parent"`
	Protected  bool       `json:"protected"`
	Visibility string     `json:"visibility,omitempty"`
	Creator    int64      `json:"creator,omitempty"`
}

// Guest is a workspace guest with its permissions.
type Guest struct {
	User
	CanEditTags         bool  `json:"can_edit_tags"`
	CanSeeTimeSpent     bool  `json:"can_see_time_spent"`
	CanSeeTimeEstimated bool  `json:"can_see_time_estimated"`
	CanCreateViews      bool  `json:"can_create_views"`
	CustomRoleID        int64 `json:"custom_role_id,omitempty"`
}
