package api

import "time"

// User is the authenticated identity as the backend reports it.
type User struct {
	ID        int64     `json:"id"`
	GitHubID  int64     `json:"github_id"`
	Username  string    `json:"username"`
	Name      string    `json:"name,omitempty"`
	Email     string    `json:"email,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	GitHubURL string    `json:"github_url,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginURL is the response to the OAuth initiation call.
type LoginURL struct {
	AuthURL string `json:"auth_url"`
}

// Token is the result of a successful authorization-code exchange.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
}

// Repository is a synced snapshot of one external repository.
type Repository struct {
	ID              int64      `json:"id"`
	GitHubID        int64      `json:"github_id"`
	Name            string     `json:"name"`
	FullName        string     `json:"full_name"`
	Description     string     `json:"description,omitempty"`
	HTMLURL         string     `json:"html_url"`
	URL             string     `json:"url"`
	Language        string     `json:"language,omitempty"`
	IsPrivate       bool       `json:"is_private"`
	IsFork          bool       `json:"is_fork"`
	DefaultBranch   string     `json:"default_branch"`
	StarsCount      int        `json:"stars_count"`
	ForksCount      int        `json:"forks_count"`
	OpenIssuesCount int        `json:"open_issues_count"`
	Size            int        `json:"size"`
	LastSyncedAt    *time.Time `json:"last_synced_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`
}

// SyncResult is the response to a repository sync.
type SyncResult struct {
	Message      string       `json:"message"`
	SyncedCount  int          `json:"synced_count"`
	TotalCount   int          `json:"total_count"`
	Repositories []Repository `json:"repositories"`
}

// RepositoryStats aggregates the user's synced repositories.
type RepositoryStats struct {
	TotalRepositories int            `json:"total_repositories"`
	TotalStars        int            `json:"total_stars"`
	TotalForks        int            `json:"total_forks"`
	Languages         map[string]int `json:"languages"`
	PrivateCount      int            `json:"private_count"`
	PublicCount       int            `json:"public_count"`
}

// Analysis status values as the backend reports them.
const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// CodeIssue is one finding from an analysis run. Read-only on this side.
type CodeIssue struct {
	ID          int64     `json:"id"`
	Severity    string    `json:"severity"`
	Category    string    `json:"category"`
	FilePath    string    `json:"file_path"`
	LineNumber  *int      `json:"line_number,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Suggestion  string    `json:"suggestion,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Analysis is a snapshot of one analysis job. The backend owns it; the
// client holds a possibly-stale copy fetched on demand.
type Analysis struct {
	ID             int64       `json:"id"`
	RepositoryID   int64       `json:"repository_id"`
	UserID         int64       `json:"user_id"`
	Status         string      `json:"status"`
	OverallScore   *float64    `json:"overall_score,omitempty"`
	TotalIssues    int         `json:"total_issues"`
	CriticalIssues int         `json:"critical_issues"`
	HighIssues     int         `json:"high_issues"`
	MediumIssues   int         `json:"medium_issues"`
	LowIssues      int         `json:"low_issues"`
	Summary        string      `json:"summary,omitempty"`
	FilesAnalyzed  int         `json:"files_analyzed"`
	LinesAnalyzed  int         `json:"lines_analyzed"`
	TokensUsed     int         `json:"tokens_used"`
	EstimatedCost  float64     `json:"estimated_cost"`
	ErrorMessage   string      `json:"error_message,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	CompletedAt    *time.Time  `json:"completed_at,omitempty"`
	Issues         []CodeIssue `json:"issues,omitempty"`
}

// AnalysisStart is the response to an analysis trigger. The job may already
// be finished (synchronous backend) or still queued.
type AnalysisStart struct {
	Message    string `json:"message"`
	AnalysisID int64  `json:"analysis_id"`
	Status     string `json:"status"`
}
