package pyyouwol

import "github.com/youwol/httpclients/pkg/live"

type HealthzResponse struct {
	Status string `json:"status"`
}

type LoginResponse struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	MemberOf []string `json:"memberOf"`
}

type FolderContent struct {
	Configurations []string `json:"configurations"`
	Folders        []string `json:"folders"`
	Files          []string `json:"files"`
}

// LogResponse is a logged context message.
type LogResponse struct {
	live.ContextMessage
	Failed bool `json:"failed,omitempty"`
}

type LogsResponse struct {
	Logs []LogResponse `json:"logs"`
}

type PathsBook struct {
	Config    string   `json:"config"`
	System    string   `json:"system"`
	Databases string   `json:"databases"`
	Projects  []string `json:"projects"`
	UsersInfo string   `json:"usersInfo"`
	Youwol    string   `json:"youwol"`
}

// EnvironmentConfiguration is the configuration the server runs with. Only the fields
// the clients use are decoded.
type EnvironmentConfiguration struct {
	AvailableProfiles []string  `json:"availableProfiles"`
	HTTPPort          int       `json:"httpPort"`
	OpenidHost        string    `json:"openidHost"`
	ActiveProfile     string    `json:"activeProfile,omitempty"`
	UserEmail         string    `json:"userEmail,omitempty"`
	SelectedRemote    string    `json:"selectedRemote,omitempty"`
	PathsBook         PathsBook `json:"pathsBook"`
}

type EnvironmentStatus struct {
	Configuration EnvironmentConfiguration `json:"configuration"`
	Users         []string                 `json:"users"`
}

type Link struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type Flow struct {
	Name string   `json:"name"`
	Dag  []string `json:"dag"`
}

type Pipeline struct {
	Target struct {
		Family string `json:"family"`
	} `json:"target"`
	Tags        []string `json:"tags"`
	Description string   `json:"description"`
	Flows       []Flow   `json:"flows"`
}

// ProjectResult is either a loaded project or a loading failure; Failure is
// set on failures.
type ProjectResult struct {
	ID       string    `json:"id,omitempty"`
	Name     string    `json:"name,omitempty"`
	Version  string    `json:"version,omitempty"`
	Path     string    `json:"path"`
	Pipeline *Pipeline `json:"pipeline,omitempty"`

	Failure string `json:"failure,omitempty"`
	Message string `json:"message,omitempty"`
}

type ProjectsLoadingResults struct {
	Results []ProjectResult `json:"results"`
}

type Artifact struct {
	ID    string `json:"id"`
	Path  string `json:"path"`
	Links []Link `json:"links"`
}

type Manifest struct {
	Succeeded    bool     `json:"succeeded"`
	Fingerprint  string   `json:"fingerprint"`
	CreationDate string   `json:"creationDate"`
	Files        []string `json:"files"`
}

// StepStatus is the state of a pipeline step. Status is one of "OK",
// "KO", "outdated" or "none".
type StepStatus struct {
	ProjectID      string     `json:"projectId"`
	FlowID         string     `json:"flowId"`
	StepID         string     `json:"stepId"`
	ArtifactFolder string     `json:"artifactFolder"`
	Artifacts      []Artifact `json:"artifacts"`
	Manifest       *Manifest  `json:"manifest,omitempty"`
	Status         string     `json:"status"`
}

type PipelineStatus struct {
	ProjectID string       `json:"projectId"`
	Steps     []StepStatus `json:"steps"`
}
