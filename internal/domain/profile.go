package domain

// LocalRepo is a repository discovered under the index folder.
type LocalRepo struct {
	Name string `json:"name" yaml:"name"`
	Path string `json:"path" yaml:"path"`
}

// Profile is what the onboarding step views collect. It is only written
// out once onboarding completes.
type Profile struct {
	Name              string   `json:"name" yaml:"name"`
	Email             string   `json:"email" yaml:"email"`
	Telemetry         bool     `json:"telemetry" yaml:"telemetry"`
	FeaturesSeen      bool     `json:"features_seen" yaml:"features_seen"`
	RemoteServices    bool     `json:"remote_services" yaml:"remote_services"`
	RemoteAccount     string   `json:"remote_account,omitempty" yaml:"remote_account,omitempty"`
	RemoteRepos       []string `json:"remote_repos,omitempty" yaml:"remote_repos,omitempty"`
	IndexFolder       string   `json:"index_folder,omitempty" yaml:"index_folder,omitempty"`
	LocalRepos        []string `json:"local_repos,omitempty" yaml:"local_repos,omitempty"`
	OnboardingVersion int      `json:"onboarding_version,omitempty" yaml:"onboarding_version,omitempty"`
}

// Completed reports whether the profile was produced by a finished
// onboarding run.
func (p Profile) Completed() bool {
	return p.OnboardingVersion > 0
}
