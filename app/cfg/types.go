package cfg

type Cfg struct {
	// Portal configuration
	PortalURL      string
	RulesFile      string
	UserAgent      string
	Headless       bool
	InitialWait    int
	PageTimeout    int
	ScrollAttempts int
	RequestRate    float64

	// Feed configuration
	FeedPath        string
	FeedTitle       string
	FeedLink        string
	FeedDescription string
	SelfURL         string
	MaxItems        int

	// Run policy
	AllowEmpty     bool
	ResetOnCorrupt bool

	// Scheduling and serving
	Schedule string
	Port     string

	// Application metadata
	Timezone string
	Debug    bool
	Version  string
}
