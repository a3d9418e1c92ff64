package config

// Config is the top-level codelocate configuration, corresponding to
// .codelocate.yml.
type Config struct {
	Provider          string   `yaml:"provider" koanf:"provider"`
	Model             string   `yaml:"model" koanf:"model"`
	Strategy          string   `yaml:"strategy" koanf:"strategy"`
	Include           []string `yaml:"include" koanf:"include"`
	Exclude           []string `yaml:"exclude" koanf:"exclude"`
	MaxFilesToAnalyze int      `yaml:"max_files_to_analyze" koanf:"max_files_to_analyze"`
	BatchSize         int      `yaml:"batch_size" koanf:"batch_size"`
	RequestsPerMinute int      `yaml:"requests_per_minute" koanf:"requests_per_minute"`
	LogLevel          string   `yaml:"log_level" koanf:"log_level"`
	ContextFile       string   `yaml:"context_file" koanf:"context_file"`
	Scoring           Scoring  `yaml:"scoring" koanf:"scoring"`
	Symbols           Symbols  `yaml:"symbols" koanf:"symbols"`
}

// Symbols bounds the tree-sitter symbol analysis of one request.
type Symbols struct {
	MaxFiles int   `yaml:"max_files" koanf:"max_files"`
	MaxBytes int64 `yaml:"max_bytes" koanf:"max_bytes"`
}

// Scoring holds the empirically tuned thresholds of the candidate filter
// and the strategies.
type Scoring struct {
	PathThreshold    float64 `yaml:"path_threshold" koanf:"path_threshold"`
	ContentThreshold float64 `yaml:"content_threshold" koanf:"content_threshold"`
	ScoreDivisor     float64 `yaml:"score_divisor" koanf:"score_divisor"`
	PenaltyFactor    float64 `yaml:"penalty_factor" koanf:"penalty_factor"`
	PerKeywordCap    int     `yaml:"per_keyword_cap" koanf:"per_keyword_cap"`
	MaxContentBytes  int     `yaml:"max_content_bytes" koanf:"max_content_bytes"`
	SymbolThreshold  float64 `yaml:"symbol_threshold" koanf:"symbol_threshold"`
	APIThreshold     float64 `yaml:"api_threshold" koanf:"api_threshold"`
	ReasonBonus      float64 `yaml:"reason_bonus" koanf:"reason_bonus"`
	MaxSnippetBytes  int     `yaml:"max_snippet_bytes" koanf:"max_snippet_bytes"`
}
