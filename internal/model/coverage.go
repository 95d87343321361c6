package model

// TraceRecord is one observed execution of a source line. Records are
// deduplicated per run; hit counts are never kept.
type TraceRecord struct {
	File Path
	Line int
}

// CoverageStats aggregates line coverage for one file.
type CoverageStats struct {
	File       string  `yaml:"file"`
	Executable int     `yaml:"executable"`
	Covered    int     `yaml:"covered"`
	Percent    float64 `yaml:"percent"`
}
