package analysis

import (
	"time"

	"edakit/domain/core"
)

// JobStatus represents the lifecycle state of an analysis job
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusProcessing JobStatus = "processing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// Phase labels reported while a job advances
const (
	PhaseInitializing = "Initializing"
	PhaseDataLoading  = "Data Loading"
	PhaseProfiling    = "Profiling"
	PhaseStatistics   = "Statistical Analysis"
	PhaseQuality      = "Quality Assessment"
	PhaseCorrelation  = "Correlation Analysis"
	PhaseComplete     = "Complete"
	PhaseFailed       = "Failed"
)

// Job tracks one analysis run from submission to a terminal state.
// The lifecycle manager exclusively owns creation and mutation; every
// other component only reads snapshots of it.
type Job struct {
	ID           core.JobID     `json:"job_id"`
	DatasetID    core.DatasetID `json:"dataset_id"`
	Status       JobStatus      `json:"status"`
	Progress     int            `json:"progress"`
	CurrentPhase string         `json:"current_phase"`
	Error        string         `json:"error,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// NewJob creates a queued job for a dataset
func NewJob(datasetID core.DatasetID) *Job {
	now := time.Now().UTC()
	return &Job{
		ID:           core.JobID(core.NewID()),
		DatasetID:    datasetID,
		Status:       StatusQueued,
		Progress:     0,
		CurrentPhase: PhaseInitializing,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// IsTerminal reports whether the job has reached completed or failed
func (j *Job) IsTerminal() bool {
	return j.Status == StatusCompleted || j.Status == StatusFailed
}

// ColumnSkip records an analysis that was not attempted for a column,
// so consumers can distinguish "no outliers" from "not attempted"
type ColumnSkip struct {
	Column   string `json:"column"`
	Analysis string `json:"analysis"`
	Reason   string `json:"reason"`
}

// MissingReport summarizes missing cells overall and per column
type MissingReport struct {
	Count           int                `json:"count"`
	Percent         float64            `json:"percent"`
	ByColumn        map[string]int     `json:"by_column"`
	ByColumnPercent map[string]float64 `json:"by_column_percent"`
}

// DuplicateReport summarizes fully-duplicated rows
type DuplicateReport struct {
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// Profile is the shape/quality overview of a dataset
type Profile struct {
	DatasetID          core.DatasetID  `json:"dataset_id"`
	Rows               int             `json:"rows"`
	Columns            int             `json:"columns"`
	MemoryMB           float64         `json:"memory_mb"`
	DataTypes          map[string]int  `json:"data_types"`
	MissingValues      MissingReport   `json:"missing_values"`
	Duplicates         DuplicateReport `json:"duplicates"`
	NumericColumns     []string        `json:"numeric_columns"`
	CategoricalColumns []string        `json:"categorical_columns"`
	TemporalColumns    []string        `json:"temporal_columns"`
	GeneratedAt        time.Time       `json:"profile_generated_at"`
}

// NumericSummary holds descriptive statistics for a numeric column
type NumericSummary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Q1     float64 `json:"q1"`
	Q3     float64 `json:"q3"`
}

// ValueFrequency is one entry of a categorical top-N tally
type ValueFrequency struct {
	Value   string  `json:"value"`
	Count   int     `json:"count"`
	Percent float64 `json:"percentage"`
}

// CategoricalSummary holds frequency statistics for a categorical column
type CategoricalSummary struct {
	Count     int              `json:"count"`
	Unique    int              `json:"unique"`
	Mode      string           `json:"mode"`
	TopValues []ValueFrequency `json:"top_values"`
	Missing   int              `json:"missing_count"`
}

// Histogram is fixed-width binned frequency data for a numeric column
type Histogram struct {
	Column      string         `json:"column"`
	Bins        []string       `json:"bins"`
	Frequencies []int          `json:"frequencies"`
	BinEdges    []float64      `json:"bin_edges"`
	TotalCount  int            `json:"total_count"`
	Summary     NumericSummary `json:"statistics"`
}

// OutlierReport holds IQR fences and flagged rows for a numeric column
type OutlierReport struct {
	Column     string   `json:"column"`
	LowerBound float64  `json:"lower_bound"`
	UpperBound float64  `json:"upper_bound"`
	IQR        float64  `json:"iqr"`
	Count      int      `json:"outlier_count"`
	Percent    float64  `json:"outlier_percentage"`
	Indices    []int    `json:"outlier_indices"`
	MinOutlier *float64 `json:"min_outlier,omitempty"`
	MaxOutlier *float64 `json:"max_outlier,omitempty"`
}

// NormalityTest holds a Shapiro-Wilk outcome for a numeric column
type NormalityTest struct {
	Column         string  `json:"column"`
	Test           string  `json:"test"`
	Statistic      float64 `json:"statistic"`
	PValue         float64 `json:"p_value"`
	IsNormal       bool    `json:"is_normal"`
	Interpretation string  `json:"interpretation"`
	SampleSize     int     `json:"sample_size"`
}

// DistributionShape classifies a numeric column by skewness and kurtosis
type DistributionShape struct {
	Column        string  `json:"column"`
	Skewness      float64 `json:"skewness"`
	Kurtosis      float64 `json:"kurtosis"`
	SkewLabel     string  `json:"distribution_type"`
	KurtosisLabel string  `json:"kurtosis_type"`
}

// Statistics is the full descriptive-statistics document for a dataset
type Statistics struct {
	DatasetID     core.DatasetID                `json:"dataset_id"`
	Numeric       map[string]NumericSummary     `json:"numerical"`
	Categorical   map[string]CategoricalSummary `json:"categorical"`
	Histograms    map[string]Histogram          `json:"histograms"`
	Outliers      map[string]OutlierReport      `json:"outliers"`
	Normality     map[string]NormalityTest      `json:"normality_tests"`
	Distributions map[string]DistributionShape  `json:"distributions"`
	Skipped       []ColumnSkip                  `json:"skipped,omitempty"`
}

// QualityCheck is one named component of the quality report
type QualityCheck struct {
	Name    string  `json:"name"`
	Status  string  `json:"status"` // "pass", "warn", "fail"
	Score   float64 `json:"score"`
	Details string  `json:"details"`
}

// Quality is the data-quality scoring document
type Quality struct {
	DatasetID       core.DatasetID `json:"dataset_id"`
	Completeness    float64        `json:"completeness"`
	Uniqueness      float64        `json:"uniqueness"`
	Consistency     float64        `json:"consistency"`
	Score           float64        `json:"overall_quality_score"`
	MissingCells    int            `json:"missing_cells"`
	DuplicateRows   int            `json:"duplicate_rows"`
	Checks          []QualityCheck `json:"checks"`
	Recommendations []string       `json:"recommendations"`
}

// CorrelationPair is one unordered column pair with its Pearson outcome
type CorrelationPair struct {
	Column1     string   `json:"column1"`
	Column2     string   `json:"column2"`
	Correlation float64  `json:"correlation"`
	PValue      *float64 `json:"p_value,omitempty"`
	Significant bool     `json:"significant"`
	Strength    string   `json:"strength"`
}

// VIFScore holds the multicollinearity score for one column.
// Score is nil when the regression was singular; Infinite marks that case.
type VIFScore struct {
	Column   string   `json:"column"`
	Score    *float64 `json:"score,omitempty"`
	Infinite bool     `json:"infinite"`
	Severity string   `json:"severity"`
}

// Heatmap is a render-ready correlation matrix with column ordering
type Heatmap struct {
	Columns []string    `json:"columns"`
	Matrix  [][]float64 `json:"matrix"`
	Min     float64     `json:"min_value"`
	Max     float64     `json:"max_value"`
}

// FeatureCluster groups columns that are mutually correlated
type FeatureCluster struct {
	ID             int      `json:"cluster_id"`
	Columns        []string `json:"columns"`
	AvgCorrelation float64  `json:"avg_correlation"`
}

// Insights surfaces the strongest and weakest relationships
type Insights struct {
	TopPositive  []CorrelationPair `json:"strongest_positive"`
	TopNegative  []CorrelationPair `json:"strongest_negative"`
	Uncorrelated []CorrelationPair `json:"uncorrelated_pairs"`
	Connectivity map[string]int    `json:"feature_connectivity"`
}

// Warning is one multicollinearity finding with remediation text
type Warning struct {
	Severity       string   `json:"severity"`
	Columns        []string `json:"columns"`
	Detail         string   `json:"detail"`
	Recommendation string   `json:"recommendation"`
}

// Correlations is the full correlation-analysis document
type Correlations struct {
	DatasetID            core.DatasetID    `json:"dataset_id"`
	Type                 string            `json:"correlation_type"`
	Columns              []string          `json:"columns"`
	Matrix               [][]float64       `json:"matrix"`
	Threshold            float64           `json:"threshold"`
	Pairs                []CorrelationPair `json:"pairs"`
	HighPairs            []CorrelationPair `json:"high_pairs"`
	VeryHighPairs        []CorrelationPair `json:"very_high_pairs"`
	StrengthDistribution map[string]int    `json:"strength_distribution"`
	VIF                  []VIFScore        `json:"vif"`
	Heatmap              Heatmap           `json:"heatmap"`
	Clusters             []FeatureCluster  `json:"clusters"`
	Independent          []string          `json:"independent_features"`
	Insights             Insights          `json:"insights"`
	Warnings             []Warning         `json:"warnings"`
	Assessment           string            `json:"overall_assessment"`
	Message              string            `json:"message,omitempty"`
	Skipped              []ColumnSkip      `json:"skipped,omitempty"`
}

// Result bundles the four documents produced by one completed run.
// The bundle is committed to the result store as a unit.
type Result struct {
	DatasetID    core.DatasetID `json:"dataset_id"`
	Profile      *Profile       `json:"profile"`
	Statistics   *Statistics    `json:"statistics"`
	Quality      *Quality       `json:"quality"`
	Correlations *Correlations  `json:"correlations"`
	AnalyzedAt   time.Time      `json:"analyzed_at"`
}
