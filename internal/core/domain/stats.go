package domain

// CacheStatistics are counters maintained by the derived-data cache.
type CacheStatistics struct {
	TotalFiles         int `json:"totalFiles"`
	CachedFiles        int `json:"cachedFiles"`
	DirectoryCacheHits int `json:"directoryCacheHits"`
	ConfigCacheHits    int `json:"configCacheHits"`
	FileCacheSize      int `json:"fileCacheSize"`
	DirectoryCacheSize int `json:"directoryCacheSize"`
	PendingUpdates     int `json:"pendingUpdates"`
	Evictions          int `json:"evictions"`
	// LastUpdateTime is the Unix millisecond time of the last batch read.
	LastUpdateTime int64 `json:"lastUpdateTime"`
}

// PerformanceMetrics are the orchestrator's raw counters.
type PerformanceMetrics struct {
	TaskParsingSuccess   int `json:"taskParsingSuccess"`
	TaskParsingFailures  int `json:"taskParsingFailures"`
	ProjectDataSuccess   int `json:"projectDataSuccess"`
	ProjectDataFailures  int `json:"projectDataFailures"`
	FallbackToMainThread int `json:"fallbackToMainThread"`
	TotalOperations      int `json:"totalOperations"`

	// AverageTaskParsingMs and AverageProjectDataMs are weighted running averages in milliseconds.
	AverageTaskParsingMs float64 `json:"averageTaskParsingMs"`
	AverageProjectDataMs float64 `json:"averageProjectDataMs"`
}

// CircuitState is a point-in-time view of the circuit breaker.
type CircuitState struct {
	Tripped  bool `json:"tripped"`
	Failures int  `json:"failures"`
	// TrippedAtMs is zero when the breaker is closed.
	TrippedAtMs int64 `json:"trippedAtMs,omitempty"`
}

// WorkerStats are counters reported by a worker implementation.
type WorkerStats struct {
	Workers   int `json:"workers"`
	Submitted int `json:"submitted"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
	Pending   int `json:"pending"`
}

// OrchestratorMetrics is the snapshot returned by the orchestrator.
type OrchestratorMetrics struct {
	PerformanceMetrics
	TaskParsingSuccessRate  float64      `json:"taskParsingSuccessRate"`
	ProjectDataSuccessRate  float64      `json:"projectDataSuccessRate"`
	WorkersEnabled          bool         `json:"workersEnabled"`
	WorkerProcessingEnabled bool         `json:"workerProcessingEnabled"`
	Circuit                 CircuitState `json:"circuit"`
	TaskWorker              WorkerStats  `json:"taskWorker"`
	ProjectWorker           WorkerStats  `json:"projectWorker"`
}

// QueueStats reports pending work in the task worker.
type QueueStats struct {
	TaskQueueSize int `json:"taskQueueSize"`
}
