package shared

const (
	ProjectID = "fitglue-project" // Can be overridden by GOOGLE_CLOUD_PROJECT

	TopicCatalogDuplicates = "topic-catalog-duplicates"

	CollectionExercises  = "exercises"
	CollectionExecutions = "executions"

	ReportObjectPrefix = "reports/"
)
