package app

// Config holds runtime configuration for the application.
type Config struct {
	ArchivePath   string
	QuestionsPath string
	OutDir        string

	// Output
	ReportName string
	EnablePDF  bool
	// SourceAppendix includes the full extracted text of every decoded
	// document as a report appendix.
	SourceAppendix bool

	// Matching
	FoldCase bool
	Window   int

	// Behavior
	Concurrency int
	Verbose     bool
}
